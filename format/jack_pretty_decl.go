package format

import (
	"github.com/dhamidi/jack/jack/parser"
)

func (p *JackPrettyPrinter) printClass(class *parser.Class) {
	p.line("class " + class.Name.Name + " {")
	p.indent++

	for _, field := range class.Fields {
		p.printClassVarDecl(field)
	}

	for i, sub := range class.Subroutines {
		if i > 0 || len(class.Fields) > 0 {
			p.newline()
		}
		p.printSubroutineDecl(sub)
	}

	p.indent--
	p.line("}")
}

func (p *JackPrettyPrinter) printClassVarDecl(decl *parser.ClassVarDecl) {
	p.line(decl.Kind.String() + " " + decl.Type.Name() + " " + joinNames(decl.Names) + ";")
}

func (p *JackPrettyPrinter) printSubroutineDecl(sub *parser.SubroutineDecl) {
	p.writeIndent()
	p.write(sub.Kind.String() + " " + sub.ReturnType.Name() + " " + sub.Name.Name + "(")
	for i, param := range sub.Parameters {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Type.Name() + " " + param.Name.Name)
	}
	p.write(") {")
	p.newline()

	p.indent++
	if sub.Body != nil {
		for _, v := range sub.Body.Vars {
			p.line("var " + v.Type.Name() + " " + joinNames(v.Names) + ";")
		}
		for _, stmt := range sub.Body.Statements {
			p.printStatement(stmt)
		}
	}
	p.indent--
	p.line("}")
}
