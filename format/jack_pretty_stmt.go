package format

import (
	"github.com/dhamidi/jack/jack/parser"
)

// printBlock writes "{", the statements one level deeper, and an indented
// "}" without a trailing newline so an else clause can follow.
func (p *JackPrettyPrinter) printBlock(stmts []parser.Statement) {
	p.write("{")
	p.newline()
	p.indent++
	for _, stmt := range stmts {
		p.printStatement(stmt)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *JackPrettyPrinter) printStatement(stmt parser.Statement) {
	p.writeIndent()
	switch s := stmt.(type) {
	case *parser.LetStatement:
		p.write("let " + s.Target.Name)
		if s.Index != nil {
			p.write("[")
			p.printExpr(s.Index)
			p.write("]")
		}
		p.write(" = ")
		p.printExpr(s.Value)
		p.write(";")

	case *parser.DoStatement:
		p.write("do ")
		p.printCall(s.Call)
		p.write(";")

	case *parser.ReturnStatement:
		p.write("return")
		if s.Value != nil {
			p.write(" ")
			p.printExpr(s.Value)
		}
		p.write(";")

	case *parser.IfStatement:
		p.write("if (")
		p.printExpr(s.Condition)
		p.write(") ")
		p.printBlock(s.Then)
		if len(s.Else) > 0 {
			p.write(" else ")
			p.printBlock(s.Else)
		}

	case *parser.WhileStatement:
		p.write("while (")
		p.printExpr(s.Condition)
		p.write(") ")
		p.printBlock(s.Body)
	}
	p.newline()
}
