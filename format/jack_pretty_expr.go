package format

import (
	"github.com/dhamidi/jack/jack/parser"
)

func (p *JackPrettyPrinter) printExpr(expr parser.Expression) {
	switch e := expr.(type) {
	case *parser.BinaryExpression:
		p.printBinaryExpr(e)
	case *parser.UnaryExpression:
		p.write(e.Op.String())
		p.printOperand(e.Operand, true)
	case *parser.IdentifierExpression:
		p.write(e.Identifier.Name)
		if e.Index != nil {
			p.write("[")
			p.printExpr(e.Index)
			p.write("]")
		}
	case *parser.KeywordExpression:
		p.write(e.Value.String())
	case *parser.NumberExpression:
		p.write(e.Literal)
	case *parser.StringExpression:
		p.write(quoteString(e.Text))
	case *parser.CallExpression:
		p.printCall(e)
	}
}

// printBinaryExpr relies on chains folding left to right. A binary right
// operand needs parentheses to keep its shape, and so does a unary operand
// on either side, since a unary operator takes the rest of the chain. The
// operand of a unary operator is parenthesized the same way as a right
// operand, which reads better and parses back to the same tree.
func (p *JackPrettyPrinter) printBinaryExpr(e *parser.BinaryExpression) {
	p.printOperand(e.Left, false)
	p.write(" " + e.Op.String() + " ")
	p.printOperand(e.Right, true)
}

func (p *JackPrettyPrinter) printOperand(expr parser.Expression, right bool) {
	needParens := false
	switch expr.(type) {
	case *parser.UnaryExpression:
		needParens = true
	case *parser.BinaryExpression:
		needParens = right
	}
	if needParens {
		p.write("(")
		p.printExpr(expr)
		p.write(")")
		return
	}
	p.printExpr(expr)
}

func (p *JackPrettyPrinter) printCall(call *parser.CallExpression) {
	if call.Receiver != nil {
		p.write(call.Receiver.Name + ".")
	}
	p.write(call.Name.Name + "(")
	for i, arg := range call.Arguments {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(arg)
	}
	p.write(")")
}

// quoteString picks a quote character the text does not contain
// unescaped. String values keep their escapes, so one always exists.
func quoteString(text string) string {
	if hasUnescaped(text, '"') {
		return "'" + text + "'"
	}
	return `"` + text + `"`
}

func hasUnescaped(text string, quote byte) bool {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case quote:
			return true
		}
	}
	return false
}
