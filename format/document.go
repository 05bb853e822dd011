package format

import (
	"github.com/dhamidi/jack/jack/parser"
)

// astNode is the serialized shape shared by the JSON and YAML encoders.
type astNode struct {
	Kind     string     `json:"kind" yaml:"kind"`
	Span     *astSpan   `json:"span,omitempty" yaml:"span,omitempty"`
	Value    string     `json:"value,omitempty" yaml:"value,omitempty"`
	Children []*astNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type astSpan struct {
	Start astPosition `json:"start" yaml:"start"`
	End   astPosition `json:"end" yaml:"end"`
}

type astPosition struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Offset int `json:"offset" yaml:"offset"`
}

func nodeToDocument(n parser.Node) *astNode {
	doc := &astNode{
		Kind:  n.NodeKind().String(),
		Value: nodeValue(n),
	}

	span := n.Bounds()
	if span.Start.Line != 0 || span.End.Line != 0 {
		doc.Span = &astSpan{
			Start: astPosition{Line: span.Start.Line, Column: span.Start.Column, Offset: span.Start.Offset},
			End:   astPosition{Line: span.End.Line, Column: span.End.Column, Offset: span.End.Offset},
		}
	}

	children := parser.Children(n)
	if len(children) > 0 {
		doc.Children = make([]*astNode, len(children))
		for i, child := range children {
			doc.Children[i] = nodeToDocument(child)
		}
	}

	return doc
}

// nodeValue is the text a node carries beyond its children: a name, a
// literal, an operator or a declaration kind.
func nodeValue(n parser.Node) string {
	switch n := n.(type) {
	case *parser.Identifier:
		return n.Name
	case *parser.ClassVarDecl:
		return n.Kind.String()
	case *parser.SubroutineDecl:
		return n.Kind.String()
	case *parser.Type:
		return n.Primitive.String()
	case *parser.BinaryExpression:
		return n.Op.String()
	case *parser.UnaryExpression:
		return n.Op.String()
	case *parser.KeywordExpression:
		return n.Value.String()
	case *parser.NumberExpression:
		return n.Literal
	case *parser.StringExpression:
		return n.Text
	}
	return ""
}
