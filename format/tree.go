package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jack/jack/parser"
)

// TreeEncoder writes one line per node, indented by depth:
//
//	Class [1:1-3:2]
//	  Identifier "A" [1:7-1:8]
type TreeEncoder struct {
	w     io.Writer
	class *parser.Class
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(class *parser.Class) error {
	e.class = class
	return write(e.w, e.MarshalText)
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	writeTree(&sb, e.class, 0)
	return []byte(sb.String()), nil
}

func writeTree(sb *strings.Builder, n parser.Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.NodeKind().String())
	if v := nodeValue(n); v != "" {
		fmt.Fprintf(sb, " %q", v)
	}
	span := n.Bounds()
	fmt.Fprintf(sb, " [%v-%v]\n", span.Start, span.End)
	for _, child := range parser.Children(n) {
		writeTree(sb, child, depth+1)
	}
}
