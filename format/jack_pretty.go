package format

import (
	"bytes"
	"io"
	"strings"

	"github.com/dhamidi/jack/jack/parser"
)

// JackPrettyPrinter writes a syntax tree back out as Jack source. The
// output parses to a tree equal to the input, spans aside.
type JackPrettyPrinter struct {
	w           io.Writer
	indent      int
	indentStr   string
	atLineStart bool
	err         error
}

func NewJackPrettyPrinter(w io.Writer) *JackPrettyPrinter {
	return &JackPrettyPrinter{
		w:           w,
		indentStr:   "    ",
		atLineStart: true,
	}
}

func (p *JackPrettyPrinter) Print(class *parser.Class) error {
	p.printClass(class)
	return p.err
}

func (p *JackPrettyPrinter) writeIndent() {
	if !p.atLineStart {
		return
	}
	for i := 0; i < p.indent; i++ {
		p.write(p.indentStr)
	}
	p.atLineStart = false
}

func (p *JackPrettyPrinter) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *JackPrettyPrinter) newline() {
	p.write("\n")
	p.atLineStart = true
}

// line writes s on its own indented line.
func (p *JackPrettyPrinter) line(s string) {
	p.writeIndent()
	p.write(s)
	p.newline()
}

// SourceEncoder adapts JackPrettyPrinter to the Encoder interface.
type SourceEncoder struct {
	w     io.Writer
	class *parser.Class
}

func NewSourceEncoder(w io.Writer) *SourceEncoder {
	return &SourceEncoder{w: w}
}

func (e *SourceEncoder) Encode(class *parser.Class) error {
	e.class = class
	return write(e.w, e.MarshalText)
}

func (e *SourceEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if err := NewJackPrettyPrinter(&buf).Print(e.class); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func PrettyPrintJack(source []byte) ([]byte, error) {
	return PrettyPrintJackFile(source, "")
}

// PrettyPrintJackFile parses source and prints it in canonical layout.
// Comments are not preserved.
func PrettyPrintJackFile(source []byte, filename string) ([]byte, error) {
	var opts []parser.Option
	if filename != "" {
		opts = append(opts, parser.WithFile(filename))
	}
	class, err := parser.Parse(string(source), opts...)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := NewJackPrettyPrinter(&buf).Print(class); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func joinNames(names []*parser.Identifier) string {
	parts := make([]string, len(names))
	for i, id := range names {
		parts[i] = id.Name
	}
	return strings.Join(parts, ", ")
}
