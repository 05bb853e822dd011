package format

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/jack/jack/parser"
)

type ASTYAMLEncoder struct {
	w     io.Writer
	class *parser.Class
}

func NewASTYAMLEncoder(w io.Writer) *ASTYAMLEncoder {
	return &ASTYAMLEncoder{w: w}
}

func (e *ASTYAMLEncoder) Encode(class *parser.Class) error {
	e.class = class
	return write(e.w, e.MarshalText)
}

func (e *ASTYAMLEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(nodeToDocument(e.class)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
