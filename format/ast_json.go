package format

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/dhamidi/jack/jack/parser"
)

type ASTJSONEncoder struct {
	w     io.Writer
	class *parser.Class
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(class *parser.Class) error {
	e.class = class
	return write(e.w, e.MarshalText)
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	text, err := json.MarshalIndent(nodeToDocument(e.class), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}
