package format

import (
	"encoding"
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/jack/jack/parser"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *parser.Class) error
}

var encoders = map[string]func(io.Writer) Encoder{
	"json":   func(w io.Writer) Encoder { return NewASTJSONEncoder(w) },
	"yaml":   func(w io.Writer) Encoder { return NewASTYAMLEncoder(w) },
	"tree":   func(w io.Writer) Encoder { return NewTreeEncoder(w) },
	"debug":  func(w io.Writer) Encoder { return NewDebugEncoder(w) },
	"source": func(w io.Writer) Encoder { return NewSourceEncoder(w) },
}

// Names lists the formats accepted by NewEncoder.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	newEncoder, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Names())
	}
	return newEncoder(w), nil
}

// write copies the output of marshal to w.
func write(w io.Writer, marshal func() ([]byte, error)) error {
	text, err := marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
