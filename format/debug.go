package format

import (
	"io"

	"github.com/k0kubun/pp"

	"github.com/dhamidi/jack/jack/parser"
)

// DebugEncoder dumps the tree's Go values with pp. pp's coloring switch is
// package-global, so DebugEncoders with different settings must not run
// concurrently.
type DebugEncoder struct {
	w     io.Writer
	class *parser.Class
	color bool
}

func NewDebugEncoder(w io.Writer) *DebugEncoder {
	return &DebugEncoder{w: w}
}

// WithColor turns on ANSI colors in the dump.
func (e *DebugEncoder) WithColor(color bool) *DebugEncoder {
	e.color = color
	return e
}

func (e *DebugEncoder) Encode(class *parser.Class) error {
	e.class = class
	return write(e.w, e.MarshalText)
}

func (e *DebugEncoder) MarshalText() ([]byte, error) {
	pp.ColoringEnabled = e.color
	return []byte(pp.Sprintln(e.class)), nil
}
