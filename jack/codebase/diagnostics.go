package codebase

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/dhamidi/jack/jack/parser"
)

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

type Diagnostic struct {
	Span     parser.Span
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%v: %v: %s", d.Span.Start, d.Severity, d.Message)
}

// Diagnostics reports the parse error of path, if any, and otherwise
// declaration problems in its class. It returns nil for unknown paths.
func (c *Codebase) Diagnostics(path string) []Diagnostic {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	if f.ParseErr != nil {
		return []Diagnostic{errorDiagnostic(f.ParseErr)}
	}

	var diags []Diagnostic
	if want := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)); f.Class.Name.Name != want {
		diags = append(diags, Diagnostic{
			Span:     f.Class.Name.Span,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("class %s is declared in %s", f.Class.Name.Name, filepath.Base(path)),
		})
	}
	if owner := c.FindClass(f.Class.Name.Name); owner != nil && owner != f.Class {
		diags = append(diags, Diagnostic{
			Span:     f.Class.Name.Span,
			Severity: SeverityError,
			Message:  fmt.Sprintf("class %s is declared in another file", f.Class.Name.Name),
		})
	}
	diags = append(diags, duplicateMembers(f.Class)...)
	return diags
}

// errorDiagnostic places a parse error on the offending token or
// character.
func errorDiagnostic(err error) Diagnostic {
	d := Diagnostic{Severity: SeverityError, Message: err.Error()}

	var tokErr *parser.UnexpectedTokenError
	var charErr *parser.UnrecognizedCharacterError
	switch {
	case errors.As(err, &tokErr):
		d.Span = tokErr.Got.Span()
		d.Message = trimLocation(tokErr.Error(), tokErr.File)
	case errors.As(err, &charErr):
		d.Span = parser.Span{Start: charErr.Location, End: charErr.Location}
		d.Message = trimLocation(charErr.Error(), charErr.File)
	}
	if d.Span.End == d.Span.Start {
		d.Span.End.Column++
		d.Span.End.Offset++
	}
	return d
}

// trimLocation drops the "file:line:col: " prefix, which editors show on
// their own.
func trimLocation(msg, file string) string {
	if file != "" {
		msg = strings.TrimPrefix(msg, file+":")
	}
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func duplicateMembers(class *parser.Class) []Diagnostic {
	var diags []Diagnostic
	declared := map[string]bool{}
	report := func(id *parser.Identifier, what string) {
		if declared[id.Name] {
			diags = append(diags, Diagnostic{
				Span:     id.Span,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s %s is already declared in class %s", what, id.Name, class.Name.Name),
			})
			return
		}
		declared[id.Name] = true
	}

	for _, field := range class.Fields {
		for _, name := range field.Names {
			report(name, field.Kind.String())
		}
	}
	for _, sub := range class.Subroutines {
		report(sub.Name, sub.Kind.String())
	}
	return diags
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	_, found := lo.Find(diags, func(d Diagnostic) bool {
		return d.Severity == SeverityError
	})
	return found
}
