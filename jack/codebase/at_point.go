package codebase

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/dhamidi/jack/jack/parser"
)

type CompletionKind int

const (
	CompletionKindMethod CompletionKind = iota
	CompletionKindFunction
	CompletionKindConstructor
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

// ReceiverAtPoint returns the identifier that ends just before column col
// (1-based) of line, which is where a "." was typed.
func ReceiverAtPoint(content []byte, line, col int) string {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}
	text := lines[line-1]
	end := col - 1
	if end > len(text) {
		end = len(text)
	}
	start := end
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	if start == end || isDigit(text[start]) {
		return ""
	}
	return text[start:end]
}

// TypeAtPoint resolves the type of a variable named name as seen from
// line and col of path: a local or parameter of the enclosing subroutine,
// then a field of the class. It returns "" when the name is not a
// variable in scope.
func (c *Codebase) TypeAtPoint(path, name string, line, col int) string {
	f := c.GetFile(path)
	if f == nil || f.Outline == nil {
		return ""
	}
	class := f.Outline
	at := parser.Location{Line: line, Column: col}

	sub, ok := lo.Find(class.Subroutines, func(s *parser.SubroutineDecl) bool {
		return contains(s.Span, at)
	})
	if ok {
		for _, p := range sub.Parameters {
			if p.Name.Name == name {
				return p.Type.Name()
			}
		}
		if sub.Body != nil {
			for _, v := range sub.Body.Vars {
				if hasName(v.Names, name) {
					return v.Type.Name()
				}
			}
		}
	}

	for _, decl := range class.Fields {
		if hasName(decl.Names, name) {
			return decl.Type.Name()
		}
	}
	return ""
}

// CompletionsAtPoint lists what may follow "receiver." where col is the
// 1-based column of the dot. A variable receiver offers the methods of its
// class; a class name offers its functions and constructors.
func (c *Codebase) CompletionsAtPoint(path string, line, col int) []CompletionItem {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	receiver := ReceiverAtPoint(f.Content, line, col)
	if receiver == "" {
		return nil
	}

	wantMethods := true
	className := c.TypeAtPoint(path, receiver, line, col)
	if className == "" {
		className = receiver
		wantMethods = false
	}

	cls := c.FindClass(className)
	if cls == nil {
		return nil
	}

	subs := lo.Filter(cls.Subroutines, func(s *parser.SubroutineDecl, _ int) bool {
		return (s.Kind == parser.SubroutineMethod) == wantMethods
	})
	return lo.Map(subs, func(s *parser.SubroutineDecl, _ int) CompletionItem {
		return CompletionItem{
			Label:      s.Name.Name,
			Kind:       completionKind(s.Kind),
			Detail:     signature(s),
			InsertText: formatSubroutineInsert(s),
		}
	})
}

func completionKind(k parser.SubroutineKind) CompletionKind {
	switch k {
	case parser.SubroutineMethod:
		return CompletionKindMethod
	case parser.SubroutineConstructor:
		return CompletionKindConstructor
	}
	return CompletionKindFunction
}

// formatSubroutineInsert builds a snippet with one placeholder per
// parameter.
func formatSubroutineInsert(s *parser.SubroutineDecl) string {
	if len(s.Parameters) == 0 {
		return s.Name.Name + "()"
	}
	placeholders := lo.Map(s.Parameters, func(p *parser.Parameter, i int) string {
		return "${" + strconv.Itoa(i+1) + ":" + p.Name.Name + "}"
	})
	return s.Name.Name + "(" + strings.Join(placeholders, ", ") + ")"
}

func contains(span parser.Span, at parser.Location) bool {
	return !at.Before(span.Start) && at.Before(span.End)
}

func hasName(names []*parser.Identifier, name string) bool {
	_, found := lo.Find(names, func(id *parser.Identifier) bool {
		return id.Name == name
	})
	return found
}

func isIdentByte(ch byte) bool {
	return ch == '_' || isDigit(ch) || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
