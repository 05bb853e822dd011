package codebase

import (
	"strings"

	"github.com/samber/lo"

	"github.com/dhamidi/jack/jack/parser"
)

type SymbolKind int

const (
	SymbolClass SymbolKind = iota
	SymbolField
	SymbolStatic
	SymbolConstructor
	SymbolMethod
	SymbolFunction
)

// Symbol is one entry of a file's outline.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Detail   string
	Span     parser.Span // whole declaration
	NameSpan parser.Span
	Children []Symbol
}

// Symbols returns the outline of path: its class with fields and
// subroutines as children. It uses the last tree that parsed.
func (c *Codebase) Symbols(path string) []Symbol {
	f := c.GetFile(path)
	if f == nil || f.Outline == nil {
		return nil
	}
	class := f.Outline

	var children []Symbol
	for _, decl := range class.Fields {
		kind := SymbolField
		if decl.Kind == parser.ClassVarStatic {
			kind = SymbolStatic
		}
		for _, name := range decl.Names {
			children = append(children, Symbol{
				Name:     name.Name,
				Kind:     kind,
				Detail:   decl.Type.Name(),
				Span:     decl.Span,
				NameSpan: name.Span,
			})
		}
	}
	children = append(children, lo.Map(class.Subroutines, func(sub *parser.SubroutineDecl, _ int) Symbol {
		return Symbol{
			Name:     sub.Name.Name,
			Kind:     subroutineSymbolKind(sub.Kind),
			Detail:   signature(sub),
			Span:     sub.Span,
			NameSpan: sub.Name.Span,
		}
	})...)

	return []Symbol{{
		Name:     class.Name.Name,
		Kind:     SymbolClass,
		Span:     class.Span,
		NameSpan: class.Name.Span,
		Children: children,
	}}
}

func subroutineSymbolKind(k parser.SubroutineKind) SymbolKind {
	switch k {
	case parser.SubroutineConstructor:
		return SymbolConstructor
	case parser.SubroutineMethod:
		return SymbolMethod
	}
	return SymbolFunction
}

// signature renders "kind type name(type a, type b)".
func signature(sub *parser.SubroutineDecl) string {
	params := lo.Map(sub.Parameters, func(p *parser.Parameter, _ int) string {
		return p.Type.Name() + " " + p.Name.Name
	})
	return sub.Kind.String() + " " + sub.ReturnType.Name() + " " + sub.Name.Name + "(" + strings.Join(params, ", ") + ")"
}
