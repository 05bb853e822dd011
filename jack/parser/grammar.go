package parser

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/exp/ebnf"
)

// StartProduction is the grammar production for a whole source file.
const StartProduction = "Class"

//go:embed grammar.ebnf
var grammarSource string

// GrammarSource returns the syntax accepted by Parse in the EBNF notation
// of golang.org/x/exp/ebnf. Lower-case productions are lexical.
func GrammarSource() string {
	return grammarSource
}

// Grammar parses GrammarSource and verifies that every production is
// defined and reachable from StartProduction.
func Grammar() (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse("grammar.ebnf", strings.NewReader(grammarSource))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(grammar, StartProduction); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return grammar, nil
}
