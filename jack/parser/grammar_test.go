package parser

import (
	"sort"
	"testing"
	"unicode"

	"golang.org/x/exp/ebnf"
)

// grammarTokens collects the literal tokens of the syntactic productions.
func grammarTokens(grammar ebnf.Grammar) []string {
	seen := map[string]bool{}
	var walk func(ebnf.Expression)
	walk = func(expr ebnf.Expression) {
		switch x := expr.(type) {
		case ebnf.Alternative:
			for _, e := range x {
				walk(e)
			}
		case ebnf.Sequence:
			for _, e := range x {
				walk(e)
			}
		case *ebnf.Group:
			walk(x.Body)
		case *ebnf.Option:
			walk(x.Body)
		case *ebnf.Repetition:
			walk(x.Body)
		case *ebnf.Token:
			seen[x.String] = true
		}
	}
	for name, prod := range grammar {
		if unicode.IsUpper(rune(name[0])) {
			walk(prod.Expr)
		}
	}

	tokens := make([]string, 0, len(seen))
	for tok := range seen {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens
}

func TestGrammarVerifies(t *testing.T) {
	grammar, err := Grammar()
	if err != nil {
		t.Fatalf("Grammar error: %v", err)
	}
	if _, ok := grammar[StartProduction]; !ok {
		t.Errorf("grammar has no %s production", StartProduction)
	}
}

func TestGrammarTokensLex(t *testing.T) {
	grammar, err := Grammar()
	if err != nil {
		t.Fatalf("Grammar error: %v", err)
	}

	for _, lexeme := range grammarTokens(grammar) {
		tokens, err := Tokenize(lexeme)
		if err != nil {
			t.Errorf("Tokenize(%q) error: %v", lexeme, err)
			continue
		}
		if len(tokens) != 2 || tokens[1].Kind != TokenEOF {
			t.Errorf("Tokenize(%q) = %v, want a single token", lexeme, tokens)
			continue
		}
		if tokens[0].Kind == TokenIdent || tokens[0].Kind.String() != lexeme {
			t.Errorf("Tokenize(%q) = %v, want the static token %q", lexeme, tokens[0].Kind, lexeme)
		}
	}
}

func TestGrammarSourceParses(t *testing.T) {
	if _, err := Parse(listClassSource); err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if GrammarSource() == "" {
		t.Error("GrammarSource is empty")
	}
}
