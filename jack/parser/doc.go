// Package parser implements the front end for Jack, a small class-based
// language: a tokenizer and a recursive-descent parser that produce a typed
// syntax tree.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Source    │────▶│   Lexer     │────▶│   Parser    │
//	│  (string)   │     │  (tokens)   │     │  (*Class)   │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// The Lexer produces one token per call and finishes with a single Eof
// token. The Parser consumes a complete token buffer, one token of
// lookahead at a time, and returns the root *Class or the first error.
//
// # Tokens
//
// Keywords, literal constants, symbols and operators come from ordered
// static tables; the first table entry matching at the current offset
// wins. Keywords and literal constants only match on a word boundary, so
// "classic" is one Identifier. Identifiers are [A-Za-z_][0-9A-Za-z_]* and
// numbers are (0|[1-9][0-9]*)(\.[0-9]+)?.
//
// Whitespace and comments are skipped between tokens. Line comments run to
// the end of the line; block comments run to the first "*/" and do not
// nest. String literals use either quote character and end only at the
// matching one. A backslash protects the character after it, and the pair
// is kept verbatim in the token value.
//
// A character that starts no token ends the stream: the Lexer returns Eof
// at that location and reports an *UnrecognizedCharacterError from Err.
// WithLenient drops the error and keeps only the early Eof.
//
// # Source Context
//
// Every token carries a start and end Location with a 1-based line and
// column and a 0-based byte offset. Every consumed newline advances the
// line, including newlines inside comments and strings. Every node embeds
// a Span from its first token's start to its last token's end.
//
// # Grammar
//
//	class          = "class" ident "{" classVarDec* subroutineDec* "}"
//	classVarDec    = ("static" | "field") type ident ("," ident)* ";"
//	subroutineDec  = ("constructor" | "method" | "function") type ident
//	                 "(" [param ("," param)*] ")" subroutineBody
//	subroutineBody = "{" varDec* statement* "}"
//	varDec         = "var" type ident ("," ident)* ";"
//	statement      = let | if | while | do | return
//	expression     = term (op term)*
//	term           = number | string | keyword | ident | ident "[" expression "]"
//	               | call | "(" expression ")" | ("-" | "~") expression
//	call           = [ident "."] ident "(" [expression ("," expression)*] ")"
//
// Binary operators have no precedence. A chain folds strictly left to
// right, so "a + b * c" parses as (a + b) * c. A unary operator applies to
// the whole expression after it. Parentheses group without producing a
// node of their own.
//
// # Errors
//
// Parsing stops at the first token the grammar does not allow and returns
// an *UnexpectedTokenError naming the rule, the expected kinds and the
// token found. Both error types match their sentinels with errors.Is:
//
//	class, err := parser.Parse(src, parser.WithFile("List.jack"))
//	if errors.Is(err, parser.ErrUnexpectedToken) {
//	    // ...
//	}
package parser
