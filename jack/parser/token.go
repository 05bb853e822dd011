package parser

import "fmt"

// Location is a point in the source text. Line and Column are 1-based,
// Offset is the 0-based byte offset.
type Location struct {
	Offset int
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Before reports whether l comes strictly before other.
func (l Location) Before(other Location) bool {
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}

type Span struct {
	Start Location
	End   Location
}

// Bounds returns the span itself. Nodes embed Span, which makes Bounds
// part of every node's method set.
func (s Span) Bounds() Span {
	return s
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenSemicolon
	TokenComma
	TokenDot

	// Keywords
	TokenDo
	TokenElse
	TokenVar
	TokenReturn
	TokenVoid
	TokenWhile
	TokenFunction
	TokenThis
	TokenIf
	TokenDelete
	TokenClass
	TokenLet
	TokenStatic
	TokenField
	TokenConstructor
	TokenMethod
	TokenInt
	TokenChar
	TokenBoolean

	// Literals
	TokenNull
	TokenUndefined
	TokenTrue
	TokenFalse
	TokenNumber
	TokenString
	TokenIdent

	// Brackets
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket

	// Operators
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenLT
	TokenGT
	TokenBitAnd
	TokenBitOr
	TokenBitNot
	TokenAssign
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:         "EOF",
	TokenSemicolon:   ";",
	TokenComma:       ",",
	TokenDot:         ".",
	TokenDo:          "do",
	TokenElse:        "else",
	TokenVar:         "var",
	TokenReturn:      "return",
	TokenVoid:        "void",
	TokenWhile:       "while",
	TokenFunction:    "function",
	TokenThis:        "this",
	TokenIf:          "if",
	TokenDelete:      "delete",
	TokenClass:       "class",
	TokenLet:         "let",
	TokenStatic:      "static",
	TokenField:       "field",
	TokenConstructor: "constructor",
	TokenMethod:      "method",
	TokenInt:         "int",
	TokenChar:        "char",
	TokenBoolean:     "boolean",
	TokenNull:        "null",
	TokenUndefined:   "undefined",
	TokenTrue:        "true",
	TokenFalse:       "false",
	TokenNumber:      "Number",
	TokenString:      "String",
	TokenIdent:       "Identifier",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenLBrace:      "{",
	TokenRBrace:      "}",
	TokenLBracket:    "[",
	TokenRBracket:    "]",
	TokenPlus:        "+",
	TokenMinus:       "-",
	TokenStar:        "*",
	TokenSlash:       "/",
	TokenLT:          "<",
	TokenGT:          ">",
	TokenBitAnd:      "&",
	TokenBitOr:       "|",
	TokenBitNot:      "~",
	TokenAssign:      "=",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is one lexeme. Value is only set for identifiers, numbers and
// strings; for strings it excludes the surrounding quotes.
type Token struct {
	Kind  TokenKind
	Start Location
	End   Location
	Value string
}

func (t Token) Span() Span {
	return Span{Start: t.Start, End: t.End}
}

func (t Token) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%v %q [%v-%v]", t.Kind, t.Value, t.Start, t.End)
	}
	return fmt.Sprintf("%v [%v-%v]", t.Kind, t.Start, t.End)
}

type staticToken struct {
	kind   TokenKind
	lexeme string
}

// The tables below are scanned in order and the first entry whose lexeme
// matches at the current offset wins, so order is significant.

var keywordTokens = []staticToken{
	{TokenDo, "do"},
	{TokenElse, "else"},
	{TokenVar, "var"},
	{TokenReturn, "return"},
	{TokenVoid, "void"},
	{TokenWhile, "while"},
	{TokenFunction, "function"},
	{TokenThis, "this"},
	{TokenIf, "if"},
	{TokenClass, "class"},
	{TokenLet, "let"},
	{TokenStatic, "static"},
	{TokenField, "field"},
	{TokenConstructor, "constructor"},
	{TokenMethod, "method"},
	{TokenInt, "int"},
	{TokenChar, "char"},
	{TokenBoolean, "boolean"},
}

var literalTokens = []staticToken{
	{TokenNull, "null"},
	{TokenUndefined, "undefined"},
	{TokenTrue, "true"},
	{TokenFalse, "false"},
}

var symbolTokens = []staticToken{
	{TokenLParen, "("},
	{TokenRParen, ")"},
	{TokenLBrace, "{"},
	{TokenRBrace, "}"},
	{TokenLBracket, "["},
	{TokenRBracket, "]"},
	{TokenComma, ","},
	{TokenSemicolon, ";"},
	{TokenDot, "."},
}

var operatorTokens = []staticToken{
	{TokenPlus, "+"},
	{TokenMinus, "-"},
	{TokenStar, "*"},
	{TokenSlash, "/"},
	{TokenLT, "<"},
	{TokenGT, ">"},
	{TokenBitAnd, "&"},
	{TokenBitOr, "|"},
	{TokenBitNot, "~"},
	{TokenAssign, "="},
}

// LookupKeyword returns the keyword or literal-constant kind spelled by
// word, or TokenIdent.
func LookupKeyword(word string) TokenKind {
	for _, table := range [][]staticToken{keywordTokens, literalTokens} {
		for _, st := range table {
			if st.lexeme == word {
				return st.kind
			}
		}
	}
	return TokenIdent
}
