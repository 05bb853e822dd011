package parser

import (
	"iter"
	"slices"
	"strings"
	"unicode/utf8"
)

type options struct {
	file    string
	lenient bool
}

// Option configures a Lexer or a Parser.
type Option func(*options)

// WithFile names the source in error messages.
func WithFile(name string) Option {
	return func(o *options) {
		o.file = name
	}
}

// WithLenient makes an unrecognized character end the token stream
// quietly, without recording an error. This matches the behavior of the
// reference tokenizer.
func WithLenient() Option {
	return func(o *options) {
		o.lenient = true
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Lexer turns Jack source text into tokens. The stream is produced once:
// after the Eof token every call to NextToken returns that same token
// again, and a new Lexer is needed to rescan the input.
//
// A Lexer is not safe for concurrent use.
type Lexer struct {
	input   string
	file    string
	pos     int
	line    int
	column  int
	lenient bool
	done    bool
	eof     Token
	err     error
}

func NewLexer(input string, opts ...Option) *Lexer {
	o := newOptions(opts)
	return &Lexer{
		input:   input,
		file:    o.file,
		pos:     0,
		line:    1,
		column:  1,
		lenient: o.lenient,
	}
}

// Tokenize drains a new Lexer over input. The returned slice always ends
// in exactly one Eof token, even when err is non-nil.
func Tokenize(input string, opts ...Option) ([]Token, error) {
	l := NewLexer(input, opts...)
	tokens := slices.Collect(l.All())
	return tokens, l.Err()
}

func (l *Lexer) Position() Location {
	return Location{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// Err returns the *UnrecognizedCharacterError that ended the stream
// early, if any.
func (l *Lexer) Err() error {
	return l.err
}

// All yields the remaining tokens up to and including Eof.
func (l *Lexer) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for !l.done {
			tok := l.NextToken()
			if !yield(tok) {
				return
			}
		}
	}
}

func (l *Lexer) NextToken() Token {
	if l.done {
		return l.eof
	}

	l.skipTrivia()
	start := l.Position()

	if l.pos >= len(l.input) {
		return l.finish(start)
	}

	if ch := l.peek(); ch == '"' || ch == '\'' {
		return l.scanString(start)
	}

	for _, table := range [][]staticToken{keywordTokens, literalTokens} {
		if tok, ok := l.scanStatic(start, table, true); ok {
			return tok
		}
	}
	for _, table := range [][]staticToken{symbolTokens, operatorTokens} {
		if tok, ok := l.scanStatic(start, table, false); ok {
			return tok
		}
	}

	if n := matchIdent(l.input[l.pos:]); n > 0 {
		return l.scanValue(start, TokenIdent, n)
	}
	if n := matchNumber(l.input[l.pos:]); n > 0 {
		return l.scanValue(start, TokenNumber, n)
	}

	if !l.lenient {
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
		l.err = &UnrecognizedCharacterError{File: l.file, Char: r, Location: start}
	}
	return l.finish(start)
}

func (l *Lexer) finish(at Location) Token {
	l.done = true
	l.eof = Token{Kind: TokenEOF, Start: at, End: at}
	return l.eof
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// advance consumes one byte. It is the only place the line and column
// change, so newlines are counted the same way in every context.
func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) skipTrivia() {
	for {
		for isWhitespace(l.peek()) {
			l.advance()
		}
		if l.peek() != '/' {
			return
		}
		switch l.peekN(1) {
		case '/':
			l.skipLineComment()
		case '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) skipLineComment() {
	l.advanceN(2)
	for l.pos < len(l.input) {
		if l.advance() == '\n' {
			return
		}
	}
}

// Block comments do not nest; the first "*/" closes the comment.
func (l *Lexer) skipBlockComment() {
	l.advanceN(2)
	for l.pos < len(l.input) {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			return
		}
		l.advance()
	}
}

func (l *Lexer) scanStatic(start Location, table []staticToken, wordBoundary bool) (Token, bool) {
	rest := l.input[l.pos:]
	for _, st := range table {
		if !strings.HasPrefix(rest, st.lexeme) {
			continue
		}
		if wordBoundary && len(rest) > len(st.lexeme) && isIdentPart(rest[len(st.lexeme)]) {
			continue
		}
		l.advanceN(len(st.lexeme))
		return Token{Kind: st.kind, Start: start, End: l.Position()}, true
	}
	return Token{}, false
}

func (l *Lexer) scanValue(start Location, kind TokenKind, n int) Token {
	value := l.input[l.pos : l.pos+n]
	l.advanceN(n)
	return Token{Kind: kind, Start: start, End: l.Position(), Value: value}
}

// scanString reads a quoted literal. A backslash and the byte after it are
// copied verbatim. The token ends at the closing quote, which is consumed
// but not part of the value.
func (l *Lexer) scanString(start Location) Token {
	quote := l.advance()
	var sb strings.Builder
	for l.pos < len(l.input) && l.peek() != quote {
		if l.peek() == '\\' {
			sb.WriteByte(l.advance())
			if l.pos >= len(l.input) {
				break
			}
		}
		sb.WriteByte(l.advance())
	}
	end := l.Position()
	if l.pos < len(l.input) {
		l.advance()
	}
	return Token{Kind: TokenString, Start: start, End: end, Value: sb.String()}
}

// matchIdent returns the length of the [A-Za-z_][0-9A-Za-z_]* prefix of s.
func matchIdent(s string) int {
	if len(s) == 0 || !isIdentStart(s[0]) {
		return 0
	}
	n := 1
	for n < len(s) && isIdentPart(s[n]) {
		n++
	}
	return n
}

// matchNumber returns the length of the (0|[1-9][0-9]*)(\.[0-9]+)? prefix
// of s.
func matchNumber(s string) int {
	if len(s) == 0 || !isDigit(s[0]) {
		return 0
	}
	n := 1
	if s[0] != '0' {
		for n < len(s) && isDigit(s[n]) {
			n++
		}
	}
	if n+1 < len(s) && s[n] == '.' && isDigit(s[n+1]) {
		n += 2
		for n < len(s) && isDigit(s[n]) {
			n++
		}
	}
	return n
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
