package parser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnexpectedToken       = errors.New("unexpected token")
	ErrUnrecognizedCharacter = errors.New("unrecognized character")
)

// UnexpectedTokenError reports a token the grammar does not allow at the
// cursor. Rule names the grammar rule that was being parsed.
type UnexpectedTokenError struct {
	File     string
	Rule     string
	Expected []TokenKind
	Got      Token
}

func (e *UnexpectedTokenError) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteByte(':')
	}
	sb.WriteString(e.Got.Start.String())
	sb.WriteString(": ")
	if e.Rule != "" {
		sb.WriteString(e.Rule)
		sb.WriteString(": ")
	}
	sb.WriteString("expected ")
	sb.WriteString(describeKinds(e.Expected))
	sb.WriteString(", got ")
	sb.WriteString(describeToken(e.Got))
	return sb.String()
}

func (e *UnexpectedTokenError) Is(target error) bool {
	return target == ErrUnexpectedToken
}

func (e *UnexpectedTokenError) Location() Location {
	return e.Got.Start
}

// UnrecognizedCharacterError reports a character that starts no token.
type UnrecognizedCharacterError struct {
	File     string
	Char     rune
	Location Location
}

func (e *UnrecognizedCharacterError) Error() string {
	prefix := ""
	if e.File != "" {
		prefix = e.File + ":"
	}
	return fmt.Sprintf("%s%v: unrecognized character %q", prefix, e.Location, e.Char)
}

func (e *UnrecognizedCharacterError) Is(target error) bool {
	return target == ErrUnrecognizedCharacter
}

func describeKinds(kinds []TokenKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = quoteKind(k)
	}
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}
	return "one of " + strings.Join(names, ", ")
}

func describeToken(tok Token) string {
	if tok.Value != "" {
		return fmt.Sprintf("%s %q", quoteKind(tok.Kind), tok.Value)
	}
	return quoteKind(tok.Kind)
}

func quoteKind(k TokenKind) string {
	switch k {
	case TokenEOF, TokenIdent, TokenNumber, TokenString:
		return k.String()
	}
	return "'" + k.String() + "'"
}
