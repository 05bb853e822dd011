package parser

import (
	"slices"

	"github.com/samber/lo"
)

// Parser builds a syntax tree from a complete token buffer using one token
// of lookahead and no backtracking. Each rule starts on its first token and
// leaves the cursor just past its last one. The first grammar violation
// ends the parse; there is no recovery and no partial tree.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	file   string
	tokens []Token
	pos    int
}

var statementStarts = []TokenKind{TokenLet, TokenIf, TokenWhile, TokenDo, TokenReturn}

var subroutineStarts = []TokenKind{TokenConstructor, TokenMethod, TokenFunction}

var typeStarts = []TokenKind{TokenInt, TokenChar, TokenBoolean, TokenVoid, TokenIdent}

var termStarts = []TokenKind{
	TokenTrue, TokenFalse, TokenNull, TokenThis,
	TokenNumber, TokenString, TokenMinus, TokenBitNot, TokenLParen, TokenIdent,
}

var binaryOps = map[TokenKind]BinaryOp{
	TokenPlus:   OpPlus,
	TokenMinus:  OpMinus,
	TokenBitAnd: OpBitAnd,
	TokenBitOr:  OpBitOr,
	TokenStar:   OpMultiply,
	TokenSlash:  OpDivide,
	TokenAssign: OpEqual,
	TokenGT:     OpGreater,
	TokenLT:     OpLess,
	TokenBitNot: OpBitNegation,
}

var binaryOperators = lo.Keys(binaryOps)

var primitiveTypes = map[TokenKind]PrimitiveType{
	TokenInt:     PrimitiveInt,
	TokenChar:    PrimitiveChar,
	TokenBoolean: PrimitiveBoolean,
	TokenVoid:    PrimitiveVoid,
}

var keywordConstants = map[TokenKind]KeywordConstant{
	TokenTrue:  KeywordTrue,
	TokenFalse: KeywordFalse,
	TokenNull:  KeywordNull,
	TokenThis:  KeywordThis,
}

// New returns a Parser over a copy of tokens. The buffer normally ends in
// the Eof token produced by a Lexer; reads past its end see a synthetic
// Eof.
func New(tokens []Token, opts ...Option) *Parser {
	o := newOptions(opts)
	return &Parser{
		file:   o.file,
		tokens: slices.Clone(tokens),
	}
}

// FromLexer drains l into a buffer and returns a Parser over it.
func FromLexer(l *Lexer) *Parser {
	return &Parser{
		file:   l.file,
		tokens: slices.Collect(l.All()),
	}
}

// Parse tokenizes and parses one class. A tokenizer error is reported in
// preference to the grammar error it would otherwise cause.
func Parse(src string, opts ...Option) (*Class, error) {
	l := NewLexer(src, opts...)
	p := FromLexer(l)
	if err := l.Err(); err != nil {
		return nil, err
	}
	return p.Parse()
}

// Parse parses a whole class followed by the end of input.
func (p *Parser) Parse() (*Class, error) {
	class, err := p.parseClass()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("class", TokenEOF); err != nil {
		return nil, err
	}
	return class, nil
}

// ParseExpression parses a single expression followed by the end of input.
func (p *Parser) ParseExpression() (Expression, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("expression", TokenEOF); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseStatement parses a single statement followed by the end of input.
func (p *Parser) ParseStatement() (Statement, error) {
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("statement", TokenEOF); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) current() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	if len(p.tokens) == 0 {
		return Token{Kind: TokenEOF}
	}
	end := p.tokens[len(p.tokens)-1].End
	return Token{Kind: TokenEOF, Start: end, End: end}
}

func (p *Parser) checkCurrent(kinds ...TokenKind) bool {
	if p.pos < len(p.tokens) {
		return lo.Contains(kinds, p.tokens[p.pos].Kind)
	}
	return false
}

func (p *Parser) checkAhead(kinds ...TokenKind) bool {
	if p.pos+1 < len(p.tokens) {
		return lo.Contains(kinds, p.tokens[p.pos+1].Kind)
	}
	return false
}

func (p *Parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if its kind is one of kinds.
func (p *Parser) expect(rule string, kinds ...TokenKind) (Token, error) {
	tok := p.current()
	if !lo.Contains(kinds, tok.Kind) {
		return tok, p.unexpected(rule, kinds...)
	}
	p.advance()
	return tok, nil
}

func (p *Parser) unexpected(rule string, expected ...TokenKind) error {
	return &UnexpectedTokenError{
		File:     p.file,
		Rule:     rule,
		Expected: expected,
		Got:      p.current(),
	}
}

// lastEnd is the end of the most recently consumed token.
func (p *Parser) lastEnd() Location {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		return p.tokens[p.pos-1].End
	}
	return p.current().End
}

func (p *Parser) spanFrom(start Location) Span {
	return Span{Start: start, End: p.lastEnd()}
}

func (p *Parser) parseClass() (*Class, error) {
	start := p.current().Start
	if _, err := p.expect("class", TokenClass); err != nil {
		return nil, err
	}
	name, err := p.parseIdentifier("class")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("class", TokenLBrace); err != nil {
		return nil, err
	}

	var fields []*ClassVarDecl
	for p.checkCurrent(TokenStatic, TokenField) {
		field, err := p.parseClassVarDecl()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	var subroutines []*SubroutineDecl
	for p.checkCurrent(subroutineStarts...) {
		sub, err := p.parseSubroutineDecl()
		if err != nil {
			return nil, err
		}
		subroutines = append(subroutines, sub)
	}

	if !p.checkCurrent(TokenRBrace) {
		expected := append(slices.Clone(subroutineStarts), TokenRBrace)
		if len(subroutines) == 0 {
			expected = append([]TokenKind{TokenStatic, TokenField}, expected...)
		}
		return nil, p.unexpected("class", expected...)
	}
	p.advance()

	return &Class{
		Span:        p.spanFrom(start),
		Name:        name,
		Fields:      fields,
		Subroutines: subroutines,
	}, nil
}

func (p *Parser) parseClassVarDecl() (*ClassVarDecl, error) {
	const rule = "class variable declaration"
	start := p.current().Start
	tok, err := p.expect(rule, TokenStatic, TokenField)
	if err != nil {
		return nil, err
	}
	kind := ClassVarField
	if tok.Kind == TokenStatic {
		kind = ClassVarStatic
	}
	typ, err := p.parseType(rule)
	if err != nil {
		return nil, err
	}
	names, err := p.parseNameList(rule)
	if err != nil {
		return nil, err
	}
	if err := p.expectListEnd(rule, TokenSemicolon); err != nil {
		return nil, err
	}
	return &ClassVarDecl{
		Span:  p.spanFrom(start),
		Kind:  kind,
		Type:  typ,
		Names: names,
	}, nil
}

func (p *Parser) parseSubroutineDecl() (*SubroutineDecl, error) {
	const rule = "subroutine declaration"
	start := p.current().Start
	tok, err := p.expect(rule, subroutineStarts...)
	if err != nil {
		return nil, err
	}
	var kind SubroutineKind
	switch tok.Kind {
	case TokenConstructor:
		kind = SubroutineConstructor
	case TokenMethod:
		kind = SubroutineMethod
	default:
		kind = SubroutineFunction
	}

	returnType, err := p.parseType(rule)
	if err != nil {
		return nil, err
	}
	name, err := p.parseIdentifier(rule)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect("parameter list", TokenLParen); err != nil {
		return nil, err
	}
	var params []*Parameter
	if !p.checkCurrent(TokenRParen) {
		for {
			param, err := p.parseParameter()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.checkCurrent(TokenComma) {
				break
			}
			p.advance()
		}
	}
	if err := p.expectListEnd("parameter list", TokenRParen); err != nil {
		return nil, err
	}

	body, err := p.parseSubroutineBody()
	if err != nil {
		return nil, err
	}

	return &SubroutineDecl{
		Span:       p.spanFrom(start),
		Kind:       kind,
		ReturnType: returnType,
		Name:       name,
		Parameters: params,
		Body:       body,
	}, nil
}

func (p *Parser) parseParameter() (*Parameter, error) {
	start := p.current().Start
	typ, err := p.parseType("parameter")
	if err != nil {
		return nil, err
	}
	name, err := p.parseIdentifier("parameter")
	if err != nil {
		return nil, err
	}
	return &Parameter{Span: p.spanFrom(start), Type: typ, Name: name}, nil
}

func (p *Parser) parseSubroutineBody() (*SubroutineBody, error) {
	const rule = "subroutine body"
	start := p.current().Start
	if _, err := p.expect(rule, TokenLBrace); err != nil {
		return nil, err
	}

	var vars []*VarDecl
	for p.checkCurrent(TokenVar) {
		v, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}

	statements, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if err := p.expectBlockEnd(rule); err != nil {
		return nil, err
	}

	return &SubroutineBody{
		Span:       p.spanFrom(start),
		Vars:       vars,
		Statements: statements,
	}, nil
}

func (p *Parser) parseVarDecl() (*VarDecl, error) {
	const rule = "variable declaration"
	start := p.current().Start
	if _, err := p.expect(rule, TokenVar); err != nil {
		return nil, err
	}
	typ, err := p.parseType(rule)
	if err != nil {
		return nil, err
	}
	names, err := p.parseNameList(rule)
	if err != nil {
		return nil, err
	}
	if err := p.expectListEnd(rule, TokenSemicolon); err != nil {
		return nil, err
	}
	return &VarDecl{Span: p.spanFrom(start), Type: typ, Names: names}, nil
}

// parseNameList reads one or more comma-separated identifiers.
func (p *Parser) parseNameList(rule string) ([]*Identifier, error) {
	var names []*Identifier
	for {
		name, err := p.parseIdentifier(rule)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.checkCurrent(TokenComma) {
			return names, nil
		}
		p.advance()
	}
}

// expectListEnd consumes the closer of a comma-separated list. The list
// loop has already taken every comma, so "," only appears in the error.
func (p *Parser) expectListEnd(rule string, closer TokenKind) error {
	if !p.checkCurrent(closer) {
		return p.unexpected(rule, TokenComma, closer)
	}
	p.advance()
	return nil
}

// expectBlockEnd consumes the "}" that closes a statement list.
func (p *Parser) expectBlockEnd(rule string) error {
	if !p.checkCurrent(TokenRBrace) {
		return p.unexpected(rule, append(slices.Clone(statementStarts), TokenRBrace)...)
	}
	p.advance()
	return nil
}

func (p *Parser) parseStatements() ([]Statement, error) {
	var statements []Statement
	for p.checkCurrent(statementStarts...) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

func (p *Parser) parseStatement() (Statement, error) {
	switch p.current().Kind {
	case TokenIf:
		return p.parseIfStatement()
	case TokenWhile:
		return p.parseWhileStatement()
	case TokenLet:
		return p.parseLetStatement()
	case TokenDo:
		return p.parseDoStatement()
	case TokenReturn:
		return p.parseReturnStatement()
	default:
		return nil, p.unexpected("statement", statementStarts...)
	}
}

func (p *Parser) parseIfStatement() (*IfStatement, error) {
	const rule = "if statement"
	start := p.current().Start
	if _, err := p.expect(rule, TokenIf); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition(rule)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock(rule)
	if err != nil {
		return nil, err
	}

	var otherwise []Statement
	if p.checkCurrent(TokenElse) {
		p.advance()
		otherwise, err = p.parseBlock("else clause")
		if err != nil {
			return nil, err
		}
	}

	return &IfStatement{
		Span:      p.spanFrom(start),
		Condition: cond,
		Then:      then,
		Else:      otherwise,
	}, nil
}

func (p *Parser) parseWhileStatement() (*WhileStatement, error) {
	const rule = "while statement"
	start := p.current().Start
	if _, err := p.expect(rule, TokenWhile); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition(rule)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(rule)
	if err != nil {
		return nil, err
	}
	return &WhileStatement{Span: p.spanFrom(start), Condition: cond, Body: body}, nil
}

// parseCondition reads "( expression )".
func (p *Parser) parseCondition(rule string) (Expression, error) {
	if _, err := p.expect(rule, TokenLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(rule, TokenRParen); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseBlock reads "{ statements }".
func (p *Parser) parseBlock(rule string) ([]Statement, error) {
	if _, err := p.expect(rule, TokenLBrace); err != nil {
		return nil, err
	}
	statements, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if err := p.expectBlockEnd(rule); err != nil {
		return nil, err
	}
	return statements, nil
}

func (p *Parser) parseLetStatement() (*LetStatement, error) {
	const rule = "let statement"
	start := p.current().Start
	if _, err := p.expect(rule, TokenLet); err != nil {
		return nil, err
	}
	target, err := p.parseIdentifier(rule)
	if err != nil {
		return nil, err
	}

	var index Expression
	if p.checkCurrent(TokenLBracket) {
		p.advance()
		index, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(rule, TokenRBracket); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(rule, TokenAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(rule, TokenSemicolon); err != nil {
		return nil, err
	}

	return &LetStatement{
		Span:   p.spanFrom(start),
		Target: target,
		Index:  index,
		Value:  value,
	}, nil
}

func (p *Parser) parseDoStatement() (*DoStatement, error) {
	const rule = "do statement"
	start := p.current().Start
	if _, err := p.expect(rule, TokenDo); err != nil {
		return nil, err
	}
	call, err := p.parseCallExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(rule, TokenSemicolon); err != nil {
		return nil, err
	}
	return &DoStatement{Span: p.spanFrom(start), Call: call}, nil
}

func (p *Parser) parseReturnStatement() (*ReturnStatement, error) {
	const rule = "return statement"
	start := p.current().Start
	if _, err := p.expect(rule, TokenReturn); err != nil {
		return nil, err
	}

	var value Expression
	if !p.checkCurrent(TokenSemicolon) {
		var err error
		value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(rule, TokenSemicolon); err != nil {
		return nil, err
	}
	return &ReturnStatement{Span: p.spanFrom(start), Value: value}, nil
}

// parseExpression folds terms and binary operators strictly left to
// right. The grammar has no operator precedence; "a + b * c" is
// (a + b) * c, and that is intended.
func (p *Parser) parseExpression() (Expression, error) {
	start := p.current().Start
	expr, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.checkCurrent(binaryOperators...) {
		op := binaryOps[p.advance().Kind]
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpression{
			Span:  p.spanFrom(start),
			Left:  expr,
			Op:    op,
			Right: right,
		}
	}

	return expr, nil
}

func (p *Parser) parseTerm() (Expression, error) {
	tok := p.current()
	switch tok.Kind {
	case TokenTrue, TokenFalse, TokenNull, TokenThis:
		p.advance()
		return &KeywordExpression{Span: tok.Span(), Value: keywordConstants[tok.Kind]}, nil

	case TokenNumber:
		p.advance()
		return &NumberExpression{Span: tok.Span(), Literal: tok.Value}, nil

	case TokenString:
		p.advance()
		return &StringExpression{Span: tok.Span(), Text: tok.Value}, nil

	case TokenMinus, TokenBitNot:
		p.advance()
		operand, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		op := UnaryMinus
		if tok.Kind == TokenBitNot {
			op = UnaryBitNegation
		}
		return &UnaryExpression{Span: p.spanFrom(tok.Start), Op: op, Operand: operand}, nil

	case TokenLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("expression", TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil

	case TokenIdent:
		if p.checkAhead(TokenLBracket) {
			return p.parseArrayAccess()
		}
		if p.checkAhead(TokenDot, TokenLParen) {
			return p.parseCallExpression()
		}
		id, err := p.parseIdentifier("expression")
		if err != nil {
			return nil, err
		}
		return &IdentifierExpression{Span: id.Span, Identifier: id}, nil
	}

	return nil, p.unexpected("expression", termStarts...)
}

func (p *Parser) parseArrayAccess() (*IdentifierExpression, error) {
	const rule = "array access"
	start := p.current().Start
	id, err := p.parseIdentifier(rule)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(rule, TokenLBracket); err != nil {
		return nil, err
	}
	index, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(rule, TokenRBracket); err != nil {
		return nil, err
	}
	return &IdentifierExpression{Span: p.spanFrom(start), Identifier: id, Index: index}, nil
}

// parseCallExpression reads "name(args)" or "receiver.name(args)".
func (p *Parser) parseCallExpression() (*CallExpression, error) {
	const rule = "subroutine call"
	start := p.current().Start
	name, err := p.parseIdentifier(rule)
	if err != nil {
		return nil, err
	}

	var receiver *Identifier
	if p.checkCurrent(TokenDot) {
		p.advance()
		receiver = name
		name, err = p.parseIdentifier(rule)
		if err != nil {
			return nil, err
		}
	}

	args, err := p.parseExpressionList()
	if err != nil {
		return nil, err
	}

	return &CallExpression{
		Span:      p.spanFrom(start),
		Receiver:  receiver,
		Name:      name,
		Arguments: args,
	}, nil
}

// parseExpressionList reads a parenthesized, comma-separated and possibly
// empty argument list.
func (p *Parser) parseExpressionList() ([]Expression, error) {
	const rule = "argument list"
	if _, err := p.expect(rule, TokenLParen); err != nil {
		return nil, err
	}
	var args []Expression
	if !p.checkCurrent(TokenRParen) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.checkCurrent(TokenComma) {
				break
			}
			p.advance()
		}
	}
	if err := p.expectListEnd(rule, TokenRParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseType(rule string) (*Type, error) {
	tok := p.current()
	if prim, ok := primitiveTypes[tok.Kind]; ok {
		p.advance()
		return NewPrimitiveType(prim, tok.Span()), nil
	}
	if tok.Kind == TokenIdent {
		id, err := p.parseIdentifier(rule)
		if err != nil {
			return nil, err
		}
		return NewClassType(id), nil
	}
	return nil, p.unexpected(rule, typeStarts...)
}

func (p *Parser) parseIdentifier(rule string) (*Identifier, error) {
	tok, err := p.expect(rule, TokenIdent)
	if err != nil {
		return nil, err
	}
	return &Identifier{Span: tok.Span(), Name: tok.Value}, nil
}
