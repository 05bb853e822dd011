package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const listClassSource = `class List {
    field int data;
    field List next;

    constructor List new(int car, List cdr)
    {
        let data = car;
        let next = cdr;
        return this;
    }

    method void dispose()
    {
        if (~(next = null))
        {
            do next.dispose();
        }
        do Memory.deAlloc(this);
        return;
    }
}
`

var ignoreSpans = cmpopts.IgnoreTypes(Span{})

// tok builds a location-free token the way a hand-written buffer would.
func tok(kind TokenKind, value ...string) Token {
	t := Token{Kind: kind}
	if len(value) > 0 {
		t.Value = value[0]
	}
	return t
}

func ident(name string) *Identifier { return &Identifier{Name: name} }

func identExpr(name string) *IdentifierExpression {
	return &IdentifierExpression{Identifier: ident(name)}
}

func num(lit string) *NumberExpression { return &NumberExpression{Literal: lit} }

func mustParseExpression(t *testing.T, src string) Expression {
	t.Helper()
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}
	expr, err := New(tokens).ParseExpression()
	if err != nil {
		t.Fatalf("ParseExpression(%q) error: %v", src, err)
	}
	return expr
}

func mustParseStatement(t *testing.T, src string) Statement {
	t.Helper()
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}
	stmt, err := New(tokens).ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement(%q) error: %v", src, err)
	}
	return stmt
}

func TestParseClassFromTokens(t *testing.T) {
	p := New([]Token{
		tok(TokenClass),
		tok(TokenIdent, "Array"),
		tok(TokenLBrace),
		tok(TokenRBrace),
	})

	class, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if class.Name.Name != "Array" {
		t.Errorf("class name = %q, want %q", class.Name.Name, "Array")
	}
	if len(class.Fields) != 0 || len(class.Subroutines) != 0 {
		t.Errorf("got %d fields and %d subroutines, want none", len(class.Fields), len(class.Subroutines))
	}
}

func TestParseSubroutineFunction(t *testing.T) {
	// function int parseInt(char x, boolean y) { }
	p := New([]Token{
		tok(TokenFunction), tok(TokenInt), tok(TokenIdent, "parseInt"),
		tok(TokenLParen),
		tok(TokenChar), tok(TokenIdent, "x"), tok(TokenComma),
		tok(TokenBoolean), tok(TokenIdent, "y"),
		tok(TokenRParen),
		tok(TokenLBrace), tok(TokenRBrace),
	})

	sub, err := p.parseSubroutineDecl()
	if err != nil {
		t.Fatalf("parseSubroutineDecl error: %v", err)
	}

	want := &SubroutineDecl{
		Kind:       SubroutineFunction,
		ReturnType: &Type{Primitive: PrimitiveInt},
		Name:       ident("parseInt"),
		Parameters: []*Parameter{
			{Type: &Type{Primitive: PrimitiveChar}, Name: ident("x")},
			{Type: &Type{Primitive: PrimitiveBoolean}, Name: ident("y")},
		},
		Body: &SubroutineBody{},
	}
	if diff := cmp.Diff(want, sub, ignoreSpans); diff != "" {
		t.Errorf("subroutine mismatch (-want +got):\n%s", diff)
	}
}

func TestParseClassVarDeclTwoStaticArrays(t *testing.T) {
	// static Array myArray1, myArray2;
	p := New([]Token{
		tok(TokenStatic), tok(TokenIdent, "Array"),
		tok(TokenIdent, "myArray1"), tok(TokenComma), tok(TokenIdent, "myArray2"),
		tok(TokenSemicolon),
	})

	decl, err := p.parseClassVarDecl()
	if err != nil {
		t.Fatalf("parseClassVarDecl error: %v", err)
	}
	if decl.Kind != ClassVarStatic {
		t.Errorf("Kind = %v, want static", decl.Kind)
	}
	if decl.Type.IsPrimitive() || decl.Type.Name() != "Array" {
		t.Errorf("Type = %q (primitive %v), want class type Array", decl.Type.Name(), decl.Type.IsPrimitive())
	}
	if diff := cmp.Diff([]*Identifier{ident("myArray1"), ident("myArray2")}, decl.Names, ignoreSpans); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExpressionKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  NodeKind
	}{
		{"42", KindNumberExpr},
		{"3.5", KindNumberExpr},
		{`"hi"`, KindStringExpr},
		{"true", KindKeywordExpr},
		{"this", KindKeywordExpr},
		{"x", KindIdentifierExpr},
		{"a[1]", KindIdentifierExpr},
		{"5 + 4", KindBinaryExpr},
		{"x = y", KindBinaryExpr},
		{"a ~ b", KindBinaryExpr},
		{"-x", KindUnaryExpr},
		{"~x", KindUnaryExpr},
		{"(x)", KindIdentifierExpr},
		{"f()", KindCallExpr},
		{"obj.run(1, 2)", KindCallExpr},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := mustParseExpression(t, tt.input)
			if expr.NodeKind() != tt.kind {
				t.Errorf("kind = %v, want %v", expr.NodeKind(), tt.kind)
			}
		})
	}
}

func TestParseBinaryExpression(t *testing.T) {
	got := mustParseExpression(t, "5 + 4")
	want := &BinaryExpression{Left: num("5"), Op: OpPlus, Right: num("4")}
	if diff := cmp.Diff(want, got, ignoreSpans); diff != "" {
		t.Errorf("expression mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExpressionsFoldLeftToRight(t *testing.T) {
	// No operator binds tighter than another.
	got := mustParseExpression(t, "a + b * c")
	want := &BinaryExpression{
		Left:  &BinaryExpression{Left: identExpr("a"), Op: OpPlus, Right: identExpr("b")},
		Op:    OpMultiply,
		Right: identExpr("c"),
	}
	if diff := cmp.Diff(want, got, ignoreSpans); diff != "" {
		t.Errorf("expression mismatch (-want +got):\n%s", diff)
	}
}

func TestParseParenthesesGroup(t *testing.T) {
	got := mustParseExpression(t, "a + (b * c)")
	want := &BinaryExpression{
		Left:  identExpr("a"),
		Op:    OpPlus,
		Right: &BinaryExpression{Left: identExpr("b"), Op: OpMultiply, Right: identExpr("c")},
	}
	if diff := cmp.Diff(want, got, ignoreSpans); diff != "" {
		t.Errorf("expression mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUnaryTakesWholeExpression(t *testing.T) {
	got := mustParseExpression(t, "-a + b")
	want := &UnaryExpression{
		Op:      UnaryMinus,
		Operand: &BinaryExpression{Left: identExpr("a"), Op: OpPlus, Right: identExpr("b")},
	}
	if diff := cmp.Diff(want, got, ignoreSpans); diff != "" {
		t.Errorf("expression mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExpressionList(t *testing.T) {
	// (x - 4, array.length())
	p := New([]Token{
		tok(TokenLParen),
		tok(TokenIdent, "x"), tok(TokenMinus), tok(TokenNumber, "4"),
		tok(TokenComma),
		tok(TokenIdent, "array"), tok(TokenDot), tok(TokenIdent, "length"), tok(TokenLParen), tok(TokenRParen),
		tok(TokenRParen),
	})

	args, err := p.parseExpressionList()
	if err != nil {
		t.Fatalf("parseExpressionList error: %v", err)
	}
	if len(args) != 2 {
		t.Fatalf("got %d expressions, want 2", len(args))
	}
	if _, ok := args[0].(*BinaryExpression); !ok {
		t.Errorf("args[0] is %T, want *BinaryExpression", args[0])
	}
	call, ok := args[1].(*CallExpression)
	if !ok {
		t.Fatalf("args[1] is %T, want *CallExpression", args[1])
	}
	want := &CallExpression{Receiver: ident("array"), Name: ident("length")}
	if diff := cmp.Diff(want, call, ignoreSpans); diff != "" {
		t.Errorf("call mismatch (-want +got):\n%s", diff)
	}
}

func TestParseArrayAccess(t *testing.T) {
	got := mustParseExpression(t, "myArray[5]")
	want := &IdentifierExpression{Identifier: ident("myArray"), Index: num("5")}
	if diff := cmp.Diff(want, got, ignoreSpans); diff != "" {
		t.Errorf("expression mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input string
		want  Statement
	}{
		{
			"do Output.printInt(1);",
			&DoStatement{Call: &CallExpression{
				Receiver:  ident("Output"),
				Name:      ident("printInt"),
				Arguments: []Expression{num("1")},
			}},
		},
		{
			"do draw();",
			&DoStatement{Call: &CallExpression{Name: ident("draw")}},
		},
		{
			"let x = 1;",
			&LetStatement{Target: ident("x"), Value: num("1")},
		},
		{
			"let a[i] = 'c';",
			&LetStatement{Target: ident("a"), Index: identExpr("i"), Value: &StringExpression{Text: "c"}},
		},
		{
			"return;",
			&ReturnStatement{},
		},
		{
			"return x;",
			&ReturnStatement{Value: identExpr("x")},
		},
		{
			"if (true) { return; }",
			&IfStatement{
				Condition: &KeywordExpression{Value: KeywordTrue},
				Then:      []Statement{&ReturnStatement{}},
			},
		},
		{
			"if (x < 1) { let x = 1; } else { let x = 2; }",
			&IfStatement{
				Condition: &BinaryExpression{Left: identExpr("x"), Op: OpLess, Right: num("1")},
				Then:      []Statement{&LetStatement{Target: ident("x"), Value: num("1")}},
				Else:      []Statement{&LetStatement{Target: ident("x"), Value: num("2")}},
			},
		},
		{
			"while (false) { }",
			&WhileStatement{Condition: &KeywordExpression{Value: KeywordFalse}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustParseStatement(t, tt.input)
			if diff := cmp.Diff(tt.want, got, ignoreSpans); diff != "" {
				t.Errorf("statement mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseNestedWhile(t *testing.T) {
	src := `while (true) {
		let i = i + 1;
		if (i > 10) {
			while (null) {
				return;
			}
		}
	}`
	stmt := mustParseStatement(t, src)

	outer, ok := stmt.(*WhileStatement)
	if !ok {
		t.Fatalf("statement is %T, want *WhileStatement", stmt)
	}
	if _, ok := outer.Condition.(*KeywordExpression); !ok {
		t.Errorf("condition is %T, want *KeywordExpression", outer.Condition)
	}
	if len(outer.Body) != 2 {
		t.Fatalf("got %d statements, want 2", len(outer.Body))
	}
	if _, ok := outer.Body[0].(*LetStatement); !ok {
		t.Errorf("body[0] is %T, want *LetStatement", outer.Body[0])
	}
	ifStmt, ok := outer.Body[1].(*IfStatement)
	if !ok {
		t.Fatalf("body[1] is %T, want *IfStatement", outer.Body[1])
	}
	inner, ok := ifStmt.Then[0].(*WhileStatement)
	if !ok {
		t.Fatalf("if body is %T, want *WhileStatement", ifStmt.Then[0])
	}
	if _, ok := inner.Body[0].(*ReturnStatement); !ok {
		t.Errorf("inner body is %T, want *ReturnStatement", inner.Body[0])
	}
}

func TestParseFullClass(t *testing.T) {
	class, err := Parse(listClassSource)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if class.Name.Name != "List" {
		t.Errorf("class name = %q, want %q", class.Name.Name, "List")
	}
	if len(class.Fields) != 2 {
		t.Errorf("got %d fields, want 2", len(class.Fields))
	}
	if len(class.Subroutines) != 2 {
		t.Fatalf("got %d subroutines, want 2", len(class.Subroutines))
	}

	ctor := class.Subroutines[0]
	if ctor.Kind != SubroutineConstructor || ctor.Name.Name != "new" || ctor.ReturnType.Name() != "List" {
		t.Errorf("first subroutine = %v %s %s, want constructor List new", ctor.Kind, ctor.ReturnType.Name(), ctor.Name.Name)
	}

	dispose := class.Subroutines[1]
	want := &SubroutineDecl{
		Kind:       SubroutineMethod,
		ReturnType: &Type{Primitive: PrimitiveVoid},
		Name:       ident("dispose"),
		Body: &SubroutineBody{
			Statements: []Statement{
				&IfStatement{
					Condition: &UnaryExpression{
						Op: UnaryBitNegation,
						Operand: &BinaryExpression{
							Left:  identExpr("next"),
							Op:    OpEqual,
							Right: &KeywordExpression{Value: KeywordNull},
						},
					},
					Then: []Statement{
						&DoStatement{Call: &CallExpression{Receiver: ident("next"), Name: ident("dispose")}},
					},
				},
				&DoStatement{Call: &CallExpression{
					Receiver:  ident("Memory"),
					Name:      ident("deAlloc"),
					Arguments: []Expression{&KeywordExpression{Value: KeywordThis}},
				}},
				&ReturnStatement{},
			},
		},
	}
	if diff := cmp.Diff(want, dispose, ignoreSpans); diff != "" {
		t.Errorf("dispose mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSpans(t *testing.T) {
	class, err := Parse("class A {\n    field int x;\n}")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	want := Span{
		Start: Location{Offset: 0, Line: 1, Column: 1},
		End:   Location{Offset: 28, Line: 3, Column: 2},
	}
	if diff := cmp.Diff(want, class.Bounds()); diff != "" {
		t.Errorf("class span mismatch (-want +got):\n%s", diff)
	}

	field := class.Fields[0]
	wantField := Span{
		Start: Location{Offset: 14, Line: 2, Column: 5},
		End:   Location{Offset: 26, Line: 2, Column: 17},
	}
	if diff := cmp.Diff(wantField, field.Bounds()); diff != "" {
		t.Errorf("field span mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMissingClassBrace(t *testing.T) {
	_, err := Parse("class A {\n    function void f() { return; }\n", WithFile("A.jack"))
	if err == nil {
		t.Fatal("Parse succeeded, want an error")
	}
	if !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("err = %v, want ErrUnexpectedToken", err)
	}

	var tokErr *UnexpectedTokenError
	if !errors.As(err, &tokErr) {
		t.Fatalf("err is %T, want *UnexpectedTokenError", err)
	}
	if tokErr.Got.Kind != TokenEOF {
		t.Errorf("Got = %v, want EOF", tokErr.Got)
	}
	if tokErr.Rule != "class" {
		t.Errorf("Rule = %q, want %q", tokErr.Rule, "class")
	}
	if !strings.HasPrefix(err.Error(), "A.jack:3:1: class: expected one of ") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestParseMissingBraceFromTokens(t *testing.T) {
	p := New([]Token{tok(TokenClass), tok(TokenIdent, "Array"), tok(TokenLBrace)})
	class, err := p.Parse()
	if class != nil {
		t.Errorf("got partial tree %v", class)
	}
	if !errors.Is(err, ErrUnexpectedToken) {
		t.Errorf("err = %v, want ErrUnexpectedToken", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rule  string
		got   TokenKind
	}{
		{"trailing tokens", "class A {} x", "class", TokenIdent},
		{"missing class name", "class {}", "class", TokenLBrace},
		{"var after statement", "class A { function void f() { return; var int x; } }", "subroutine body", TokenVar},
		{"missing semicolon", "class A { field int x }", "class variable declaration", TokenRBrace},
		{"bad type", "class A { field 1 x; }", "class variable declaration", TokenNumber},
		{"empty let value", "class A { function void f() { let x = ; } }", "expression", TokenSemicolon},
		{"unclosed call", "class A { function void f() { do g(1; } }", "argument list", TokenSemicolon},
		{"empty class body token", "class A { let }", "class", TokenLet},
		{"keyword as called name", "class A { function void f() { do obj.method(); } }", "subroutine call", TokenMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var tokErr *UnexpectedTokenError
			if !errors.As(err, &tokErr) {
				t.Fatalf("err = %v, want *UnexpectedTokenError", err)
			}
			if tokErr.Rule != tt.rule {
				t.Errorf("Rule = %q, want %q", tokErr.Rule, tt.rule)
			}
			if tokErr.Got.Kind != tt.got {
				t.Errorf("Got = %v, want %v", tokErr.Got.Kind, tt.got)
			}
		})
	}
}

func TestParseExpressionRejectsKeywordName(t *testing.T) {
	tokens, err := Tokenize("obj.method()")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	_, err = New(tokens).ParseExpression()
	var tokErr *UnexpectedTokenError
	if !errors.As(err, &tokErr) {
		t.Fatalf("err = %v, want *UnexpectedTokenError", err)
	}
	if tokErr.Got.Kind != TokenMethod || tokErr.Rule != "subroutine call" {
		t.Errorf("got %v in %q, want 'method' in subroutine call", tokErr.Got.Kind, tokErr.Rule)
	}
}

func TestParseListEndExpected(t *testing.T) {
	tests := []struct {
		input    string
		rule     string
		expected []TokenKind
	}{
		{"class A { field int x }", "class variable declaration", []TokenKind{TokenComma, TokenSemicolon}},
		{"class A { function void f(int x { } }", "parameter list", []TokenKind{TokenComma, TokenRParen}},
		{"class A { function void f() { var int x let } }", "variable declaration", []TokenKind{TokenComma, TokenSemicolon}},
		{"class A { function void f() { do g(1; } }", "argument list", []TokenKind{TokenComma, TokenRParen}},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			_, err := Parse(tt.input)
			var tokErr *UnexpectedTokenError
			if !errors.As(err, &tokErr) {
				t.Fatalf("err = %v, want *UnexpectedTokenError", err)
			}
			if tokErr.Rule != tt.rule {
				t.Errorf("Rule = %q, want %q", tokErr.Rule, tt.rule)
			}
			if diff := cmp.Diff(tt.expected, tokErr.Expected); diff != "" {
				t.Errorf("Expected mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseReportsLexerErrorFirst(t *testing.T) {
	_, err := Parse("class A { field int $x; }")
	if !errors.Is(err, ErrUnrecognizedCharacter) {
		t.Errorf("err = %v, want ErrUnrecognizedCharacter", err)
	}

	_, err = Parse("class A { field int $x; }", WithLenient())
	if !errors.Is(err, ErrUnexpectedToken) {
		t.Errorf("lenient err = %v, want ErrUnexpectedToken", err)
	}
}

func TestParserPastEndSeesEOF(t *testing.T) {
	p := New([]Token{{Kind: TokenIdent, Value: "x", End: Location{Offset: 1, Line: 1, Column: 2}}})
	p.advance()
	got := p.current()
	if got.Kind != TokenEOF || got.Start.Column != 2 {
		t.Errorf("current past end = %v, want EOF at 1:2", got)
	}
	if p.checkCurrent(TokenEOF) || p.checkAhead(TokenEOF) {
		t.Error("lookahead past the end reported a match")
	}
}

func TestNewCopiesTokens(t *testing.T) {
	tokens := []Token{tok(TokenClass), tok(TokenIdent, "A"), tok(TokenLBrace), tok(TokenRBrace)}
	p := New(tokens)
	tokens[1].Value = "B"

	class, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if class.Name.Name != "A" {
		t.Errorf("class name = %q, want %q", class.Name.Name, "A")
	}
}
