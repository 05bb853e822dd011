package parser

// Node is implemented by every syntax tree node. Trees are built bottom-up
// by the Parser and are not modified afterwards; a node belongs to exactly
// one parent and holds no reference back to it.
type Node interface {
	NodeKind() NodeKind
	Bounds() Span
}

// Statement is the closed set of statement nodes: *IfStatement,
// *WhileStatement, *LetStatement, *DoStatement and *ReturnStatement.
type Statement interface {
	Node
	statementNode()
}

// Expression is the closed set of expression nodes: *BinaryExpression,
// *UnaryExpression, *IdentifierExpression, *KeywordExpression,
// *NumberExpression, *StringExpression and *CallExpression.
type Expression interface {
	Node
	expressionNode()
}

type NodeKind int

const (
	KindClass NodeKind = iota
	KindClassVarDecl
	KindSubroutineDecl
	KindParameter
	KindSubroutineBody
	KindVarDecl
	KindType
	KindIdentifier

	// Statements
	KindIfStmt
	KindWhileStmt
	KindLetStmt
	KindDoStmt
	KindReturnStmt

	// Expressions
	KindBinaryExpr
	KindUnaryExpr
	KindIdentifierExpr
	KindKeywordExpr
	KindNumberExpr
	KindStringExpr
	KindCallExpr
)

var nodeKindNames = map[NodeKind]string{
	KindClass:          "Class",
	KindClassVarDecl:   "ClassVarDecl",
	KindSubroutineDecl: "SubroutineDecl",
	KindParameter:      "Parameter",
	KindSubroutineBody: "SubroutineBody",
	KindVarDecl:        "VarDecl",
	KindType:           "Type",
	KindIdentifier:     "Identifier",
	KindIfStmt:         "IfStmt",
	KindWhileStmt:      "WhileStmt",
	KindLetStmt:        "LetStmt",
	KindDoStmt:         "DoStmt",
	KindReturnStmt:     "ReturnStmt",
	KindBinaryExpr:     "BinaryExpr",
	KindUnaryExpr:      "UnaryExpr",
	KindIdentifierExpr: "IdentifierExpr",
	KindKeywordExpr:    "KeywordExpr",
	KindNumberExpr:     "NumberExpr",
	KindStringExpr:     "StringExpr",
	KindCallExpr:       "CallExpr",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Identifier struct {
	Span
	Name string
}

// Class is the root of every parsed file.
type Class struct {
	Span
	Name        *Identifier
	Fields      []*ClassVarDecl
	Subroutines []*SubroutineDecl
}

type ClassVarKind int

const (
	ClassVarStatic ClassVarKind = iota
	ClassVarField
)

func (k ClassVarKind) String() string {
	if k == ClassVarStatic {
		return "static"
	}
	return "field"
}

// ClassVarDecl is one "static" or "field" line, which may declare several
// names of the same type.
type ClassVarDecl struct {
	Span
	Kind  ClassVarKind
	Type  *Type
	Names []*Identifier
}

type SubroutineKind int

const (
	SubroutineConstructor SubroutineKind = iota
	SubroutineMethod
	SubroutineFunction
)

func (k SubroutineKind) String() string {
	switch k {
	case SubroutineConstructor:
		return "constructor"
	case SubroutineMethod:
		return "method"
	}
	return "function"
}

type SubroutineDecl struct {
	Span
	Kind       SubroutineKind
	ReturnType *Type
	Name       *Identifier
	Parameters []*Parameter
	Body       *SubroutineBody
}

type Parameter struct {
	Span
	Type *Type
	Name *Identifier
}

type SubroutineBody struct {
	Span
	Vars       []*VarDecl
	Statements []Statement
}

type VarDecl struct {
	Span
	Type  *Type
	Names []*Identifier
}

type PrimitiveType int

const (
	PrimitiveNone PrimitiveType = iota
	PrimitiveInt
	PrimitiveChar
	PrimitiveBoolean
	PrimitiveVoid
)

func (p PrimitiveType) String() string {
	switch p {
	case PrimitiveInt:
		return "int"
	case PrimitiveChar:
		return "char"
	case PrimitiveBoolean:
		return "boolean"
	case PrimitiveVoid:
		return "void"
	}
	return ""
}

// Type is either a primitive type or the name of a class, never both.
// Class names are not checked against declared classes.
type Type struct {
	Span
	Primitive PrimitiveType
	Class     *Identifier
}

func NewPrimitiveType(p PrimitiveType, span Span) *Type {
	return &Type{Span: span, Primitive: p}
}

func NewClassType(class *Identifier) *Type {
	return &Type{Span: class.Span, Class: class}
}

func (t *Type) IsPrimitive() bool {
	return t.Class == nil
}

func (t *Type) Name() string {
	if t.Class != nil {
		return t.Class.Name
	}
	return t.Primitive.String()
}

type IfStatement struct {
	Span
	Condition Expression
	Then      []Statement
	Else      []Statement
}

type WhileStatement struct {
	Span
	Condition Expression
	Body      []Statement
}

// LetStatement assigns Value to Target, or to Target[Index] when Index is
// not nil.
type LetStatement struct {
	Span
	Target *Identifier
	Index  Expression
	Value  Expression
}

type DoStatement struct {
	Span
	Call *CallExpression
}

// ReturnStatement has a nil Value for a bare "return;".
type ReturnStatement struct {
	Span
	Value Expression
}

type BinaryOp int

const (
	OpPlus BinaryOp = iota
	OpMinus
	OpMultiply
	OpDivide
	OpLess
	OpGreater
	OpBitAnd
	OpBitOr
	OpBitNegation
	OpEqual
)

var binaryOpLexemes = map[BinaryOp]string{
	OpPlus:        "+",
	OpMinus:       "-",
	OpMultiply:    "*",
	OpDivide:      "/",
	OpLess:        "<",
	OpGreater:     ">",
	OpBitAnd:      "&",
	OpBitOr:       "|",
	OpBitNegation: "~",
	OpEqual:       "=",
}

func (op BinaryOp) String() string {
	return binaryOpLexemes[op]
}

type UnaryOp int

const (
	UnaryMinus UnaryOp = iota
	UnaryBitNegation
)

func (op UnaryOp) String() string {
	if op == UnaryMinus {
		return "-"
	}
	return "~"
}

type KeywordConstant int

const (
	KeywordTrue KeywordConstant = iota
	KeywordFalse
	KeywordNull
	KeywordThis
)

func (k KeywordConstant) String() string {
	switch k {
	case KeywordTrue:
		return "true"
	case KeywordFalse:
		return "false"
	case KeywordNull:
		return "null"
	}
	return "this"
}

// BinaryExpression chains fold left to right with no precedence between
// operators: "a + b * c" is (a + b) * c.
type BinaryExpression struct {
	Span
	Left  Expression
	Op    BinaryOp
	Right Expression
}

// UnaryExpression applies Op to the whole expression that follows the
// operator: "-a + b" is -(a + b).
type UnaryExpression struct {
	Span
	Op      UnaryOp
	Operand Expression
}

// IdentifierExpression reads a variable, or an element of it when Index is
// not nil.
type IdentifierExpression struct {
	Span
	Identifier *Identifier
	Index      Expression
}

type KeywordExpression struct {
	Span
	Value KeywordConstant
}

// NumberExpression keeps the literal text as written.
type NumberExpression struct {
	Span
	Literal string
}

// StringExpression holds the text between the quotes, escapes untouched.
type StringExpression struct {
	Span
	Text string
}

// CallExpression is a subroutine call. Receiver is set only for the
// qualified form "receiver.name(...)".
type CallExpression struct {
	Span
	Receiver  *Identifier
	Name      *Identifier
	Arguments []Expression
}

func (*Class) NodeKind() NodeKind          { return KindClass }
func (*ClassVarDecl) NodeKind() NodeKind   { return KindClassVarDecl }
func (*SubroutineDecl) NodeKind() NodeKind { return KindSubroutineDecl }
func (*Parameter) NodeKind() NodeKind      { return KindParameter }
func (*SubroutineBody) NodeKind() NodeKind { return KindSubroutineBody }
func (*VarDecl) NodeKind() NodeKind        { return KindVarDecl }
func (*Type) NodeKind() NodeKind           { return KindType }
func (*Identifier) NodeKind() NodeKind     { return KindIdentifier }

func (*IfStatement) NodeKind() NodeKind     { return KindIfStmt }
func (*WhileStatement) NodeKind() NodeKind  { return KindWhileStmt }
func (*LetStatement) NodeKind() NodeKind    { return KindLetStmt }
func (*DoStatement) NodeKind() NodeKind     { return KindDoStmt }
func (*ReturnStatement) NodeKind() NodeKind { return KindReturnStmt }

func (*BinaryExpression) NodeKind() NodeKind     { return KindBinaryExpr }
func (*UnaryExpression) NodeKind() NodeKind      { return KindUnaryExpr }
func (*IdentifierExpression) NodeKind() NodeKind { return KindIdentifierExpr }
func (*KeywordExpression) NodeKind() NodeKind    { return KindKeywordExpr }
func (*NumberExpression) NodeKind() NodeKind     { return KindNumberExpr }
func (*StringExpression) NodeKind() NodeKind     { return KindStringExpr }
func (*CallExpression) NodeKind() NodeKind       { return KindCallExpr }

func (*IfStatement) statementNode()     {}
func (*WhileStatement) statementNode()  {}
func (*LetStatement) statementNode()    {}
func (*DoStatement) statementNode()     {}
func (*ReturnStatement) statementNode() {}

func (*BinaryExpression) expressionNode()     {}
func (*UnaryExpression) expressionNode()      {}
func (*IdentifierExpression) expressionNode() {}
func (*KeywordExpression) expressionNode()    {}
func (*NumberExpression) expressionNode()     {}
func (*StringExpression) expressionNode()     {}
func (*CallExpression) expressionNode()       {}
