package parser

// Inspect traverses the tree rooted at node depth-first in source order.
// It calls f for each node; when f returns false the node's children are
// skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, f)
	}
}

// Children returns the direct children of node in source order. Absent
// optional children are left out.
func Children(node Node) []Node {
	var out []Node
	addIdent := func(id *Identifier) {
		if id != nil {
			out = append(out, id)
		}
	}
	addType := func(t *Type) {
		if t != nil {
			out = append(out, t)
		}
	}
	addExpr := func(e Expression) {
		if e != nil {
			out = append(out, e)
		}
	}
	addStmts := func(stmts []Statement) {
		for _, s := range stmts {
			out = append(out, s)
		}
	}

	switch n := node.(type) {
	case *Class:
		addIdent(n.Name)
		for _, f := range n.Fields {
			out = append(out, f)
		}
		for _, s := range n.Subroutines {
			out = append(out, s)
		}
	case *ClassVarDecl:
		addType(n.Type)
		for _, id := range n.Names {
			addIdent(id)
		}
	case *SubroutineDecl:
		addType(n.ReturnType)
		addIdent(n.Name)
		for _, p := range n.Parameters {
			out = append(out, p)
		}
		if n.Body != nil {
			out = append(out, n.Body)
		}
	case *Parameter:
		addType(n.Type)
		addIdent(n.Name)
	case *SubroutineBody:
		for _, v := range n.Vars {
			out = append(out, v)
		}
		addStmts(n.Statements)
	case *VarDecl:
		addType(n.Type)
		for _, id := range n.Names {
			addIdent(id)
		}
	case *Type:
		addIdent(n.Class)
	case *IfStatement:
		addExpr(n.Condition)
		addStmts(n.Then)
		addStmts(n.Else)
	case *WhileStatement:
		addExpr(n.Condition)
		addStmts(n.Body)
	case *LetStatement:
		addIdent(n.Target)
		addExpr(n.Index)
		addExpr(n.Value)
	case *DoStatement:
		if n.Call != nil {
			out = append(out, n.Call)
		}
	case *ReturnStatement:
		addExpr(n.Value)
	case *BinaryExpression:
		addExpr(n.Left)
		addExpr(n.Right)
	case *UnaryExpression:
		addExpr(n.Operand)
	case *IdentifierExpression:
		addIdent(n.Identifier)
		addExpr(n.Index)
	case *CallExpression:
		addIdent(n.Receiver)
		addIdent(n.Name)
		for _, arg := range n.Arguments {
			addExpr(arg)
		}
	}
	return out
}
