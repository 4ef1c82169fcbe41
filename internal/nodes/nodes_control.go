package nodes

import "github.com/cwbudde/rubycore/pkg/ast"

func (DefaultFactory) If(loc ast.Loc, cond Node, then Node, els Node) ast.Node {
	return &GenericNode{kind: ast.KindIfNode, loc: loc, Child: cond, Child2: then, Child3: els}
}
func (DefaultFactory) Unless(loc ast.Loc, cond Node, then Node, els Node) ast.Node {
	return &GenericNode{kind: ast.KindUnlessNode, loc: loc, Child: cond, Child2: then, Child3: els}
}
func (DefaultFactory) While(loc ast.Loc, cond Node, body Node, beginModifier bool) ast.Node {
	return &GenericNode{kind: ast.KindWhileNode, loc: loc, Child: cond, Child2: body, Bool: beginModifier}
}
func (DefaultFactory) Until(loc ast.Loc, cond Node, body Node, beginModifier bool) ast.Node {
	return &GenericNode{kind: ast.KindUntilNode, loc: loc, Child: cond, Child2: body, Bool: beginModifier}
}
func (DefaultFactory) For(loc ast.Loc, target Node, iterable Node, body Node) ast.Node {
	return &GenericNode{kind: ast.KindForNode, loc: loc, Child: target, Child2: iterable, Child3: body}
}
func (DefaultFactory) Case(loc ast.Loc, subject Node, whens []Node, els Node) ast.Node {
	return &GenericNode{kind: ast.KindCaseNode, loc: loc, Child: subject, Children: whens, Child3: els}
}
func (DefaultFactory) WhenClause(loc ast.Loc, conditions []Node, body Node) ast.Node {
	return &GenericNode{kind: ast.KindWhenClause, loc: loc, Children: conditions, Child: body}
}
func (DefaultFactory) CaseMatch(loc ast.Loc, subject Node, ins []Node, els Node) ast.Node {
	return &GenericNode{kind: ast.KindCaseMatch, loc: loc, Child: subject, Children: ins, Child3: els}
}
func (DefaultFactory) InClause(loc ast.Loc, pattern Node, guard Node, body Node) ast.Node {
	return &GenericNode{kind: ast.KindInClause, loc: loc, Child: pattern, Child2: guard, Child3: body}
}
func (DefaultFactory) Begin(loc ast.Loc, body Node, rescues []Node, elseBody Node, ensure Node) ast.Node {
	n := &GenericNode{kind: ast.KindBeginNode, loc: loc, Child: body, Children: rescues, Child2: elseBody, Child3: ensure}
	return n
}
func (DefaultFactory) Rescue(loc ast.Loc, exceptionClasses []Node, varName string, body Node) ast.Node {
	return &GenericNode{kind: ast.KindRescueClause, loc: loc, Children: exceptionClasses, Str: varName, Child: body}
}
func (DefaultFactory) Break(loc ast.Loc, value Node) ast.Node {
	return &GenericNode{kind: ast.KindBreakNode, loc: loc, Child: value}
}
func (DefaultFactory) Next(loc ast.Loc, value Node) ast.Node {
	return &GenericNode{kind: ast.KindNextNode, loc: loc, Child: value}
}
func (DefaultFactory) Redo(loc ast.Loc) ast.Node  { return leaf(ast.KindRedoNode, loc) }
func (DefaultFactory) Retry(loc ast.Loc) ast.Node { return leaf(ast.KindRetryNode, loc) }
func (DefaultFactory) Return(loc ast.Loc, value Node) ast.Node {
	return &GenericNode{kind: ast.KindReturnNode, loc: loc, Child: value}
}
func (DefaultFactory) And(loc ast.Loc, left, right Node) ast.Node {
	return &GenericNode{kind: ast.KindAndNode, loc: loc, Child: left, Child2: right}
}
func (DefaultFactory) Or(loc ast.Loc, left, right Node) ast.Node {
	return &GenericNode{kind: ast.KindOrNode, loc: loc, Child: left, Child2: right}
}
func (DefaultFactory) Not(loc ast.Loc, operand Node) ast.Node {
	return &GenericNode{kind: ast.KindNotNode, loc: loc, Child: operand}
}
func (DefaultFactory) Defined(loc ast.Loc, operand Node) ast.Node {
	return &GenericNode{kind: ast.KindDefinedNode, loc: loc, Child: operand}
}
func (DefaultFactory) Ternary(loc ast.Loc, cond, then, els Node) ast.Node {
	return &GenericNode{kind: ast.KindTernaryNode, loc: loc, Child: cond, Child2: then, Child3: els}
}
func (DefaultFactory) RescueModifier(loc ast.Loc, body, rescueExpr Node) ast.Node {
	return &GenericNode{kind: ast.KindRescueModifier, loc: loc, Child: body, Child2: rescueExpr}
}
func (DefaultFactory) BeginBlock(loc ast.Loc, body Node) ast.Node {
	return &GenericNode{kind: ast.KindBeginBlock, loc: loc, Child: body}
}
func (DefaultFactory) EndBlock(loc ast.Loc, body Node) ast.Node {
	return &GenericNode{kind: ast.KindEndBlock, loc: loc, Child: body}
}

func (DefaultFactory) ArrayPattern(loc ast.Loc, pre []Node, rest Node, post []Node, constant Node) ast.Node {
	children := make([]ast.Node, 0, len(pre)+len(post))
	children = append(children, pre...)
	children = append(children, post...)
	return &GenericNode{kind: ast.KindArrayPattern, loc: loc, Children: children, Child: rest, Child2: constant, Num: len(pre)}
}
func (DefaultFactory) FindPattern(loc ast.Loc, leadingSplat Node, middle []Node, trailingSplat Node) ast.Node {
	return &GenericNode{kind: ast.KindFindPattern, loc: loc, Child: leadingSplat, Children: middle, Child2: trailingSplat}
}
func (DefaultFactory) HashPattern(loc ast.Loc, pairs []Node, rest Node, constant Node) ast.Node {
	return &GenericNode{kind: ast.KindHashPattern, loc: loc, Children: pairs, Child: rest, Child2: constant}
}
func (DefaultFactory) AlternationPattern(loc ast.Loc, left, right Node) ast.Node {
	return &GenericNode{kind: ast.KindAlternationPattern, loc: loc, Child: left, Child2: right}
}
func (DefaultFactory) CapturePattern(loc ast.Loc, pattern Node, name string) ast.Node {
	return &GenericNode{kind: ast.KindCapturePattern, loc: loc, Child: pattern, Str: name}
}
func (DefaultFactory) PinPattern(loc ast.Loc, expr Node) ast.Node {
	return &GenericNode{kind: ast.KindPinPattern, loc: loc, Child: expr}
}

func (DefaultFactory) MatchPredicate(loc ast.Loc, value, pattern ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindMatchPredicate, loc: loc, Child: value, Child2: pattern}
}

func (DefaultFactory) MatchRequired(loc ast.Loc, value, pattern ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindMatchRequired, loc: loc, Child: value, Child2: pattern}
}

// Node is a package-local alias so the factory method signatures above
// read the same as pkg/ast.Factory's without repeating the import
// qualifier on every parameter.
type Node = ast.Node
