// Package nodes is the one concrete implementation of pkg/ast.Factory
// this repo ships (spec.md §1 treats node allocation as an external
// collaborator; this package plays that role for a standalone build).
//
// Grounded on go-dws's ast package shape (internal/ast/*.go): every node
// embeds a common header — here Kind/Loc, there BaseNode{Token,...} — and
// carries kind-specific payload alongside it. Given the much larger
// surface of distinct Ruby node shapes (90+ kinds vs. DWScript's
// per-construct structs), this module generalizes the per-kind struct
// into one GenericNode with a small ordered Fields map and a Children
// slice, rather than hand-writing ninety almost-identical struct
// definitions; DefaultFactory is the only place that interprets Fields
// per Kind, so callers outside this package never need to know the
// representation.
package nodes

import "github.com/cwbudde/rubycore/pkg/ast"

// GenericNode is the single concrete Node type DefaultFactory produces.
type GenericNode struct {
	kind     ast.Kind
	loc      ast.Loc
	Str      string   // primary name/text payload (identifier, literal text, operator spelling)
	Bytes    []byte   // primary byte payload (string/regexp/char contents)
	Num      int      // primary numeric payload (numbered-param index, options bitfield)
	Bool     bool     // primary boolean payload (exclusive range, safe-nav, zsuper, ...)
	Child    ast.Node // primary single child (condition, receiver, value, ...)
	Child2   ast.Node // secondary single child (then-branch, rhs, ...)
	Child3   ast.Node // tertiary single child (else-branch, ensure, ...)
	Children []ast.Node
	Names    []string
}

// Kind implements ast.Node.
func (n *GenericNode) Kind() ast.Kind { return n.kind }

// Location implements ast.Node.
func (n *GenericNode) Location() ast.Loc { return n.loc }

// AsTarget implements ast.Retargetable: converts a read-shaped node into
// its write-target analog in place, per spec.md §4.7's parse_target.
func (n *GenericNode) AsTarget() ast.Node {
	switch n.kind {
	case ast.KindLocalVarRead:
		return &GenericNode{kind: ast.KindLocalVarTarget, loc: n.loc, Str: n.Str}
	case ast.KindCall, ast.KindCommandCall:
		return &GenericNode{kind: ast.KindCallTarget, loc: n.loc, Child: n.Child, Str: n.Str}
	case ast.KindIndexCall:
		return &GenericNode{kind: ast.KindIndexTarget, loc: n.loc, Child: n.Child, Children: n.Children}
	default:
		return n
	}
}

// Name implements ast.Named: the primary identifier payload, whatever the
// kind (local/instance/class/global/constant name, call/method name).
func (n *GenericNode) Name() string { return n.Str }

// Receiver implements ast.Receiver: the node this one hangs off of (call
// receiver, constant-path parent). Nil for a bare call or top-level
// constant.
func (n *GenericNode) Receiver() ast.Node { return n.Child }

// Args implements ast.Args: the positional argument list carried by Call
// and IndexCall nodes.
func (n *GenericNode) Args() []ast.Node { return n.Children }

// Block implements ast.Blocked: the trailing block node, if any.
func (n *GenericNode) Block() ast.Node { return n.Child2 }

// RawBytes implements ast.BytesOf: the raw byte payload of a string,
// regexp, or char literal.
func (n *GenericNode) RawBytes() []byte { return n.Bytes }

// DefaultFactory implements ast.Factory by allocating GenericNode values.
type DefaultFactory struct{}

func leaf(k ast.Kind, loc ast.Loc) *GenericNode { return &GenericNode{kind: k, loc: loc} }

func (DefaultFactory) Missing(loc ast.Loc) ast.Node { return leaf(ast.KindMissing, loc) }

func (DefaultFactory) Integer(loc ast.Loc, text string) ast.Node {
	return &GenericNode{kind: ast.KindIntegerLiteral, loc: loc, Str: text}
}
func (DefaultFactory) Float(loc ast.Loc, text string) ast.Node {
	return &GenericNode{kind: ast.KindFloatLiteral, loc: loc, Str: text}
}
func (DefaultFactory) Rational(loc ast.Loc, text string) ast.Node {
	return &GenericNode{kind: ast.KindRationalLiteral, loc: loc, Str: text}
}
func (DefaultFactory) Imaginary(loc ast.Loc, text string) ast.Node {
	return &GenericNode{kind: ast.KindImaginaryLiteral, loc: loc, Str: text}
}
func (DefaultFactory) StringLiteral(loc ast.Loc, value []byte) ast.Node {
	return &GenericNode{kind: ast.KindStringLiteral, loc: loc, Bytes: value}
}
func (DefaultFactory) InterpolatedString(loc ast.Loc, parts []ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindInterpolatedString, loc: loc, Children: parts}
}
func (DefaultFactory) SymbolLiteral(loc ast.Loc, name string) ast.Node {
	return &GenericNode{kind: ast.KindSymbolLiteral, loc: loc, Str: name}
}
func (DefaultFactory) InterpolatedSymbol(loc ast.Loc, parts []ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindInterpolatedSymbol, loc: loc, Children: parts}
}
func (DefaultFactory) RegexpLiteral(loc ast.Loc, source []byte, options uint32) ast.Node {
	return &GenericNode{kind: ast.KindRegexpLiteral, loc: loc, Bytes: source, Num: int(options)}
}
func (DefaultFactory) InterpolatedRegexp(loc ast.Loc, parts []ast.Node, options uint32) ast.Node {
	return &GenericNode{kind: ast.KindInterpolatedRegexp, loc: loc, Children: parts, Num: int(options)}
}
func (DefaultFactory) WordsArray(loc ast.Loc, words []ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindWordsArray, loc: loc, Children: words}
}
func (DefaultFactory) SymbolsArray(loc ast.Loc, symbols []ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindSymbolsArray, loc: loc, Children: symbols}
}
func (DefaultFactory) ArrayLiteral(loc ast.Loc, elements []ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindArrayLiteral, loc: loc, Children: elements}
}
func (DefaultFactory) HashLiteral(loc ast.Loc, pairs []ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindHashLiteral, loc: loc, Children: pairs}
}
func (DefaultFactory) HashPair(loc ast.Loc, key, value ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindHashPairNode, loc: loc, Child: key, Child2: value}
}
func (DefaultFactory) RangeLiteral(loc ast.Loc, lo, hi ast.Node, exclusive bool) ast.Node {
	return &GenericNode{kind: ast.KindRangeLiteral, loc: loc, Child: lo, Child2: hi, Bool: exclusive}
}
func (DefaultFactory) Nil(loc ast.Loc) ast.Node   { return leaf(ast.KindNilLiteral, loc) }
func (DefaultFactory) True(loc ast.Loc) ast.Node  { return leaf(ast.KindTrueLiteral, loc) }
func (DefaultFactory) False(loc ast.Loc) ast.Node { return leaf(ast.KindFalseLiteral, loc) }
func (DefaultFactory) SelfNode(loc ast.Loc) ast.Node { return leaf(ast.KindSelfLiteral, loc) }
func (DefaultFactory) CharLiteral(loc ast.Loc, value []byte) ast.Node {
	return &GenericNode{kind: ast.KindCharLiteral, loc: loc, Bytes: value}
}

func (DefaultFactory) LocalVarRead(loc ast.Loc, name string) ast.Node {
	return &GenericNode{kind: ast.KindLocalVarRead, loc: loc, Str: name}
}
func (DefaultFactory) LocalVarWrite(loc ast.Loc, name string, value ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindLocalVarWrite, loc: loc, Str: name, Child: value}
}
func (DefaultFactory) InstanceVarRead(loc ast.Loc, name string) ast.Node {
	return &GenericNode{kind: ast.KindInstanceVarRead, loc: loc, Str: name}
}
func (DefaultFactory) InstanceVarWrite(loc ast.Loc, name string, value ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindInstanceVarWrite, loc: loc, Str: name, Child: value}
}
func (DefaultFactory) ClassVarRead(loc ast.Loc, name string) ast.Node {
	return &GenericNode{kind: ast.KindClassVarRead, loc: loc, Str: name}
}
func (DefaultFactory) ClassVarWrite(loc ast.Loc, name string, value ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindClassVarWrite, loc: loc, Str: name, Child: value}
}
func (DefaultFactory) GlobalVarRead(loc ast.Loc, name string) ast.Node {
	return &GenericNode{kind: ast.KindGlobalVarRead, loc: loc, Str: name}
}
func (DefaultFactory) GlobalVarWrite(loc ast.Loc, name string, value ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindGlobalVarWrite, loc: loc, Str: name, Child: value}
}
func (DefaultFactory) ConstantRead(loc ast.Loc, name string) ast.Node {
	return &GenericNode{kind: ast.KindConstantRead, loc: loc, Str: name}
}
func (DefaultFactory) ConstantWrite(loc ast.Loc, name string, value ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindConstantWrite, loc: loc, Str: name, Child: value}
}
func (DefaultFactory) ConstantPathRead(loc ast.Loc, parent ast.Node, name string) ast.Node {
	return &GenericNode{kind: ast.KindConstantPathRead, loc: loc, Child: parent, Str: name}
}
func (DefaultFactory) ConstantPathWrite(loc ast.Loc, parent ast.Node, name string, value ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindConstantPathWrite, loc: loc, Child: parent, Str: name, Child2: value}
}
func (DefaultFactory) BackReferenceRead(loc ast.Loc, name string) ast.Node {
	return &GenericNode{kind: ast.KindBackReferenceRead, loc: loc, Str: name}
}
func (DefaultFactory) NumberedParamRead(loc ast.Loc, n int) ast.Node {
	return &GenericNode{kind: ast.KindNumberedParamRead, loc: loc, Num: n}
}
func (DefaultFactory) ItParamRead(loc ast.Loc) ast.Node { return leaf(ast.KindItParamRead, loc) }

func (DefaultFactory) LocalVarTarget(loc ast.Loc, name string) ast.Node {
	return &GenericNode{kind: ast.KindLocalVarTarget, loc: loc, Str: name}
}
func (DefaultFactory) MultiWrite(loc ast.Loc, targets []ast.Node, value ast.Node, splatImplicitArray bool) ast.Node {
	return &GenericNode{kind: ast.KindMultiWrite, loc: loc, Children: targets, Child: value, Bool: splatImplicitArray}
}
func (DefaultFactory) MultiTarget(loc ast.Loc, targets []ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindMultiTarget, loc: loc, Children: targets}
}
func (DefaultFactory) SplatTarget(loc ast.Loc, inner ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindSplatTarget, loc: loc, Child: inner}
}
func (DefaultFactory) OpAssign(loc ast.Loc, op string, target, value ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindOpAssign, loc: loc, Str: op, Child: target, Child2: value}
}
func (DefaultFactory) OrAssign(loc ast.Loc, target, value ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindOrAssign, loc: loc, Child: target, Child2: value}
}
func (DefaultFactory) AndAssign(loc ast.Loc, target, value ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindAndAssign, loc: loc, Child: target, Child2: value}
}
func (DefaultFactory) IndexTarget(loc ast.Loc, receiver ast.Node, args []ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindIndexTarget, loc: loc, Child: receiver, Children: args}
}
func (DefaultFactory) CallTarget(loc ast.Loc, receiver ast.Node, name string) ast.Node {
	return &GenericNode{kind: ast.KindCallTarget, loc: loc, Child: receiver, Str: name}
}
func (DefaultFactory) MatchWrite(loc ast.Loc, regexp ast.Node, rhs ast.Node, names []string) ast.Node {
	return &GenericNode{kind: ast.KindMatchWrite, loc: loc, Child: regexp, Child2: rhs, Names: names}
}

func (DefaultFactory) Call(loc ast.Loc, receiver ast.Node, name string, args []ast.Node, block ast.Node, safeNav bool) ast.Node {
	kind := ast.KindCall
	if safeNav {
		kind = ast.KindSafeCall
	}
	return &GenericNode{kind: kind, loc: loc, Child: receiver, Str: name, Children: args, Child2: block, Bool: safeNav}
}
func (DefaultFactory) CommandCall(loc ast.Loc, receiver ast.Node, name string, args []ast.Node, block ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindCommandCall, loc: loc, Child: receiver, Str: name, Children: args, Child2: block}
}
func (DefaultFactory) IndexCall(loc ast.Loc, receiver ast.Node, args []ast.Node, block ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindIndexCall, loc: loc, Child: receiver, Children: args, Child2: block}
}
func (DefaultFactory) SuperCall(loc ast.Loc, args []ast.Node, block ast.Node, zsuper bool) ast.Node {
	kind := ast.KindSuperCall
	if zsuper {
		kind = ast.KindZSuperCall
	}
	return &GenericNode{kind: kind, loc: loc, Children: args, Child2: block, Bool: zsuper}
}
func (DefaultFactory) Yield(loc ast.Loc, args []ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindYield, loc: loc, Children: args}
}
func (DefaultFactory) Block(loc ast.Loc, params ast.Node, body ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindBlock, loc: loc, Child: params, Child2: body}
}
func (DefaultFactory) BlockParameters(loc ast.Loc, params []ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindBlockParameters, loc: loc, Children: params}
}
func (DefaultFactory) ArgSplat(loc ast.Loc, inner ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindArgSplat, loc: loc, Child: inner}
}
func (DefaultFactory) ArgDoubleSplat(loc ast.Loc, inner ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindArgDoubleSplat, loc: loc, Child: inner}
}
func (DefaultFactory) ArgBlockPass(loc ast.Loc, inner ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindArgBlockPass, loc: loc, Child: inner}
}
func (DefaultFactory) ArgAssoc(loc ast.Loc, key, value ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindArgAssoc, loc: loc, Child: key, Child2: value}
}

func (DefaultFactory) Def(loc ast.Loc, name string, receiver ast.Node, params ast.Node, body ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindDef, loc: loc, Str: name, Child: receiver, Child2: params, Child3: body}
}
func (DefaultFactory) Parameters(loc ast.Loc, required, optional, rest, keyword []ast.Node, keywordRest, block ast.Node) ast.Node {
	all := make([]ast.Node, 0, len(required)+len(optional)+len(rest)+len(keyword)+2)
	all = append(all, required...)
	all = append(all, optional...)
	all = append(all, rest...)
	all = append(all, keyword...)
	if keywordRest != nil {
		all = append(all, keywordRest)
	}
	if block != nil {
		all = append(all, block)
	}
	return &GenericNode{kind: ast.KindParameters, loc: loc, Children: all, Num: len(required)}
}
func (DefaultFactory) RequiredParam(loc ast.Loc, name string) ast.Node {
	return &GenericNode{kind: ast.KindRequiredParam, loc: loc, Str: name}
}
func (DefaultFactory) OptionalParam(loc ast.Loc, name string, def ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindOptionalParam, loc: loc, Str: name, Child: def}
}
func (DefaultFactory) RestParam(loc ast.Loc, name string) ast.Node {
	return &GenericNode{kind: ast.KindRestParam, loc: loc, Str: name}
}
func (DefaultFactory) KeywordParam(loc ast.Loc, name string, def ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindKeywordParam, loc: loc, Str: name, Child: def}
}
func (DefaultFactory) KeywordRestParam(loc ast.Loc, name string) ast.Node {
	return &GenericNode{kind: ast.KindKeywordRestParam, loc: loc, Str: name}
}
func (DefaultFactory) BlockParam(loc ast.Loc, name string) ast.Node {
	return &GenericNode{kind: ast.KindBlockParam, loc: loc, Str: name}
}
func (DefaultFactory) ForwardingParam(loc ast.Loc) ast.Node {
	return leaf(ast.KindForwardingParam, loc)
}
func (DefaultFactory) ClassNode(loc ast.Loc, name ast.Node, superclass ast.Node, body ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindClassNode, loc: loc, Child: name, Child2: superclass, Child3: body}
}
func (DefaultFactory) SingletonClassNode(loc ast.Loc, target ast.Node, body ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindSingletonClassNode, loc: loc, Child: target, Child2: body}
}
func (DefaultFactory) ModuleNode(loc ast.Loc, name ast.Node, body ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindModuleNode, loc: loc, Child: name, Child2: body}
}
func (DefaultFactory) Alias(loc ast.Loc, newName, oldName ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindAlias, loc: loc, Child: newName, Child2: oldName}
}
func (DefaultFactory) Undef(loc ast.Loc, names []ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindUndef, loc: loc, Children: names}
}
func (DefaultFactory) Lambda(loc ast.Loc, params ast.Node, body ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindLambda, loc: loc, Child: params, Child2: body}
}

func (DefaultFactory) Statements(loc ast.Loc, stmts []ast.Node) ast.Node {
	return &GenericNode{kind: ast.KindStatements, loc: loc, Children: stmts}
}
