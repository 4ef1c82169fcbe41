// Package ast defines the node-construction boundary the parser talks
// to. Per spec.md §1, node allocation and layout are explicitly out of
// scope for the core: the parser never allocates a concrete node type
// itself, it calls a Factory and gets back an opaque Node. The one
// concrete Factory implementation lives in internal/nodes.
package ast

// Kind discriminates the payload of a Node. Tree walkers outside this
// module (themselves out of scope, per spec.md §9's "polymorphism at the
// node layer" design note) should switch exhaustively over Kind.
type Kind int

const (
	KindMissing Kind = iota

	// Literals.
	KindIntegerLiteral
	KindFloatLiteral
	KindRationalLiteral
	KindImaginaryLiteral
	KindStringLiteral
	KindInterpolatedString
	KindSymbolLiteral
	KindInterpolatedSymbol
	KindRegexpLiteral
	KindInterpolatedRegexp
	KindWordsArray
	KindSymbolsArray
	KindArrayLiteral
	KindHashLiteral
	KindHashPairNode
	KindRangeLiteral
	KindNilLiteral
	KindTrueLiteral
	KindFalseLiteral
	KindSelfLiteral
	KindCharLiteral

	// Identifiers / variable access.
	KindLocalVarRead
	KindLocalVarWrite
	KindLocalVarTarget
	KindInstanceVarRead
	KindInstanceVarWrite
	KindClassVarRead
	KindClassVarWrite
	KindGlobalVarRead
	KindGlobalVarWrite
	KindConstantRead
	KindConstantWrite
	KindConstantPathRead
	KindConstantPathWrite
	KindBackReferenceRead
	KindNumberedParamRead
	KindItParamRead

	// Writes / assignment forms.
	KindMultiWrite
	KindMultiTarget
	KindSplatTarget
	KindOpAssign
	KindOrAssign
	KindAndAssign
	KindIndexTarget
	KindCallTarget
	KindMatchWrite

	// Calls and blocks.
	KindCall
	KindCommandCall
	KindSafeCall
	KindIndexCall
	KindSuperCall
	KindZSuperCall
	KindYield
	KindBlock
	KindBlockParameters
	KindArgSplat
	KindArgDoubleSplat
	KindArgBlockPass
	KindArgAssoc

	// Definitions.
	KindDef
	KindParameters
	KindRequiredParam
	KindOptionalParam
	KindRestParam
	KindKeywordParam
	KindKeywordRestParam
	KindBlockParam
	KindForwardingParam
	KindClassNode
	KindSingletonClassNode
	KindModuleNode
	KindAlias
	KindUndef
	KindLambda

	// Control flow.
	KindStatements
	KindIfNode
	KindUnlessNode
	KindWhileNode
	KindUntilNode
	KindForNode
	KindCaseNode
	KindWhenClause
	KindCaseMatch
	KindInClause
	KindBeginNode
	KindRescueClause
	KindEnsureClause
	KindBreakNode
	KindNextNode
	KindRedoNode
	KindRetryNode
	KindReturnNode
	KindAndNode
	KindOrNode
	KindNotNode
	KindDefinedNode
	KindTernaryNode
	KindRescueModifier
	KindBeginBlock
	KindEndBlock

	// Patterns (case/in, spec.md §4.8).
	KindArrayPattern
	KindFindPattern
	KindHashPattern
	KindAlternationPattern
	KindCapturePattern
	KindPinPattern
	KindMatchPredicate // expr in pattern
	KindMatchRequired  // expr => pattern

	// Statement-only / error-recovery.
	KindMultiWriteLHS
	KindPreExec
	KindPostExec
)

// Loc is a byte-offset span into the shared source buffer.
type Loc struct {
	Start int
	End   int
}

// Node is the opaque value the parser manipulates. Concrete fields live
// behind whatever Factory implementation produced the node; the parser
// never type-asserts a Node to a concrete struct, only to Kind-specific
// accessor interfaces it needs (Named, Receiver, Args, Blocked, BytesOf
// below) when it must
// re-shape a node it already built (e.g. converting a read into a write
// target).
type Node interface {
	Kind() Kind
	Location() Loc
}

// Retargetable is implemented by nodes the parser may need to convert
// from a read form to a write/target form in place, for spec.md §4.7's
// parse_target ("read → target, obj.m → call-target, obj[i] →
// index-target").
type Retargetable interface {
	Node
	AsTarget() Node
}

// Named is implemented by any node carrying a single identifier payload
// (local/instance/class/global/constant reads, call/method names) so the
// parser can recover the name for assignment desugaring without a
// concrete-type assertion.
type Named interface {
	Node
	Name() string
}

// Receiver is implemented by nodes shaped as `receiver.name`: Call,
// CommandCall, and ConstantPathRead all carry this shape, which is what
// spec.md §4.7's assignment desugaring (`obj.attr = v` → `obj.attr=(v)`,
// `Foo::BAR = v` → ConstantPathWrite) needs to rebuild them.
type Receiver interface {
	Named
	Receiver() Node
}

// Args is implemented by nodes carrying a positional argument list
// (Call, IndexCall), so the parser can inspect or extend it when
// desugaring an index or attribute assignment.
type Args interface {
	Node
	Args() []Node
}

// Blocked is implemented by nodes that may carry a trailing block (Call,
// CommandCall, IndexCall), used to confirm a bare identifier parsed as a
// zero-arg call is really a fresh local before treating `x = 1` as a
// local-variable write rather than a method call.
type Blocked interface {
	Node
	Block() Node
}

// BytesOf is implemented by nodes storing a raw byte payload (string,
// regexp literals) so the parser can inspect literal content without a
// concrete-type assertion, e.g. named-capture discovery on a
// non-interpolated regexp per spec.md §4.9 / §8 item 8.
type BytesOf interface {
	Node
	RawBytes() []byte
}

// Factory is the node-allocation boundary spec.md §1 calls out as
// deliberately external. Every method returns an opaque Node; argument
// shapes below mirror the fields spec.md's own data model assigns to
// each construct (see §3, §8's worked examples).
type Factory interface {
	Missing(loc Loc) Node

	Integer(loc Loc, text string) Node
	Float(loc Loc, text string) Node
	Rational(loc Loc, text string) Node
	Imaginary(loc Loc, text string) Node
	StringLiteral(loc Loc, value []byte) Node
	InterpolatedString(loc Loc, parts []Node) Node
	SymbolLiteral(loc Loc, name string) Node
	InterpolatedSymbol(loc Loc, parts []Node) Node
	RegexpLiteral(loc Loc, source []byte, options uint32) Node
	InterpolatedRegexp(loc Loc, parts []Node, options uint32) Node
	WordsArray(loc Loc, words []Node) Node
	SymbolsArray(loc Loc, symbols []Node) Node
	ArrayLiteral(loc Loc, elements []Node) Node
	HashLiteral(loc Loc, pairs []Node) Node
	HashPair(loc Loc, key, value Node) Node
	RangeLiteral(loc Loc, lo, hi Node, exclusive bool) Node
	Nil(loc Loc) Node
	True(loc Loc) Node
	False(loc Loc) Node
	SelfNode(loc Loc) Node
	CharLiteral(loc Loc, value []byte) Node

	LocalVarRead(loc Loc, name string) Node
	LocalVarWrite(loc Loc, name string, value Node) Node
	InstanceVarRead(loc Loc, name string) Node
	InstanceVarWrite(loc Loc, name string, value Node) Node
	ClassVarRead(loc Loc, name string) Node
	ClassVarWrite(loc Loc, name string, value Node) Node
	GlobalVarRead(loc Loc, name string) Node
	GlobalVarWrite(loc Loc, name string, value Node) Node
	ConstantRead(loc Loc, name string) Node
	ConstantWrite(loc Loc, name string, value Node) Node
	ConstantPathRead(loc Loc, parent Node, name string) Node
	ConstantPathWrite(loc Loc, parent Node, name string, value Node) Node
	BackReferenceRead(loc Loc, name string) Node
	NumberedParamRead(loc Loc, n int) Node
	ItParamRead(loc Loc) Node

	LocalVarTarget(loc Loc, name string) Node
	MultiWrite(loc Loc, targets []Node, value Node, splatImplicitArray bool) Node
	MultiTarget(loc Loc, targets []Node) Node
	SplatTarget(loc Loc, inner Node) Node
	OpAssign(loc Loc, op string, target, value Node) Node
	OrAssign(loc Loc, target, value Node) Node
	AndAssign(loc Loc, target, value Node) Node
	IndexTarget(loc Loc, receiver Node, args []Node) Node
	CallTarget(loc Loc, receiver Node, name string) Node
	MatchWrite(loc Loc, regexp Node, rhs Node, names []string) Node

	Call(loc Loc, receiver Node, name string, args []Node, block Node, safeNav bool) Node
	CommandCall(loc Loc, receiver Node, name string, args []Node, block Node) Node
	IndexCall(loc Loc, receiver Node, args []Node, block Node) Node
	SuperCall(loc Loc, args []Node, block Node, zsuper bool) Node
	Yield(loc Loc, args []Node) Node
	Block(loc Loc, params Node, body Node) Node
	BlockParameters(loc Loc, params []Node) Node
	ArgSplat(loc Loc, inner Node) Node
	ArgDoubleSplat(loc Loc, inner Node) Node
	ArgBlockPass(loc Loc, inner Node) Node
	ArgAssoc(loc Loc, key, value Node) Node

	Def(loc Loc, name string, receiver Node, params Node, body Node) Node
	Parameters(loc Loc, required, optional, rest, keyword []Node, keywordRest, block Node) Node
	RequiredParam(loc Loc, name string) Node
	OptionalParam(loc Loc, name string, def Node) Node
	RestParam(loc Loc, name string) Node
	KeywordParam(loc Loc, name string, def Node) Node
	KeywordRestParam(loc Loc, name string) Node
	BlockParam(loc Loc, name string) Node
	ForwardingParam(loc Loc) Node
	ClassNode(loc Loc, name Node, superclass Node, body Node) Node
	SingletonClassNode(loc Loc, target Node, body Node) Node
	ModuleNode(loc Loc, name Node, body Node) Node
	Alias(loc Loc, newName, oldName Node) Node
	Undef(loc Loc, names []Node) Node
	Lambda(loc Loc, params Node, body Node) Node

	Statements(loc Loc, stmts []Node) Node
	If(loc Loc, cond Node, then Node, els Node) Node
	Unless(loc Loc, cond Node, then Node, els Node) Node
	While(loc Loc, cond Node, body Node, beginModifier bool) Node
	Until(loc Loc, cond Node, body Node, beginModifier bool) Node
	For(loc Loc, target Node, iterable Node, body Node) Node
	Case(loc Loc, subject Node, whens []Node, els Node) Node
	WhenClause(loc Loc, conditions []Node, body Node) Node
	CaseMatch(loc Loc, subject Node, ins []Node, els Node) Node
	InClause(loc Loc, pattern Node, guard Node, body Node) Node
	Begin(loc Loc, body Node, rescues []Node, elseBody Node, ensure Node) Node
	Rescue(loc Loc, exceptionClasses []Node, varName string, body Node) Node
	Break(loc Loc, value Node) Node
	Next(loc Loc, value Node) Node
	Redo(loc Loc) Node
	Retry(loc Loc) Node
	Return(loc Loc, value Node) Node
	And(loc Loc, left, right Node) Node
	Or(loc Loc, left, right Node) Node
	Not(loc Loc, operand Node) Node
	Defined(loc Loc, operand Node) Node
	Ternary(loc Loc, cond, then, els Node) Node
	RescueModifier(loc Loc, body, rescueExpr Node) Node
	BeginBlock(loc Loc, body Node) Node
	EndBlock(loc Loc, body Node) Node

	ArrayPattern(loc Loc, pre []Node, rest Node, post []Node, constant Node) Node
	FindPattern(loc Loc, leadingSplat Node, middle []Node, trailingSplat Node) Node
	HashPattern(loc Loc, pairs []Node, rest Node, constant Node) Node
	AlternationPattern(loc Loc, left, right Node) Node
	CapturePattern(loc Loc, pattern Node, name string) Node
	PinPattern(loc Loc, expr Node) Node
	MatchPredicate(loc Loc, value, pattern Node) Node
	MatchRequired(loc Loc, value, pattern Node) Node
}
