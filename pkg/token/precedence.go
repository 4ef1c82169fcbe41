package token

// Precedence levels, lowest to highest. Mirrors the go-dws convention of a
// single iota block (see internal/parser/parser.go's LOWEST..MEMBER
// ladder) rather than a separately numbered table per operator family.
//
// Binding powers are doubled (level*2) at lookup time so that
// left-associative operators can express "right = left+1" and
// right-associative operators "right = left" without needing a second
// table; see LeftBP/RightBP below.
const (
	_ int = iota
	Lowest
	ModifierRescue   // expr rescue expr
	Composition      // and, or
	Not              // not
	Assignment       // = += -= ||= &&= ...
	Ternary          // ?:
	Range            // .. ...
	LogicalOr        // ||
	LogicalAnd       // &&
	Defined          // defined?
	Equality         // == != === =~ !~ <=>
	Comparison       // < > <= >=
	BitwiseOr        // | ^
	BitwiseAnd       // &
	Shift            // << >>
	Additive         // + -
	Multiplicative   // * / %
	UnaryMinus       // unary -
	Power            // **
	UnaryBang        // ! ~ unary +
	CallPrec         // method(), .method, ::Const, [] indexing
)

// assoc classifies how a binary operator of a given precedence combines
// with another operator at the same precedence.
type assoc int

const (
	assocLeft assoc = iota
	assocRight
	assocNone
)

type opInfo struct {
	level int
	assoc assoc
	// unary, when true, means this Kind is only ever a prefix operator at
	// this precedence (right-binding power only, no left binding power).
	unary bool
}

var binary = map[Kind]opInfo{
	KW_RESCUE:      {ModifierRescue, assocLeft, false},
	KW_AND:         {Composition, assocLeft, false},
	KW_OR:          {Composition, assocLeft, false},
	ASSIGN:         {Assignment, assocRight, false},
	OP_ASSIGN_PLUS: {Assignment, assocRight, false}, OP_ASSIGN_MINUS: {Assignment, assocRight, false},
	OP_ASSIGN_STAR: {Assignment, assocRight, false}, OP_ASSIGN_STAR2: {Assignment, assocRight, false},
	OP_ASSIGN_SLASH: {Assignment, assocRight, false}, OP_ASSIGN_PERCENT: {Assignment, assocRight, false},
	OP_ASSIGN_LSHIFT: {Assignment, assocRight, false}, OP_ASSIGN_RSHIFT: {Assignment, assocRight, false},
	OP_ASSIGN_AMP: {Assignment, assocRight, false}, OP_ASSIGN_PIPE: {Assignment, assocRight, false},
	OP_ASSIGN_CARET: {Assignment, assocRight, false},
	OP_ASSIGN_AMP2:  {Assignment, assocRight, false}, OP_ASSIGN_PIPE2: {Assignment, assocRight, false},
	QUESTION: {Ternary, assocRight, false},
	DOT2:     {Range, assocNone, false}, DOT3: {Range, assocNone, false},
	PIPE2: {LogicalOr, assocLeft, false},
	AMP2:  {LogicalAnd, assocLeft, false},
	EQ:    {Equality, assocNone, false}, NEQ: {Equality, assocNone, false},
	EQQ: {Equality, assocNone, false}, MATCH: {Equality, assocNone, false},
	NMATCH: {Equality, assocNone, false}, CMP: {Equality, assocNone, false},
	LT: {Comparison, assocLeft, false}, GT: {Comparison, assocLeft, false},
	LE: {Comparison, assocLeft, false}, GE: {Comparison, assocLeft, false},
	PIPE: {BitwiseOr, assocLeft, false}, CARET: {BitwiseOr, assocLeft, false},
	AMP:    {BitwiseAnd, assocLeft, false},
	LSHIFT: {Shift, assocLeft, false}, RSHIFT: {Shift, assocLeft, false},
	PLUS: {Additive, assocLeft, false}, MINUS: {Additive, assocLeft, false},
	STAR: {Multiplicative, assocLeft, false}, SLASH: {Multiplicative, assocLeft, false},
	PERCENT: {Multiplicative, assocLeft, false},
	STAR2:   {Power, assocRight, false},
	DOT:     {CallPrec, assocLeft, false}, COLON2: {CallPrec, assocLeft, false},
	AMPDOT: {CallPrec, assocLeft, false},
	LPAREN: {CallPrec, assocLeft, false}, LBRACKET_ARG: {CallPrec, assocLeft, false},
}

var unaryPrefix = map[Kind]opInfo{
	KW_NOT: {Not, assocRight, true},
	UMINUS: {UnaryMinus, assocRight, true},
	UPLUS:  {UnaryBang, assocRight, true},
	BANG:   {UnaryBang, assocRight, true},
	TILDE:  {UnaryBang, assocRight, true},
	USTAR:  {CallPrec, assocRight, true}, USTAR2: {CallPrec, assocRight, true},
	UAMP: {CallPrec, assocRight, true},
	UDOT2: {Range, assocRight, true}, UDOT3: {Range, assocRight, true},
}

// LeftBP returns the left binding power of k as an infix/postfix operator,
// or 0 if k never appears in infix position.
func LeftBP(k Kind) int {
	if info, ok := binary[k]; ok {
		return info.level * 2
	}
	return 0
}

// RightBP returns the binding power parse_expression must pass when
// recursing into the right-hand operand of k.
func RightBP(k Kind) int {
	if info, ok := binary[k]; ok {
		switch info.assoc {
		case assocRight:
			return info.level * 2
		case assocNone:
			return info.level*2 + 1
		default:
			return info.level*2 + 1
		}
	}
	if info, ok := unaryPrefix[k]; ok {
		return info.level * 2
	}
	return 0
}

// IsBinary reports whether k can appear as an infix operator.
func IsBinary(k Kind) bool {
	_, ok := binary[k]
	return ok
}

// IsNonAssoc reports whether repeated uses of k at the same level (e.g.
// `a..b..c`, `a <=> b <=> c`) are a precedence-table error rather than a
// valid parse.
func IsNonAssoc(k Kind) bool {
	info, ok := binary[k]
	return ok && info.assoc == assocNone
}

// IsUnaryPrefix reports whether k can appear as a prefix operator and
// returns its right binding power.
func IsUnaryPrefix(k Kind) (int, bool) {
	info, ok := unaryPrefix[k]
	if !ok {
		return 0, false
	}
	return info.level * 2, true
}
