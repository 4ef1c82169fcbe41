// Package lexmode implements the lex-mode stack of spec.md §3/§4.3: a
// push-down automaton over {default, string, list, regexp, heredoc,
// embedded_expression, embedded_variable}, backed by a fixed-capacity
// inline array that spills to a heap-allocated linked list once full.
package lexmode

// Kind tags which sublanguage a Mode frame represents.
type Kind int

const (
	Default Kind = iota
	StringMode
	ListMode
	RegexpMode
	HeredocMode
	EmbeddedExpression
	EmbeddedVariable
)

// Indent classifies heredoc opener style.
type Indent int

const (
	IndentNone Indent = iota
	IndentDash         // <<-
	IndentTilde        // <<~
)

// Quote classifies heredoc quoting style.
type Quote int

const (
	QuoteNone Quote = iota
	QuoteSingle
	QuoteDouble
	QuoteBack
)

// Mode is the tagged-union payload of one stack frame. Only the fields
// relevant to Kind are meaningful; this mirrors spec.md §3's "tagged
// union" description rather than splitting into Go interface types,
// since every frame needs to be a plain value cheaply copyable onto the
// inline array.
type Mode struct {
	Kind Kind

	// string/list/regexp fields.
	Interpolation bool
	LabelAllowed  bool
	Incrementor   byte // 0 if the terminator isn't a paired delimiter
	Terminator    byte
	Nesting       int
	Breakpoints   [256]bool

	// Explicit-encoding shadow for the literal this frame scans: escapes
	// mark the frame as they decode, and the lexer reconciles the marks
	// when the literal closes.
	ForcedUTF8   bool
	ForcedBinary bool

	// heredoc fields.
	IdentStart        int
	IdentLength       int
	HeredocQuote      Quote
	HeredocIndent     Indent
	NextStart         int
	CommonWhitespace  int
	LineContinuation  bool

	// embedded_expression field: brace_nesting value to restore to when
	// popping back to the enclosing mode.
	SavedBraceNesting int
}

// NewString builds a string-mode frame and precomputes its breakpoint set.
func NewString(terminator, incrementor byte, interpolation, labelAllowed bool) Mode {
	m := Mode{Kind: StringMode, Terminator: terminator, Incrementor: incrementor,
		Interpolation: interpolation, LabelAllowed: labelAllowed}
	m.computeBreakpoints()
	return m
}

// NewList builds a %w/%i/%W/%I list-mode frame.
func NewList(terminator, incrementor byte, interpolation bool) Mode {
	m := Mode{Kind: ListMode, Terminator: terminator, Incrementor: incrementor, Interpolation: interpolation}
	m.computeBreakpoints()
	return m
}

// NewRegexp builds a /.../ or %r... mode frame.
func NewRegexp(terminator, incrementor byte) Mode {
	m := Mode{Kind: RegexpMode, Terminator: terminator, Incrementor: incrementor, Interpolation: true}
	m.computeBreakpoints()
	return m
}

// NewHeredoc builds a heredoc mode frame.
func NewHeredoc(identStart, identLength int, quote Quote, indent Indent, nextStart int) Mode {
	return Mode{Kind: HeredocMode, IdentStart: identStart, IdentLength: identLength,
		HeredocQuote: quote, HeredocIndent: indent, NextStart: nextStart,
		Interpolation: quote != QuoteSingle}
}

// computeBreakpoints precomputes the "find next interesting byte" set
// for scan loops inside this mode: the terminator, the incrementor (if
// any), a backslash (escape introducer), and, when interpolation is
// allowed, '#'.
func (m *Mode) computeBreakpoints() {
	m.Breakpoints[m.Terminator] = true
	if m.Incrementor != 0 {
		m.Breakpoints[m.Incrementor] = true
	}
	m.Breakpoints['\\'] = true
	m.Breakpoints['\n'] = true
	if m.Interpolation {
		m.Breakpoints['#'] = true
	}
	if m.Kind == ListMode {
		m.Breakpoints[' '] = true
		m.Breakpoints['\t'] = true
	}
}

const inlineCapacity = 8

// spillover is a heap-allocated linked node used once the inline array
// fills up.
type spillover struct {
	mode Mode
	prev *spillover
}

// Stack is the mode-stack automaton. The zero value is an empty stack
// with no Default frame at its bottom; use New for a ready-to-use stack.
type Stack struct {
	inline    [inlineCapacity]Mode
	depth     int // number of frames currently in `inline`
	overflow  *spillover
}

// New returns a Stack whose bottom frame is Default, per spec.md §3
// ("the bottom mode is always default").
func New() *Stack {
	s := &Stack{}
	s.inline[0] = Mode{Kind: Default}
	s.depth = 1
	return s
}

// Push installs m as the new top of stack.
func (s *Stack) Push(m Mode) {
	if s.depth < inlineCapacity {
		s.inline[s.depth] = m
		s.depth++
		return
	}
	s.overflow = &spillover{mode: m, prev: s.overflow}
}

// Pop removes the top frame. Popping the bottom Default frame is a
// no-op that resets the bottom to Default, so Depth() never goes below 1.
func (s *Stack) Pop() {
	if s.overflow != nil {
		s.overflow = s.overflow.prev
		return
	}
	if s.depth <= 1 {
		s.inline[0] = Mode{Kind: Default}
		return
	}
	s.depth--
}

// Current returns a pointer to the logical top-of-stack frame, which
// callers may mutate in place (e.g. to bump Nesting).
func (s *Stack) Current() *Mode {
	if s.overflow != nil {
		return &s.overflow.mode
	}
	return &s.inline[s.depth-1]
}

// Depth reports the total number of frames, inline plus spillover.
func (s *Stack) Depth() int {
	d := s.depth
	for sp := s.overflow; sp != nil; sp = sp.prev {
		d++
	}
	return d
}
