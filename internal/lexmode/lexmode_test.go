package lexmode

import "testing"

func TestNewStackStartsAtDefault(t *testing.T) {
	s := New()
	if s.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", s.Depth())
	}
	if s.Current().Kind != Default {
		t.Fatalf("expected bottom frame to be Default, got %v", s.Current().Kind)
	}
}

func TestPushAndPop(t *testing.T) {
	s := New()
	s.Push(NewString('"', 0, true, true))
	if s.Depth() != 2 {
		t.Fatalf("expected depth 2 after push, got %d", s.Depth())
	}
	if s.Current().Kind != StringMode {
		t.Fatalf("expected top frame StringMode, got %v", s.Current().Kind)
	}
	s.Pop()
	if s.Depth() != 1 {
		t.Fatalf("expected depth 1 after pop, got %d", s.Depth())
	}
	if s.Current().Kind != Default {
		t.Fatalf("expected Default frame restored after pop, got %v", s.Current().Kind)
	}
}

func TestPopAtBottomIsNoop(t *testing.T) {
	s := New()
	s.Pop()
	s.Pop()
	if s.Depth() != 1 {
		t.Fatalf("expected popping the bottom frame to leave depth at 1, got %d", s.Depth())
	}
	if s.Current().Kind != Default {
		t.Fatalf("expected Default at the bottom regardless of extra pops")
	}
}

func TestSpilloverBeyondInlineCapacity(t *testing.T) {
	s := New()
	for i := 0; i < inlineCapacity+5; i++ {
		s.Push(NewString('"', 0, true, true))
	}
	if want := 1 + inlineCapacity + 5; s.Depth() != want {
		t.Fatalf("expected depth %d, got %d", want, s.Depth())
	}
	for i := 0; i < inlineCapacity+5; i++ {
		s.Pop()
	}
	if s.Depth() != 1 {
		t.Fatalf("expected depth 1 after popping all spillover and inline frames, got %d", s.Depth())
	}
}

func TestStringModeBreakpoints(t *testing.T) {
	m := NewString('"', 0, true, true)
	if !m.Breakpoints['"'] {
		t.Fatalf("expected terminator to be a breakpoint")
	}
	if !m.Breakpoints['\\'] {
		t.Fatalf("expected backslash to be a breakpoint")
	}
	if !m.Breakpoints['#'] {
		t.Fatalf("expected # to be a breakpoint when interpolation is allowed")
	}
}

func TestNonInterpolatingStringHasNoHashBreakpoint(t *testing.T) {
	m := NewString('\'', 0, false, false)
	if m.Breakpoints['#'] {
		t.Fatalf("did not expect # to be a breakpoint for a non-interpolating string")
	}
}

func TestPairedDelimiterIncrementorIsBreakpoint(t *testing.T) {
	m := NewString(')', '(', true, true)
	if !m.Breakpoints['('] {
		t.Fatalf("expected the incrementor '(' to be a breakpoint for nested %%()")
	}
	if !m.Breakpoints[')'] {
		t.Fatalf("expected the terminator ')' to be a breakpoint")
	}
}

func TestListModeBreaksOnWhitespace(t *testing.T) {
	m := NewList(']', '[', false)
	if !m.Breakpoints[' '] || !m.Breakpoints['\t'] {
		t.Fatalf("expected list mode to break on space/tab to separate words")
	}
}

func TestRegexpModeAlwaysInterpolates(t *testing.T) {
	m := NewRegexp('/', 0)
	if !m.Interpolation {
		t.Fatalf("expected regexp mode to always allow interpolation")
	}
	if !m.Breakpoints['#'] {
		t.Fatalf("expected # to be a breakpoint in regexp mode")
	}
}

func TestHeredocModeInterpolationFollowsQuoteStyle(t *testing.T) {
	single := NewHeredoc(0, 3, QuoteSingle, IndentNone, 10)
	if single.Interpolation {
		t.Fatalf("expected single-quoted heredoc to not interpolate")
	}
	double := NewHeredoc(0, 3, QuoteDouble, IndentTilde, 10)
	if !double.Interpolation {
		t.Fatalf("expected double-quoted heredoc to interpolate")
	}
	if double.HeredocIndent != IndentTilde {
		t.Fatalf("expected HeredocIndent to round-trip")
	}
}
