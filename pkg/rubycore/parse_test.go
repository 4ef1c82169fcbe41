package rubycore

import (
	"strings"
	"testing"

	"github.com/cwbudde/rubycore/internal/parser"
	"github.com/cwbudde/rubycore/pkg/ast"
)

// TestParse_ValidCode tests Parse() with valid Ruby code.
func TestParse_ValidCode(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	source := "x = 42\ny = \"hello\"\n\ndef add(a, b)\n  a + b\nend\n"

	res, err := engine.Parse(source)
	if err != nil {
		t.Errorf("Parse() returned unexpected error: %v", err)
	}
	if res == nil || res.Root == nil {
		t.Fatal("Parse() returned nil AST for valid code")
	}
	if len(res.Errors) != 0 {
		t.Fatalf("Parse() recorded unexpected errors: %v", res.Errors)
	}

	stmts := res.Root.(ast.Args).Args()
	if len(stmts) != 3 {
		t.Fatalf("expected 3 top-level statements, got %d", len(stmts))
	}
	writeCount := 0
	defCount := 0
	for _, stmt := range stmts {
		switch stmt.Kind() {
		case ast.KindLocalVarWrite:
			writeCount++
		case ast.KindDef:
			defCount++
		}
	}
	if writeCount != 2 {
		t.Errorf("expected 2 local-variable writes, got %d", writeCount)
	}
	if defCount != 1 {
		t.Errorf("expected 1 method definition, got %d", defCount)
	}
}

// TestParse_InvalidCode tests that Parse() returns a best-effort AST
// plus diagnostics rather than failing outright.
func TestParse_InvalidCode(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	res, err := engine.Parse("def broken(\n")
	if err != nil {
		t.Fatalf("Parse() returned engine-level error: %v", err)
	}
	if res.Root == nil {
		t.Fatal("Parse() returned nil AST; expected a degraded tree")
	}
	if len(res.Errors) == 0 {
		t.Fatal("Parse() recorded no errors for invalid code")
	}
}

func TestParseSuccess(t *testing.T) {
	engine, _ := New()
	if !engine.ParseSuccess("a = 1\n") {
		t.Error("ParseSuccess returned false for valid code")
	}
	if engine.ParseSuccess("if x\n") {
		t.Error("ParseSuccess returned true for unterminated code")
	}
}

func TestParse_EndMarkerDataRange(t *testing.T) {
	engine, _ := New()
	source := "a = 1\n__END__\nraw data here\n"
	res, err := engine.Parse(source)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if res.DataStart < 0 {
		t.Fatal("expected a DATA range after __END__")
	}
	if got := source[res.DataStart:res.DataEnd]; got != "raw data here\n" {
		t.Errorf("DATA range = %q, want %q", got, "raw data here\n")
	}
}

// TestParse_GetsLoopSwitches tests the -n/-p wrapping of top-level
// statements in a gets loop.
func TestParse_GetsLoopSwitches(t *testing.T) {
	engine, _ := New(WithSwitches(SwitchPrintLoop | SwitchAutosplit))
	res, err := engine.Parse("puts $F[0]\n")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	loop := res.Root.(ast.Args).Args()[0]
	if loop.Kind() != ast.KindWhileNode {
		t.Fatalf("expected a while loop at top level, got %v", loop.Kind())
	}
}

// TestParse_OuterScopeSeed checks that a local bound in a seeded outer
// scope reads as a local variable rather than a method call.
func TestParse_OuterScopeSeed(t *testing.T) {
	engine, _ := New(WithOuterScopes([]parser.ScopeSeed{
		{Locals: []string{"seeded"}},
	}))
	res, err := engine.Parse("seeded\n")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	stmt := res.Root.(ast.Args).Args()[0]
	if stmt.Kind() != ast.KindLocalVarRead {
		t.Errorf("expected KindLocalVarRead for seeded local, got %v", stmt.Kind())
	}
}

// TestParseStream_CompletesOnBalancedInput feeds lines one at a time
// and checks the stream driver stops pulling once the buffered source
// no longer ends inside an open construct.
func TestParseStream_CompletesOnBalancedInput(t *testing.T) {
	engine, _ := New()
	lines := []string{"if x\n", "  y\n", "end\n", "never_pulled\n"}
	i := 0
	gets := func() (string, bool) {
		if i >= len(lines) {
			return "", false
		}
		line := lines[i]
		i++
		return line, true
	}
	res, err := engine.ParseStream(gets)
	if err != nil {
		t.Fatalf("ParseStream() error: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if i != 3 {
		t.Errorf("expected the driver to stop after 3 lines, pulled %d", i)
	}
}

func TestParseStream_StopsAtEndMarker(t *testing.T) {
	engine, _ := New()
	// The open `if` keeps the driver pulling until `__END__` arrives.
	lines := []string{"if x\n", "__END__\n", "ignored\n"}
	i := 0
	gets := func() (string, bool) {
		if i >= len(lines) {
			return "", false
		}
		line := lines[i]
		i++
		return line, true
	}
	res, err := engine.ParseStream(gets)
	if err != nil {
		t.Fatalf("ParseStream() error: %v", err)
	}
	if res.DataStart < 0 {
		t.Fatal("expected DATA range once __END__ was buffered")
	}
}

func TestFrozenStringLiteralMagicComment(t *testing.T) {
	engine, _ := New()
	res, err := engine.Parse("# frozen_string_literal: true\na = 1\n")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if res.FrozenStringLiteral != FrozenStringLiteralEnabled {
		t.Errorf("FrozenStringLiteral = %d, want enabled", res.FrozenStringLiteral)
	}
}

func TestSkipToShebang(t *testing.T) {
	src := "garbage prose\nmore garbage\n#!/usr/bin/env ruby\na = 1\n"
	got := skipToShebang(src)
	if !strings.HasPrefix(got, "#!/usr/bin/env ruby") {
		t.Errorf("skipToShebang kept the prelude: %q", got)
	}
	if skipToShebang("a = 1\n") != "a = 1\n" {
		t.Error("skipToShebang altered a source with no shebang")
	}
}
