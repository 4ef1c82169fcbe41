package parser_test

import (
	"testing"

	"github.com/cwbudde/rubycore/internal/diag"
)

func hasDiagID(diags []diag.Diagnostic, id diag.ID) bool {
	for _, d := range diags {
		if d.ID == id {
			return true
		}
	}
	return false
}

func TestBreakInsideLoopIsValid(t *testing.T) {
	_, diags := mustParse(t, "while true\n  break\nend\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
}

func TestBreakInsideBlockIsValid(t *testing.T) {
	_, diags := mustParse(t, "items.each { |x| next if x.nil?; break }\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
}

func TestBreakAtTopLevelIsAnError(t *testing.T) {
	_, diags := mustParse(t, "break\n")
	if !hasDiagID(diags.Errors(), diag.ErrBlockExitOutsideLoop) {
		t.Fatalf("expected ErrBlockExitOutsideLoop, got %v", diags.Errors())
	}
}

func TestBreakRescuedByTrailingLoopModifier(t *testing.T) {
	// The begin body's break is pending until the trailing `while`
	// makes the whole expression a loop.
	_, diags := mustParse(t, "begin\n  break if done\nend while work\n")
	if hasDiagID(diags.Errors(), diag.ErrBlockExitOutsideLoop) {
		t.Fatalf("break absorbed by a while modifier flagged as invalid: %v", diags.Errors())
	}
}

func TestBreakInsideDefIsAnError(t *testing.T) {
	// A method body is a closed boundary: no enclosing loop modifier can
	// rescue a break inside it.
	_, diags := mustParse(t, "def f\n  break\nend\n")
	if !hasDiagID(diags.Errors(), diag.ErrBlockExitOutsideLoop) {
		t.Fatalf("expected ErrBlockExitOutsideLoop, got %v", diags.Errors())
	}
}

func TestYieldOutsideMethodIsAnError(t *testing.T) {
	_, diags := mustParse(t, "yield 1\n")
	if !hasDiagID(diags.Errors(), diag.ErrYieldOutsideMethod) {
		t.Fatalf("expected ErrYieldOutsideMethod, got %v", diags.Errors())
	}
}

func TestYieldInsideMethodIsValid(t *testing.T) {
	_, diags := mustParse(t, "def each\n  yield 1\nend\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
}

func TestRetryOutsideRescueIsAnError(t *testing.T) {
	_, diags := mustParse(t, "retry\n")
	if !hasDiagID(diags.Errors(), diag.ErrRetryOutsideRescue) {
		t.Fatalf("expected ErrRetryOutsideRescue, got %v", diags.Errors())
	}
}

func TestRetryInsideRescueIsValid(t *testing.T) {
	_, diags := mustParse(t, "begin\n  work\nrescue\n  retry\nend\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
}
