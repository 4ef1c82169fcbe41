package diag

import "testing"

func TestErrorfRecordsAsError(t *testing.T) {
	var l List
	l.Errorf(3, 7, ErrUnexpectedToken, "unexpected %s", "token")

	if !l.HasErrors() {
		t.Fatalf("expected HasErrors to be true")
	}
	errs := l.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	d := errs[0]
	if d.Start != 3 || d.End != 7 {
		t.Fatalf("expected span [3,7), got [%d,%d)", d.Start, d.End)
	}
	if d.ID != ErrUnexpectedToken {
		t.Fatalf("expected ErrUnexpectedToken, got %v", d.ID)
	}
	if d.Level != Error {
		t.Fatalf("expected Level Error, got %v", d.Level)
	}
	if d.Message != "unexpected token" {
		t.Fatalf("expected formatted message %q, got %q", "unexpected token", d.Message)
	}
}

func TestWarnfRecordsAsWarning(t *testing.T) {
	var l List
	l.Warnf(0, 1, ErrMagicCommentIgnored, "ignored")

	if l.HasErrors() {
		t.Fatalf("expected HasErrors to be false after only a warning")
	}
	warnings := l.Warnings()
	if len(warnings) != 1 || warnings[0].Level != Warning {
		t.Fatalf("expected 1 warning-level diagnostic, got %v", warnings)
	}
}

func TestErrorsAndWarningsPreserveEmissionOrder(t *testing.T) {
	var l List
	l.Errorf(0, 1, ErrUnexpectedToken, "first")
	l.Errorf(1, 2, ErrMismatchedEnclosure, "second")
	l.Warnf(2, 3, ErrMagicCommentIgnored, "third")
	l.Errorf(3, 4, ErrRecursionDepthExceeded, "fourth")

	errs := l.Errors()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(errs))
	}
	if errs[0].Message != "first" || errs[1].Message != "second" || errs[2].Message != "fourth" {
		t.Fatalf("expected emission order preserved, got %v", errs)
	}
}

func TestLevelString(t *testing.T) {
	if Error.String() != "error" {
		t.Fatalf("expected %q, got %q", "error", Error.String())
	}
	if Warning.String() != "warning" {
		t.Fatalf("expected %q, got %q", "warning", Warning.String())
	}
}

func TestZeroValueListIsReady(t *testing.T) {
	var l List
	if l.HasErrors() {
		t.Fatalf("expected zero-value List to report no errors")
	}
	if len(l.Errors()) != 0 || len(l.Warnings()) != 0 {
		t.Fatalf("expected zero-value List to have empty slices")
	}
}
