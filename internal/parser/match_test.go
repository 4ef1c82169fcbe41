package parser_test

import (
	"testing"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/pkg/ast"
)

func TestStandaloneMatchPredicate(t *testing.T) {
	root, diags := mustParse(t, "x in [a, b]\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	if stmt.Kind() != ast.KindMatchPredicate {
		t.Fatalf("expected KindMatchPredicate, got %v", stmt.Kind())
	}
}

func TestStandaloneMatchRequired(t *testing.T) {
	root, diags := mustParse(t, "config => {host:}\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	if stmt.Kind() != ast.KindMatchRequired {
		t.Fatalf("expected KindMatchRequired, got %v", stmt.Kind())
	}
}

func TestDuplicatePatternCaptureIsAnError(t *testing.T) {
	_, diags := mustParse(t, "case x\nin [a, a]\n  a\nend\n")
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diag.ErrDuplicatePatternKey {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrDuplicatePatternKey, got %v", diags.Errors())
	}
}

// TestRegexpNamedCaptureIntroducesLocal checks the `=~` special case: a
// named group in a non-interpolated regexp literal on the LHS declares a
// local of that name, which subsequent code reads as a variable.
func TestRegexpNamedCaptureIntroducesLocal(t *testing.T) {
	root, diags := mustParse(t, "/(?<name>x)/ =~ s\nname\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmts := root.(ast.Args).Args()
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	if stmts[0].Kind() != ast.KindMatchWrite {
		t.Fatalf("expected KindMatchWrite, got %v", stmts[0].Kind())
	}
	if stmts[1].Kind() != ast.KindLocalVarRead {
		t.Fatalf("expected the capture name to read as a local, got %v", stmts[1].Kind())
	}
}

func TestUnderscoreCapturesMayRepeat(t *testing.T) {
	_, diags := mustParse(t, "case x\nin [_x, _x]\n  1\nend\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
}
