package parser_test

import (
	"testing"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/intern"
	"github.com/cwbudde/rubycore/internal/nodes"
	"github.com/cwbudde/rubycore/internal/parser"
	"github.com/cwbudde/rubycore/pkg/ast"
)

func mustParse(t *testing.T, src string) (ast.Node, *diag.List) {
	t.Helper()
	diags := &diag.List{}
	interner := intern.New(len(src))
	p := parser.New(src, interner, diags, nodes.DefaultFactory{})
	root := p.Parse()
	return root, diags
}

func firstStatement(t *testing.T, root ast.Node) ast.Node {
	t.Helper()
	args, ok := root.(ast.Args)
	if !ok || len(args.Args()) == 0 {
		t.Fatalf("expected top-level Statements with at least one child, got %v", root.Kind())
	}
	return args.Args()[0]
}

func TestLocalAssignment(t *testing.T) {
	root, diags := mustParse(t, "x = 1\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	if stmt.Kind() != ast.KindLocalVarWrite {
		t.Fatalf("expected KindLocalVarWrite, got %v", stmt.Kind())
	}
	if name := stmt.(ast.Named).Name(); name != "x" {
		t.Fatalf("expected name %q, got %q", "x", name)
	}
}

func TestFreshLocalFromBareCallOnAssign(t *testing.T) {
	// A bare identifier with no prior declaration parses as a zero-arg
	// call until the `=` is seen, at which point it must desugar to a
	// fresh local write rather than an attribute-assignment call.
	root, diags := mustParse(t, "total = 0\ntotal = total + 1\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmts := root.(ast.Args).Args()
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	if stmts[1].Kind() != ast.KindLocalVarWrite {
		t.Fatalf("expected second statement to be KindLocalVarWrite, got %v", stmts[1].Kind())
	}
}

func TestMultiAssignment(t *testing.T) {
	root, diags := mustParse(t, "a, b = 1, 2\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	if stmt.Kind() != ast.KindMultiWrite {
		t.Fatalf("expected KindMultiWrite, got %v", stmt.Kind())
	}
	targets := stmt.(ast.Args).Args()
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}
	for i, want := range []string{"a", "b"} {
		if targets[i].Kind() != ast.KindLocalVarTarget {
			t.Fatalf("target %d: expected KindLocalVarTarget, got %v", i, targets[i].Kind())
		}
		if got := targets[i].(ast.Named).Name(); got != want {
			t.Fatalf("target %d: expected name %q, got %q", i, want, got)
		}
	}
}

func TestMethodCallChain(t *testing.T) {
	root, diags := mustParse(t, "foo.bar(1).baz\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	if stmt.Kind() != ast.KindCall {
		t.Fatalf("expected outer KindCall, got %v", stmt.Kind())
	}
	outer := stmt.(ast.Receiver)
	if outer.Name() != "baz" {
		t.Fatalf("expected outer call name %q, got %q", "baz", outer.Name())
	}
	inner := outer.Receiver()
	if inner == nil || inner.Kind() != ast.KindCall {
		t.Fatalf("expected inner KindCall receiver, got %v", inner)
	}
	innerCall := inner.(ast.Receiver)
	if innerCall.Name() != "bar" {
		t.Fatalf("expected inner call name %q, got %q", "bar", innerCall.Name())
	}
	if args := inner.(ast.Args).Args(); len(args) != 1 {
		t.Fatalf("expected 1 arg to bar, got %d", len(args))
	}
}

func TestTernary(t *testing.T) {
	root, diags := mustParse(t, "x ? 1 : 2\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	if stmt.Kind() != ast.KindTernaryNode {
		t.Fatalf("expected KindTernaryNode, got %v", stmt.Kind())
	}
}

func TestInclusiveAndExclusiveRange(t *testing.T) {
	for _, tc := range []struct {
		src  string
		excl bool
	}{
		{"1..10\n", false},
		{"1...10\n", true},
	} {
		root, diags := mustParse(t, tc.src)
		if diags.HasErrors() {
			t.Fatalf("unexpected errors for %q: %v", tc.src, diags.Errors())
		}
		stmt := firstStatement(t, root)
		if stmt.Kind() != ast.KindRangeLiteral {
			t.Fatalf("expected KindRangeLiteral for %q, got %v", tc.src, stmt.Kind())
		}
	}
}

func TestOpAssignDesugarsOperator(t *testing.T) {
	root, diags := mustParse(t, "n = 0\nn += 1\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmts := root.(ast.Args).Args()
	if stmts[1].Kind() != ast.KindOpAssign {
		t.Fatalf("expected KindOpAssign, got %v", stmts[1].Kind())
	}
	if got := stmts[1].(ast.Named).Name(); got != "+" {
		t.Fatalf("expected op spelling %q, got %q", "+", got)
	}
}

func TestBinaryOperatorDesugarsToCall(t *testing.T) {
	root, diags := mustParse(t, "1 + 2 * 3\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	if stmt.Kind() != ast.KindCall {
		t.Fatalf("expected outer KindCall (+), got %v", stmt.Kind())
	}
	if got := stmt.(ast.Named).Name(); got != "+" {
		t.Fatalf("expected call name %q, got %q", "+", got)
	}
	rhs := stmt.(ast.Args).Args()
	if len(rhs) != 1 || rhs[0].Kind() != ast.KindCall {
		t.Fatalf("expected right operand to be the nested * call")
	}
	if got := rhs[0].(ast.Named).Name(); got != "*" {
		t.Fatalf("expected nested call name %q, got %q", "*", got)
	}
}

func TestCaseInArrayPattern(t *testing.T) {
	src := "case x\nin [a, *, b]\n  a\nend\n"
	root, diags := mustParse(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	if stmt.Kind() != ast.KindCaseMatch {
		t.Fatalf("expected KindCaseMatch, got %v", stmt.Kind())
	}
	ins := stmt.(ast.Args).Args()
	if len(ins) != 1 || ins[0].Kind() != ast.KindInClause {
		t.Fatalf("expected 1 KindInClause, got %v", ins)
	}
	pattern := ins[0].(ast.Receiver).Receiver()
	if pattern == nil || pattern.Kind() != ast.KindArrayPattern {
		t.Fatalf("expected KindArrayPattern, got %v", pattern)
	}
}

func TestOperatorMethodDefinition(t *testing.T) {
	_, diags := mustParse(t, "def ==(other)\n  true\nend\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
}

func TestSingletonMethodDefinition(t *testing.T) {
	root, diags := mustParse(t, "def self.run\nend\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	if stmt.Kind() != ast.KindDef {
		t.Fatalf("expected KindDef, got %v", stmt.Kind())
	}
	recv := stmt.(ast.Receiver).Receiver()
	if recv == nil || recv.Kind() != ast.KindSelfLiteral {
		t.Fatalf("expected a self receiver, got %v", recv)
	}
}

func TestConstantAssignmentInMethodIsAnError(t *testing.T) {
	_, diags := mustParse(t, "def f\n  X = 1\nend\n")
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diag.ErrConstAssignInMethod {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrConstAssignInMethod, got %v", diags.Errors())
	}
}

func TestNonAssocChainIsAnError(t *testing.T) {
	_, diags := mustParse(t, "1 <=> 2 <=> 3\n")
	if !diags.HasErrors() {
		t.Fatalf("expected a non-associative chain error")
	}
}
