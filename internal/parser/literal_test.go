package parser_test

import (
	"testing"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/intern"
	"github.com/cwbudde/rubycore/internal/lexer"
	"github.com/cwbudde/rubycore/internal/nodes"
	"github.com/cwbudde/rubycore/internal/parser"
	"github.com/cwbudde/rubycore/pkg/ast"
)

func TestWordsArrayLiteral(t *testing.T) {
	root, diags := mustParse(t, "%w(a b)\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	if stmt.Kind() != ast.KindWordsArray {
		t.Fatalf("expected KindWordsArray, got %v", stmt.Kind())
	}
	elems := stmt.(ast.Args).Args()
	if len(elems) != 2 {
		t.Fatalf("expected 2 words, got %d", len(elems))
	}
	if got := string(elems[0].(ast.BytesOf).RawBytes()); got != "a" {
		t.Errorf("first word = %q, want %q", got, "a")
	}
}

func TestSymbolsArrayLiteral(t *testing.T) {
	root, diags := mustParse(t, "%i(x y)\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	if stmt.Kind() != ast.KindSymbolsArray {
		t.Fatalf("expected KindSymbolsArray, got %v", stmt.Kind())
	}
	if elems := stmt.(ast.Args).Args(); len(elems) != 2 || elems[0].Kind() != ast.KindSymbolLiteral {
		t.Fatalf("expected 2 symbol elements, got %v", elems)
	}
}

func TestStringEscapesReachTheNode(t *testing.T) {
	root, diags := mustParse(t, "\"a\\tb\"\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	if got := string(stmt.(ast.BytesOf).RawBytes()); got != "a\tb" {
		t.Errorf("string value = %q, want %q", got, "a\tb")
	}
}

func TestHeredocDedentReachesTheNode(t *testing.T) {
	root, diags := mustParse(t, "doc = <<~DOC\n  hi\nDOC\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	if stmt.Kind() != ast.KindLocalVarWrite {
		t.Fatalf("expected KindLocalVarWrite, got %v", stmt.Kind())
	}
	value := stmt.(ast.Receiver).Receiver()
	if value == nil {
		// LocalVarWrite exposes its value through Receiver
		t.Fatalf("missing write value")
	}
	if got := string(value.(ast.BytesOf).RawBytes()); got != "hi\n" {
		t.Errorf("heredoc value = %q, want %q", got, "hi\n")
	}
}

func TestKeywordArgumentLabel(t *testing.T) {
	root, diags := mustParse(t, "connect(host: h, port: 443)\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	args := stmt.(ast.Args).Args()
	if len(args) != 2 {
		t.Fatalf("expected 2 keyword args, got %d", len(args))
	}
	if args[0].Kind() != ast.KindArgAssoc {
		t.Fatalf("expected KindArgAssoc, got %v", args[0].Kind())
	}
}

func TestKeywordParameterDefinition(t *testing.T) {
	_, diags := mustParse(t, "def f(key: 1, other:)\nend\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
}

// TestCommandCallWithParenthesizedFirstArg checks the `foo (x)` vs
// `foo(x)` disambiguation: a space before the paren makes a command
// call whose first argument is a parenthesized expression.
func TestCommandCallWithParenthesizedFirstArg(t *testing.T) {
	root, diags := mustParse(t, "foo (1)\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt := firstStatement(t, root)
	if stmt.Kind() != ast.KindCommandCall {
		t.Fatalf("expected KindCommandCall, got %v", stmt.Kind())
	}

	root, diags = mustParse(t, "foo(1)\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	stmt = firstStatement(t, root)
	if stmt.Kind() != ast.KindCall {
		t.Fatalf("expected KindCall, got %v", stmt.Kind())
	}
}

func TestRestParamsInDefList(t *testing.T) {
	_, diags := mustParse(t, "def f(x, *y, **z, &b)\nend\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
}

func TestNumberedParameterInBlock(t *testing.T) {
	_, diags := mustParse(t, "items.map { _1 + 1 }\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
}

func TestNumberedParameterReservedAsParamName(t *testing.T) {
	_, diags := mustParse(t, "def f(_1)\nend\n")
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diag.ErrNumberedParamReserved {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrNumberedParamReserved, got %v", diags.Errors())
	}
}

func TestItParameterIsVersionGated(t *testing.T) {
	src := "items.map { it }\n"

	diags := &diag.List{}
	p := parser.New(src, intern.New(len(src)), diags, nodes.DefaultFactory{},
		parser.WithLexerOptions(lexer.WithVersion(lexer.CRUBY_3_4)))
	p.Parse()
	if diags.HasErrors() {
		t.Fatalf("unexpected errors under 3.4: %v", diags.Errors())
	}
}
