package lexer_test

import (
	"strings"
	"testing"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/intern"
	"github.com/cwbudde/rubycore/internal/lexer"
	"github.com/cwbudde/rubycore/pkg/token"
)

func newLexer(src string, opts ...lexer.Option) *lexer.Lexer {
	return lexer.New(src, intern.New(len(src)), &diag.List{}, opts...)
}

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	l := newLexer(src)
	var out []token.Kind
	for i := 0; i < 200; i++ {
		tok := l.Next()
		out = append(out, tok.Kind)
		if tok.Kind == token.EOF {
			return out
		}
	}
	t.Fatalf("lexer did not reach EOF within 200 tokens for %q", src)
	return nil
}

func TestSimpleAssignmentTokens(t *testing.T) {
	got := kinds(t, "a = 1\n")
	want := []token.Kind{token.IDENT, token.ASSIGN, token.INT, token.NEWLINE, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

// TestNewlineIndex checks that the recorded newline offsets exactly
// match every '\n' byte in the source, once each.
func TestNewlineIndex(t *testing.T) {
	src := "a = 1\nb = \"x\ny\"\n# comment\nc\n"
	l := newLexer(src)
	for {
		if l.Next().Kind == token.EOF {
			break
		}
	}
	var want []int
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			want = append(want, i)
		}
	}
	for i, off := range want {
		line, _ := l.LineCol(off)
		if line != i+1 {
			t.Errorf("LineCol(%d) line = %d, want %d", off, line, i+1)
		}
	}
	line, col := l.LineCol(len(src))
	if line != len(want)+1 || col != 1 {
		t.Errorf("LineCol(end) = (%d,%d), want (%d,1)", line, col, len(want)+1)
	}
}

// TestHeredocInterleaving reproduces the two-heredoc opener line: both
// bodies tokenize in order of appearance, and the code after the first
// opener (`+ <<B`) still lexes.
func TestHeredocInterleaving(t *testing.T) {
	src := "<<A + <<B\nx\nA\ny\nB\n"
	l := newLexer(src)

	var got []token.Kind
	var contents []string
	for {
		tok := l.Next()
		got = append(got, tok.Kind)
		if tok.Kind == token.STRING_CONTENT {
			contents = append(contents, l.StringValue(tok.Start, tok.End))
		}
		if tok.Kind == token.EOF {
			break
		}
	}

	want := []token.Kind{
		token.STRING_BEGIN, token.STRING_CONTENT, token.STRING_END,
		token.PLUS,
		token.STRING_BEGIN, token.STRING_CONTENT, token.STRING_END,
		token.NEWLINE, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("token kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
	if len(contents) != 2 || contents[0] != "x\n" || contents[1] != "y\n" {
		t.Fatalf("heredoc bodies = %q, want [%q %q]", contents, "x\n", "y\n")
	}
}

func TestSquigglyHeredocDedent(t *testing.T) {
	src := "<<~DOC\n  line one\n    line two\nDOC\n"
	l := newLexer(src)
	var contents []string
	for {
		tok := l.Next()
		if tok.Kind == token.STRING_CONTENT {
			contents = append(contents, l.StringValue(tok.Start, tok.End))
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	joined := strings.Join(contents, "")
	if joined != "line one\n  line two\n" {
		t.Errorf("dedented body = %q, want %q", joined, "line one\n  line two\n")
	}
}

// TestSquigglyHeredocDedentTabs mixes tab and space indentation: the
// tab line measures 8 columns, the space line 2, so the common indent
// is 2 — which the tab cannot be split to satisfy, so it stays.
func TestSquigglyHeredocDedentTabs(t *testing.T) {
	src := "<<~DOC\n\tone\n  two\nDOC\n"
	l := newLexer(src)
	var contents []string
	for {
		tok := l.Next()
		if tok.Kind == token.STRING_CONTENT {
			contents = append(contents, l.StringValue(tok.Start, tok.End))
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	joined := strings.Join(contents, "")
	if joined != "\tone\ntwo\n" {
		t.Errorf("dedented body = %q, want %q", joined, "\tone\ntwo\n")
	}
}

func TestEndMarkerRecordsDataRange(t *testing.T) {
	src := "a\n__END__\ndata\n"
	l := newLexer(src)
	for {
		if l.Next().Kind == token.EOF {
			break
		}
	}
	start, end, ok := l.DataRange()
	if !ok {
		t.Fatal("expected a DATA range")
	}
	if src[start:end] != "data\n" {
		t.Errorf("DATA = %q, want %q", src[start:end], "data\n")
	}
}

// TestStringEscapeDecoding checks that the decoded value of a
// double-quoted literal applies escapes while the token span still
// covers the raw source.
func TestStringEscapeDecoding(t *testing.T) {
	src := "\"a\\nb\"\n"
	l := newLexer(src)
	var value string
	for {
		tok := l.Next()
		if tok.Kind == token.STRING_CONTENT {
			value = l.StringValue(tok.Start, tok.End)
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	if value != "a\nb" {
		t.Errorf("decoded value = %q, want %q", value, "a\nb")
	}
}

func TestSingleQuoteKeepsEscapes(t *testing.T) {
	src := "'a\\nb'\n"
	l := newLexer(src)
	var value string
	for {
		tok := l.Next()
		if tok.Kind == token.STRING_CONTENT {
			value = l.StringValue(tok.Start, tok.End)
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	if value != "a\\nb" {
		t.Errorf("decoded value = %q, want %q", value, "a\\nb")
	}
}

func TestWordsListTokens(t *testing.T) {
	got := kinds(t, "%w(a b)\n")
	want := []token.Kind{
		token.WORDS_BEGIN, token.STRING_CONTENT, token.WORDS_SEP,
		token.STRING_CONTENT, token.STRING_END, token.NEWLINE, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestEmbeddedVariableInString(t *testing.T) {
	got := kinds(t, "\"x#@foo\"\n")
	want := []token.Kind{
		token.STRING_BEGIN, token.STRING_CONTENT, token.EMBVAR, token.IVAR,
		token.STRING_END, token.NEWLINE, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestRegexpTokensWithOptions(t *testing.T) {
	got := kinds(t, "x = /ab/i\n")
	want := []token.Kind{
		token.IDENT, token.ASSIGN, token.REGEXP_BEGIN, token.STRING_CONTENT,
		token.REGEXP_END, token.REGEXP_OPT, token.NEWLINE, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestEncodingMagicComment(t *testing.T) {
	var changed string
	src := "# encoding: us-ascii\nx = 1\n"
	l := lexer.New(src, intern.New(len(src)), &diag.List{},
		lexer.WithEncodingChangedCallback(func(name string) { changed = name }))
	for {
		if l.Next().Kind == token.EOF {
			break
		}
	}
	if changed != "US-ASCII" {
		t.Errorf("encoding-changed callback got %q, want %q", changed, "US-ASCII")
	}
}

func TestEncodingLockedIgnoresMagicComment(t *testing.T) {
	called := false
	src := "# encoding: us-ascii\nx = 1\n"
	l := lexer.New(src, intern.New(len(src)), &diag.List{},
		lexer.WithEncodingLocked(true),
		lexer.WithEncodingChangedCallback(func(string) { called = true }))
	l.Next()
	if called {
		t.Error("encoding-changed callback fired despite the lock")
	}
}

// TestParenSpacingDistinguishesCommandArg checks the `foo(x)` vs
// `foo (x)` split: with no space the `(` opens a direct call's argument
// list, with a space it opens a parenthesized first command argument.
func TestParenSpacingDistinguishesCommandArg(t *testing.T) {
	direct := kinds(t, "foo(1)\n")
	if direct[1] != token.LPAREN {
		t.Errorf("foo(1): second token = %v, want LPAREN", direct[1])
	}
	command := kinds(t, "foo (1)\n")
	if command[1] != token.LPAREN_ARG {
		t.Errorf("foo (1): second token = %v, want LPAREN_ARG", command[1])
	}
}

// TestLabeledBraceOpensHash checks the `{` disambiguation: right after
// a label the brace opens the label's hash value, while after an
// expression it opens a block.
func TestLabeledBraceOpensHash(t *testing.T) {
	got := kinds(t, "foo key: {a: 1}\n")
	want := []token.Kind{
		token.IDENT, token.LABEL, token.LBRACE, token.LABEL, token.INT,
		token.RBRACE, token.NEWLINE, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
	block := kinds(t, "foo {a}\n")
	if block[1] != token.LBRACE_ARG {
		t.Errorf("foo {a}: second token = %v, want LBRACE_ARG", block[1])
	}
}

// TestTernaryColonAfterIdent checks that `a :` in ternary position does
// not lex as a label: labels need a label-accepting state, which the
// `?` does not establish.
func TestTernaryColonAfterIdent(t *testing.T) {
	got := kinds(t, "x ? a : b\n")
	want := []token.Kind{
		token.IDENT, token.QUESTION, token.IDENT, token.COLON, token.IDENT,
		token.NEWLINE, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

// TestAliasFirstItemSymbols checks the alias/undef first-item state: a
// following `:sym` lexes as a symbol and bare names as method names.
func TestAliasFirstItemSymbols(t *testing.T) {
	got := kinds(t, "alias :new_name :old_name\n")
	want := []token.Kind{
		token.KW_ALIAS, token.SYMBEG, token.METHODNAME, token.SYMBEG,
		token.METHODNAME, token.NEWLINE, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

// TestLabeledNewlineIsContinuation checks the LABELED newline rule: the
// newline between a label and its value does not end the statement.
func TestLabeledNewlineIsContinuation(t *testing.T) {
	got := kinds(t, "{key:\n  1}\n")
	want := []token.Kind{
		token.LBRACE, token.LABEL, token.INT, token.RBRACE,
		token.NEWLINE, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

// TestHeredocNewlineOrdering checks that the newline index stays in byte
// order even though heredoc bodies are tokenized ahead of the cursor:
// line/column queries for code after the bodies must still resolve.
func TestHeredocNewlineOrdering(t *testing.T) {
	src := "<<A + <<B\nx\nA\ny\nB\nz = 1\n"
	l := newLexer(src)
	for {
		if l.Next().Kind == token.EOF {
			break
		}
	}
	if line, col := l.LineCol(strings.Index(src, "z")); line != 6 || col != 1 {
		t.Errorf("LineCol(z) = (%d,%d), want (6,1)", line, col)
	}
	if line, _ := l.LineCol(strings.Index(src, "x")); line != 2 {
		t.Errorf("LineCol(x) line = %d, want 2", line)
	}
}

func TestCharLiteralDecodedValue(t *testing.T) {
	src := "x = ?\\n\n"
	l := newLexer(src)
	var value string
	for {
		tok := l.Next()
		if tok.Kind == token.CHAR {
			value = l.StringValue(tok.Start, tok.End)
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	if value != "\n" {
		t.Errorf("char literal value = %q, want %q", value, "\n")
	}
}

func TestMixedEscapeEncodingIsAnError(t *testing.T) {
	src := "\"\\u00e9\\xff\"\n"
	diags := &diag.List{}
	l := lexer.New(src, intern.New(len(src)), diags)
	for {
		if l.Next().Kind == token.EOF {
			break
		}
	}
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diag.ErrMixedEscapeEncoding {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrMixedEscapeEncoding, got %v", diags.Errors())
	}
}

// TestLateMagicCommentWarns checks that a pragma comment after the first
// semantic token warns as ignored instead of taking effect.
func TestLateMagicCommentWarns(t *testing.T) {
	src := "x = 1\n# frozen_string_literal: true\ny = 2\n"
	diags := &diag.List{}
	l := lexer.New(src, intern.New(len(src)), diags)
	for {
		if l.Next().Kind == token.EOF {
			break
		}
	}
	if l.FrozenStringLiteral() != 0 {
		t.Errorf("late pragma changed the frozen tri-state to %d", l.FrozenStringLiteral())
	}
	found := false
	for _, d := range diags.Warnings() {
		if d.ID == diag.ErrMagicCommentIgnored {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an ignored-pragma warning, got %v", diags.Warnings())
	}
}

func TestShebangSwitchesForwarded(t *testing.T) {
	var switches string
	src := "#!/usr/bin/env ruby -w -Ku\nx = 1\n"
	l := lexer.New(src, intern.New(len(src)), &diag.List{},
		lexer.WithShebangCallback(func(s string) { switches = s }))
	l.Next()
	if switches != "-w -Ku" {
		t.Errorf("shebang switches = %q, want %q", switches, "-w -Ku")
	}
}
