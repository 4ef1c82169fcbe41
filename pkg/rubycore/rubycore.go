// Package rubycore is the public embedding surface of the parser: an
// Engine configured once and reused across parses, mirroring the
// engine-object shape of go-dws's pkg/dwscript. The Engine owns no
// state between parses; every Parse call builds a fresh interner,
// diagnostic list, and parser over the given source.
package rubycore

import (
	"strings"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/intern"
	"github.com/cwbudde/rubycore/internal/lexer"
	"github.com/cwbudde/rubycore/internal/nodes"
	"github.com/cwbudde/rubycore/internal/parser"
	"github.com/cwbudde/rubycore/pkg/ast"
)

// Switches is the command-line switch bitfield carried in the parse
// options (spec.md §6).
type Switches uint8

const (
	// SwitchPrintLoop (-p) wraps top-level statements in
	// `while gets; ...; print $_; end`.
	SwitchPrintLoop Switches = 1 << iota
	// SwitchGetsLoop (-n) wraps top-level statements in
	// `while gets; ...; end`.
	SwitchGetsLoop
	// SwitchAutosplit (-a) prepends `$F = $_.split($;)` inside the
	// gets loop.
	SwitchAutosplit
	// SwitchChompLines (-l) passes `chomp: true` to gets.
	SwitchChompLines
	// SwitchInlineSource (-e) suppresses warnings that are noise for
	// one-liners (ambiguous spaced unary arguments).
	SwitchInlineSource
	// SwitchEmbeddedScript (-x) ignores everything before a
	// `#!`-line mentioning ruby.
	SwitchEmbeddedScript
)

// FrozenStringLiteral is the tri-state spec.md §6 names for the
// frozen-string-literal option.
type FrozenStringLiteral int

const (
	FrozenStringLiteralUnset    FrozenStringLiteral = 0
	FrozenStringLiteralEnabled  FrozenStringLiteral = 1
	FrozenStringLiteralDisabled FrozenStringLiteral = -1
)

// Engine holds the parse options. It is safe to reuse for any number of
// sequential parses; it is not safe for concurrent use, matching the
// single-threaded contract of spec.md §5.
type Engine struct {
	filepath  string
	startLine int
	encoding  string
	encLocked bool
	frozen    FrozenStringLiteral
	switches  Switches
	version   lexer.Version
	scopes    []parser.ScopeSeed

	shebangCallback func(switches string)
	encodingChanged func(name string)

	factory ast.Factory
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithFilepath sets the filepath recorded for diagnostics rendering.
func WithFilepath(path string) Option { return func(e *Engine) { e.filepath = path } }

// WithStartLine sets the 1-based line number the source starts at.
func WithStartLine(line int) Option { return func(e *Engine) { e.startLine = line } }

// WithEncoding sets the initial source encoding by name.
func WithEncoding(name string) Option { return func(e *Engine) { e.encoding = name } }

// WithEncodingLocked suppresses magic-comment encoding switches.
func WithEncodingLocked(locked bool) Option { return func(e *Engine) { e.encLocked = locked } }

// WithFrozenStringLiteral sets the frozen-string-literal tri-state.
func WithFrozenStringLiteral(v FrozenStringLiteral) Option {
	return func(e *Engine) { e.frozen = v }
}

// WithSwitches sets the command-line switch bitfield.
func WithSwitches(s Switches) Option { return func(e *Engine) { e.switches = s } }

// WithVersion selects the Ruby-version behavior set.
func WithVersion(v lexer.Version) Option { return func(e *Engine) { e.version = v } }

// WithOuterScopes seeds the parser's scope stack with pre-bound outer
// frames (outermost first), for eval-style parses.
func WithOuterScopes(scopes []parser.ScopeSeed) Option {
	return func(e *Engine) { e.scopes = scopes }
}

// WithShebangCallback registers the callback invoked with any
// `-switches` found on a ruby shebang line.
func WithShebangCallback(fn func(switches string)) Option {
	return func(e *Engine) { e.shebangCallback = fn }
}

// WithEncodingChangedCallback registers the callback invoked whenever a
// magic comment changes the active source encoding.
func WithEncodingChangedCallback(fn func(name string)) Option {
	return func(e *Engine) { e.encodingChanged = fn }
}

// WithFactory overrides the node factory used for AST construction.
func WithFactory(f ast.Factory) Option { return func(e *Engine) { e.factory = f } }

// New creates an Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{startLine: 1, factory: nodes.DefaultFactory{}}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Result is what a parse produces: a best-effort AST plus the
// structured diagnostics accumulated along the way. Root is never nil;
// an invalid source yields a degraded tree and one or more Errors.
type Result struct {
	Root     ast.Node
	Errors   []diag.Diagnostic
	Warnings []diag.Diagnostic

	// DataStart/DataEnd delimit the `__END__` DATA section; DataStart is
	// -1 when the source has none.
	DataStart int
	DataEnd   int

	// FrozenStringLiteral is the resolved tri-state after both the engine
	// option and any magic comment were applied.
	FrozenStringLiteral FrozenStringLiteral

	// Filepath is the path the engine was configured with, carried here
	// so diagnostic renderers (pkg/errors) have it next to the spans.
	Filepath string
}

// Parse parses source to completion. The returned error is reserved for
// engine-level failures; syntax problems surface as Result.Errors, and a
// (possibly degraded) AST is always returned.
func (e *Engine) Parse(source string) (*Result, error) {
	src := source
	if e.switches&SwitchEmbeddedScript != 0 {
		src = skipToShebang(src)
	}

	interner := intern.New(len(src))
	diags := &diag.List{}

	var lexOpts []lexer.Option
	lexOpts = append(lexOpts,
		lexer.WithVersion(e.version),
		lexer.WithEncodingLocked(e.encLocked),
		lexer.WithStartLine(e.startLine),
		lexer.WithFrozenStringLiteral(int(e.frozen)))
	if e.encoding != "" {
		lexOpts = append(lexOpts, lexer.WithEncodingName(e.encoding))
	}
	if e.shebangCallback != nil {
		lexOpts = append(lexOpts, lexer.WithShebangCallback(e.shebangCallback))
	}
	if e.encodingChanged != nil {
		lexOpts = append(lexOpts, lexer.WithEncodingChangedCallback(e.encodingChanged))
	}

	p := parser.New(src, interner, diags, e.factory,
		parser.WithLexerOptions(lexOpts...),
		parser.WithOuterScopes(e.scopes))
	root := p.Parse()

	if e.switches&(SwitchGetsLoop|SwitchPrintLoop) != 0 {
		root = e.wrapGetsLoop(root)
	}

	res := &Result{
		Root:                root,
		Errors:              diags.Errors(),
		Warnings:            diags.Warnings(),
		DataStart:           -1,
		FrozenStringLiteral: FrozenStringLiteral(p.FrozenStringLiteral()),
		Filepath:            e.filepath,
	}
	if start, end, ok := p.DataRange(); ok {
		res.DataStart, res.DataEnd = start, end
	}
	if e.switches&SwitchInlineSource != 0 {
		res.Warnings = filterInlineWarnings(res.Warnings)
	}
	return res, nil
}

// ParseSuccess reports whether source parses without errors.
func (e *Engine) ParseSuccess(source string) bool {
	res, err := e.Parse(source)
	return err == nil && len(res.Errors) == 0
}

// wrapGetsLoop applies the -n/-p/-a/-l switch semantics: the parsed
// top-level statements become the body of `while gets; ...; end`, with
// `print $_` appended for -p and `$F = $_.split($;)` prepended for -a.
// The synthesized nodes carry zero-width locations at offset 0; they
// have no source text to point at.
func (e *Engine) wrapGetsLoop(root ast.Node) ast.Node {
	loc := ast.Loc{}
	f := e.factory

	var getsArgs []ast.Node
	if e.switches&SwitchChompLines != 0 {
		key := f.SymbolLiteral(loc, "chomp")
		getsArgs = append(getsArgs, f.ArgAssoc(loc, key, f.True(loc)))
	}
	cond := f.Call(loc, nil, "gets", getsArgs, nil, false)

	var stmts []ast.Node
	if e.switches&SwitchAutosplit != 0 {
		lastLine := f.GlobalVarRead(loc, "$_")
		sep := f.GlobalVarRead(loc, "$;")
		split := f.Call(loc, lastLine, "split", []ast.Node{sep}, nil, false)
		stmts = append(stmts, f.GlobalVarWrite(loc, "$F", split))
	}
	stmts = append(stmts, root)
	if e.switches&SwitchPrintLoop != 0 {
		printArg := f.GlobalVarRead(loc, "$_")
		stmts = append(stmts, f.Call(loc, nil, "print", []ast.Node{printArg}, nil, false))
	}

	body := f.Statements(root.Location(), stmts)
	loop := f.While(root.Location(), cond, body, false)
	return f.Statements(root.Location(), []ast.Node{loop})
}

// skipToShebang implements -x: everything before the first line starting
// with `#!` and containing "ruby" is discarded. If no such line exists
// the source is returned unchanged (the parse will then report whatever
// the raw content fails with, which is the observable behavior of
// feeding a non-script to -x).
func skipToShebang(src string) string {
	offset := 0
	for offset < len(src) {
		lineEnd := strings.IndexByte(src[offset:], '\n')
		var line string
		if lineEnd < 0 {
			line = src[offset:]
			lineEnd = len(src) - offset
		} else {
			line = src[offset : offset+lineEnd]
			lineEnd++
		}
		if strings.HasPrefix(line, "#!") && strings.Contains(line, "ruby") {
			return src[offset:]
		}
		offset += lineEnd
	}
	return src
}

// filterInlineWarnings drops the warning kinds -e suppresses: spaced
// unary-argument ambiguity, which is unavoidable noise in shell
// one-liners.
func filterInlineWarnings(warnings []diag.Diagnostic) []diag.Diagnostic {
	out := warnings[:0:0]
	for _, w := range warnings {
		if w.ID == diag.ErrAmbiguousUnary {
			continue
		}
		out = append(out, w)
	}
	return out
}
