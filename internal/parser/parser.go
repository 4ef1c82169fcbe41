// Package parser implements the Pratt-style expression parser of
// spec.md §4.7 and the pattern sub-grammar of §4.8, sharing one
// recursive-descent driver over the token stream internal/lexer
// produces.
//
// Grounded on go-dws's internal/parser/parser.go: a Parser struct
// holding the lexer plus one-token lookahead, a functional-options
// constructor, and precedence-driven parseExpression/parseInfix split
// across sibling files in the same package (expressions.go,
// statements.go here; go-dws splits along expressions.go/statements.go
// too).
package parser

import (
	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/intern"
	"github.com/cwbudde/rubycore/internal/lexer"
	"github.com/cwbudde/rubycore/internal/regexpengine"
	"github.com/cwbudde/rubycore/internal/scope"
	"github.com/cwbudde/rubycore/pkg/ast"
	"github.com/cwbudde/rubycore/pkg/token"
)

// maxRecursionDepth bounds parse_expression recursion per spec.md §4.7
// step 1 ("about a thousand").
const maxRecursionDepth = 1000

// Parser drives token consumption and node construction. It never
// allocates a concrete node type itself; every construction goes
// through Factory (spec.md §1).
type Parser struct {
	lex     *lexer.Lexer
	factory ast.Factory
	diags   *diag.List
	interner *intern.Pool

	cur  token.Token
	peek token.Token

	scope *scope.Scope

	depth int

	// blockExits collects break/next/redo nodes seen outside any loop or
	// block while the current statement may still become a loop via a
	// trailing while/until modifier (spec.md §3's block-exit list).
	blockExits       []ast.Node
	blockExitAllowed int
	rescueNesting    int
	methodNesting    int

	lexerOpts   []lexer.Option
	outerScopes []ScopeSeed

	regexpValidator regexpengine.Validator
	patternCaptures map[string]bool
}

// ScopeSeed describes one pre-existing outer scope for eval-style
// parses (spec.md §6's "seed list of outer scopes"): locals already
// bound outside this source, plus the forwarding shorthands the outer
// method declared.
type ScopeSeed struct {
	Locals             []string
	Forwarding         scope.ForwardingFlag
	ImplicitDisallowed bool
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithFactory replaces the node factory passed to New.
func WithFactory(f ast.Factory) Option {
	return func(p *Parser) { p.factory = f }
}

// WithRegexpValidator overrides the structural regexp validator used to
// discover named captures for `=~` against a regexp literal
// (internal/regexpengine.Basic is used when this option is absent).
func WithRegexpValidator(v regexpengine.Validator) Option {
	return func(p *Parser) { p.regexpValidator = v }
}

// WithLexerOptions forwards opts to the lexer the parser constructs,
// so callers can set version/encoding/callback options without building
// the lexer themselves.
func WithLexerOptions(opts ...lexer.Option) Option {
	return func(p *Parser) { p.lexerOpts = append(p.lexerOpts, opts...) }
}

// WithOuterScopes seeds the scope stack with pre-bound outer frames,
// outermost first, before the top-level scope is pushed.
func WithOuterScopes(seeds []ScopeSeed) Option {
	return func(p *Parser) { p.outerScopes = seeds }
}

// New creates a Parser over src, sharing interner/diags with the lexer
// it constructs internally (spec.md §6: "the caller may supply a seed
// interner/diagnostic list").
func New(src string, interner *intern.Pool, diags *diag.List, factory ast.Factory, opts ...Option) *Parser {
	p := &Parser{
		factory:         factory,
		diags:           diags,
		interner:        interner,
		regexpValidator: regexpengine.Basic{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.lex = lexer.New(src, interner, diags, p.lexerOpts...)
	// Seeded frames are transparent so a lookup from the parsed source
	// can reach every outer binding, the way block scopes nest.
	for _, seed := range p.outerScopes {
		s := scope.New(p.scope, false)
		s.Parameters = seed.Forwarding
		if seed.ImplicitDisallowed {
			s.ParamState |= scope.ImplicitDisallowed
		}
		for _, name := range seed.Locals {
			s.Declare(interner.InsertOwned([]byte(name)), 0)
		}
		p.scope = s
	}
	p.scope = scope.New(p.scope, len(p.outerScopes) == 0)
	switch p.lex.ShareableConstant() {
	case "literal":
		p.scope.ShareableConstant = scope.ShareableLiteral
	case "experimental_everything":
		p.scope.ShareableConstant = scope.ShareableExperimentalEverything
	case "experimental_copy":
		p.scope.ShareableConstant = scope.ShareableExperimentalCopy
	}
	p.advance()
	p.advance()
	return p
}

// Errors exposes the accumulated diagnostics.
func (p *Parser) Errors() []diag.Diagnostic { return p.diags.Errors() }

// Warnings exposes the accumulated warning diagnostics.
func (p *Parser) Warnings() []diag.Diagnostic { return p.diags.Warnings() }

// DataRange reports the byte span of the `__END__` DATA section, if the
// source had one.
func (p *Parser) DataRange() (start, end int, ok bool) { return p.lex.DataRange() }

// FrozenStringLiteral reports the lexer's resolved frozen-string-literal
// tri-state (1 enabled, -1 disabled, 0 unset).
func (p *Parser) FrozenStringLiteral() int { return p.lex.FrozenStringLiteral() }

// LineCol converts a byte offset to a 1-based line/column pair via the
// lexer's newline index.
func (p *Parser) LineCol(offset int) (line, col int) { return p.lex.LineCol(offset) }

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) at(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) atPeek(k token.Kind) bool { return p.peek.Kind == k }

func (p *Parser) loc(start int) ast.Loc { return ast.Loc{Start: start, End: p.cur.Start} }

// expect consumes the current token if it matches k, else records
// ErrUnexpectedToken and returns a MISSING token without advancing.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.cur.Kind == k {
		t := p.cur
		p.advance()
		return t
	}
	p.diags.Errorf(p.cur.Start, p.cur.End, diag.ErrUnexpectedToken,
		"expected %s, found %s", k, p.cur.Kind)
	return token.Token{Kind: token.MISSING, Start: p.cur.Start, End: p.cur.Start}
}

// skipNewlines consumes any run of statement-separator NEWLINE/SEMI
// tokens, used between statements and after openers that allow a blank
// line (e.g. `(` `[` `,`).
func (p *Parser) skipNewlines() {
	for p.at(token.NEWLINE) || p.at(token.SEMI) {
		p.advance()
	}
}

// textOf returns the source slice spanned by t, using the
// lexer's own (start,end) bookkeeping rather than re-deriving it — the
// lexer is the sole owner of source-position data.
func (p *Parser) textOf(t token.Token) string {
	return p.lex.SourceText(t.Start, t.End)
}

// pushScope/popScope bracket a method/block/class boundary.
func (p *Parser) pushScope(closed bool) { p.scope = scope.New(p.scope, closed) }
func (p *Parser) popScope()             { p.scope = p.scope.Previous }

// declareLocal registers name as a local in the current scope, using
// the shared interner to dedupe the lookup key.
func (p *Parser) declareLocal(name string, loc int) {
	id := p.interner.InsertShared([]byte(name))
	p.scope.Declare(id, loc)
}

// recordBlockExit notes a break/next/redo parsed outside any loop or
// block body. The node stays pending until the statement it belongs to
// either gains a trailing while/until modifier (absorbing it into a
// loop) or completes without one, at which point the pending entries
// propagate outward or become errors (flushBlockExits).
func (p *Parser) recordBlockExit(n ast.Node) ast.Node {
	if p.blockExitAllowed == 0 {
		p.blockExits = append(p.blockExits, n)
	}
	return n
}

// flushBlockExits turns any still-pending block exits into errors. It
// runs at the end of Parse and at every closed-scope boundary (def,
// class, module body), where a pending exit can no longer be rescued by
// an enclosing loop modifier.
func (p *Parser) flushBlockExits() {
	for _, n := range p.blockExits {
		what := "break"
		switch n.Kind() {
		case ast.KindNextNode:
			what = "next"
		case ast.KindRedoNode:
			what = "redo"
		}
		p.diags.Errorf(n.Location().Start, n.Location().End, diag.ErrBlockExitOutsideLoop,
			"invalid %s, %s must be used inside a loop or block", what, what)
	}
	p.blockExits = nil
}

func (p *Parser) isLocal(name string) bool {
	id := p.interner.InsertShared([]byte(name))
	owner, _ := p.scope.Lookup(id)
	return owner != nil
}
