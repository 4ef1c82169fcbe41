package parser

import (
	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/pkg/ast"
	"github.com/cwbudde/rubycore/pkg/token"
)

// Parse implements spec.md §6's top-level entry point: the whole token
// stream is one sequence of statements in the top-level scope New
// already established.
func (p *Parser) Parse() ast.Node {
	root := p.parseStatementsUntil(token.EOF)
	p.flushBlockExits()
	return root
}

// parseStatementsUntil consumes statements separated by NEWLINE/SEMI
// until one of stops (or EOF) is reached, per spec.md §4.7's
// parse_statements.
func (p *Parser) parseStatementsUntil(stops ...token.Kind) ast.Node {
	start := p.cur.Start
	p.skipNewlines()
	var stmts []ast.Node
	for !p.atAnyOf(stops) && !p.at(token.EOF) {
		stmts = append(stmts, p.parseStatement())
		if !p.at(token.NEWLINE) && !p.at(token.SEMI) && !p.atAnyOf(stops) && !p.at(token.EOF) {
			p.diags.Errorf(p.cur.Start, p.cur.End, diag.ErrMissingTerminator,
				"expected a newline or ';', found %s", p.cur.Kind)
			p.advance()
		}
		p.skipNewlines()
	}
	return p.factory.Statements(ast.Loc{Start: start, End: p.cur.Start}, stmts)
}

// parseStatement parses one top-level expression, lifting a trailing
// comma list into a multi-assignment before applying any statement
// modifier (if/unless/while/until/rescue/and/or).
func (p *Parser) parseStatement() ast.Node {
	saved := p.blockExits
	p.blockExits = nil
	expr := p.parseExpression(token.Lowest*2, true)
	if p.at(token.COMMA) {
		expr = p.finishMultiWrite(expr)
	}
	if p.at(token.KW_IN) || p.at(token.FATARROW) {
		expr = p.finishMatchExpression(expr)
	}
	expr = p.parseModifierTail(expr)
	// Exits not absorbed by a trailing while/until modifier stay pending
	// on the enclosing statement's list.
	p.blockExits = append(saved, p.blockExits...)
	return expr
}

// finishMatchExpression handles the standalone pattern-match forms of
// spec.md §4.8: `value in pattern` (boolean predicate) and
// `value => pattern` (match-or-raise), both non-chainable.
func (p *Parser) finishMatchExpression(value ast.Node) ast.Node {
	start := value.Location().Start
	required := p.at(token.FATARROW)
	p.advance()
	p.patternCaptures = map[string]bool{}
	pattern := p.parsePattern(0)
	p.patternCaptures = nil
	loc := ast.Loc{Start: start, End: p.cur.Start}
	if required {
		return p.factory.MatchRequired(loc, value, pattern)
	}
	return p.factory.MatchPredicate(loc, value, pattern)
}

// finishMultiWrite implements spec.md §4.7's multi-assignment lifting:
// `a, b = 1, 2` is only recognized once the statement-level comma after
// the first target is seen, since an ordinary expression never consumes
// a bare top-level comma itself.
func (p *Parser) finishMultiWrite(first ast.Node) ast.Node {
	start := first.Location().Start
	targets := []ast.Node{p.toTarget(first)}
	for p.at(token.COMMA) {
		p.advance()
		p.skipNewlines()
		if p.at(token.ASSIGN) {
			break
		}
		targets = append(targets, p.parseMultiAssignTarget())
	}
	p.expect(token.ASSIGN)
	p.skipNewlines()
	value, implicitArray := p.parseMultiAssignRHS()
	return p.factory.MultiWrite(ast.Loc{Start: start, End: p.cur.Start}, targets, value, implicitArray)
}

func (p *Parser) parseMultiAssignTarget() ast.Node {
	if p.at(token.USTAR) {
		start := p.cur.Start
		p.advance()
		if canStartMultiAssignOperand(p.cur.Kind) {
			inner := p.parseExpression(token.CallPrec*2, false)
			return p.factory.SplatTarget(ast.Loc{Start: start, End: p.cur.Start}, p.toTarget(inner))
		}
		return p.factory.SplatTarget(ast.Loc{Start: start, End: p.cur.Start}, nil)
	}
	if p.at(token.LPAREN) {
		start := p.cur.Start
		p.advance()
		nested := []ast.Node{p.parseMultiAssignTarget()}
		for p.at(token.COMMA) {
			p.advance()
			nested = append(nested, p.parseMultiAssignTarget())
		}
		p.expect(token.RPAREN)
		return p.factory.MultiTarget(ast.Loc{Start: start, End: p.cur.Start}, nested)
	}
	expr := p.parseExpression(token.CallPrec*2, false)
	return p.toTarget(expr)
}

func canStartMultiAssignOperand(k token.Kind) bool {
	switch k {
	case token.COMMA, token.ASSIGN, token.NEWLINE, token.SEMI, token.EOF, token.RPAREN:
		return false
	}
	return true
}

// parseMultiAssignRHS parses the comma-separated value list on the right
// of a multi-assignment, wrapping it in an implicit array when more than
// one value (or a splat) is present.
func (p *Parser) parseMultiAssignRHS() (ast.Node, bool) {
	start := p.cur.Start
	first := p.parseMultiAssignRHSItem()
	if !p.at(token.COMMA) {
		if first.Kind() == ast.KindArgSplat {
			return p.factory.ArrayLiteral(ast.Loc{Start: start, End: p.cur.Start}, []ast.Node{first}), true
		}
		return first, false
	}
	items := []ast.Node{first}
	for p.at(token.COMMA) {
		p.advance()
		p.skipNewlines()
		items = append(items, p.parseMultiAssignRHSItem())
	}
	return p.factory.ArrayLiteral(ast.Loc{Start: start, End: p.cur.Start}, items), true
}

func (p *Parser) parseMultiAssignRHSItem() ast.Node {
	if p.at(token.USTAR) {
		start := p.cur.Start
		p.advance()
		inner := p.parseExpression(token.Assignment*2, false)
		return p.factory.ArgSplat(ast.Loc{Start: start, End: p.cur.Start}, inner)
	}
	return p.parseExpression(token.Assignment*2, false)
}
