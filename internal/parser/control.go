package parser

import (
	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/pkg/ast"
	"github.com/cwbudde/rubycore/pkg/token"
)

func (p *Parser) parseIf(unless bool) ast.Node {
	start := p.cur.Start
	p.advance()
	cond := p.parseExpression(token.Lowest*2, true)
	p.acceptThen()
	then := p.parseStatementsUntil(token.KW_ELSIF, token.KW_ELSE, token.KW_END)
	var els ast.Node
	if p.at(token.KW_ELSIF) {
		els = p.parseIf(false)
		loc := ast.Loc{Start: start, End: p.cur.Start}
		if unless {
			return p.factory.Unless(loc, cond, then, els)
		}
		return p.factory.If(loc, cond, then, els)
	}
	if p.at(token.KW_ELSE) {
		p.advance()
		els = p.parseStatementsUntil(token.KW_END)
	}
	loc := ast.Loc{Start: start, End: p.cur.Start}
	p.expect(token.KW_END)
	if unless {
		return p.factory.Unless(loc, cond, then, els)
	}
	return p.factory.If(loc, cond, then, els)
}

func (p *Parser) acceptThen() {
	p.skipNewlines()
	if p.at(token.KW_THEN) {
		p.advance()
	}
	p.skipNewlines()
}

func (p *Parser) parseWhile(until bool) ast.Node {
	start := p.cur.Start
	p.advance()
	p.lex.PushDoLoop(true)
	cond := p.parseExpression(token.Lowest*2, true)
	p.acceptDo()
	p.blockExitAllowed++
	body := p.parseStatementsUntil(token.KW_END)
	p.blockExitAllowed--
	loc := ast.Loc{Start: start, End: p.cur.Start}
	p.expect(token.KW_END)
	if until {
		return p.factory.Until(loc, cond, body, false)
	}
	return p.factory.While(loc, cond, body, false)
}

// acceptDo consumes the optional `do` that opens a while/until/for
// body. The matching PushDoLoop happened right after the loop keyword;
// the lexer pops the stack itself when it classifies a DO_LOOP token,
// so the parser pops only when no such token arrived.
func (p *Parser) acceptDo() {
	p.skipNewlines()
	switch {
	case p.at(token.KW_DO_LOOP):
		p.advance()
	case p.at(token.KW_DO):
		p.lex.PopDoLoop()
		p.advance()
	default:
		p.lex.PopDoLoop()
	}
	p.skipNewlines()
}

func (p *Parser) parseFor() ast.Node {
	start := p.cur.Start
	p.advance()
	target := p.parseForTarget()
	p.expect(token.KW_IN)
	p.lex.PushDoLoop(true)
	iterable := p.parseExpression(token.Lowest*2, true)
	p.acceptDo()
	p.blockExitAllowed++
	body := p.parseStatementsUntil(token.KW_END)
	p.blockExitAllowed--
	loc := ast.Loc{Start: start, End: p.cur.Start}
	p.expect(token.KW_END)
	return p.factory.For(loc, target, iterable, body)
}

func (p *Parser) parseForTarget() ast.Node {
	first := p.parseOneForTargetName()
	if !p.at(token.COMMA) {
		return first
	}
	targets := []ast.Node{first}
	for p.at(token.COMMA) {
		p.advance()
		targets = append(targets, p.parseOneForTargetName())
	}
	return p.factory.MultiTarget(ast.Loc{Start: targets[0].Location().Start, End: p.cur.Start}, targets)
}

// parseOneForTargetName declares a simple `for x in ...` binding
// directly as a local-var target, matching spec.md §4.7's parse_target
// without routing through the general read-to-target conversion (a
// for-loop's target is always a plain identifier or a parenthesized
// destructuring tuple, never a call or index expression).
func (p *Parser) parseOneForTargetName() ast.Node {
	if p.at(token.LPAREN) {
		p.advance()
		inner := p.parseForTarget()
		p.expect(token.RPAREN)
		return inner
	}
	t := p.expect(token.IDENT)
	name := p.textOf(t)
	p.declareLocal(name, t.Start)
	return p.factory.LocalVarTarget(ast.Loc{Start: t.Start, End: t.End}, name)
}

func (p *Parser) parseCase() ast.Node {
	start := p.cur.Start
	p.advance()
	var subject ast.Node
	if !p.at(token.NEWLINE) && !p.at(token.KW_WHEN) && !p.at(token.KW_IN) {
		subject = p.parseExpression(token.Lowest*2, true)
	}
	p.skipNewlines()
	if p.at(token.KW_IN) {
		return p.parseCaseMatch(start, subject)
	}
	var whens []ast.Node
	for p.at(token.KW_WHEN) {
		whens = append(whens, p.parseWhenClause())
	}
	var els ast.Node
	if p.at(token.KW_ELSE) {
		p.advance()
		els = p.parseStatementsUntil(token.KW_END)
	}
	loc := ast.Loc{Start: start, End: p.cur.Start}
	p.expect(token.KW_END)
	return p.factory.Case(loc, subject, whens, els)
}

func (p *Parser) parseWhenClause() ast.Node {
	start := p.cur.Start
	p.advance()
	var conds []ast.Node
	conds = append(conds, p.parseExpression(token.Assignment*2, false))
	for p.at(token.COMMA) {
		p.advance()
		p.skipNewlines()
		conds = append(conds, p.parseExpression(token.Assignment*2, false))
	}
	p.acceptThen()
	body := p.parseStatementsUntil(token.KW_WHEN, token.KW_ELSE, token.KW_END)
	return p.factory.WhenClause(ast.Loc{Start: start, End: p.cur.Start}, conds, body)
}

func (p *Parser) parseCaseMatch(start int, subject ast.Node) ast.Node {
	var ins []ast.Node
	for p.at(token.KW_IN) {
		ins = append(ins, p.parseInClause())
	}
	var els ast.Node
	if p.at(token.KW_ELSE) {
		p.advance()
		els = p.parseStatementsUntil(token.KW_END)
	}
	loc := ast.Loc{Start: start, End: p.cur.Start}
	p.expect(token.KW_END)
	return p.factory.CaseMatch(loc, subject, ins, els)
}

func (p *Parser) parseInClause() ast.Node {
	start := p.cur.Start
	p.advance()
	// each in-arm gets a fresh capture list for duplicate detection
	p.patternCaptures = map[string]bool{}
	pattern := p.parsePattern(patternTop)
	p.patternCaptures = nil
	var guard ast.Node
	if p.at(token.KW_IF) {
		p.advance()
		guard = p.parseExpression(token.Lowest*2, true)
	} else if p.at(token.KW_UNLESS) {
		p.advance()
		cond := p.parseExpression(token.Lowest*2, true)
		guard = p.factory.Not(cond.Location(), cond)
	}
	p.acceptThen()
	body := p.parseStatementsUntil(token.KW_IN, token.KW_ELSE, token.KW_END)
	return p.factory.InClause(ast.Loc{Start: start, End: p.cur.Start}, pattern, guard, body)
}

func (p *Parser) parseBegin() ast.Node {
	start := p.cur.Start
	p.advance()
	body := p.parseStatementsUntil(token.KW_RESCUE, token.KW_ELSE, token.KW_ENSURE, token.KW_END)
	var rescues []ast.Node
	for p.at(token.KW_RESCUE) {
		rescues = append(rescues, p.parseRescueClause())
	}
	var elseBody ast.Node
	if p.at(token.KW_ELSE) {
		p.advance()
		elseBody = p.parseStatementsUntil(token.KW_ENSURE, token.KW_END)
	}
	var ensure ast.Node
	if p.at(token.KW_ENSURE) {
		p.advance()
		ensure = p.parseStatementsUntil(token.KW_END)
	}
	loc := ast.Loc{Start: start, End: p.cur.Start}
	p.expect(token.KW_END)
	return p.factory.Begin(loc, body, rescues, elseBody, ensure)
}

func (p *Parser) parseRescueClause() ast.Node {
	start := p.cur.Start
	rescueLine, _ := p.LineCol(start)
	p.advance()
	var classes []ast.Node
	var varName string
	// The lexer swallows the newline after the `rescue` keyword, so a
	// token on a later line starts the body, not an exception class.
	curLine, _ := p.LineCol(p.cur.Start)
	if curLine == rescueLine && !p.at(token.FATARROW) && !p.at(token.NEWLINE) && !p.at(token.KW_THEN) {
		classes = append(classes, p.parseExpression(token.BitwiseOr*2, false))
		for p.at(token.COMMA) {
			p.advance()
			classes = append(classes, p.parseExpression(token.BitwiseOr*2, false))
		}
	}
	if p.at(token.FATARROW) {
		p.advance()
		t := p.expect(token.IDENT)
		varName = p.textOf(t)
		p.declareLocal(varName, t.Start)
	}
	p.acceptThen()
	p.rescueNesting++
	body := p.parseStatementsUntil(token.KW_RESCUE, token.KW_ELSE, token.KW_ENSURE, token.KW_END)
	p.rescueNesting--
	return p.factory.Rescue(ast.Loc{Start: start, End: p.cur.Start}, classes, varName, body)
}

func (p *Parser) parseDef() ast.Node {
	start := p.cur.Start
	p.advance() // the lexer primed FName on `def` itself

	var receiver ast.Node
	nameTok := p.parseDefNameToken()
	name := p.textOf(nameTok)
	if p.at(token.DOT) {
		loc := ast.Loc{Start: nameTok.Start, End: nameTok.End}
		if name == "self" {
			receiver = p.factory.SelfNode(loc)
		} else {
			receiver = p.factory.ConstantRead(loc, name)
		}
		p.advance()
		nameTok = p.parseDefNameToken()
		name = p.textOf(nameTok)
	}

	p.pushScope(true)
	var params ast.Node
	if p.at(token.LPAREN) || p.at(token.LPAREN_ARG) {
		params = p.parseDefParamList()
	} else if !p.at(token.NEWLINE) && !p.at(token.SEMI) && !p.at(token.ASSIGN) {
		params = p.parseBareDefParamList()
	}

	savedExits := p.blockExits
	savedAllowed := p.blockExitAllowed
	p.blockExits, p.blockExitAllowed = nil, 0
	p.methodNesting++
	var body ast.Node
	if p.at(token.ASSIGN) {
		p.advance()
		body = p.parseExpression(token.Assignment*2, true)
	} else {
		p.skipNewlines()
		body = p.parseStatementsUntil(token.KW_RESCUE, token.KW_ENSURE, token.KW_END)
		if p.at(token.KW_RESCUE) || p.at(token.KW_ENSURE) {
			body = p.wrapDefBodyWithRescue(body)
		}
		p.expect(token.KW_END)
	}
	p.methodNesting--
	p.flushBlockExits()
	p.blockExits, p.blockExitAllowed = savedExits, savedAllowed
	p.popScope()
	return p.factory.Def(ast.Loc{Start: start, End: p.cur.Start}, name, receiver, params, body)
}

// parseDefNameToken consumes the method name after `def` (or after the
// `def self.` receiver dot): a plain name, a constant, a keyword used as
// a name, or an operator method spelling (`def ==`, `def <<`, ...).
func (p *Parser) parseDefNameToken() token.Token {
	if p.at(token.METHODNAME) || p.at(token.IDENT) || p.at(token.CONSTANT) ||
		p.cur.Kind.IsKeyword() || isOperatorMethodKind(p.cur.Kind) {
		t := p.cur
		p.advance()
		return t
	}
	p.diags.Errorf(p.cur.Start, p.cur.End, diag.ErrUnexpectedToken,
		"expected a method name, found %s", p.cur.Kind)
	return token.Token{Kind: token.MISSING, Start: p.cur.Start, End: p.cur.Start}
}

func isOperatorMethodKind(k token.Kind) bool {
	switch k {
	case token.PLUS, token.MINUS, token.STAR, token.STAR2, token.SLASH, token.PERCENT,
		token.LSHIFT, token.RSHIFT, token.LT, token.GT, token.LE, token.GE,
		token.EQ, token.EQQ, token.CMP, token.MATCH, token.BANG, token.TILDE,
		token.CARET, token.AMP, token.PIPE,
		token.UPLUS, token.UMINUS, token.USTAR, token.USTAR2, token.UAMP:
		return true
	}
	return false
}

func (p *Parser) wrapDefBodyWithRescue(body ast.Node) ast.Node {
	start := body.Location().Start
	var rescues []ast.Node
	for p.at(token.KW_RESCUE) {
		rescues = append(rescues, p.parseRescueClause())
	}
	var elseBody ast.Node
	if p.at(token.KW_ELSE) {
		p.advance()
		elseBody = p.parseStatementsUntil(token.KW_ENSURE, token.KW_END)
	}
	var ensure ast.Node
	if p.at(token.KW_ENSURE) {
		p.advance()
		ensure = p.parseStatementsUntil(token.KW_END)
	}
	return p.factory.Begin(ast.Loc{Start: start, End: p.cur.Start}, body, rescues, elseBody, ensure)
}

func (p *Parser) parseDefParamList() ast.Node {
	p.advance() // '('
	p.skipNewlines()
	params := p.parseParamsUntil(token.RPAREN)
	p.skipNewlines()
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseBareDefParamList() ast.Node {
	return p.parseParamsUntil(token.NEWLINE, token.SEMI)
}

// parseParamsUntil implements spec.md §3's full parameter grammar:
// required, optional (with default), rest/forwarding, keyword (with or
// without default), keyword-rest, and trailing block parameter.
func (p *Parser) parseParamsUntil(stop ...token.Kind) ast.Node {
	start := p.cur.Start
	var required, optional, rest, keyword []ast.Node
	var keywordRest, block ast.Node
	for !p.atAnyOf(stop) && !p.at(token.EOF) {
		param := p.parseOneParam()
		switch param.Kind() {
		case ast.KindOptionalParam:
			optional = append(optional, param)
		case ast.KindRestParam, ast.KindForwardingParam:
			rest = append(rest, param)
		case ast.KindKeywordParam:
			keyword = append(keyword, param)
		case ast.KindKeywordRestParam:
			keywordRest = param
		case ast.KindBlockParam:
			block = param
		default:
			required = append(required, param)
		}
		if p.at(token.COMMA) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	return p.factory.Parameters(ast.Loc{Start: start, End: p.cur.Start}, required, optional, rest, keyword, keywordRest, block)
}

func (p *Parser) atAnyOf(kinds []token.Kind) bool {
	for _, k := range kinds {
		if p.cur.Kind == k {
			return true
		}
	}
	return false
}

func (p *Parser) parseOneParam() ast.Node {
	start := p.cur.Start
	switch p.cur.Kind {
	case token.DOT3:
		p.advance()
		return p.factory.ForwardingParam(ast.Loc{Start: start, End: p.cur.Start})
	case token.STAR, token.USTAR:
		p.advance()
		name := p.consumeOptionalParamName()
		p.declareLocal(name, start)
		return p.factory.RestParam(ast.Loc{Start: start, End: p.cur.Start}, name)
	case token.STAR2, token.USTAR2:
		p.advance()
		if p.at(token.KW_NIL) {
			p.advance()
			return p.factory.KeywordRestParam(ast.Loc{Start: start, End: p.cur.Start}, "")
		}
		name := p.consumeOptionalParamName()
		p.declareLocal(name, start)
		return p.factory.KeywordRestParam(ast.Loc{Start: start, End: p.cur.Start}, name)
	case token.AMP, token.UAMP:
		p.advance()
		name := p.consumeOptionalParamName()
		p.declareLocal(name, start)
		return p.factory.BlockParam(ast.Loc{Start: start, End: p.cur.Start}, name)
	case token.LABEL:
		t := p.cur
		name := p.labelName(t)
		p.advance()
		p.declareLocal(name, start)
		if p.canStartExpression(p.cur.Kind) && !p.at(token.COMMA) {
			def := p.parseExpression(token.Assignment*2, false)
			return p.factory.KeywordParam(ast.Loc{Start: start, End: p.cur.Start}, name, def)
		}
		return p.factory.KeywordParam(ast.Loc{Start: start, End: p.cur.Start}, name, nil)
	default:
		t := p.expect(token.IDENT)
		name := p.textOf(t)
		if numberedParamIndex(name) > 0 {
			p.diags.Errorf(t.Start, t.End, diag.ErrNumberedParamReserved,
				"%s is reserved for numbered parameters", name)
		}
		p.declareLocal(name, start)
		if p.at(token.ASSIGN) {
			p.advance()
			def := p.parseExpression(token.Assignment*2, false)
			return p.factory.OptionalParam(ast.Loc{Start: start, End: p.cur.Start}, name, def)
		}
		return p.factory.RequiredParam(ast.Loc{Start: start, End: p.cur.Start}, name)
	}
}

func (p *Parser) consumeOptionalParamName() string {
	if p.at(token.IDENT) {
		t := p.cur
		p.advance()
		return p.textOf(t)
	}
	return ""
}

func (p *Parser) parseClass() ast.Node {
	start := p.cur.Start
	p.advance()
	if p.at(token.LSHIFT) {
		p.advance()
		target := p.parseExpression(token.CallPrec*2, false)
		p.skipNewlines()
		body := p.parseClosedBody()
		loc := ast.Loc{Start: start, End: p.cur.Start}
		p.expect(token.KW_END)
		return p.factory.SingletonClassNode(loc, target, body)
	}
	name := p.parseConstantPathForDefinition()
	var super ast.Node
	if p.at(token.LT) {
		p.advance()
		super = p.parseExpression(token.CallPrec*2, false)
	}
	p.skipNewlines()
	body := p.parseClosedBody()
	loc := ast.Loc{Start: start, End: p.cur.Start}
	p.expect(token.KW_END)
	return p.factory.ClassNode(loc, name, super, body)
}

// parseClosedBody parses statements up to `end` inside a fresh closed
// scope. Any break/next/redo the body left pending becomes an error
// here: a class/module body can never be rescued by an enclosing loop
// modifier.
func (p *Parser) parseClosedBody() ast.Node {
	savedExits := p.blockExits
	savedAllowed := p.blockExitAllowed
	p.blockExits, p.blockExitAllowed = nil, 0
	p.pushScope(true)
	body := p.parseStatementsUntil(token.KW_END)
	p.popScope()
	p.flushBlockExits()
	p.blockExits, p.blockExitAllowed = savedExits, savedAllowed
	return body
}

func (p *Parser) parseModule() ast.Node {
	start := p.cur.Start
	p.advance()
	name := p.parseConstantPathForDefinition()
	p.skipNewlines()
	body := p.parseClosedBody()
	loc := ast.Loc{Start: start, End: p.cur.Start}
	p.expect(token.KW_END)
	return p.factory.ModuleNode(loc, name, body)
}

func (p *Parser) parseConstantPathForDefinition() ast.Node {
	t := p.expect(token.CONSTANT)
	var node ast.Node = p.factory.ConstantRead(ast.Loc{Start: t.Start, End: t.End}, p.textOf(t))
	for p.at(token.COLON2) {
		p.advance()
		nt := p.expect(token.CONSTANT)
		node = p.factory.ConstantPathRead(ast.Loc{Start: t.Start, End: nt.End}, node, p.textOf(nt))
	}
	return node
}

func (p *Parser) parseLambda() ast.Node {
	start := p.cur.Start
	p.advance() // '->'
	p.pushScope(false)
	var params ast.Node
	if p.at(token.LPAREN) {
		params = p.parseDefParamList()
	}
	closing := token.RBRACE
	if p.at(token.KW_DO) {
		closing = token.KW_END
	}
	p.advance()
	p.blockExitAllowed++
	body := p.parseStatementsUntil(closing)
	p.blockExitAllowed--
	p.popScope()
	loc := ast.Loc{Start: start, End: p.cur.Start}
	p.expect(closing)
	return p.factory.Lambda(loc, params, body)
}

func (p *Parser) parseAlias() ast.Node {
	start := p.cur.Start
	p.advance()
	newName := p.parseAliasTarget()
	oldName := p.parseAliasTarget()
	return p.factory.Alias(ast.Loc{Start: start, End: p.cur.Start}, newName, oldName)
}

func (p *Parser) parseAliasTarget() ast.Node {
	if p.at(token.SYMBEG) {
		return p.parseSymbolLiteral()
	}
	t := p.cur
	p.advance()
	return p.factory.SymbolLiteral(ast.Loc{Start: t.Start, End: t.End}, p.textOf(t))
}

func (p *Parser) parseUndef() ast.Node {
	start := p.cur.Start
	p.advance()
	names := []ast.Node{p.parseAliasTarget()}
	for p.at(token.COMMA) {
		p.advance()
		names = append(names, p.parseAliasTarget())
	}
	return p.factory.Undef(ast.Loc{Start: start, End: p.cur.Start}, names)
}

// parseExecBlock handles `BEGIN { ... }` and `END { ... }` pre/post-
// execution hooks, which are statement-only forms.
func (p *Parser) parseExecBlock(pre bool) ast.Node {
	start := p.cur.Start
	p.advance()
	p.expect(token.LBRACE)
	p.skipNewlines()
	body := p.parseStatementsUntil(token.RBRACE)
	loc := ast.Loc{Start: start, End: p.cur.Start}
	p.expect(token.RBRACE)
	if pre {
		return p.factory.BeginBlock(loc, body)
	}
	return p.factory.EndBlock(loc, body)
}

// reportDuplicate is a small shared helper for the duplicate-key/label
// checks spec.md §4.8 and §7 require across hash literals, when/in
// clauses, and pattern hash keys.
func (p *Parser) reportDuplicate(id diag.ID, start, end int, what, name string) {
	p.diags.Errorf(start, end, id, "duplicate %s %q", what, name)
}
