package parser

import (
	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/pkg/ast"
	"github.com/cwbudde/rubycore/pkg/token"
)

// statementOnly is the set of node kinds spec.md §4.7 step 3 calls
// "statement-only": parse_expression must not feed them into ordinary
// infix parsing beyond modifier tails.
func isStatementOnly(k ast.Kind) bool {
	switch k {
	case ast.KindAlias, ast.KindUndef, ast.KindMultiWrite, ast.KindBeginBlock, ast.KindEndBlock:
		return true
	}
	return false
}

// ParseExpression implements spec.md §4.7's parse_expression entry
// point.
func (p *Parser) ParseExpression(minBP int) ast.Node {
	return p.parseExpression(minBP, true)
}

func (p *Parser) parseExpression(minBP int, acceptsCommand bool) ast.Node {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxRecursionDepth {
		p.diags.Errorf(p.cur.Start, p.cur.End, diag.ErrRecursionDepthExceeded, "expression nesting too deep")
		return p.factory.Missing(ast.Loc{Start: p.cur.Start, End: p.cur.Start})
	}

	left := p.parsePrefix(acceptsCommand)

	if isStatementOnly(left.Kind()) {
		return p.parseModifierTail(left)
	}

	prevNonAssoc := token.ILLEGAL
	for {
		bp := token.LeftBP(p.cur.Kind)
		if bp < minBP || !token.IsBinary(p.cur.Kind) {
			break
		}
		if token.IsNonAssoc(p.cur.Kind) && prevNonAssoc == p.cur.Kind {
			p.diags.Errorf(p.cur.Start, p.cur.End, diag.ErrNonAssocChain,
				"%s is non-associative and cannot be chained", p.cur.Kind)
			break
		}
		op := p.cur.Kind
		left = p.parseInfix(left, bp, token.RightBP(op), acceptsCommand)
		if token.IsNonAssoc(op) {
			prevNonAssoc = op
		} else {
			prevNonAssoc = token.ILLEGAL
		}
	}
	return left
}

func (p *Parser) parseModifierTail(left ast.Node) ast.Node {
	for {
		switch p.cur.Kind {
		case token.KW_IF:
			start := left.Location().Start
			p.advance()
			cond := p.parseExpression(token.RightBP(token.KW_AND), false)
			left = p.factory.If(ast.Loc{Start: start, End: p.cur.Start}, cond, left, nil)
		case token.KW_UNLESS:
			start := left.Location().Start
			p.advance()
			cond := p.parseExpression(token.RightBP(token.KW_AND), false)
			left = p.factory.Unless(ast.Loc{Start: start, End: p.cur.Start}, cond, left, nil)
		case token.KW_WHILE:
			start := left.Location().Start
			p.advance()
			cond := p.parseExpression(token.RightBP(token.KW_AND), false)
			left = p.factory.While(ast.Loc{Start: start, End: p.cur.Start}, cond, left, left.Kind() == ast.KindBeginNode)
			p.blockExits = nil // the modifier made left a loop body
		case token.KW_UNTIL:
			start := left.Location().Start
			p.advance()
			cond := p.parseExpression(token.RightBP(token.KW_AND), false)
			left = p.factory.Until(ast.Loc{Start: start, End: p.cur.Start}, cond, left, left.Kind() == ast.KindBeginNode)
			p.blockExits = nil
		case token.KW_RESCUE:
			start := left.Location().Start
			p.advance()
			rhs := p.parseExpression(token.RightBP(token.KW_RESCUE), false)
			left = p.factory.RescueModifier(ast.Loc{Start: start, End: p.cur.Start}, left, rhs)
		case token.KW_AND:
			start := left.Location().Start
			p.advance()
			rhs := p.parseExpression(token.RightBP(token.KW_AND), true)
			left = p.factory.And(ast.Loc{Start: start, End: p.cur.Start}, left, rhs)
		case token.KW_OR:
			start := left.Location().Start
			p.advance()
			rhs := p.parseExpression(token.RightBP(token.KW_OR), true)
			left = p.factory.Or(ast.Loc{Start: start, End: p.cur.Start}, left, rhs)
		default:
			return left
		}
	}
}

// parsePrefix implements spec.md §4.7 step 2: literals, identifiers
// (which may become command calls when acceptsCommand), parenthesized
// expressions, unary operators, and the handful of keyword-led primary
// forms (if/unless/case/while/until/for/begin/def/class/module/lambda).
func (p *Parser) parsePrefix(acceptsCommand bool) ast.Node {
	start := p.cur.Start
	switch p.cur.Kind {
	case token.INT:
		t := p.cur
		p.advance()
		return p.factory.Integer(ast.Loc{Start: t.Start, End: t.End}, p.textOf(t))
	case token.FLOAT:
		t := p.cur
		p.advance()
		return p.factory.Float(ast.Loc{Start: t.Start, End: t.End}, p.textOf(t))
	case token.RATIONAL:
		t := p.cur
		p.advance()
		return p.factory.Rational(ast.Loc{Start: t.Start, End: t.End}, p.textOf(t))
	case token.IMAGINARY:
		t := p.cur
		p.advance()
		return p.factory.Imaginary(ast.Loc{Start: t.Start, End: t.End}, p.textOf(t))
	case token.CHAR:
		t := p.cur
		p.advance()
		return p.factory.CharLiteral(ast.Loc{Start: t.Start, End: t.End}, []byte(p.lex.StringValue(t.Start, t.End)))
	case token.KW_NIL:
		p.advance()
		return p.factory.Nil(ast.Loc{Start: start, End: p.cur.Start})
	case token.KW_TRUE:
		p.advance()
		return p.factory.True(ast.Loc{Start: start, End: p.cur.Start})
	case token.KW_FALSE:
		p.advance()
		return p.factory.False(ast.Loc{Start: start, End: p.cur.Start})
	case token.KW_SELF:
		p.advance()
		return p.factory.SelfNode(ast.Loc{Start: start, End: p.cur.Start})
	case token.IVAR:
		t := p.cur
		p.advance()
		return p.factory.InstanceVarRead(ast.Loc{Start: t.Start, End: t.End}, p.textOf(t))
	case token.CVAR:
		t := p.cur
		p.advance()
		return p.factory.ClassVarRead(ast.Loc{Start: t.Start, End: t.End}, p.textOf(t))
	case token.GVAR:
		t := p.cur
		p.advance()
		return p.factory.GlobalVarRead(ast.Loc{Start: t.Start, End: t.End}, p.textOf(t))
	case token.BACKREF:
		t := p.cur
		p.advance()
		return p.factory.BackReferenceRead(ast.Loc{Start: t.Start, End: t.End}, p.textOf(t))
	case token.CONSTANT:
		return p.parseConstantPathOrCall(acceptsCommand)
	case token.IDENT, token.METHODNAME:
		return p.parseIdentifierPrimary(acceptsCommand)
	case token.LPAREN, token.LPAREN_ARG:
		p.advance()
		p.skipNewlines()
		inner := p.parseExpression(token.Lowest*2, true)
		p.skipNewlines()
		p.expect(token.RPAREN)
		return inner
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseHashLiteral()
	case token.STRING_BEGIN:
		return p.parseStringLikeLiteral()
	case token.SYMBEG:
		return p.parseSymbolLiteral()
	case token.REGEXP_BEGIN:
		return p.parseRegexpLiteral()
	case token.WORDS_BEGIN:
		return p.parseWordsLiteral(false)
	case token.SYMBOLS_BEGIN:
		return p.parseWordsLiteral(true)
	case token.KW_NOT:
		p.advance()
		operand := p.parseExpression(token.RightBP(token.KW_NOT), false)
		return p.factory.Not(ast.Loc{Start: start, End: p.cur.Start}, operand)
	case token.BANG, token.TILDE, token.UPLUS, token.UMINUS:
		return p.parseUnary()
	case token.USTAR:
		p.advance()
		inner := p.parseExpression(token.RightBP(token.USTAR), false)
		return p.factory.ArgSplat(ast.Loc{Start: start, End: p.cur.Start}, inner)
	case token.USTAR2:
		p.advance()
		inner := p.parseExpression(token.RightBP(token.USTAR2), false)
		return p.factory.ArgDoubleSplat(ast.Loc{Start: start, End: p.cur.Start}, inner)
	case token.UAMP:
		p.advance()
		inner := p.parseExpression(token.RightBP(token.UAMP), false)
		return p.factory.ArgBlockPass(ast.Loc{Start: start, End: p.cur.Start}, inner)
	case token.UDOT2, token.UDOT3:
		excl := p.cur.Kind == token.UDOT3
		p.advance()
		hi := p.parseExpression(token.Range*2, false)
		return p.factory.RangeLiteral(ast.Loc{Start: start, End: p.cur.Start}, nil, hi, excl)
	case token.KW_DEFINED:
		p.advance()
		paren := p.at(token.LPAREN)
		if paren {
			p.advance()
		}
		operand := p.parseExpression(token.Defined*2, false)
		if paren {
			p.expect(token.RPAREN)
		}
		return p.factory.Defined(ast.Loc{Start: start, End: p.cur.Start}, operand)
	case token.KW_YIELD:
		return p.parseYield()
	case token.KW_SUPER:
		return p.parseSuper()
	case token.KW_IF:
		return p.parseIf(false)
	case token.KW_UNLESS:
		return p.parseIf(true)
	case token.KW_WHILE:
		return p.parseWhile(false)
	case token.KW_UNTIL:
		return p.parseWhile(true)
	case token.KW_FOR:
		return p.parseFor()
	case token.KW_CASE:
		return p.parseCase()
	case token.KW_BEGIN:
		return p.parseBegin()
	case token.KW_DEF:
		return p.parseDef()
	case token.KW_CLASS:
		return p.parseClass()
	case token.KW_MODULE:
		return p.parseModule()
	case token.ARROW:
		return p.parseLambda()
	case token.KW_RETURN:
		p.advance()
		return p.factory.Return(ast.Loc{Start: start, End: p.cur.Start}, p.parseOptionalResultValue())
	case token.KW_BREAK:
		p.advance()
		return p.recordBlockExit(p.factory.Break(ast.Loc{Start: start, End: p.cur.Start}, p.parseOptionalResultValue()))
	case token.KW_NEXT:
		p.advance()
		return p.recordBlockExit(p.factory.Next(ast.Loc{Start: start, End: p.cur.Start}, p.parseOptionalResultValue()))
	case token.KW_REDO:
		p.advance()
		return p.recordBlockExit(p.factory.Redo(ast.Loc{Start: start, End: p.cur.Start}))
	case token.KW_RETRY:
		p.advance()
		if p.rescueNesting == 0 {
			p.diags.Errorf(start, p.cur.Start, diag.ErrRetryOutsideRescue,
				"invalid retry, retry must be used inside a rescue clause")
		}
		return p.factory.Retry(ast.Loc{Start: start, End: p.cur.Start})
	case token.KW_ALIAS:
		return p.parseAlias()
	case token.KW_UNDEF:
		return p.parseUndef()
	case token.KW_BEGIN_BLOCK:
		return p.parseExecBlock(true)
	case token.KW_END_BLOCK:
		return p.parseExecBlock(false)
	case token.KW___FILE__, token.KW___LINE__, token.KW___ENCODING__:
		t := p.cur
		p.advance()
		return p.factory.ConstantRead(ast.Loc{Start: t.Start, End: t.End}, p.textOf(t))
	}

	p.diags.Errorf(p.cur.Start, p.cur.End, diag.ErrUnexpectedToken, "unexpected token %s", p.cur.Kind)
	t := p.cur
	p.advance()
	return p.factory.Missing(ast.Loc{Start: t.Start, End: t.End})
}

func (p *Parser) parseUnary() ast.Node {
	start := p.cur.Start
	op := p.cur.Kind
	p.advance()
	rbp, _ := token.IsUnaryPrefix(op)
	operand := p.parseExpression(rbp, false)
	loc := ast.Loc{Start: start, End: p.cur.Start}
	switch op {
	case token.BANG:
		return p.factory.Not(loc, operand)
	case token.TILDE:
		return p.factory.Call(loc, operand, "~", nil, nil, false)
	case token.UPLUS:
		return p.factory.Call(loc, operand, "+@", nil, nil, false)
	case token.UMINUS:
		return p.factory.Call(loc, operand, "-@", nil, nil, false)
	}
	return operand
}

func (p *Parser) parseOptionalResultValue() ast.Node {
	if p.canStartExpression(p.cur.Kind) {
		return p.parseExpression(token.Lowest*2, true)
	}
	return nil
}

func (p *Parser) canStartExpression(k token.Kind) bool {
	switch k {
	case token.NEWLINE, token.SEMI, token.EOF, token.KW_END, token.KW_THEN,
		token.RPAREN, token.RBRACE, token.RBRACKET, token.KW_IF, token.KW_UNLESS,
		token.KW_WHILE, token.KW_UNTIL, token.KW_ELSE, token.KW_ELSIF, token.KW_ENSURE, token.KW_RESCUE:
		return false
	}
	return true
}
