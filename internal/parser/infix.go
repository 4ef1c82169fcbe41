package parser

import (
	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/pkg/ast"
	"github.com/cwbudde/rubycore/pkg/token"
)

// opAssignSpelling maps an OP_ASSIGN_* token to the method-call spelling
// of the underlying operator, for building the OpAssign node's op field.
var opAssignSpelling = map[token.Kind]string{
	token.OP_ASSIGN_PLUS: "+", token.OP_ASSIGN_MINUS: "-",
	token.OP_ASSIGN_STAR: "*", token.OP_ASSIGN_STAR2: "**",
	token.OP_ASSIGN_SLASH: "/", token.OP_ASSIGN_PERCENT: "%",
	token.OP_ASSIGN_LSHIFT: "<<", token.OP_ASSIGN_RSHIFT: ">>",
	token.OP_ASSIGN_AMP: "&", token.OP_ASSIGN_PIPE: "|", token.OP_ASSIGN_CARET: "^",
}

// binaryOpSpelling maps an ordinary binary operator token to the method
// name Ruby desugars it to (spec.md §4.7's "binary operators other than
// &&/||/and/or/=~ against a literal regexp desugar to a method call").
var binaryOpSpelling = map[token.Kind]string{
	token.EQ: "==", token.NEQ: "!=", token.EQQ: "===",
	token.NMATCH: "!~", token.CMP: "<=>",
	token.LT: "<", token.GT: ">", token.LE: "<=", token.GE: ">=",
	token.PIPE: "|", token.CARET: "^", token.AMP: "&",
	token.LSHIFT: "<<", token.RSHIFT: ">>",
	token.PLUS: "+", token.MINUS: "-",
	token.STAR: "*", token.SLASH: "/", token.PERCENT: "%", token.STAR2: "**",
}

// parseInfix implements spec.md §4.7 step 4: dispatch on the current
// infix operator, already confirmed binary and within binding-power
// range by parseExpression's loop.
func (p *Parser) parseInfix(left ast.Node, leftBP, rightBP int, acceptsCommand bool) ast.Node {
	op := p.cur.Kind
	start := left.Location().Start

	switch op {
	case token.DOT, token.AMPDOT:
		return p.parseMethodCallInfix(left, start, op == token.AMPDOT)
	case token.COLON2:
		return p.parseColon2Infix(left, start)
	case token.LBRACKET_ARG:
		return p.parseIndexCallInfix(left, start)
	case token.LPAREN:
		args, block := p.parseCallParenArgsAndBlock()
		return p.factory.Call(ast.Loc{Start: start, End: p.cur.Start}, left, "call", args, block, false)

	case token.ASSIGN:
		return p.parsePlainAssign(left, start, rightBP)
	case token.OP_ASSIGN_PLUS, token.OP_ASSIGN_MINUS, token.OP_ASSIGN_STAR, token.OP_ASSIGN_STAR2,
		token.OP_ASSIGN_SLASH, token.OP_ASSIGN_PERCENT, token.OP_ASSIGN_LSHIFT, token.OP_ASSIGN_RSHIFT,
		token.OP_ASSIGN_AMP, token.OP_ASSIGN_PIPE, token.OP_ASSIGN_CARET:
		return p.parseOpAssign(left, start, rightBP)
	case token.OP_ASSIGN_AMP2:
		return p.parseShortCircuitAssign(left, start, rightBP, true)
	case token.OP_ASSIGN_PIPE2:
		return p.parseShortCircuitAssign(left, start, rightBP, false)

	case token.QUESTION:
		p.advance()
		p.skipNewlines()
		thenExpr := p.parseExpression(rightBP, false)
		p.skipNewlines()
		p.expect(token.COLON)
		p.skipNewlines()
		elseExpr := p.parseExpression(rightBP, false)
		return p.factory.Ternary(ast.Loc{Start: start, End: p.cur.Start}, left, thenExpr, elseExpr)

	case token.DOT2, token.DOT3:
		excl := op == token.DOT3
		p.advance()
		var hi ast.Node
		if p.canStartExpression(p.cur.Kind) {
			hi = p.parseExpression(rightBP, false)
		}
		return p.factory.RangeLiteral(ast.Loc{Start: start, End: p.cur.Start}, left, hi, excl)

	case token.KW_RESCUE:
		p.advance()
		rhs := p.parseExpression(rightBP, false)
		return p.factory.RescueModifier(ast.Loc{Start: start, End: p.cur.Start}, left, rhs)
	case token.KW_AND:
		p.advance()
		p.skipNewlines()
		rhs := p.parseExpression(rightBP, true)
		return p.factory.And(ast.Loc{Start: start, End: p.cur.Start}, left, rhs)
	case token.KW_OR:
		p.advance()
		p.skipNewlines()
		rhs := p.parseExpression(rightBP, true)
		return p.factory.Or(ast.Loc{Start: start, End: p.cur.Start}, left, rhs)

	case token.PIPE2:
		p.advance()
		p.skipNewlines()
		rhs := p.parseExpression(rightBP, false)
		return p.factory.Or(ast.Loc{Start: start, End: p.cur.Start}, left, rhs)
	case token.AMP2:
		p.advance()
		p.skipNewlines()
		rhs := p.parseExpression(rightBP, false)
		return p.factory.And(ast.Loc{Start: start, End: p.cur.Start}, left, rhs)
	case token.MATCH:
		p.advance()
		p.skipNewlines()
		rhs := p.parseExpression(rightBP, false)
		loc := ast.Loc{Start: start, End: p.cur.Start}
		if left.Kind() == ast.KindRegexpLiteral {
			return p.buildMatchWrite(loc, left, rhs)
		}
		return p.factory.Call(loc, left, "=~", []ast.Node{rhs}, nil, false)

	default:
		name, ok := binaryOpSpelling[op]
		if !ok {
			name = op.String()
		}
		p.advance()
		p.skipNewlines()
		rhs := p.parseExpression(rightBP, false)
		loc := ast.Loc{Start: start, End: p.cur.Start}
		return p.factory.Call(loc, left, name, []ast.Node{rhs}, nil, false)
	}
}

// parseMethodNameToken consumes a token usable as a method name after
// `.`/`&.`/`::`: an identifier, a method-name token (operator spelling),
// or a keyword used as a method name (`x.class`, `x.then`).
func (p *Parser) parseMethodNameToken() token.Token {
	if p.at(token.IDENT) || p.at(token.CONSTANT) || p.at(token.METHODNAME) || p.cur.Kind.IsKeyword() {
		t := p.cur
		p.advance()
		return t
	}
	p.diags.Errorf(p.cur.Start, p.cur.End, diag.ErrUnexpectedToken,
		"expected a method name, found %s", p.cur.Kind)
	return token.Token{Kind: token.MISSING, Start: p.cur.Start, End: p.cur.Start}
}

func (p *Parser) parseMethodCallInfix(left ast.Node, start int, safeNav bool) ast.Node {
	p.advance() // '.' or '&.'
	p.skipNewlines()
	if p.at(token.LPAREN) {
		args, block := p.parseCallParenArgsAndBlock()
		return p.factory.Call(ast.Loc{Start: start, End: p.cur.Start}, left, "call", args, block, safeNav)
	}
	nameTok := p.parseMethodNameToken()
	name := p.textOf(nameTok)
	if p.at(token.LPAREN) || p.at(token.LPAREN_ARG) {
		// `obj.m (x)` still parses as parenthesized args on a dotted call
		args, block := p.parseCallParenArgsAndBlock()
		return p.factory.Call(ast.Loc{Start: start, End: p.cur.Start}, left, name, args, block, safeNav)
	}
	block := p.maybeParseBlock()
	return p.factory.Call(ast.Loc{Start: start, End: p.cur.Start}, left, name, nil, block, safeNav)
}

func (p *Parser) parseColon2Infix(left ast.Node, start int) ast.Node {
	p.advance() // '::'
	if p.at(token.CONSTANT) {
		t := p.cur
		p.advance()
		name := p.textOf(t)
		if p.at(token.LPAREN) {
			args, block := p.parseCallParenArgsAndBlock()
			return p.factory.Call(ast.Loc{Start: start, End: p.cur.Start}, left, name, args, block, false)
		}
		return p.factory.ConstantPathRead(ast.Loc{Start: start, End: p.cur.Start}, left, name)
	}
	nameTok := p.parseMethodNameToken()
	name := p.textOf(nameTok)
	if p.at(token.LPAREN) {
		args, block := p.parseCallParenArgsAndBlock()
		return p.factory.Call(ast.Loc{Start: start, End: p.cur.Start}, left, name, args, block, false)
	}
	block := p.maybeParseBlock()
	return p.factory.Call(ast.Loc{Start: start, End: p.cur.Start}, left, name, nil, block, false)
}

func (p *Parser) parseIndexCallInfix(left ast.Node, start int) ast.Node {
	p.advance() // '['
	p.skipNewlines()
	var args []ast.Node
	for !p.at(token.RBRACKET) && !p.at(token.EOF) {
		args = append(args, p.parseCallArg())
		p.skipNewlines()
		if p.at(token.COMMA) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	p.skipNewlines()
	p.expect(token.RBRACKET)
	block := p.maybeParseBlock()
	return p.factory.IndexCall(ast.Loc{Start: start, End: p.cur.Start}, left, args, block)
}

// parsePlainAssign implements spec.md §4.7's assignment desugaring: the
// left side (already parsed as a read/call/index expression) is
// converted to its write form in place, with a bare zero-arg Call with
// no receiver and no block treated as a fresh local declaration rather
// than a method invocation.
func (p *Parser) parsePlainAssign(left ast.Node, start, rightBP int) ast.Node {
	p.advance() // '='
	p.skipNewlines()
	value := p.parseExpression(rightBP, false)
	if p.at(token.KW_RESCUE) {
		p.advance()
		rescueExpr := p.parseExpression(token.RightBP(token.KW_RESCUE), false)
		value = p.factory.RescueModifier(ast.Loc{Start: value.Location().Start, End: p.cur.Start}, value, rescueExpr)
	}
	return p.buildAssignment(ast.Loc{Start: start, End: p.cur.Start}, left, value)
}

func (p *Parser) parseOpAssign(left ast.Node, start, rightBP int) ast.Node {
	op := opAssignSpelling[p.cur.Kind]
	p.advance()
	p.skipNewlines()
	value := p.parseExpression(rightBP, false)
	target := p.toTarget(left)
	return p.factory.OpAssign(ast.Loc{Start: start, End: p.cur.Start}, op, target, value)
}

func (p *Parser) parseShortCircuitAssign(left ast.Node, start, rightBP int, isAnd bool) ast.Node {
	p.advance()
	p.skipNewlines()
	value := p.parseExpression(rightBP, false)
	target := p.toTarget(left)
	loc := ast.Loc{Start: start, End: p.cur.Start}
	if isAnd {
		return p.factory.AndAssign(loc, target, value)
	}
	return p.factory.OrAssign(loc, target, value)
}

// toTarget converts a node the parser already built in read position
// into its write-target shape, declaring a fresh local when a bare
// zero-arg call turns out to be an undeclared identifier (spec.md
// §4.7's parse_target). Kinds with no dedicated target shape (instance
// /class/global/constant reads) are returned unchanged: they already
// carry nothing but a name, which is all an op-assign/multi-assign
// target needs.
func (p *Parser) toTarget(n ast.Node) ast.Node {
	switch n.Kind() {
	case ast.KindLocalVarRead:
		return p.factory.LocalVarTarget(n.Location(), n.(ast.Named).Name())
	case ast.KindCall, ast.KindCommandCall:
		return p.callToTarget(n)
	case ast.KindIndexCall:
		cr := n.(ast.Receiver)
		args := n.(ast.Args)
		return p.factory.IndexTarget(n.Location(), cr.Receiver(), args.Args())
	default:
		return n
	}
}

func (p *Parser) callToTarget(n ast.Node) ast.Node {
	cr := n.(ast.Receiver)
	if cr.Receiver() == nil && isBareZeroArgCall(n) {
		p.declareLocal(cr.Name(), n.Location().Start)
		return p.factory.LocalVarTarget(n.Location(), cr.Name())
	}
	return p.factory.CallTarget(n.Location(), cr.Receiver(), cr.Name())
}

func isBareZeroArgCall(n ast.Node) bool {
	if args, ok := n.(ast.Args); ok && len(args.Args()) > 0 {
		return false
	}
	if blk, ok := n.(ast.Blocked); ok && blk.Block() != nil {
		return false
	}
	return true
}

// buildAssignment implements the write side of spec.md §4.7's
// assignment desugaring, dispatching on the shape of the already-parsed
// left-hand expression.
func (p *Parser) buildAssignment(loc ast.Loc, left, value ast.Node) ast.Node {
	switch left.Kind() {
	case ast.KindLocalVarRead:
		return p.factory.LocalVarWrite(loc, left.(ast.Named).Name(), value)
	case ast.KindInstanceVarRead:
		return p.factory.InstanceVarWrite(loc, left.(ast.Named).Name(), value)
	case ast.KindClassVarRead:
		return p.factory.ClassVarWrite(loc, left.(ast.Named).Name(), value)
	case ast.KindGlobalVarRead:
		return p.factory.GlobalVarWrite(loc, left.(ast.Named).Name(), value)
	case ast.KindConstantRead:
		if p.methodNesting > 0 {
			p.diags.Errorf(loc.Start, loc.End, diag.ErrConstAssignInMethod,
				"dynamic constant assignment")
		}
		return p.factory.ConstantWrite(loc, left.(ast.Named).Name(), value)
	case ast.KindConstantPathRead:
		cr := left.(ast.Receiver)
		return p.factory.ConstantPathWrite(loc, cr.Receiver(), cr.Name(), value)
	case ast.KindCall, ast.KindCommandCall:
		cr := left.(ast.Receiver)
		if cr.Receiver() == nil && isBareZeroArgCall(left) {
			name := cr.Name()
			p.declareLocal(name, left.Location().Start)
			return p.factory.LocalVarWrite(loc, name, value)
		}
		return p.factory.Call(loc, cr.Receiver(), cr.Name()+"=", []ast.Node{value}, nil, false)
	case ast.KindIndexCall:
		cr := left.(ast.Receiver)
		args := append(append([]ast.Node{}, left.(ast.Args).Args()...), value)
		return p.factory.IndexCall(loc, cr.Receiver(), args, nil)
	default:
		p.diags.Errorf(loc.Start, loc.End, diag.ErrUnexpectedToken, "invalid assignment target")
		return left
	}
}

// buildMatchWrite implements spec.md §4.9/§8's `=~` against a
// non-interpolated regexp literal: the out-of-scope regexp validator is
// asked for named captures, and each one is declared as a fresh local in
// the current scope, mirroring Ruby's "named captures become locals"
// special case.
func (p *Parser) buildMatchWrite(loc ast.Loc, regexp, rhs ast.Node) ast.Node {
	bo, ok := regexp.(ast.BytesOf)
	if !ok || p.regexpValidator == nil {
		return p.factory.Call(loc, regexp, "=~", []ast.Node{rhs}, nil, false)
	}
	regexpStart := regexp.Location().Start
	var names []string
	p.regexpValidator.Validate(bo.RawBytes(),
		func(msg string, offset int) {
			p.diags.Errorf(regexpStart+offset, regexpStart+offset, diag.ErrInvalidEscape, "%s", msg)
		},
		func(name string, offset int) {
			names = append(names, name)
			p.declareLocal(name, regexpStart+offset)
		})
	return p.factory.MatchWrite(loc, regexp, rhs, names)
}
