package parser

import (
	"strings"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/lexer"
	"github.com/cwbudde/rubycore/internal/scope"
	"github.com/cwbudde/rubycore/pkg/ast"
	"github.com/cwbudde/rubycore/pkg/token"
)

// parseIdentifierPrimary handles a bare lowercase identifier: a local
// variable read if already declared in scope, else a command call
// (spec.md §4.7's "command-style calls") when followed by an argument
// list without parentheses, else a zero-arg call.
func (p *Parser) parseIdentifierPrimary(acceptsCommand bool) ast.Node {
	t := p.cur
	name := p.textOf(t)
	p.advance()
	loc := ast.Loc{Start: t.Start, End: t.End}

	if p.at(token.LPAREN) {
		args, block := p.parseCallParenArgsAndBlock()
		return p.factory.Call(ast.Loc{Start: t.Start, End: p.cur.Start}, nil, name, args, block, false)
	}

	if node, ok := p.maybeImplicitParam(name, loc); ok {
		return node
	}

	if p.isLocal(name) {
		if p.atBlockOpener() {
			block := p.parseBlock()
			return p.factory.Call(ast.Loc{Start: t.Start, End: p.cur.Start}, nil, name, nil, block, false)
		}
		return p.factory.LocalVarRead(loc, name)
	}

	if acceptsCommand && p.startsCommandArgs() {
		args := p.parseCommandArgs()
		block := p.maybeParseBlock()
		return p.factory.CommandCall(ast.Loc{Start: t.Start, End: p.cur.Start}, nil, name, args, block)
	}

	if p.atBlockOpener() {
		block := p.parseBlock()
		return p.factory.Call(ast.Loc{Start: t.Start, End: p.cur.Start}, nil, name, nil, block, false)
	}

	return p.factory.Call(loc, nil, name, nil, nil, false)
}

// numberedParamIndex returns n for the reserved names `_1`..`_9`, else 0.
func numberedParamIndex(name string) int {
	if len(name) == 2 && name[0] == '_' && name[1] >= '1' && name[1] <= '9' {
		return int(name[1] - '0')
	}
	return 0
}

// maybeImplicitParam resolves `_1`..`_9` and `it` inside a block scope
// that declares no ordinary parameters, implicitly declaring the name as
// a local and recording the synthesized read so it could be retracted.
// Using a numbered parameter marks every enclosing block scope
// NumberedInner, which forbids those scopes from using their own.
func (p *Parser) maybeImplicitParam(name string, loc ast.Loc) (ast.Node, bool) {
	s := p.scope
	if s == nil || s.Closed || s.ParamState&scope.ImplicitDisallowed != 0 {
		return nil, false
	}
	if n := numberedParamIndex(name); n > 0 {
		if s.ParamState&scope.NumberedInner != 0 {
			p.diags.Errorf(loc.Start, loc.End, diag.ErrNumberedParamReserved,
				"numbered parameter is already used in an inner block")
		}
		if s.ParamState&scope.ItFound != 0 {
			p.diags.Errorf(loc.Start, loc.End, diag.ErrItMixedWithNumbered,
				"`it` is already used in this block; numbered parameters cannot be mixed with it")
		}
		s.ParamState |= scope.NumberedFound
		for outer := s.Previous; outer != nil; outer = outer.Previous {
			outer.ParamState |= scope.NumberedInner
			if outer.Closed {
				break
			}
		}
		s.AddImplicitParameter(name, loc.Start)
		p.declareLocal(name, loc.Start)
		return p.factory.NumberedParamRead(loc, n), true
	}
	if name == "it" && p.lex.Version() >= lexer.CRUBY_3_4 {
		if s.ParamState&scope.NumberedFound != 0 {
			p.diags.Errorf(loc.Start, loc.End, diag.ErrItMixedWithNumbered,
				"numbered parameters are already used in this block; `it` cannot be mixed with them")
		}
		s.ParamState |= scope.ItFound
		s.AddImplicitParameter(name, loc.Start)
		p.declareLocal(name, loc.Start)
		return p.factory.ItParamRead(loc), true
	}
	return nil, false
}

func (p *Parser) atBlockOpener() bool {
	return p.at(token.LBRACE_ARG) || p.at(token.KW_DO) || p.at(token.KW_DO_LOOP)
}

func (p *Parser) maybeParseBlock() ast.Node {
	if p.atBlockOpener() {
		return p.parseBlock()
	}
	return nil
}

// startsCommandArgs reports whether the current token can open a
// command-call argument list: any expression-starting token, or one of
// the unary-looking splat/block-pass markers spec.md §4.7 singles out.
func (p *Parser) startsCommandArgs() bool {
	switch p.cur.Kind {
	case token.USTAR, token.USTAR2, token.UAMP, token.SYMBEG, token.STRING_BEGIN,
		token.WORDS_BEGIN, token.SYMBOLS_BEGIN, token.LPAREN_ARG,
		token.INT, token.FLOAT, token.RATIONAL, token.IMAGINARY, token.CHAR,
		token.IDENT, token.CONSTANT, token.IVAR, token.CVAR, token.GVAR, token.BACKREF,
		token.KW_NIL, token.KW_TRUE, token.KW_FALSE, token.KW_SELF, token.LBRACKET,
		token.ARROW, token.UMINUS, token.UPLUS, token.BANG, token.TILDE, token.REGEXP_BEGIN,
		token.KW_NOT, token.KW_DEFINED, token.COLON2:
		return true
	}
	return false
}

func (p *Parser) parseCommandArgs() []ast.Node {
	var args []ast.Node
	args = append(args, p.parseCallArg())
	for p.at(token.COMMA) {
		p.advance()
		p.skipNewlines()
		args = append(args, p.parseCallArg())
	}
	return args
}

func (p *Parser) parseCallArg() ast.Node {
	if p.at(token.LABEL) {
		return p.parseLabeledArg()
	}
	return p.parseExpression(token.Assignment*2, false)
}

// labelName strips the trailing ':' a LABEL token's span includes.
func (p *Parser) labelName(t token.Token) string {
	return strings.TrimSuffix(p.textOf(t), ":")
}

func (p *Parser) parseLabeledArg() ast.Node {
	t := p.cur
	name := p.labelName(t)
	p.advance()
	key := p.factory.SymbolLiteral(ast.Loc{Start: t.Start, End: t.End}, name)
	if !p.canStartExpression(p.cur.Kind) || p.at(token.COMMA) {
		// value-omitted shorthand: `{x:, y:}` reads the local of the
		// key's name
		val := p.factory.LocalVarRead(ast.Loc{Start: t.Start, End: t.End}, name)
		return p.factory.ArgAssoc(ast.Loc{Start: t.Start, End: p.cur.Start}, key, val)
	}
	val := p.parseExpression(token.Assignment*2, false)
	return p.factory.ArgAssoc(ast.Loc{Start: t.Start, End: p.cur.Start}, key, val)
}

// parseConstantPathOrCall handles a leading CONSTANT: plain constant
// read, `::`-chained constant path, or a call when followed directly by
// `(`.
func (p *Parser) parseConstantPathOrCall(acceptsCommand bool) ast.Node {
	t := p.cur
	name := p.textOf(t)
	p.advance()
	var node ast.Node = p.factory.ConstantRead(ast.Loc{Start: t.Start, End: t.End}, name)
	if p.at(token.LPAREN) {
		args, block := p.parseCallParenArgsAndBlock()
		return p.factory.Call(ast.Loc{Start: t.Start, End: p.cur.Start}, nil, name, args, block, false)
	}
	for p.at(token.COLON2) {
		p.advance()
		nt := p.expect(token.CONSTANT)
		node = p.factory.ConstantPathRead(ast.Loc{Start: t.Start, End: nt.End}, node, p.textOf(nt))
	}
	return node
}

// parseCallParenArgsAndBlock parses a `(...)` argument list (already
// positioned at `(`) and an optional trailing block.
func (p *Parser) parseCallParenArgsAndBlock() ([]ast.Node, ast.Node) {
	p.advance() // '('
	p.skipNewlines()
	var args []ast.Node
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
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
	p.expect(token.RPAREN)
	return args, p.maybeParseBlock()
}

// parseBlock parses `{ |params| body }` or `do |params| body end`.
func (p *Parser) parseBlock() ast.Node {
	start := p.cur.Start
	closing := token.RBRACE
	if p.at(token.KW_DO) || p.at(token.KW_DO_LOOP) {
		closing = token.KW_END
	}
	p.advance()
	p.skipNewlines()

	p.pushScope(false)
	var params ast.Node
	if p.at(token.PIPE) {
		params = p.parseBlockParamList()
		p.scope.ParamState |= scope.ImplicitDisallowed
	}
	p.blockExitAllowed++
	body := p.parseStatementsUntil(closing)
	p.blockExitAllowed--
	p.popScope()
	p.expect(closing)
	return p.factory.Block(ast.Loc{Start: start, End: p.cur.Start}, params, body)
}

func (p *Parser) parseBlockParamList() ast.Node {
	start := p.cur.Start
	p.advance() // '|'
	var params []ast.Node
	for !p.at(token.PIPE) && !p.at(token.EOF) {
		params = append(params, p.parseOneParam())
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.PIPE)
	return p.factory.BlockParameters(ast.Loc{Start: start, End: p.cur.Start}, params)
}

func (p *Parser) parseArrayLiteral() ast.Node {
	start := p.cur.Start
	p.advance()
	p.skipNewlines()
	var elements []ast.Node
	for !p.at(token.RBRACKET) && !p.at(token.EOF) {
		elements = append(elements, p.parseCallArg())
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
	return p.factory.ArrayLiteral(ast.Loc{Start: start, End: p.cur.Start}, elements)
}

func (p *Parser) parseHashLiteral() ast.Node {
	start := p.cur.Start
	p.advance()
	p.skipNewlines()
	var pairs []ast.Node
	seen := map[string]bool{}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		pair := p.parseHashPair()
		if name := hashPairKeyName(pair); name != "" {
			if seen[name] {
				p.reportDuplicate(diag.ErrDuplicateHashKey, pair.Location().Start, pair.Location().End, "hash key", name)
			}
			seen[name] = true
		}
		pairs = append(pairs, pair)
		p.skipNewlines()
		if p.at(token.COMMA) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	p.skipNewlines()
	p.expect(token.RBRACE)
	return p.factory.HashLiteral(ast.Loc{Start: start, End: p.cur.Start}, pairs)
}

// hashPairKeyName recovers a statically-known key spelling (symbol or
// plain string keys) for duplicate detection; dynamic keys return "".
func hashPairKeyName(pair ast.Node) string {
	r, ok := pair.(ast.Receiver)
	if !ok || r.Receiver() == nil {
		return ""
	}
	key := r.Receiver()
	switch key.Kind() {
	case ast.KindSymbolLiteral:
		return key.(ast.Named).Name()
	case ast.KindStringLiteral:
		if b, ok := key.(ast.BytesOf); ok {
			return string(b.RawBytes())
		}
	}
	return ""
}

func (p *Parser) parseHashPair() ast.Node {
	start := p.cur.Start
	if p.at(token.STAR2) || p.at(token.USTAR2) {
		p.advance()
		inner := p.parseExpression(token.Assignment*2, false)
		return p.factory.ArgDoubleSplat(ast.Loc{Start: start, End: p.cur.Start}, inner)
	}
	if p.at(token.LABEL) {
		return p.parseLabeledArg()
	}
	key := p.parseExpression(token.Assignment*2, false)
	p.expect(token.FATARROW)
	value := p.parseExpression(token.Assignment*2, false)
	return p.factory.HashPair(ast.Loc{Start: start, End: p.cur.Start}, key, value)
}

// parseStringLikeLiteral aggregates STRING_CONTENT/EMBEXPR_*/EMBVAR
// tokens between STRING_BEGIN and STRING_END into a plain or
// interpolated string node, per spec.md §4.9, concatenating adjacent
// string literals (`"a" "b"`) into one node.
func (p *Parser) parseStringLikeLiteral() ast.Node {
	node := p.parseOneStringLiteral()
	for p.at(token.STRING_BEGIN) {
		second := p.parseOneStringLiteral()
		node = p.concatStringLiterals(node, second)
	}
	return node
}

func (p *Parser) concatStringLiterals(left, right ast.Node) ast.Node {
	loc := ast.Loc{Start: left.Location().Start, End: right.Location().End}
	lb, lok := left.(ast.BytesOf)
	rb, rok := right.(ast.BytesOf)
	if lok && rok && left.Kind() == ast.KindStringLiteral && right.Kind() == ast.KindStringLiteral {
		joined := append(append([]byte(nil), lb.RawBytes()...), rb.RawBytes()...)
		return p.factory.StringLiteral(loc, joined)
	}
	return p.factory.InterpolatedString(loc, []ast.Node{left, right})
}

func (p *Parser) parseOneStringLiteral() ast.Node {
	start := p.cur.Start
	p.advance() // STRING_BEGIN
	parts, plainBytes, onlyPlain := p.collectStringParts(token.STRING_END)
	end := p.cur.End
	p.expect(token.STRING_END)
	loc := ast.Loc{Start: start, End: end}
	if onlyPlain {
		return p.factory.StringLiteral(loc, plainBytes)
	}
	return p.factory.InterpolatedString(loc, parts)
}

// collectStringParts implements spec.md §4.9's aggregation loop. It
// returns the structured parts (used when interpolation is present),
// the concatenated raw bytes (used when it isn't), and whether only
// plain content was seen.
func (p *Parser) collectStringParts(end token.Kind) ([]ast.Node, []byte, bool) {
	var parts []ast.Node
	var plain []byte
	onlyPlain := true
	for !p.at(end) && !p.at(token.EOF) {
		switch p.cur.Kind {
		case token.STRING_CONTENT:
			t := p.cur
			p.advance()
			text := []byte(p.lex.StringValue(t.Start, t.End))
			plain = append(plain, text...)
			parts = append(parts, p.factory.StringLiteral(ast.Loc{Start: t.Start, End: t.End}, text))
		case token.EMBEXPR_BEGIN:
			p.advance()
			p.skipNewlines()
			onlyPlain = false
			inner := p.parseStatementsUntil(token.EMBEXPR_END)
			p.expect(token.EMBEXPR_END)
			parts = append(parts, inner)
		case token.EMBVAR:
			p.advance()
			onlyPlain = false
			parts = append(parts, p.parsePrefix(false))
		default:
			return parts, plain, onlyPlain
		}
	}
	return parts, plain, onlyPlain
}

func (p *Parser) parseSymbolLiteral() ast.Node {
	start := p.cur.Start
	p.advance() // SYMBEG
	if p.at(token.STRING_BEGIN) {
		p.advance()
		parts, plainBytes, onlyPlain := p.collectStringParts(token.STRING_END)
		end := p.cur.End
		p.expect(token.STRING_END)
		loc := ast.Loc{Start: start, End: end}
		if onlyPlain {
			return p.factory.SymbolLiteral(loc, string(plainBytes))
		}
		return p.factory.InterpolatedSymbol(loc, parts)
	}
	t := p.cur
	name := p.textOf(t)
	if t.Kind == token.STRING_CONTENT {
		name = p.lex.StringValue(t.Start, t.End)
	}
	p.advance()
	if p.at(token.STRING_END) {
		// %s(...) delivers its name as string content followed by the
		// closing delimiter.
		p.advance()
	}
	return p.factory.SymbolLiteral(ast.Loc{Start: start, End: t.End}, name)
}

// parseWordsLiteral aggregates a %w/%W/%i/%I list: whitespace-separated
// elements, each a plain string or symbol, with interpolation allowed in
// the capital variants.
func (p *Parser) parseWordsLiteral(symbols bool) ast.Node {
	start := p.cur.Start
	p.advance()
	var elems []ast.Node
	var parts []ast.Node
	var plain []byte
	onlyPlain := true
	elemStart := p.cur.Start
	flush := func(end int) {
		if len(parts) == 0 {
			return
		}
		loc := ast.Loc{Start: elemStart, End: end}
		switch {
		case symbols && onlyPlain:
			elems = append(elems, p.factory.SymbolLiteral(loc, string(plain)))
		case symbols:
			elems = append(elems, p.factory.InterpolatedSymbol(loc, parts))
		case onlyPlain:
			elems = append(elems, p.factory.StringLiteral(loc, plain))
		default:
			elems = append(elems, p.factory.InterpolatedString(loc, parts))
		}
		parts, plain, onlyPlain = nil, nil, true
	}
	for !p.at(token.STRING_END) && !p.at(token.EOF) {
		switch p.cur.Kind {
		case token.WORDS_SEP:
			flush(p.cur.Start)
			p.advance()
			elemStart = p.cur.Start
		case token.STRING_CONTENT:
			t := p.cur
			p.advance()
			text := []byte(p.lex.StringValue(t.Start, t.End))
			plain = append(plain, text...)
			parts = append(parts, p.factory.StringLiteral(ast.Loc{Start: t.Start, End: t.End}, text))
		case token.EMBEXPR_BEGIN:
			p.advance()
			p.skipNewlines()
			onlyPlain = false
			inner := p.parseStatementsUntil(token.EMBEXPR_END)
			p.expect(token.EMBEXPR_END)
			parts = append(parts, inner)
		default:
			flush(p.cur.Start)
			p.advance()
		}
	}
	flush(p.cur.Start)
	end := p.cur.End
	p.expect(token.STRING_END)
	loc := ast.Loc{Start: start, End: end}
	if symbols {
		return p.factory.SymbolsArray(loc, elems)
	}
	return p.factory.WordsArray(loc, elems)
}

func (p *Parser) parseRegexpLiteral() ast.Node {
	start := p.cur.Start
	p.advance() // REGEXP_BEGIN
	parts, plainBytes, onlyPlain := p.collectStringParts(token.REGEXP_END)
	p.expect(token.REGEXP_END)
	var options uint32
	if p.at(token.REGEXP_OPT) {
		opt := p.cur
		p.advance()
		options = decodeRegexpOptions(p.textOf(opt))
	}
	loc := ast.Loc{Start: start, End: p.cur.Start}
	if onlyPlain {
		return p.factory.RegexpLiteral(loc, plainBytes, options)
	}
	return p.factory.InterpolatedRegexp(loc, parts, options)
}

func decodeRegexpOptions(flags string) uint32 {
	var bits uint32
	for i := 0; i < len(flags); i++ {
		switch flags[i] {
		case 'i':
			bits |= 1 << 0
		case 'm':
			bits |= 1 << 1
		case 'x':
			bits |= 1 << 2
		case 'o':
			bits |= 1 << 3
		case 'n':
			bits |= 1 << 4
		case 'e':
			bits |= 1 << 5
		case 's':
			bits |= 1 << 6
		case 'u':
			bits |= 1 << 7
		}
	}
	return bits
}

func (p *Parser) parseYield() ast.Node {
	start := p.cur.Start
	p.advance()
	if p.methodNesting == 0 {
		p.diags.Errorf(start, p.cur.Start, diag.ErrYieldOutsideMethod, "invalid yield, yield must be used inside a method")
	}
	var args []ast.Node
	if p.at(token.LPAREN) {
		args, _ = p.parseCallParenArgsAndBlock()
	} else if p.canStartExpression(p.cur.Kind) {
		args = p.parseCommandArgs()
	}
	return p.factory.Yield(ast.Loc{Start: start, End: p.cur.Start}, args)
}

func (p *Parser) parseSuper() ast.Node {
	start := p.cur.Start
	p.advance()
	if p.at(token.LPAREN) {
		args, block := p.parseCallParenArgsAndBlock()
		return p.factory.SuperCall(ast.Loc{Start: start, End: p.cur.Start}, args, block, false)
	}
	if p.canStartExpression(p.cur.Kind) && !p.atBlockOpener() {
		args := p.parseCommandArgs()
		block := p.maybeParseBlock()
		return p.factory.SuperCall(ast.Loc{Start: start, End: p.cur.Start}, args, block, false)
	}
	block := p.maybeParseBlock()
	return p.factory.SuperCall(ast.Loc{Start: start, End: p.cur.Start}, nil, block, true)
}
