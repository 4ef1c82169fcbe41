package lexer

import (
	"bytes"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/escape"
	"github.com/cwbudde/rubycore/pkg/token"
)

// spaceBefore/spaceAfter implement spec.md §4.6's "space before but not
// after" heuristic used to disambiguate `*`, `**`, `&`, `+`, `-` as
// unary (splat/block-pass/sign) versus binary operators, and `/`/`%` as
// literal-openers versus division/modulo: a value-starting context
// (Beg/Arg/CmdArg with the right spacing) means unary/literal, anything
// else means binary.
func (l *Lexer) spaceBefore() bool {
	return l.pos > 0 && isHSpace(l.src[l.pos-1])
}

func (l *Lexer) spaceAfterAt(n int) bool {
	return isHSpace(l.byteAt(n))
}

func isHSpace(b byte) bool { return b == ' ' || b == '\t' }

// scanOperatorOrPunct implements the punctuation half of spec.md §4.6:
// every multi-character operator is matched longest-first, and the
// ambiguous single-character operators consult lex-state plus the
// "space before, no space after" heuristic to pick their unary or
// literal-opening reading.
func (l *Lexer) scanOperatorOrPunct() token.Token {
	start := l.pos
	c := l.cur()

	valueContext := l.state.Any(Beg | Arg | CmdArg | Mid)

	switch c {
	case '(':
		spaced := l.spaceBefore()
		l.advance(1)
		l.enclosureNesting++
		kind := token.LPAREN
		if l.state.Any(End|EndArg|EndFn|Arg|CmdArg) && spaced {
			// `foo (x)` is a command whose first argument happens to be
			// parenthesized, not a direct call
			kind = token.LPAREN_ARG
		}
		l.state = Beg | Label
		return token.Token{Kind: kind, Start: start, End: l.pos}
	case ')':
		l.advance(1)
		l.enclosureNesting--
		l.state = End | EndFn
		return token.Token{Kind: token.RPAREN, Start: start, End: l.pos}
	case '[':
		l.advance(1)
		l.enclosureNesting++
		kind := token.LBRACKET
		if l.state.Has(End) && !l.spaceBefore() {
			kind = token.LBRACKET_ARG
		}
		l.state = Beg | Label
		return token.Token{Kind: kind, Start: start, End: l.pos}
	case ']':
		l.advance(1)
		l.enclosureNesting--
		l.state = End | EndArg
		return token.Token{Kind: token.RBRACKET, Start: start, End: l.pos}
	case '{':
		l.advance(1)
		kind := token.LBRACE
		// in Labeled position `{` opens the label's hash value; the
		// END/ENDARG/ENDFN/ARG_ANY family opens a block
		if !l.state.Has(Labeled) && l.state.Any(End|EndArg|EndFn|Arg|CmdArg) {
			kind = token.LBRACE_ARG
		}
		l.state = Beg | Label
		return token.Token{Kind: kind, Start: start, End: l.pos}
	case '}':
		l.advance(1)
		l.state = End | EndArg
		return token.Token{Kind: token.RBRACE, Start: start, End: l.pos}
	case ',':
		l.advance(1)
		l.state = Beg | Label
		return token.Token{Kind: token.COMMA, Start: start, End: l.pos}
	case ';':
		l.advance(1)
		l.state = Beg
		l.commandStart = true
		return token.Token{Kind: token.SEMI, Start: start, End: l.pos}
	case '.':
		return l.scanDot()
	case ':':
		return l.scanColon()
	case '?':
		return l.scanQuestion(valueContext)
	case '*':
		return l.scanStar(valueContext)
	case '&':
		return l.scanAmp(valueContext)
	case '+':
		return l.scanPlus(valueContext)
	case '-':
		return l.scanMinus(valueContext)
	case '/':
		return l.scanSlash(valueContext)
	case '%':
		return l.scanPercent(valueContext)
	case '|':
		return l.scanPipe()
	case '^':
		l.advance(1)
		l.state = Beg
		return l.maybeOpAssign(start, token.CARET, token.OP_ASSIGN_CARET)
	case '~':
		l.advance(1)
		l.state = Beg
		return token.Token{Kind: token.TILDE, Start: start, End: l.pos}
	case '!':
		return l.scanBang()
	case '<':
		return l.scanLt()
	case '>':
		return l.scanGt()
	case '=':
		return l.scanEquals()
	}

	l.advance(1)
	l.diags.Errorf(start, l.pos, diag.ErrInvalidEncodingByte, "unexpected byte %q", c)
	return token.Token{Kind: token.ILLEGAL, Start: start, End: l.pos}
}

// warnAmbiguousUnary flags the `foo *bar` spacing pattern: in Arg state
// with a space before the operator and none after, the operator reads
// as a unary argument prefix, which surprises readers expecting a
// binary operator (spec.md §4.6).
func (l *Lexer) warnAmbiguousUnary(start int, spelling string) {
	if l.state.Has(Arg) {
		l.diags.Warnf(start, l.pos, diag.ErrAmbiguousUnary,
			"ambiguous first argument; put parentheses or a space even after `%s` operator", spelling)
	}
}

func (l *Lexer) maybeOpAssign(start int, plain, opAssign token.Kind) token.Token {
	if l.cur() == '=' {
		l.advance(1)
		l.state = Beg
		return token.Token{Kind: opAssign, Start: start, End: l.pos}
	}
	return token.Token{Kind: plain, Start: start, End: l.pos}
}

func (l *Lexer) scanDot() token.Token {
	start := l.pos
	if l.peek() == '.' && l.byteAt(2) == '.' {
		l.advance(3)
		l.state = Beg
		return token.Token{Kind: token.DOT3, Start: start, End: l.pos}
	}
	if l.peek() == '.' {
		l.advance(2)
		l.state = Beg
		return token.Token{Kind: token.DOT2, Start: start, End: l.pos}
	}
	l.advance(1)
	l.state = Dot | FName
	return token.Token{Kind: token.DOT, Start: start, End: l.pos}
}

func (l *Lexer) scanColon() token.Token {
	start := l.pos
	if l.peek() == ':' {
		l.advance(2)
		l.state = Beg
		return token.Token{Kind: token.COLON2, Start: start, End: l.pos}
	}
	l.advance(1)
	// `:` starting a symbol requires a value context (or the first item
	// of an alias/undef list) and no space before the following
	// identifier/operator/string opener (spec.md §4.6).
	if l.state.Any(Beg|Arg|CmdArg|Mid|FItem) && !isHSpace(l.cur()) && l.cur() != ':' {
		l.state = FName
		return token.Token{Kind: token.SYMBEG, Start: start, End: l.pos}
	}
	l.state = Beg
	return token.Token{Kind: token.COLON, Start: start, End: l.pos}
}

func (l *Lexer) scanQuestion(valueContext bool) token.Token {
	start := l.pos
	if valueContext && l.peek() != 0 && !isHSpace(l.peek()) && l.peek() != '\n' {
		// `?a` / `?\n` character literal: the decoded character is
		// recorded as the token's string value, the span keeps the `?`.
		l.advance(1)
		if l.cur() == '\\' {
			l.advance(1)
			var out bytes.Buffer
			n, _, err := escape.Read([]byte(l.src[l.pos:l.end]), &out, nil, 0)
			if err != nil {
				l.diags.Errorf(start, l.pos+n, diag.ErrInvalidEscape, "%s", err.Error())
			}
			l.advance(n)
			l.setStringValue(start, out.String())
		} else {
			_, w := l.decodeRune()
			l.setStringValue(start, l.src[l.pos:l.pos+w])
			l.advance(w)
		}
		l.state = End
		return token.Token{Kind: token.CHAR, Start: start, End: l.pos}
	}
	l.advance(1)
	l.state = Beg
	return token.Token{Kind: token.QUESTION, Start: start, End: l.pos}
}

func (l *Lexer) scanStar(valueContext bool) token.Token {
	start := l.pos
	spaced := l.spaceBefore()
	if l.peek() == '*' {
		l.advance(2)
		if l.cur() == '=' {
			l.advance(1)
			l.state = Beg
			return token.Token{Kind: token.OP_ASSIGN_STAR2, Start: start, End: l.pos}
		}
		kind := token.STAR2
		if valueContext && spaced && !l.spaceAfterAt(0) {
			kind = token.USTAR2
			l.warnAmbiguousUnary(start, "**")
		}
		l.state = Beg
		return token.Token{Kind: kind, Start: start, End: l.pos}
	}
	l.advance(1)
	if l.cur() == '=' {
		l.advance(1)
		l.state = Beg
		return token.Token{Kind: token.OP_ASSIGN_STAR, Start: start, End: l.pos}
	}
	kind := token.STAR
	if valueContext && (spaced && !l.spaceAfterAt(0) || !spaced) {
		kind = token.USTAR
		if spaced {
			l.warnAmbiguousUnary(start, "*")
		}
	}
	l.state = Beg
	return token.Token{Kind: kind, Start: start, End: l.pos}
}

func (l *Lexer) scanAmp(valueContext bool) token.Token {
	start := l.pos
	spaced := l.spaceBefore()
	if l.peek() == '&' {
		l.advance(2)
		if l.cur() == '=' {
			l.advance(1)
			l.state = Beg
			return token.Token{Kind: token.OP_ASSIGN_AMP2, Start: start, End: l.pos}
		}
		l.state = Beg
		return token.Token{Kind: token.AMP2, Start: start, End: l.pos}
	}
	if l.peek() == '.' {
		l.advance(2)
		l.state = Dot | FName
		return token.Token{Kind: token.AMPDOT, Start: start, End: l.pos}
	}
	l.advance(1)
	if l.cur() == '=' {
		l.advance(1)
		l.state = Beg
		return token.Token{Kind: token.OP_ASSIGN_AMP, Start: start, End: l.pos}
	}
	kind := token.AMP
	if valueContext && (spaced && !l.spaceAfterAt(0) || !spaced) {
		kind = token.UAMP
		if spaced {
			l.warnAmbiguousUnary(start, "&")
		}
	}
	l.state = Beg
	return token.Token{Kind: kind, Start: start, End: l.pos}
}

func (l *Lexer) scanPlus(valueContext bool) token.Token {
	start := l.pos
	spaced := l.spaceBefore()
	l.advance(1)
	if l.cur() == '=' {
		l.advance(1)
		l.state = Beg
		return token.Token{Kind: token.OP_ASSIGN_PLUS, Start: start, End: l.pos}
	}
	if l.cur() == '@' && l.state.Has(Dot) {
		l.advance(1)
		return token.Token{Kind: token.METHODNAME, Start: start, End: l.pos}
	}
	kind := token.PLUS
	if valueContext && isDigit(l.cur()) && spaced && !l.spaceAfterAt(0) {
		kind = token.UPLUS
	} else if valueContext && !spaced {
		kind = token.UPLUS
	}
	l.state = Beg
	return token.Token{Kind: kind, Start: start, End: l.pos}
}

func (l *Lexer) scanMinus(valueContext bool) token.Token {
	start := l.pos
	spaced := l.spaceBefore()
	l.advance(1)
	if l.cur() == '=' {
		l.advance(1)
		l.state = Beg
		return token.Token{Kind: token.OP_ASSIGN_MINUS, Start: start, End: l.pos}
	}
	if l.cur() == '>' {
		l.advance(1)
		l.state = Beg
		return token.Token{Kind: token.ARROW, Start: start, End: l.pos}
	}
	if l.cur() == '@' && l.state.Has(Dot) {
		l.advance(1)
		return token.Token{Kind: token.METHODNAME, Start: start, End: l.pos}
	}
	kind := token.MINUS
	if valueContext && (spaced && !l.spaceAfterAt(0) || !spaced) {
		kind = token.UMINUS
	}
	l.state = Beg
	return token.Token{Kind: kind, Start: start, End: l.pos}
}

// scanSlash implements the `/` division-vs-regexp-opener disambiguation:
// a `/` in Beg/Arg context with a space before and none after opens a
// regexp literal (spec.md §4.6, §4.9).
func (l *Lexer) scanSlash(valueContext bool) token.Token {
	start := l.pos
	if valueContext && (l.spaceBefore() || !l.state.Has(Arg)) && !l.spaceAfterAt(1) {
		return l.scanRegexpLiteral()
	}
	l.advance(1)
	if l.cur() == '=' {
		l.advance(1)
		l.state = Beg
		return token.Token{Kind: token.OP_ASSIGN_SLASH, Start: start, End: l.pos}
	}
	l.state = Beg
	return token.Token{Kind: token.SLASH, Start: start, End: l.pos}
}

// scanPercent implements the `%` modulo-vs-percent-literal-opener
// disambiguation, mirroring scanSlash.
func (l *Lexer) scanPercent(valueContext bool) token.Token {
	start := l.pos
	if valueContext && !isHSpace(l.peek()) && l.peek() != '=' && (isLetter(l.peek()) || isPercentDelim(l.peek())) {
		return l.scanPercentLiteral()
	}
	l.advance(1)
	if l.cur() == '=' {
		l.advance(1)
		l.state = Beg
		return token.Token{Kind: token.OP_ASSIGN_PERCENT, Start: start, End: l.pos}
	}
	l.state = Beg
	return token.Token{Kind: token.PERCENT, Start: start, End: l.pos}
}

func isPercentDelim(b byte) bool {
	switch b {
	case '(', '[', '{', '<', '!', '|', '/', '^', '~':
		return true
	}
	return false
}

func (l *Lexer) scanPipe() token.Token {
	start := l.pos
	if l.peek() == '|' {
		l.advance(2)
		if l.cur() == '=' {
			l.advance(1)
			l.state = Beg
			return token.Token{Kind: token.OP_ASSIGN_PIPE2, Start: start, End: l.pos}
		}
		l.state = Beg
		return token.Token{Kind: token.PIPE2, Start: start, End: l.pos}
	}
	l.advance(1)
	if l.cur() == '=' {
		l.advance(1)
		l.state = Beg
		return token.Token{Kind: token.OP_ASSIGN_PIPE, Start: start, End: l.pos}
	}
	l.state = Beg | Label // block parameter lists take keyword params
	return token.Token{Kind: token.PIPE, Start: start, End: l.pos}
}

func (l *Lexer) scanBang() token.Token {
	start := l.pos
	l.advance(1)
	if l.cur() == '=' {
		l.advance(1)
		l.state = Beg
		return token.Token{Kind: token.NEQ, Start: start, End: l.pos}
	}
	if l.cur() == '~' {
		l.advance(1)
		l.state = Beg
		return token.Token{Kind: token.NMATCH, Start: start, End: l.pos}
	}
	l.state = Beg
	return token.Token{Kind: token.BANG, Start: start, End: l.pos}
}

func (l *Lexer) scanLt() token.Token {
	start := l.pos
	if l.peek() == '<' {
		if isHeredocOpenerFollowing(l) {
			return l.scanHeredocOpener()
		}
		l.advance(2)
		if l.cur() == '=' {
			l.advance(1)
			l.state = Beg
			return token.Token{Kind: token.OP_ASSIGN_LSHIFT, Start: start, End: l.pos}
		}
		l.state = Beg
		return token.Token{Kind: token.LSHIFT, Start: start, End: l.pos}
	}
	if l.peek() == '=' {
		if l.byteAt(2) == '>' {
			l.advance(3)
			l.state = Beg
			return token.Token{Kind: token.CMP, Start: start, End: l.pos}
		}
		l.advance(2)
		l.state = Beg
		return token.Token{Kind: token.LE, Start: start, End: l.pos}
	}
	l.advance(1)
	l.state = Beg
	return token.Token{Kind: token.LT, Start: start, End: l.pos}
}

// isHeredocOpenerFollowing applies spec.md §4.6's `<<` disambiguation:
// a heredoc opener requires either a value context or an identifier
// that can't be a shift target immediately following the quote/sigil.
func isHeredocOpenerFollowing(l *Lexer) bool {
	i := 2
	if l.byteAt(i) == '-' || l.byteAt(i) == '~' {
		i++
	}
	c := l.byteAt(i)
	if c == '\'' || c == '"' || c == '`' {
		return true
	}
	if c == '_' || (c >= 'A' && c <= 'Z') {
		return l.state.Any(Beg|Arg|CmdArg) || !l.spaceBefore()
	}
	return false
}

func (l *Lexer) scanGt() token.Token {
	start := l.pos
	if l.peek() == '>' {
		l.advance(2)
		if l.cur() == '=' {
			l.advance(1)
			l.state = Beg
			return token.Token{Kind: token.OP_ASSIGN_RSHIFT, Start: start, End: l.pos}
		}
		l.state = Beg
		return token.Token{Kind: token.RSHIFT, Start: start, End: l.pos}
	}
	if l.peek() == '=' {
		l.advance(2)
		l.state = Beg
		return token.Token{Kind: token.GE, Start: start, End: l.pos}
	}
	l.advance(1)
	l.state = Beg
	return token.Token{Kind: token.GT, Start: start, End: l.pos}
}

func (l *Lexer) scanEquals() token.Token {
	start := l.pos
	if l.peek() == '=' && l.byteAt(2) == '=' {
		l.advance(3)
		l.state = Beg
		return token.Token{Kind: token.EQQ, Start: start, End: l.pos}
	}
	if l.peek() == '=' {
		l.advance(2)
		l.state = Beg
		return token.Token{Kind: token.EQ, Start: start, End: l.pos}
	}
	if l.peek() == '~' {
		l.advance(2)
		l.state = Beg
		return token.Token{Kind: token.MATCH, Start: start, End: l.pos}
	}
	if l.peek() == '>' {
		l.advance(2)
		l.state = Beg
		return token.Token{Kind: token.FATARROW, Start: start, End: l.pos}
	}
	if l.atLineStart() && hasPrefixAt(l.src, l.pos, "=begin") {
		l.skipBeginEndBlock()
		return l.Next()
	}
	l.advance(1)
	l.state = Beg
	return token.Token{Kind: token.ASSIGN, Start: start, End: l.pos}
}

// skipBeginEndBlock consumes a `=begin` ... `=end` block comment.
func (l *Lexer) skipBeginEndBlock() {
	for l.pos < l.end {
		lineEnd := l.lineEnd(l.pos)
		if hasPrefixAt(l.src, l.pos, "=end") {
			l.advance(lineEnd - l.pos)
			return
		}
		l.advance(lineEnd - l.pos)
		if l.pos < l.end {
			l.advance(1)
		}
	}
}
