package lexer

import "github.com/cwbudde/rubycore/pkg/token"

// scanIdentifier implements spec.md §4.6's identifier branch: plain
// identifiers, CONSTANT-case identifiers, @ivar/@@cvar/$gvar sigils, and
// the trailing `?`/`!` method-name suffix. It classifies the result
// against token.Keywords and, in FName/Dot lex-state, always returns a
// plain IDENT/CONSTANT/METHODNAME rather than a keyword, per the "method
// names may shadow keywords after `.`/`def`" rule.
func (l *Lexer) scanIdentifier() token.Token {
	start := l.pos
	sigilKind := token.IDENT

	switch l.cur() {
	case '@':
		if l.peek() == '@' {
			l.advance(2)
			sigilKind = token.CVAR
		} else {
			l.advance(1)
			sigilKind = token.IVAR
		}
	case '$':
		l.advance(1)
		sigilKind = token.GVAR
		if isDigit(l.cur()) || isBackrefPunct(l.cur()) {
			l.scanDigits(isDigit)
			if l.pos == start+1 {
				l.advance(1)
			}
			return token.Token{Kind: token.BACKREF, Start: start, End: l.pos}
		}
	}

	firstRune, width := l.decodeRune()
	upper := l.isUpper(firstRune)
	l.advance(width)
	for {
		r, w := l.decodeRune()
		if w == 0 || !l.isIdentCont(r) {
			break
		}
		l.advance(w)
	}
	if sigilKind == token.IDENT && (l.cur() == '?' || l.cur() == '!') && l.peek() != '=' {
		l.advance(1)
	} else if sigilKind == token.IDENT && (l.cur() == '?' || l.cur() == '!') && l.peek() == '=' && l.byteAt(2) == '=' {
		// `foo!==` etc: the `=` belongs to `==`, so the bang/question is
		// still a name suffix.
		l.advance(1)
	}

	text := l.src[start:l.pos]

	if sigilKind == token.IDENT && l.cur() == ':' && l.peek() != ':' && l.state.Any(Label) {
		// `name:` with no intervening space in a label-accepting
		// position is a single label token: hash key, keyword argument,
		// keyword parameter, pattern key. Keywords and constants label
		// too (`{if: 1}`, `{Foo: 1}`).
		l.advance(1)
		l.state = Beg | Labeled
		return token.Token{Kind: token.LABEL, Start: start, End: l.pos}
	}

	if sigilKind == token.IDENT {
		if kw, ok := token.Keywords[text]; ok && !l.state.Has(FName) && !l.state.Has(Dot) {
			if kw == token.KW_DO {
				if l.doLoopTop() {
					l.PopDoLoop()
					return token.Token{Kind: token.KW_DO_LOOP, Start: start, End: l.pos}
				}
			}
			return token.Token{Kind: kw, Start: start, End: l.pos}
		}
		if upper {
			l.internSpan(start)
			return token.Token{Kind: token.CONSTANT, Start: start, End: l.pos}
		}
		if l.state.Has(FName) {
			l.internSpan(start)
			return token.Token{Kind: token.METHODNAME, Start: start, End: l.pos}
		}
	}
	l.internSpan(start)
	return token.Token{Kind: sigilKind, Start: start, End: l.pos}
}

// internSpan registers the identifier spanning [start, pos) in the shared
// constant pool, so every name the source mentions has a stable id by the
// time the parser (or an AST emitter downstream) asks for one. The bytes
// point into the source buffer, so the entry is Shared-class.
func (l *Lexer) internSpan(start int) {
	if l.interner != nil {
		l.interner.InsertShared([]byte(l.src[start:l.pos]))
	}
}

func isBackrefPunct(b byte) bool {
	switch b {
	case '~', '&', '\'', '`', '+', '0':
		return true
	}
	return false
}
