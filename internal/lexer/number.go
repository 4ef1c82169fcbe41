package lexer

import (
	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/pkg/token"
)

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// scanNumber implements the INT/FLOAT/RATIONAL/IMAGINARY branch of
// spec.md §4.6's tokenizer: decimal, 0x/0b/0o/0-prefixed bases, `_`
// digit separators, and the r/i literal suffixes. A trailing underscore
// raises ErrInvalidNumericLiteral rather than aborting, per spec.md §7.
// A second decimal point or a digit outside the literal's base is not
// diagnosed here: the number ends before it.
func (l *Lexer) scanNumber() token.Token {
	start := l.pos
	kind := token.INT

	if l.cur() == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance(2)
		l.scanDigits(isHexDigit)
	} else if l.cur() == '0' && (l.peek() == 'b' || l.peek() == 'B') {
		l.advance(2)
		l.scanDigits(isBinDigit)
	} else if l.cur() == '0' && (l.peek() == 'o' || l.peek() == 'O') {
		l.advance(2)
		l.scanDigits(isOctDigit)
	} else {
		l.scanDigits(isDigit)
		if l.cur() == '.' && isDigit(l.peek()) {
			l.advance(1)
			l.scanDigits(isDigit)
			kind = token.FLOAT
		}
		if l.cur() == 'e' || l.cur() == 'E' {
			save := l.pos
			l.advance(1)
			if l.cur() == '+' || l.cur() == '-' {
				l.advance(1)
			}
			if isDigit(l.cur()) {
				l.scanDigits(isDigit)
				kind = token.FLOAT
			} else {
				l.pos = save
			}
		}
	}

	if l.cur() == 'r' {
		l.advance(1)
		kind = token.RATIONAL
	}
	if l.cur() == 'i' {
		l.advance(1)
		kind = token.IMAGINARY
	}

	if l.src[start] == '_' || (l.pos > start && l.src[l.pos-1] == '_') {
		l.diags.Errorf(start, l.pos, diag.ErrInvalidNumericLiteral, "trailing underscore in number")
	}
	return token.Token{Kind: kind, Start: start, End: l.pos}
}

func (l *Lexer) scanDigits(pred func(byte) bool) {
	sawDigit := false
	for {
		c := l.cur()
		if pred(c) {
			l.advance(1)
			sawDigit = true
			continue
		}
		if c == '_' && sawDigit {
			l.advance(1)
			continue
		}
		break
	}
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isBinDigit(b byte) bool { return b == '0' || b == '1' }
func isOctDigit(b byte) bool { return b >= '0' && b <= '7' }
