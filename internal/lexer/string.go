package lexer

import (
	"bytes"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/escape"
	"github.com/cwbudde/rubycore/internal/lexmode"
	"github.com/cwbudde/rubycore/pkg/token"
)

// pairedOpener maps an opening delimiter to its closing counterpart for
// the %-literal family (%w(...), %q[...], %r{...}, ...). Delimiters that
// aren't in this table are used as both opener and terminator.
var pairedOpener = map[byte]byte{
	'(': ')', '[': ']', '{': '}', '<': '>',
}

// pushQuoted installs a string/list/regexp mode frame for a `"`, `'`,
// `%`-family, or `/` regexp opener, per spec.md §4.3/§4.9.
func (l *Lexer) pushQuoted(kind lexmode.Kind, opener byte, interpolation, labelAllowed bool) {
	term := opener
	incr := byte(0)
	if close, ok := pairedOpener[opener]; ok {
		term = close
		incr = opener
	}
	switch kind {
	case lexmode.ListMode:
		l.modes.Push(lexmode.NewList(term, incr, interpolation))
	case lexmode.RegexpMode:
		l.modes.Push(lexmode.NewRegexp(term, incr))
	default:
		l.modes.Push(lexmode.NewString(term, incr, interpolation, labelAllowed))
	}
}

// scanQuotedLiteral is entered once at the `"`/`'`/`` ` `` opener: it
// pushes the mode frame and returns STRING_BEGIN. Subsequent calls to
// Next while that mode is current are routed to scanStringContent.
func (l *Lexer) scanQuotedLiteral() token.Token {
	start := l.pos
	opener := l.cur()
	l.advance(1)
	interpolation := opener != '\''
	l.pushQuoted(lexmode.StringMode, opener, interpolation, false)
	return token.Token{Kind: token.STRING_BEGIN, Start: start, End: l.pos}
}

// scanStringContent implements spec.md §4.9's run loop inside a
// string/list/regexp mode: accumulate literal bytes up to the next
// breakpoint (terminator, incrementor, backslash, `#{`, or EOF),
// decoding escapes via internal/escape as they're found, and emitting
// STRING_CONTENT for the run or a structural token when a breakpoint
// with special meaning is hit.
func (l *Lexer) scanStringContent() token.Token {
	m := l.modes.Current()
	start := l.pos

	if l.pos >= l.end {
		l.diags.Errorf(start, l.pos, diag.ErrUnterminatedString, "unterminated string meets end of file")
		l.modes.Pop()
		return token.Token{Kind: token.EOF, Start: l.pos, End: l.pos}
	}

	if l.cur() == m.Terminator && m.Nesting == 0 {
		l.advance(1)
		popped := *m
		l.modes.Pop()
		l.state = End
		if popped.ForcedUTF8 && popped.ForcedBinary {
			l.diags.Errorf(start, l.pos, diag.ErrMixedEscapeEncoding,
				"UTF-8 character escape mixed with binary escape in the same literal")
		}
		if popped.Kind == lexmode.RegexpMode {
			if popped.ForcedUTF8 && l.encRecord.ASCIIOnly() {
				l.diags.Errorf(start, l.pos, diag.ErrRegexpEncodingConflict,
					"regexp with a UTF-8 escape under a %s source encoding", l.encRecord.Name())
			}
			end := token.Token{Kind: token.REGEXP_END, Start: start, End: l.pos}
			if isLetter(l.cur()) {
				l.tokenQueue = append(l.tokenQueue, l.scanRegexpOptions())
			}
			return end
		}
		return token.Token{Kind: token.STRING_END, Start: start, End: l.pos}
	}
	if m.Incrementor != 0 && l.cur() == m.Incrementor {
		m.Nesting++
		l.advance(1)
		return l.scanStringContent()
	}
	if m.Terminator != m.Incrementor && l.cur() == m.Terminator && m.Nesting > 0 {
		m.Nesting--
		l.advance(1)
		return l.scanStringContent()
	}
	if m.Interpolation && l.cur() == '#' && l.peek() == '{' {
		l.advance(2)
		l.modes.Push(lexmode.Mode{Kind: lexmode.EmbeddedExpression, SavedBraceNesting: l.braceNesting})
		l.braceNesting = 0
		return token.Token{Kind: token.EMBEXPR_BEGIN, Start: start, End: l.pos}
	}
	if m.Interpolation && l.cur() == '#' && (l.peek() == '@' || l.peek() == '$') {
		l.advance(1)
		l.modes.Push(lexmode.Mode{Kind: lexmode.EmbeddedVariable})
		return token.Token{Kind: token.EMBVAR, Start: start, End: l.pos}
	}
	if m.Kind == lexmode.ListMode && (l.cur() == ' ' || l.cur() == '\t' || l.cur() == '\n') {
		for l.cur() == ' ' || l.cur() == '\t' || l.cur() == '\n' {
			l.advance(1)
		}
		return token.Token{Kind: token.WORDS_SEP, Start: start, End: l.pos}
	}

	var out, srcOut bytes.Buffer
	for {
		c := l.cur()
		if l.pos >= l.end {
			break // the next scanStringContent call reports the unterminated literal
		}
		if c == m.Terminator || (m.Incrementor != 0 && c == m.Incrementor) {
			break
		}
		if m.Kind == lexmode.ListMode && (c == ' ' || c == '\t' || c == '\n') {
			break
		}
		if m.Interpolation && c == '#' && (l.peek() == '{' || l.peek() == '@' || l.peek() == '$') {
			break
		}
		if c == '\\' {
			l.advance(1)
			flags := escape.Flags(0)
			if !m.Interpolation {
				flags |= escape.Single
			}
			if m.Kind == lexmode.RegexpMode {
				flags |= escape.Regexp
			}
			rest := []byte(l.src[l.pos:l.end])
			n, res, err := escape.Read(rest, &out, &srcOut, flags)
			if err != nil {
				l.diags.Errorf(l.pos, l.pos+n, diag.ErrInvalidEscape, "%s", err.Error())
			}
			if res.ForcesUTF8 {
				m.ForcedUTF8 = true
			}
			if res.ForcesBinary {
				m.ForcedBinary = true
			}
			l.advance(n)
			continue
		}
		out.WriteByte(c)
		l.advance(1)
	}
	if m.Kind != lexmode.RegexpMode {
		l.setStringValue(start, out.String())
	}
	return token.Token{Kind: token.STRING_CONTENT, Start: start, End: l.pos}
}

// scanPercentLiteral implements the `%`, `%q`, `%Q`, `%w`, `%W`, `%i`,
// `%I`, `%r`, `%s` family of spec.md §4.9.
func (l *Lexer) scanPercentLiteral() token.Token {
	start := l.pos
	l.advance(1) // consume '%'
	kind := byte('Q')
	if isLetter(l.cur()) {
		kind = l.cur()
		l.advance(1)
	}
	if l.pos >= l.end {
		l.diags.Errorf(start, l.pos, diag.ErrInvalidPercentDelimiter, "missing %%-literal delimiter")
		return token.Token{Kind: token.ILLEGAL, Start: start, End: l.pos}
	}
	opener := l.cur()
	l.advance(1)
	switch kind {
	case 'w', 'W':
		l.pushQuoted(lexmode.ListMode, opener, kind == 'W', false)
		return token.Token{Kind: token.WORDS_BEGIN, Start: start, End: l.pos}
	case 'i', 'I':
		l.pushQuoted(lexmode.ListMode, opener, kind == 'I', false)
		return token.Token{Kind: token.SYMBOLS_BEGIN, Start: start, End: l.pos}
	case 'r':
		l.pushQuoted(lexmode.RegexpMode, opener, true, false)
		return token.Token{Kind: token.REGEXP_BEGIN, Start: start, End: l.pos}
	case 's':
		l.pushQuoted(lexmode.StringMode, opener, false, false)
		return token.Token{Kind: token.SYMBEG, Start: start, End: l.pos}
	case 'q':
		l.pushQuoted(lexmode.StringMode, opener, false, false)
	default: // 'Q' or bare %( ... )
		l.pushQuoted(lexmode.StringMode, opener, true, false)
	}
	return token.Token{Kind: token.STRING_BEGIN, Start: start, End: l.pos}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// scanRegexpLiteral handles a bare `/.../` opener, disambiguated from
// division by the caller (spec.md §4.6's slash rule).
func (l *Lexer) scanRegexpLiteral() token.Token {
	start := l.pos
	l.advance(1)
	l.pushQuoted(lexmode.RegexpMode, '/', true, false)
	return token.Token{Kind: token.REGEXP_BEGIN, Start: start, End: l.pos}
}

// scanRegexpOptions reads the trailing flag letters (i, m, x, o, u, e,
// s, n) immediately after a regexp's closing delimiter.
func (l *Lexer) scanRegexpOptions() token.Token {
	start := l.pos
	for isLetter(l.cur()) {
		l.advance(1)
	}
	return token.Token{Kind: token.REGEXP_OPT, Start: start, End: l.pos}
}
