package lexer

import (
	"bytes"
	"strings"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/escape"
	"github.com/cwbudde/rubycore/internal/lexmode"
	"github.com/cwbudde/rubycore/pkg/token"
)

// scanHeredocOpener implements spec.md §4.5: `<<IDENT`, `<<-IDENT`,
// `<<~IDENT`, `<<"IDENT"`, `<<'IDENT'`, `` <<`IDENT` ``. The body lives
// past the end of the opener's line; it is tokenized immediately after
// the opener (content, then end) with the cursor left in place, so the
// rest of the opener's line — which may hold more code, including more
// heredoc openers — resumes once the literal's tokens are consumed.
// heredocResume remembers how far bodies have been consumed, so a second
// opener on the same line starts its body after the first terminator and
// the newline scan can jump past all consumed bodies.
func (l *Lexer) scanHeredocOpener() token.Token {
	start := l.pos
	l.advance(2) // consume "<<"

	indent := lexmode.IndentNone
	if l.cur() == '-' {
		indent = lexmode.IndentDash
		l.advance(1)
	} else if l.cur() == '~' {
		indent = lexmode.IndentTilde
		l.advance(1)
	}

	quote := lexmode.QuoteDouble
	var closer byte
	switch l.cur() {
	case '\'':
		quote, closer = lexmode.QuoteSingle, '\''
		l.advance(1)
	case '"':
		quote, closer = lexmode.QuoteDouble, '"'
		l.advance(1)
	case '`':
		quote, closer = lexmode.QuoteBack, '`'
		l.advance(1)
	}

	identStart := l.pos
	for {
		r, w := l.decodeRune()
		if w == 0 || !l.isIdentCont(r) {
			break
		}
		l.advance(w)
	}
	identLen := l.pos - identStart
	if closer != 0 {
		if l.cur() == closer {
			l.advance(1)
		} else {
			l.diags.Errorf(start, l.pos, diag.ErrUnterminatedHeredoc, "unterminated heredoc identifier quote")
		}
	}

	bodyStart := l.lineEnd(l.pos)
	if bodyStart < l.end {
		bodyStart++ // past the '\n'
	}
	if l.heredocResume > bodyStart {
		bodyStart = l.heredocResume
	}
	l.modes.Push(lexmode.NewHeredoc(identStart, identLen, quote, indent, bodyStart))
	return token.Token{Kind: token.STRING_BEGIN, Start: start, End: l.pos}
}

// scanHeredocBody runs once, immediately after the opener token, while
// the heredoc frame is the top mode. It tokenizes the whole body —
// per-line content tokens, embedded-expression tokens for `#{...}` when
// the quote style allows interpolation, and the closing STRING_END over
// the terminator line — returning the first token and queueing the
// rest. The byte cursor is restored to the opener's line afterward, so
// code there resumes; scanNewline later jumps past the consumed body.
func (l *Lexer) scanHeredocBody() token.Token {
	m := *l.modes.Current()
	l.modes.Pop()
	ident := l.src[m.IdentStart : m.IdentStart+m.IdentLength]

	// The opener line's newline precedes the body in byte order but the
	// cursor hasn't crossed it yet; record it first so the index stays
	// sorted once the body's newlines go in.
	if m.NextStart > 0 && m.NextStart-1 < l.end && l.src[m.NextStart-1] == '\n' {
		l.noteNewline(m.NextStart - 1)
	}

	lines, termStart, termLen := l.collectHeredocLines(m.NextStart, ident, m.HeredocIndent != lexmode.IndentNone)
	common := 0
	if m.HeredocIndent == lexmode.IndentTilde {
		common = commonHeredocWhitespace(lines)
	}

	returnPos := l.pos
	toks := l.heredocBodyTokens(m.NextStart, termStart, common, m.Interpolation)
	l.recordNewlinesIn(termStart, termStart+termLen)
	toks = append(toks, token.Token{Kind: token.STRING_END, Start: termStart, End: termStart + termLen})

	l.heredocResume = termStart + termLen
	l.pos = returnPos
	l.state = End

	l.tokenQueue = append(l.tokenQueue, toks[1:]...)
	return toks[0]
}

// heredocBodyTokens scans the body region [bodyStart, termStart),
// emitting one STRING_CONTENT per line (after stripping up to common
// leading whitespace for `<<~`), with `#{...}` regions sub-lexed into
// EMBEXPR token runs in place. Escape sequences decode into the
// token's recorded string value; spans always cover the raw source.
func (l *Lexer) heredocBodyTokens(bodyStart, termStart, common int, interpolation bool) []token.Token {
	var toks []token.Token
	var out bytes.Buffer
	pos := bodyStart
	runStart := pos
	atLineStart := true

	flush := func(end int) {
		if end > runStart {
			l.setStringValue(runStart, out.String())
			toks = append(toks, token.Token{Kind: token.STRING_CONTENT, Start: runStart, End: end})
		}
		out.Reset()
	}

	for pos < termStart {
		if atLineStart {
			atLineStart = false
			if common > 0 {
				// strip whole whitespace characters while their visual
				// width fits under common; a tab that would cross the
				// boundary stays
				width := 0
				for pos < termStart {
					cw := 0
					switch l.src[pos] {
					case ' ':
						cw = 1
					case '\t':
						cw = 8 - width%8
					}
					if cw == 0 || width+cw > common {
						break
					}
					width += cw
					pos++
				}
				runStart = pos
			}
		}
		c := l.src[pos]
		if interpolation && c == '#' && pos+1 < termStart && l.src[pos+1] == '{' {
			flush(pos)
			toks = append(toks, token.Token{Kind: token.EMBEXPR_BEGIN, Start: pos, End: pos + 2})
			l.modes.Push(lexmode.Mode{Kind: lexmode.EmbeddedExpression, SavedBraceNesting: l.braceNesting})
			l.braceNesting = 0
			l.pos = pos + 2
			for {
				t := l.Next()
				toks = append(toks, t)
				if t.Kind == token.EMBEXPR_END || t.Kind == token.EOF {
					break
				}
			}
			pos = l.pos
			runStart = pos
			continue
		}
		if interpolation && c == '\\' && pos+1 < l.end {
			n, _, err := escape.Read([]byte(l.src[pos+1:]), &out, nil, 0)
			if err != nil {
				l.diags.Errorf(pos, pos+1+n, diag.ErrInvalidEscape, "%s", err.Error())
			}
			l.recordNewlinesIn(pos, pos+1+n)
			pos += 1 + n
			continue
		}
		out.WriteByte(c)
		if c == '\n' {
			l.noteNewline(pos)
			pos++
			flush(pos)
			runStart = pos
			atLineStart = true
			continue
		}
		pos++
	}
	flush(pos)
	return toks
}

// collectHeredocLines scans from `start` to the line equal to `ident`
// (after stripping leading whitespace when indent is allowed),
// returning the body lines (each including its trailing newline), the
// byte offset where the terminator line begins, and the terminator
// line's consumed length.
func (l *Lexer) collectHeredocLines(start int, ident string, allowIndent bool) (lines []string, termStart, termLen int) {
	pos := start
	for pos < l.end {
		end := l.lineEnd(pos)
		rawLine := l.src[pos:end]
		checkLine := rawLine
		if allowIndent {
			checkLine = strings.TrimLeft(rawLine, " \t")
		}
		if checkLine == ident {
			termStart = pos
			termLen = end - pos
			if end < l.end {
				termLen++
			}
			return lines, termStart, termLen
		}
		withNL := rawLine
		if end < l.end {
			withNL += "\n"
		}
		lines = append(lines, withNL)
		pos = end
		if pos < l.end {
			pos++
		}
	}
	l.diags.Errorf(start, l.end, diag.ErrUnterminatedHeredoc, "can't find string %q anywhere before EOF", ident)
	return lines, l.end, 0
}

// commonHeredocWhitespace implements `<<~`'s shared-minimum-indent
// accumulator: the shortest leading-whitespace width across all
// non-blank body lines, which every line then loses at token-emission
// time. Widths are visual columns, tabs expanding to the next multiple
// of 8 (spec.md §4.5).
func commonHeredocWhitespace(lines []string) int {
	common := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "\n" || trimmed == "" {
			continue
		}
		w := heredocIndentWidth(line)
		if common == -1 || w < common {
			common = w
		}
	}
	if common < 0 {
		return 0
	}
	return common
}

// heredocIndentWidth measures line's leading whitespace in visual
// columns, tabs advancing to the next multiple of 8.
func heredocIndentWidth(line string) int {
	w := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			w++
		case '\t':
			w += 8 - w%8
		default:
			return w
		}
	}
	return w
}
