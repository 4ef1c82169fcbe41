package lexer

import (
	"strings"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/lexmode"
	"github.com/cwbudde/rubycore/pkg/token"
)

// Next scans and returns the next token, implementing spec.md §4.6's
// dispatch table: whitespace/comment skipping, newline classification,
// number/identifier/string/percent-literal/regexp/heredoc sub-scanners,
// and the unary-vs-binary disambiguations for `* ** & + - / % : { do`.
//
// Grounded on go-dws's internal/lexer/lexer.go NextToken dispatcher: a
// big switch over the current byte after a shared whitespace-skip,
// updating lex-state after every token per spec.md §3's state machine.
func (l *Lexer) Next() token.Token {
	if len(l.tokenQueue) > 0 {
		t := l.tokenQueue[0]
		l.tokenQueue = l.tokenQueue[1:]
		return t
	}

	if l.modes.Current().Kind != lexmode.Default {
		return l.nextInMode()
	}

	l.skipInterTokenSpace()

	if l.pos >= l.end {
		return token.Token{Kind: token.EOF, Start: l.pos, End: l.pos}
	}

	if l.atLineStart() && hasPrefixAt(l.src, l.pos, "__END__") && isLineBoundary(l.src, l.pos+7) {
		tok := token.Token{Kind: token.EOF, Start: l.pos, End: l.end}
		data := l.pos + 7
		if data < l.end && l.src[data] == '\r' {
			data++
		}
		if data < l.end && l.src[data] == '\n' {
			data++
		}
		l.dataStart = data
		l.pos = l.end
		return tok
	}

	c := l.cur()
	switch {
	case c == '\n':
		return l.scanNewline()
	case c == '#':
		l.skipComment()
		return l.Next()
	case isDigit(c):
		tok := l.scanNumber()
		l.state = End
		return tok
	case c == '"', c == '\'', c == '`':
		return l.scanQuotedLiteral()
	case c == '@', c == '$':
		tok := l.scanIdentifier()
		l.state = End
		return tok
	case isIdentByteStart(c):
		prev := l.state
		tok := l.scanIdentifier()
		l.afterIdentState(prev, tok)
		return tok
	}

	return l.scanOperatorOrPunct()
}

// nextInMode routes to the content scanner for whichever non-default
// mode is current, and pops back to dispatch ordinary tokens once an
// embedded_expression/embedded_variable frame is active (those frames
// hold *code*, not string content).
func (l *Lexer) nextInMode() token.Token {
	m := l.modes.Current()
	switch m.Kind {
	case lexmode.EmbeddedVariable:
		// One-shot frame: `#@foo`, `#@@foo`, `#$foo` embed exactly one
		// variable token, then string content resumes.
		l.modes.Pop()
		return l.scanIdentifier()
	case lexmode.EmbeddedExpression:
		if l.cur() == '}' && l.braceNesting == 0 {
			start := l.pos
			l.advance(1)
			l.braceNesting = m.SavedBraceNesting
			l.modes.Pop()
			return token.Token{Kind: token.EMBEXPR_END, Start: start, End: l.pos}
		}
		l.skipInterTokenSpace()
		if l.pos >= l.end {
			return token.Token{Kind: token.EOF, Start: l.pos, End: l.pos}
		}
		if l.cur() == '\n' {
			return l.scanNewline()
		}
		if l.cur() == '{' {
			l.braceNesting++
		}
		if l.cur() == '}' {
			l.braceNesting--
		}
		return l.scanDefaultToken()
	case lexmode.HeredocMode:
		return l.scanHeredocBody()
	default:
		return l.scanStringContent()
	}
}

// scanDefaultToken runs the same dispatch Next() does outside any mode,
// used for tokens scanned while inside an embedded_expression frame.
func (l *Lexer) scanDefaultToken() token.Token {
	c := l.cur()
	switch {
	case isDigit(c):
		tok := l.scanNumber()
		l.state = End
		return tok
	case c == '"', c == '\'', c == '`':
		return l.scanQuotedLiteral()
	case c == '@', c == '$':
		tok := l.scanIdentifier()
		l.state = End
		return tok
	case isIdentByteStart(c):
		prev := l.state
		tok := l.scanIdentifier()
		l.afterIdentState(prev, tok)
		return tok
	}
	return l.scanOperatorOrPunct()
}

func isIdentByteStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

// afterIdentState sets the lex-state that follows an identifier/keyword
// token, per spec.md §3's per-token-kind transition table. prev is the
// state the identifier itself was lexed under: an identifier read at an
// expression beginning (or at statement start) is a potential command,
// which primes CmdArg.
func (l *Lexer) afterIdentState(prev State, tok token.Token) {
	cmdStart := l.commandStart
	l.commandStart = false
	switch tok.Kind {
	case token.LABEL:
		// a label's value follows, possibly on the next line
		l.state = Beg | Labeled
	case token.KW_DEF:
		l.state = FName
	case token.KW_ALIAS, token.KW_UNDEF:
		l.state = FName | FItem
	case token.KW_CLASS, token.KW_MODULE:
		l.state = Class
	case token.KW_RETURN, token.KW_BREAK, token.KW_NEXT:
		l.state = Mid
	case token.KW_IF, token.KW_UNLESS, token.KW_WHILE, token.KW_UNTIL, token.KW_AND, token.KW_OR, token.KW_NOT:
		l.state = Beg
	default:
		if tok.Kind.IsKeyword() {
			l.state = Beg
		} else {
			l.state = End | Arg | Label
			if cmdStart || prev.Any(Beg|Mid) {
				l.state |= CmdArg
			}
		}
	}
}

// atLineStart reports whether the cursor sits at column 0.
func (l *Lexer) atLineStart() bool {
	return l.pos == 0 || l.src[l.pos-1] == '\n'
}

func hasPrefixAt(s string, pos int, prefix string) bool {
	if pos+len(prefix) > len(s) {
		return false
	}
	return s[pos:pos+len(prefix)] == prefix
}

func isLineBoundary(s string, pos int) bool {
	return pos >= len(s) || s[pos] == '\n' || s[pos] == '\r'
}

// skipInterTokenSpace consumes spaces, tabs, and backslash-newline
// continuations, but not bare newlines (those are significant tokens).
func (l *Lexer) skipInterTokenSpace() {
	for l.pos < l.end {
		switch l.src[l.pos] {
		case ' ', '\t', '\v', '\f':
			l.advance(1)
		case '\r':
			if l.peek() != '\n' {
				l.diags.Warnf(l.pos, l.pos+1, diag.ErrCarriageReturn,
					"encountered \\r in middle of line, treated as a mere space")
			}
			l.advance(1)
		case '\\':
			if l.peek() == '\n' {
				l.advance(2)
				continue
			}
			return
		default:
			return
		}
	}
}

// skipComment consumes a `#` line comment up to (not including) the
// newline. `=begin`/`=end` block comments are handled where `=` is
// dispatched (scanEquals), since they only open at column 0.
func (l *Lexer) skipComment() {
	start := l.pos
	for l.pos < l.end && l.src[l.pos] != '\n' {
		l.advance(1)
	}
	if start < l.magicEnd {
		return // part of the top-of-file block scanMagicComments handled
	}
	body := l.src[start:l.pos]
	for _, key := range []string{"encoding:", "coding:", "frozen_string_literal:", "shareable_constant_value:"} {
		if strings.Contains(body, key) {
			l.diags.Warnf(start, l.pos, diag.ErrMagicCommentIgnored,
				"`%s` is ignored after any tokens", strings.TrimSuffix(key, ":"))
			return
		}
	}
}

// scanNewline classifies a newline as ignored (line continuation, per
// lex-state, or a leading-dot method chain) or a real NEWLINE statement
// separator, jumping past any heredoc bodies already consumed below
// this line.
func (l *Lexer) scanNewline() token.Token {
	start := l.pos
	l.advance(1)
	end := l.pos
	if l.heredocResume > l.pos {
		// Heredoc bodies below this line were already consumed as
		// tokens at their openers; their newlines are recorded, so
		// jump rather than advance.
		l.pos = l.heredocResume
	}
	if l.state.IgnoredNewline() {
		return l.Next()
	}
	if l.state.PatternIgnoredNewline() {
		// ARG|LABELED newlines are pattern-ignored: unconditionally
		// right after a label (its value follows on the next line), and
		// in ARG position when the next line continues a method chain.
		if l.state.Has(Labeled) || l.chainContinuationAhead() {
			return l.Next()
		}
	} else if l.chainContinuationAhead() {
		// the next line starts with `.`/`&.`: the newline joins a method
		// chain instead of ending the statement
		return l.Next()
	}
	l.state = Beg
	l.commandStart = true
	return token.Token{Kind: token.NEWLINE, Start: start, End: end}
}

// chainContinuationAhead looks past whitespace, comments, and blank
// lines for a leading `.` (not `..`) or `&.`.
func (l *Lexer) chainContinuationAhead() bool {
	i := l.pos
	for i < l.end {
		switch l.src[i] {
		case ' ', '\t', '\r', '\n':
			i++
		case '#':
			for i < l.end && l.src[i] != '\n' {
				i++
			}
		case '.':
			return i+1 >= l.end || l.src[i+1] != '.'
		case '&':
			return i+1 < l.end && l.src[i+1] == '.'
		default:
			return false
		}
	}
	return false
}
