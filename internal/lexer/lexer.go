// Package lexer implements the tokenizer of spec.md §4.6 and its
// supporting structures: the byte cursor and newline index (§4.1), the
// lex-mode stack (§4.3), the lex-state bitfield (§3), heredoc
// interleaving (§4.5), and string/regexp/list literal scanning (§4.9).
//
// Grounded on go-dws's internal/lexer/lexer.go: a functional-options
// constructor, a rune-oriented readChar/peekChar pair, and UTF-8 BOM
// stripping on New.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/encoding"
	"github.com/cwbudde/rubycore/internal/intern"
	"github.com/cwbudde/rubycore/internal/lexmode"
	"github.com/cwbudde/rubycore/pkg/token"
)

// Version selects which Ruby-version-specific lexer/parser behavior to
// follow, per spec.md §6's `init` options and §9's first Open Question.
type Version int

const (
	CRUBY_3_3 Version = iota
	CRUBY_3_4
)

// Lexer is the tokenizer. It owns the byte cursor, newline index,
// lex-mode stack, lex-state bitfield, and the small nesting counters
// spec.md §3 lists as parser-state invariants.
type Lexer struct {
	src string

	pos int // current byte offset ("current" cursor, spec.md §4.1)
	end int

	newlines []int // byte offsets of every '\n' seen so far, in order

	state State
	modes *lexmode.Stack

	enclosureNesting int  // unmatched (, [, { currently open in code
	braceNesting     int  // code-level { within the current #{...}
	commandStart     bool
	doLoopStack      []bool
	lambdaNesting    int

	// tokenQueue holds heredoc-body tokens produced eagerly at the
	// opener; Next drains it before scanning. heredocResume is the
	// furthest byte consumed by heredoc bodies, so a second opener on
	// the same line starts its body after the first terminator and the
	// newline scan skips the consumed region.
	tokenQueue    []token.Token
	heredocResume int

	// stringValues maps a STRING_CONTENT token's start offset to its
	// decoded content (escapes applied, heredoc dedent applied), since
	// tokens themselves carry only spans.
	stringValues map[int]string

	dataStart int // byte offset past an `__END__` line, or -1
	startLine int // 1-based line number of the first source line

	interner *intern.Pool
	diags    *diag.List

	encRecord      encoding.Record
	encodingLocked bool
	version        Version

	frozenStringLiteral int // -1 disabled, 0 unset, 1 enabled
	warnIndent           bool
	shareableConstant    string

	shebangCallback func(switches string)
	encodingChanged func(name string)

	// magicEnd is the byte offset where the top-of-file magic-comment
	// block ended; comments past it carrying pragma keys warn as ignored.
	magicEnd int
}

// Option configures a Lexer at construction time, following go-dws's
// LexerOption/WithPreserveComments pattern.
type Option func(*Lexer)

// WithVersion selects the Ruby-version-specific behavior set (spec.md §6).
func WithVersion(v Version) Option {
	return func(l *Lexer) { l.version = v }
}

// WithEncodingLocked suppresses magic-comment encoding switches, per
// spec.md §4.1.
func WithEncodingLocked(locked bool) Option {
	return func(l *Lexer) { l.encodingLocked = locked }
}

// WithStartLine sets the 1-based line number the source's first line
// reports as, for sources embedded mid-file (eval, templates).
func WithStartLine(line int) Option {
	return func(l *Lexer) {
		if line >= 1 {
			l.startLine = line
		}
	}
}

// WithEncodingName sets the initial source encoding by name (spec.md §6's
// `initial encoding name` option). An unresolvable name leaves the
// default UTF-8 record in place and records a warning as the option is
// applied in New; magic comments may still override unless encoding is
// locked.
func WithEncodingName(name string) Option {
	return func(l *Lexer) {
		rec, _, err := encoding.Resolve(name)
		if err != nil {
			l.diags.Warnf(0, 0, diag.ErrMagicCommentIgnored, "%s", err.Error())
			return
		}
		l.encRecord = rec
	}
}

// WithFrozenStringLiteral sets the initial frozen_string_literal
// tri-state: pass 1 for enabled, -1 for disabled, 0 for unset (the magic
// comment may still override when unset).
func WithFrozenStringLiteral(v int) Option {
	return func(l *Lexer) { l.frozenStringLiteral = v }
}

// WithShebangCallback registers the callback spec.md §6 describes for
// forwarding `-switches` found on a `#!ruby` shebang line.
func WithShebangCallback(fn func(switches string)) Option {
	return func(l *Lexer) { l.shebangCallback = fn }
}

// WithEncodingChangedCallback registers the callback invoked whenever a
// magic comment changes the active source encoding.
func WithEncodingChangedCallback(fn func(name string)) Option {
	return func(l *Lexer) { l.encodingChanged = fn }
}

// New creates a Lexer over src, applying opts. Per spec.md §6, the
// caller supplies the interner and diagnostic list (the interner and
// diags parameters) so the parser and lexer share one pool and one error
// set across a single parse.
func New(src string, interner *intern.Pool, diags *diag.List, opts ...Option) *Lexer {
	if len(src) >= 3 && src[0] == 0xEF && src[1] == 0xBB && src[2] == 0xBF {
		src = src[3:]
	}
	l := &Lexer{
		src:              src,
		end:              len(src),
		modes:            lexmode.New(),
		state:            Beg,
		interner:         interner,
		diags:            diags,
		encRecord:        encoding.UTF8,
		frozenStringLiteral: 0,
		dataStart:           -1,
		startLine:           1,
		commandStart:        true,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.scanMagicComments()
	return l
}

// Pos returns the lexer's current byte offset.
func (l *Lexer) Pos() int { return l.pos }

// Version reports the Ruby-version behavior set this lexer was built
// with, for version-gated parser decisions (`it` parameters, indexer
// argument rules).
func (l *Lexer) Version() Version { return l.version }

// SourceText returns the raw source bytes spanning [start, end), for
// callers (the parser) that need a token's literal spelling rather than
// its decoded content.
func (l *Lexer) SourceText(start, end int) string { return l.src[start:end] }

// AtEOF reports whether the cursor has consumed the whole source.
func (l *Lexer) AtEOF() bool { return l.pos >= l.end }

// LexState returns the current lex-state bitfield, for callers (the
// parser) that need to query it directly around ambiguous constructs.
func (l *Lexer) LexState() State { return l.state }

// SetLexState lets a driver force a specific state before asking for the
// next token, for callers replaying a token stream from a known mid-file
// position. The tokenizer maintains its own transitions otherwise.
func (l *Lexer) SetLexState(s State) { l.state = s }

// Modes exposes the lex-mode stack so the parser's string/pattern
// handling can push an embedded_expression frame around `#{ ... }`.
func (l *Lexer) Modes() *lexmode.Stack { return l.modes }

// PushDoLoop and PopDoLoop bracket the predicate of while/until/for, per
// spec.md §4.6's `do`-vs-`do_loop` rule and §9's second Open Question.
func (l *Lexer) PushDoLoop(v bool) { l.doLoopStack = append(l.doLoopStack, v) }
func (l *Lexer) PopDoLoop() {
	if len(l.doLoopStack) > 0 {
		l.doLoopStack = l.doLoopStack[:len(l.doLoopStack)-1]
	}
}
func (l *Lexer) doLoopTop() bool {
	if len(l.doLoopStack) == 0 {
		return false
	}
	return l.doLoopStack[len(l.doLoopStack)-1]
}

// byteAt returns the byte at pos+offset, or 0 past the end.
func (l *Lexer) byteAt(offset int) byte {
	p := l.pos + offset
	if p < 0 || p >= l.end {
		return 0
	}
	return l.src[p]
}

func (l *Lexer) cur() byte  { return l.byteAt(0) }
func (l *Lexer) peek() byte { return l.byteAt(1) }

// advance consumes n bytes, recording any newline crossed exactly once
// and never on rewinds, per spec.md §4.1.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < l.end; i++ {
		if l.src[l.pos] == '\n' {
			l.noteNewline(l.pos)
		}
		l.pos++
	}
}

// noteNewline appends offset to the newline index, keeping it sorted and
// duplicate-free. Heredoc bodies record their newlines ahead of the
// cursor (which stays on the opener's line), so when the cursor later
// crosses a newline the body already recorded, the append is skipped
// rather than re-ordered.
func (l *Lexer) noteNewline(offset int) {
	if n := len(l.newlines); n > 0 && l.newlines[n-1] >= offset {
		return
	}
	l.newlines = append(l.newlines, offset)
}

// recordNewlinesIn appends every '\n' offset within [from, to) to the
// newline index without moving the cursor, used by heredoc body scanning
// which jumps the cursor directly to the line past the terminator rather
// than advancing byte by byte.
func (l *Lexer) recordNewlinesIn(from, to int) {
	for i := from; i < to && i < l.end; i++ {
		if l.src[i] == '\n' {
			l.noteNewline(i)
		}
	}
}

// decodeRune reads one rune at the current position without advancing.
func (l *Lexer) decodeRune() (rune, int) {
	if l.pos >= l.end {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[l.pos:])
}

// LineCol converts a byte offset into a 1-based line and column (rune
// count from line start), via the newline index (spec.md §4.1, tested
// by spec.md §8 item 4). It is O(log n) via binary search.
func (l *Lexer) LineCol(offset int) (line, col int) {
	lo, hi := 0, len(l.newlines)
	for lo < hi {
		mid := (lo + hi) / 2
		if l.newlines[mid] < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line = lo + l.startLine
	lineStart := 0
	if lo > 0 {
		lineStart = l.newlines[lo-1] + 1
	}
	if lineStart > offset {
		lineStart = offset
	}
	col = utf8.RuneCountInString(l.src[lineStart:offset]) + 1
	return
}

// isIdentStart/isIdentCont classify bytes as identifier-starting or
// identifier-continuing characters, dispatching to the active encoding
// Record's Unicode-aware classification for bytes ≥ 0x80 (spec.md §4.1:
// "the core holds a pointer to an encoding record and calls through
// it").
func (l *Lexer) isIdentStart(r rune) bool {
	if r == '_' {
		return true
	}
	if r < 0x80 {
		return unicode.IsLetter(r)
	}
	return l.encRecord.AlphaChar(r)
}

func (l *Lexer) isIdentCont(r rune) bool {
	if r == '_' {
		return true
	}
	if r >= '0' && r <= '9' {
		return true
	}
	if r < 0x80 {
		return unicode.IsLetter(r)
	}
	return l.encRecord.AlnumChar(r)
}

func (l *Lexer) isUpper(r rune) bool {
	if r < 0x80 {
		return r >= 'A' && r <= 'Z'
	}
	return l.encRecord.IsUpperChar(r)
}

// setStringValue records the decoded content for the STRING_CONTENT
// token starting at start.
func (l *Lexer) setStringValue(start int, value string) {
	if l.stringValues == nil {
		l.stringValues = make(map[int]string)
	}
	l.stringValues[start] = value
}

// StringValue returns the decoded content of the STRING_CONTENT token
// spanning [start, end), falling back to the raw source slice when no
// decoded form was recorded (regexp bodies keep their backslash
// sequences for the regexp engine).
func (l *Lexer) StringValue(start, end int) string {
	if v, ok := l.stringValues[start]; ok {
		return v
	}
	return l.src[start:end]
}

// ShareableConstant returns the value of the source's
// `shareable_constant_value:` pragma, or "" when none was seen. The
// parser copies it onto the top-level scope.
func (l *Lexer) ShareableConstant() string { return l.shareableConstant }

// FrozenStringLiteral reports the resolved frozen-string-literal
// tri-state after options and magic comments: 1 enabled, -1 disabled,
// 0 unset.
func (l *Lexer) FrozenStringLiteral() int { return l.frozenStringLiteral }

// DataRange returns the byte span of the `__END__` DATA section, or
// ok=false when the source has none (spec.md §4.6).
func (l *Lexer) DataRange() (start, end int, ok bool) {
	if l.dataStart < 0 {
		return 0, 0, false
	}
	return l.dataStart, l.end, true
}

// Errors/Warnings expose the accumulated diagnostic list, mirroring
// go-dws's Lexer.Errors().
func (l *Lexer) Errors() []diag.Diagnostic   { return l.diags.Errors() }
func (l *Lexer) Warnings() []diag.Diagnostic { return l.diags.Warnings() }
