package lexer

import (
	"strings"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/encoding"
)

// scanMagicComments implements spec.md §6: on construction, inspects the
// first comment block (or the second line, if the first is a shebang)
// for `coding:`/`encoding:`, `frozen_string_literal:`,
// `shareable_constant_value:`, and `warn_indent:` pragmas.
func (l *Lexer) scanMagicComments() {
	pos := 0
	lineNo := 0
	if strings.HasPrefix(l.src, "#!") {
		pos = l.lineEnd(0)
		lineNo = 1
		if l.shebangCallback != nil {
			line := l.src[2:pos]
			if idx := strings.Index(line, "ruby"); idx >= 0 {
				if sp := strings.IndexByte(line[idx:], ' '); sp >= 0 {
					l.shebangCallback(strings.TrimSpace(line[idx+sp:]))
				}
			}
		}
	}
	for lineNo < 10 && pos < l.end { // magic comments only appear near the top
		lineEnd := l.lineEnd(pos)
		line := l.src[pos:lineEnd]
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			break
		}
		l.applyMagicComment(trimmed[1:], pos)
		pos = lineEnd
		if pos < l.end && l.src[pos] == '\n' {
			pos++
		}
		lineNo++
	}
	l.magicEnd = pos
}

func (l *Lexer) lineEnd(from int) int {
	idx := strings.IndexByte(l.src[from:], '\n')
	if idx < 0 {
		return l.end
	}
	return from + idx
}

func (l *Lexer) applyMagicComment(body string, pos int) {
	body = strings.TrimSpace(body)
	for _, kv := range splitMagicPragmas(body) {
		key := strings.ToLower(strings.TrimSpace(kv.key))
		val := strings.TrimSpace(kv.val)
		switch key {
		case "coding", "encoding", "-*-":
			l.applyEncodingPragma(val, pos)
		case "frozen_string_literal":
			switch val {
			case "true":
				l.frozenStringLiteral = 1
			case "false":
				l.frozenStringLiteral = -1
			default:
				l.diags.Warnf(pos, pos+len(body), diag.ErrMagicCommentIgnored,
					"unknown frozen_string_literal value %q", val)
			}
		case "shareable_constant_value":
			switch val {
			case "none", "literal", "experimental_everything", "experimental_copy":
				l.shareableConstant = val
			default:
				l.diags.Warnf(pos, pos+len(body), diag.ErrMagicCommentIgnored,
					"unknown shareable_constant_value %q", val)
			}
		case "warn_indent":
			l.warnIndent = val == "true"
		}
	}
}

type pragma struct{ key, val string }

// splitMagicPragmas parses `key: value` or the Emacs-style
// `-*- key: value; key2: value2 -*-` form.
func splitMagicPragmas(body string) []pragma {
	body = strings.TrimPrefix(body, "-*-")
	body = strings.TrimSuffix(body, "-*-")
	var out []pragma
	for _, part := range strings.Split(body, ";") {
		idx := strings.IndexByte(part, ':')
		if idx < 0 {
			continue
		}
		out = append(out, pragma{key: part[:idx], val: part[idx+1:]})
	}
	return out
}

func (l *Lexer) applyEncodingPragma(name string, pos int) {
	if l.encodingLocked {
		return
	}
	rec, _, err := encoding.Resolve(name)
	if err != nil {
		l.diags.Warnf(pos, pos+len(name), diag.ErrMagicCommentIgnored, "%s", err.Error())
		return
	}
	l.encRecord = rec
	if l.encodingChanged != nil {
		l.encodingChanged(rec.Name())
	}
}
