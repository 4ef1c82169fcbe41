// Package escape implements the escape-sequence decoder of spec.md §4.4:
// a single entry point that decodes \xNN, \uNNNN, \u{...}, \cX, \M-X,
// \C-X, octal, and simple escapes, honoring the context flags that
// change what's legal (string vs. symbol vs. regexp vs. char literal).
package escape

import (
	"bytes"
	"fmt"
)

// Flags selects which escape rules are active, per spec.md §4.4.
type Flags uint8

const (
	// Control masks bit 0x60 off the decoded byte (\cX, \C-X).
	Control Flags = 1 << iota
	// Meta sets bit 0x80 on the decoded byte (\M-X).
	Meta
	// Single means this is a single-quoted/heredoc-SINGLE body: only
	// \\ and \<quote> are special, everything else (including \n as two
	// literal bytes) passes through unchanged.
	Single
	// Regexp means the decoder must also populate a parallel "source"
	// buffer preserving the original backslash sequence for forwarding
	// to the regexp engine.
	Regexp
)

// Result carries what one escape_read call decoded. ForcesUTF8 is set by
// a \u escape with a non-ASCII code point; ForcesBinary by a hex/octal
// escape producing a byte above 0x7F. A literal accumulating both has
// mixed explicit encodings, which the lexer reports (spec.md §4.1).
type Result struct {
	ForcesUTF8   bool
	ForcesBinary bool
}

// Read decodes exactly one escape sequence from src (which must begin
// just after the backslash that introduced it) and appends the decoded
// bytes to out. If flags&Regexp is set, the original (possibly
// normalized) escape spelling is also appended to srcOut. It returns the
// number of bytes of src consumed and a non-nil error on malformed
// input.
func Read(src []byte, out *bytes.Buffer, srcOut *bytes.Buffer, flags Flags) (consumed int, res Result, err error) {
	if len(src) == 0 {
		return 0, Result{}, fmt.Errorf("escape: unterminated escape sequence")
	}
	echoSource := func(n int) {
		if flags&Regexp != 0 && srcOut != nil {
			srcOut.WriteByte('\\')
			srcOut.Write(src[:n])
		}
	}

	c := src[0]
	if flags&Single != 0 {
		// Only \\ and \' decode; everything else (including \n as two
		// literal bytes) keeps its backslash.
		if c != '\\' && c != '\'' {
			out.WriteByte('\\')
		}
		out.WriteByte(c)
		echoSource(1)
		return 1, Result{}, nil
	}

	if flags&Regexp != 0 && srcOut != nil && bytes.IndexByte([]byte("ntrabefsv0"), c) >= 0 {
		// Single-letter escapes keep their source spelling in srcOut.
		consumed, res, err = Read(src, out, nil, flags)
		echoSource(consumed)
		return consumed, res, err
	}

	switch c {
	case 'n':
		return emitByte(out, srcOut, flags, '\n', 1)
	case 't':
		return emitByte(out, srcOut, flags, '\t', 1)
	case 'r':
		return emitByte(out, srcOut, flags, '\r', 1)
	case 'a':
		return emitByte(out, srcOut, flags, '\a', 1)
	case 'b':
		return emitByte(out, srcOut, flags, '\b', 1)
	case 'e':
		return emitByte(out, srcOut, flags, 0x1b, 1)
	case 'f':
		return emitByte(out, srcOut, flags, '\f', 1)
	case 's':
		return emitByte(out, srcOut, flags, ' ', 1)
	case 'v':
		return emitByte(out, srcOut, flags, '\v', 1)
	case '0':
		return emitByte(out, srcOut, flags, 0, 1)
	case '\\':
		return emitByte(out, srcOut, flags, '\\', 1)
	case '\'':
		return emitByte(out, srcOut, flags, '\'', 1)
	case '\n':
		// Line continuation in double-quoted bodies: consumes the
		// newline, emits nothing.
		echoSource(1)
		return 1, Result{}, nil
	case '\r':
		if len(src) > 1 && src[1] == '\n' {
			echoSource(2)
			return 2, Result{}, nil
		}
		echoSource(1)
		return 1, Result{}, nil
	case 'x':
		return readHex(src, out, srcOut, flags)
	case 'u':
		return readUnicode(src, out, srcOut, flags)
	case 'c':
		return readControlPrefix(src[1:], out, srcOut, flags, 1)
	case 'C':
		if len(src) > 1 && src[1] == '-' {
			return readControlPrefix(src[2:], out, srcOut, flags, 2)
		}
		return emitByte(out, srcOut, flags, 'C', 1)
	case 'M':
		if len(src) > 1 && src[1] == '-' {
			return readMetaPrefix(src[2:], out, srcOut, flags, 2)
		}
		return emitByte(out, srcOut, flags, 'M', 1)
	default:
		if c >= '1' && c <= '7' {
			return readOctal(src, out, srcOut, flags)
		}
		// Unknown escape: the backslash is dropped and the character is
		// emitted literally, matching Ruby's "unrecognized escape"
		// behavior (a warning, not an error, is expected from the
		// caller's diagnostic layer).
		return emitByte(out, srcOut, flags, rune(c), 1)
	}
}

func applyMasks(b byte, flags Flags) byte {
	if flags&Control != 0 {
		b &^= 0x60
	}
	if flags&Meta != 0 {
		b |= 0x80
	}
	return b
}

func emitByte(out, srcOut *bytes.Buffer, flags Flags, r rune, consumed int) (int, Result, error) {
	b := applyMasks(byte(r), flags)
	out.WriteByte(b)
	if flags&Regexp != 0 && srcOut != nil {
		srcOut.WriteByte('\\')
		if r < 0x80 {
			srcOut.WriteByte(byte(r))
		} else {
			fmt.Fprintf(srcOut, "x%02X", b)
		}
	}
	return consumed, Result{}, nil
}

func readOctal(src []byte, out, srcOut *bytes.Buffer, flags Flags) (int, Result, error) {
	n := 0
	val := 0
	for n < 3 && n < len(src) && src[n] >= '0' && src[n] <= '7' {
		val = val*8 + int(src[n]-'0')
		n++
	}
	if val > 0xFF {
		val &= 0xFF
	}
	b := applyMasks(byte(val), flags)
	out.WriteByte(b)
	if flags&Regexp != 0 && srcOut != nil {
		fmt.Fprintf(srcOut, "\\%03o", b)
	}
	res := Result{ForcesBinary: b > 0x7F}
	return n, res, nil
}

func readHex(src []byte, out, srcOut *bytes.Buffer, flags Flags) (int, Result, error) {
	// src[0] == 'x'
	n := 1
	start := n
	for n < len(src) && n-start < 2 && isHex(src[n]) {
		n++
	}
	if n == start {
		return n, Result{}, fmt.Errorf("escape: \\x with no hex digit")
	}
	val, _ := parseHex(src[start:n])
	b := applyMasks(byte(val), flags)
	out.WriteByte(b)
	if flags&Regexp != 0 && srcOut != nil {
		fmt.Fprintf(srcOut, "\\x%02X", b)
	}
	res := Result{ForcesBinary: b > 0x7F}
	return n, res, nil
}

func readUnicode(src []byte, out, srcOut *bytes.Buffer, flags Flags) (int, Result, error) {
	// src[0] == 'u'
	if len(src) > 1 && src[1] == '{' {
		n := 2
		res := Result{}
		any := false
		for n < len(src) && src[n] != '}' {
			for n < len(src) && src[n] == ' ' {
				n++
			}
			start := n
			for n < len(src) && isHex(src[n]) && n-start < 6 {
				n++
			}
			if n == start {
				break
			}
			cp, _ := parseHex(src[start:n])
			writeCodePoint(out, srcOut, flags, cp, &res)
			any = true
		}
		if n < len(src) && src[n] == '}' {
			n++
		}
		if !any {
			return n, res, fmt.Errorf("escape: \\u{} with no code point")
		}
		return n, res, nil
	}
	n := 1
	start := n
	for n < len(src) && n-start < 4 && isHex(src[n]) {
		n++
	}
	if n-start != 4 {
		return n, Result{}, fmt.Errorf("escape: \\u requires exactly four hex digits")
	}
	cp, _ := parseHex(src[start:n])
	res := Result{}
	writeCodePoint(out, srcOut, flags, cp, &res)
	return n, res, nil
}

func writeCodePoint(out, srcOut *bytes.Buffer, flags Flags, cp int, res *Result) {
	if cp >= 0xD800 && cp <= 0xDFFF {
		cp = 0xFFFD // replacement character for lone surrogates
	}
	out.WriteRune(rune(cp))
	if cp > 0x7F {
		res.ForcesUTF8 = true
	}
	if flags&Regexp != 0 && srcOut != nil {
		fmt.Fprintf(srcOut, "\\u{%x}", cp)
	}
}

func readControlPrefix(rest []byte, out, srcOut *bytes.Buffer, flags Flags, consumedPrefix int) (int, Result, error) {
	if flags&Control != 0 {
		return consumedPrefix, Result{}, fmt.Errorf("escape: control escape repeated in one sequence")
	}
	return readComposable(rest, out, srcOut, flags|Control, consumedPrefix)
}

func readMetaPrefix(rest []byte, out, srcOut *bytes.Buffer, flags Flags, consumedPrefix int) (int, Result, error) {
	if flags&Meta != 0 {
		return consumedPrefix, Result{}, fmt.Errorf("escape: meta escape repeated in one sequence")
	}
	return readComposable(rest, out, srcOut, flags|Meta, consumedPrefix)
}

// readComposable handles the character following a \c, \C-, or \M- prefix,
// which may itself be another escape (e.g. \C-\M-a), composing masks
// left to right as spec.md §4.4 requires.
func readComposable(rest []byte, out, srcOut *bytes.Buffer, flags Flags, consumedPrefix int) (int, Result, error) {
	if len(rest) == 0 {
		return consumedPrefix, Result{}, fmt.Errorf("escape: unterminated control/meta escape")
	}
	if rest[0] == '\\' {
		n, res, err := Read(rest[1:], out, srcOut, flags)
		return consumedPrefix + 1 + n, res, err
	}
	n, res, err := emitByte(out, srcOut, flags, rune(rest[0]), 1)
	return consumedPrefix + n, res, err
}

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func parseHex(b []byte) (int, error) {
	v := 0
	for _, c := range b {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= int(c - '0')
		case c >= 'a' && c <= 'f':
			v |= int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= int(c-'A') + 10
		}
	}
	return v, nil
}
