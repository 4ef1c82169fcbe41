package escape

import (
	"bytes"
	"testing"
)

func decode(t *testing.T, src string, flags Flags) (out string, consumed int, res Result, err error) {
	t.Helper()
	var buf bytes.Buffer
	n, r, e := Read([]byte(src), &buf, nil, flags)
	return buf.String(), n, r, e
}

func TestSimpleEscapes(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"n", "\n"},
		{"t", "\t"},
		{"r", "\r"},
		{"a", "\a"},
		{"b", "\b"},
		{"e", "\x1b"},
		{"f", "\f"},
		{"s", " "},
		{"v", "\v"},
		{"\\", "\\"},
		{"'", "'"},
	}
	for _, tc := range cases {
		out, n, _, err := decode(t, tc.src, 0)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.src, err)
		}
		if n != 1 {
			t.Fatalf("%q: expected to consume 1 byte, got %d", tc.src, n)
		}
		if out != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.src, tc.want, out)
		}
	}
}

func TestUnknownEscapeDropsBackslash(t *testing.T) {
	out, n, _, err := decode(t, "q", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 || out != "q" {
		t.Fatalf("expected literal 'q' consuming 1 byte, got %q n=%d", out, n)
	}
}

func TestLineContinuationConsumesNoOutput(t *testing.T) {
	out, n, _, err := decode(t, "\n", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 || out != "" {
		t.Fatalf("expected line continuation to emit nothing, got %q n=%d", out, n)
	}
}

func TestSingleQuotedOnlyEscapesBackslashAndQuote(t *testing.T) {
	out, n, _, err := decode(t, "n", Single)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "\\n" || n != 1 {
		t.Fatalf("expected single-quoted \\n to pass through literally as two bytes, got %q n=%d", out, n)
	}
	out, n, _, err = decode(t, "\\", Single)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "\\" || n != 1 {
		t.Fatalf("expected single-quoted \\\\ to decode to one backslash, got %q n=%d", out, n)
	}
	out, _, _, err = decode(t, "'", Single)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "'" {
		t.Fatalf("expected single-quoted \\' to decode to a quote, got %q", out)
	}
}

func TestHexEscape(t *testing.T) {
	out, n, _, err := decode(t, "x41", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "A" {
		t.Fatalf("expected \\x41 to decode to 'A', got %q", out)
	}
	if n != 3 {
		t.Fatalf("expected to consume 3 bytes (x41), got %d", n)
	}
}

func TestHexEscapeSingleDigit(t *testing.T) {
	out, n, _, err := decode(t, "x9zz", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "\x09" || n != 2 {
		t.Fatalf("expected \\x9 to consume 2 bytes and decode to 0x09, got %q n=%d", out, n)
	}
}

func TestHexEscapeRequiresAtLeastOneDigit(t *testing.T) {
	_, _, _, err := decode(t, "xzz", 0)
	if err == nil {
		t.Fatalf("expected error for \\x with no hex digits")
	}
}

func TestUnicodeEscapeFourDigits(t *testing.T) {
	out, n, res, err := decode(t, "u00e9", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "é" {
		t.Fatalf("expected U+00E9, got %q", out)
	}
	if n != 5 {
		t.Fatalf("expected to consume 5 bytes, got %d", n)
	}
	if !res.ForcesUTF8 {
		t.Fatalf("expected ForcesUTF8 to be set for a non-ASCII code point")
	}
}

func TestUnicodeEscapeRequiresExactlyFourDigits(t *testing.T) {
	_, _, _, err := decode(t, "u12", 0)
	if err == nil {
		t.Fatalf("expected error for \\u with fewer than 4 hex digits")
	}
}

func TestUnicodeEscapeBraceFormMultipleCodePoints(t *testing.T) {
	out, _, res, err := decode(t, "u{48 65 6c}", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Hel" {
		t.Fatalf("expected %q, got %q", "Hel", out)
	}
	if res.ForcesUTF8 {
		t.Fatalf("did not expect ForcesUTF8 for all-ASCII code points")
	}
}

func TestUnicodeEscapeBraceFormRequiresAtLeastOne(t *testing.T) {
	_, _, _, err := decode(t, "u{}", 0)
	if err == nil {
		t.Fatalf("expected error for \\u{} with no code point")
	}
}

func TestOctalEscape(t *testing.T) {
	out, n, _, err := decode(t, "101", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "A" {
		t.Fatalf("expected \\101 to decode to 'A', got %q", out)
	}
	if n != 3 {
		t.Fatalf("expected to consume 3 octal digits, got %d", n)
	}
}

func TestControlEscape(t *testing.T) {
	// \cA -> 0x01
	out, _, _, err := decode(t, "cA", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "\x01" {
		t.Fatalf("expected \\cA to decode to 0x01, got %q (%d)", out, []byte(out))
	}
}

func TestControlDashEscape(t *testing.T) {
	out, _, _, err := decode(t, "C-A", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "\x01" {
		t.Fatalf("expected \\C-A to decode to 0x01, got %q", out)
	}
}

func TestMetaEscape(t *testing.T) {
	out, _, _, err := decode(t, "M-A", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0] != ('A' | 0x80) {
		t.Fatalf("expected \\M-A to set the high bit on 'A', got %q", out)
	}
}

func TestComposedControlMeta(t *testing.T) {
	// \C-\M-a composes both masks left to right.
	out, _, _, err := decode(t, "C-\\M-a", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := byte('a') &^ 0x60
	want |= 0x80
	if len(out) != 1 || out[0] != want {
		t.Fatalf("expected composed control+meta mask 0x%02x, got %q", want, out)
	}
}

func TestRepeatedPrefixIsAnError(t *testing.T) {
	// \C-\C-a and \M-\M-a repeat the same prefix in one escape.
	if _, _, _, err := decode(t, "C-\\C-a", 0); err == nil {
		t.Fatal("expected an error for a repeated control prefix")
	}
	if _, _, _, err := decode(t, "M-\\M-a", 0); err == nil {
		t.Fatal("expected an error for a repeated meta prefix")
	}
	if _, _, _, err := decode(t, "c\\cx", 0); err == nil {
		t.Fatal("expected an error for a repeated \\c prefix")
	}
}

func TestEmptyInputIsAnError(t *testing.T) {
	var buf bytes.Buffer
	_, _, err := Read(nil, &buf, nil, 0)
	if err == nil {
		t.Fatalf("expected an error for empty escape input")
	}
}

func TestRegexpFlagEchoesSourceSpelling(t *testing.T) {
	var out, src bytes.Buffer
	_, _, err := Read([]byte("n"), &out, &src, Regexp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.String() != "\\n" {
		t.Fatalf("expected regexp source buffer to preserve \\n spelling, got %q", src.String())
	}
}
