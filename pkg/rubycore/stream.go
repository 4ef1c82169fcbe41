package rubycore

import (
	"strings"

	"github.com/cwbudde/rubycore/internal/diag"
)

// GetsFunc pulls one line of input, returning ok=false at end of input.
// The line should include its trailing newline; a driver honoring
// SwitchChompLines may strip it, which only affects the program's
// runtime semantics, not parsing.
type GetsFunc func() (line string, ok bool)

// ParseStream repeatedly pulls lines via gets into a growing buffer,
// re-invoking Parse until the error set no longer indicates an
// unterminated construct, a `__END__` line is seen, or the input is
// exhausted (spec.md §6). The last parse's result is returned.
func (e *Engine) ParseStream(gets GetsFunc) (*Result, error) {
	var buf strings.Builder
	var res *Result
	var err error
	for {
		line, ok := gets()
		if !ok {
			if res == nil {
				return e.Parse(buf.String())
			}
			return res, err
		}
		buf.WriteString(line)
		res, err = e.Parse(buf.String())
		if err != nil {
			return res, err
		}
		if res.DataStart >= 0 {
			return res, nil
		}
		if !hasUnterminatedConstruct(res.Errors, buf.Len()) {
			return res, nil
		}
	}
}

// hasUnterminatedConstruct reports whether any recorded error means the
// source ended inside an open construct, i.e. more input could still
// complete the parse. Besides the unterminated-literal diagnostics, a
// structural error whose span reaches the end of the buffer (a missing
// `end`, `}`, `)` discovered at EOF) counts too.
func hasUnterminatedConstruct(errors []diag.Diagnostic, srcLen int) bool {
	for _, d := range errors {
		switch d.ID {
		case diag.ErrUnterminatedString, diag.ErrUnterminatedRegexp,
			diag.ErrUnterminatedHeredoc, diag.ErrMismatchedEnclosure:
			return true
		case diag.ErrMissingTerminator, diag.ErrUnexpectedToken:
			if d.End >= srcLen {
				return true
			}
		}
	}
	return false
}
