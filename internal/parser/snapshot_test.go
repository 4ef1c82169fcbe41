package parser_test

import (
	"fmt"
	"testing"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/intern"
	"github.com/cwbudde/rubycore/internal/nodes"
	"github.com/cwbudde/rubycore/internal/parser"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestParseFixtures snapshots the AST dump of a handful of representative
// Ruby fragments, one per language construct called out in spec.md §8's
// end-to-end scenario table. Modeled on go-dws's fixture_test.go, scaled
// down to this module's much smaller built-in corpus (no external .pas
// fixture directory exists for this language).
func TestParseFixtures(t *testing.T) {
	fixtures := []struct {
		name string
		src  string
	}{
		{"local_assign", "a = 1\n"},
		{"multi_assign", "a, b = 1, 2\n"},
		{"def_with_forwarding_params", "def f(x, *y, **z, &b); end\n"},
		{"interpolated_string", "\"a#{1+2}b\"\n"},
		{"case_in_array_pattern", "case x; in [a, *, b] then a; end\n"},
		{"block_call", "1.upto(10) { |i| i }\n"},
		{"heredoc_interleave", "<<A + <<B\nx\nA\ny\nB\n"},
		{"op_assign", "n = 0\nn += 1\n"},
		{"ternary", "x ? 1 : 2\n"},
		{"rescue_modifier", "x = risky rescue nil\n"},
	}

	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			diags := &diag.List{}
			interner := intern.New(len(fx.src))
			p := parser.New(fx.src, interner, diags, nodes.DefaultFactory{})
			root := p.Parse()

			out := nodes.Dump(root)
			if diags.HasErrors() {
				out += fmt.Sprintf("errors: %v\n", diags.Errors())
			}
			snaps.MatchSnapshot(t, out)
		})
	}
}
