package cmd

import (
	"fmt"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/intern"
	"github.com/cwbudde/rubycore/internal/nodes"
	"github.com/cwbudde/rubycore/internal/parser"
	"github.com/cwbudde/rubycore/pkg/errors"
	"github.com/spf13/cobra"
)

var parseEvalExpr string
var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a Ruby file or expression into a core AST",
	Long: `Parse a Ruby program and report the resulting top-level node and any
diagnostics. This command exercises the same Parser the rest of this
module is built around; it does not evaluate anything.

Examples:
  rubycore parse script.rb
  rubycore parse -e "a, b = 1, 2"
  rubycore parse --dump-ast -e "a, b = 1, 2"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from a file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "print the full indented AST tree instead of just the top-level summary")
}

func runParse(cmd *cobra.Command, args []string) error {
	src, filename, err := readInput(parseEvalExpr, args)
	if err != nil {
		return err
	}

	diags := &diag.List{}
	interner := intern.New(len(src))
	p := parser.New(src, interner, diags, nodes.DefaultFactory{})
	root := p.Parse()

	fmt.Printf("parsed %s: top-level node kind=%d, %d error(s), %d warning(s)\n",
		filename, root.Kind(), len(diags.Errors()), len(diags.Warnings()))

	if parseDumpAST {
		fmt.Print(nodes.Dump(root))
	}

	if diags.HasErrors() {
		fmt.Println(errors.Format(diags, src, filename, false))
		return fmt.Errorf("found %d parse error(s)", len(diags.Errors()))
	}
	return nil
}
