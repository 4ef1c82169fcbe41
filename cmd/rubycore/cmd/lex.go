package cmd

import (
	"fmt"

	"github.com/cwbudde/rubycore/internal/diag"
	"github.com/cwbudde/rubycore/internal/intern"
	"github.com/cwbudde/rubycore/internal/lexer"
	"github.com/cwbudde/rubycore/pkg/errors"
	"github.com/cwbudde/rubycore/pkg/token"
	"github.com/spf13/cobra"
)

var (
	lexEvalExpr  string
	lexShowPos   bool
	lexShowBytes bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Ruby file or expression",
	Long: `Tokenize a Ruby program and print the resulting tokens.

Examples:
  rubycore lex script.rb
  rubycore lex -e "x = 1 + 2"
  rubycore lex --show-pos --show-bytes script.rb`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexShowBytes, "show-bytes", false, "show the raw source bytes each token spans")
}

func runLex(cmd *cobra.Command, args []string) error {
	src, filename, err := readInput(lexEvalExpr, args)
	if err != nil {
		return err
	}

	diags := &diag.List{}
	interner := intern.New(len(src))
	l := lexer.New(src, interner, diags)

	for {
		t := l.Next()
		printToken(l, t)
		if t.Kind == token.EOF {
			break
		}
	}

	if diags.HasErrors() {
		fmt.Println(errors.Format(diags, src, filename, false))
		return fmt.Errorf("found %d lexical error(s)", len(diags.Errors()))
	}
	return nil
}

func printToken(l *lexer.Lexer, t token.Token) {
	out := fmt.Sprintf("[%-16s]", t.Kind)
	if lexShowBytes && t.Len() > 0 {
		out += fmt.Sprintf(" %q", l.SourceText(t.Start, t.End))
	}
	if lexShowPos {
		line, col := l.LineCol(t.Start)
		out += fmt.Sprintf(" @%d:%d", line, col)
	}
	fmt.Println(out)
}
