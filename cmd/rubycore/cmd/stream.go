package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/cwbudde/rubycore/internal/nodes"
	"github.com/cwbudde/rubycore/pkg/rubycore"
	"github.com/spf13/cobra"
)

var (
	streamPrintLoop bool
	streamGetsLoop  bool
	streamAutosplit bool
	streamChomp     bool
	streamDumpAST   bool
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Parse Ruby source line by line from stdin",
	Long: `Read stdin one line at a time and parse the accumulated buffer after
each line, stopping as soon as the source no longer ends inside an open
construct (or an __END__ line is seen). The -n/-p/-a/-l flags mirror the
matching ruby(1) switches and wrap the parsed statements in a gets loop.

Examples:
  echo 'a = 1' | rubycore stream
  rubycore stream -p < filter.rb`,
	Args: cobra.NoArgs,
	RunE: runStream,
}

func init() {
	rootCmd.AddCommand(streamCmd)
	streamCmd.Flags().BoolVarP(&streamPrintLoop, "print-loop", "p", false, "wrap statements in `while gets; ...; print $_; end`")
	streamCmd.Flags().BoolVarP(&streamGetsLoop, "gets-loop", "n", false, "wrap statements in `while gets; ...; end`")
	streamCmd.Flags().BoolVarP(&streamAutosplit, "autosplit", "a", false, "prepend `$F = $_.split($;)` inside the gets loop")
	streamCmd.Flags().BoolVarP(&streamChomp, "chomp", "l", false, "pass `chomp: true` to gets")
	streamCmd.Flags().BoolVar(&streamDumpAST, "dump-ast", false, "print the full indented AST tree")
}

func runStream(cmd *cobra.Command, args []string) error {
	var switches rubycore.Switches
	if streamPrintLoop {
		switches |= rubycore.SwitchPrintLoop
	}
	if streamGetsLoop {
		switches |= rubycore.SwitchGetsLoop
	}
	if streamAutosplit {
		switches |= rubycore.SwitchAutosplit
	}
	if streamChomp {
		switches |= rubycore.SwitchChompLines
	}

	engine, err := rubycore.New(rubycore.WithSwitches(switches), rubycore.WithFilepath("<stdin>"))
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	res, err := engine.ParseStream(func() (string, bool) {
		line, readErr := reader.ReadString('\n')
		if line == "" && readErr != nil {
			return "", false
		}
		return line, true
	})
	if err != nil {
		return err
	}

	fmt.Printf("parsed <stdin>: %d error(s), %d warning(s)\n", len(res.Errors), len(res.Warnings))
	if streamDumpAST {
		fmt.Print(nodes.Dump(res.Root))
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("found %d parse error(s)", len(res.Errors))
	}
	return nil
}
