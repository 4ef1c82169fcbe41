// Command rubycore is the CLI front end for this module's lexer and
// parser, grounded on go-dws's cmd/dwscript entry point.
package main

import (
	"os"

	"github.com/cwbudde/rubycore/cmd/rubycore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
