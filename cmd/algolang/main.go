// Command algolang is a CLI driver for the AlgoLang pipeline: tokenize,
// parse, and run AlgoLang source from a file or an inline -e flag.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algolang/cmd/algolang/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
