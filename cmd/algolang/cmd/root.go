package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "algolang",
	Short: "AlgoLang tokenizer, parser, and interpreter",
	Long: `algolang is a command-line driver for the AlgoLang teaching language.

AlgoLang is a small Pascal-flavoured algorithmic language used to teach
first-year programming: declared variables with an explicit base type,
If/While/For control flow, Functions and Procedures, and Read/Write I/O.

This CLI exposes the same pipeline an embedding host drives through
pkg/algolang: tokenize, parse, and run.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
