package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/algolang/internal/errors"
	"github.com/cwbudde/algolang/internal/lexer"
	"github.com/cwbudde/algolang/internal/parser"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse AlgoLang source and print the AST",
	Long: `Parse an AlgoLang program and print its Abstract Syntax Tree.

Examples:
  # Parse a script file
  algolang parse script.algo

  # Parse inline source
  algolang parse -e "Algorithm A Begin Write(1) End"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline source instead of reading from file")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, _, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	tokens, err := lexer.Tokenize(input)
	if err != nil {
		lexErr := err.(*lexer.LexerError)
		fmt.Fprintln(os.Stderr, errors.New(lexer.Position{Line: lexErr.Line}, lexErr.Message, input).Format(false))
		return fmt.Errorf("tokenizing failed")
	}

	program, err := parser.Parse(tokens)
	if err != nil {
		parseErr := err.(*parser.ParseError)
		fmt.Fprintln(os.Stderr, errors.New(lexer.Position{Line: parseErr.Line}, parseErr.Message, input).Format(false))
		return fmt.Errorf("parsing failed")
	}

	fmt.Println(program.String())
	return nil
}
