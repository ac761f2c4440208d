package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/algolang/internal/errors"
	"github.com/cwbudde/algolang/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	showPos  bool
	showType bool
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [file]",
	Short: "Tokenize an AlgoLang file or expression",
	Long: `Tokenize an AlgoLang program and print the resulting tokens.

Examples:
  # Tokenize a script file
  algolang tokenize script.algo

  # Tokenize inline source
  algolang tokenize -e "Write(1 + 2)"

  # Show token kinds and positions
  algolang tokenize --show-type --show-pos script.algo`,
	Args: cobra.MaximumNArgs(1),
	RunE: tokenizeScript,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)

	tokenizeCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline source instead of reading from file")
	tokenizeCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	tokenizeCmd.Flags().BoolVar(&showType, "show-type", false, "show token kind names")
}

func tokenizeScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	tokens, tokErr := lexer.Tokenize(input)
	for _, tok := range tokens {
		printToken(tok)
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", len(tokens))
	}

	if tokErr != nil {
		lexErr := tokErr.(*lexer.LexerError)
		fmt.Fprintln(os.Stderr, errors.New(lexer.Position{Line: lexErr.Line}, lexErr.Message, input).Format(false))
		return fmt.Errorf("tokenizing failed")
	}
	return nil
}

func printToken(tok lexer.Token) {
	var output string

	if showType {
		output = fmt.Sprintf("[%-12s]", tok.Type)
	}

	switch {
	case tok.Type == lexer.EOF:
		output += " EOF"
	case tok.Type == lexer.ILLEGAL:
		output += fmt.Sprintf(" ILLEGAL: %q", tok.Literal)
	case tok.Literal == "":
		output += fmt.Sprintf(" %s", tok.Type)
	default:
		output += fmt.Sprintf(" %q", tok.Literal)
	}

	if showPos {
		output += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}

	fmt.Println(output)
}

// readSource resolves the CLI's three input modes: inline -e text, a file
// argument, or (if neither) an error — mirrored by parse.go and run.go.
func readSource(inline string, args []string) (input, filename string, err error) {
	switch {
	case inline != "":
		return inline, "<eval>", nil
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	default:
		return "", "", fmt.Errorf("either provide a file path or use -e for inline source")
	}
}
