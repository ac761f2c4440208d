package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/cwbudde/algolang/internal/errors"
	"github.com/cwbudde/algolang/internal/interp"
	"github.com/cwbudde/algolang/internal/lexer"
	"github.com/cwbudde/algolang/internal/parser"
	"github.com/spf13/cobra"
)

var (
	evalExpr string
	dumpAST  bool
	trace    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an AlgoLang file or expression",
	Long: `Execute an AlgoLang program from a file or inline source.

Examples:
  # Run a script file
  algolang run script.algo

  # Evaluate inline source
  algolang run -e "Algorithm A Begin Write(1 + 2) End"

  # Run with an AST dump (for debugging)
  algolang run --dump-ast script.algo`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST (for debugging)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "trace each Step event (for debugging)")
}

// stepBudget mirrors the host driver policy named in spec.md §5: a real
// UI yields back to its event loop every 500 Step events to stay
// responsive. This CLI has no event loop to yield to, so the budget is
// only logged under --verbose.
const stepBudget = 500

func runScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")

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

	if dumpAST {
		fmt.Println("AST:")
		fmt.Println(program.String())
		fmt.Println()
	}

	if trace {
		fmt.Fprintf(os.Stderr, "[trace enabled - running %s]\n", filename)
	}

	return drive(interp.Interpret(program), verbose, input)
}

// drive advances h to completion, printing Output lines and reading one
// line of stdin per Input request. It is the terminal-backed driver named
// in SPEC_FULL.md §6.5: a real host (editor/UI) would instead feed Advance
// from its own event loop and apply its own step budget between yields.
func drive(h *interp.Handle, verbose bool, source string) error {
	defer h.Close()

	stdin := bufio.NewScanner(os.Stdin)
	reply := ""
	steps := 0

	for {
		ev := h.Advance(reply)
		reply = ""

		switch ev.Kind {
		case interp.EventStep:
			steps++
			if trace {
				fmt.Fprintf(os.Stderr, "[step %d: line %d]\n", steps, ev.Line)
			}
			if verbose && steps%stepBudget == 0 {
				fmt.Fprintf(os.Stderr, "[%d steps]\n", steps)
			}
		case interp.EventOutput:
			fmt.Println(ev.Text)
		case interp.EventInput:
			fmt.Printf("%s? ", ev.Name)
			if stdin.Scan() {
				reply = stdin.Text()
			}
		case interp.EventError:
			fmt.Fprintln(os.Stderr, errors.New(lexer.Position{Line: ev.Line}, ev.Message, source).Format(false))
			return fmt.Errorf("execution failed")
		case interp.EventDone:
			return nil
		}
	}
}
