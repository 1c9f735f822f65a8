package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"components.dev/calc/internal/application/services"
	"components.dev/calc/internal/core/domain"
)

// EvalFlags holds command-line flags for the eval command
type EvalFlags struct {
	Output string
	Pretty bool
}

// NewEvalCommand creates the eval command
func NewEvalCommand(container *CLIContainer) *cobra.Command {
	flags := &EvalFlags{}

	cmd := &cobra.Command{
		Use:   "eval <op> <x> <y>",
		Short: "Evaluate an expression through the calculator",
		Long: `Evaluate one expression. The calculator routes add to the adder
provider and subtract to the subtractor provider and prints the result
unchanged.

Examples:
  calc eval add 2 3              # 5
  calc eval subtract 0 1         # 4294967295
  calc eval - 5 3 --output json`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := domain.ParseOp(args[0])
			if err != nil {
				return err
			}
			x, y, err := parseOperands(args[1:])
			if err != nil {
				return err
			}
			if err := link(cmd.Context(), container); err != nil {
				return err
			}

			evaluation, err := container.Evaluations.Evaluate(cmd.Context(), op, x, y)
			if err != nil {
				return err
			}
			return printEvaluation(cmd.OutOrStdout(), evaluation, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Output, "output", "o", "text", "Output format (text, json)")
	cmd.Flags().BoolVar(&flags.Pretty, "pretty", false, "Show the full expression with styling")

	return cmd
}

func printEvaluation(w io.Writer, evaluation *services.Evaluation, flags *EvalFlags) error {
	switch flags.Output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(evaluation)
	case "text", "":
		if flags.Pretty {
			fmt.Fprintf(w, "%s %s %s\n",
				mutedStyle.Render(fmt.Sprintf("%d %s %d", evaluation.X, evaluation.Op.Symbol(), evaluation.Y)),
				mutedStyle.Render("="),
				resultStyle.Render(fmt.Sprintf("%d", evaluation.Result)))
			return nil
		}
		fmt.Fprintln(w, evaluation.Result)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", flags.Output)
	}
}
