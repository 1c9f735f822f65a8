package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command, which calls the adder provider directly
func NewAddCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "add <x> <y>",
		Short: "Call the adder provider directly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parseOperands(args)
			if err != nil {
				return err
			}
			if err := link(cmd.Context(), container); err != nil {
				return err
			}

			sum, err := container.Linker.Add(cmd.Context(), x, y)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sum)
			return nil
		},
	}
}

// NewSubtractCommand creates the subtract command, which calls the subtractor provider directly
func NewSubtractCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:     "subtract <x> <y>",
		Aliases: []string{"sub"},
		Short:   "Call the subtractor provider directly",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parseOperands(args)
			if err != nil {
				return err
			}
			if err := link(cmd.Context(), container); err != nil {
				return err
			}

			diff, err := container.Linker.Subtract(cmd.Context(), x, y)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), diff)
			return nil
		},
	}
}
