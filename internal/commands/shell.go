package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"budget/internal/cli"
	"budget/internal/session"
)

func newShellCommand(a *app) *cobra.Command {
	var prompt string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Log in and run commands interactively",
		Long: `Log in and read commands from standard input until logout or end of input.
Menu digits 1-6 select add, list, balance, report, export and logout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()
			cmd.SetContext(ctx)

			s, err := a.session(cmd, session.WithPrompt(prompt))
			if err != nil {
				return err
			}
			user, _ := a.credentials()
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s. Type help for commands.\n", user)
			return s.Run(ctx, cmd.InOrStdin())
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "budget> ", "prompt printed before each command")
	return cmd
}
