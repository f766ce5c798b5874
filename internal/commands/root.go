// Package commands implements the budget command line.
package commands

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"budget/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
// The returned close function releases the backend once the command is done.
func NewRootCommand() (*cobra.Command, func() error) {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:     "budget",
		Short:   "Personal income and expense ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.username, "username", "", "account username (env "+envUsername+")")
	flags.StringVar(&a.password, "password", "", "account password (env "+envPassword+")")
	flags.StringVar(&a.envFile, "env-file", ".env", "optional dotenv file with configuration")

	rootCmd.AddCommand(
		newSignupCommand(a),
		newAddCommand(a),
		newListCommand(a),
		newBalanceCommand(a),
		newReportCommand(a),
		newExportCommand(a),
		newShellCommand(a),
		newWatchCommand(a),
	)
	return rootCmd, a.close
}

// Execute runs the CLI with the given arguments and streams.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) (err error) {
	root, closeFn := NewRootCommand()
	defer func() {
		err = errors.Join(err, closeFn())
	}()

	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}
