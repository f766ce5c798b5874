package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSignupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create an account from --username and --password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.backend(cmd)
			if err != nil {
				return err
			}
			user, pass := a.credentials()
			if _, err := res.Accounts.Signup(cmd.Context(), user, pass); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Signup successful.")
			return err
		},
	}
}
