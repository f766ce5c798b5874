package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"budget/internal/session"
)

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <amount> <category> <income|expense> [YYYY-MM-DD]",
		Short: "Record an income or expense entry",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd, session.CmdAdd, args)
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	var category, month string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var args []string
			if category != "" {
				args = append(args, "category="+category)
			}
			if month != "" {
				args = append(args, "month="+month)
			}
			return a.dispatch(cmd, session.CmdList, args)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only entries in this category (exact match)")
	cmd.Flags().StringVar(&month, "month", "", "only entries in this month (YYYY-MM)")
	return cmd
}

func newBalanceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show total income, expense and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd, session.CmdBalance, args)
		},
	}
}

func newReportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report <YYYY-MM>",
		Short: "Show a month grouped by category and type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd, session.CmdReport, args)
		},
	}
}

func newExportCommand(a *app) *cobra.Command {
	var toSheets bool

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export all entries to a CSV file (.csv is added when missing)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []session.Option
			if toSheets {
				res, err := a.backend(cmd)
				if err != nil {
					return err
				}
				if res.Sheets == nil {
					return errors.New("sheets export requires GOOGLE_SPREADSHEET_ID")
				}
				opts = append(opts, session.WithExtraSinks(res.Sheets))
			}
			return a.dispatch(cmd, session.CmdExport, args, opts...)
		},
	}
	cmd.Flags().BoolVar(&toSheets, "sheets", false, "also replace the configured Google Sheet with the export")
	return cmd
}
