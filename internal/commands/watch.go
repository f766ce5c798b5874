package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"budget/internal/amqp"
	"budget/internal/cli"
	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/report"
	"budget/internal/worker"
)

func newWatchCommand(a *app) *cobra.Command {
	var syncSheets bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print entry events from the AMQP queue until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.backend(cmd)
			if err != nil {
				return err
			}
			if res.Events == nil {
				return errors.New("watch requires a reachable AMQP_URL")
			}

			var sync *worker.SyncWorker
			if syncSheets {
				if res.Sheets == nil {
					return errors.New("--sync-sheets requires GOOGLE_SPREADSHEET_ID")
				}
				sync = worker.NewSyncWorker(res.Ledger, func(owner core.OwnerID) report.Sink {
					return res.Sheets.ForOwner(int64(owner))
				})
			}

			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()

			logger := a.logger.WithComponent(applog.ComponentWatch)
			out := cmd.OutOrStdout()
			err = res.Events.ConsumeEntryEvents(ctx, func(ctx context.Context, ev *amqp.EntryEvent) error {
				logger.DebugContext(ctx, "Entry event received",
					applog.NewFields().
						WithOperation(applog.OpConsume).
						WithOwner(ev.Owner).
						WithEntry(ev.ID, ev.Kind, ev.Amount, ev.Category, ev.Date).
						ToSlice()...)
				if sync != nil {
					if err := sync.HandleEntryEvent(ctx, ev); err != nil {
						return err
					}
				}
				_, err := fmt.Fprintf(out, "%s owner=%d id=%d %s %s %s %s\n",
					ev.Timestamp.Format("2006-01-02T15:04:05Z07:00"), ev.Owner, ev.ID, ev.Kind, ev.Amount, ev.Category, ev.Date)
				return err
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&syncSheets, "sync-sheets", false, "mirror the ledger of each event's owner into its own tab of the configured Google Sheet")
	return cmd
}
