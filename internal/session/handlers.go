package session

import (
	"context"
	"fmt"
	"strings"

	"budget/internal/core"
	"budget/internal/report"
)

const usage = `Commands:
  add <amount> <category> <income|expense> [YYYY-MM-DD]
  list [category=NAME] [month=YYYY-MM]
  balance
  report <YYYY-MM>
  export <file>
  help
  logout
`

func usageError(cmd Command, form string) error {
	return &core.ValidationError{Field: "arguments", Reason: fmt.Sprintf("usage: %s %s", cmd, form)}
}

func (s *Session) add(ctx context.Context, args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return usageError(CmdAdd, "<amount> <category> <income|expense> [YYYY-MM-DD]")
	}
	amount, err := core.ParseMoney(args[0])
	if err != nil {
		return err
	}
	kind, err := core.ParseKind(args[2])
	if err != nil {
		return err
	}
	var date core.Date
	if len(args) == 4 {
		if date, err = core.ParseDate(args[3]); err != nil {
			return err
		}
	}

	e, err := s.ledger.Append(ctx, core.EntryDraft{
		Amount:   amount,
		Category: args[1],
		Kind:     kind,
		Date:     date,
		Owner:    s.owner,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "Transaction added. (ID: %d)\n", e.ID)
	return err
}

func (s *Session) list(ctx context.Context, args []string) error {
	var f core.Filter
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return usageError(CmdList, "[category=NAME] [month=YYYY-MM]")
		}
		switch strings.ToLower(key) {
		case "category":
			f.Category = strings.TrimSpace(value)
		case "month":
			ym, err := core.ParseYearMonth(value)
			if err != nil {
				return err
			}
			f.YearMonth = ym
		default:
			return usageError(CmdList, "[category=NAME] [month=YYYY-MM]")
		}
	}
	return s.format.RenderEntries(s.out, s.ledger.Entries(ctx, s.owner, f))
}

func (s *Session) balance(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return usageError(CmdBalance, "")
	}
	t, err := s.ledger.Totals(ctx, s.owner)
	if err != nil {
		return err
	}
	return s.format.RenderTotals(s.out, t)
}

func (s *Session) report(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError(CmdReport, "<YYYY-MM>")
	}
	month, err := core.ParseYearMonth(args[0])
	if err != nil {
		return err
	}
	r, err := s.ledger.MonthlyReport(ctx, s.owner, month)
	if err != nil {
		return err
	}
	return s.format.RenderMonthly(s.out, r)
}

func (s *Session) export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError(CmdExport, "<file>")
	}
	path, err := report.ExportPath(args[0])
	if err != nil {
		return err
	}
	sinks := append([]report.Sink{report.FileSink{Path: path}}, s.sinks...)
	n, err := s.ledger.Export(ctx, s.owner, sinks...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "Exported %d transactions to %s\n", n, path)
	return err
}

func (s *Session) logout(context.Context, []string) error {
	_, err := fmt.Fprintln(s.out, "Logged out.")
	return err
}

func (s *Session) help(context.Context, []string) error {
	_, err := fmt.Fprint(s.out, usage)
	return err
}
