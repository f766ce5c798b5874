// Package session runs ledger commands for one authenticated owner.
// Commands are dispatched through a table so the same operations serve the
// interactive shell and the one-shot CLI.
package session

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"budget/internal/core"
	"budget/internal/report"
)

// Ledger is the subset of the ledger service a session drives.
type Ledger interface {
	Append(ctx context.Context, d core.EntryDraft) (core.Entry, error)
	Entries(ctx context.Context, owner core.OwnerID, f core.Filter) iter.Seq2[core.Entry, error]
	Totals(ctx context.Context, owner core.OwnerID) (core.Totals, error)
	MonthlyReport(ctx context.Context, owner core.OwnerID, month core.YearMonth) (core.MonthlyReport, error)
	Export(ctx context.Context, owner core.OwnerID, sinks ...report.Sink) (int, error)
}

type Session struct {
	ledger Ledger
	owner  core.OwnerID
	out    io.Writer
	format *report.Formatter
	sinks  []report.Sink
	prompt string
}

type Option func(*Session)

// WithExtraSinks adds export destinations written alongside the CSV file.
func WithExtraSinks(sinks ...report.Sink) Option {
	return func(s *Session) { s.sinks = append(s.sinks, sinks...) }
}

// WithPrompt prints p before reading each line in Run.
func WithPrompt(p string) Option {
	return func(s *Session) { s.prompt = p }
}

func New(l Ledger, owner core.OwnerID, out io.Writer, f *report.Formatter, opts ...Option) *Session {
	s := &Session{ledger: l, owner: owner, out: out, format: f}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type handler func(s *Session, ctx context.Context, args []string) error

var dispatch map[Command]handler

func init() {
	dispatch = map[Command]handler{
		CmdAdd:     (*Session).add,
		CmdList:    (*Session).list,
		CmdBalance: (*Session).balance,
		CmdReport:  (*Session).report,
		CmdExport:  (*Session).export,
		CmdLogout:  (*Session).logout,
		CmdHelp:    (*Session).help,
	}
}

// Dispatch runs a single command.
func (s *Session) Dispatch(ctx context.Context, cmd Command, args []string) error {
	h, ok := dispatch[cmd]
	if !ok {
		return fmt.Errorf("unknown command %v", cmd)
	}
	return h(s, ctx, args)
}

// Run reads commands line by line until logout or end of input. A failing
// command is reported and the loop continues. Fields may be double-quoted.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for {
		if s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}
		if !sc.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		fields, err := splitLine(sc.Text())
		if err != nil {
			s.reportError(ctx, err)
			continue
		}
		if len(fields) == 0 {
			continue
		}
		cmd, err := ParseCommand(fields[0])
		if err != nil {
			s.reportError(ctx, err)
			continue
		}
		if err := s.Dispatch(ctx, cmd, fields[1:]); err != nil {
			s.reportError(ctx, err)
			continue
		}
		if cmd == CmdLogout {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return core.NewIOError("read commands", err)
	}
	return nil
}

func (s *Session) reportError(ctx context.Context, err error) {
	slog.DebugContext(ctx, "Command failed", "owner", s.owner, "error", err)
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

func splitLine(line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = ' '
	cr.TrimLeadingSpace = true
	rec, err := cr.Read()
	if err != nil {
		return nil, &core.ValidationError{Field: "command", Reason: err.Error()}
	}
	fields := rec[:0]
	for _, f := range rec {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields, nil
}
