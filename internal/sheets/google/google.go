// Package google exports ledger rows to a Google Sheets tab.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const DefaultSheetName = "Budget"

// Config selects the target spreadsheet and the service account used to
// reach it. Inline JSON wins over the file path.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// Client replaces the contents of one sheet with an export.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string

	ensure bool // add the tab on write when the spreadsheet lacks it
}

// New builds a Sheets client. Extra options are appended after the
// credentials, which lets tests point the client at a local endpoint.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	name := strings.TrimSpace(cfg.SheetName)
	if name == "" {
		name = DefaultSheetName
	}

	svc, err := newSheetsService(ctx, cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: id, sheetName: name}, nil
}

func newSheetsService(ctx context.Context, cfg Config, extra []goption.ClientOption) (*gsheet.Service, error) {
	opts := make([]goption.ClientOption, 0, len(extra)+2)

	inline := strings.TrimSpace(cfg.ServiceAccountJSON)
	file := strings.TrimSpace(cfg.ServiceAccountFile)
	switch {
	case inline != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		opts = append(opts, goption.WithCredentialsJSON([]byte(inline)))
	case file != "":
		slog.DebugContext(ctx, "Reading service account credentials", "path", file)
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		opts = append(opts, goption.WithCredentialsJSON(data))
	case len(extra) == 0:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
	opts = append(opts, goption.WithScopes(gsheet.SpreadsheetsScope))
	opts = append(opts, extra...)

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

func (c *Client) Name() string {
	return fmt.Sprintf("sheet %q", c.sheetName)
}

// ForOwner returns a client bound to the owner's own tab, "<sheet>-<owner>",
// so mirrors of different owners never overwrite each other.
func (c *Client) ForOwner(owner int64) *Client {
	return &Client{
		svc:           c.svc,
		spreadsheetID: c.spreadsheetID,
		sheetName:     fmt.Sprintf("%s-%d", c.sheetName, owner),
		ensure:        true,
	}
}

func (c *Client) ensureSheet(ctx context.Context) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet %s: %w", c.spreadsheetID, err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.sheetName {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: c.sheetName}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", c.sheetName, err)
	}
	slog.InfoContext(ctx, "Added sheet", "sheet", c.sheetName)
	return nil
}

// a1 quotes the sheet name so names with dashes or spaces stay valid A1 notation.
func a1(sheet, cells string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cells
}

// WriteRows clears the sheet and writes the header and rows from A1.
func (c *Client) WriteRows(ctx context.Context, header []string, rows [][]string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if c.ensure {
		if err := c.ensureSheet(ctx); err != nil {
			return err
		}
	}

	clearRange := a1(c.sheetName, "A:Z")
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet %s: %w", c.sheetName, err)
	}

	writeRange := a1(c.sheetName, "A1")
	vr := &gsheet.ValueRange{Values: toValues(header, rows)}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Exported rows to Google Sheets", "sheet", c.sheetName, "rows", len(rows))
	return nil
}

func toValues(header []string, rows [][]string) [][]any {
	out := make([][]any, 0, len(rows)+1)
	out = append(out, toRow(header))
	for _, r := range rows {
		out = append(out, toRow(r))
	}
	return out
}

func toRow(cols []string) []any {
	row := make([]any, len(cols))
	for i, v := range cols {
		row[i] = v
	}
	return row
}
