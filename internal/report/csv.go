package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"strconv"

	"budget/internal/core"
)

// Header is the fixed column order of every export.
var Header = []string{"ID", "Amount", "Category", "Type", "Date", "Owner"}

const (
	colID = iota
	colAmount
	colCategory
	colType
	colDate
	colOwner
	numFields
)

// MarshalEntry converts an entry to an export row.
func MarshalEntry(e core.Entry) []string {
	row := make([]string, numFields)
	row[colID] = strconv.FormatInt(e.ID, 10)
	row[colAmount] = e.Amount.String()
	row[colCategory] = e.Category
	row[colType] = e.Kind.String()
	row[colDate] = e.Date.String()
	row[colOwner] = strconv.FormatInt(int64(e.Owner), 10)
	return row
}

// Rows materializes the entries as export rows, without the header.
func Rows(entries iter.Seq2[core.Entry, error]) ([][]string, error) {
	var rows [][]string
	for e, err := range entries {
		if err != nil {
			return nil, err
		}
		rows = append(rows, MarshalEntry(e))
	}
	return rows, nil
}

// WriteCSV writes the header and one row per entry.
func WriteCSV(w io.Writer, entries iter.Seq2[core.Entry, error]) error {
	rows, err := Rows(entries)
	if err != nil {
		return err
	}
	return writeRows(w, Header, rows)
}

func writeRows(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
