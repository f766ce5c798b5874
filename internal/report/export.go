package report

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"budget/internal/core"
)

// Sink is an export destination.
type Sink interface {
	Name() string
	WriteRows(ctx context.Context, header []string, rows [][]string) error
}

// ExportPath normalizes a user-supplied export file name, adding the .csv
// extension when it is missing.
func ExportPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &core.ValidationError{Field: "filename", Reason: "export file name is required"}
	}
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		name += ".csv"
	}
	return name, nil
}

// FileSink writes a CSV file. The file is replaced only once it is complete.
type FileSink struct {
	Path string
}

const exportFileMode os.FileMode = 0o644

func (s FileSink) Name() string { return s.Path }

func (s FileSink) WriteRows(_ context.Context, header []string, rows [][]string) (err error) {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return core.NewIOError("create export file", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	// CreateTemp makes the file owner-only; exports get the usual 0644.
	if err := tmp.Chmod(exportFileMode); err != nil {
		tmp.Close()
		return core.NewIOError("chmod export file", err)
	}
	if err := writeRows(tmp, header, rows); err != nil {
		tmp.Close()
		return core.NewIOError("write export file", err)
	}
	if err := tmp.Close(); err != nil {
		return core.NewIOError("close export file", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return core.NewIOError("rename export file", err)
	}
	return nil
}

// Export reads the entries once and writes them to every sink concurrently.
// It returns the number of exported entries. Failures are not retried.
func Export(ctx context.Context, entries iter.Seq2[core.Entry, error], sinks ...Sink) (int, error) {
	if len(sinks) == 0 {
		return 0, &core.ValidationError{Field: "destination", Reason: "no export destination"}
	}
	rows, err := Rows(entries)
	if err != nil {
		return 0, err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, sink := range sinks {
		g.Go(func() error {
			if err := sink.WriteRows(ctx, Header, rows); err != nil {
				if errors.Is(err, core.ErrIO) {
					return err
				}
				return core.NewIOError(fmt.Sprintf("export to %s", sink.Name()), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(rows), nil
}
