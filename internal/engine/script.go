package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// InsertHeader introduces the insert block of a dialect section.
const InsertHeader = "-- Insert"

// WriteScript writes every successful result as a script section:
//
//	-- <Dialect>
//	<DDL>
//	-- Insert
//	<DML>
//	(blank line)
//
// The insert block is written only when withInserts is set. Failed results
// are skipped.
func WriteScript(w io.Writer, results []Result, withInserts bool) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		fmt.Fprintln(bw, r.Dialect.Header())
		fmt.Fprintln(bw, r.DDL())
		if withInserts {
			fmt.Fprintln(bw, InsertHeader)
			fmt.Fprintln(bw, r.DML())
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// WriteMigrations writes each successful result as a goose migration
// preceded by its dialect header.
func WriteMigrations(w io.Writer, results []Result, t time.Time) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		m := r.Migration(t)
		fmt.Fprintf(bw, "%s (%s)\n", r.Dialect.Header(), m.Filename())
		_, _ = bw.Write(m.Source())
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// SaveMigrations writes each successful result to dir/<dialect>/<file> and
// returns the written paths.
func SaveMigrations(dir string, results []Result, t time.Time) ([]string, error) {
	var paths []string
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		m := r.Migration(t)
		sub := filepath.Join(dir, r.Dialect.Name)
		if err := os.MkdirAll(sub, 0o750); err != nil {
			return paths, fmt.Errorf("failed to create %s: %w", sub, err)
		}
		path := filepath.Join(sub, m.Filename())
		if err := os.WriteFile(path, m.Source(), 0o600); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
