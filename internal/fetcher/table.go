package fetcher

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Table is a header plus data rows read from a CSV, TSV or XLSX file.
type Table struct {
	Header []string
	Rows   [][]string
}

// Index returns the position of the named column, ignoring case and
// surrounding space, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// ReadTable reads a whole tabular file, choosing the format from its
// extension: .xlsx, .tsv, .csv, and gzip-compressed .csv.gz or .gz.
func ReadTable(ctx context.Context, path string) (*Table, error) {
	name := strings.ToLower(filepath.Base(path))

	if strings.HasSuffix(name, ".xlsx") {
		rows, err := ReadXLSX(path, XLSXOptions{})
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, eris.Errorf("table: %s has no header row", path)
		}
		return &Table{Header: rows[0], Rows: rows[1:]}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "table: open file")
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, eris.Wrap(err, "table: open gzip stream")
		}
		defer gz.Close() //nolint:errcheck
		r = gz
		name = strings.TrimSuffix(name, ".gz")
	}

	opts := CSVOptions{HasHeader: true, LazyQuotes: true}
	if strings.HasSuffix(name, ".tsv") {
		opts.Delimiter = '\t'
	}
	return readDelimited(ctx, r, opts, path)
}

func readDelimited(ctx context.Context, r io.Reader, opts CSVOptions, path string) (*Table, error) {
	headerCh := make(chan []string, 1)
	opts.HeaderCh = headerCh

	rowCh, errCh := StreamCSV(ctx, r, opts)

	t := &Table{}
	for row := range rowCh {
		t.Rows = append(t.Rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrapf(err, "table: read %s", path)
	}

	select {
	case t.Header = <-headerCh:
	default:
		return nil, eris.Errorf("table: %s has no header row", path)
	}
	return t, nil
}
