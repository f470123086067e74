package table

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/agentstation/ingest/pkg/constants"
	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/logging"
	"github.com/agentstation/ingest/pkg/rows"
)

// CSVTable reads one CSV file and writes the annotated copy to another.
type CSVTable struct {
	grid
	in  string
	out string
}

// NewCSV creates a CSV table. The output path gets a .csv extension when it
// has none.
func NewCSV(in, out string) *CSVTable {
	return &CSVTable{in: expandHome(in), out: OutputPath(expandHome(out))}
}

// OutputPath returns path with a .csv extension added if it lacks one.
func OutputPath(path string) string {
	if filepath.Ext(path) == "" {
		return path + constants.CSVExtension
	}
	return path
}

// Describe implements Table.
func (t *CSVTable) Describe() (string, string) {
	return "csv", t.in
}

// Output is the resolved destination path.
func (t *CSVTable) Output() string {
	return t.out
}

// Read implements Table. A leading UTF-8 byte order mark is dropped and
// records may have differing lengths.
func (t *CSVTable) Read(ctx context.Context) ([]*rows.Row, error) {
	f, err := os.Open(t.in)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewAdapterError("csv", "open", t.in, errors.Join(errors.ErrNotFound, err))
		}
		return nil, errors.NewAdapterError("csv", "open", t.in, err)
	}
	defer func() { _ = f.Close() }()

	records, err := readCSV(f, t.in)
	if err != nil {
		return nil, errors.NewAdapterError("csv", "read", t.in, err)
	}

	parsed, err := t.load(records)
	if err != nil {
		return nil, errors.NewAdapterError("csv", "read", t.in, err)
	}
	if extra := t.header.Extra(); len(extra) > 0 {
		logging.FromContext(ctx).Debug().Strs("columns", extra).Msg("Keeping extra columns")
	}
	return parsed, nil
}

func readCSV(r io.Reader, name string) ([][]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, &errors.ParseError{
				Format:  "csv",
				File:    name,
				Line:    parseErr.Line,
				Message: parseErr.Err.Error(),
				Err:     err,
			}
		}
		return nil, errors.WrapIO("read", name, err)
	}
	return records, nil
}

// Write implements Table. The file is written to a temporary sibling and
// renamed into place so a failed write never leaves a truncated output.
func (t *CSVTable) Write(ctx context.Context, processed []*rows.Row) error {
	if !t.read {
		return errors.NewAdapterError("csv", "write", t.out, errors.New("table was not read"))
	}

	dir := filepath.Dir(t.out)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.NewAdapterError("csv", "write", t.out, errors.WrapIO("create", dir, err))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(t.out)+".*")
	if err != nil {
		return errors.NewAdapterError("csv", "write", t.out, errors.WrapIO("create", dir, err))
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	_, records := t.render(processed)
	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		_ = tmp.Close()
		return errors.NewAdapterError("csv", "write", t.out, errors.WrapIO("write", tmp.Name(), err))
	}
	if err := tmp.Close(); err != nil {
		return errors.NewAdapterError("csv", "write", t.out, errors.WrapIO("close", tmp.Name(), err))
	}
	if err := os.Chmod(tmp.Name(), constants.FilePermissions); err != nil {
		return errors.NewAdapterError("csv", "write", t.out, errors.WrapIO("chmod", tmp.Name(), err))
	}
	if err := os.Rename(tmp.Name(), t.out); err != nil {
		return errors.NewAdapterError("csv", "write", t.out, errors.WrapIO("rename", t.out, err))
	}

	logging.FromContext(ctx).Debug().Str("path", t.out).Int("rows", len(processed)).Msg("CSV written")
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
