// Package tabular writes the flat output tables as CSV files whose header
// always comes from an explicit schema, never from the data.
package tabular

import (
	"bufio"
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	"github.com/turtacn/drugflat/internal/domain/drug"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugflat/pkg/errors"
)

// Row is anything that renders itself as one line of cells.
type Row interface {
	Cells() []string
}

// RowSource gives indexed access to the rows of one table.
type RowSource interface {
	Len() int
	Cells(i int) []string
}

// Slice adapts a slice of rows to RowSource.
type Slice[T Row] []T

// Len implements RowSource.
func (s Slice[T]) Len() int { return len(s) }

// Cells implements RowSource.
func (s Slice[T]) Cells(i int) []string { return s[i].Cells() }

// TableResult describes one written file.
type TableResult struct {
	Name     string
	File     string
	Path     string
	Rows     int
	Bytes    int64
	Columns  []string
	Duration time.Duration
}

// Writer writes tables into one output directory.
type Writer struct {
	dir    string
	logger logging.Logger
}

// NewWriter creates dir if needed and returns a writer rooted there.
func NewWriter(dir string, logger logging.Logger) (*Writer, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeOutputDirInvalid, "output directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeOutputDirInvalid, "create output directory").WithDetail(dir)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Writer{dir: dir, logger: logger}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Write writes rows under schema. The header is written even when there are
// no rows. Rows go to a temporary file that replaces the table only once it
// is complete; a row whose width differs from the schema aborts the write
// with TAB_002 and leaves any previous table in place.
func (w *Writer) Write(schema drug.TableSchema, rows RowSource) (res TableResult, err error) {
	start := time.Now()
	path := filepath.Join(w.dir, schema.File)
	res = TableResult{Name: schema.Name, File: schema.File, Path: path, Columns: schema.Columns}

	tmp := path + tempSuffix
	f, err := os.Create(tmp)
	if err != nil {
		return res, errors.Wrap(err, errors.ErrCodeTableWriteFailed, "create table file").WithDetail(tmp)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	buf := bufio.NewWriterSize(f, 1<<16)
	cw := csv.NewWriter(buf)
	if err := cw.Write(schema.Columns); err != nil {
		return res, errors.Wrap(err, errors.ErrCodeTableWriteFailed, "write header").WithDetail(schema.Name)
	}

	width := len(schema.Columns)
	n := 0
	if rows != nil {
		n = rows.Len()
	}
	for i := 0; i < n; i++ {
		cells := rows.Cells(i)
		if len(cells) != width {
			return res, errors.Newf(errors.ErrCodeSchemaMismatch,
				"table %s row %d has %d cells, schema has %d columns", schema.Name, i, len(cells), width)
		}
		if err := cw.Write(cells); err != nil {
			return res, errors.Wrap(err, errors.ErrCodeTableWriteFailed, "write row").WithDetail(schema.Name)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return res, errors.Wrap(err, errors.ErrCodeTableWriteFailed, "flush table").WithDetail(schema.Name)
	}
	if err := buf.Flush(); err != nil {
		return res, errors.Wrap(err, errors.ErrCodeTableWriteFailed, "flush table").WithDetail(schema.Name)
	}
	if info, statErr := f.Stat(); statErr == nil {
		res.Bytes = info.Size()
	}
	if err := commit(f, tmp, path); err != nil {
		return res, err
	}

	res.Rows = n
	res.Duration = time.Since(start)
	w.logger.Info("table written",
		logging.String("table", schema.Name),
		logging.String("path", path),
		logging.Int("rows", n),
		logging.Int("columns", width),
		logging.Duration("duration", res.Duration))
	return res, nil
}

// tempSuffix marks a table that is still being written.
const tempSuffix = ".tmp"

// commit closes f and renames tmp onto path.
func commit(f *os.File, tmp, path string) error {
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeTableWriteFailed, "close table file").WithDetail(tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, errors.ErrCodeTableWriteFailed, "rename table file").WithDetail(path)
	}
	return nil
}
