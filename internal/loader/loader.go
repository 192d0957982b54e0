package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fraudview/internal/logging"
	"fraudview/internal/model"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Loader reads result files into datasets.
type Loader struct {
	log          *logging.Logger
	now          func() time.Time
	requireLabel bool
}

// Option configures a Loader.
type Option func(*Loader)

// LabelOptional accepts files without a label column, for input that the
// prediction stub will label afterwards.
func LabelOptional() Option {
	return func(l *Loader) { l.requireLabel = false }
}

// New creates a loader. A nil logger discards output.
func New(log *logging.Logger, opts ...Option) *Loader {
	l := &Loader{log: log, now: time.Now, requireLabel: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads a .csv or .xlsx file. Every failure is a *LoadError.
func (l *Loader) Load(ctx context.Context, path string) (model.Dataset, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return model.Dataset{}, loadErr(KindIO, path, errors.New("no file given"))
	}

	start := l.now()
	var (
		records [][]string
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx":
		records, err = readXLSX(path)
	default:
		return model.Dataset{}, loadErr(KindUnsupported, path, fmt.Errorf("extension %q", ext))
	}
	if err != nil {
		l.log.Error("load %s failed: %v", path, err)
		return model.Dataset{}, err
	}

	ds, err := l.FromRecords(ctx, path, records)
	if err != nil {
		l.log.Error("load %s failed: %v", path, err)
		return model.Dataset{}, err
	}
	l.log.Info("loaded %s id=%s rows=%d columns=%d in %s", path, ds.ID, ds.Len(), len(ds.Columns), l.now().Sub(start))
	return ds, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, loadErr(KindIO, path, err)
	}
	defer f.Close()

	records, err := parseCSV(f)
	if err != nil {
		return nil, loadErr(KindParse, path, err)
	}
	return records, nil
}

func parseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, loadErr(KindIO, path, err)
		}
		return nil, loadErr(KindParse, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, loadErr(KindEmpty, path, errors.New("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, loadErr(KindParse, path, fmt.Errorf("read sheet %q: %w", sheets[0], err))
	}
	return rows, nil
}

// FromRecords builds a dataset from a header row followed by data rows.
// It is the shared back half of every file format.
func (l *Loader) FromRecords(ctx context.Context, source string, records [][]string) (model.Dataset, error) {
	records = dropBlankRecords(records)
	if len(records) == 0 {
		return model.Dataset{}, loadErr(KindEmpty, source, errors.New("no header row"))
	}

	headers := normalizeHeaders(records[0])
	idCol, labelCol := -1, -1
	for i, h := range headers {
		switch h {
		case model.ColumnID:
			idCol = i
		case model.ColumnLabel:
			labelCol = i
		}
	}
	var missing []string
	if idCol < 0 {
		missing = append(missing, model.ColumnID)
	}
	if labelCol < 0 && l.requireLabel {
		missing = append(missing, model.ColumnLabel)
	}
	if len(missing) > 0 {
		return model.Dataset{}, loadErr(KindMissingColumn, source,
			fmt.Errorf("missing %s", strings.Join(missing, ", ")))
	}

	data := records[1:]
	rows := make([]model.Row, 0, len(data))
	unlabelled := 0
	for i, rec := range data {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return model.Dataset{}, loadErr(KindIO, source, err)
			}
		}

		values := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(rec) {
				values[h] = cleanCell(rec[j])
			} else {
				values[h] = ""
			}
		}

		row := model.Row{Index: i, ID: values[model.ColumnID], Values: values}
		if labelCol >= 0 {
			if v, ok := ParseLabel(values[model.ColumnLabel]); ok {
				row.Label = &v
			} else {
				unlabelled++
			}
		}
		rows = append(rows, row)
	}

	if unlabelled > 0 {
		l.log.Warn("%s: %d rows have no usable %s value", source, unlabelled, model.ColumnLabel)
	}

	return model.Dataset{
		ID:       uuid.NewString(),
		Source:   source,
		Columns:  headers,
		Rows:     rows,
		LoadedAt: l.now(),
	}, nil
}

func dropBlankRecords(records [][]string) [][]string {
	out := records[:0:0]
	for _, rec := range records {
		blank := true
		for _, c := range rec {
			if strings.TrimSpace(c) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out
}
