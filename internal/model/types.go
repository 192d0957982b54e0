package model

import "time"

// Canonical column names shared by the loader, predictor and views.
const (
	ColumnID    = "TransactionID"
	ColumnLabel = "isFraud"
)

// Label values.
const (
	LabelLegit = 0
	LabelFraud = 1
)

// Row represents one transaction in load order.
type Row struct {
	Index  int
	ID     string
	Label  *int              // nil when the label cell is absent or unparseable
	Values map[string]string // raw cell text keyed by column name
}

// HasLabel reports whether the row carries a usable binary label.
func (r Row) HasLabel() bool {
	return r.Label != nil
}

// LabelIs reports whether the row's label equals v.
func (r Row) LabelIs(v int) bool {
	return r.Label != nil && *r.Label == v
}

// Value returns the raw cell for column, or "" when absent.
func (r Row) Value(column string) string {
	if r.Values == nil {
		return ""
	}
	return r.Values[column]
}

// Dataset is the full, currently loaded ordered set of rows.
type Dataset struct {
	ID       string
	Source   string // file path, or "sample"
	Columns  []string
	Rows     []Row
	LoadedAt time.Time
}

// Len returns the number of rows.
func (d Dataset) Len() int {
	return len(d.Rows)
}

// HasColumn reports whether the dataset declares column.
func (d Dataset) HasColumn(column string) bool {
	for _, c := range d.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// ScoreColumns returns the pass-through columns other than the id and label.
func (d Dataset) ScoreColumns() []string {
	var cols []string
	for _, c := range d.Columns {
		if c == ColumnID || c == ColumnLabel {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// FilterSelection narrows displayed rows by label value.
type FilterSelection int

const (
	FilterAll FilterSelection = iota
	FilterFraud
	FilterLegit
)

// Label returns the label value the filter keeps and whether it filters at all.
func (f FilterSelection) Label() (int, bool) {
	switch f {
	case FilterFraud:
		return LabelFraud, true
	case FilterLegit:
		return LabelLegit, true
	default:
		return 0, false
	}
}

// Next cycles All -> Fraud -> Legit -> All.
func (f FilterSelection) Next() FilterSelection {
	switch f {
	case FilterAll:
		return FilterFraud
	case FilterFraud:
		return FilterLegit
	default:
		return FilterAll
	}
}

func (f FilterSelection) String() string {
	switch f {
	case FilterFraud:
		return "Fraud Only"
	case FilterLegit:
		return "Not Fraud Only"
	default:
		return "Show All"
	}
}

// ParseFilter maps a stored name back to a selection. Unknown names are ShowAll.
func ParseFilter(s string) FilterSelection {
	switch s {
	case "fraud":
		return FilterFraud
	case "legit":
		return FilterLegit
	default:
		return FilterAll
	}
}

// Key is the short stable name used in preferences.
func (f FilterSelection) Key() string {
	switch f {
	case FilterFraud:
		return "fraud"
	case FilterLegit:
		return "legit"
	default:
		return "all"
	}
}

// PageSizes is the enumerated set of rows-per-page options.
var PageSizes = []int{10, 25, 50, 100}

// DefaultPageSize is used when no preference exists.
const DefaultPageSize = 25

// Page is one bounded, contiguous slice of the filtered rows.
type Page struct {
	Rows        []Row
	CurrentPage int
	TotalPages  int
	PageSize    int
	Start       int // index of the first row on the page within the filtered rows
	End         int // one past the last row
	TotalRows   int
}

// ScoreSummary aggregates one numeric pass-through column.
type ScoreSummary struct {
	Column string
	Count  int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

// Statistics describe the whole loaded dataset, never the filtered view.
type Statistics struct {
	TotalRecords   int
	LabelOneCount  int
	LabelZeroCount int
	LabelOneRate   float64 // percentage, one decimal
	MissingLabel   int
	Scores         []ScoreSummary
}

// WarningKind classifies non-fatal problems.
type WarningKind int

const (
	WarnMissingColumn WarningKind = iota
)

// Warning is reported alongside results; it never aborts an operation.
type Warning struct {
	Kind    WarningKind
	Column  string
	Rows    int
	Message string
}
