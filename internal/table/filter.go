package table

import (
	"fmt"

	"fraudview/internal/model"
)

// ApplyFilter returns the rows of ds matching sel, in dataset order.
// The result is always a new slice. Rows without a label are dropped by the
// label filters and reported as a single warning.
func ApplyFilter(ds model.Dataset, sel model.FilterSelection) ([]model.Row, []model.Warning) {
	want, filtering := sel.Label()
	if !filtering {
		return append([]model.Row(nil), ds.Rows...), nil
	}

	out := make([]model.Row, 0, len(ds.Rows))
	missing := 0
	for _, r := range ds.Rows {
		if !r.HasLabel() {
			missing++
			continue
		}
		if *r.Label == want {
			out = append(out, r)
		}
	}

	if missing == 0 {
		return out, nil
	}
	return out, []model.Warning{missingLabelWarning(missing, "filtering")}
}

func missingLabelWarning(rows int, op string) model.Warning {
	return model.Warning{
		Kind:    model.WarnMissingColumn,
		Column:  model.ColumnLabel,
		Rows:    rows,
		Message: fmt.Sprintf("'%s' missing on %d rows, excluded from %s", model.ColumnLabel, rows, op),
	}
}
