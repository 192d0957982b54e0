package table

import (
	"math"
	"strconv"
	"strings"

	"fraudview/internal/model"

	"github.com/montanaflynn/stats"
)

// ComputeStatistics summarises the whole dataset. It never consults filter or
// pagination state.
func ComputeStatistics(ds model.Dataset) (model.Statistics, []model.Warning) {
	st := model.Statistics{TotalRecords: len(ds.Rows)}
	if st.TotalRecords == 0 {
		return st, nil
	}

	for _, r := range ds.Rows {
		switch {
		case !r.HasLabel():
			st.MissingLabel++
		case *r.Label == model.LabelFraud:
			st.LabelOneCount++
		case *r.Label == model.LabelLegit:
			st.LabelZeroCount++
		}
	}
	st.LabelOneRate = Rate(st.LabelOneCount, st.TotalRecords)
	st.Scores = summarizeScores(ds)

	if st.MissingLabel == 0 {
		return st, nil
	}
	return st, []model.Warning{missingLabelWarning(st.MissingLabel, "statistics")}
}

// Rate returns part/total as a percentage rounded to one decimal place.
func Rate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// summarizeScores aggregates every pass-through column whose cells are all
// numeric. Blank cells are skipped; one non-numeric cell disqualifies the column.
func summarizeScores(ds model.Dataset) []model.ScoreSummary {
	var out []model.ScoreSummary
	for _, col := range ds.ScoreColumns() {
		values, ok := numericColumn(ds.Rows, col)
		if !ok || len(values) == 0 {
			continue
		}
		out = append(out, summarize(col, values))
	}
	return out
}

func numericColumn(rows []model.Row, col string) (stats.Float64Data, bool) {
	values := make(stats.Float64Data, 0, len(rows))
	for _, r := range rows {
		cell := strings.TrimSpace(r.Value(col))
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

func summarize(col string, values stats.Float64Data) model.ScoreSummary {
	s := model.ScoreSummary{Column: col, Count: values.Len()}
	// Errors only occur for empty input, which the caller rules out.
	s.Mean, _ = values.Mean()
	s.Median, _ = values.Median()
	s.Min, _ = values.Min()
	s.Max, _ = values.Max()
	return s
}
