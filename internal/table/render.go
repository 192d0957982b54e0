package table

import "fraudview/internal/model"

// Request is the per-render input taken from the caller's session state.
type Request struct {
	Filter   model.FilterSelection
	PageSize int
	Page     int
}

// View is everything the presentation layer needs for one frame.
type View struct {
	Page          model.Page
	Stats         model.Statistics
	Warnings      []model.Warning
	FilteredCount int
}

// Render runs one filter, paginate and statistics cycle.
func Render(ds model.Dataset, req Request) View {
	rows, warnings := ApplyFilter(ds, req.Filter)
	page := Paginate(rows, req.PageSize, req.Page)
	st, statWarnings := ComputeStatistics(ds)

	return View{
		Page:          page,
		Stats:         st,
		Warnings:      mergeWarnings(warnings, statWarnings),
		FilteredCount: len(rows),
	}
}

// mergeWarnings keeps one warning per column; the filter and statistics passes
// both notice the same missing labels.
func mergeWarnings(groups ...[]model.Warning) []model.Warning {
	var out []model.Warning
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, w := range g {
			if seen[w.Column] {
				continue
			}
			seen[w.Column] = true
			out = append(out, w)
		}
	}
	return out
}
