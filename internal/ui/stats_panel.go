package ui

import (
	"fmt"
	"strings"

	"fraudview/internal/model"
	"fraudview/internal/table"
	"fraudview/internal/util"

	"github.com/charmbracelet/lipgloss"
)

// renderFilterPills shows the three filter choices with the active one highlighted.
func renderFilterPills(active model.FilterSelection, pageSize int) string {
	var pills []string
	for _, f := range []model.FilterSelection{model.FilterAll, model.FilterFraud, model.FilterLegit} {
		style := PillStyle
		if f == active {
			style = ActivePillStyle
		}
		pills = append(pills, style.Render(f.String()))
	}

	var sizes []string
	for _, s := range model.PageSizes {
		style := PillStyle
		if s == pageSize {
			style = ActivePillStyle
		}
		sizes = append(sizes, style.Render(fmt.Sprint(s)))
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		LabelStyle.Render("Filter "),
		strings.Join(pills, " "),
		LabelStyle.Render("   Rows per page "),
		strings.Join(sizes, " "),
	)
}

// renderStatsPanel renders statistics over the whole loaded dataset. hasData
// false is the "nothing loaded" state, distinct from an empty dataset.
func renderStatsPanel(v table.View, hasData bool, width int) string {
	if !hasData {
		return EmptyStateStyle.Width(width).Render("Cannot display overall statistics as no data is loaded.")
	}

	st := v.Stats
	items := []string{
		statItem(util.FormatCount(st.TotalRecords), "Total Records", StatNumberStyle),
		statItem(util.FormatCount(st.LabelOneCount), "Fraud Cases", StatNumberStyle.Foreground(ColorRed)),
		statItem(util.FormatCount(st.LabelZeroCount), "Legitimate Cases", StatNumberStyle.Foreground(ColorGreen)),
		statItem(util.FormatPercent(st.LabelOneRate), "Fraud Rate", StatNumberStyle),
	}
	if st.MissingLabel > 0 {
		items = append(items, statItem(util.FormatCount(st.MissingLabel), "Missing Label", StatNumberStyle.Foreground(ColorYellow)))
	}

	sections := []string{
		LabelStyle.Render("Statistics Overview (Overall Data)"),
		lipgloss.JoinHorizontal(lipgloss.Top, items...),
	}

	if len(st.Scores) > 0 {
		lines := []string{LabelStyle.Render("Score Columns")}
		lines = append(lines, TableHeaderStyle.Render(fmt.Sprintf("%-12s %8s %8s %8s %8s %8s", "COLUMN", "COUNT", "MEAN", "MEDIAN", "MIN", "MAX")))
		for _, s := range st.Scores {
			lines = append(lines, fmt.Sprintf("%-12s %8s %8.4f %8.4f %8.4f %8.4f",
				util.TruncateString(s.Column, 12), util.FormatCount(s.Count), s.Mean, s.Median, s.Min, s.Max))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	for _, w := range v.Warnings {
		sections = append(sections, WarningStyle.Render("⚠ "+w.Message))
	}

	return PanelStyle.Width(width - 2).Render(strings.Join(sections, "\n"))
}

func statItem(value, label string, valueStyle lipgloss.Style) string {
	return StatItemStyle.Render(lipgloss.JoinVertical(
		lipgloss.Center,
		valueStyle.Render(value),
		StatLabelStyle.Render(label),
	))
}

// renderAbout describes the loaded source.
func renderAbout(ds model.Dataset, hasData bool, predictor, loadedAt string) string {
	lines := []string{
		LabelStyle.Render("About"),
		HelpDescStyle.Render("Classification results for transactions, labelled 1 (fraud) or 0 (legitimate)."),
	}
	if hasData {
		source := ds.Source
		if source == "" {
			source = "—"
		}
		lines = append(lines,
			HelpDescStyle.Render(fmt.Sprintf("Source: %s  ·  %s rows  ·  loaded %s", source, util.FormatCount(ds.Len()), loadedAt)),
		)
	}
	if predictor != "" {
		lines = append(lines, HelpDescStyle.Render("Predictions: "+predictor))
	}
	return strings.Join(lines, "\n")
}
