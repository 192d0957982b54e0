package ui

import (
	"fmt"
	"strings"

	"fraudview/internal/model"
	"fraudview/internal/table"
	"fraudview/internal/util"

	"github.com/charmbracelet/lipgloss"
)

type resultColumn struct {
	key    string
	label  string
	width  int
	hidden bool
	score  bool
}

// ResultsModel renders the current page of the results table and tracks the
// cursor within that page. It owns no data: rows come from table.Render.
type ResultsModel struct {
	columns      []resultColumn
	activeColumn int
	cursor       int
	offset       int

	viewportHeight int
}

// NewResultsModel builds the column set for the given dataset columns.
func NewResultsModel(columns []string) *ResultsModel {
	m := &ResultsModel{}
	for _, c := range columns {
		col := resultColumn{key: c, label: c, width: 14}
		switch c {
		case model.ColumnID:
			col.width = 16
		case model.ColumnLabel:
			col.width = 12
		default:
			col.score = true
			col.width = max(12, lipgloss.Width(c)+4)
		}
		m.columns = append(m.columns, col)
	}
	return m
}

func (m *ResultsModel) ApplyPrefs(prefs UIPreferences) {
	if len(m.columns) == 0 {
		return
	}
	hidden := make(map[string]bool, len(prefs.HiddenColumns))
	for _, c := range prefs.HiddenColumns {
		hidden[c] = true
	}
	for i := range m.columns {
		m.columns[i].hidden = hidden[m.columns[i].key]
	}
	if prefs.ActiveColumn != "" {
		for i, c := range m.columns {
			if c.key == prefs.ActiveColumn {
				m.activeColumn = i
				break
			}
		}
	}
	m.ensureVisibleActiveColumn()
}

// Prefs writes the column state into prefs.
func (m *ResultsModel) Prefs(prefs UIPreferences) UIPreferences {
	var hidden []string
	for _, c := range m.columns {
		if c.hidden {
			hidden = append(hidden, c.key)
		}
	}
	prefs.HiddenColumns = hidden
	prefs.ActiveColumn = ""
	if len(m.columns) > 0 {
		prefs.ActiveColumn = m.columns[m.activeColumn].key
	}
	return prefs
}

func (m *ResultsModel) visibleColumnIndexes() []int {
	var idxs []int
	for i, c := range m.columns {
		if !c.hidden {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (m *ResultsModel) ensureVisibleActiveColumn() {
	if len(m.columns) == 0 || !m.columns[m.activeColumn].hidden {
		return
	}
	for i := range m.columns {
		if !m.columns[i].hidden {
			m.activeColumn = i
			return
		}
	}
	m.columns[0].hidden = false
	m.activeColumn = 0
}

func (m *ResultsModel) NextColumn() {
	if len(m.columns) == 0 {
		return
	}
	start := m.activeColumn
	for {
		m.activeColumn = (m.activeColumn + 1) % len(m.columns)
		if !m.columns[m.activeColumn].hidden || m.activeColumn == start {
			return
		}
	}
}

func (m *ResultsModel) PrevColumn() {
	if len(m.columns) == 0 {
		return
	}
	start := m.activeColumn
	for {
		m.activeColumn--
		if m.activeColumn < 0 {
			m.activeColumn = len(m.columns) - 1
		}
		if !m.columns[m.activeColumn].hidden || m.activeColumn == start {
			return
		}
	}
}

func (m *ResultsModel) HideActiveColumn() bool {
	if len(m.visibleColumnIndexes()) <= 1 {
		return false
	}
	m.columns[m.activeColumn].hidden = true
	m.ensureVisibleActiveColumn()
	return true
}

func (m *ResultsModel) ShowAllColumns() {
	for i := range m.columns {
		m.columns[i].hidden = false
	}
}

func (m *ResultsModel) TableMeta() string {
	if len(m.columns) == 0 {
		return ""
	}
	parts := []string{fmt.Sprintf("col %s", strings.ToUpper(m.columns[m.activeColumn].label))}
	if hidden := len(m.columns) - len(m.visibleColumnIndexes()); hidden > 0 {
		parts = append(parts, fmt.Sprintf("%d hidden", hidden))
	}
	return strings.Join(parts, "  ·  ")
}

// ClampCursor keeps the cursor on a row of a page holding n rows.
func (m *ResultsModel) ClampCursor(n int) {
	if n == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

// ResetCursor moves to the top of the page.
func (m *ResultsModel) ResetCursor() {
	m.cursor = 0
	m.offset = 0
}

// MoveDown moves the cursor down within a page of n rows.
func (m *ResultsModel) MoveDown(n int) {
	if m.cursor < n-1 {
		m.cursor++
		vh := m.viewportHeight
		if vh <= 0 {
			vh = 10
		}
		if m.cursor >= m.offset+vh {
			m.offset++
		}
	}
}

// MoveUp moves the cursor up.
func (m *ResultsModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
		if m.cursor < m.offset {
			m.offset--
		}
	}
}

// Cursor returns the cursor position within the page.
func (m *ResultsModel) Cursor() int {
	return m.cursor
}

// View renders the page described by v.
func (m *ResultsModel) View(v table.View, width, height int) string {
	page := v.Page
	if len(page.Rows) == 0 {
		msg := "No data matches the current filter criteria for table display."
		if page.TotalRows == 0 && v.Stats.TotalRecords == 0 {
			msg = "No data loaded. Press  o  to open a file or  r  for sample data."
		}
		empty := EmptyStateStyle.Width(width).Render(msg)
		return lipgloss.JoinVertical(lipgloss.Left, empty, m.statusLine(v))
	}

	visible := m.visibleColumnIndexes()
	widths := make([]int, 0, len(visible)+1)
	headers := make([]string, 0, len(visible)+1)

	// Row number column.
	widths = append(widths, max(5, len(fmt.Sprint(page.End))+2))
	headers = append(headers, "#")
	totalFixed := widths[0]

	for _, idx := range visible {
		col := m.columns[idx]
		label := strings.ToUpper(col.label)
		if idx == m.activeColumn {
			label = "❋ " + label
		}
		cellWidth := max(col.width, lipgloss.Width(label)+2)
		totalFixed += cellWidth
		widths = append(widths, cellWidth)
		headers = append(headers, label)
	}
	if extra := width - totalFixed - 2; extra > 0 {
		widths[len(widths)-1] += extra
	}

	header := renderTableRow(headers, widths, TableHeaderStyle)

	visibleHeight := height - 3
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	m.viewportHeight = visibleHeight
	if m.cursor >= m.offset+visibleHeight {
		m.offset = m.cursor - visibleHeight + 1
	}

	var rows []string
	for i := m.offset; i < len(page.Rows) && i < m.offset+visibleHeight; i++ {
		row := page.Rows[i]
		style := NormalRowStyle
		if i%2 == 1 {
			style = style.Background(ColorStripe)
		}
		selected := i == m.cursor
		if selected {
			style = SelectedRowStyle
		}

		cells := []string{fmt.Sprint(page.Start + i + 1)}
		for _, idx := range visible {
			col := m.columns[idx]
			switch {
			case col.key == model.ColumnID:
				cells = append(cells, util.TruncateString(row.ID, col.width-2))
			case col.key == model.ColumnLabel:
				cells = append(cells, renderLabelCell(row.Label, selected))
			case col.score:
				cells = append(cells, util.TruncateString(util.FormatScore(row.Value(col.key)), col.width-2))
			}
		}
		rows = append(rows, renderTableRow(cells, widths, style))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		strings.Join(rows, "\n"),
		m.statusLine(v),
	)
}

func (m *ResultsModel) statusLine(v table.View) string {
	p := v.Page
	parts := []string{
		fmt.Sprintf("page %d/%d", p.CurrentPage, p.TotalPages),
		util.RowRange(p.Start, p.End, p.TotalRows),
		fmt.Sprintf("%d per page", p.PageSize),
	}
	if v.FilteredCount != v.Stats.TotalRecords {
		parts = append(parts, fmt.Sprintf("filtered: %s/%s", util.FormatCount(v.FilteredCount), util.FormatCount(v.Stats.TotalRecords)))
	}
	if meta := m.TableMeta(); meta != "" {
		parts = append(parts, meta)
	}
	return StatusBarStyle.Render(strings.Join(parts, "  ·  "))
}

func renderLabelCell(label *int, selected bool) string {
	text := util.FormatLabel(label)
	if selected || label == nil {
		return text
	}
	if *label == model.LabelFraud {
		return FraudStyle.Render(text)
	}
	return SafeStyle.Render(text)
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		parts = append(parts, style.Width(widths[i]).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}
