package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"fraudview/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LoadFormModel asks for the path of a CSV or XLSX results file.
type LoadFormModel struct {
	input textinput.Model
	keys  FormKeyMap
	err   string
}

// NewLoadFormModel creates the form, prefilled with the last loaded path.
func NewLoadFormModel(keys FormKeyMap, lastPath string) LoadFormModel {
	in := textinput.New()
	in.Placeholder = "path/to/results.csv or .xlsx"
	in.CharLimit = 1024
	in.Prompt = "file> "
	in.TextStyle = lipgloss.NewStyle().Foreground(ColorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(ColorText).Background(ColorAccent)
	in.SetValue(lastPath)
	in.Focus()
	return LoadFormModel{input: in, keys: keys}
}

// Update handles form input.
func (m LoadFormModel) Update(msg tea.Msg) (LoadFormModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			return m, func() tea.Msg { return model.FormCancelledMsg{} }
		case key.Matches(keyMsg, m.keys.Submit):
			path, err := expandPath(m.input.Value())
			if err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.err = ""
			return m, func() tea.Msg { return model.LoadRequestedMsg{Path: path} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the form.
func (m LoadFormModel) View(width, height int) string {
	lines := []string{
		LabelStyle.Render("Load results file"),
		HelpDescStyle.Render("CSV or XLSX with a TransactionID column and an isFraud (0/1) column."),
		"",
		InputStyle.Width(min(width-4, 80)).Render(m.input.View()),
	}
	if m.err != "" {
		lines = append(lines, ErrorStyle.Render(m.err))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func expandPath(raw string) (string, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return "", errors.New("file path is required")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}
