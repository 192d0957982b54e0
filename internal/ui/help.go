package ui

import (
	"strings"

	"fraudview/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, keys KeyMap, formKeys FormKeyMap, width int) string {
	if screen == model.ScreenLoadForm {
		return renderHelpLine([]string{
			bindingHelp(formKeys.Submit),
			bindingHelp(formKeys.Cancel),
		}, width)
	}
	return renderHelpLine([]string{
		helpKey("j/k", "row"),
		helpKey("h/l", "page"),
		helpKey("1/2/3", "filter"),
		helpKey("[/]", "page size"),
		bindingHelp(keys.Open),
		bindingHelp(keys.Sample),
		bindingHelp(keys.Predict),
		helpKey("u/ctrl+r", "undo/redo"),
		bindingHelp(keys.Help),
		bindingHelp(keys.Quit),
	}, width)
}

func bindingHelp(b key.Binding) string {
	h := b.Help()
	return helpKey(h.Key, h.Desc)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Rows & Pages"),
		helpSection([]helpItem{
			{"j / ↓", "Move down within the page"},
			{"k / ↑", "Move up within the page"},
			{"h / ← / pgup", "Previous page"},
			{"l / → / pgdown", "Next page"},
			{"gg", "First page"},
			{"G", "Last page"},
			{"[ / ]", "Page size down / up (10, 25, 50, 100)"},
		}),
		titleSection("Filter"),
		helpSection([]helpItem{
			{"1", "Show all"},
			{"2", "Fraud only"},
			{"3", "Not fraud only"},
			{"f", "Cycle filter"},
		}),
		titleSection("Columns"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Cycle active column"},
			{"c / C", "Hide active column / show all"},
		}),
		titleSection("Data"),
		helpSection([]helpItem{
			{"o", "Open a CSV or XLSX file"},
			{"r", "Load sample data"},
			{"p", "Run the prediction stub on the loaded IDs"},
			{"u / ctrl+r", "Undo / redo the last load"},
		}),
		titleSection("Load Form"),
		helpSection([]helpItem{
			{"enter", "Load the file"},
			{"esc", "Cancel"},
		}),
		titleSection("General"),
		helpSection([]helpItem{
			{"?", "Toggle help"},
			{"q / ctrl+c", "Quit"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
