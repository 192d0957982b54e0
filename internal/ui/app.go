package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fraudview/internal/loader"
	"fraudview/internal/logging"
	"fraudview/internal/model"
	"fraudview/internal/predict"
	"fraudview/internal/table"
	"fraudview/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configure the root model.
type Options struct {
	// InitialFile is loaded on start; empty means sample data.
	InitialFile string
	// Predict runs the prediction stub once the first dataset is loaded.
	Predict     bool
	Sample      loader.SampleOptions
	LoadTimeout time.Duration
	// PrefsPath is where UI preferences live; empty disables persistence.
	PrefsPath string
	// PageSize overrides the saved page size when positive.
	PageSize int
}

// Model is the root Bubble Tea model.
type Model struct {
	loader    *loader.Loader
	predictor predict.Predictor
	log       *logging.Logger
	opts      Options
	now       func() time.Time

	screen model.Screen
	mode   model.Mode
	gState GState

	width  int
	height int

	error       string
	warning     string
	info        string
	showingHelp bool
	autoPredict bool
	spinner     spinner.Model

	// loadSeq numbers load requests; awaitingLoad is set until the latest one
	// lands. predictOrigin is the dataset ID of a running prediction.
	loadSeq       int
	awaitingLoad  bool
	predictOrigin string

	dataset  model.Dataset
	hasData  bool
	session  SessionState
	view     table.View
	lastPath string

	results  *ResultsModel
	loadForm *LoadFormModel

	keys      KeyMap
	formKeys  FormKeyMap
	prefs     UIPreferences
	undoStack []historyEntry
	redoStack []historyEntry
}

// New creates a new root model.
func New(l *loader.Loader, p predict.Predictor, log *logging.Logger, opts Options) Model {
	if opts.Sample.Rows == 0 && opts.Sample.Seed == 0 {
		metrics := opts.Sample.Metrics
		opts.Sample = loader.DefaultSampleOptions()
		opts.Sample.Metrics = metrics
	}
	if log == nil {
		log = logging.Discard()
	}

	prefs := loadUIPreferences(opts.PrefsPath)
	pageSize := prefs.PageSize
	if opts.PageSize > 0 {
		pageSize = opts.PageSize
	}
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	m := Model{
		loader:      l,
		predictor:   p,
		log:         log,
		opts:        opts,
		now:         time.Now,
		screen:      model.ScreenResults,
		mode:        model.ModeNav,
		gState:      GStateIdle,
		autoPredict: opts.Predict,
		spinner:     sp,
		session:     NewSessionState(model.ParseFilter(prefs.Filter), pageSize),
		lastPath:    opts.InitialFile,
		keys:        DefaultKeyMap(),
		formKeys:    DefaultFormKeyMap(),
		prefs:       prefs,
	}
	m.beginLoad()
	m.refresh()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.opts.InitialFile == "" {
		return tea.Batch(m.spinner.Tick, sampleCmd(m.loader, m.opts.Sample, false, m.loadSeq))
	}
	return tea.Batch(m.spinner.Tick, loadFileCmd(m.loader, m.opts.InitialFile, m.opts.LoadTimeout, m.loadSeq))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle ctrl+c globally
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.mode == model.ModeInsert {
			return m.handleInsertMode(msg)
		}

		if key.Matches(msg, m.keys.Help) {
			m.showingHelp = !m.showingHelp
			return m, nil
		}

		if m.showingHelp {
			if msg.String() == "esc" {
				m.showingHelp = false
			}
			return m, nil
		}

		return m.handleNavMode(msg)

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case model.DatasetLoadedMsg:
		return m.handleDatasetLoaded(msg)

	case model.PredictionsReadyMsg:
		if msg.Origin == m.predictOrigin {
			m.predictOrigin = ""
		}
		if msg.Origin != m.dataset.ID {
			m.log.Debug("dropping predictions for replaced dataset id=%s", msg.Origin)
			return m, nil
		}
		if msg.Err != nil {
			m.error = msg.Err.Error()
			m.log.Error("%v", msg.Err)
			return m, nil
		}
		m.pushHistory("prediction")
		m.setDataset(msg.Dataset)
		m.error = ""
		m.info = fmt.Sprintf("Predictions generated for %s transactions", formatRows(msg.Dataset))
		return m, nil

	case model.LoadRequestedMsg:
		m.closeForm()
		m.lastPath = msg.Path
		m.info = ""
		seq := m.beginLoad()
		return m, tea.Batch(m.spinner.Tick, loadFileCmd(m.loader, msg.Path, m.opts.LoadTimeout, seq))

	case model.FormCancelledMsg:
		m.closeForm()
		return m, nil

	default:
		// Pass all other messages to the form
		if m.mode == model.ModeInsert {
			return m.handleInsertMode(msg)
		}
	}

	return m, nil
}

func (m Model) handleDatasetLoaded(msg model.DatasetLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.loadSeq {
		m.log.Debug("dropping reply to superseded load seq=%d latest=%d", msg.Seq, m.loadSeq)
		return m, nil
	}
	if msg.Err != nil {
		m.error = "Error loading file: " + msg.Err.Error()
		m.warning = "Using sample data instead"
		var le *loader.LoadError
		if errors.As(msg.Err, &le) && le.Kind == loader.KindMissingColumn {
			m.warning = "Required columns missing. Using sample data instead"
		}
		m.info = ""
		m.log.Warn("load failed, substituting sample: %v", msg.Err)
		return m, sampleCmd(m.loader, m.opts.Sample, true, msg.Seq)
	}

	m.awaitingLoad = false
	ds := msg.Dataset
	label := "load " + ds.Source
	if ds.Source == loader.SampleSource {
		label = "sample data"
	}
	m.pushHistory(label)
	m.setDataset(ds)

	switch {
	case msg.Fallback:
		m.info = ""
	case ds.Source == loader.SampleSource && m.opts.InitialFile == "" && len(m.undoStack) == 0:
		m.error, m.warning = "", ""
		m.info = "No file loaded - displaying sample data."
	case ds.Source == loader.SampleSource:
		m.error, m.warning = "", ""
		m.info = fmt.Sprintf("Sample data loaded - %s rows", formatRows(ds))
	default:
		m.error, m.warning = "", ""
		m.info = fmt.Sprintf("File loaded successfully - %s rows loaded", formatRows(ds))
	}

	if m.autoPredict {
		m.autoPredict = false
		return m, m.startPrediction()
	}
	return m, nil
}

// setDataset replaces the dataset wholesale and resets to page 1.
func (m *Model) setDataset(ds model.Dataset) {
	m.dataset = ds
	m.hasData = true
	m.results = NewResultsModel(ds.Columns)
	m.results.ApplyPrefs(m.prefs)
	m.session.Page = 1
	m.refresh()
}

// refresh runs one render cycle and writes the clamped page back into the
// session.
func (m *Model) refresh() {
	m.view = table.Render(m.dataset, m.session.Request())
	m.session.Sync(m.view.Page)
	if m.results != nil {
		m.results.ClampCursor(len(m.view.Page.Rows))
	}
}

// beginLoad supersedes any load still in flight and returns the new request number.
func (m *Model) beginLoad() int {
	m.loadSeq++
	m.awaitingLoad = true
	return m.loadSeq
}

func (m Model) loading() bool {
	return m.awaitingLoad || m.predictOrigin != ""
}

func (m *Model) startPrediction() tea.Cmd {
	if m.predictor == nil || !m.hasData {
		return nil
	}
	m.predictOrigin = m.dataset.ID
	return tea.Batch(m.spinner.Tick, predictCmd(m.predictor, m.dataset, m.opts.LoadTimeout))
}

func (m *Model) closeForm() {
	m.mode = model.ModeNav
	m.screen = model.ScreenResults
	m.loadForm = nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	breadcrumbParts := []string{"Results"}
	if m.screen == model.ScreenLoadForm {
		breadcrumbParts = append(breadcrumbParts, "Load file")
	}
	header := renderHeader(breadcrumbParts, m.now(), m.width)
	footer := RenderHelp(m.screen, m.keys, m.formKeys, m.width)

	var banners []string
	if m.error != "" {
		banners = append(banners, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.warning != "" {
		banners = append(banners, WarningStyle.Width(m.width).Render("Warning: "+m.warning))
	}
	if m.info != "" {
		banners = append(banners, SuccessStyle.Width(m.width).Render(m.info))
	}
	if m.loading() {
		banners = append(banners, HelpDescStyle.Render(" "+m.spinner.View()+" Loading..."))
	}

	var body string
	if m.screen == model.ScreenLoadForm && m.loadForm != nil {
		body = m.loadForm.View(m.width, m.height)
	} else {
		body = m.renderResults(m.height - lipgloss.Height(header) - lipgloss.Height(footer) - len(banners))
	}

	parts := []string{header}
	parts = append(parts, banners...)
	parts = append(parts, body)

	used := 0
	for _, p := range parts {
		used += lipgloss.Height(p)
	}
	// Ensure content fills the available height to anchor footer at bottom
	if pad := m.height - used - lipgloss.Height(footer); pad > 0 {
		parts = append(parts, strings.Repeat("\n", pad-1))
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderResults(height int) string {
	pills := renderFilterPills(m.session.Filter, m.session.PageSize)
	stats := renderStatsPanel(m.view, m.hasData, m.width)
	about := renderAbout(m.dataset, m.hasData, m.predictorName(), util.FormatLoadedAt(m.dataset.LoadedAt, m.now()))

	tableHeight := height - lipgloss.Height(pills) - lipgloss.Height(stats) - lipgloss.Height(about)
	var tbl string
	if m.results != nil {
		tbl = m.results.View(m.view, m.width, tableHeight)
	} else {
		tbl = EmptyStateStyle.Width(m.width).Render("No data loaded.")
	}

	return lipgloss.JoinVertical(lipgloss.Left, pills, tbl, stats, about)
}

func (m Model) predictorName() string {
	if m.predictor == nil {
		return ""
	}
	return "placeholder stub, not a trained model"
}

func renderHeader(breadcrumbParts []string, now time.Time, width int) string {
	// Left side: app name + breadcrumb
	title := HeaderStyle.Render("fraudview")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	// Right side: current date
	right := BreadcrumbStyle.Render(now.Format("Mon 02 Jan")) + "  "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	headerContent := left + strings.Repeat(" ", padding) + right
	return TitleStyle.Width(width).Render(headerContent)
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle "gg" state machine
	if key.Matches(msg, m.keys.FirstPage) {
		if m.gState == GStateIdle {
			m.gState = GStateFirstG
			return m, nil
		}
		m.gState = GStateIdle
		m.session.Page = 1
		m.refresh()
		m.resetCursor()
		return m, nil
	}
	m.gState = GStateIdle

	if t := m.currentTable(); t != nil {
		switch {
		case key.Matches(msg, m.keys.NextColumn):
			t.NextColumn()
			m.persistPrefs()
			return m, nil
		case key.Matches(msg, m.keys.PrevColumn):
			t.PrevColumn()
			m.persistPrefs()
			return m, nil
		case key.Matches(msg, m.keys.HideColumn):
			if t.HideActiveColumn() {
				m.info = "Column hidden"
				m.persistPrefs()
			} else {
				m.info = "Cannot hide last visible column"
			}
			return m, nil
		case key.Matches(msg, m.keys.ShowColumns):
			t.ShowAllColumns()
			m.info = "All columns shown"
			m.persistPrefs()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if m.results != nil {
			m.results.MoveDown(len(m.view.Page.Rows))
		}
	case key.Matches(msg, m.keys.Up):
		if m.results != nil {
			m.results.MoveUp()
		}

	case key.Matches(msg, m.keys.NextPage):
		m.changePage(1)
	case key.Matches(msg, m.keys.PrevPage):
		m.changePage(-1)
	case key.Matches(msg, m.keys.LastPage):
		m.session.Page = m.view.Page.TotalPages
		m.refresh()
		m.resetCursor()

	case key.Matches(msg, m.keys.ShowAll):
		m.setFilter(model.FilterAll)
	case key.Matches(msg, m.keys.FraudOnly):
		m.setFilter(model.FilterFraud)
	case key.Matches(msg, m.keys.LegitOnly):
		m.setFilter(model.FilterLegit)
	case key.Matches(msg, m.keys.CycleFilter):
		m.setFilter(m.session.Filter.Next())

	case key.Matches(msg, m.keys.SmallerPage):
		m.stepPageSize(-1)
	case key.Matches(msg, m.keys.LargerPage):
		m.stepPageSize(1)

	case key.Matches(msg, m.keys.Open):
		form := NewLoadFormModel(m.formKeys, m.lastPath)
		m.loadForm = &form
		m.screen = model.ScreenLoadForm
		m.mode = model.ModeInsert
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Sample):
		seq := m.beginLoad()
		return m, tea.Batch(m.spinner.Tick, sampleCmd(m.loader, m.opts.Sample, false, seq))
	case key.Matches(msg, m.keys.Predict):
		if !m.hasData {
			m.info = "Nothing to predict"
			return m, nil
		}
		if m.predictor == nil {
			m.info = "Prediction is not configured"
			return m, nil
		}
		return m, m.startPrediction()

	case key.Matches(msg, m.keys.Undo):
		if !m.undoLoad() {
			m.info = "Nothing to undo"
		}
	case key.Matches(msg, m.keys.Redo):
		if !m.redoLoad() {
			m.info = "Nothing to redo"
		}
	}

	return m, nil
}

func (m *Model) changePage(delta int) {
	m.session.Move(delta)
	m.refresh()
	m.resetCursor()
}

func (m *Model) setFilter(f model.FilterSelection) {
	m.session.SetFilter(f)
	m.refresh()
	m.resetCursor()
	m.persistPrefs()
}

func (m *Model) stepPageSize(delta int) {
	m.session.StepPageSize(delta)
	m.refresh()
	m.resetCursor()
	m.persistPrefs()
}

func (m *Model) resetCursor() {
	if m.results != nil {
		m.results.ResetCursor()
	}
}

func (m *Model) currentTable() tableController {
	if m.screen == model.ScreenResults && m.results != nil {
		return m.results
	}
	return nil
}

func (m *Model) persistPrefs() {
	m.prefs.PageSize = m.session.PageSize
	m.prefs.Filter = m.session.Filter.Key()
	if m.results != nil {
		m.prefs = m.results.Prefs(m.prefs)
	}
	if err := saveUIPreferences(m.opts.PrefsPath, m.prefs); err != nil {
		m.log.Warn("save ui prefs: %v", err)
	}
}

// handleInsertMode handles load form input.
func (m Model) handleInsertMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.loadForm == nil {
		m.closeForm()
		return m, nil
	}
	form, cmd := m.loadForm.Update(msg)
	m.loadForm = &form
	return m, cmd
}

// SessionState returns the current view state.
func (m Model) SessionState() SessionState {
	return m.session
}

// CurrentView returns the last rendered page and statistics.
func (m Model) CurrentView() table.View {
	return m.view
}

func loadFileCmd(l *loader.Loader, path string, timeout time.Duration, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		ds, err := l.Load(ctx, path)
		if err != nil {
			return model.DatasetLoadedMsg{Err: err, Seq: seq}
		}
		return model.DatasetLoadedMsg{Dataset: ds, Seq: seq}
	}
}

func sampleCmd(l *loader.Loader, opts loader.SampleOptions, fallback bool, seq int) tea.Cmd {
	return func() tea.Msg {
		return model.DatasetLoadedMsg{Dataset: l.Sample(opts), Fallback: fallback, Seq: seq}
	}
}

func predictCmd(p predict.Predictor, ds model.Dataset, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		out, err := predict.Run(ctx, p, ds)
		if err != nil {
			return model.PredictionsReadyMsg{Origin: ds.ID, Err: fmt.Errorf("prediction failed: %w", err)}
		}
		return model.PredictionsReadyMsg{Origin: ds.ID, Dataset: out}
	}
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}

func formatRows(ds model.Dataset) string {
	return util.FormatCount(ds.Len())
}
