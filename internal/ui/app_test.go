package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"fraudview/internal/loader"
	"fraudview/internal/model"
	"fraudview/internal/predict"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataset(source string, labels ...int) model.Dataset {
	ds := model.Dataset{
		ID:      "ds-" + source,
		Source:  source,
		Columns: []string{model.ColumnID, model.ColumnLabel},
	}
	for i, l := range labels {
		l := l
		id := fmt.Sprintf("T%03d", i)
		ds.Rows = append(ds.Rows, model.Row{
			Index:  i,
			ID:     id,
			Label:  &l,
			Values: map[string]string{model.ColumnID: id, model.ColumnLabel: fmt.Sprint(l)},
		})
	}
	return ds
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	m := New(loader.New(nil), predict.NewSeeded(0.3), nil, opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "ctrl+r":
			msg = tea.KeyMsg{Type: tea.KeyCtrlR}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = send(t, m, msg)
	}
	return m
}

// drain runs cmd and returns every message it produces, expanding batches.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[T any](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	for _, msg := range drain(cmd) {
		if v, ok := msg.(T); ok {
			return v
		}
	}
	var zero T
	require.FailNowf(t, "message not produced", "%T", zero)
	return zero
}

func loaded(t *testing.T, m Model, ds model.Dataset) Model {
	t.Helper()
	m, _ = send(t, m, model.DatasetLoadedMsg{Dataset: ds, Seq: m.loadSeq})
	return m
}

func TestInitLoadsSampleWhenNoFile(t *testing.T) {
	m := newTestModel(t, Options{})
	assert.True(t, m.loading())

	msg := findMsg[model.DatasetLoadedMsg](t, m.Init())
	require.NoError(t, msg.Err)
	assert.False(t, msg.Fallback)

	m, _ = send(t, m, msg)
	assert.False(t, m.loading())
	assert.True(t, m.hasData)
	assert.Equal(t, "No file loaded - displaying sample data.", m.info)
	assert.Equal(t, 1000, m.CurrentView().Stats.TotalRecords)
	assert.Len(t, m.CurrentView().Page.Rows, model.DefaultPageSize)
}

func TestLoadFailureFallsBackToSample(t *testing.T) {
	m := newTestModel(t, Options{InitialFile: "missing.csv"})

	err := &loader.LoadError{Kind: loader.KindMissingColumn, Path: "bad.csv", Err: errors.New("missing isFraud column")}
	m, cmd := send(t, m, model.DatasetLoadedMsg{Err: err, Seq: m.loadSeq})
	assert.Contains(t, m.error, "Error loading file")
	assert.Equal(t, "Required columns missing. Using sample data instead", m.warning)
	assert.False(t, m.hasData)

	fallback := findMsg[model.DatasetLoadedMsg](t, cmd)
	assert.True(t, fallback.Fallback)
	assert.Equal(t, loader.SampleSource, fallback.Dataset.Source)

	m, _ = send(t, m, fallback)
	assert.True(t, m.hasData)
	assert.Contains(t, m.error, "Error loading file", "error stays visible after substitution")
	assert.Equal(t, 1000, m.CurrentView().Stats.TotalRecords)
}

func TestLoadFailureGenericWarning(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(t, m, model.DatasetLoadedMsg{Err: errors.New("boom"), Seq: m.loadSeq})
	assert.Equal(t, "Using sample data instead", m.warning)
}

func TestPagingClampsAtBounds(t *testing.T) {
	m := newTestModel(t, Options{PageSize: 10})
	m = loaded(t, m, dataset("a.csv", make([]int, 23)...))

	m = press(t, m, "l", "l", "l", "l")
	v := m.CurrentView()
	assert.Equal(t, 3, v.Page.CurrentPage)
	assert.Equal(t, 3, m.SessionState().Page, "clamped page is written back")
	assert.Len(t, v.Page.Rows, 3)
	assert.Equal(t, "T020", v.Page.Rows[0].ID)

	m = press(t, m, "h", "h", "h", "h")
	assert.Equal(t, 1, m.SessionState().Page)

	m = press(t, m, "G")
	assert.Equal(t, 3, m.SessionState().Page)

	m = press(t, m, "g")
	assert.Equal(t, 3, m.SessionState().Page, "single g waits for the second")
	m = press(t, m, "g")
	assert.Equal(t, 1, m.SessionState().Page)
}

func TestFilterKeysKeepStatisticsOverall(t *testing.T) {
	m := newTestModel(t, Options{})
	m = loaded(t, m, dataset("a.csv", 1, 0, 1, 0, 0, 1, 0, 0, 1, 0))

	m = press(t, m, "2")
	v := m.CurrentView()
	assert.Equal(t, model.FilterFraud, m.SessionState().Filter)
	assert.Equal(t, 4, v.FilteredCount)
	assert.Equal(t, 10, v.Stats.TotalRecords)
	assert.Equal(t, 4, v.Stats.LabelOneCount)
	assert.Equal(t, 6, v.Stats.LabelZeroCount)
	assert.InDelta(t, 40.0, v.Stats.LabelOneRate, 1e-9)

	m = press(t, m, "3")
	assert.Equal(t, 6, m.CurrentView().FilteredCount)

	m = press(t, m, "f")
	assert.Equal(t, model.FilterAll, m.SessionState().Filter)
	assert.Equal(t, 10, m.CurrentView().FilteredCount)
}

func TestFilterChangeReclampsPage(t *testing.T) {
	m := newTestModel(t, Options{PageSize: 10})
	labels := make([]int, 30)
	labels[0] = 1
	m = loaded(t, m, dataset("a.csv", labels...))

	m = press(t, m, "l", "l")
	require.Equal(t, 3, m.SessionState().Page)

	m = press(t, m, "2")
	assert.Equal(t, 1, m.SessionState().Page)
	assert.Equal(t, 1, m.CurrentView().Page.TotalPages)
}

func TestPageSizeKeys(t *testing.T) {
	m := newTestModel(t, Options{PageSize: 10})
	m = loaded(t, m, dataset("a.csv", make([]int, 60)...))

	m = press(t, m, "]")
	assert.Equal(t, 25, m.SessionState().PageSize)
	assert.Len(t, m.CurrentView().Page.Rows, 25)

	m = press(t, m, "]", "]", "]")
	assert.Equal(t, 100, m.SessionState().PageSize)
	assert.Equal(t, 1, m.CurrentView().Page.TotalPages)

	m = press(t, m, "[", "[", "[", "[")
	assert.Equal(t, 10, m.SessionState().PageSize)
}

func TestEmptyFilterResultShowsEmptyState(t *testing.T) {
	m := newTestModel(t, Options{})
	m = loaded(t, m, dataset("a.csv", 0, 0, 0))

	m = press(t, m, "2")
	v := m.CurrentView()
	assert.Empty(t, v.Page.Rows)
	assert.Equal(t, 1, v.Page.CurrentPage)
	assert.Equal(t, 1, v.Page.TotalPages)
	assert.Contains(t, m.View(), "No data matches the current filter criteria")
	assert.Contains(t, m.View(), "Statistics Overview")
}

func TestViewBeforeLoad(t *testing.T) {
	m := newTestModel(t, Options{})
	assert.Contains(t, m.View(), "Cannot display overall statistics as no data is loaded.")

	var zero Model
	assert.Empty(t, zero.View(), "nothing is drawn before the first WindowSizeMsg")
}

func TestUndoRedoLoads(t *testing.T) {
	m := newTestModel(t, Options{})
	m = loaded(t, m, dataset("a.csv", 1, 0))
	m = loaded(t, m, dataset("b.csv", 1, 1, 1))
	require.Equal(t, "b.csv", m.dataset.Source)

	m = press(t, m, "u")
	assert.Equal(t, "a.csv", m.dataset.Source)
	assert.Equal(t, 2, m.CurrentView().Stats.TotalRecords)
	assert.Equal(t, "Undid: load b.csv, showing a.csv (2 rows)", m.info)

	m = press(t, m, "u")
	assert.Equal(t, "Nothing to undo", m.info)

	m = press(t, m, "ctrl+r")
	assert.Equal(t, "b.csv", m.dataset.Source)
	assert.Equal(t, 3, m.CurrentView().Stats.TotalRecords)
	assert.Equal(t, "Redid: load b.csv, showing b.csv (3 rows)", m.info)

	m = press(t, m, "ctrl+r")
	assert.Equal(t, "Nothing to redo", m.info)
}

func TestHistoryIsBounded(t *testing.T) {
	m := newTestModel(t, Options{})
	for i := 0; i < historyLimit+5; i++ {
		m = loaded(t, m, dataset(fmt.Sprintf("%d.csv", i), 1))
	}
	assert.Len(t, m.undoStack, historyLimit)
}

func TestPredictKeyLabelsDataset(t *testing.T) {
	m := newTestModel(t, Options{})
	m = loaded(t, m, dataset("a.csv", 0, 0, 0, 0, 0))

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.True(t, m.loading())

	ready := findMsg[model.PredictionsReadyMsg](t, cmd)
	assert.Equal(t, 5, ready.Dataset.Len())

	m, _ = send(t, m, ready)
	assert.False(t, m.loading())
	assert.Equal(t, "Predictions generated for 5 transactions", m.info)
	assert.Len(t, m.undoStack, 1, "prediction is undoable")
}

func TestAutoPredictAfterFirstLoad(t *testing.T) {
	m := newTestModel(t, Options{Predict: true})
	m, cmd := send(t, m, model.DatasetLoadedMsg{Dataset: dataset("a.csv", 0, 1), Seq: m.loadSeq})
	findMsg[model.PredictionsReadyMsg](t, cmd)
	assert.False(t, m.autoPredict)

	_, cmd = send(t, m, model.DatasetLoadedMsg{Dataset: dataset("b.csv", 0, 1), Seq: m.loadSeq})
	assert.Nil(t, cmd)
}

func TestLoadFormFlow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.csv")
	require.NoError(t, os.WriteFile(path, []byte("TransactionID,isFraud\n1000001,1\n1000002,0\n1000003,0\n"), 0o644))

	m := newTestModel(t, Options{})
	m = press(t, m, "o")
	require.Equal(t, model.ScreenLoadForm, m.screen)
	require.Equal(t, model.ModeInsert, m.mode)

	// Keys go to the form while it is open.
	m = press(t, m, "q")
	assert.Equal(t, model.ScreenLoadForm, m.screen)

	m.loadForm.input.SetValue(path)
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	req := findMsg[model.LoadRequestedMsg](t, cmd)
	assert.Equal(t, path, req.Path)

	m, cmd = send(t, m, req)
	assert.Equal(t, model.ScreenResults, m.screen)
	assert.True(t, m.loading())

	m, _ = send(t, m, findMsg[model.DatasetLoadedMsg](t, cmd))
	assert.Equal(t, "File loaded successfully - 3 rows loaded", m.info)
	assert.Equal(t, 1, m.CurrentView().Stats.LabelOneCount)
}

func TestLoadFormRejectsEmptyPath(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(t, m, "o")
	m.loadForm.input.SetValue("   ")

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "file path is required", m.loadForm.err)

	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = send(t, m, findMsg[model.FormCancelledMsg](t, cmd))
	assert.Equal(t, model.ScreenResults, m.screen)
	assert.Nil(t, m.loadForm)
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(t, m, "?")
	assert.True(t, m.showingHelp)
	assert.Contains(t, m.View(), "Rows & Pages")

	m = press(t, m, "2")
	assert.Equal(t, model.FilterAll, m.SessionState().Filter, "keys are ignored while help is open")

	m = press(t, m, "esc")
	assert.False(t, m.showingHelp)
}

func TestPrefsPersistAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui_prefs.json")
	m := newTestModel(t, Options{PrefsPath: path})
	m = loaded(t, m, dataset("a.csv", 1, 0))

	press(t, m, "2", "]")

	prefs := loadUIPreferences(path)
	assert.Equal(t, "fraud", prefs.Filter)
	assert.Equal(t, 50, prefs.PageSize)

	next := New(loader.New(nil), nil, nil, Options{PrefsPath: path})
	assert.Equal(t, model.FilterFraud, next.SessionState().Filter)
	assert.Equal(t, 50, next.SessionState().PageSize)

	override := New(loader.New(nil), nil, nil, Options{PrefsPath: path, PageSize: 10})
	assert.Equal(t, 10, override.SessionState().PageSize)
}

func TestColumnKeys(t *testing.T) {
	m := newTestModel(t, Options{})
	m = loaded(t, m, dataset("a.csv", 1, 0))

	m = press(t, m, "c")
	assert.Equal(t, "Column hidden", m.info)
	m = press(t, m, "c")
	assert.Equal(t, "Cannot hide last visible column", m.info)
	m = press(t, m, "C")
	assert.Equal(t, "All columns shown", m.info)
	assert.Len(t, m.results.visibleColumnIndexes(), 2)
}

func TestPredictionForReplacedDatasetIsDropped(t *testing.T) {
	m := newTestModel(t, Options{})
	m = loaded(t, m, dataset("a.csv", 0, 0, 0))

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	ready := findMsg[model.PredictionsReadyMsg](t, cmd)
	assert.Equal(t, "ds-a.csv", ready.Origin)

	m = loaded(t, m, dataset("b.csv", 1, 0, 1, 0, 1))
	m, _ = send(t, m, ready)

	assert.Equal(t, "b.csv", m.dataset.Source)
	assert.Equal(t, 5, m.CurrentView().Stats.TotalRecords)
	assert.NotContains(t, m.info, "Predictions generated")
	assert.False(t, m.loading(), "late result still ends the prediction")
	assert.Len(t, m.undoStack, 1)
}

func TestPredictionFailureKeepsDataset(t *testing.T) {
	m := newTestModel(t, Options{})
	m = loaded(t, m, dataset("a.csv", 0, 1))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})

	m, _ = send(t, m, model.PredictionsReadyMsg{Origin: m.dataset.ID, Err: errors.New("prediction failed: boom")})
	assert.Equal(t, "a.csv", m.dataset.Source)
	assert.Equal(t, "prediction failed: boom", m.error)
	assert.False(t, m.loading())
}

func TestPredictionDoesNotEndPendingLoad(t *testing.T) {
	m := newTestModel(t, Options{})
	m = loaded(t, m, dataset("a.csv", 0, 1))
	m, predictCmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})

	m, _ = send(t, m, findMsg[model.PredictionsReadyMsg](t, predictCmd))
	assert.True(t, m.loading(), "sample load is still running")
}

func TestStaleFallbackDoesNotReplaceNewerLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "good.csv")
	require.NoError(t, os.WriteFile(path, []byte("TransactionID,isFraud\n1,1\n2,0\n"), 0o644))

	m := newTestModel(t, Options{InitialFile: "broken.csv"})
	m, fallbackCmd := send(t, m, model.DatasetLoadedMsg{Err: errors.New("boom"), Seq: m.loadSeq})

	m, loadCmd := send(t, m, model.LoadRequestedMsg{Path: path})
	m, _ = send(t, m, findMsg[model.DatasetLoadedMsg](t, loadCmd))
	require.Equal(t, path, m.dataset.Source)

	m, _ = send(t, m, findMsg[model.DatasetLoadedMsg](t, fallbackCmd))
	assert.Equal(t, path, m.dataset.Source)
	assert.Equal(t, 2, m.CurrentView().Stats.TotalRecords)
	assert.False(t, m.loading())
}

func TestSupersededLoadReplyIsDropped(t *testing.T) {
	m := newTestModel(t, Options{})
	first := m.loadSeq
	m = press(t, m, "r")
	require.Greater(t, m.loadSeq, first)

	m, _ = send(t, m, model.DatasetLoadedMsg{Dataset: dataset("old.csv", 1), Seq: first})
	assert.False(t, m.hasData)
	assert.True(t, m.loading())
}
