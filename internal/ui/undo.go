package ui

import (
	"fmt"

	"fraudview/internal/model"
)

const historyLimit = 10

type historyEntry struct {
	label   string
	dataset model.Dataset
}

// pushHistory records the dataset being replaced. A new load clears redo.
func (m *Model) pushHistory(label string) {
	if !m.hasData {
		return
	}
	m.undoStack = append(m.undoStack, historyEntry{label: label, dataset: m.dataset})
	if len(m.undoStack) > historyLimit {
		m.undoStack = m.undoStack[len(m.undoStack)-historyLimit:]
	}
	m.redoStack = nil
}

func (m *Model) undoLoad() bool {
	if len(m.undoStack) == 0 {
		return false
	}
	entry := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.redoStack = append(m.redoStack, historyEntry{label: entry.label, dataset: m.dataset})
	m.setDataset(entry.dataset)
	m.info = fmt.Sprintf("Undid: %s, showing %s", entry.label, describeDataset(entry.dataset))
	m.log.Info("undo load restored dataset id=%s", entry.dataset.ID)
	return true
}

func (m *Model) redoLoad() bool {
	if len(m.redoStack) == 0 {
		return false
	}
	entry := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.undoStack = append(m.undoStack, historyEntry{label: entry.label, dataset: m.dataset})
	m.setDataset(entry.dataset)
	m.info = fmt.Sprintf("Redid: %s, showing %s", entry.label, describeDataset(entry.dataset))
	m.log.Info("redo load restored dataset id=%s", entry.dataset.ID)
	return true
}

// describeDataset names a restored dataset by its own source, e.g. "a.csv (2 rows)".
func describeDataset(ds model.Dataset) string {
	return fmt.Sprintf("%s (%s rows)", ds.Source, formatRows(ds))
}
