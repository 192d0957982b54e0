package ui

import (
	"fraudview/internal/model"
	"fraudview/internal/table"
)

// SessionState is the per-session view state: the filter and the pagination
// request. It is owned by the root model and handed to table.Render on every
// refresh; the clamped page that comes back replaces Page.
type SessionState struct {
	Filter   model.FilterSelection
	PageSize int
	Page     int
}

// NewSessionState starts on page 1 with the given filter and page size.
func NewSessionState(filter model.FilterSelection, pageSize int) SessionState {
	return SessionState{
		Filter:   filter,
		PageSize: table.NormalizePageSize(pageSize),
		Page:     1,
	}
}

// Request converts the session into a render request.
func (s SessionState) Request() table.Request {
	return table.Request{Filter: s.Filter, PageSize: s.PageSize, Page: s.Page}
}

// SetFilter changes the filter. The page is kept and clamped on the next render.
func (s *SessionState) SetFilter(f model.FilterSelection) {
	s.Filter = f
}

// StepPageSize moves through the enumerated sizes, keeping the first visible
// row on screen.
func (s *SessionState) StepPageSize(delta int) {
	firstRow := (s.Page - 1) * s.PageSize
	s.PageSize = table.StepPageSize(s.PageSize, delta)
	s.Page = firstRow/s.PageSize + 1
}

// Move shifts the requested page by delta. Out-of-range values are clamped
// by the next render.
func (s *SessionState) Move(delta int) {
	s.Page += delta
}

// Sync stores the clamped page from a render as the new source of truth.
func (s *SessionState) Sync(p model.Page) {
	s.Page = p.CurrentPage
	s.PageSize = p.PageSize
}
