package ui

type tableController interface {
	NextColumn()
	PrevColumn()
	HideActiveColumn() bool
	ShowAllColumns()
	TableMeta() string
}
