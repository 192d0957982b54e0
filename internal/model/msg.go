package model

// Bubble Tea message types

// DatasetLoadedMsg is sent when a load command completes.
type DatasetLoadedMsg struct {
	Dataset Dataset
	// Err is set when the requested source failed; Dataset is then the zero value
	// and the UI decides whether to substitute sample data.
	Err error
	// Fallback marks a dataset substituted for a failed load.
	Fallback bool
	// Seq identifies the load request; replies to superseded requests are dropped.
	Seq int
}

// PredictionsReadyMsg is sent when the prediction stub has labelled a dataset.
type PredictionsReadyMsg struct {
	// Origin is the ID of the dataset the predictions were computed for.
	Origin  string
	Dataset Dataset
	Err     error
}

// FormCancelledMsg is sent when the load form is cancelled.
type FormCancelledMsg struct{}

// LoadRequestedMsg is sent by the load form with the chosen path.
type LoadRequestedMsg struct {
	Path string
}

// Screen represents different app screens.
type Screen int

const (
	ScreenResults Screen = iota
	ScreenLoadForm
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
)
