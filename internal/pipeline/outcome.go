package pipeline

import "augmentstats/internal/icons"

// Status tags what happened to a single screenshot.
type Status string

const (
	// StatusSkipped means the stage label did not show an augment stage.
	StatusSkipped Status = "skipped"
	// StatusExtracted means augment icons were read from the frame.
	StatusExtracted Status = "extracted"
	// StatusFailed means decoding or recognition failed outright for this file.
	StatusFailed Status = "failed"
)

// Outcome records how one screenshot was handled.
type Outcome struct {
	SessionID string `json:"sessionId"`
	File      string `json:"file"`
	Status    Status `json:"status"`
	Error     string `json:"error,omitempty"`

	matches []icons.Match
}
