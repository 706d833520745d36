package progress

import (
	"augmentstats/internal/pipeline"
)

// EventType names a message on the progress stream.
type EventType string

const (
	EventProgress EventType = "process:progress"
	EventDone     EventType = "process:done"
	EventError    EventType = "process:error"
)

// Event is one message on the progress stream.
type Event struct {
	Type     EventType          `json:"type"`
	Progress *pipeline.Progress `json:"progress,omitempty"`
	Sessions int                `json:"sessions,omitempty"`
	Failed   int                `json:"failed,omitempty"`
	Error    string             `json:"error,omitempty"`
}
