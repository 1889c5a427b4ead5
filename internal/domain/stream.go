package domain

// StreamEvent is one record of the newline-delimited output sequence.
// Exactly one of the optional payloads is set depending on Type.
type StreamEvent struct {
	Type     EventType       `json:"type"`
	Message  string          `json:"message,omitempty"`
	Articles []ArticleRecord `json:"articles,omitempty"`
	Source   string          `json:"source,omitempty"`
	Events   []TimelineEvent `json:"events,omitempty"`
}

// EventType tags a StreamEvent.
type EventType string

const (
	EventLog      EventType = "log"
	EventData     EventType = "data"
	EventPartial  EventType = "partial_articles"
	EventTimeline EventType = "timeline"
	EventPing     EventType = "ping"
	EventError    EventType = "error"
	EventDone     EventType = "done"
)

// TimelineEvent is one timed operation within an outlet's scan, recorded
// for the per-outlet diagnostics breakdown.
type TimelineEvent struct {
	Type  string  `json:"type"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label string  `json:"label,omitempty"`
}

// Digest is the end-of-run artifact handed to the persistence collaborator.
type Digest struct {
	Title       string
	Category    string
	SummaryHTML string
	Articles    []ArticleRecord
}
