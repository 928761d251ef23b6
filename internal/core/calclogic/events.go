package calclogic

import (
	"time"

	"quickcalc/internal/core/secret"
)

// EventType defines the type of calculator event.
type EventType string

const (
	EventExpressionChanged EventType = "expression_changed"
	EventResultChanged     EventType = "result_changed"
	EventOpenSecretWindow  EventType = "open_secret_window"
)

// Event is a calculator update for observers. Expression and Result are
// snapshots taken when the event was raised.
type Event struct {
	Type       EventType
	Expression string
	Result     string
	Source     secret.Source
	At         time.Time
}
