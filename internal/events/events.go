package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted after a score has been persisted
const (
	TypeReliabilityComputed = "insights.reliability.computed"
	TypeRiskAssessed        = "insights.risk.assessed"
	TypeLeaderEvaluated     = "insights.leader.evaluated"
)

// Event is the envelope written to the bus
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	SubjectID  string          `json:"subject_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEvent builds an envelope around data. subjectID becomes the partition key
// so every event for one entity lands on the same partition.
func NewEvent(eventType, subjectID string, data interface{}) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		SubjectID:  subjectID,
		OccurredAt: time.Now().UTC(),
		Data:       raw,
	}, nil
}

// Publisher delivers domain events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

// Publish implements Publisher
func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher
func (NoopPublisher) Close() error { return nil }
