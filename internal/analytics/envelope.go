package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	"github.com/dwiprasetya/laundrypos-backend/pkg/outbox"
)

// Envelope is a decoded order event as consumed from the orders topic.
type Envelope struct {
	EventID     string
	EventType   enums.OutboxEventType
	AggregateID string
	OccurredAt  time.Time
	Payload     json.RawMessage
}

// DecodeMessage rebuilds the envelope from the stored payload plus the
// attributes the publisher attached. Either source may carry the event id;
// the payload wins.
func DecodeMessage(msg *gcppubsub.Message) (*Envelope, error) {
	var stored outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &stored); err != nil {
		return nil, fmt.Errorf("decode payload envelope: %w", err)
	}

	eventType := enums.OutboxEventType(strings.TrimSpace(msg.Attributes["event_type"]))
	if !eventType.IsValid() {
		return nil, fmt.Errorf("unknown event_type %q", eventType)
	}

	aggregateID := strings.TrimSpace(msg.Attributes["aggregate_id"])
	if aggregateID == "" {
		return nil, errors.New("aggregate_id missing")
	}

	eventID := strings.TrimSpace(stored.EventID)
	if eventID == "" {
		eventID = strings.TrimSpace(msg.Attributes["event_id"])
	}
	if eventID == "" {
		return nil, errors.New("event_id missing")
	}

	occurredAt := stored.OccurredAt
	if occurredAt.IsZero() {
		if created := strings.TrimSpace(msg.Attributes["created_at"]); created != "" {
			if parsed, err := time.Parse(time.RFC3339Nano, created); err == nil {
				occurredAt = parsed
			}
		}
	}

	return &Envelope{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  occurredAt.UTC(),
		Payload:     stored.Data,
	}, nil
}
