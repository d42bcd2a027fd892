package enums

// OutboxEventType names a domain event row queued for publication.
type OutboxEventType string

const (
	EventOrderCreated OutboxEventType = "order.created"
	EventOrderSettled OutboxEventType = "order.settled"
	EventOrderStaged  OutboxEventType = "order.stage_changed"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderCreated,
	EventOrderSettled,
	EventOrderStaged,
}

func (e OutboxEventType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known OutboxEventType.
func (e OutboxEventType) IsValid() bool {
	for _, known := range validOutboxEventTypes {
		if e == known {
			return true
		}
	}
	return false
}

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateOrder OutboxAggregateType = "order"
)
