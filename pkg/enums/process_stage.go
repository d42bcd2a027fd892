package enums

import "fmt"

// ProcessStage tracks where an order sits in the laundry pipeline.
// Transitions are forward-only.
type ProcessStage string

const (
	ProcessStageReceived ProcessStage = "received"
	ProcessStageWashing  ProcessStage = "washing"
	ProcessStageDrying   ProcessStage = "drying"
	ProcessStageIroning  ProcessStage = "ironing"
	ProcessStageReady    ProcessStage = "ready"
	ProcessStagePickedUp ProcessStage = "picked_up"
)

var orderedProcessStages = []ProcessStage{
	ProcessStageReceived,
	ProcessStageWashing,
	ProcessStageDrying,
	ProcessStageIroning,
	ProcessStageReady,
	ProcessStagePickedUp,
}

// String implements fmt.Stringer.
func (p ProcessStage) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProcessStage.
func (p ProcessStage) IsValid() bool {
	return p.rank() >= 0
}

// CanTransitionTo reports whether next is a legal forward move from p.
// Skipping stages is allowed (self-service outlets skip ironing); going
// backwards is not.
func (p ProcessStage) CanTransitionTo(next ProcessStage) bool {
	from, to := p.rank(), next.rank()
	if from < 0 || to < 0 {
		return false
	}
	return to > from
}

func (p ProcessStage) rank() int {
	for i, candidate := range orderedProcessStages {
		if candidate == p {
			return i
		}
	}
	return -1
}

// ParseProcessStage converts raw input into a ProcessStage.
func ParseProcessStage(value string) (ProcessStage, error) {
	for _, candidate := range orderedProcessStages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid process stage %q", value)
}
