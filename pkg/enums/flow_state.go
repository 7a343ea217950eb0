package enums

import "fmt"

// FlowState tracks where a customer's active cart sits in the booking journey.
type FlowState string

const (
	FlowStateIdle       FlowState = "idle"
	FlowStateReviewing  FlowState = "reviewing"
	FlowStateScheduling FlowState = "scheduling"
	FlowStateConfirmed  FlowState = "confirmed"
	FlowStateCancelled  FlowState = "cancelled"
)

func (s FlowState) String() string {
	return string(s)
}

func (s FlowState) IsValid() bool {
	switch s {
	case FlowStateIdle, FlowStateReviewing, FlowStateScheduling, FlowStateConfirmed, FlowStateCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to target is an allowed step.
func (s FlowState) CanTransitionTo(target FlowState) bool {
	allowed, ok := flowTransitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

var flowTransitions = map[FlowState][]FlowState{
	FlowStateIdle:       {FlowStateReviewing},
	FlowStateReviewing:  {FlowStateScheduling, FlowStateIdle},
	FlowStateScheduling: {FlowStateConfirmed, FlowStateCancelled, FlowStateReviewing},
	FlowStateConfirmed:  {},
	FlowStateCancelled:  {},
}

func ParseFlowState(s string) (FlowState, error) {
	state := FlowState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("invalid flow state: %q", s)
	}
	return state, nil
}
