// Package ordering drives a print order from document upload to payment
// confirmation.
package ordering

import (
	"encoding/json"
	"fmt"
)

// Step is a stage of the order flow.
type Step int

const (
	StepUpload Step = iota
	StepUserInfo
	StepReview
	StepPayment
	StepConfirmation
)

var stepNames = [...]string{
	StepUpload:       "upload",
	StepUserInfo:     "user_info",
	StepReview:       "review",
	StepPayment:      "payment",
	StepConfirmation: "confirmation",
}

// String returns the wire name of the step.
func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// MarshalJSON encodes the step by name.
func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// transitions lists every edge of the flow. Machine.moveLocked refuses any
// other move. Reset to StepUpload is allowed from anywhere and is not listed.
var transitions = map[Step][]Step{
	StepUpload:       {StepUserInfo},
	StepUserInfo:     {StepReview, StepUpload},
	StepReview:       {StepPayment, StepUserInfo},
	StepPayment:      {StepConfirmation, StepReview},
	StepConfirmation: nil,
}

// CanTransition reports whether the flow has an edge from one step to another.
func CanTransition(from, to Step) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// editable reports whether order options may change in this step.
func (s Step) editable() bool {
	return s == StepUpload || s == StepUserInfo
}

// locked reports whether the draft is frozen by a submitted order.
func (s Step) locked() bool {
	return s == StepPayment || s == StepConfirmation
}
