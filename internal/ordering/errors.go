package ordering

import (
	"errors"
	"fmt"
)

// State errors. The flow is left unchanged when any of them is returned.
var (
	ErrInvalidTransition  = errors.New("transition not allowed from current step")
	ErrGuardFailed        = errors.New("step requirements not met")
	ErrTransitionInFlight = errors.New("another transition is in progress")
	ErrDraftLocked        = errors.New("order is locked after submission")
)

// Collaborator errors.
var (
	ErrUpload            = errors.New("document upload failed")
	ErrPriceConfirmation = errors.New("price confirmation failed")
	ErrSubmission        = errors.New("order submission failed")
	ErrPaymentCheck      = errors.New("payment status check failed")
	ErrStatsUnsupported  = errors.New("order API has no statistics endpoint")
)

// TransitionError describes a refused transition.
type TransitionError struct {
	From   Step
	Action string
	Err    error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s from %s: %v", e.Action, e.From, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }

func refused(from Step, action string, err error) error {
	return &TransitionError{From: from, Action: action, Err: err}
}

// GuardError lists the requirements a transition is missing.
type GuardError struct {
	Missing []string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("%v: missing %v", ErrGuardFailed, e.Missing)
}

func (e *GuardError) Is(target error) bool { return target == ErrGuardFailed }
