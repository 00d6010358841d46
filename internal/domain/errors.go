package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, unknown role).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrRuleViolation matches every *RuleError via errors.Is.
// Handlers should map this to HTTP 409 Conflict.
var ErrRuleViolation = errors.New("rule violation")

// Rule identifies a matching lifecycle rule that a transition violated.
// The string value is stable and is surfaced to API clients as the error code.
type Rule string

const (
	RuleCancellationNotAllowed      Rule = "REQUEST_CANCELLATION_NOT_ALLOWED"
	RuleGuestAlreadyCompleted       Rule = "GUEST_ALREADY_COMPLETED_KEEPING"
	RuleHostAlreadyCompleted        Rule = "HOST_ALREADY_COMPLETED_KEEPING"
	RuleIncorrectStatusGuestConfirm Rule = "INCORRECT_STATUS_CONFIRM_REQUEST_GUEST"
	RuleIncorrectStatusHostAccept   Rule = "INCORRECT_STATUS_ACCEPT_REQUEST_HOST"
)

// RuleError is a rejected lifecycle transition.
type RuleError struct {
	Rule    Rule
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// Is reports whether target is ErrRuleViolation or a RuleError for the same rule.
func (e *RuleError) Is(target error) bool {
	if target == ErrRuleViolation {
		return true
	}
	var re *RuleError
	if errors.As(target, &re) {
		return re.Rule == e.Rule
	}
	return false
}

var (
	ErrCancellationNotAllowed = &RuleError{
		Rule:    RuleCancellationNotAllowed,
		Message: "a request can only be cancelled while it is pending",
	}
	ErrGuestAlreadyCompletedKeeping = &RuleError{
		Rule:    RuleGuestAlreadyCompleted,
		Message: "the guest has already completed this storage",
	}
	ErrHostAlreadyCompletedKeeping = &RuleError{
		Rule:    RuleHostAlreadyCompleted,
		Message: "the host has already completed this storage",
	}
	ErrIncorrectStatusForGuestConfirmation = &RuleError{
		Rule:    RuleIncorrectStatusGuestConfirm,
		Message: "storage can only be confirmed by the guest while the request is pending",
	}
	ErrIncorrectStatusForHostAcceptance = &RuleError{
		Rule:    RuleIncorrectStatusHostAccept,
		Message: "only a requested matching can be accepted by the host",
	}
)
