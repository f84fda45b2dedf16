package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeDuplicate  ErrorCode = "DUPLICATE"
	ErrCodeRule       ErrorCode = "RULE_VIOLATION"
	ErrCodeCircular   ErrorCode = "CIRCULAR_REFERENCE"
	ErrCodeAssignment ErrorCode = "INVALID_ASSIGNMENT"
	ErrCodeConflict   ErrorCode = "CONFLICT"
	ErrCodeInvalid    ErrorCode = "INVALID"
	ErrCodeInternal   ErrorCode = "INTERNAL"
)

// Business rule codes enforced at mutation time.
const (
	RuleProjectDeletion = "R1" // project deletion blocked by incomplete tasks
	RuleDueDate         = "R2" // due date before project start date
	RuleAssignment      = "R3" // assignee must be a project member
	RuleSameProject     = "R4" // parent task must be in the same project
	RuleCircular        = "R5" // parent chain must stay acyclic
	RuleTaskDeletion    = "R6" // task deletion blocked by live subtasks
	RuleCompletion      = "R7" // completion blocked by incomplete subtasks
)

// Error represents a domain-level error. Entity, Field, Value and Rule are
// populated only where the code calls for them.
type Error struct {
	Code    ErrorCode
	Message string
	Entity  string
	Field   string
	Value   string
	Rule    string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// NewNotFound reports that a referenced id did not resolve in the store.
func NewNotFound(entity, id string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s with id '%s' not found", entity, id),
		Entity:  entity,
		Value:   id,
	}
}

// NewDuplicate reports a uniqueness violation on the given field.
func NewDuplicate(entity, field, value string) *Error {
	return &Error{
		Code:    ErrCodeDuplicate,
		Message: fmt.Sprintf("%s with %s '%s' already exists", entity, field, value),
		Entity:  entity,
		Field:   field,
		Value:   value,
	}
}

// NewRuleViolation reports a named business rule failure.
func NewRuleViolation(rule, message string) *Error {
	return &Error{Code: ErrCodeRule, Message: message, Rule: rule}
}

// NewCircularReference reports a parent edge that would close a cycle.
func NewCircularReference(message string) *Error {
	return &Error{Code: ErrCodeCircular, Message: message, Rule: RuleCircular}
}

// NewInvalidAssignment reports an assignee outside the project membership.
func NewInvalidAssignment(message string) *Error {
	return &Error{Code: ErrCodeAssignment, Message: message, Rule: RuleAssignment}
}

// Common domain errors.
var (
	ErrInvalidPayload = NewError(ErrCodeInvalid, "invalid payload")

	// ErrConflict is returned by repositories when a save targets a stale
	// version. Callers may retry by re-reading and reapplying; the core never
	// retries on its own.
	ErrConflict = NewError(ErrCodeConflict, "concurrent modification detected")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// RuleCode extracts the business rule code carried by an error, or "".
func RuleCode(err error) string {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Rule
	}
	return ""
}
