package errs

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input rejected before any write
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// AlreadyFinalizedError reports a transition attempted on a payment that is already terminal
type AlreadyFinalizedError struct {
	PaymentID int64
	Status    string
	Detail    string
}

func (e *AlreadyFinalizedError) Error() string {
	msg := fmt.Sprintf("payment %d is already %s", e.PaymentID, e.Status)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// InsufficientCreditsError reports an attendance deduction that would overdraw the credit ledger
type InsufficientCreditsError struct {
	UserID  int64
	Balance int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("user %d has insufficient credits (balance %d) and no membership allowance", e.UserID, e.Balance)
}

// NotFoundError reports a referenced record that does not exist
type NotFoundError struct {
	Resource string
	Key      any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.Key)
}

// InvariantViolationError reports a request that breaks a ledger rule
type InvariantViolationError struct {
	Rule string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violated: %s", e.Rule)
}

// Validation builds a ValidationError
func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a NotFoundError
func NotFound(resource string, key any) error {
	return &NotFoundError{Resource: resource, Key: key}
}

// InvariantViolation builds an InvariantViolationError
func InvariantViolation(format string, args ...any) error {
	return &InvariantViolationError{Rule: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err wraps a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsAlreadyFinalized reports whether err wraps an AlreadyFinalizedError
func IsAlreadyFinalized(err error) bool {
	var target *AlreadyFinalizedError
	return errors.As(err, &target)
}

// IsInsufficientCredits reports whether err wraps an InsufficientCreditsError
func IsInsufficientCredits(err error) bool {
	var target *InsufficientCreditsError
	return errors.As(err, &target)
}

// IsNotFound reports whether err wraps a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsInvariantViolation reports whether err wraps an InvariantViolationError
func IsInvariantViolation(err error) bool {
	var target *InvariantViolationError
	return errors.As(err, &target)
}

// IsDomainError reports whether err is any member of the ledger error taxonomy.
// Callers use it to tell final business outcomes from retryable infrastructure failures.
func IsDomainError(err error) bool {
	return IsValidation(err) || IsAlreadyFinalized(err) || IsInsufficientCredits(err) ||
		IsNotFound(err) || IsInvariantViolation(err)
}
