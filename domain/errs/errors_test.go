package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomySurvivesWrapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		err   error
		check func(error) bool
		msg   string
	}{
		{
			name:  "validation",
			err:   Validation("visitor_shoot_fee", "must not be negative"),
			check: IsValidation,
			msg:   "validation failed for visitor_shoot_fee: must not be negative",
		},
		{
			name:  "already finalized",
			err:   &AlreadyFinalizedError{PaymentID: 7, Status: "failed"},
			check: IsAlreadyFinalized,
			msg:   "payment 7 is already failed",
		},
		{
			name:  "insufficient credits",
			err:   &InsufficientCreditsError{UserID: 3, Balance: 0},
			check: IsInsufficientCredits,
			msg:   "user 3 has insufficient credits (balance 0) and no membership allowance",
		},
		{
			name:  "not found",
			err:   NotFound("payment", int64(42)),
			check: IsNotFound,
			msg:   "payment 42 not found",
		},
		{
			name:  "invariant violation",
			err:   InvariantViolation("reason is required"),
			check: IsInvariantViolation,
			msg:   "invariant violated: reason is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wrapped := fmt.Errorf("failed to do thing: %w", tt.err)
			assert.True(t, tt.check(wrapped))
			assert.True(t, IsDomainError(wrapped))
			assert.Equal(t, tt.msg, tt.err.Error())
		})
	}
}

func TestIsDomainError_Infrastructure(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("failed to query: %w", errors.New("connection reset"))
	assert.False(t, IsDomainError(err))
	assert.False(t, IsNotFound(err))
}

func TestAlreadyFinalizedError_Detail(t *testing.T) {
	t.Parallel()

	err := &AlreadyFinalizedError{PaymentID: 1, Status: "completed", Detail: "confirmed with a different transaction id"}
	assert.Equal(t, "payment 1 is already completed: confirmed with a different transaction id", err.Error())
}
