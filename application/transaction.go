package application

import (
	"context"
	"fmt"
)

// WithServices runs fn against services bound to a fresh unit of work.
// The work is committed when fn succeeds and rolled back otherwise.
func WithServices[T any](ctx context.Context, uowFactory UnitOfWorkFactory, cfg ServiceConfig, fn func(*Services) (T, error)) (T, error) {
	var zero T

	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	result, err := fn(NewServices(uow, cfg))
	if err != nil {
		return zero, err
	}

	if err := uow.Commit(); err != nil {
		return zero, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}
