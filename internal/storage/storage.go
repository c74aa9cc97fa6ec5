package storage

import (
	"context"
	"errors"

	"gdaSwap/internal/model"
)

// Storage defines a sink for outcome records.
type Storage interface {
	PutOutcome(ctx context.Context, record model.OutcomeRecord) error
}

// Multi fans a record out to every sink and joins their errors.
type Multi []Storage

func (m Multi) PutOutcome(ctx context.Context, record model.OutcomeRecord) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.PutOutcome(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards records.
type Nop struct{}

func (Nop) PutOutcome(context.Context, model.OutcomeRecord) error {
	return nil
}
