package docstore

import (
	"context"

	"github.com/saulo-duarte/swayami/internal/config"
)

// Read runs fn and returns fallback when the store cannot answer. Read
// failures are logged and never reach the caller.
func Read[T any](ctx context.Context, op string, fallback T, fn func(context.Context) (T, error)) T {
	v, err := fn(ctx)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("op", op).Warn("Document store read failed, using fallback")
		return fallback
	}
	return v
}

// Mutate runs fn and returns fallback together with the error when the
// store rejects the write.
func Mutate[T any](ctx context.Context, op string, fallback T, fn func(context.Context) (T, error)) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("op", op).Error("Document store write failed")
		return fallback, err
	}
	return v, nil
}
