package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"backoffice-service/internal/metrics"
	"backoffice-service/internal/upstream"
)

type Source string

const (
	SourceLocal    Source = "local"
	SourceExternal Source = "external"
)

// Resolve looks an entity up locally and falls back to the upstream only on a
// local miss. A local hit is final. Upstream results are never persisted.
func Resolve[T any](
	ctx context.Context,
	resource string,
	local func(context.Context) (T, error),
	remote func(context.Context) (T, error),
	empty func(T) bool,
) (T, Source, error) {
	var zero T

	value, err := local(ctx)
	switch {
	case err == nil && !empty(value):
		metrics.ObserveResolved(resource, string(SourceLocal))
		return value, SourceLocal, nil
	case err != nil && !isMiss(err):
		return zero, "", fmt.Errorf("load %s: %w", resource, err)
	}

	value, err = remote(ctx)
	switch {
	case err == nil && !empty(value):
		metrics.ObserveResolved(resource, string(SourceExternal))
		return value, SourceExternal, nil
	case err == nil, errors.Is(err, upstream.ErrNotFound):
		metrics.ObserveResolved(resource, "none")
		return zero, "", ErrNotFound
	default:
		return zero, "", fmt.Errorf("%w: %s: %v", ErrUpstream, resource, err)
	}
}

func isMiss(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound)
}

func isNilPtr[T any](v *T) bool {
	return v == nil
}

func isEmptySlice[T any](v []T) bool {
	return len(v) == 0
}
