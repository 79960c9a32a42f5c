// Package fallback composes an online and an offline strategy: the online
// one runs first and the offline one runs only if it fails.
package fallback

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/aircontrol/internal/client/gateway"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
)

// Source tells which strategy produced a result.
type Source string

const (
	Online  Source = "online"
	Offline Source = "offline"
)

// Strategy produces a result or fails.
type Strategy[T any] func(ctx context.Context) (T, error)

// Run tries online, and on any failure logs it at warn level and runs
// offline. The two never run concurrently. When both fail the returned
// error wraps the offline failure.
func Run[T any](ctx context.Context, log logging.Logger, op string, online, offline Strategy[T]) (T, Source, error) {
	v, err := online(ctx)
	if err == nil {
		return v, Online, nil
	}

	log.Warn(ctx, "remote call failed, using local data",
		"op", op, "kind", string(gateway.Kind(err)), "error", err)

	v, offErr := offline(ctx)
	if offErr != nil {
		var zero T
		return zero, Offline, fmt.Errorf("%s: offline fallback: %w", op, offErr)
	}
	return v, Offline, nil
}

// Local runs only the offline strategy. It is used when local data takes
// priority over the API.
func Local[T any](ctx context.Context, op string, offline Strategy[T]) (T, Source, error) {
	v, err := offline(ctx)
	if err != nil {
		var zero T
		return zero, Offline, fmt.Errorf("%s: %w", op, err)
	}
	return v, Offline, nil
}
