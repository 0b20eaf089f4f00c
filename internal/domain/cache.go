package domain

import (
	"context"
	"time"
)

// RateLimiter throttles calls to the odds provider, whose request quota is
// billed per key.
type RateLimiter interface {
	// Allow reports whether a request for key is permitted under the limit
	// for the given window, counting the request when it is.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Wait blocks until a request for key is allowed or ctx is cancelled.
	Wait(ctx context.Context, key string) error
}

// SignalBus is a lightweight pub/sub fabric carrying JSON-encoded events
// (detected opportunities) from the scanner to the notifier and the
// WebSocket hub.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}
