package common

import (
	"context"
	"time"
)

// DefaultRequestTimeout bounds a single request when neither config nor caller set one
const DefaultRequestTimeout = 15 * time.Second

// WithTimeout applies d to ctx unless ctx already carries an earlier deadline.
// A non-positive d leaves ctx untouched.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < d {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
