package tools

import (
	"context"
	"log"
)

// TaskFunc is a unit of background work.
type TaskFunc func(ctx context.Context) error

// Dispatch runs fn on its own goroutine, fire-and-forget. Failures are
// logged under the given name since no caller is around to receive them.
func Dispatch(ctx context.Context, name string, fn TaskFunc) {
	go func() {
		if err := fn(ctx); err != nil {
			log.Printf("background task %s failed: %v", name, err)
		}
	}()
}
