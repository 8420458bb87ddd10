// Package async runs import tasks off the caller's goroutine.
package async

import (
	"context"
	"time"
)

// Task is one bank export waiting to be imported.
type Task struct {
	Path        string
	SubmittedAt time.Time
	TraceID     string
}

// Handler imports a single task.
type Handler func(ctx context.Context, task Task) error

type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Shutdown(ctx context.Context)
}
