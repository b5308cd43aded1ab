package port

import (
	"context"
	"time"
)

// Task is a background job with a stable type identifier and an opaque
// payload. Payload encoding is up to the producer and handler.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes one task. Returning a non-nil error triggers a retry per
// the adapter's policy, so handlers must be idempotent.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption tunes enqueue behavior. Zero values mean unspecified and
// adapters ignore fields their backend cannot express.
type EnqueueOption struct {
	Queue     string
	ProcessIn time.Duration
	MaxRetry  int
	UniqueTTL time.Duration
}

// Client enqueues tasks for background processing.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server runs background workers. Run blocks until the context is canceled.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
}
