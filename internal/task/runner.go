// internal/task/runner.go
package task

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/salonkit/stylesync/internal/progress"
)

// Fn is one top-level operation: it reports narration through the emitter
// and its outcome through the returned error.
type Fn func(ctx context.Context, emitter progress.Emitter) error

// Task is one background operation in flight. Progress carries the
// operation's narration and closes when the task finishes.
type Task struct {
	Name     string
	Progress <-chan string

	done chan struct{}
	err  error
}

// Done reports completion without blocking.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err returns the task's error. Only valid once Done is closed.
func (t *Task) Err() error { return t.err }

// Wait blocks until the task finishes or ctx is cancelled.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Runner executes submitted functions on background goroutines, one at a
// time. The single slot matches the one-browser-session policy: two live
// sessions would fight over the storage state file.
type Runner struct {
	slot chan struct{}
}

func NewRunner() *Runner {
	return &Runner{slot: make(chan struct{}, 1)}
}

// Submit schedules fn and returns immediately. fn runs once the slot
// frees up; a ctx cancelled while queued fails the task without running
// it.
func (r *Runner) Submit(ctx context.Context, name string, fn Fn) *Task {
	emitter := progress.NewChan(16)
	t := &Task{
		Name:     name,
		Progress: emitter.C,
		done:     make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		defer emitter.Close()

		select {
		case r.slot <- struct{}{}:
		case <-ctx.Done():
			t.err = ctx.Err()
			return
		}
		defer func() { <-r.slot }()

		start := time.Now()
		log.Debug().Str("task", name).Msg("Task started")
		t.err = fn(ctx, emitter)
		log.Debug().
			Str("task", name).
			Dur("elapsed", time.Since(start)).
			Err(t.err).
			Msg("Task finished")
	}()

	return t
}
