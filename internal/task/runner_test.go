// internal/task/runner_test.go
package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/salonkit/stylesync/internal/progress"
)

func TestSubmitRunsAndReportsProgress(t *testing.T) {
	r := NewRunner()

	task := r.Submit(context.Background(), "demo", func(ctx context.Context, emitter progress.Emitter) error {
		emitter.Emit("step one")
		emitter.Emit("step two")
		return nil
	})

	var got []string
	for msg := range task.Progress {
		got = append(got, msg)
	}
	if err := task.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if len(got) != 2 || got[0] != "step one" || got[1] != "step two" {
		t.Errorf("progress = %v, want [step one, step two]", got)
	}
}

func TestTaskErrorPropagates(t *testing.T) {
	r := NewRunner()
	boom := errors.New("boom")

	task := r.Submit(context.Background(), "failing", func(ctx context.Context, emitter progress.Emitter) error {
		return boom
	})

	if err := task.Wait(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Wait = %v, want %v", err, boom)
	}
	if err := task.Err(); !errors.Is(err, boom) {
		t.Errorf("Err = %v, want %v", err, boom)
	}
}

func TestSubmitSerializesTasks(t *testing.T) {
	r := NewRunner()
	release := make(chan struct{})
	firstStarted := make(chan struct{})
	secondStarted := make(chan struct{})

	first := r.Submit(context.Background(), "first", func(ctx context.Context, emitter progress.Emitter) error {
		close(firstStarted)
		<-release
		return nil
	})
	<-firstStarted

	second := r.Submit(context.Background(), "second", func(ctx context.Context, emitter progress.Emitter) error {
		close(secondStarted)
		return nil
	})

	select {
	case <-secondStarted:
		t.Fatal("second task started while first still held the slot")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if err := first.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
	if err := second.Wait(context.Background()); err != nil {
		t.Fatalf("second Wait: %v", err)
	}
	select {
	case <-secondStarted:
	default:
		t.Error("second task never ran after the slot freed")
	}
}

func TestSubmitCancelledWhileQueued(t *testing.T) {
	r := NewRunner()
	release := make(chan struct{})
	holderStarted := make(chan struct{})

	first := r.Submit(context.Background(), "holder", func(ctx context.Context, emitter progress.Emitter) error {
		close(holderStarted)
		<-release
		return nil
	})
	<-holderStarted

	ctx, cancel := context.WithCancel(context.Background())
	queued := r.Submit(ctx, "queued", func(ctx context.Context, emitter progress.Emitter) error {
		t.Error("queued task should not have run")
		return nil
	})
	cancel()

	if err := queued.Wait(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("queued Wait = %v, want context.Canceled", err)
	}

	close(release)
	if err := first.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	r := NewRunner()
	release := make(chan struct{})

	task := r.Submit(context.Background(), "slow", func(ctx context.Context, emitter progress.Emitter) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := task.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait = %v, want context.DeadlineExceeded", err)
	}

	close(release)
	if err := task.Wait(context.Background()); err != nil {
		t.Fatalf("final Wait: %v", err)
	}
}
