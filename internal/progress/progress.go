// internal/progress/progress.go
package progress

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

// Emitter receives human-readable progress narration from long-running
// operations. Implementations must be safe to call from any goroutine.
type Emitter interface {
	Emit(message string)
}

// Nop discards all progress messages.
type Nop struct{}

func (Nop) Emit(string) {}

// Log forwards progress to the structured logger at info level.
type Log struct{}

func (Log) Emit(message string) {
	log.Info().Msg(message)
}

// Writer prints one progress line per message.
type Writer struct {
	W io.Writer
}

func (w Writer) Emit(message string) {
	fmt.Fprintln(w.W, message)
}

// Chan buffers progress messages on a channel for a consuming goroutine.
// Messages are dropped when the buffer is full rather than blocking the
// automation flow.
type Chan struct {
	C chan string
}

// NewChan creates a channel-backed emitter with the given buffer size.
func NewChan(buffer int) *Chan {
	if buffer <= 0 {
		buffer = 16
	}
	return &Chan{C: make(chan string, buffer)}
}

func (c *Chan) Emit(message string) {
	select {
	case c.C <- message:
	default:
	}
}

// Close closes the underlying channel. Call only after the producing
// operation has returned.
func (c *Chan) Close() {
	close(c.C)
}

// OrNop returns e, or a Nop emitter when e is nil.
func OrNop(e Emitter) Emitter {
	if e == nil {
		return Nop{}
	}
	return e
}
