// Package reqctx stamps each fetch with a short random id so every log
// line and error raised on behalf of one page request can be correlated.
package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ctxKey struct{}

type trace struct {
	id      string
	url     string
	started time.Time
}

func newID() string {
	var b [8]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func fromContext(ctx context.Context) *trace {
	if t, ok := ctx.Value(ctxKey{}).(*trace); ok {
		return t
	}
	return &trace{id: "unknown", started: time.Now()}
}

// WithRequest derives a context carrying a fresh trace for url.
func WithRequest(ctx context.Context, url string) context.Context {
	return context.WithValue(ctx, ctxKey{}, &trace{
		id:      newID(),
		url:     url,
		started: time.Now(),
	})
}

// Logger returns a logger tagged with the request id and URL, so fetch
// call sites never attach those fields by hand.
func Logger(ctx context.Context) zerolog.Logger {
	t := fromContext(ctx)
	lc := log.With().Str("request_id", t.id)
	if t.url != "" {
		lc = lc.Str("url", t.url)
	}
	return lc.Logger()
}

// Elapsed reports time since the request entered the fetcher.
func Elapsed(ctx context.Context) time.Duration {
	return time.Since(fromContext(ctx).started)
}

// RequestError keeps the request id attached to a failure so it survives
// into error chains logged far from the fetcher.
type RequestError struct {
	RequestID string
	Err       error
}

func (e *RequestError) Error() string { return "[" + e.RequestID + "] " + e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

// NewRequestError tags err with the request id found in ctx.
func NewRequestError(ctx context.Context, err error) error {
	return &RequestError{RequestID: fromContext(ctx).id, Err: err}
}
