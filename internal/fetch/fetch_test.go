package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/salonkit/stylesync/internal/cache"
)

func testFetcher() *Fetcher {
	return New(Options{RetryDelay: time.Millisecond})
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("unexpected User-Agent: %q", ua)
		}
		w.Write([]byte("<html><body>style gallery</body></html>"))
	}))
	defer server.Close()

	result := testFetcher().Fetch(context.Background(), server.URL)
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.StatusCode != 200 {
		t.Errorf("status = %d", result.StatusCode)
	}
	if string(result.Body) != "<html><body>style gallery</body></html>" {
		t.Errorf("unexpected body: %q", result.Body)
	}
}

func TestFetchExhaustsExactlyThreeAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	result := testFetcher().Fetch(context.Background(), server.URL)
	if result != nil {
		t.Fatal("expected nil result after exhausted retries")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", got)
	}
}

func TestFetchRetriesClientErrorsToo(t *testing.T) {
	// The source site answers 403 to suspected bots; those retry as well.
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	result := testFetcher().Fetch(context.Background(), server.URL)
	if result == nil {
		t.Fatal("expected success on the third attempt")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestFetchServesFromCache(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("page"))
	}))
	defer server.Close()

	mc := cache.NewMemoryCache(0)
	defer mc.Close()

	f := New(Options{RetryDelay: time.Millisecond, Cache: mc})

	first := f.Fetch(context.Background(), server.URL)
	second := f.Fetch(context.Background(), server.URL)

	if first == nil || second == nil {
		t.Fatal("expected results")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected one network hit, got %d", calls)
	}
	if !second.FromCache {
		t.Error("second result should be marked as cached")
	}
	if first.FromCache {
		t.Error("first result should not be marked as cached")
	}
}

func TestFetchCustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Debug") != "1" {
			t.Error("custom header not sent")
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := New(Options{
		RetryDelay: time.Millisecond,
		Headers:    map[string]string{"X-Debug": "1"},
	})
	if f.Fetch(context.Background(), server.URL) == nil {
		t.Fatal("expected a result")
	}
}
