// internal/fetch/fetch.go
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/salonkit/stylesync/internal/cache"
	"github.com/salonkit/stylesync/internal/headers"
	"github.com/salonkit/stylesync/internal/proxy"
	"github.com/salonkit/stylesync/internal/ratelimit"
	"github.com/salonkit/stylesync/internal/reqctx"
	"github.com/salonkit/stylesync/internal/retry"
	"github.com/salonkit/stylesync/pkg/models"
)

const (
	// DefaultUserAgent mimics a desktop browser; the source site serves a
	// different layout to unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 15 * time.Second

	// DefaultAttempts and DefaultRetryDelay give the fixed retry profile:
	// three tries with a one-second pause between them.
	DefaultAttempts   = 3
	DefaultRetryDelay = 1 * time.Second

	maxBodyBytes = 50 * 1024 * 1024
)

// Options configures a Fetcher. Zero values fall back to the defaults above.
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	Attempts   int
	RetryDelay time.Duration
	Headers    map[string]string
	Cache      cache.Cache
	Limiter    ratelimit.RateLimiter
	Proxies    *proxy.Pool
	CacheTTL   time.Duration
}

// Fetcher is a retrying GET client. It never reports errors to callers:
// after exhausting its attempts the result is nil and the failure is logged.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	headers   map[string]string
	retryCfg  retry.Config
	cache     cache.Cache
	cacheTTL  time.Duration
	limiter   ratelimit.RateLimiter
	proxies   *proxy.Pool

	mu           sync.Mutex
	proxyClients map[string]*http.Client
}

// New creates a Fetcher with a shared cookie jar so paginated gallery
// fetches look like one browsing session.
func New(opts Options) *Fetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}

	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	client := &http.Client{
		Jar:     jar,
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	// Baseline browser headers; the ja Accept-Language keeps the source
	// site on its Japanese markup. Caller-supplied headers override.
	base := map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language": "ja,en-US;q=0.9,en;q=0.8",
	}

	return &Fetcher{
		client:       client,
		userAgent:    opts.UserAgent,
		timeout:      opts.Timeout,
		headers:      headers.Merge(base, opts.Headers),
		retryCfg:     retry.FixedConfig(opts.Attempts, opts.RetryDelay),
		cache:        opts.Cache,
		cacheTTL:     opts.CacheTTL,
		limiter:      opts.Limiter,
		proxies:      opts.Proxies,
		proxyClients: make(map[string]*http.Client),
	}
}

// Fetch retrieves a URL, retrying per the fixed profile. A nil result means
// all attempts failed; the reason is logged, never returned.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) *models.FetchResult {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = reqctx.WithRequest(ctx, urlStr)
	logger := reqctx.Logger(ctx)

	if f.cache != nil {
		if cached, ok := f.cache.Get(urlStr); ok {
			hit := *cached
			hit.FromCache = true
			return &hit
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, urlStr); err != nil {
			logger.Warn().Err(err).Msg("Rate limit wait aborted")
			return nil
		}
	}

	var result *models.FetchResult
	err := retry.WithRetry(ctx, f.retryCfg, func() error {
		var attemptErr error
		result, attemptErr = f.fetchOnce(ctx, urlStr)
		return attemptErr
	})
	if err != nil {
		logger.Warn().
			Err(err).
			Dur("elapsed", reqctx.Elapsed(ctx)).
			Msg("Fetch failed after all attempts")
		return nil
	}

	logger.Debug().
		Int("status", result.StatusCode).
		Int("bytes", len(result.Body)).
		Int64("response_time_ms", result.ResponseTime).
		Msg("Fetched")

	if f.cache != nil {
		f.cache.Set(urlStr, result, f.cacheTTL)
	}

	return result
}

func (f *Fetcher) fetchOnce(ctx context.Context, urlStr string) (*models.FetchResult, error) {
	start := time.Now()

	client := f.client
	activeProxy := ""
	if f.proxies != nil && f.proxies.Size() > 0 {
		activeProxy = f.proxies.Next()
		if activeProxy != "" {
			var err error
			client, err = f.clientFor(activeProxy)
			if err != nil {
				f.proxies.MarkFailed(activeProxy)
				return nil, fmt.Errorf("bad proxy %s: %w", activeProxy, err)
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		if activeProxy != "" {
			f.proxies.MarkFailed(activeProxy)
		}
		return nil, reqctx.NewRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, retry.NewHTTPError(resp.StatusCode, resp.Status, urlStr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	if activeProxy != "" {
		f.proxies.MarkHealthy(activeProxy)
	}

	result := &models.FetchResult{
		URL:          urlStr,
		FinalURL:     resp.Request.URL.String(),
		StatusCode:   resp.StatusCode,
		Body:         body,
		Headers:      make(map[string]string, len(resp.Header)),
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
	}
	for key, values := range resp.Header {
		if len(values) > 0 {
			result.Headers[key] = values[0]
		}
	}

	return result, nil
}

// CloseIdleConnections releases pooled connections on the main client and
// any proxy clients created along the way.
func (f *Fetcher) CloseIdleConnections() {
	f.client.CloseIdleConnections()
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, client := range f.proxyClients {
		client.CloseIdleConnections()
	}
}

// clientFor returns a client routed through the given proxy, creating and
// caching it on first use. All proxy clients share the main cookie jar.
func (f *Fetcher) clientFor(proxyStr string) (*http.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if client, ok := f.proxyClients[proxyStr]; ok {
		return client, nil
	}

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		return nil, err
	}

	client := &http.Client{
		Jar:     f.client.Jar,
		Timeout: f.timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyURL(proxyURL),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	f.proxyClients[proxyStr] = client

	return client, nil
}
