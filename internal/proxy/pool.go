package proxy

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// failureCooldown is how long a proxy sits out after a failed request.
const failureCooldown = 5 * time.Minute

// Pool hands out proxies round-robin, skipping ones that recently failed.
type Pool struct {
	mu      sync.Mutex
	proxies []string
	index   int
	bench   map[string]time.Time // proxy -> when it failed
}

// NewPool creates a new Pool
func NewPool(proxies []string) *Pool {
	return &Pool{
		proxies: proxies,
		bench:   make(map[string]time.Time),
	}
}

// ParseList splits a comma-separated proxy flag value into a clean slice.
func ParseList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	proxies := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	return proxies
}

// Next returns the next healthy proxy, or "" when the pool is empty. When
// every proxy is cooling down it still returns one; a dubious proxy beats
// no proxy.
func (p *Pool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.proxies)
	if n == 0 {
		return ""
	}

	now := time.Now()
	for tried := 0; tried < n; tried++ {
		candidate := p.proxies[p.index]
		p.index = (p.index + 1) % n

		benchedAt, benched := p.bench[candidate]
		if !benched {
			return candidate
		}
		if now.Sub(benchedAt) >= failureCooldown {
			delete(p.bench, candidate)
			return candidate
		}
	}

	next := p.proxies[p.index]
	p.index = (p.index + 1) % n
	return next
}

// MarkFailed puts a proxy into cooldown so rotation skips it for a while.
func (p *Pool) MarkFailed(proxy string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bench[proxy] = time.Now()
	log.Debug().Str("proxy", proxy).Msg("Proxy marked failed")
}

// MarkHealthy puts a benched proxy back into rotation immediately.
func (p *Pool) MarkHealthy(proxy string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.bench, proxy)
}

// Size reports how many proxies the pool rotates over.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.proxies)
}
