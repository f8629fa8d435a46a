// internal/scrape/scraper.go
package scrape

import (
	"bytes"
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/salonkit/stylesync/internal/config"
	"github.com/salonkit/stylesync/internal/urlutil"
	"github.com/salonkit/stylesync/pkg/models"
)

// PageFetcher retrieves pages for the scraper. A nil result means the fetch
// failed after retries; the scraper never sees transport errors directly.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) *models.FetchResult
}

// Scraper walks a salon's style gallery and downloads its photos.
type Scraper struct {
	fetcher   PageFetcher
	selectors config.GallerySelectors
	maxImages int
	delay     time.Duration
}

// New creates a Scraper bound to the gallery selectors and tunables in cfg.
func New(fetcher PageFetcher, cfg *config.Config) *Scraper {
	return &Scraper{
		fetcher:   fetcher,
		selectors: cfg.Selectors.Gallery,
		maxImages: cfg.MaxImagesToFetch,
		delay:     cfg.DownloadDelay(),
	}
}

// document fetches a page and parses it. Nil means fetch or parse failed;
// the reason is already logged.
func (s *Scraper) document(ctx context.Context, url string) *goquery.Document {
	result := s.fetcher.Fetch(ctx, url)
	if result == nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.Body))
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("Failed to parse HTML")
		return nil
	}
	return doc
}

// SalonName returns the salon's display name from its profile page.
// The second return is false when the fetch fails or the configured
// element is absent (selector drift).
func (s *Scraper) SalonName(ctx context.Context, profileURL string) (string, bool) {
	if s.selectors.SalonName == "" {
		log.Error().Msg("No salon name selector configured")
		return "", false
	}

	doc := s.document(ctx, profileURL)
	if doc == nil {
		return "", false
	}

	sel := doc.Find(s.selectors.SalonName).First()
	if sel.Length() == 0 {
		log.Warn().
			Str("selector", s.selectors.SalonName).
			Str("url", profileURL).
			Msg("Salon name element not found, page structure may have changed")
		return "", false
	}

	return strings.TrimSpace(sel.Text()), true
}

var (
	pageOfTotalRe = regexp.MustCompile(`(\d+)/(\d+)ページ`)
	totalPagesRe  = regexp.MustCompile(`全(\d+)ページ`)
)

// parseMaxPage extracts the page count from the pagination marker text.
// Unrecognized text resolves to 1, never an error.
func parseMaxPage(text string) int {
	if m := pageOfTotalRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil && n > 0 {
			return n
		}
	}
	if m := totalPagesRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

// StylePageInfo derives the gallery base URL and its page count. Failures
// never propagate: a missing selector, failed fetch, or unparsable marker
// all degrade to a single page.
func (s *Scraper) StylePageInfo(ctx context.Context, profileURL string) (string, int) {
	base := urlutil.StyleRoot(profileURL)

	if s.selectors.MaxPageElement == "" {
		log.Warn().Msg("No max-page selector configured, assuming one gallery page")
		return base, 1
	}

	doc := s.document(ctx, base)
	if doc == nil {
		return base, 1
	}

	text := strings.TrimSpace(doc.Find(s.selectors.MaxPageElement).First().Text())
	maxPage := parseMaxPage(text)

	log.Debug().
		Str("base", base).
		Str("marker", text).
		Int("max_page", maxPage).
		Msg("Resolved gallery page count")

	return base, maxPage
}

// sleepCtx pauses for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
