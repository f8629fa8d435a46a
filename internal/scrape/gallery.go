// internal/scrape/gallery.go
package scrape

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/salonkit/stylesync/internal/urlutil"
	"github.com/salonkit/stylesync/pkg/models"
)

// pageSequence lists gallery page numbers in walk order. Newest-first walks
// from the last page back to page 1; document order within the site runs
// oldest to newest.
func pageSequence(maxPage int, order models.ScrapeOrder) []int {
	if maxPage < 1 {
		maxPage = 1
	}
	pages := make([]int, 0, maxPage)
	if order == models.OrderOldestFirst {
		for n := 1; n <= maxPage; n++ {
			pages = append(pages, n)
		}
	} else {
		for n := maxPage; n >= 1; n-- {
			pages = append(pages, n)
		}
	}
	return pages
}

// FetchLatestStyleImages collects up to the configured maximum of unique,
// normalized style image URLs from the salon's gallery.
//
// Gallery page 1 yielding zero matched elements fails the whole walk with an
// empty result; later pages yielding nothing are tolerated with a warning.
// An inter-page pause applies while the cap is unreached and pages remain.
func (s *Scraper) FetchLatestStyleImages(ctx context.Context, profileURL string, order models.ScrapeOrder) []string {
	base, maxPage := s.StylePageInfo(ctx, profileURL)

	log.Info().
		Str("base", base).
		Int("max_page", maxPage).
		Str("order", string(order)).
		Int("limit", s.maxImages).
		Msg("Walking style gallery")

	pages := pageSequence(maxPage, order)
	seen := make(map[string]bool)
	var urls []string

	for i, page := range pages {
		if len(urls) >= s.maxImages {
			break
		}

		pageURL := urlutil.GalleryPageURL(base, page)
		doc := s.document(ctx, pageURL)
		if doc == nil {
			log.Warn().Int("page", page).Str("url", pageURL).Msg("Gallery page fetch failed, skipping")
			continue
		}

		els := doc.Find(s.selectors.StyleImage)
		if els.Length() == 0 {
			if page == 1 {
				log.Error().
					Str("selector", s.selectors.StyleImage).
					Str("url", pageURL).
					Msg("No style images on gallery page 1, page structure may have changed")
				return nil
			}
			log.Warn().Int("page", page).Msg("No style images on gallery page")
			continue
		}

		// Document order approximates oldest to newest, so newest-first
		// iterates elements in reverse.
		for j := 0; j < els.Length(); j++ {
			if len(urls) >= s.maxImages {
				break
			}

			idx := j
			if order != models.OrderOldestFirst {
				idx = els.Length() - 1 - j
			}

			src, exists := els.Eq(idx).Attr("src")
			if !exists || src == "" {
				continue
			}

			cleaned, ok := urlutil.CleanImageURL(src, s.selectors.CleanupPattern)
			if !ok {
				log.Debug().Str("src", src).Msg("Discarded image source")
				continue
			}
			if seen[cleaned] {
				continue
			}

			seen[cleaned] = true
			urls = append(urls, cleaned)
		}

		if len(urls) < s.maxImages && i < len(pages)-1 {
			sleepCtx(ctx, s.delay)
		}
	}

	log.Info().Int("count", len(urls)).Msg("Collected style image URLs")
	return urls
}
