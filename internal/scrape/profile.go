// internal/scrape/profile.go
package scrape

import (
	"context"
	"time"

	"github.com/salonkit/stylesync/pkg/models"
)

// Profile assembles a snapshot of the salon's public profile: name, gallery
// shape, and the newest image URLs. Partial failures leave the affected
// fields zero-valued rather than failing the snapshot.
func (s *Scraper) Profile(ctx context.Context, profileURL string) *models.SalonProfile {
	name, _ := s.SalonName(ctx, profileURL)
	base, maxPage := s.StylePageInfo(ctx, profileURL)
	urls := s.FetchLatestStyleImages(ctx, profileURL, models.OrderNewestFirst)

	return &models.SalonProfile{
		URL:          profileURL,
		Name:         name,
		StyleBaseURL: base,
		GalleryPages: maxPage,
		ImageURLs:    urls,
		FetchedAt:    time.Now(),
	}
}
