// internal/scrape/download.go
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/salonkit/stylesync/internal/progress"
)

// imageExts is the whitelist of extensions taken from the URL path;
// anything else downloads as .jpg.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// extensionFor picks the local file extension for an image URL.
func extensionFor(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ".jpg"
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if imageExts[ext] {
		return ext
	}
	return ".jpg"
}

// DownloadImages fetches each URL and writes it into dir with a sequential
// image_NNN name keyed to the input position. Individual failures are
// logged and skipped, never aborting the batch; a half-length delay runs
// between items. The returned paths cover only the successful writes.
func (s *Scraper) DownloadImages(ctx context.Context, urls []string, dir string, emitter progress.Emitter) []string {
	emitter = progress.OrNop(emitter)

	if len(urls) == 0 {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("Failed to create download directory")
		return nil
	}

	bar := progressbar.NewOptions(len(urls),
		progressbar.OptionSetDescription("downloading images"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Finish()

	emitter.Emit(fmt.Sprintf("Downloading %d images...", len(urls)))

	var paths []string
	for i, u := range urls {
		if ctx.Err() != nil {
			break
		}

		result := s.fetcher.Fetch(ctx, u)
		if result == nil || len(result.Body) == 0 {
			log.Warn().Str("url", u).Int("index", i+1).Msg("Image download failed, skipping")
			emitter.Emit(fmt.Sprintf("Skipped image %d of %d", i+1, len(urls)))
			bar.Add(1)
			sleepCtx(ctx, s.delay/2)
			continue
		}

		name := fmt.Sprintf("image_%03d%s", i+1, extensionFor(u))
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, result.Body, 0o644); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("Failed to write image")
			bar.Add(1)
			sleepCtx(ctx, s.delay/2)
			continue
		}

		paths = append(paths, p)
		log.Debug().Str("url", u).Str("path", p).Int("bytes", len(result.Body)).Msg("Image saved")
		emitter.Emit(fmt.Sprintf("Downloaded image %d of %d", i+1, len(urls)))
		bar.Add(1)

		sleepCtx(ctx, s.delay/2)
	}

	log.Info().Int("downloaded", len(paths)).Int("requested", len(urls)).Str("dir", dir).Msg("Download batch finished")
	return paths
}
