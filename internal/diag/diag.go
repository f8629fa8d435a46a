// internal/diag/diag.go
package diag

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"
)

// Page is the minimal page surface failure capture needs. playwright.Page
// satisfies it; tests substitute fakes.
type Page interface {
	IsClosed() bool
	Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error)
	Content() (string, error)
}

const timestampLayout = "20060102_150405"

// Capture writes error_<context>_<timestamp>.png (full-page screenshot)
// and error_<context>_<timestamp>.html (page content) into dir, returning
// the paths of the artifacts actually written. Each artifact is best
// effort: a failure is logged and skipped. A nil or closed page yields
// nothing.
func Capture(page Page, dir, context string) []string {
	if page == nil || page.IsClosed() {
		log.Debug().Str("context", context).Msg("Page closed, skipping diagnostics")
		return nil
	}
	if dir == "" {
		dir = "."
	}

	stamp := time.Now().Format(timestampLayout)
	var artifacts []string

	pngPath := filepath.Join(dir, fmt.Sprintf("error_%s_%s.png", context, stamp))
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(pngPath),
		FullPage: playwright.Bool(true),
	}); err != nil {
		log.Warn().Err(err).Str("path", pngPath).Msg("Failed to capture error screenshot")
	} else {
		log.Info().Str("path", pngPath).Msg("Saved error screenshot")
		artifacts = append(artifacts, pngPath)
	}

	html, err := page.Content()
	if err != nil {
		log.Warn().Err(err).Str("context", context).Msg("Failed to read page content")
		return artifacts
	}
	htmlPath := filepath.Join(dir, fmt.Sprintf("error_%s_%s.html", context, stamp))
	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		log.Warn().Err(err).Str("path", htmlPath).Msg("Failed to write error page HTML")
		return artifacts
	}
	log.Info().Str("path", htmlPath).Msg("Saved error page HTML")
	return append(artifacts, htmlPath)
}
