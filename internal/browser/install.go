// internal/browser/install.go
package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Install downloads the Playwright driver plus the chromium and firefox
// builds this tool can drive. Idempotent: already-present browsers are
// skipped by the installer.
func Install() error {
	err := playwright.Install(&playwright.RunOptions{
		Browsers: []string{EngineChromium, EngineFirefox},
	})
	if err != nil {
		return fmt.Errorf("playwright install failed: %w", err)
	}
	return nil
}
