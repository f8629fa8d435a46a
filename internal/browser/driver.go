// internal/browser/driver.go
package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/salonkit/stylesync/internal/diag"
	"github.com/salonkit/stylesync/internal/upload"
)

// UploadDriver adapts a live page to the upload state machine.
type UploadDriver struct {
	page    playwright.Page
	diagDir string
}

var _ upload.Driver = (*UploadDriver)(nil)

func NewUploadDriver(page playwright.Page, diagDir string) *UploadDriver {
	return &UploadDriver{page: page, diagDir: diagDir}
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// Goto navigates and waits for the network to go quiet, since the
// console builds most of its DOM after the initial document load.
func (d *UploadDriver) Goto(url string, timeout time.Duration) error {
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   ms(timeout),
	})
	if err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

func (d *UploadDriver) Page() upload.Scope {
	return &pageScope{page: d.page}
}

func (d *UploadDriver) Frame(selector string) upload.Scope {
	return &frameScope{frame: d.page.FrameLocator(selector)}
}

// SelectFiles clicks the trigger inside the iframe and feeds paths to the
// native file chooser that opens.
func (d *UploadDriver) SelectFiles(frameSelector, trigger string, paths []string, timeout time.Duration) error {
	chooser, err := d.page.ExpectFileChooser(func() error {
		return d.page.FrameLocator(frameSelector).Locator(trigger).First().Click(playwright.LocatorClickOptions{
			Timeout: ms(timeout),
		})
	}, playwright.PageExpectFileChooserOptions{Timeout: ms(timeout)})
	if err != nil {
		return fmt.Errorf("file chooser did not open: %w", err)
	}
	if err := chooser.SetFiles(paths); err != nil {
		return fmt.Errorf("failed to set files on chooser: %w", err)
	}
	return nil
}

func (d *UploadDriver) URL() string {
	return d.page.URL()
}

func (d *UploadDriver) Diagnostics(stepContext string) []string {
	return diag.Capture(d.page, d.diagDir, stepContext)
}

// pageScope waits and clicks against the top-level document.
type pageScope struct {
	page playwright.Page
}

func (s *pageScope) WaitVisible(selector string, timeout time.Duration) error {
	return s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	})
}

func (s *pageScope) WaitHidden(selector string, timeout time.Duration) error {
	return s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: ms(timeout),
	})
}

func (s *pageScope) Click(selector string, timeout time.Duration) error {
	return s.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: ms(timeout),
	})
}

// frameScope waits and clicks inside one iframe.
type frameScope struct {
	frame playwright.FrameLocator
}

func (s *frameScope) WaitVisible(selector string, timeout time.Duration) error {
	return s.frame.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	})
}

func (s *frameScope) WaitHidden(selector string, timeout time.Duration) error {
	return s.frame.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: ms(timeout),
	})
}

func (s *frameScope) Click(selector string, timeout time.Duration) error {
	return s.frame.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: ms(timeout),
	})
}
