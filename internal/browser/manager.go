// internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"

	"github.com/salonkit/stylesync/internal/config"
)

const (
	EngineChromium = "chromium"
	EngineFirefox  = "firefox"

	launchTimeout = 60 * time.Second

	// Matches a mainstream desktop Chrome build so the session blends in
	// with ordinary traffic.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Chromium flags down the usual automation tells. Firefox needs none of
// these and launches bare.
var chromiumArgs = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-blink-features=AutomationControlled",
	"--disable-infobars",
	"--window-size=1920,1080",
}

// Injected before any page script runs. navigator.webdriver is the first
// thing bot detection looks at.
const stealthScript = `() => {
  Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
  if (window.chrome) {
    delete window.chrome.csi;
    delete window.chrome.runtime;
  }
}`

// Options override per-session pieces of the configured browser setup.
type Options struct {
	// Engine selects "chromium" or "firefox". Empty uses the configured
	// default; anything unrecognized falls back to chromium.
	Engine string
	// Headless, when set, overrides the configured headless mode.
	Headless *bool
}

// Session owns one Playwright browser context and the process behind it.
// Not safe for concurrent use.
type Session struct {
	cfg      *config.Config
	engine   string
	headless bool

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
}

// NewSession prepares a session; nothing launches until Start.
func NewSession(cfg *config.Config, opts Options) *Session {
	engine := opts.Engine
	if engine == "" {
		engine = cfg.Browser
	}
	if engine != EngineFirefox {
		engine = EngineChromium
	}
	headless := cfg.Headless
	if opts.Headless != nil {
		headless = *opts.Headless
	}
	return &Session{cfg: cfg, engine: engine, headless: headless}
}

// Engine reports which browser engine this session drives.
func (s *Session) Engine() string { return s.engine }

// Start launches the browser and builds a context with the desktop
// fingerprint and any stored session state. On failure everything
// launched so far is torn down.
func (s *Session) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}
	s.pw = pw

	log.Info().
		Str("engine", s.engine).
		Bool("headless", s.headless).
		Msg("Launching browser")

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.headless),
		Timeout:  playwright.Float(float64(launchTimeout.Milliseconds())),
	}
	if s.cfg.BrowserPath != "" {
		launchOpts.ExecutablePath = playwright.String(s.cfg.BrowserPath)
	}

	if s.engine == EngineFirefox {
		s.browser, err = pw.Firefox.Launch(launchOpts)
	} else {
		launchOpts.Args = chromiumArgs
		s.browser, err = pw.Chromium.Launch(launchOpts)
	}
	if err != nil {
		s.Close()
		return fmt.Errorf("failed to launch %s: %w", s.engine, err)
	}

	ctxOpts := playwright.BrowserNewContextOptions{
		UserAgent:         playwright.String(userAgent),
		Viewport:          &playwright.Size{Width: 1920, Height: 1080},
		Screen:            &playwright.Size{Width: 1920, Height: 1080},
		DeviceScaleFactor: playwright.Float(1.0),
		IsMobile:          playwright.Bool(false),
		HasTouch:          playwright.Bool(false),
		Locale:            playwright.String("ja-JP"),
	}
	if _, statErr := os.Stat(s.cfg.StorageStatePath); statErr == nil {
		log.Info().Str("path", s.cfg.StorageStatePath).Msg("Restoring stored session state")
		ctxOpts.StorageStatePath = playwright.String(s.cfg.StorageStatePath)
	}

	s.context, err = s.browser.NewContext(ctxOpts)
	if err != nil {
		s.Close()
		return fmt.Errorf("failed to create browser context: %w", err)
	}

	if s.engine == EngineChromium {
		if err := s.context.AddInitScript(playwright.Script{
			Content: playwright.String(stealthScript),
		}); err != nil {
			log.Warn().Err(err).Msg("Failed to install stealth script")
		}
	}
	return nil
}

// NewPage opens a page in the session context.
func (s *Session) NewPage() (playwright.Page, error) {
	if s.context == nil {
		return nil, fmt.Errorf("session not started")
	}
	page, err := s.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return page, nil
}

// SaveStorageState persists cookies and local storage to the configured
// path so the next session resumes logged in.
func (s *Session) SaveStorageState() error {
	if s.context == nil {
		log.Warn().Msg("No browser context, skipping storage state save")
		return nil
	}
	if _, err := s.context.StorageState(s.cfg.StorageStatePath); err != nil {
		return fmt.Errorf("failed to save storage state: %w", err)
	}
	log.Info().Str("path", s.cfg.StorageStatePath).Msg("Saved session state")
	return nil
}

// Close tears down context, browser, and the playwright process in order.
// Safe to call multiple times and on a partially started session.
func (s *Session) Close() {
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close browser context")
		}
		s.context = nil
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close browser")
		}
		s.browser = nil
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			log.Warn().Err(err).Msg("Failed to stop playwright")
		}
		s.pw = nil
	}
}
