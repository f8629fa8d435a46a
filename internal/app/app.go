// Package app wires configuration, scraping, and browser automation into
// the operations the CLI exposes.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/salonkit/stylesync/internal/auth"
	"github.com/salonkit/stylesync/internal/browser"
	"github.com/salonkit/stylesync/internal/cache"
	"github.com/salonkit/stylesync/internal/config"
	"github.com/salonkit/stylesync/internal/fetch"
	"github.com/salonkit/stylesync/internal/headers"
	"github.com/salonkit/stylesync/internal/progress"
	"github.com/salonkit/stylesync/internal/proxy"
	"github.com/salonkit/stylesync/internal/ratelimit"
	"github.com/salonkit/stylesync/internal/scrape"
	"github.com/salonkit/stylesync/internal/task"
	"github.com/salonkit/stylesync/internal/upload"
	"github.com/salonkit/stylesync/internal/urlutil"
	"github.com/salonkit/stylesync/pkg/models"
)

// Application is the long-lived dependency bundle behind every CLI
// command: one config, one logger, one fetch pipeline. Browser sessions
// are not held here: each browser-bearing operation launches and tears
// down its own.
type Application struct {
	Config  *config.Config
	Logger  *zerolog.Logger
	Cache   cache.Cache
	Fetcher *fetch.Fetcher
	Scraper *scrape.Scraper
	Runner  *task.Runner

	startTime time.Time
}

// New builds the Application and installs the process-wide logger.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	zerolog.SetGlobalLevel(levelFor(cfg.LogLevel))

	// Console writer for humans, raw JSON on stderr for machines.
	var logWriter io.Writer = zerolog.NewConsoleWriter()
	if cfg.JSONLog {
		logWriter = os.Stderr
	}

	logger := log.Output(logWriter).With().Timestamp().Logger()
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logging configured")

	memCache := cache.NewMemoryCache(cfg.CacheMaxSizeBytes)
	limiter := ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	var proxies *proxy.Pool
	if list := proxy.ParseList(cfg.Proxy); len(list) > 0 {
		proxies = proxy.NewPool(list)
	}

	fetcher := fetch.New(fetch.Options{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
		Headers:   headers.ParseHeaders(cfg.Headers),
		Cache:     memCache,
		Limiter:   limiter,
		Proxies:   proxies,
		CacheTTL:  cfg.CacheTTL,
	})
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Float64("rps", cfg.RateLimitRPS).
		Msg("Fetcher initialized")

	app := &Application{
		Config:    cfg,
		Logger:    &logger,
		Cache:     memCache,
		Fetcher:   fetcher,
		Scraper:   scrape.New(fetcher, cfg),
		Runner:    task.NewRunner(),
		startTime: time.Now(),
	}

	logger.Info().Msg("Application ready")
	return app, nil
}

// levelFor maps the config level onto zerolog's. Plain "info" still maps
// to error: routine progress goes through emitters, not the log.
func levelFor(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// CheckLogin probes whether the stored session is still signed in to
// Google. The probe is read-only; it launches with the configured engine
// and headless mode.
func (a *Application) CheckLogin(ctx context.Context) (bool, error) {
	session := browser.NewSession(a.Config, browser.Options{})
	if err := session.Start(ctx); err != nil {
		return false, err
	}
	defer session.Close()

	return auth.CheckLogin(ctx, session), nil
}

// LoginToGoogle walks the engine ladder: Firefox first, Chromium when
// that fails. Google's sign-in flow blocks some automated Chromium
// builds outright, and Firefox draws less attention.
func (a *Application) LoginToGoogle(ctx context.Context, emitter progress.Emitter) (bool, error) {
	emitter = progress.OrNop(emitter)
	if err := a.ensureDisplay(a.Config.Headless); err != nil {
		return false, err
	}

	engines := []string{browser.EngineFirefox, browser.EngineChromium}
	var lastErr error
	for i, engine := range engines {
		if i > 0 {
			emitter.Emit("Firefox login failed, retrying with Chromium...")
		}
		ok, err := a.loginWithEngine(ctx, engine, emitter)
		if err != nil {
			log.Warn().Err(err).Str("engine", engine).Msg("Login attempt could not start")
			lastErr = err
			continue
		}
		if ok {
			return true, nil
		}
		lastErr = nil
	}
	return false, lastErr
}

func (a *Application) loginWithEngine(ctx context.Context, engine string, emitter progress.Emitter) (bool, error) {
	session := browser.NewSession(a.Config, browser.Options{Engine: engine})
	if err := session.Start(ctx); err != nil {
		return false, err
	}
	defer session.Close()

	if auth.CheckLogin(ctx, session) {
		log.Info().Msg("Already logged in")
		emitter.Emit("Already logged in to Google")
		return true, nil
	}

	ok := auth.Login(ctx, session, emitter)
	if ok {
		a.saveSession(session)
	}
	return ok, nil
}

// ManualLogin forces a visible Chromium window: the user drives the whole
// sign-in and presses the injected confirm button when done.
func (a *Application) ManualLogin(ctx context.Context, emitter progress.Emitter) (bool, error) {
	emitter = progress.OrNop(emitter)
	if err := a.ensureDisplay(false); err != nil {
		return false, err
	}

	headless := false
	session := browser.NewSession(a.Config, browser.Options{
		Engine:   browser.EngineChromium,
		Headless: &headless,
	})
	if err := session.Start(ctx); err != nil {
		return false, err
	}
	defer session.Close()

	ok := auth.ManualLogin(ctx, session, emitter)
	if ok {
		a.saveSession(session)
		emitter.Emit(fmt.Sprintf("Saved login state to %s", a.Config.StorageStatePath))
	}
	return ok, nil
}

// UploadToGBP drives one photo upload end to end on a single page: login
// check, then the upload sequence. A session that is not logged in aborts
// with a report rather than attempting a login itself.
func (a *Application) UploadToGBP(ctx context.Context, destURL string, imagePaths []string, emitter progress.Emitter) (*models.UploadReport, error) {
	emitter = progress.OrNop(emitter)

	if len(imagePaths) == 0 {
		return nil, fmt.Errorf("no images to upload")
	}
	if err := urlutil.ValidateURL(destURL); err != nil {
		return nil, fmt.Errorf("invalid destination URL: %w", err)
	}
	for _, path := range imagePaths {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("image not found: %s", path)
		}
	}

	session := browser.NewSession(a.Config, browser.Options{})
	if err := session.Start(ctx); err != nil {
		return nil, err
	}
	defer session.Close()

	page, err := session.NewPage()
	if err != nil {
		return nil, err
	}
	defer func() {
		if !page.IsClosed() {
			if err := page.Close(); err != nil {
				log.Debug().Err(err).Msg("Failed to close upload page")
			}
		}
	}()

	emitter.Emit("Checking Google login state...")
	if !auth.IsLoggedIn(page) {
		log.Warn().Msg("Not logged in, aborting upload")
		emitter.Emit("Not logged in to Google, aborting upload")
		now := time.Now()
		return &models.UploadReport{
			DestinationURL: destURL,
			ImageCount:     len(imagePaths),
			FailedStep:     "login_check",
			StartedAt:      now,
			FinishedAt:     now,
		}, nil
	}

	driver := browser.NewUploadDriver(page, a.Config.DiagnosticsDir)
	report := upload.New(driver, a.Config).Run(ctx, destURL, imagePaths, emitter)

	if report.Success {
		a.saveSession(session)
	}
	return report, nil
}

// SalonName reads the salon's display name from its profile page.
func (a *Application) SalonName(ctx context.Context, profileURL string) (string, bool) {
	return a.Scraper.SalonName(ctx, profileURL)
}

// FetchLatestStyleImages walks the style gallery and returns image URLs
// in the requested order, capped by configuration.
func (a *Application) FetchLatestStyleImages(ctx context.Context, profileURL string, order models.ScrapeOrder) []string {
	return a.Scraper.FetchLatestStyleImages(ctx, profileURL, order)
}

// DownloadImages saves the given image URLs into the configured download
// directory and returns the paths written.
func (a *Application) DownloadImages(ctx context.Context, urls []string, emitter progress.Emitter) []string {
	return a.Scraper.DownloadImages(ctx, urls, a.Config.DownloadDir, emitter)
}

// SalonProfile assembles the full profile snapshot for one salon.
func (a *Application) SalonProfile(ctx context.Context, profileURL string) *models.SalonProfile {
	return a.Scraper.Profile(ctx, profileURL)
}

// saveSession persists storage state and mirrors a bookkeeping record so
// the session commands can report what is stored where.
func (a *Application) saveSession(session *browser.Session) {
	if err := session.SaveStorageState(); err != nil {
		log.Warn().Err(err).Msg("Failed to save session state")
		return
	}
	rec := &auth.SessionRecord{
		Name:             auth.GoogleRecord,
		Engine:           session.Engine(),
		StorageStatePath: a.Config.StorageStatePath,
	}
	if existing, err := auth.LoadRecord(auth.GoogleRecord); err == nil {
		rec.CreatedAt = existing.CreatedAt
	}
	if err := auth.SaveRecordWithManifest(rec); err != nil {
		log.Warn().Err(err).Msg("Failed to update session record")
	}
}

// ensureDisplay rejects headful launches without a display server, which
// otherwise fail deep inside the browser with an opaque error.
func (a *Application) ensureDisplay(headless bool) error {
	if headless || runtime.GOOS != "linux" {
		return nil
	}
	if os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != "" {
		return nil
	}
	return fmt.Errorf("interactive login requires a display server (DISPLAY not set)\n\n" +
		"💡 In headless environments (Codespaces, CI), import a session instead:\n" +
		"   stylesync session import <storage-state.json>")
}

// Close releases the shared resources. Browser sessions are
// per-operation and are already gone by the time this runs.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Info().Msg("Shutting down")

	if a.Cache != nil {
		a.Cache.Close()
	}
	if a.Fetcher != nil {
		a.Fetcher.CloseIdleConnections()
	}

	a.Logger.Info().Dur("uptime", a.Uptime()).Msg("Shutdown complete")
	return nil
}

// Uptime reports how long the process has been serving commands.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
