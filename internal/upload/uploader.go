// internal/upload/uploader.go
package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/salonkit/stylesync/internal/config"
	"github.com/salonkit/stylesync/internal/progress"
	"github.com/salonkit/stylesync/pkg/models"
)

// Per-step wait bounds. The owner-check probes are deliberately short: the
// prompt only exists for unclaimed businesses and its absence is the common
// case.
const (
	navTimeout          = 30 * time.Second
	probeTimeout        = 1 * time.Second
	clickTimeout        = 10 * time.Second
	ownerIframeTimeout  = 15 * time.Second
	continueTimeout     = 30 * time.Second
	ownerHiddenTimeout  = 30 * time.Second
	addPhotoTimeout     = 60 * time.Second
	uploadIframeTimeout = 60 * time.Second
	selectFilesTimeout  = 30 * time.Second
	uploadHiddenTimeout = 120 * time.Second
)

// Scope is one selector-addressable surface: the page itself, or the
// content frame of an iframe on it.
type Scope interface {
	WaitVisible(selector string, timeout time.Duration) error
	WaitHidden(selector string, timeout time.Duration) error
	Click(selector string, timeout time.Duration) error
}

// Driver is the browser surface the upload sequence drives. The playwright
// implementation lives in internal/browser; tests substitute fakes.
type Driver interface {
	// Goto navigates the page and waits for network idle.
	Goto(url string, timeout time.Duration) error
	// Page returns the page-level scope.
	Page() Scope
	// Frame returns a scope inside the iframe matched by selector.
	Frame(selector string) Scope
	// SelectFiles arms native file-chooser interception, clicks the
	// trigger inside the iframe matched by frameSelector, and answers the
	// chooser with all paths at once.
	SelectFiles(frameSelector, trigger string, paths []string, timeout time.Duration) error
	// URL reports the page's current address.
	URL() string
	// Diagnostics captures failure artifacts tagged with stepContext and
	// returns their paths. Best effort, never fatal.
	Diagnostics(stepContext string) []string
}

// Uploader walks the destination console from navigation through file
// selection. The selector groups come from config; the browser comes in
// through Driver.
type Uploader struct {
	driver Driver
	owner  config.OwnerSelectors
	photo  config.UploadSelectors
	settle time.Duration
}

func New(driver Driver, cfg *config.Config) *Uploader {
	return &Uploader{
		driver: driver,
		owner:  cfg.Selectors.Owner,
		photo:  cfg.Selectors.Upload,
		settle: cfg.UploadWait(),
	}
}

// Run executes the upload sequence against destURL. The caller has already
// confirmed login on the driver's page; Run never re-checks. The returned
// report is never nil; Success false means a fatal step failed and
// diagnostics were captured.
func (u *Uploader) Run(ctx context.Context, destURL string, imagePaths []string, emitter progress.Emitter) *models.UploadReport {
	emitter = progress.OrNop(emitter)

	report := &models.UploadReport{
		DestinationURL: destURL,
		ImageCount:     len(imagePaths),
		StartedAt:      time.Now(),
	}
	defer func() { report.FinishedAt = time.Now() }()

	fail := func(step string, err error) *models.UploadReport {
		stepErr := &StepError{Step: step, Context: step, Err: err}
		log.Error().
			Err(err).
			Str("step", step).
			Str("url", u.driver.URL()).
			Msg("Upload step failed")
		report.FailedStep = step
		report.Diagnostics = u.driver.Diagnostics(stepErr.Context)
		return report
	}

	if err := ctx.Err(); err != nil {
		report.FailedStep = "cancelled"
		return report
	}

	log.Info().
		Str("url", destURL).
		Int("images", len(imagePaths)).
		Msg("Starting photo upload")
	emitter.Emit("Opening the business console...")

	if err := u.driver.Goto(destURL, navTimeout); err != nil {
		return fail("navigate", err)
	}

	page := u.driver.Page()

	// Unclaimed businesses interpose an ownership prompt before the photo
	// surface. Both probes missing is suspicious but not fatal.
	if err := page.WaitVisible(u.owner.OwnerPrompt, probeTimeout); err == nil {
		emitter.Emit("Confirming business ownership...")
		if err := u.passOwnerCheck(page); err != nil {
			return fail("owner_check", err)
		}
	} else if err := page.WaitVisible(u.photo.AddPhotoButton, probeTimeout); err != nil {
		log.Warn().
			Str("owner_prompt", u.owner.OwnerPrompt).
			Str("add_photo", u.photo.AddPhotoButton).
			Msg("Neither owner prompt nor add-photo control found, proceeding anyway")
	}

	emitter.Emit("Opening the photo upload surface...")

	if err := page.WaitVisible(u.photo.AddPhotoButton, addPhotoTimeout); err != nil {
		return fail("add_photo", err)
	}
	if err := page.Click(u.photo.AddPhotoButton, clickTimeout); err != nil {
		return fail("add_photo", err)
	}

	if err := page.WaitVisible(u.photo.UploadIframe, uploadIframeTimeout); err != nil {
		return fail("upload_iframe", err)
	}

	emitter.Emit("Selecting image files...")

	if err := u.driver.SelectFiles(u.photo.UploadIframe, u.photo.SelectFilesButton, imagePaths, selectFilesTimeout); err != nil {
		return fail("select_files", err)
	}

	// File selection is the terminal action; the console takes it from
	// here. Give the widget a settle pause, then wait for it to dismiss
	// itself. A stuck iframe is reported but does not mark failure.
	sleepCtx(ctx, u.settle)

	emitter.Emit("Waiting for the upload to finish...")

	if err := page.WaitHidden(u.photo.UploadIframe, uploadHiddenTimeout); err != nil {
		log.Warn().
			Err(err).
			Str("selector", u.photo.UploadIframe).
			Msg("Upload widget still visible after wait, assuming upload continues in background")
	}

	report.Success = true
	log.Info().Int("images", len(imagePaths)).Msg("Photo upload sequence finished")
	emitter.Emit("Upload finished")
	return report
}

// passOwnerCheck clicks through the ownership-confirmation dialog. A nil
// return means the photo surface should be reachable; the dialog failing
// to dismiss afterwards is tolerated.
func (u *Uploader) passOwnerCheck(page Scope) error {
	if err := page.Click(u.owner.OwnerPrompt, clickTimeout); err != nil {
		return fmt.Errorf("click owner prompt: %w", err)
	}

	if err := page.WaitVisible(u.owner.OwnerIframe, ownerIframeTimeout); err != nil {
		return fmt.Errorf("owner iframe did not appear: %w", err)
	}

	frame := u.driver.Frame(u.owner.OwnerIframe)
	if err := frame.WaitVisible(u.owner.ContinueButton, continueTimeout); err != nil {
		return fmt.Errorf("continue button did not appear in owner iframe: %w", err)
	}
	if err := frame.Click(u.owner.ContinueButton, clickTimeout); err != nil {
		return fmt.Errorf("click continue: %w", err)
	}

	if err := page.WaitHidden(u.owner.OwnerIframe, ownerHiddenTimeout); err != nil {
		log.Warn().Err(err).Msg("Owner iframe still visible, continuing")
	}

	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
