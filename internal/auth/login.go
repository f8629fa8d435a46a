// internal/auth/login.go
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"

	"github.com/salonkit/stylesync/internal/progress"
)

const (
	signinEntryURL = "https://accounts.google.com/signin/v2"
	loginWait      = 5 * time.Minute
)

// postLoginMarkers are URL fragments that only show up once Google has
// accepted the sign-in. The leading slash anchors each marker to an
// authority or path boundary so lookalike hosts cannot match.
var postLoginMarkers = []string{
	"/myaccount.google.com/",
	"/accounts.google.com/signin/signinchooser",
	"/accounts.google.com/ManageAccount",
	"/google.com/",
	"/www.google.com/",
	"/mail.google.com/",
}

func matchesPostLogin(url string) bool {
	for _, marker := range postLoginMarkers {
		if strings.Contains(url, marker) {
			return true
		}
	}
	return false
}

// Login opens the Google sign-in page and waits up to five minutes for
// the user to finish signing in, watching the page URL for known
// post-login destinations. The user closing the page mid-flow is treated
// as "re-check, don't fail": they may well have finished first.
func Login(ctx context.Context, opener PageOpener, emitter progress.Emitter) bool {
	emitter = progress.OrNop(emitter)

	page, err := opener.NewPage()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open login page")
		return false
	}
	defer closePage(page)

	emitter.Emit("Opening the Google sign-in page...")
	if _, err := page.Goto(signinEntryURL, playwright.PageGotoOptions{
		Timeout: playwright.Float(float64(navTimeout.Milliseconds())),
	}); err != nil {
		log.Error().Err(err).Msg("Failed to open the sign-in page")
		return false
	}

	emitter.Emit("Finish signing in in the browser window...")
	log.Info().Dur("timeout", loginWait).Msg("Waiting for login to complete")

	timeout := time.After(loginWait)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-timeout:
			log.Warn().Msg("Timed out waiting for login")
			emitter.Emit("Checking login state one more time...")
			return CheckLogin(ctx, opener)
		case <-ticker.C:
			if page.IsClosed() {
				log.Info().Msg("Login page was closed, re-checking login state")
				return CheckLogin(ctx, opener)
			}
			url := page.URL()
			if matchesPostLogin(url) {
				log.Info().Str("url", url).Msg("Post-login URL detected")
				emitter.Emit("Login detected")
				return true
			}
			if !strings.Contains(url, "accounts.google.com/signin") {
				// Off the sign-in flow but not on a known destination.
				// Give any redirect a moment to land, then ask
				// authoritatively.
				log.Info().Str("url", url).Msg("Left the sign-in flow, verifying login state")
				sleepCtx(ctx, settleDelay)
				return CheckLogin(ctx, opener)
			}
		}
	}
}
