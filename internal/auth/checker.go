// internal/auth/checker.go
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"
)

const (
	// signinProbeURL is where a logged-out browser gets challenged and a
	// logged-in one gets redirected away from.
	signinProbeURL = "https://accounts.google.com/signin/v2/identifier"

	navTimeout   = 30 * time.Second
	settleDelay  = 3 * time.Second
	pollInterval = time.Second
)

// PageOpener opens fresh pages in a live browser context. *browser.Session
// satisfies it.
type PageOpener interface {
	NewPage() (playwright.Page, error)
}

// IsLoggedIn probes the login state on an existing page. If the page is
// not already on the Google accounts domain it first navigates to the
// sign-in probe URL: a live session gets redirected off the challenge
// screen, a dead one stays on it. Best effort, never raises.
func IsLoggedIn(page playwright.Page) bool {
	if page == nil || page.IsClosed() {
		return false
	}
	if !strings.Contains(page.URL(), "accounts.google.com") {
		if _, err := page.Goto(signinProbeURL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateNetworkidle,
			Timeout:   playwright.Float(float64(navTimeout.Milliseconds())),
		}); err != nil {
			log.Warn().Err(err).Msg("Login probe navigation failed")
			return false
		}
	}

	url := page.URL()
	loggedIn := classifyURL(url)
	log.Debug().Str("url", url).Bool("logged_in", loggedIn).Msg("Classified login state")
	if loggedIn {
		log.Info().Msg("Google session is logged in")
	} else {
		log.Info().Msg("Google session is not logged in")
	}
	return loggedIn
}

// CheckLogin opens a fresh page, probes the login state, and closes it.
func CheckLogin(ctx context.Context, opener PageOpener) bool {
	if ctx.Err() != nil {
		return false
	}
	page, err := opener.NewPage()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to open page for login check")
		return false
	}
	defer closePage(page)
	return IsLoggedIn(page)
}

// classifyURL decides login state from the URL a probe landed on. Known
// account-management surfaces count as logged in; the sign-in challenge
// path counts as logged out; everything else counts as logged in, since
// Google bounces authenticated users to unpredictable destinations.
func classifyURL(url string) bool {
	if strings.Contains(url, "myaccount.google.com") {
		return true
	}
	if strings.Contains(url, "accounts.google.com/o/oauth2") {
		return true
	}
	if strings.Contains(url, "accounts.google.com") && strings.Contains(url, "/signin") {
		return false
	}
	return true
}

func closePage(page playwright.Page) {
	if page == nil || page.IsClosed() {
		return
	}
	if err := page.Close(); err != nil {
		log.Debug().Err(err).Msg("Failed to close page")
	}
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
