// internal/auth/manual.go
package auth

import (
	"context"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"

	"github.com/salonkit/stylesync/internal/progress"
)

const (
	accountsHomeURL  = "https://accounts.google.com"
	manualLoginWait  = 10 * time.Minute
	loginCompleteMsg = "login_complete"
)

// completeOverlay floats a confirm button over the page. Its click
// handler reports back over the console channel, the only in-page signal
// automation can hear without touching the page's own scripts.
const completeOverlay = `() => {
	const existing = document.getElementById('login_complete_overlay');
	if (existing) {
		existing.remove();
	}

	const style = document.createElement('style');
	style.textContent = ` + "`" + `
		#login_complete_overlay {
			position: fixed;
			bottom: 20px;
			right: 20px;
			z-index: 9999;
			background: rgba(255, 255, 255, 0.9);
			padding: 15px;
			border-radius: 8px;
			box-shadow: 0 2px 10px rgba(0, 0, 0, 0.2);
			font-family: Arial, sans-serif;
		}
		#login_complete_button {
			background: #4285F4;
			color: white;
			border: none;
			padding: 10px 20px;
			border-radius: 4px;
			font-size: 14px;
			cursor: pointer;
			font-weight: bold;
		}
		#login_complete_message {
			margin-bottom: 10px;
			font-size: 14px;
		}
	` + "`" + `;
	document.head.appendChild(style);

	const overlay = document.createElement('div');
	overlay.id = 'login_complete_overlay';

	const message = document.createElement('div');
	message.id = 'login_complete_message';
	message.textContent = 'ログインが完了したら、このボタンをクリックしてください:';

	const button = document.createElement('button');
	button.id = 'login_complete_button';
	button.textContent = 'ログイン完了';
	button.onclick = function() {
		console.log('login_complete');
		this.textContent = '処理中...';
		this.disabled = true;
	};

	overlay.appendChild(message);
	overlay.appendChild(button);
	document.body.appendChild(overlay);
}`

// ManualLogin opens the Google account home page, overlays a confirm
// button, and waits up to ten minutes for the user to press it or close
// the page. Either one leads to an authoritative re-check; only a full
// timeout with the page still open counts as failure.
func ManualLogin(ctx context.Context, opener PageOpener, emitter progress.Emitter) bool {
	emitter = progress.OrNop(emitter)

	page, err := opener.NewPage()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open login page")
		return false
	}
	defer closePage(page)

	clicked := make(chan struct{}, 1)
	page.OnConsole(func(msg playwright.ConsoleMessage) {
		if msg.Text() != loginCompleteMsg {
			return
		}
		select {
		case clicked <- struct{}{}:
		default:
		}
	})

	emitter.Emit("Opening the Google account page...")
	if _, err := page.Goto(accountsHomeURL, playwright.PageGotoOptions{
		Timeout: playwright.Float(float64(navTimeout.Milliseconds())),
	}); err != nil {
		log.Error().Err(err).Msg("Failed to open the account page")
		return false
	}

	if _, err := page.Evaluate(completeOverlay); err != nil {
		log.Warn().Err(err).Msg("Failed to inject the login-complete overlay")
	}

	emitter.Emit("Sign in, then press the login-complete button...")
	log.Info().Dur("timeout", manualLoginWait).Msg("Waiting for manual login confirmation")

	completed := false
	timeout := time.After(manualLoginWait)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

wait:
	for {
		select {
		case <-ctx.Done():
			return false
		case <-timeout:
			break wait
		case <-clicked:
			log.Info().Msg("Login-complete button pressed")
			completed = true
			break wait
		case <-ticker.C:
			if page.IsClosed() {
				log.Info().Msg("Login page was closed")
				break wait
			}
		}
	}

	if !completed && !page.IsClosed() {
		log.Warn().Msg("Timed out waiting for the login-complete button")
		return false
	}

	// The button click fires before the account is fully settled server
	// side. Give the session a moment before asking.
	emitter.Emit("Confirming login state...")
	sleepCtx(ctx, settleDelay)
	return CheckLogin(ctx, opener)
}
