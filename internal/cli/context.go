// Package cli provides the command-line interface for the stylesync application.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/salonkit/stylesync/internal/app"
	"github.com/salonkit/stylesync/internal/task"
)

// Global reference - one application per process, shared by all commands.
var globalApp *app.Application

// SetApp stores the Application for commands to access
func SetApp(a *app.Application) {
	globalApp = a
}

// GetApp retrieves the Application
func GetApp() *app.Application {
	return globalApp
}

// requireApp returns the initialized Application or an error for commands
// that cannot run without one.
func requireApp() (*app.Application, error) {
	if globalApp == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return globalApp, nil
}

// runOperation submits fn to the background runner, prints each progress
// line to stderr as it arrives, and joins the task. Browser and scrape
// operations all funnel through here so the terminal caller never blocks
// the automation goroutine.
func runOperation(cmd *cobra.Command, a *app.Application, name string, fn task.Fn) error {
	t := a.Runner.Submit(cmd.Context(), name, fn)
	for msg := range t.Progress {
		fmt.Fprintln(os.Stderr, msg)
	}
	return t.Wait(cmd.Context())
}
