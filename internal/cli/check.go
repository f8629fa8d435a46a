// internal/cli/check.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salonkit/stylesync/internal/progress"
	"github.com/salonkit/stylesync/internal/ui"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the saved Google session is still signed in",
	Long: `Launches a browser with the saved session state and probes Google's
sign-in flow. A live session is redirected away from the challenge screen;
an expired one lands on it.

The probe is read-only: it never attempts a login and never modifies the
saved session state.`,
	Example: `  # Check the default session
  stylesync check

  # Check a specific session state file, without a browser window
  stylesync check --storage-state=work-session.json --headless`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	appCtx, err := requireApp()
	if err != nil {
		return err
	}

	var loggedIn bool
	err = runOperation(cmd, appCtx, "check-login", func(ctx context.Context, emitter progress.Emitter) error {
		emitter.Emit("Checking Google login state...")
		ok, err := appCtx.CheckLogin(ctx)
		loggedIn = ok
		return err
	})
	if err != nil {
		return fmt.Errorf("login check failed: %w", err)
	}

	if loggedIn {
		fmt.Println(ui.Success("✓ Logged in to Google"))
	} else {
		fmt.Println(ui.Warn("✗ Not logged in to Google"))
		fmt.Println("\nSign in with:")
		fmt.Println("  stylesync login")
	}
	return nil
}
