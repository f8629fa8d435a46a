// internal/cli/setup.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salonkit/stylesync/internal/browser"
	"github.com/salonkit/stylesync/internal/ui"
)

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install the browser automation driver and browsers",
	Long: `Downloads the Playwright driver plus the Chromium and Firefox builds the
login and upload flows drive. Run this once after installing stylesync;
already-installed components are skipped.`,
	Example: `  # First-time setup
  stylesync setup`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	// No application or config needed; installing must work before any
	// session state exists.
	setupCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil }
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println("Installing the browser driver and browsers, this can take a few minutes...")

	if err := browser.Install(); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	fmt.Println(ui.Success("✓ Browsers installed"))
	fmt.Println("\nNext, sign in to Google with:")
	fmt.Println("  stylesync login")
	return nil
}
