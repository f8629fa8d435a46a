// internal/cli/sessions.go
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/salonkit/stylesync/internal/auth"
	"github.com/salonkit/stylesync/internal/ui"
)

// sessionCmd represents the session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect and manage the saved Google session",
	Long: `Show, import, and clear the saved browser session.

The session lives in two places: the storage-state file holds the actual
cookies and local storage the browser restores, and a small bookkeeping
record (OS keyring, with a file fallback) remembers which engine produced
it and when.`,
	Example: `  # Describe the saved session
  stylesync session show

  # Import a storage-state file exported elsewhere
  stylesync session import storage-state.json

  # Import browser cookies in Netscape format
  stylesync session import --format=netscape < cookies.txt

  # Forget the saved session
  stylesync session clear`,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Describe the saved session state",
	Args:  cobra.NoArgs,
	RunE:  runSessionShow,
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved session state",
	Args:  cobra.NoArgs,
	RunE:  runSessionClear,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionClearCmd)
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	appCtx, err := requireApp()
	if err != nil {
		return err
	}
	statePath := appCtx.Config.StorageStatePath

	fmt.Printf("\n🔍 Saved Session\n")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	info, statErr := os.Stat(statePath)
	if statErr != nil {
		fmt.Printf("State file: %s (not found)\n", statePath)
		fmt.Println("\nNo session saved yet. Create one with:")
		fmt.Println("  stylesync login")
		fmt.Println()
		return nil
	}

	fmt.Printf("State file: %s\n", statePath)
	fmt.Printf("Size:       %s\n", formatBytes(info.Size()))
	fmt.Printf("Modified:   %s\n", info.ModTime().Format(time.RFC1123))

	state, err := auth.ReadStorageState(statePath)
	if err != nil {
		fmt.Printf("Contents:   ⚠️  unreadable (%v)\n", err)
	} else {
		fmt.Printf("Cookies:    %d (%d for Google)\n", len(state.Cookies), countGoogleCookies(state))
		fmt.Printf("Origins:    %d\n", len(state.Origins))

		for i, cookie := range state.Cookies {
			if i >= 5 {
				fmt.Printf("  ... and %d more\n", len(state.Cookies)-5)
				break
			}
			fmt.Printf("  • %s (domain: %s)\n", cookie.Name, cookie.Domain)
		}
	}

	rec, err := auth.LoadRecord(auth.GoogleRecord)
	if err == nil {
		fmt.Printf("\nRecord:\n")
		fmt.Printf("  Engine:   %s\n", rec.Engine)
		fmt.Printf("  Created:  %s\n", rec.CreatedAt.Format(time.RFC1123))
		fmt.Printf("  Updated:  %s\n", rec.UpdatedAt.Format(time.RFC1123))
	}

	fmt.Println()
	return nil
}

func runSessionClear(cmd *cobra.Command, args []string) error {
	appCtx, err := requireApp()
	if err != nil {
		return err
	}
	statePath := appCtx.Config.StorageStatePath

	// Confirm deletion
	fmt.Printf("\n⚠️  Delete the saved session at '%s'? [y/N]: ", statePath)
	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "y" && confirm != "Y" {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := os.Remove(statePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	if err := auth.DeleteRecordWithManifest(auth.GoogleRecord); err != nil {
		// The record is bookkeeping only; a missing one is not worth failing over.
		fmt.Println(ui.Info("Note: no session record to remove"))
	}

	fmt.Println(ui.Success("\n✓ Session cleared.\n"))
	return nil
}

// countGoogleCookies counts the cookies scoped to a Google domain.
func countGoogleCookies(state *auth.StorageState) int {
	n := 0
	for _, c := range state.Cookies {
		if strings.Contains(c.Domain, "google") {
			n++
		}
	}
	return n
}

// formatBytes renders a byte count in the nearest binary unit.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
