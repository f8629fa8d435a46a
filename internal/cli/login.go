// internal/cli/login.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salonkit/stylesync/internal/progress"
	"github.com/salonkit/stylesync/internal/ui"
)

var manualLogin bool

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Interactively sign in to Google and save the session",
	Long: `Opens a visible browser window on Google's sign-in page for you to log in.
Once the sign-in completes, cookies and local storage are saved to the
session-state file so later runs resume without logging in again.

The interactive flow watches the page for known post-login destinations,
trying Firefox first and falling back to Chromium. With --manual the flow
instead opens Chromium on the Google account page, overlays a confirm
button, and waits for you to press it when you are done, which helps when
the automatic detection misses your account's sign-in path.`,
	Example: `  # Interactive login (Firefox first, Chromium fallback)
  stylesync login

  # Fully manual login with an on-page confirm button
  stylesync login --manual

  # Save the session somewhere specific
  stylesync login --storage-state=work-session.json`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().BoolVar(&manualLogin, "manual", false, "Confirm login with an on-page button instead of URL detection")
}

func runLogin(cmd *cobra.Command, args []string) error {
	appCtx, err := requireApp()
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n", ui.Bold("🔐 Google Login"))
	fmt.Printf("%s\n\n", ui.ColorDim+"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"+ui.ColorReset)
	fmt.Printf("  %s %s\n\n", ui.ColorBold+"Session file:"+ui.ColorReset, ui.ColorWhite+appCtx.Config.StorageStatePath+ui.ColorReset)

	var ok bool
	err = runOperation(cmd, appCtx, "login", func(ctx context.Context, emitter progress.Emitter) error {
		var err error
		if manualLogin {
			ok, err = appCtx.ManualLogin(ctx, emitter)
		} else {
			ok, err = appCtx.LoginToGoogle(ctx, emitter)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if !ok {
		fmt.Println(ui.Error("\n✗ Login did not complete"))
		return fmt.Errorf("login did not complete")
	}

	fmt.Println(ui.Success("\n✓ Logged in, session saved!"))
	fmt.Printf("\n%s\n", ui.Bold("You can now upload photos with:"))
	fmt.Printf("  %s\n\n", ui.ColorCyan+"stylesync upload <business-url> --images <files>"+ui.ColorReset)

	return nil
}
