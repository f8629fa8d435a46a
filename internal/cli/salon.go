// internal/cli/salon.go
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salonkit/stylesync/internal/output"
	"github.com/salonkit/stylesync/internal/progress"
	"github.com/salonkit/stylesync/internal/ui"
	"github.com/salonkit/stylesync/internal/urlutil"
	"github.com/salonkit/stylesync/pkg/models"
)

var salonOutput string

// salonCmd represents the salon command
var salonCmd = &cobra.Command{
	Use:   "salon <profile-url>",
	Short: "Show a salon's name and profile snapshot",
	Long: `Fetches the salon's public profile page and prints its display name
together with a snapshot of the style gallery: how many pagination pages
it has and the newest image URLs.

With -o the snapshot is exported instead: .json writes the structured
snapshot, .md writes a Markdown rendition of the profile page itself.`,
	Example: `  # Print the salon name and gallery summary
  stylesync salon https://beauty.example.jp/slnH000000000/

  # Export the snapshot
  stylesync salon https://beauty.example.jp/slnH000000000/ -o salon.json

  # Save a Markdown rendition of the profile page
  stylesync salon https://beauty.example.jp/slnH000000000/ -o salon.md`,
	Args: cobra.ExactArgs(1),
	RunE: runSalon,
}

func init() {
	rootCmd.AddCommand(salonCmd)

	salonCmd.Flags().StringVarP(&salonOutput, "output", "o", "", "File path to save the snapshot (supports .json, .md)")
}

func runSalon(cmd *cobra.Command, args []string) error {
	profileURL := args[0]

	if err := urlutil.ValidateURL(profileURL); err != nil {
		return fmt.Errorf("invalid profile URL: %w", err)
	}

	appCtx, err := requireApp()
	if err != nil {
		return err
	}

	var profile *models.SalonProfile
	err = runOperation(cmd, appCtx, "salon-profile", func(ctx context.Context, emitter progress.Emitter) error {
		emitter.Emit("Fetching the salon profile...")
		profile = appCtx.SalonProfile(ctx, profileURL)
		return nil
	})
	if err != nil {
		return err
	}

	if profile.Name == "" {
		fmt.Println("\n" + ui.Info("Salon name not found; the profile page structure may have changed."))
	} else {
		fmt.Printf("\n%s %s\n", ui.Bold("Salon:"), ui.ColorWhite+profile.Name+ui.ColorReset)
	}
	fmt.Printf("  %s %s\n", ui.ColorBold+"Gallery:"+ui.ColorReset,
		ui.ColorWhite+fmt.Sprintf("%d page(s), %d image URL(s) collected", profile.GalleryPages, len(profile.ImageURLs))+ui.ColorReset)
	fmt.Printf("  %s %s\n\n", ui.ColorBold+"Style base:"+ui.ColorReset, ui.ColorWhite+profile.StyleBaseURL+ui.ColorReset)

	if salonOutput == "" {
		return nil
	}

	switch {
	case strings.HasSuffix(salonOutput, ".md"):
		result := appCtx.Fetcher.Fetch(cmd.Context(), profileURL)
		if result == nil {
			return fmt.Errorf("failed to fetch the profile page for markdown export")
		}
		if err := output.SaveMarkdown(string(result.Body), profileURL, salonOutput); err != nil {
			return fmt.Errorf("failed to save markdown: %w", err)
		}
	default:
		if err := output.SaveJSON(profile, salonOutput); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
	}

	fmt.Printf("%s\n\n", ui.Success("✓ Saved to "+salonOutput))
	return nil
}
