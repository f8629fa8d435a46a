// internal/cli/upload.go
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/salonkit/stylesync/internal/progress"
	"github.com/salonkit/stylesync/internal/ui"
	"github.com/salonkit/stylesync/pkg/models"
)

var uploadImages []string

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <business-url>",
	Short: "Upload photos to a Google Business Profile",
	Long: `Drives a logged-in browser session through the business console at the
given URL: passes the ownership-confirmation step when it appears, opens
the photo-add surface, and feeds the image files to the native file
chooser in a single selection.

Requires a saved Google session (see "stylesync login"). On a failed step
a screenshot and an HTML dump of the page are written next to the working
directory for post-mortem debugging.`,
	Example: `  # Upload two photos
  stylesync upload https://business.google.com/... --images image_001.jpg,image_002.jpg

  # Repeatable flag form
  stylesync upload https://business.google.com/... --images a.jpg --images b.jpg

  # Upload everything a fetch just downloaded
  stylesync fetch https://beauty.example.jp/slnH000000000/ --download
  stylesync upload https://business.google.com/... --images images/image_001.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringSliceVar(&uploadImages, "images", nil, "Image files to upload (comma separated or repeated)")
	uploadCmd.MarkFlagRequired("images")
}

func runUpload(cmd *cobra.Command, args []string) error {
	destURL := args[0]

	appCtx, err := requireApp()
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n", ui.Bold("📤 Photo Upload"))
	fmt.Printf("%s\n\n", ui.ColorDim+"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"+ui.ColorReset)
	fmt.Printf("  %s %s\n", ui.ColorBold+"Console:"+ui.ColorReset, ui.ColorWhite+destURL+ui.ColorReset)
	fmt.Printf("  %s %s\n\n", ui.ColorBold+"Images:"+ui.ColorReset, ui.ColorWhite+fmt.Sprintf("%d file(s)", len(uploadImages))+ui.ColorReset)

	var report *models.UploadReport
	err = runOperation(cmd, appCtx, "upload", func(ctx context.Context, emitter progress.Emitter) error {
		var err error
		report, err = appCtx.UploadToGBP(ctx, destURL, uploadImages, emitter)
		return err
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	if report.Success {
		fmt.Printf("\n%s\n", ui.Success(fmt.Sprintf("✓ Uploaded %d photo(s)", report.ImageCount)))
		fmt.Printf("  %s %s\n\n", ui.ColorDim+"Duration:"+ui.ColorReset,
			report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond).String())
		return nil
	}

	fmt.Printf("\n%s\n", ui.Error(fmt.Sprintf("✗ Upload failed at step %q", report.FailedStep)))
	if report.FailedStep == "login_check" {
		fmt.Println("\nThe saved session is no longer signed in. Re-login with:")
		fmt.Println("  stylesync login")
	}
	if len(report.Diagnostics) > 0 {
		fmt.Printf("\n%s\n", ui.Bold("Diagnostics:"))
		for _, p := range report.Diagnostics {
			fmt.Printf("  %s\n", ui.ColorDim+p+ui.ColorReset)
		}
	}
	fmt.Println()
	return fmt.Errorf("upload failed at step %q", report.FailedStep)
}
