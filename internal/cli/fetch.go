// internal/cli/fetch.go
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

var (
	fetchOrder    string
	fetchDownload bool
	fetchOutput   string
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <profile-url>",
	Short: "Collect the latest style photo URLs from a salon profile",
	Long: `Walks the salon's style gallery page by page, collects unique image URLs
up to the configured maximum, and optionally downloads them into the
download directory.

The gallery is walked newest-first by default: from the last pagination
page back to the first, reading each page's photos in reverse document
order. Use --order=oldest to walk the other way.`,
	Example: `  # List the newest style photo URLs
  stylesync fetch https://beauty.example.jp/slnH000000000/

  # Walk oldest-first instead
  stylesync fetch https://beauty.example.jp/slnH000000000/ --order=oldest

  # Download the photos into the download directory
  stylesync fetch https://beauty.example.jp/slnH000000000/ --download

  # Export the URL list
  stylesync fetch https://beauty.example.jp/slnH000000000/ -o styles.json
  stylesync fetch https://beauty.example.jp/slnH000000000/ -o styles.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchOrder, "order", "newest", "Walk order: newest or oldest")
	fetchCmd.Flags().BoolVar(&fetchDownload, "download", false, "Download the images after collecting URLs")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "File path to save the URL list (supports .json, .csv)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	profileURL := args[0]

	if err := urlutil.ValidateURL(profileURL); err != nil {
		return fmt.Errorf("invalid profile URL: %w", err)
	}

	var order models.ScrapeOrder
	switch strings.ToLower(fetchOrder) {
	case "newest", "":
		order = models.OrderNewestFirst
	case "oldest":
		order = models.OrderOldestFirst
	default:
		return fmt.Errorf("invalid order: %s (must be newest or oldest)", fetchOrder)
	}

	appCtx, err := requireApp()
	if err != nil {
		return err
	}

	var urls []string
	var downloaded []string
	err = runOperation(cmd, appCtx, "fetch-styles", func(ctx context.Context, emitter progress.Emitter) error {
		emitter.Emit("Walking the style gallery...")
		urls = appCtx.FetchLatestStyleImages(ctx, profileURL, order)
		if len(urls) == 0 || !fetchDownload {
			return nil
		}
		downloaded = appCtx.DownloadImages(ctx, urls, emitter)
		return nil
	})
	if err != nil {
		return err
	}

	if len(urls) == 0 {
		fmt.Println("\n" + ui.Info("No style images found."))
		fmt.Println("\n" + ui.Info("The gallery page structure may have changed; see the logs with -v."))
		return fmt.Errorf("no style images found")
	}

	fmt.Printf("\n%s %s\n", ui.Bold("Found"), ui.ColorWhite+fmt.Sprintf("%d style image(s):", len(urls))+ui.ColorReset)
	for i, u := range urls {
		fmt.Printf("  %s%d.%s %s\n", ui.ColorDim, i+1, ui.ColorReset, ui.ColorWhite+u+ui.ColorReset)
	}
	fmt.Println()

	if fetchDownload {
		fmt.Printf("%s %s\n", ui.Bold("Downloaded"), ui.ColorWhite+fmt.Sprintf("%d of %d file(s) to %s", len(downloaded), len(urls), appCtx.Config.DownloadDir)+ui.ColorReset)
		for _, p := range downloaded {
			fmt.Printf("  %s\n", ui.ColorDim+p+ui.ColorReset)
		}
		fmt.Println()
	}

	if fetchOutput != "" {
		if err := saveURLList(cmd.Context(), profileURL, urls, fetchOutput); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
		fmt.Printf("%s\n\n", ui.Success("✓ Saved to "+fetchOutput))
	}

	return nil
}

// saveURLList exports the collected URLs, dispatching on the output
// extension. CSV rows carry the salon name, so that export looks it up.
func saveURLList(ctx context.Context, profileURL string, urls []string, path string) error {
	switch {
	case strings.HasSuffix(path, ".csv"):
		name, _ := GetApp().SalonName(ctx, profileURL)
		profile := &models.SalonProfile{URL: profileURL, Name: name, ImageURLs: urls}
		return output.SaveCSV(profile, path)
	case strings.HasSuffix(path, ".json"):
		return output.SaveJSON(urls, path)
	default:
		// Default to JSON
		return output.SaveJSON(urls, path)
	}
}
