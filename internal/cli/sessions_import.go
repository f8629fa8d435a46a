// internal/cli/sessions_import.go
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salonkit/stylesync/internal/auth"
)

var importFormat string

// sessionImportCmd represents the session import command
var sessionImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a session exported from another machine or browser",
	Long: `Import session state to use in place of an interactive login.

This is useful in headless environments (Codespaces, CI) where the
interactive login browser cannot open a window.

Two formats are supported:
  state     a Playwright storage-state JSON file, written verbatim
  netscape  a cookies.txt export (curl/wget format), converted to
            storage state with cookies only

Reads from the given file, or stdin when no file is given.`,
	Example: `  # Import a storage-state file saved by another stylesync install
  stylesync session import storage-state.json

  # Import cookies exported from the browser's DevTools
  stylesync session import cookies.txt --format=netscape

  # Pipe either format through stdin
  stylesync session import --format=netscape < cookies.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionImport,
}

func init() {
	sessionCmd.AddCommand(sessionImportCmd)

	sessionImportCmd.Flags().StringVar(&importFormat, "format", "state", "Import format: state or netscape")
}

func runSessionImport(cmd *cobra.Command, args []string) error {
	appCtx, err := requireApp()
	if err != nil {
		return err
	}
	statePath := appCtx.Config.StorageStatePath

	var reader io.Reader = os.Stdin
	source := "stdin"
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		reader = f
		source = args[0]
	}

	fmt.Printf("\n🔐 Import Session (%s, from %s)\n", importFormat, source)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	var blob []byte
	var cookieCount int

	switch importFormat {
	case "state":
		blob, cookieCount, err = importStorageState(reader)
	case "netscape":
		blob, cookieCount, err = importNetscape(reader)
	default:
		return fmt.Errorf("unsupported format: %s (use: state, netscape)", importFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to import session: %w", err)
	}
	if cookieCount == 0 {
		return fmt.Errorf("no cookies imported")
	}

	if err := os.WriteFile(statePath, blob, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	rec := &auth.SessionRecord{
		Name:             auth.GoogleRecord,
		Engine:           "imported",
		StorageStatePath: statePath,
	}
	if err := auth.SaveRecordWithManifest(rec); err != nil {
		return fmt.Errorf("failed to save session record: %w", err)
	}

	fmt.Printf("✅ Session imported to %s\n", statePath)
	fmt.Printf("   Cookies: %d\n", cookieCount)
	fmt.Printf("\nVerify it with:\n")
	fmt.Printf("  stylesync check\n\n")

	return nil
}

// importStorageState validates a storage-state JSON blob and passes it
// through unchanged, so fields this tool does not model survive.
func importStorageState(r io.Reader) ([]byte, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}

	var state auth.StorageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, 0, fmt.Errorf("invalid storage-state JSON: %w", err)
	}

	return data, len(state.Cookies), nil
}

// importNetscape converts a cookies.txt export into a storage-state blob
// with cookies only. Lines: domain, include-subdomains flag, path, secure,
// expiry (unix seconds), name, value.
func importNetscape(r io.Reader) ([]byte, int, error) {
	var cookies []auth.StorageCookie
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 7 {
			continue
		}

		cookie := auth.StorageCookie{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   fields[3] == "TRUE",
			Name:     fields[5],
			Value:    strings.Join(fields[6:], " "),
			SameSite: "Lax",
		}
		if expiry, err := strconv.ParseFloat(fields[4], 64); err == nil && expiry > 0 {
			cookie.Expires = expiry
		} else {
			cookie.Expires = -1
		}

		cookies = append(cookies, cookie)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}

	state := auth.StorageState{Cookies: cookies, Origins: []json.RawMessage{}}
	blob, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, 0, err
	}

	return blob, len(cookies), nil
}
