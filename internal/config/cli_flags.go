package config

import "github.com/spf13/cobra"

// RegisterFlags wires the persistent flags shared by every subcommand.
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Debug-level log output")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Log errors only")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().String("proxy", "", "Comma-separated HTTP/SOCKS5 proxies (e.g., http://localhost:8080)")
	cmd.PersistentFlags().String("timeout", "15s", "Per-attempt timeout for page fetches")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string for the fetcher")
	cmd.PersistentFlags().StringArray("header", nil, "Extra request header \"Key: Value\" (repeatable)")
	cmd.PersistentFlags().String("config", "", "Path to configuration file (default config.json when present)")
	cmd.PersistentFlags().Bool("headless", DefaultHeadless, "Run the browser without a window")
	cmd.PersistentFlags().String("browser", "", "Browser engine: chromium or firefox")
	cmd.PersistentFlags().String("storage-state", "", "Path to the saved session-state file")
	cmd.PersistentFlags().String("download-dir", "", "Directory for downloaded images")
}
