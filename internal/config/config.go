package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// Selectors maps logical element names to selector strings, grouped by
// feature area. Empty entries fall back to the documented defaults.
type Selectors struct {
	Gallery GallerySelectors `json:"gallery_scraping"`
	Owner   OwnerSelectors   `json:"owner_check"`
	Upload  UploadSelectors  `json:"photo_upload"`
}

type GallerySelectors struct {
	SalonName      string `json:"salon_name"`
	MaxPageElement string `json:"max_page_element"`
	StyleImage     string `json:"style_image"`
	CleanupPattern string `json:"image_url_cleanup_pattern"`
}

type OwnerSelectors struct {
	OwnerPrompt    string `json:"owner_prompt"`
	OwnerIframe    string `json:"owner_iframe"`
	ContinueButton string `json:"continue_button"`
}

type UploadSelectors struct {
	AddPhotoButton    string `json:"add_photo_button"`
	UploadIframe      string `json:"upload_iframe"`
	SelectFilesButton string `json:"select_files_button"`
}

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// HTTP fetching
	HTTPTimeout time.Duration
	UserAgent   string
	Proxy       string
	Headers     []string

	// Rate limiting / caching
	RateLimitRPS      float64
	RateLimitBurst    int
	CacheTTL          time.Duration
	CacheMaxSizeBytes int64

	// Browser session
	Browser          string
	Headless         bool
	BrowserPath      string
	StorageStatePath string

	// Scraping
	MaxImagesToFetch     int
	DownloadDelaySeconds float64
	DownloadDir          string

	// Upload
	UploadWaitSeconds float64
	DiagnosticsDir    string

	Selectors Selectors
}

// DownloadDelay returns the inter-page / inter-download pause.
func (c *Config) DownloadDelay() time.Duration {
	return time.Duration(c.DownloadDelaySeconds * float64(time.Second))
}

// UploadWait returns the settle pause after file selection.
func (c *Config) UploadWait() time.Duration {
	return time.Duration(c.UploadWaitSeconds * float64(time.Second))
}

// fileConfig mirrors the JSON config file. Pointer fields distinguish
// "absent" from zero values so absent keys keep their defaults.
type fileConfig struct {
	Selectors *Selectors    `json:"selectors"`
	Settings  *fileSettings `json:"settings"`
}

type fileSettings struct {
	Headless             *bool    `json:"headless"`
	StorageStatePath     *string  `json:"storage_state_path"`
	MaxImagesToFetch     *int     `json:"max_images_to_fetch"`
	DownloadDelaySeconds *float64 `json:"download_delay_seconds"`
	UploadWaitSeconds    *float64 `json:"upload_wait_seconds"`
}

// Load builds a Config by combining defaults, an optional config file,
// environment variables, and CLI flags, in that order of increasing
// precedence. Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{
		LogLevel:             DefaultLogLevel,
		JSONLog:              DefaultJSONLog,
		HTTPTimeout:          DefaultHTTPTimeout,
		UserAgent:            DefaultUserAgent,
		RateLimitRPS:         DefaultRateLimitRPS,
		RateLimitBurst:       DefaultRateLimitBurst,
		CacheTTL:             DefaultCacheTTL,
		CacheMaxSizeBytes:    DefaultCacheMaxSizeBytes,
		Browser:              DefaultBrowser,
		Headless:             DefaultHeadless,
		StorageStatePath:     DefaultStorageStatePath,
		MaxImagesToFetch:     DefaultMaxImagesToFetch,
		DownloadDelaySeconds: DefaultDownloadDelaySeconds,
		DownloadDir:          DefaultDownloadDir,
		UploadWaitSeconds:    DefaultUploadWaitSeconds,
		DiagnosticsDir:       DefaultDiagnosticsDir,
	}

	// Config file: explicit --config wins, else config.json when present
	path := ""
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil {
			path = f.Value.String()
		}
	}
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if cmd != nil {
		applyFlags(cfg, cmd)
	}

	applySelectorDefaults(&cfg.Selectors)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Selectors != nil {
		cfg.Selectors = *fc.Selectors
	}
	if fc.Settings != nil {
		s := fc.Settings
		if s.Headless != nil {
			cfg.Headless = *s.Headless
		}
		if s.StorageStatePath != nil {
			cfg.StorageStatePath = *s.StorageStatePath
		}
		if s.MaxImagesToFetch != nil {
			cfg.MaxImagesToFetch = *s.MaxImagesToFetch
		}
		if s.DownloadDelaySeconds != nil {
			cfg.DownloadDelaySeconds = *s.DownloadDelaySeconds
		}
		if s.UploadWaitSeconds != nil {
			cfg.UploadWaitSeconds = *s.UploadWaitSeconds
		}
	}

	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STYLESYNC_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("STYLESYNC_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("STYLESYNC_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	if v := os.Getenv("STYLESYNC_BROWSER"); v != "" {
		cfg.Browser = v
	}
	if v := os.Getenv("STYLESYNC_BROWSER_PATH"); v != "" {
		cfg.BrowserPath = v
	}
	if v := os.Getenv("STYLESYNC_STORAGE_STATE"); v != "" {
		cfg.StorageStatePath = v
	}
	if v := os.Getenv("STYLESYNC_DOWNLOAD_DIR"); v != "" {
		cfg.DownloadDir = v
	}
	if v := os.Getenv("STYLESYNC_HEADLESS"); v != "" {
		cfg.Headless = v == "true" || v == "1"
	}
	if v := os.Getenv("STYLESYNC_MAX_IMAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxImagesToFetch = n
		}
	}
	if v := os.Getenv("STYLESYNC_DOWNLOAD_DELAY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DownloadDelaySeconds = f
		}
	}
	if v := os.Getenv("STYLESYNC_UPLOAD_WAIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.UploadWaitSeconds = f
		}
	}
}

func applyFlags(cfg *Config, cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("user-agent"); f != nil {
		if s := f.Value.String(); s != "" {
			cfg.UserAgent = s
		}
	}
	if f := cmd.Flags().Lookup("proxy"); f != nil {
		if s := f.Value.String(); s != "" {
			cfg.Proxy = s
		}
	}
	if f := cmd.Flags().Lookup("timeout"); f != nil {
		if s := f.Value.String(); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.HTTPTimeout = d
			}
		}
	}
	if f := cmd.Flags().Lookup("json"); f != nil {
		if f.Value.String() == "true" {
			cfg.JSONLog = true
		}
	}
	if f := cmd.Flags().Lookup("verbose"); f != nil {
		if f.Value.String() == "true" {
			cfg.LogLevel = "debug"
		}
	}
	if f := cmd.Flags().Lookup("quiet"); f != nil {
		if f.Value.String() == "true" {
			cfg.LogLevel = "error"
		}
	}
	if f := cmd.Flags().Lookup("headless"); f != nil && f.Changed {
		cfg.Headless = f.Value.String() == "true"
	}
	if f := cmd.Flags().Lookup("browser"); f != nil {
		if s := f.Value.String(); s != "" {
			cfg.Browser = s
		}
	}
	if f := cmd.Flags().Lookup("storage-state"); f != nil {
		if s := f.Value.String(); s != "" {
			cfg.StorageStatePath = s
		}
	}
	if f := cmd.Flags().Lookup("download-dir"); f != nil {
		if s := f.Value.String(); s != "" {
			cfg.DownloadDir = s
		}
	}
	if vals, err := cmd.Flags().GetStringArray("header"); err == nil && len(vals) > 0 {
		cfg.Headers = vals
	}
}

// applySelectorDefaults fills any selector left empty by the config file so
// a sparse file never crashes a caller.
func applySelectorDefaults(s *Selectors) {
	if s.Gallery.SalonName == "" {
		s.Gallery.SalonName = DefaultSalonNameSelector
	}
	if s.Gallery.MaxPageElement == "" {
		s.Gallery.MaxPageElement = DefaultMaxPageSelector
	}
	if s.Gallery.StyleImage == "" {
		s.Gallery.StyleImage = DefaultStyleImage
	}
	if s.Gallery.CleanupPattern == "" {
		s.Gallery.CleanupPattern = DefaultCleanupPattern
	}
	if s.Owner.OwnerPrompt == "" {
		s.Owner.OwnerPrompt = DefaultOwnerPromptSelector
	}
	if s.Owner.OwnerIframe == "" {
		s.Owner.OwnerIframe = DefaultOwnerIframeSelector
	}
	if s.Owner.ContinueButton == "" {
		s.Owner.ContinueButton = DefaultContinueSelector
	}
	if s.Upload.AddPhotoButton == "" {
		s.Upload.AddPhotoButton = DefaultAddPhotoSelector
	}
	if s.Upload.UploadIframe == "" {
		s.Upload.UploadIframe = DefaultUploadIframeSelector
	}
	if s.Upload.SelectFilesButton == "" {
		s.Upload.SelectFilesButton = DefaultSelectFilesSelector
	}
}
