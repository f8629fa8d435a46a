package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.MaxImagesToFetch != DefaultMaxImagesToFetch {
		t.Errorf("max images = %d", cfg.MaxImagesToFetch)
	}
	if cfg.StorageStatePath != DefaultStorageStatePath {
		t.Errorf("storage state path = %q", cfg.StorageStatePath)
	}
	if cfg.Headless != DefaultHeadless {
		t.Errorf("headless = %v", cfg.Headless)
	}
	if cfg.Selectors.Gallery.StyleImage != DefaultStyleImage {
		t.Errorf("style image selector not defaulted: %q", cfg.Selectors.Gallery.StyleImage)
	}
	if cfg.Selectors.Upload.UploadIframe != DefaultUploadIframeSelector {
		t.Errorf("upload iframe selector not defaulted: %q", cfg.Selectors.Upload.UploadIframe)
	}
}

func TestSparseFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"selectors": {
			"gallery_scraping": {"style_image": "div.gallery img"}
		},
		"settings": {"max_images_to_fetch": 25}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{
		HTTPTimeout:          DefaultHTTPTimeout,
		Browser:              DefaultBrowser,
		StorageStatePath:     DefaultStorageStatePath,
		MaxImagesToFetch:     DefaultMaxImagesToFetch,
		DownloadDelaySeconds: DefaultDownloadDelaySeconds,
		UploadWaitSeconds:    DefaultUploadWaitSeconds,
		CacheMaxSizeBytes:    DefaultCacheMaxSizeBytes,
	}
	if err := loadFile(cfg, path); err != nil {
		t.Fatalf("loadFile: %v", err)
	}
	applySelectorDefaults(&cfg.Selectors)

	if cfg.MaxImagesToFetch != 25 {
		t.Errorf("file value not applied: %d", cfg.MaxImagesToFetch)
	}
	if cfg.DownloadDelaySeconds != DefaultDownloadDelaySeconds {
		t.Errorf("absent setting should keep default, got %v", cfg.DownloadDelaySeconds)
	}
	if cfg.Selectors.Gallery.StyleImage != "div.gallery img" {
		t.Errorf("file selector not applied: %q", cfg.Selectors.Gallery.StyleImage)
	}
	if cfg.Selectors.Gallery.SalonName != DefaultSalonNameSelector {
		t.Errorf("absent selector should fall back to default, got %q", cfg.Selectors.Gallery.SalonName)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STYLESYNC_MAX_IMAGES", "3")
	t.Setenv("STYLESYNC_HEADLESS", "true")
	t.Setenv("STYLESYNC_STORAGE_STATE", "alt_state.json")
	t.Setenv("STYLESYNC_TIMEOUT", "7s")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.MaxImagesToFetch != 3 {
		t.Errorf("env max images = %d", cfg.MaxImagesToFetch)
	}
	if !cfg.Headless {
		t.Error("env headless not applied")
	}
	if cfg.StorageStatePath != "alt_state.json" {
		t.Errorf("env storage state = %q", cfg.StorageStatePath)
	}
	if cfg.HTTPTimeout != 7*time.Second {
		t.Errorf("env timeout = %v", cfg.HTTPTimeout)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("STYLESYNC_MAX_IMAGES", "0")

	if _, err := Load(nil); err == nil {
		t.Error("expected validation failure for max images 0")
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := &Config{DownloadDelaySeconds: 0.5, UploadWaitSeconds: 5}

	if got := cfg.DownloadDelay().Milliseconds(); got != 500 {
		t.Errorf("download delay = %dms", got)
	}
	if got := cfg.UploadWait().Seconds(); got != 5 {
		t.Errorf("upload wait = %vs", got)
	}
}
