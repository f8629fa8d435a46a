package config

import "fmt"

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if c.MaxImagesToFetch <= 0 {
		return fmt.Errorf("max images to fetch must be positive")
	}
	if c.DownloadDelaySeconds < 0 {
		return fmt.Errorf("download delay cannot be negative")
	}
	if c.UploadWaitSeconds < 0 {
		return fmt.Errorf("upload wait cannot be negative")
	}
	if c.Browser != "chromium" && c.Browser != "firefox" {
		return fmt.Errorf("browser must be chromium or firefox, got %q", c.Browser)
	}
	if c.StorageStatePath == "" {
		return fmt.Errorf("storage state path must not be empty")
	}
	if c.CacheMaxSizeBytes <= 0 {
		return fmt.Errorf("cache size budget must be positive")
	}
	return nil
}
