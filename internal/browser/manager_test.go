// internal/browser/manager_test.go
package browser

import (
	"testing"

	"github.com/salonkit/stylesync/internal/config"
)

func TestNewSessionEngineResolution(t *testing.T) {
	cfg := &config.Config{Browser: EngineFirefox, Headless: true}

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"configured default", Options{}, EngineFirefox},
		{"explicit chromium", Options{Engine: EngineChromium}, EngineChromium},
		{"explicit firefox", Options{Engine: EngineFirefox}, EngineFirefox},
		{"unrecognized falls back to chromium", Options{Engine: "webkit"}, EngineChromium},
	}
	for _, tt := range tests {
		if got := NewSession(cfg, tt.opts).Engine(); got != tt.want {
			t.Errorf("%s: engine = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNewSessionHeadlessOverride(t *testing.T) {
	cfg := &config.Config{Browser: EngineChromium, Headless: true}

	if s := NewSession(cfg, Options{}); !s.headless {
		t.Error("expected configured headless mode to apply")
	}

	headful := false
	if s := NewSession(cfg, Options{Headless: &headful}); s.headless {
		t.Error("expected option to override configured headless mode")
	}
}

func TestLifecycleGuardsBeforeStart(t *testing.T) {
	s := NewSession(&config.Config{Browser: EngineChromium}, Options{})

	if _, err := s.NewPage(); err == nil {
		t.Error("NewPage before Start should fail")
	}
	if err := s.SaveStorageState(); err != nil {
		t.Errorf("SaveStorageState before Start should warn, not fail: %v", err)
	}

	// Close on a never-started session must be a no-op, twice.
	s.Close()
	s.Close()
}
