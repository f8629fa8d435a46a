// internal/diag/diag_test.go
package diag

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
)

type fakePage struct {
	closed     bool
	shotErr    error
	content    string
	contentErr error
}

func (f *fakePage) IsClosed() bool { return f.closed }

func (f *fakePage) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	if f.shotErr != nil {
		return nil, f.shotErr
	}
	data := []byte("png")
	if len(options) > 0 && options[0].Path != nil {
		if err := os.WriteFile(*options[0].Path, data, 0644); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (f *fakePage) Content() (string, error) {
	return f.content, f.contentErr
}

func TestCaptureWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	page := &fakePage{content: "<html><body>boom</body></html>"}

	artifacts := Capture(page, dir, "add_photo")
	if len(artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d: %v", len(artifacts), artifacts)
	}

	pngName := filepath.Base(artifacts[0])
	if ok, _ := regexp.MatchString(`^error_add_photo_\d{8}_\d{6}\.png$`, pngName); !ok {
		t.Errorf("unexpected screenshot name %q", pngName)
	}
	htmlName := filepath.Base(artifacts[1])
	if ok, _ := regexp.MatchString(`^error_add_photo_\d{8}_\d{6}\.html$`, htmlName); !ok {
		t.Errorf("unexpected html name %q", htmlName)
	}

	data, err := os.ReadFile(artifacts[1])
	if err != nil {
		t.Fatalf("reading html artifact: %v", err)
	}
	if string(data) != page.content {
		t.Errorf("html artifact = %q, want %q", data, page.content)
	}
}

func TestCaptureSkipsClosedPage(t *testing.T) {
	dir := t.TempDir()

	if got := Capture(nil, dir, "navigate"); got != nil {
		t.Errorf("Capture(nil) = %v, want nil", got)
	}
	if got := Capture(&fakePage{closed: true}, dir, "navigate"); got != nil {
		t.Errorf("Capture(closed page) = %v, want nil", got)
	}
}

func TestCaptureScreenshotFailureStillWritesHTML(t *testing.T) {
	dir := t.TempDir()
	page := &fakePage{shotErr: errors.New("target crashed"), content: "<p>still here</p>"}

	artifacts := Capture(page, dir, "select_files")
	if len(artifacts) != 1 {
		t.Fatalf("expected 1 artifact, got %d: %v", len(artifacts), artifacts)
	}
	if !strings.HasSuffix(artifacts[0], ".html") {
		t.Errorf("expected html artifact, got %q", artifacts[0])
	}
}

func TestCaptureContentFailureStillWritesScreenshot(t *testing.T) {
	dir := t.TempDir()
	page := &fakePage{contentErr: errors.New("page detached")}

	artifacts := Capture(page, dir, "upload_iframe")
	if len(artifacts) != 1 {
		t.Fatalf("expected 1 artifact, got %d: %v", len(artifacts), artifacts)
	}
	if !strings.HasSuffix(artifacts[0], ".png") {
		t.Errorf("expected png artifact, got %q", artifacts[0])
	}
}
