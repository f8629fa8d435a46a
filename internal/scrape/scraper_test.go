// internal/scrape/scraper_test.go
package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/salonkit/stylesync/internal/config"
	"github.com/salonkit/stylesync/internal/fetch"
)

func testConfig(maxImages int) *config.Config {
	return &config.Config{
		MaxImagesToFetch: maxImages,
		Selectors: config.Selectors{
			Gallery: config.GallerySelectors{
				SalonName:      "p.detail-title a",
				MaxPageElement: "p.page-marker",
				StyleImage:     "div.gallery img.style",
				CleanupPattern: "~resized",
			},
		},
	}
}

func testScraper(cfg *config.Config) *Scraper {
	return New(fetch.New(fetch.Options{RetryDelay: time.Millisecond}), cfg)
}

func TestParseMaxPage(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"1/8ページ", 8},
		{"3/12ページ", 12},
		{"全5ページ", 5},
		{"全1ページ", 1},
		{"ページ", 1},
		{"no marker here", 1},
		{"", 1},
	}

	for _, tt := range tests {
		if got := parseMaxPage(tt.text); got != tt.want {
			t.Errorf("parseMaxPage(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestSalonName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<p class="detail-title"><a href="/salon/">ANGEL 青葉台</a></p>
		</body></html>`))
	}))
	defer server.Close()

	s := testScraper(testConfig(10))

	name, ok := s.SalonName(context.Background(), server.URL+"/salon/")
	if !ok {
		t.Fatal("expected salon name")
	}
	if name != "ANGEL 青葉台" {
		t.Errorf("name = %q", name)
	}
}

func TestSalonNameMissingElement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>different markup</h1></body></html>`))
	}))
	defer server.Close()

	s := testScraper(testConfig(10))

	if _, ok := s.SalonName(context.Background(), server.URL+"/salon/"); ok {
		t.Error("expected not-found for drifted selector")
	}
}

func TestSalonNameFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := testScraper(testConfig(10))

	if _, ok := s.SalonName(context.Background(), server.URL+"/salon/"); ok {
		t.Error("expected not-found when every fetch attempt fails")
	}
}

func TestStylePageInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/salon/style/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p class="page-marker">1/8ページ</p></body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := testScraper(testConfig(10))

	base, maxPage := s.StylePageInfo(context.Background(), server.URL+"/salon")
	if base != server.URL+"/salon/style/" {
		t.Errorf("base = %q", base)
	}
	if maxPage != 8 {
		t.Errorf("maxPage = %d", maxPage)
	}
}

func TestStylePageInfoDegradesToOnePage(t *testing.T) {
	// Fetch failure
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	s := testScraper(testConfig(10))

	base, maxPage := s.StylePageInfo(context.Background(), server.URL+"/salon/")
	if maxPage != 1 {
		t.Errorf("fetch failure should degrade to 1 page, got %d", maxPage)
	}
	if base != server.URL+"/salon/style/" {
		t.Errorf("base = %q", base)
	}

	// Missing selector configuration
	cfg := testConfig(10)
	cfg.Selectors.Gallery.MaxPageElement = ""
	s = testScraper(cfg)

	if _, maxPage := s.StylePageInfo(context.Background(), server.URL+"/salon/"); maxPage != 1 {
		t.Errorf("missing selector should degrade to 1 page, got %d", maxPage)
	}
}
