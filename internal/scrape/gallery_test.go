package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/salonkit/stylesync/pkg/models"
)

// galleryServer serves a three-page style gallery. Document order runs
// oldest to newest: page 1 holds the oldest styles, page 3 the newest.
func galleryServer(t *testing.T, pages map[int]string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/salon/style/", func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[1]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `<html><body><p class="page-marker">1/%dページ</p>%s</body></html>`, len(pages), body)
	})
	for n := 2; n <= len(pages); n++ {
		page := n
		mux.HandleFunc(fmt.Sprintf("/salon/style/PN%d.html", page), func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<html><body>%s</body></html>`, pages[page])
		})
	}
	return httptest.NewServer(mux)
}

func img(name string) string {
	return fmt.Sprintf(`<img class="style" src="https://img.example.jp/IMG/%s.jpg?impolicy=crop">`, name)
}

func gallery(imgs ...string) string {
	out := `<div class="gallery">`
	for _, i := range imgs {
		out += i
	}
	return out + `</div>`
}

func TestFetchLatestStyleImagesNewestFirst(t *testing.T) {
	server := galleryServer(t, map[int]string{
		1: gallery(img("A"), img("B")),
		2: gallery(img("C"), img("D")),
		3: gallery(img("E"), img("F")),
	})
	defer server.Close()

	s := testScraper(testConfig(10))

	got := s.FetchLatestStyleImages(context.Background(), server.URL+"/salon/", models.OrderNewestFirst)

	want := []string{
		"https://img.example.jp/IMG/F.jpg",
		"https://img.example.jp/IMG/E.jpg",
		"https://img.example.jp/IMG/D.jpg",
		"https://img.example.jp/IMG/C.jpg",
		"https://img.example.jp/IMG/B.jpg",
		"https://img.example.jp/IMG/A.jpg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}
}

func TestFetchLatestStyleImagesOldestFirst(t *testing.T) {
	server := galleryServer(t, map[int]string{
		1: gallery(img("A"), img("B")),
		2: gallery(img("C"), img("D")),
	})
	defer server.Close()

	s := testScraper(testConfig(10))

	got := s.FetchLatestStyleImages(context.Background(), server.URL+"/salon/", models.OrderOldestFirst)

	want := []string{
		"https://img.example.jp/IMG/A.jpg",
		"https://img.example.jp/IMG/B.jpg",
		"https://img.example.jp/IMG/C.jpg",
		"https://img.example.jp/IMG/D.jpg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}
}

func TestCapAndDeduplication(t *testing.T) {
	// F appears on both pages; the cap cuts the walk short.
	server := galleryServer(t, map[int]string{
		1: gallery(img("A"), img("B"), img("F")),
		2: gallery(img("C"), img("F")),
		3: gallery(img("E"), img("F")),
	})
	defer server.Close()

	s := testScraper(testConfig(3))

	got := s.FetchLatestStyleImages(context.Background(), server.URL+"/salon/", models.OrderNewestFirst)

	want := []string{
		"https://img.example.jp/IMG/F.jpg",
		"https://img.example.jp/IMG/E.jpg",
		"https://img.example.jp/IMG/C.jpg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}

	seen := make(map[string]bool)
	for _, u := range got {
		if seen[u] {
			t.Errorf("duplicate URL returned: %s", u)
		}
		seen[u] = true
	}
}

func TestRejectedSourcesAreSkipped(t *testing.T) {
	page := gallery(
		`<img class="style" src="data:image/png;base64,iVBORw0KGgo=">`,
		`<img class="style" src="/relative/path.jpg">`,
		`<img class="style" src="">`,
		img("GOOD"),
	)
	server := galleryServer(t, map[int]string{1: page})
	defer server.Close()

	s := testScraper(testConfig(10))

	got := s.FetchLatestStyleImages(context.Background(), server.URL+"/salon/", models.OrderNewestFirst)

	want := []string{"https://img.example.jp/IMG/GOOD.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEmptyFirstGalleryPageFailsWalk(t *testing.T) {
	server := galleryServer(t, map[int]string{
		1: `<div class="gallery"></div>`,
		2: gallery(img("C"), img("D")),
	})
	defer server.Close()

	s := testScraper(testConfig(10))

	got := s.FetchLatestStyleImages(context.Background(), server.URL+"/salon/", models.OrderNewestFirst)
	if len(got) != 0 {
		t.Errorf("empty gallery page 1 should fail the walk, got %v", got)
	}
}

func TestEmptyLaterPageTolerated(t *testing.T) {
	server := galleryServer(t, map[int]string{
		1: gallery(img("A")),
		2: `<div class="gallery"></div>`,
		3: gallery(img("E")),
	})
	defer server.Close()

	s := testScraper(testConfig(10))

	got := s.FetchLatestStyleImages(context.Background(), server.URL+"/salon/", models.OrderNewestFirst)

	want := []string{
		"https://img.example.jp/IMG/E.jpg",
		"https://img.example.jp/IMG/A.jpg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}
}

func TestCleanupPatternApplied(t *testing.T) {
	page := gallery(`<img class="style" src="https://img.example.jp/IMG/X.jpg~resized500">`)
	server := galleryServer(t, map[int]string{1: page})
	defer server.Close()

	s := testScraper(testConfig(10))

	got := s.FetchLatestStyleImages(context.Background(), server.URL+"/salon/", models.OrderNewestFirst)

	want := []string{"https://img.example.jp/IMG/X.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
