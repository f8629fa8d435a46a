package urlutil

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://beauty.example.jp/slnH000000000/",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected valid, got error: %v", err)
		}
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected invalid for %s", u)
		}
	}
}

func TestCleanImageURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		pattern string
		want    string
		ok      bool
	}{
		{
			name: "query stripped",
			raw:  "https://img.example.jp/IMG/B001_335.jpg?impolicy=crop&w=335",
			want: "https://img.example.jp/IMG/B001_335.jpg",
			ok:   true,
		},
		{
			name:    "cleanup pattern cut from path",
			raw:     "https://img.example.jp/IMG/B001_335.jpgXTRAILER",
			pattern: "XTRAILER",
			want:    "https://img.example.jp/IMG/B001_335.jpg",
			ok:      true,
		},
		{
			name:    "query and pattern together",
			raw:     "https://img.example.jp/IMG/B001~resized?w=100#frag",
			pattern: "~resized",
			want:    "https://img.example.jp/IMG/B001",
			ok:      true,
		},
		{
			name: "data URI rejected",
			raw:  "data:image/png;base64,iVBORw0KGgo=",
			ok:   false,
		},
		{
			name: "relative URL rejected",
			raw:  "/IMG/B001.jpg",
			ok:   false,
		},
		{
			name: "ftp rejected",
			raw:  "ftp://img.example.jp/B001.jpg",
			ok:   false,
		},
	}

	for _, tt := range tests {
		got, ok := CleanImageURL(tt.raw, tt.pattern)
		if ok != tt.ok {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCleanImageURLIdempotent(t *testing.T) {
	raw := "https://img.example.jp/IMG/B001_335.jpg?impolicy=crop"
	once, ok := CleanImageURL(raw, "?impolicy=")
	if !ok {
		t.Fatal("first clean failed")
	}
	twice, ok := CleanImageURL(once, "?impolicy=")
	if !ok {
		t.Fatal("second clean failed")
	}
	if once != twice {
		t.Errorf("cleaning is not idempotent: %q != %q", once, twice)
	}
}

func TestStyleRoot(t *testing.T) {
	want := "https://beauty.example.jp/slnH000000000/style/"

	if got := StyleRoot("https://beauty.example.jp/slnH000000000"); got != want {
		t.Errorf("without trailing slash: got %q", got)
	}
	if got := StyleRoot("https://beauty.example.jp/slnH000000000/"); got != want {
		t.Errorf("with trailing slash: got %q", got)
	}
}

func TestGalleryPageURL(t *testing.T) {
	base := "https://beauty.example.jp/slnH000000000/style/"

	if got := GalleryPageURL(base, 1); got != base {
		t.Errorf("page 1 should be the bare base, got %q", got)
	}
	if got := GalleryPageURL(base, 4); got != base+"PN4.html" {
		t.Errorf("page 4: got %q", got)
	}
}
