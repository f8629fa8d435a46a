package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL rejects anything that is not an absolute http(s) URL.
func ValidateURL(urlStr string) error {
	u, err := url.Parse(urlStr)
	switch {
	case err != nil:
		return fmt.Errorf("invalid URL: %w", err)
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("unsupported scheme %q: need http or https", u.Scheme)
	case u.Host == "":
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// ResolveURL resolves href, which may be relative, against base. Inputs
// that fail to parse come back unchanged.
func ResolveURL(base, href string) string {
	ref, err := url.Parse(href)
	if err != nil || ref.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

// CleanImageURL normalizes a gallery image source: the query string and
// fragment are dropped, everything from cleanupPattern onward is cut, and
// anything that is not plain http(s) (including inline data URIs) is
// rejected. Cleaning an already-clean URL returns it unchanged.
func CleanImageURL(raw, cleanupPattern string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	cleaned := u.String()

	if cleanupPattern != "" {
		if i := strings.Index(cleaned, cleanupPattern); i >= 0 {
			cleaned = cleaned[:i]
		}
	}

	if !strings.HasPrefix(cleaned, "http://") && !strings.HasPrefix(cleaned, "https://") {
		return "", false
	}
	if strings.Contains(cleaned, ";base64,") {
		return "", false
	}

	return cleaned, true
}

// StyleRoot derives the gallery base URL from a salon profile URL by
// ensuring a trailing slash and resolving the fixed style/ suffix.
func StyleRoot(profileURL string) string {
	if !strings.HasSuffix(profileURL, "/") {
		profileURL += "/"
	}
	return ResolveURL(profileURL, "style/")
}

// GalleryPageURL returns the URL of gallery page n. Page 1 is the bare base;
// later pages use the PN{n}.html suffix convention.
func GalleryPageURL(base string, n int) string {
	if n <= 1 {
		return base
	}
	return ResolveURL(base, fmt.Sprintf("PN%d.html", n))
}
