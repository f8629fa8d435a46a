package output

import (
	"strings"

	"golang.org/x/net/html"
)

// Tags dropped wholesale from profile excerpts, subtree included.
var droppedTags = map[string]bool{
	"script": true, "style": true, "link": true, "meta": true,
	"noscript": true, "iframe": true, "svg": true, "form": true,
	"input": true, "button": true, "select": true, "textarea": true,
	"canvas": true,
}

// Attributes that survive sanitizing, per tag. Everything else is cut so
// the markdown converter sees only structure, links and images.
var keptAttrs = map[string]map[string]bool{
	"a":   {"href": true, "title": true},
	"img": {"src": true, "alt": true, "title": true},
}

// CleanHTML strips scripts, embedded chrome and tracking attributes from
// a page excerpt, leaving markup the markdown converter can work with.
func CleanHTML(htmlContent string) (string, error) {
	root, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	sanitize(root)

	var sb strings.Builder
	if err := html.Render(&sb, root); err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}

// sanitize prunes dropped elements and filters attributes, depth first.
func sanitize(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && droppedTags[c.Data] {
			n.RemoveChild(c)
		} else {
			sanitize(c)
		}
		c = next
	}

	if n.Type != html.ElementNode || len(n.Attr) == 0 {
		return
	}
	allowed := keptAttrs[n.Data]
	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		if allowed[attr.Key] {
			kept = append(kept, attr)
		}
	}
	n.Attr = kept
}
