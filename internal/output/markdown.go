package output

import (
	"fmt"
	"os"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	"github.com/salonkit/stylesync/internal/urlutil"
)

// SaveMarkdown converts a page's HTML to Markdown and writes it to
// filepath. Relative links and image sources are resolved against baseURL
// so the snapshot stays readable outside the site.
func SaveMarkdown(htmlContent, baseURL, filepath string) error {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	converter.AddRules(linkRule(baseURL), imageRule(baseURL))

	cleaned, err := CleanHTML(htmlContent)
	if err != nil {
		return err
	}

	mdStr, err := converter.ConvertString(cleaned)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, []byte(mdStr), 0644)
}

// linkRule rewrites anchors with their href resolved against the page URL.
func linkRule(baseURL string) md.Rule {
	return md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, ok := selec.Attr("href")
			if !ok {
				return nil
			}
			target := urlutil.ResolveURL(baseURL, href)
			if title, ok := selec.Attr("title"); ok {
				target += fmt.Sprintf(" %q", title)
			}
			link := fmt.Sprintf("[%s](%s)", selec.Text(), target)
			return &link
		},
	}
}

// imageRule rewrites images the same way, keeping the alt text.
func imageRule(baseURL string) md.Rule {
	return md.Rule{
		Filter: []string{"img"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			src, ok := selec.Attr("src")
			if !ok {
				return nil
			}
			alt, _ := selec.Attr("alt")
			img := fmt.Sprintf("![%s](%s)", alt, urlutil.ResolveURL(baseURL, src))
			return &img
		},
	}
}
