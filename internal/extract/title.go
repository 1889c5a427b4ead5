package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/biocracy/urbanous/internal/domain"
)

// Titles at or below this length are boilerplate ("Home", "News") rather
// than headlines.
const minTitleLength = 5

// ResolveTitle infers the article headline: rule selectors, Open Graph,
// first h1, Twitter card, then the document title. Returns false only when
// every strategy fails.
func ResolveTitle(html string, rule *domain.ExtractionRule) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	if rule != nil {
		for _, selector := range rule.TitleSelectors {
			text := strings.TrimSpace(doc.Find(selector).First().Text())
			if len(text) > minTitleLength {
				return text, true
			}
		}
	}

	if content, exists := doc.Find(`meta[property="og:title"]`).First().Attr("content"); exists {
		if t := strings.TrimSpace(content); t != "" {
			return t, true
		}
	}

	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); len(h1) > minTitleLength {
		return h1, true
	}

	if content, exists := doc.Find(`meta[name="twitter:title"]`).First().Attr("content"); exists {
		if t := strings.TrimSpace(content); t != "" {
			return t, true
		}
	}

	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t, true
	}

	return "", false
}
