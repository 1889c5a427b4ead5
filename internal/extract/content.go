package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageKind classifies a fetched page during deep scans.
type PageKind string

const (
	KindArticle  PageKind = "article"
	KindCategory PageKind = "category"
	KindUnknown  PageKind = "unknown"
)

// Landing pages are mostly anchor text; above this ratio the page is a
// listing, not an article.
const categoryLinkDensity = 0.45

var noiseTitleTerms = []string{
	"donate", "support", "contact", "rubric", "donat",
	"termeni", "conditii", "gdpr", "confidentialitate",
	"index", "homepage", "arhiva", "login", "register",
}

// DetectPageKind decides whether fetched HTML is an article body or a
// category/landing page that slipped past the URL filter. Heuristics over
// metadata: link density first, then significant-paragraph counting.
func DetectPageKind(html string) PageKind {
	if html == "" {
		return KindUnknown
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return KindUnknown
	}

	allText := strings.TrimSpace(doc.Text())
	if len(allText) < 100 {
		return KindUnknown
	}

	title := strings.ToLower(doc.Find("title").First().Text())
	for _, term := range noiseTitleTerms {
		if strings.Contains(title, term) {
			return KindCategory
		}
	}

	linkTextLen := 0
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		linkTextLen += len(strings.TrimSpace(sel.Text()))
	})
	if float64(linkTextLen)/float64(len(allText)) > categoryLinkDensity {
		return KindCategory
	}

	significant := 0
	totalLen := 0
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) > 60 {
			significant++
			totalLen += len(text)
		}
	})

	if significant < 2 {
		return KindCategory
	}
	if significant >= 3 && totalLen > 500 {
		return KindArticle
	}
	return KindUnknown
}
