package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/biocracy/urbanous/internal/domain"
	"github.com/biocracy/urbanous/internal/urlfilter"
)

// Anchors with visible text shorter than this carry no usable headline.
const minAnchorText = 2

// ExtractLinks parses anchors out of a homepage or category page, resolves
// them against the page URL, filters through the article validator, and
// deduplicates by exact resolved URL within the call. Malformed anchors are
// skipped, never fatal.
func ExtractLinks(html, baseURL, outlet string) []domain.CandidateLink {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var candidates []domain.CandidateLink

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		ref, parseErr := url.Parse(href)
		if parseErr != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		resolved.Fragment = ""
		full := resolved.String()

		if full == baseURL || full == strings.TrimSuffix(baseURL, "/") || strings.TrimSuffix(full, "/") == strings.TrimSuffix(baseURL, "/") {
			return
		}
		if _, dup := seen[full]; dup {
			return
		}

		text := strings.TrimSpace(sel.Text())
		if len([]rune(text)) < minAnchorText {
			return
		}

		if !urlfilter.IsValidArticle(full) {
			return
		}

		seen[full] = struct{}{}
		candidates = append(candidates, domain.CandidateLink{
			URL:        full,
			AnchorText: text,
			Outlet:     outlet,
		})
	})

	return candidates
}
