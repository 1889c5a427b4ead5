// Package navigate locates a news outlet's category page starting from its
// homepage. A language-model port does the semantic matching over the page's
// navigation regions; a multilingual keyword fallback covers model outages.
// Total failure means scraping the homepage, never an error.
package navigate

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/biocracy/urbanous/internal/ports"
	"github.com/biocracy/urbanous/internal/score"
)

const (
	maxRegionHTML = 4000  // per navigation region
	maxNavHTML    = 20000 // total payload handed to the model
)

// Navigator resolves category URLs. The model port may be nil, in which
// case only the keyword fallback runs.
type Navigator struct {
	model  ports.CategoryNavigator
	logger *slog.Logger
}

// New builds a Navigator. Pass nil model to disable the semantic path.
func New(model ports.CategoryNavigator, logger *slog.Logger) *Navigator {
	return &Navigator{model: model, logger: logger.With("component", "navigate")}
}

// FindCategoryURL returns the absolute category URL discovered on the page,
// or "" when nothing matched. Callers fall back to the homepage on "".
func (n *Navigator) FindCategoryURL(ctx context.Context, html, baseURL, category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == "general" || category == "all" || category == "headline" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		n.logger.Warn("homepage parse failed", "base_url", baseURL, "error", err)
		return ""
	}

	if n.model != nil {
		navHTML := navRegions(doc)
		if navHTML != "" {
			found, err := n.model.FindCategoryURL(ctx, navHTML, baseURL, category)
			if err != nil {
				n.logger.Warn("model navigation failed, using keyword fallback",
					"base_url", baseURL, "error", err)
			} else if abs := absolutize(found, baseURL); abs != "" {
				return abs
			}
		}
	}

	return n.keywordFallback(doc, baseURL, category)
}

// navRegions collects the markup of navigation-like elements, capped per
// element and in total so the model payload stays bounded.
func navRegions(doc *goquery.Document) string {
	var b strings.Builder
	doc.Find("nav, header, ul, menu").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		h, err := goquery.OuterHtml(sel)
		if err != nil {
			return true
		}
		if len(h) > maxRegionHTML {
			h = h[:maxRegionHTML]
		}
		b.WriteString(h)
		b.WriteString("\n")
		return b.Len() < maxNavHTML
	})
	return b.String()
}

// keywordFallback scans anchors for multilingual category vocabulary,
// preferring text matches over href matches.
func (n *Navigator) keywordFallback(doc *goquery.Document, baseURL, category string) string {
	terms := score.CategoryTerms(category)

	for _, term := range terms {
		var found string
		doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := strings.ToLower(strings.TrimSpace(sel.Text()))
			href := sel.AttrOr("href", "")
			if strings.Contains(text, term) || strings.Contains(strings.ToLower(href), term) {
				if abs := absolutize(href, baseURL); abs != "" {
					found = abs
					return false
				}
			}
			return true
		})
		if found != "" {
			n.logger.Debug("category link via keyword", "term", term, "url", found)
			return found
		}
	}
	return ""
}

// absolutize resolves href against base and keeps only http(s) results.
func absolutize(href, baseURL string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}
