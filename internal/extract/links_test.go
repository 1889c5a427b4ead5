package extract

import (
	"strings"
	"testing"
)

func TestExtractLinksResolvesAndFilters(t *testing.T) {
	t.Parallel()

	html := `<html><body>
	<a href="/2026/01/10/mayor-announces-budget">Mayor announces budget</a>
	<a href="https://example.com/category/local">Local</a>
	<a href="/contact">Contact</a>
	<a href="//cdn.example.com/2026/01/11/other-city-story">Other city story</a>
	<a href="/2026/01/10/mayor-announces-budget">Duplicate anchor</a>
	<a href="/2026/01/12/empty-anchor"> </a>
	<a href="https://example.com/">Home</a>
	<a href=":%%bad">broken</a>
	</body></html>`

	links := ExtractLinks(html, "https://example.com/", "Example Gazette")
	if len(links) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(links), links)
	}

	if links[0].URL != "https://example.com/2026/01/10/mayor-announces-budget" {
		t.Fatalf("unexpected first url: %s", links[0].URL)
	}
	if links[0].AnchorText != "Mayor announces budget" {
		t.Fatalf("unexpected anchor text: %s", links[0].AnchorText)
	}
	if links[0].Outlet != "Example Gazette" {
		t.Fatalf("unexpected outlet: %s", links[0].Outlet)
	}
	if !strings.HasPrefix(links[1].URL, "https://cdn.example.com/") {
		t.Fatalf("protocol-relative link not resolved: %s", links[1].URL)
	}
}

func TestExtractLinksMalformedMarkup(t *testing.T) {
	t.Parallel()

	// Unclosed tags and nested anchors must not panic.
	html := `<div><a href="/2026/01/10/story-one">Story one<a href="/2026/01/11/story-two">Story two</div>`
	links := ExtractLinks(html, "https://example.com", "X")
	if len(links) == 0 {
		t.Fatal("expected candidates from malformed markup")
	}
}

func TestExtractLinksRejectsSelf(t *testing.T) {
	t.Parallel()

	html := `<a href="https://example.com/politics/city-hall-feature">self link text</a>`
	links := ExtractLinks(html, "https://example.com/politics/city-hall-feature", "X")
	if len(links) != 0 {
		t.Fatalf("self link must be rejected: %+v", links)
	}
}
