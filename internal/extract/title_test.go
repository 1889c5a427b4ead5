package extract

import (
	"testing"

	"github.com/biocracy/urbanous/internal/domain"
)

func TestResolveTitleOrder(t *testing.T) {
	t.Parallel()

	html := `<html><head>
	<meta property="og:title" content="OG Headline Wins">
	<meta name="twitter:title" content="Twitter Headline">
	<title>Document Title</title>
	</head><body><h1>H1 Headline Text</h1></body></html>`

	title, ok := ResolveTitle(html, nil)
	if !ok || title != "OG Headline Wins" {
		t.Fatalf("og:title should win: %q %v", title, ok)
	}
}

func TestResolveTitleRuleSelectorFirst(t *testing.T) {
	t.Parallel()

	html := `<html><head><meta property="og:title" content="OG Headline"></head>
	<body><h1 class="entry-title">Selector Headline Here</h1></body></html>`

	rule := &domain.ExtractionRule{Domain: "x.ro", TitleSelectors: []string{"h1.entry-title"}}
	title, ok := ResolveTitle(html, rule)
	if !ok || title != "Selector Headline Here" {
		t.Fatalf("rule selector should win: %q %v", title, ok)
	}
}

func TestResolveTitleSkipsTrivialH1(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>Fallback Document Title</title></head><body><h1>News</h1></body></html>`
	title, ok := ResolveTitle(html, nil)
	if !ok || title != "Fallback Document Title" {
		t.Fatalf("short h1 should be skipped: %q %v", title, ok)
	}
}

func TestResolveTitleNoTitle(t *testing.T) {
	t.Parallel()

	if _, ok := ResolveTitle("<html><body><p>text</p></body></html>", nil); ok {
		t.Fatal("expected no title")
	}
}
