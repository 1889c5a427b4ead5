package extract

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSitemapURLsFiltersAndSorts(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"https://example.com/sitemap-news.xml": `<?xml version="1.0"?>
		<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
		  <url><loc>https://example.com/2026/01/10/fresh-budget-story</loc><lastmod>2026-01-10</lastmod></url>
		  <url><loc>https://example.com/2025/01/01/stale-story-from-last-year</loc><lastmod>2025-01-01</lastmod></url>
		  <url><loc>https://example.com/category/local</loc><lastmod>2026-01-10</lastmod></url>
		  <url><loc>https://example.com/2026/01/12/newest-council-story</loc><lastmod>2026-01-12</lastmod></url>
		</urlset>`,
	}

	fetch := func(_ context.Context, url string) ([]byte, error) {
		if body, ok := pages[url]; ok {
			return []byte(body), nil
		}
		return nil, errors.New("not found")
	}

	cutoff := time.Date(2026, time.January, 8, 0, 0, 0, 0, time.UTC)
	urls := SitemapURLs(context.Background(), fetch, "https://example.com/", cutoff)

	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d: %v", len(urls), urls)
	}
	if urls[0] != "https://example.com/2026/01/12/newest-council-story" {
		t.Fatalf("expected newest first, got %s", urls[0])
	}
}

func TestSitemapURLsFollowsIndex(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"https://example.com/sitemap.xml": `<?xml version="1.0"?>
		<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
		  <sitemap><loc>https://example.com/posts-sitemap.xml</loc><lastmod>2026-01-10</lastmod></sitemap>
		</sitemapindex>`,
		"https://example.com/posts-sitemap.xml": `<?xml version="1.0"?>
		<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
		  <url><loc>https://example.com/2026/01/09/story-found-in-sub-sitemap</loc><lastmod>2026-01-09</lastmod></url>
		</urlset>`,
	}

	fetch := func(_ context.Context, url string) ([]byte, error) {
		if body, ok := pages[url]; ok {
			return []byte(body), nil
		}
		return nil, errors.New("not found")
	}

	cutoff := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	urls := SitemapURLs(context.Background(), fetch, "https://example.com", cutoff)
	if len(urls) != 1 || urls[0] != "https://example.com/2026/01/09/story-found-in-sub-sitemap" {
		t.Fatalf("sub-sitemap not followed: %v", urls)
	}
}

func TestSitemapURLsAbsent(t *testing.T) {
	t.Parallel()

	fetch := func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("404")
	}
	if urls := SitemapURLs(context.Background(), fetch, "https://example.com", time.Now()); urls != nil {
		t.Fatalf("expected nil, got %v", urls)
	}
}
