package extract

import (
	"context"
	"encoding/xml"
	"sort"
	"strings"
	"time"

	"github.com/biocracy/urbanous/internal/urlfilter"
)

// FetchFunc fetches one URL; the orchestrator injects its size-capped,
// browser-headed client here so the sitemap walk shares its limits.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// Standard sitemap locations, news-specific variants first.
var sitemapPaths = []string{
	"/sitemap-news.xml",
	"/sitemap_news.xml",
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/wp-sitemap.xml",
}

const (
	maxSubSitemaps = 3
	maxSitemapURLs = 50
)

type sitemapDoc struct {
	URLs     []sitemapEntry `xml:"url"`
	Sitemaps []sitemapEntry `xml:"sitemap"`
}

type sitemapEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type datedURL struct {
	url  string
	date time.Time // zero when the sitemap carried no lastmod
}

// SitemapURLs probes the standard sitemap locations for one outlet and
// returns fresh, validated article URLs, newest first. A missing or broken
// sitemap returns nil; the caller treats that as "no supplement".
func SitemapURLs(ctx context.Context, fetch FetchFunc, baseURL string, cutoff time.Time) []string {
	base := strings.TrimSuffix(baseURL, "/")
	subFetched := 0

	for _, path := range sitemapPaths {
		body, err := fetch(ctx, base+path)
		if err != nil {
			continue
		}
		var doc sitemapDoc
		if err := xml.Unmarshal(body, &doc); err != nil {
			continue
		}

		var found []datedURL
		found = append(found, collectEntries(doc.URLs, cutoff)...)

		for _, sub := range doc.Sitemaps {
			if subFetched >= maxSubSitemaps {
				break
			}
			if d, ok := ParseDate(sub.LastMod); ok && d.Before(cutoff) {
				continue
			}
			subFetched++
			subBody, subErr := fetch(ctx, sub.Loc)
			if subErr != nil {
				continue
			}
			var subDoc sitemapDoc
			if err := xml.Unmarshal(subBody, &subDoc); err != nil {
				continue
			}
			found = append(found, collectEntries(subDoc.URLs, cutoff)...)
		}

		if len(found) > 0 {
			sort.SliceStable(found, func(i, j int) bool {
				return found[i].date.After(found[j].date)
			})
			if len(found) > maxSitemapURLs {
				found = found[:maxSitemapURLs]
			}
			urls := make([]string, len(found))
			for i, f := range found {
				urls[i] = f.url
			}
			return urls
		}
	}
	return nil
}

func collectEntries(entries []sitemapEntry, cutoff time.Time) []datedURL {
	var out []datedURL
	for _, e := range entries {
		loc := strings.TrimSpace(e.Loc)
		if loc == "" || !urlfilter.IsValidArticle(loc) {
			continue
		}
		if d, ok := ParseDate(e.LastMod); ok {
			if d.Before(cutoff) {
				continue
			}
			out = append(out, datedURL{url: loc, date: d})
			continue
		}
		out = append(out, datedURL{url: loc})
	}
	return out
}
