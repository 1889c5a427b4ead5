// Package urlfilter classifies discovered URLs as plausible articles or
// junk (navigation, legal, auth, taxonomy, pagination). The filter is a
// pure function over the URL string so it is safe to call at high
// frequency from concurrent extraction paths.
package urlfilter

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Extensions that never point at an article body.
var blockedExtensions = []string{
	".pdf", ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg",
	".xml", ".rss", ".atom", ".mp3", ".mp4", ".zip",
}

// Substrings blocked anywhere in the path. These are safe to match loosely:
// no legitimate article slug contains "/tag/" or "privacy-policy".
var blockedSubstrings = []string{
	"login", "signin", "signup", "register", "password",
	"subscribe", "subscription", "unsubscribe",
	"terms-of-service", "privacy-policy", "cookie-policy",
	"newsletter", "rss-feed", "sitemap",
	"advertorial", "mediakit",
	"/tag/", "/category/", "/topic/", "/author/", "/section/", "/eticheta/",
	"/c/", "/szero/",
	"odr/main",
	"epaper", "paperindex", "html5/reader", "onelink.me",
	"/feed/", "/rss", "/search", "/cart/", "/basket/",
}

// Terms blocked only as a full path segment. "administration" must pass
// even though it contains "admin"; "/admin/" must not.
var blockedSegments = map[string]struct{}{
	"admin": {}, "dashboard": {}, "profile": {}, "user": {}, "account": {},
	"billing": {}, "my": {},
	"donate": {}, "donation": {}, "giving": {}, "pay": {}, "payment": {},
	"checkout": {}, "cart": {}, "shop": {},
	"careers": {}, "jobs": {}, "employment": {}, "vacancy": {}, "work-with-us": {},
	"terms": {}, "privacy": {}, "legal": {}, "gdpr": {}, "tos": {}, "policy": {},
	"rules": {}, "disclaimer": {}, "copyright": {},
	"contact": {}, "contact-us": {}, "about": {}, "about-us": {}, "info": {},
	"help": {}, "faq": {}, "support": {}, "feedback": {},
	"search": {}, "find": {}, "archive": {}, "weather": {}, "horoscope": {}, "traffic": {},
	"gallery": {}, "photos": {}, "video": {}, "videos": {}, "live": {}, "watch": {},
	"listen": {}, "podcast": {}, "shows": {},
	"stiri": {}, "servicii": {}, "codul": {}, "redactia": {}, "echipa": {},
	"publicitate": {}, "abonamente": {},
	"mobile": {}, "scroll": {}, "newmedia": {}, "special": {}, "specials": {},
}

// Hard-blocked hosts: social networks, generic SaaS, and known junk targets
// that outlets routinely link out to.
var blockedDomains = []string{
	"accuweather.com", "weather.com", "airtable.com", "intuit.com",
	"oraclecloud.com", "pagesuite-professional.co.uk", "eepurl.com",
	"facebook.com", "twitter.com", "instagram.com", "linkedin.com",
	"youtube.com", "google.com", "bing.com", "tiktok.com",
	"hugedomains.com", "issuu.com", "ec.europa.eu", "paydemic.com",
	"wordpress.org",
}

var (
	paginationPathExpr = regexp.MustCompile(`/(page|p)/\d+`)
	numberedHTMLExpr   = regexp.MustCompile(`/(\d+)\.html$`)
	yearSegmentExpr    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// Numbered ".html" paths below this are pagination; real article IDs are
// larger.
const paginationIDBound = 50

var blockedQueryParams = []string{"cat_id=", "tag=", "sort=", "filter=", "page="}

// IsValidArticle reports whether a URL plausibly points at an article page.
// It is deterministic and performs no I/O.
func IsValidArticle(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}

	for _, ext := range blockedExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, d := range blockedDomains {
		if strings.Contains(host, d) {
			return false
		}
	}

	path := strings.ToLower(u.EscapedPath())
	for _, kw := range blockedSubstrings {
		if strings.Contains(path, kw) {
			return false
		}
	}

	segments := splitSegments(path)
	for _, seg := range segments {
		if _, blocked := blockedSegments[seg]; blocked {
			return false
		}
	}

	if isPagination(lower) {
		return false
	}

	if len(segments) == 0 {
		return false // homepage
	}

	last := segments[len(segments)-1]
	if isShortNumeric(last) {
		return false
	}

	if len(segments) == 1 && looksLikeBareCategory(segments[0]) {
		return false
	}

	query := strings.ToLower(u.RawQuery)
	if query != "" {
		for _, p := range blockedQueryParams {
			if strings.Contains(query, p) {
				return false
			}
		}
	}

	return true
}

func splitSegments(path string) []string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

func isPagination(lower string) bool {
	if paginationPathExpr.MatchString(lower) {
		return true
	}
	if m := numberedHTMLExpr.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n < paginationIDBound {
			return true
		}
	}
	return false
}

// isShortNumeric catches trailing pagination segments like /news/2/.
func isShortNumeric(seg string) bool {
	if len(seg) >= 4 {
		return false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(seg) > 0
}

// looksLikeBareCategory rejects short hyphen-free single segments such as
// "sports" or "world" while keeping long slugs ("man-bites-dog-downtown")
// and anything carrying digits or a 4-digit year.
func looksLikeBareCategory(slug string) bool {
	if yearSegmentExpr.MatchString(slug) {
		return false
	}
	if strings.ContainsAny(slug, "0123456789") {
		return false
	}
	if slug == "opinion" || slug == "editorials" {
		return true
	}
	return len(slug) < 20 && strings.Count(slug, "-") < 2
}
