package extract

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/biocracy/urbanous/internal/domain"
)

// defaultScriptVar is the structured-data key news CMSes push into inline
// script blocks when no rule names a different one.
const defaultScriptVar = "articleDatePublished"

// metaDateCandidates are probed in order during the global fallback.
var metaDateCandidates = []struct{ attr, value string }{
	{"property", "article:published_time"},
	{"property", "og:published_time"},
	{"name", "date"},
	{"name", "pubdate"},
	{"name", "publishdate"},
	{"name", "publishtime"},
	{"name", "original-publish-date"},
	{"itemprop", "datePublished"},
}

// dateStrategy is one step of the resolution cascade. Strategies share a
// single shape so each stays independently testable; the cascade stops at
// the first success.
type dateStrategy func(doc *goquery.Document, rawHTML, pageURL string, rule *domain.ExtractionRule) (time.Time, bool)

var dateCascade = []dateStrategy{
	scriptVarDate,
	ruleSelectorDate,
	ruleRegexDate,
	jsonLDDate,
	globalFallbackDate,
}

// ResolveDate runs the full cascade over one page. Rule-driven strategies
// fire only when a rule is supplied; the global fallback always runs last.
// Malformed markup is never fatal: the worst outcome is (zero, false).
func ResolveDate(html, pageURL string, rule *domain.ExtractionRule) (time.Time, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// Regex and URL strategies still work without a parse tree.
		if rule != nil {
			if d, ok := scriptVarDate(nil, html, pageURL, rule); ok {
				return d, true
			}
		}
		return DateFromURL(pageURL)
	}

	for _, strategy := range dateCascade {
		if d, ok := strategy(doc, html, pageURL, rule); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// scriptVarDate scans inline scripts for a literal `"key":"value"` pattern,
// the shape CMS dataLayer pushes take.
func scriptVarDate(_ *goquery.Document, rawHTML, _ string, rule *domain.ExtractionRule) (time.Time, bool) {
	if rule == nil || !rule.UseScriptVar {
		return time.Time{}, false
	}
	key := rule.ScriptVarName
	if key == "" {
		key = defaultScriptVar
	}
	expr, err := regexp.Compile(`['"]` + regexp.QuoteMeta(key) + `['"]\s*:\s*['"]([^'"]+)['"]`)
	if err != nil {
		return time.Time{}, false
	}
	m := expr.FindStringSubmatch(rawHTML)
	if m == nil {
		return time.Time{}, false
	}
	if t, parseErr := time.Parse(time.RFC3339, m[1]); parseErr == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return ParseDate(m[1])
}

// ruleSelectorDate tries each rule selector, probing element text, then the
// content attribute, then the datetime attribute.
func ruleSelectorDate(doc *goquery.Document, _, _ string, rule *domain.ExtractionRule) (found time.Time, ok bool) {
	if rule == nil || len(rule.DateSelectors) == 0 {
		return time.Time{}, false
	}
	for _, selector := range rule.DateSelectors {
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if d, hit := ParseDate(strings.TrimSpace(sel.Text())); hit {
				found, ok = d, true
				return false
			}
			if content, exists := sel.Attr("content"); exists {
				if d, hit := ParseDate(content); hit {
					found, ok = d, true
					return false
				}
			}
			if dt, exists := sel.Attr("datetime"); exists {
				if d, hit := ParseDate(dt); hit {
					found, ok = d, true
					return false
				}
			}
			return true
		})
		if ok {
			return found, true
		}
	}
	return time.Time{}, false
}

// ruleRegexDate runs the rule's compiled patterns against the flattened
// page text, parsing the first capture group (or whole match).
func ruleRegexDate(doc *goquery.Document, _, _ string, rule *domain.ExtractionRule) (time.Time, bool) {
	if rule == nil || len(rule.CompiledRegex()) == 0 {
		return time.Time{}, false
	}
	text := flattenText(doc)
	for _, re := range rule.CompiledRegex() {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := m[0]
		if len(m) > 1 && m[1] != "" {
			candidate = m[1]
		}
		if d, ok := ParseDate(candidate); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// jsonLDDate parses every ld+json block, flattening one @graph level, and
// takes datePublished, dateCreated, or uploadDate (including one level of
// mainEntity nesting). Malformed blocks are skipped.
func jsonLDDate(doc *goquery.Document, _, _ string, rule *domain.ExtractionRule) (found time.Time, ok bool) {
	if rule == nil || !rule.UseJSONLD {
		return time.Time{}, false
	}
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
			return true
		}
		for _, item := range flattenJSONLD(data) {
			raw := jsonLDDateValue(item)
			if raw == "" {
				continue
			}
			if d, hit := ParseDate(raw); hit {
				found, ok = d, true
				return false
			}
		}
		return true
	})
	return found, ok
}

func flattenJSONLD(data any) []map[string]any {
	switch v := data.(type) {
	case map[string]any:
		if graph, exists := v["@graph"]; exists {
			if list, isList := graph.([]any); isList {
				return flattenJSONLDList(list)
			}
		}
		return []map[string]any{v}
	case []any:
		return flattenJSONLDList(v)
	}
	return nil
}

func flattenJSONLDList(list []any) []map[string]any {
	items := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		if m, isMap := entry.(map[string]any); isMap {
			items = append(items, m)
		}
	}
	return items
}

func jsonLDDateValue(item map[string]any) string {
	for _, key := range []string{"datePublished", "dateCreated", "uploadDate"} {
		if s, isStr := item[key].(string); isStr && s != "" {
			return s
		}
	}
	if nested, isMap := item["mainEntity"].(map[string]any); isMap {
		if s, isStr := nested["datePublished"].(string); isStr {
			return s
		}
	}
	return ""
}

// globalFallbackDate always runs when no rule matched: HTML5 time elements,
// the fixed meta candidate list, then the URL itself.
func globalFallbackDate(doc *goquery.Document, _, pageURL string, _ *domain.ExtractionRule) (found time.Time, ok bool) {
	doc.Find("time[datetime]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		dt, _ := sel.Attr("datetime")
		if d, hit := ParseDate(dt); hit {
			found, ok = d, true
			return false
		}
		return true
	})
	if ok {
		return found, true
	}

	for _, candidate := range metaDateCandidates {
		selector := `meta[` + candidate.attr + `="` + candidate.value + `"]`
		content, exists := doc.Find(selector).First().Attr("content")
		if !exists {
			continue
		}
		if d, hit := ParseDate(content); hit {
			return d, true
		}
	}

	return DateFromURL(pageURL)
}

// flattenText joins the page's visible text with single spaces, the shape
// rule regexes are written against.
func flattenText(doc *goquery.Document) string {
	return strings.Join(strings.Fields(doc.Text()), " ")
}
