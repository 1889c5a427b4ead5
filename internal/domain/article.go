package domain

import (
	"net/url"
	"strings"
	"time"
)

// Outlet is one source website polled for content. Immutable for the
// duration of a run; owned by the caller.
type Outlet struct {
	ID      int64
	Name    string
	URL     string
	City    string
	Country string
}

// CandidateLink is a discovered link not yet verified as an article.
type CandidateLink struct {
	URL        string
	AnchorText string
	Outlet     string
}

// Verdict is the tri-state result of external relevance verification.
type Verdict string

const (
	VerdictUnknown  Verdict = "unknown"
	VerdictVerified Verdict = "verified"
	VerdictRejected Verdict = "rejected"
)

// ScoreBreakdown itemizes the relevance score factors. Geo is computed for
// auditability but excluded from the total.
type ScoreBreakdown struct {
	Topic int `json:"topic"`
	Date  int `json:"date"`
	Geo   int `json:"geo"`
}

// ArticleRecord is a candidate enriched through the pipeline stages.
// Terminal once emitted.
type ArticleRecord struct {
	URL     string         `json:"url"`
	Title   string         `json:"title"`
	Source  string         `json:"source"`
	DateStr string         `json:"date_str,omitempty"`
	Score   int            `json:"relevance_score"`
	Scores  ScoreBreakdown `json:"scores"`
	Verdict Verdict        `json:"verdict"`
	IsSpam  bool           `json:"is_spam,omitempty"`

	publishedAt time.Time
}

// SetDate attaches a resolved publication date, truncated to the calendar day.
func (a *ArticleRecord) SetDate(t time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	a.publishedAt = day
	a.DateStr = day.Format("2006-01-02")
}

// PublishedAt returns the resolved date and whether one is known.
func (a *ArticleRecord) PublishedAt() (time.Time, bool) {
	if a.publishedAt.IsZero() {
		return time.Time{}, false
	}
	return a.publishedAt, true
}

// NormalizeURL strips scheme, www prefix, query, fragment, and trailing
// slash so that two spellings of the same article compare equal.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	path := strings.TrimSuffix(u.EscapedPath(), "/")
	return host + strings.ToLower(path)
}

// NormalizeTitle lowercases and collapses whitespace for fingerprinting.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
