// Package score computes relevance scores for candidate articles and the
// freshness decisions that drive the rescue and verification passes.
package score

import (
	"strings"
	"time"

	"github.com/biocracy/urbanous/internal/domain"
)

const (
	categoryTermBonus   = 30
	urlStemBonus        = 20
	keywordBonus        = 40
	strongKeywordBonus  = 50
	noisePenalty        = 50
	suspiciousPenalty   = 100
	freshDateBonus      = 30
	geoBonus            = 35
	rescueTopicMin      = 20
	urlStemLen          = 4

	// RescueBonus is added when a previously undated article gains a date
	// through the deep-fetch rescue pass.
	RescueBonus = 20

	verifiedBonus   = 20
	rejectedPenalty = 10
)

// Input carries the facts the scorer needs about one candidate.
type Input struct {
	Title     string
	URL       string
	Published time.Time
	HasDate   bool
	City      string
	Keywords  []string // analysis keywords, single +40 boost on first hit
}

// Result is the scoring outcome. Stale marks a hard-cutoff rejection:
// Total is forced to zero no matter how strong the topic signal was.
type Result struct {
	Total       int
	Breakdown   domain.ScoreBreakdown
	Fresh       bool
	Stale       bool
	NeedsRescue bool
}

// Score rates one candidate against the run policy. Geography contributes
// to the breakdown for diagnostics but never to the total.
func Score(in Input, policy domain.ScanPolicy, now time.Time) Result {
	title := strings.ToLower(in.Title)
	rawURL := strings.ToLower(in.URL)
	category := strings.ToLower(strings.TrimSpace(policy.Category))

	topic := 0
	for _, kw := range in.Keywords {
		kw = strings.ToLower(kw)
		if kw != "" && (strings.Contains(title, kw) || strings.Contains(rawURL, kw)) {
			topic += keywordBonus
			break
		}
	}
	if category != "" && (strings.Contains(title, category) || strings.Contains(rawURL, category)) {
		topic += categoryTermBonus
	}
	if stem := categoryStem(category); stem != "" && strings.Contains(rawURL, "/"+stem) {
		topic += urlStemBonus
	}
	for _, kw := range strongTerms[category] {
		if strings.Contains(title, kw) || strings.Contains(rawURL, kw) {
			topic += strongKeywordBonus
			break
		}
	}
	if !policy.IsGeneralCategory() {
		for _, n := range noiseTerms {
			if strings.Contains(title, n) {
				topic -= noisePenalty
				break
			}
		}
	}
	for _, s := range suspiciousTerms {
		if strings.Contains(title, s) || strings.Contains(rawURL, s) {
			topic -= suspiciousPenalty
			break
		}
	}

	// Candidates always originate from a configured local outlet, so an
	// outlet with a home city scores in-area even without a mention.
	geo := 0
	if strings.TrimSpace(in.City) != "" {
		geo = geoBonus
	}

	res := Result{Breakdown: domain.ScoreBreakdown{Topic: topic, Geo: geo}}

	if in.HasDate {
		if in.Published.Before(policy.HardCutoffDate(now)) {
			res.Stale = true
			res.Breakdown.Date = 0
			res.Total = 0
			return res
		}
		if !in.Published.Before(policy.CutoffDate(now)) {
			res.Fresh = true
			res.Breakdown.Date = freshDateBonus
		}
	} else if topic >= rescueTopicMin {
		res.NeedsRescue = true
	}

	res.Total = topic + res.Breakdown.Date
	return res
}

// ApplyVerdict folds a verification outcome into an already scored record.
func ApplyVerdict(rec *domain.ArticleRecord, verified bool) {
	if verified {
		rec.Score += verifiedBonus
		rec.Verdict = domain.VerdictVerified
		return
	}
	rec.Score -= rejectedPenalty
	rec.Verdict = domain.VerdictRejected
}

func categoryStem(category string) string {
	if len(category) < urlStemLen {
		return category
	}
	return category[:urlStemLen]
}
