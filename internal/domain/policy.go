package domain

import (
	"strings"
	"time"
)

// ScanPolicy carries the caller-selected knobs for one run.
type ScanPolicy struct {
	Category  string
	Timeframe string   // "24h", "3days", "1week", "1month"
	Keywords  []string // caller-supplied analysis keywords, may be empty

	OutletLimit          int           // simultaneously processed outlets
	DeepLimit            int           // simultaneous deep scans per outlet
	FetchTimeout         time.Duration // per network fetch
	PingInterval         time.Duration // idle keep-alive threshold
	HardCutoffMultiplier int           // freshness window multiple for outright rejection
}

// DefaultPolicy mirrors the documented policy defaults.
func DefaultPolicy(category, timeframe string) ScanPolicy {
	return ScanPolicy{
		Category:             category,
		Timeframe:            timeframe,
		OutletLimit:          5,
		DeepLimit:            5,
		FetchTimeout:         20 * time.Second,
		PingInterval:         20 * time.Second,
		HardCutoffMultiplier: 3,
	}
}

// WindowDays maps the timeframe to its freshness window in days.
func (p ScanPolicy) WindowDays() int {
	switch strings.ToLower(p.Timeframe) {
	case "3days", "3d", "72h":
		return 3
	case "1week", "week", "7d":
		return 7
	case "1month", "month", "30d":
		return 30
	default:
		return 1
	}
}

// CutoffDate is the oldest calendar day still counted as fresh.
func (p ScanPolicy) CutoffDate(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -p.WindowDays())
}

// HardCutoffDate is the oldest day an article may carry before it is
// discarded outright regardless of topic score.
func (p ScanPolicy) HardCutoffDate(now time.Time) time.Time {
	mult := p.HardCutoffMultiplier
	if mult < 1 {
		mult = 3
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -p.WindowDays()*mult)
}

// IsGeneralCategory reports whether noise penalties should be skipped.
func (p ScanPolicy) IsGeneralCategory() bool {
	switch strings.ToLower(p.Category) {
	case "", "general", "all", "local", "headline":
		return true
	}
	return false
}
