package report

import (
	"strings"
	"testing"

	"github.com/biocracy/urbanous/internal/domain"
)

func TestBuildGroupsAndSorts(t *testing.T) {
	t.Parallel()

	outlets := []domain.Outlet{
		{Name: "Gazette", URL: "https://gazette.example"},
		{Name: "Herald", URL: "https://herald.example"},
		{Name: "Empty Post", URL: "https://empty.example"},
	}
	articles := []domain.ArticleRecord{
		{URL: "https://gazette.example/low", Title: "Low story", Source: "Gazette", Score: 30, Verdict: domain.VerdictUnknown},
		{URL: "https://gazette.example/high", Title: "High story", Source: "Gazette", Score: 110, DateStr: "2026-01-10", Verdict: domain.VerdictVerified},
		{URL: "https://herald.example/mid", Title: "Mid story", Source: "Herald", Score: 60, Verdict: domain.VerdictUnknown},
	}

	html, err := Build(domain.DefaultPolicy("politics", "1week"), outlets, articles)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !strings.Contains(html, "Deep Analysis: politics (1week)") {
		t.Fatal("heading missing")
	}
	if strings.Contains(html, "Empty Post") {
		t.Fatal("outlet with no articles should be omitted")
	}
	if hi, lo := strings.Index(html, "High story"), strings.Index(html, "Low story"); hi < 0 || lo < 0 || hi > lo {
		t.Fatalf("articles not sorted by score: hi=%d lo=%d", hi, lo)
	}
	if !strings.Contains(html, "2026-01-10") {
		t.Fatal("date missing")
	}
	if !strings.Contains(html, "#4ade80") {
		t.Fatal("high-score badge color missing")
	}
	if !strings.Contains(html, "#f87171") {
		t.Fatal("low-score badge color missing")
	}
}

func TestBuildEscapesTitles(t *testing.T) {
	t.Parallel()

	outlets := []domain.Outlet{{Name: "Gazette"}}
	articles := []domain.ArticleRecord{
		{URL: "https://gazette.example/x", Title: `<script>alert("x")</script>`, Source: "Gazette", Score: 10},
	}

	html, err := Build(domain.DefaultPolicy("general", "24h"), outlets, articles)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(html, "<script>alert") {
		t.Fatal("title not escaped")
	}
}

func TestBuildEmptyRun(t *testing.T) {
	t.Parallel()

	html, err := Build(domain.DefaultPolicy("politics", "1week"), nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(html, "Deep Analysis") {
		t.Fatal("heading missing on empty run")
	}
}
