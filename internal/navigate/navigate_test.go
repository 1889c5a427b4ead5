package navigate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

const homepage = `<html><body>
<nav>
  <a href="/stiri">Știri</a>
  <a href="/politik">Politik</a>
  <a href="/sport">Sport</a>
  <a href="https://example.com/cultura">Cultură</a>
</nav>
<div class="content">
  <a href="/politica/articol-lung-despre-ceva">Articol</a>
</div>
</body></html>`

type stubModel struct {
	url string
	err error
}

func (s stubModel) FindCategoryURL(_ context.Context, _, _, _ string) (string, error) {
	return s.url, s.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFindCategoryURLViaModel(t *testing.T) {
	t.Parallel()

	nav := New(stubModel{url: "/politik"}, discard())
	got := nav.FindCategoryURL(context.Background(), homepage, "https://example.com", "politics")
	if got != "https://example.com/politik" {
		t.Fatalf("got %q, want relative model answer resolved", got)
	}
}

func TestFindCategoryURLModelFailureFallsBack(t *testing.T) {
	t.Parallel()

	nav := New(stubModel{err: errors.New("quota exceeded")}, discard())
	got := nav.FindCategoryURL(context.Background(), homepage, "https://example.com", "politics")
	// "Politik" matches the multilingual table even though the page is not English.
	if got != "https://example.com/politik" {
		t.Fatalf("fallback got %q", got)
	}
}

func TestFindCategoryURLKeywordOnly(t *testing.T) {
	t.Parallel()

	nav := New(nil, discard())

	got := nav.FindCategoryURL(context.Background(), homepage, "https://example.com", "sports")
	if got != "https://example.com/sport" {
		t.Fatalf("got %q, want sport link", got)
	}
}

func TestFindCategoryURLAbsoluteAnchor(t *testing.T) {
	t.Parallel()

	nav := New(nil, discard())
	got := nav.FindCategoryURL(context.Background(), homepage, "https://example.com", "culture")
	if got != "https://example.com/cultura" {
		t.Fatalf("got %q, want absolute cultura link", got)
	}
}

func TestFindCategoryURLGeneralSkipsNavigation(t *testing.T) {
	t.Parallel()

	nav := New(stubModel{url: "https://example.com/should-not-be-called"}, discard())
	for _, cat := range []string{"general", "all", "headline", ""} {
		if got := nav.FindCategoryURL(context.Background(), homepage, "https://example.com", cat); got != "" {
			t.Fatalf("category %q navigated to %q, want homepage fallback", cat, got)
		}
	}
}

func TestFindCategoryURLNoMatch(t *testing.T) {
	t.Parallel()

	nav := New(nil, discard())
	got := nav.FindCategoryURL(context.Background(), homepage, "https://example.com", "economy")
	if got != "" {
		t.Fatalf("got %q, want empty for missing category", got)
	}
}

func TestNavRegionsBounded(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 100; i++ {
		b.WriteString("<nav>")
		b.WriteString(strings.Repeat("<a href='/x'>item</a>", 500))
		b.WriteString("</nav>")
	}
	b.WriteString("</body></html>")

	nav := New(stubModel{url: ""}, discard())
	// Must terminate quickly and fall through to the keyword path.
	got := nav.FindCategoryURL(context.Background(), b.String(), "https://example.com", "politics")
	if got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
