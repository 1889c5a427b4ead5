package extract

import (
	"testing"
	"time"
)

func TestParseDateLocales(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Time
	}{
		{"29 decembrie 2025", time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC)},
		{"30 декабря 2025", time.Date(2025, time.December, 30, 0, 0, 0, 0, time.UTC)},
		{"Jan. 04, 2026", time.Date(2026, time.January, 4, 0, 0, 0, 0, time.UTC)},
		{"Ian. 04, 2026", time.Date(2026, time.January, 4, 0, 0, 0, 0, time.UTC)},
		{"06.01.2026", time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC)},
		{"06/01/2026", time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC)},
		{"06-01-2026", time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC)},
		{"2026-01-06", time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC)},
		{"la 06.01.2026", time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC)},
		{"2026-01-05T14:04:00+02:00", time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{"15 ianuarie 2026", time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{"3 мая 2025", time.Date(2025, time.May, 3, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		got, ok := ParseDate(tc.in)
		if !ok {
			t.Errorf("ParseDate(%q) failed", tc.in)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "no date here", "32.13.2026", "12 nothingember 2026", "1999-01-01", "2050-01-01"} {
		if _, ok := ParseDate(in); ok {
			t.Errorf("ParseDate(%q) unexpectedly succeeded", in)
		}
	}
}

func TestDateFromURL(t *testing.T) {
	t.Parallel()

	if d, ok := DateFromURL("https://x.com/2026/01/15/mayor-announces-budget"); !ok || d.Day() != 15 || d.Month() != time.January {
		t.Fatalf("slug date not recognized: %v %v", d, ok)
	}
	if d, ok := DateFromURL("https://x.com/articles/2025-12-29-city-council"); !ok || d.Day() != 29 {
		t.Fatalf("iso token date not recognized: %v %v", d, ok)
	}
	if _, ok := DateFromURL("https://x.com/article-1080-720.html"); ok {
		t.Fatal("implausible year accepted")
	}
}
