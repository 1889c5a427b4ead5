// Package usecase drives a full scan: outlets are crawled under bounded
// concurrency, candidates flow through validation, extraction, dedup, and
// scoring, and progress streams out incrementally.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/biocracy/urbanous/internal/dedup"
	"github.com/biocracy/urbanous/internal/domain"
	"github.com/biocracy/urbanous/internal/extract"
	"github.com/biocracy/urbanous/internal/navigate"
	"github.com/biocracy/urbanous/internal/ports"
	"github.com/biocracy/urbanous/internal/report"
	"github.com/biocracy/urbanous/internal/score"
	"github.com/biocracy/urbanous/internal/stream"
)

const (
	maxDeepPerOutlet = 10
	minUsableTitle   = 5
)

// Fetcher is the outbound HTTP dependency.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// rescueCandidate pairs an undated on-topic link with its outlet's city so
// the rescue re-score carries the same geo breakdown as the first pass.
type rescueCandidate struct {
	link domain.CandidateLink
	city string
}

// Scanner owns one scan pipeline. All collaborators are fixed at
// construction; per-run state lives inside Run.
type Scanner struct {
	fetcher   Fetcher
	navigator *navigate.Navigator
	rules     ports.RuleLookup
	spam      ports.SpamLookup
	verifier  ports.RelevanceVerifier
	sink      ports.DigestSink
	logger    *slog.Logger
}

// NewScanner wires the pipeline. verifier and sink may be nil; the
// corresponding passes are skipped.
func NewScanner(
	fetcher Fetcher,
	navigator *navigate.Navigator,
	rules ports.RuleLookup,
	spam ports.SpamLookup,
	verifier ports.RelevanceVerifier,
	sink ports.DigestSink,
	logger *slog.Logger,
) *Scanner {
	return &Scanner{
		fetcher:   fetcher,
		navigator: navigator,
		rules:     rules,
		spam:      spam,
		verifier:  verifier,
		sink:      sink,
		logger:    logger.With("component", "scanner"),
	}
}

// Run executes a scan over the given outlets and streams events to em.
// It always terminates the stream, with done unless nothing could start.
func (s *Scanner) Run(ctx context.Context, outlets []domain.Outlet, policy domain.ScanPolicy, em *stream.Emitter) {
	em.StartPings()

	if len(outlets) == 0 {
		em.Finish(errors.New("no outlets to scan"))
		return
	}

	rules := s.loadRules(ctx, em)
	set := dedup.NewSet(s.loadSpam(ctx, em))
	now := time.Now().UTC()

	em.Log("scanning %d outlets for %q over %s", len(outlets), policy.Category, policy.Timeframe)

	var (
		mu      sync.Mutex
		all     []domain.ArticleRecord
		rescues []rescueCandidate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(policy.OutletLimit)
	for _, outlet := range outlets {
		outlet := outlet
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("outlet scan panicked", "outlet", outlet.Name, "panic", r)
					em.Error("outlet %s failed unexpectedly", outlet.Name)
				}
			}()
			recs, needRescue := s.scanOutlet(gctx, outlet, policy, rules, set, em, now)
			mu.Lock()
			all = append(all, recs...)
			rescues = append(rescues, needRescue...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		em.Finish(ctx.Err())
		return
	}

	all = s.rescuePass(ctx, all, rescues, rules, policy, em, now)
	s.verifyPass(ctx, all, policy, em)

	// Spam signatures are rejected at admission time, so only the
	// score floor applies here.
	final := make([]domain.ArticleRecord, 0, len(all))
	for _, rec := range all {
		if rec.Score >= 0 {
			final = append(final, rec)
		}
	}
	sort.SliceStable(final, func(i, j int) bool { return final[i].Score > final[j].Score })

	em.Data(final)

	summary, err := report.Build(policy, outlets, final)
	if err != nil {
		em.Error("summary generation failed: %v", err)
	} else if s.sink != nil {
		digest := domain.Digest{
			Title:       fmt.Sprintf("Deep Analysis: %s (%s)", policy.Category, policy.Timeframe),
			Category:    policy.Category,
			SummaryHTML: summary,
			Articles:    final,
		}
		if err := s.sink.SaveDigest(ctx, digest); err != nil {
			s.logger.Error("digest save failed", "error", err)
			em.Error("digest save failed: %v", err)
		}
	}

	em.Log("scan finished: %d articles kept", len(final))
	em.Finish(nil)
}

func (s *Scanner) loadRules(ctx context.Context, em *stream.Emitter) domain.RuleSet {
	if s.rules == nil {
		return domain.RuleSet{}
	}
	rules, err := s.rules.LoadRules(ctx)
	if err != nil {
		s.logger.Warn("rule lookup failed, using global fallbacks", "error", err)
		em.Log("rule lookup unavailable, using global extraction only")
		return domain.RuleSet{}
	}
	return rules
}

func (s *Scanner) loadSpam(ctx context.Context, em *stream.Emitter) dedup.SpamSignatures {
	sig := dedup.SpamSignatures{
		URLs:   make(map[string]struct{}),
		Titles: make(map[string]struct{}),
	}
	if s.spam == nil {
		return sig
	}
	urls, titles, err := s.spam.LoadSpamSignatures(ctx)
	if err != nil {
		s.logger.Warn("spam lookup failed", "error", err)
		em.Log("spam signatures unavailable for this run")
		return sig
	}
	for _, u := range urls {
		sig.URLs[u] = struct{}{}
	}
	for _, t := range titles {
		sig.Titles[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return sig
}

// scanOutlet walks one outlet end to end and emits its partial results.
// Failures degrade to fewer articles, never to an aborted run.
func (s *Scanner) scanOutlet(
	ctx context.Context,
	outlet domain.Outlet,
	policy domain.ScanPolicy,
	rules domain.RuleSet,
	set *dedup.Set,
	em *stream.Emitter,
	now time.Time,
) ([]domain.ArticleRecord, []rescueCandidate) {
	start := time.Now()
	var timeline []domain.TimelineEvent
	mark := func(kind, label string, from time.Time) {
		timeline = append(timeline, domain.TimelineEvent{
			Type:  kind,
			Start: from.Sub(start).Seconds(),
			End:   time.Since(start).Seconds(),
			Label: label,
		})
	}

	em.Log("[%s] fetching homepage", outlet.Name)
	t := time.Now()
	home, err := s.fetcher.Get(ctx, outlet.URL)
	mark("fetch", "homepage", t)
	if err != nil {
		s.logger.Warn("homepage fetch failed", "outlet", outlet.Name, "error", err)
		em.Log("[%s] unreachable: %v", outlet.Name, err)
		em.Timeline(outlet.Name, timeline)
		return nil, nil
	}

	pageHTML, pageURL := string(home), outlet.URL
	t = time.Now()
	if catURL := s.navigator.FindCategoryURL(ctx, pageHTML, outlet.URL, policy.Category); catURL != "" {
		em.Log("[%s] category page: %s", outlet.Name, catURL)
		if body, err := s.fetcher.Get(ctx, catURL); err == nil {
			pageHTML, pageURL = string(body), catURL
		} else {
			s.logger.Warn("category fetch failed, staying on homepage",
				"outlet", outlet.Name, "url", catURL, "error", err)
		}
	}
	mark("navigate", "category discovery", t)

	t = time.Now()
	links := extract.ExtractLinks(pageHTML, pageURL, outlet.Name)
	for _, u := range extract.SitemapURLs(ctx, s.fetcher.Get, outlet.URL, policy.CutoffDate(now)) {
		links = append(links, domain.CandidateLink{URL: u, Outlet: outlet.Name})
	}
	mark("extract", fmt.Sprintf("%d candidates", len(links)), t)

	rule := rules.Lookup(dedup.RegistrableDomain(outlet.URL))

	// Cheap pass: a date in the URL path makes a candidate ready without
	// touching the network again.
	var ready, deep []domain.CandidateLink
	for _, link := range links {
		if _, ok := extract.DateFromURL(link.URL); ok {
			ready = append(ready, link)
		} else {
			deep = append(deep, link)
		}
	}
	// The fetch cap bounds network work only; overflow candidates still
	// score on URL and anchor text below.
	var overflow []domain.CandidateLink
	if len(deep) > maxDeepPerOutlet {
		deep, overflow = deep[:maxDeepPerOutlet], deep[maxDeepPerOutlet:]
	}

	var (
		mu      sync.Mutex
		recs    []domain.ArticleRecord
		rescues []rescueCandidate
	)
	admit := func(rec domain.ArticleRecord, link domain.CandidateLink, res score.Result) {
		mu.Lock()
		defer mu.Unlock()
		recs = append(recs, rec)
		if res.NeedsRescue {
			rescues = append(rescues, rescueCandidate{link: link, city: outlet.City})
		}
	}

	for _, link := range ready {
		rec, res, ok := s.buildRecord(link, rule, policy, set, now, outlet.City, "")
		if ok {
			admit(rec, link, res)
		}
	}
	for _, link := range overflow {
		rec, res, ok := s.buildRecord(link, rule, policy, set, now, outlet.City, "")
		if ok {
			admit(rec, link, res)
		}
	}

	t = time.Now()
	dg, dctx := errgroup.WithContext(ctx)
	dg.SetLimit(policy.DeepLimit)
	for _, link := range deep {
		link := link
		dg.Go(func() error {
			body, err := s.fetcher.Get(dctx, link.URL)
			if err != nil {
				s.logger.Debug("deep fetch failed", "url", link.URL, "error", err)
				rec, res, ok := s.buildRecord(link, rule, policy, set, now, outlet.City, "")
				if ok {
					admit(rec, link, res)
				}
				return nil
			}
			html := string(body)
			if extract.DetectPageKind(html) == extract.KindCategory {
				return nil
			}
			rec, res, ok := s.buildRecord(link, rule, policy, set, now, outlet.City, html)
			if ok {
				admit(rec, link, res)
			}
			return nil
		})
	}
	_ = dg.Wait()
	mark("deep_scan", fmt.Sprintf("%d pages", len(deep)), t)

	em.Partial(recs)
	em.Timeline(outlet.Name, timeline)
	em.Log("[%s] %d articles after filtering", outlet.Name, len(recs))
	return recs, rescues
}

// buildRecord turns a candidate into a scored record. html may be empty for
// cheap-pass candidates; extraction then relies on the URL and anchor text.
func (s *Scanner) buildRecord(
	link domain.CandidateLink,
	rule *domain.ExtractionRule,
	policy domain.ScanPolicy,
	set *dedup.Set,
	now time.Time,
	city string,
	html string,
) (domain.ArticleRecord, score.Result, bool) {
	title := link.AnchorText
	var published time.Time
	hasDate := false

	if html != "" {
		if t, ok := extract.ResolveTitle(html, rule); ok {
			title = t
		}
		if d, ok := extract.ResolveDate(html, link.URL, rule); ok {
			published, hasDate = d, true
		}
	}
	if !hasDate {
		if d, ok := extract.DateFromURL(link.URL); ok {
			published, hasDate = d, true
		}
	}

	if len([]rune(title)) < minUsableTitle {
		return domain.ArticleRecord{}, score.Result{}, false
	}
	if set.IsSpam(title, link.URL) {
		s.logger.Debug("spam signature hit", "url", link.URL)
		return domain.ArticleRecord{}, score.Result{}, false
	}
	if !set.Admit(title, link.URL) {
		return domain.ArticleRecord{}, score.Result{}, false
	}

	res := score.Score(score.Input{
		Title:     title,
		URL:       link.URL,
		Published: published,
		HasDate:   hasDate,
		City:      city,
		Keywords:  policy.Keywords,
	}, policy, now)
	if res.Stale {
		return domain.ArticleRecord{}, score.Result{}, false
	}

	rec := domain.ArticleRecord{
		URL:     link.URL,
		Title:   title,
		Source:  link.Outlet,
		Score:   res.Total,
		Scores:  res.Breakdown,
		Verdict: domain.VerdictUnknown,
	}
	if hasDate {
		rec.SetDate(published)
	}
	return rec, res, true
}

// rescuePass deep-fetches undated but on-topic articles one more time.
// Success re-dates and bumps the record; failure leaves it at zero date
// score so the trail stays auditable.
func (s *Scanner) rescuePass(
	ctx context.Context,
	all []domain.ArticleRecord,
	rescues []rescueCandidate,
	rules domain.RuleSet,
	policy domain.ScanPolicy,
	em *stream.Emitter,
	now time.Time,
) []domain.ArticleRecord {
	if len(rescues) == 0 {
		return all
	}
	em.Log("rescuing dates for %d undated candidates", len(rescues))

	byURL := make(map[string]int, len(all))
	for i, rec := range all {
		byURL[rec.URL] = i
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(policy.DeepLimit)
	for _, cand := range rescues {
		cand := cand
		g.Go(func() error {
			body, err := s.fetcher.Get(gctx, cand.link.URL)
			if err != nil {
				s.logger.Debug("rescue fetch failed", "url", cand.link.URL, "error", err)
				return nil
			}
			rule := rules.Lookup(dedup.RegistrableDomain(cand.link.URL))
			d, ok := extract.ResolveDate(string(body), cand.link.URL, rule)
			if !ok {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			idx, found := byURL[cand.link.URL]
			if !found {
				return nil
			}
			rec := &all[idx]
			res := score.Score(score.Input{
				Title:     rec.Title,
				URL:       rec.URL,
				Published: d,
				HasDate:   true,
				City:      cand.city,
				Keywords:  policy.Keywords,
			}, policy, now)
			if res.Stale {
				rec.Score = 0
				rec.Scores.Date = 0
				return nil
			}
			rec.SetDate(d)
			rec.Scores = res.Breakdown
			rec.Score = res.Total + score.RescueBonus
			return nil
		})
	}
	_ = g.Wait()
	return all
}

// verifyPass batches external relevance checks over qualified records.
// Any failure fails open: the record keeps its provisional score.
func (s *Scanner) verifyPass(ctx context.Context, all []domain.ArticleRecord, policy domain.ScanPolicy, em *stream.Emitter) {
	if s.verifier == nil {
		return
	}
	var idxs []int
	for i, rec := range all {
		if rec.Scores.Date >= 30 && rec.Scores.Topic >= 20 {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return
	}
	em.Log("verifying %d articles", len(idxs))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(policy.DeepLimit)
	for _, i := range idxs {
		i := i
		g.Go(func() error {
			rec := all[i]
			ok, err := s.verifier.VerifyRelevance(gctx, rec.Title, rec.URL, policy.Category)
			if err != nil {
				s.logger.Warn("verification failed open", "url", rec.URL, "error", err)
				return nil
			}
			mu.Lock()
			score.ApplyVerdict(&all[i], ok)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
}
