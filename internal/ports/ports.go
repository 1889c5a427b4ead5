package ports

import (
	"context"

	"github.com/biocracy/urbanous/internal/domain"
)

// RuleLookup loads per-domain extraction overrides before a run starts.
type RuleLookup interface {
	LoadRules(ctx context.Context) (domain.RuleSet, error)
}

// SpamLookup loads human-flagged URL and title signatures.
type SpamLookup interface {
	LoadSpamSignatures(ctx context.Context) (urls []string, titles []string, err error)
}

// CategoryNavigator asks a language model to pick the category link out of
// a page's navigation markup. An empty URL with nil error means "no match".
type CategoryNavigator interface {
	FindCategoryURL(ctx context.Context, navHTML, baseURL, category string) (string, error)
}

// RelevanceVerifier confirms or rejects a scored article for a category.
type RelevanceVerifier interface {
	VerifyRelevance(ctx context.Context, title, url, category string) (bool, error)
}

// DigestSink persists the finished digest at the end of a run.
type DigestSink interface {
	SaveDigest(ctx context.Context, digest domain.Digest) error
}
