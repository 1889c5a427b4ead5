// Package storage holds the Postgres adapters behind the lookup and sink
// ports. Rules and spam signatures are read once per run; digests are
// written once at the end.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/biocracy/urbanous/internal/domain"
	"github.com/biocracy/urbanous/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// RuleRepository loads per-domain extraction overrides.
type RuleRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ ports.RuleLookup = (*RuleRepository)(nil)

// NewRuleRepository wires a sql.DB implementation.
func NewRuleRepository(db *sql.DB, logger *slog.Logger) *RuleRepository {
	return &RuleRepository{db: db, logger: logger.With("component", "storage")}
}

// LoadRules reads every override into a set keyed by registrable domain.
// A row with broken JSON or a bad regex is logged and skipped, never fatal.
func (r *RuleRepository) LoadRules(ctx context.Context) (domain.RuleSet, error) {
	if r.db == nil {
		return domain.RuleSet{}, nil
	}

	query, args, err := psql.Select("domain", "config_json").From("rule_overrides").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build rules query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	set := make(domain.RuleSet)
	for rows.Next() {
		var dom string
		var raw []byte
		if err := rows.Scan(&dom, &raw); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rule := &domain.ExtractionRule{Domain: dom}
		if err := json.Unmarshal(raw, rule); err != nil {
			r.logger.Warn("skipping rule with broken config", "domain", dom, "error", err)
			continue
		}
		rule.Domain = dom
		if err := rule.Compile(); err != nil {
			r.logger.Warn("rule has invalid regex", "domain", dom, "error", err)
		}
		set[dom] = rule
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rules iteration: %w", err)
	}
	return set, nil
}

// SpamRepository loads human-flagged signatures.
type SpamRepository struct {
	db *sql.DB
}

var _ ports.SpamLookup = (*SpamRepository)(nil)

// NewSpamRepository wires a sql.DB implementation.
func NewSpamRepository(db *sql.DB) *SpamRepository {
	return &SpamRepository{db: db}
}

// LoadSpamSignatures returns the flagged URL and title lists.
func (r *SpamRepository) LoadSpamSignatures(ctx context.Context) ([]string, []string, error) {
	if r.db == nil {
		return nil, nil, nil
	}

	query, args, err := psql.Select("url", "title").From("spam_signatures").ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("build spam query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query spam signatures: %w", err)
	}
	defer rows.Close()

	var urls, titles []string
	for rows.Next() {
		var u, t sql.NullString
		if err := rows.Scan(&u, &t); err != nil {
			return nil, nil, fmt.Errorf("scan spam signature: %w", err)
		}
		if u.Valid && u.String != "" {
			urls = append(urls, u.String)
		}
		if t.Valid && t.String != "" {
			titles = append(titles, t.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("spam iteration: %w", err)
	}
	return urls, titles, nil
}

// DigestRepository persists finished digests.
type DigestRepository struct {
	db *sql.DB
}

var _ ports.DigestSink = (*DigestRepository)(nil)

// NewDigestRepository wires a sql.DB implementation.
func NewDigestRepository(db *sql.DB) *DigestRepository {
	return &DigestRepository{db: db}
}

// SaveDigest inserts the digest with its article list serialized as JSON.
func (r *DigestRepository) SaveDigest(ctx context.Context, digest domain.Digest) error {
	if r.db == nil {
		return nil
	}

	articles, err := json.Marshal(digest.Articles)
	if err != nil {
		return fmt.Errorf("marshal digest articles: %w", err)
	}

	query, args, err := psql.Insert("digests").
		Columns("title", "category", "summary_html", "articles_json").
		Values(digest.Title, digest.Category, digest.SummaryHTML, articles).
		ToSql()
	if err != nil {
		return fmt.Errorf("build digest insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert digest: %w", err)
	}
	return nil
}
