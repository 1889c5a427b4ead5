// Package app wires configuration to the scan pipeline and the HTTP server.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/biocracy/urbanous/internal/config"
	"github.com/biocracy/urbanous/internal/domain"
	"github.com/biocracy/urbanous/internal/fetch"
	"github.com/biocracy/urbanous/internal/infrastructure/llm"
	"github.com/biocracy/urbanous/internal/infrastructure/storage"
	"github.com/biocracy/urbanous/internal/logging"
	"github.com/biocracy/urbanous/internal/navigate"
	"github.com/biocracy/urbanous/internal/ports"
	"github.com/biocracy/urbanous/internal/server"
	"github.com/biocracy/urbanous/internal/usecase"
)

// Application holds the wired server and its lifecycle dependencies.
type Application struct {
	cfg    config.Config
	srv    *server.Server
	db     *sql.DB
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	var (
		db       *sql.DB
		rules    ports.RuleLookup
		spam     ports.SpamLookup
		sink     ports.DigestSink
		verifier ports.RelevanceVerifier
		nav      ports.CategoryNavigator
	)

	if cfg.Database.DSN != "" {
		conn, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = conn
		rules = storage.NewRuleRepository(db, baseLogger)
		spam = storage.NewSpamRepository(db)
		sink = storage.NewDigestRepository(db)
	} else {
		baseLogger.Warn("no database configured, rules/spam/digests disabled")
	}

	if client := llm.NewClient(cfg.LLM); client != nil {
		nav = client
		verifier = client
	} else {
		baseLogger.Warn("no LLM key configured, keyword navigation only")
	}

	fetcher := fetch.NewClient(cfg.Scan.FetchTimeout(), baseLogger)
	navigator := navigate.New(nav, baseLogger)
	scanner := usecase.NewScanner(fetcher, navigator, rules, spam, verifier, sink, baseLogger)

	outlets := make([]domain.Outlet, 0, len(cfg.Outlets))
	for i, o := range cfg.Outlets {
		outlets = append(outlets, domain.Outlet{
			ID:      int64(i + 1),
			Name:    o.Name,
			URL:     o.URL,
			City:    o.City,
			Country: o.Country,
		})
	}

	policy := domain.ScanPolicy{
		OutletLimit:          cfg.Scan.OutletLimit,
		DeepLimit:            cfg.Scan.DeepLimit,
		FetchTimeout:         cfg.Scan.FetchTimeout(),
		PingInterval:         cfg.Scan.PingInterval(),
		HardCutoffMultiplier: cfg.Scan.HardCutoffMultiplier,
	}

	srv := server.New(scanner, fetcher, outlets, policy, baseLogger)

	return &Application{cfg: cfg, srv: srv, db: db, logger: baseLogger}, nil
}

// Run starts the HTTP listener and blocks until it fails.
func (a *Application) Run() error {
	a.logger.Info("listening", "addr", a.cfg.HTTP.Addr)
	return a.srv.Run(a.cfg.HTTP.Addr)
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
