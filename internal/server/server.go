// Package server exposes the HTTP surface: the NDJSON scan stream and a
// one-shot rule-test endpoint for tuning per-domain extraction overrides.
package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/biocracy/urbanous/internal/domain"
	"github.com/biocracy/urbanous/internal/extract"
	"github.com/biocracy/urbanous/internal/stream"
	"github.com/biocracy/urbanous/internal/usecase"
)

// Server wires the scan pipeline to HTTP handlers.
type Server struct {
	scanner *usecase.Scanner
	fetcher usecase.Fetcher
	outlets []domain.Outlet
	policy  domain.ScanPolicy
	logger  *slog.Logger
}

// New builds a Server. policy carries the configured defaults; outlets is
// the full roster a scan may select from.
func New(scanner *usecase.Scanner, fetcher usecase.Fetcher, outlets []domain.Outlet, policy domain.ScanPolicy, logger *slog.Logger) *Server {
	return &Server{
		scanner: scanner,
		fetcher: fetcher,
		outlets: outlets,
		policy:  policy,
		logger:  logger.With("component", "server"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/scan", s.handleScan)
	api.POST("/scraper/test", s.handleRuleTest)

	return r
}

// handleScan streams one scan as newline-delimited JSON events. The client
// dropping the connection cancels the request context and abandons
// in-flight fetches.
func (s *Server) handleScan(c *gin.Context) {
	policy := s.policy
	policy.Category = c.DefaultQuery("category", "general")
	policy.Timeframe = c.DefaultQuery("timeframe", "24h")
	if kw := c.Query("keywords"); kw != "" {
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				policy.Keywords = append(policy.Keywords, k)
			}
		}
	}

	outlets := s.selectOutlets(c.Query("outlets"))
	runID := uuid.NewString()
	s.logger.Info("scan started",
		"run_id", runID,
		"category", policy.Category,
		"timeframe", policy.Timeframe,
		"outlets", len(outlets))

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	em := stream.NewEmitter(c.Writer, policy.PingInterval)
	em.Log("run %s started", runID)
	s.scanner.Run(c.Request.Context(), outlets, policy, em)

	s.logger.Info("scan finished", "run_id", runID)
}

// selectOutlets filters the roster by a comma-separated name list. An empty
// selector means every configured outlet.
func (s *Server) selectOutlets(selector string) []domain.Outlet {
	if strings.TrimSpace(selector) == "" {
		return s.outlets
	}
	wanted := make(map[string]struct{})
	for _, name := range strings.Split(selector, ",") {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			wanted[name] = struct{}{}
		}
	}
	var picked []domain.Outlet
	for _, o := range s.outlets {
		if _, ok := wanted[strings.ToLower(o.Name)]; ok {
			picked = append(picked, o)
		}
	}
	return picked
}

type ruleTestRequest struct {
	URL  string                 `json:"url" binding:"required"`
	Rule *domain.ExtractionRule `json:"rule"`
}

type ruleTestResponse struct {
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	DateStr  string `json:"date_str,omitempty"`
	PageKind string `json:"page_kind"`
	Error    string `json:"error,omitempty"`
}

// handleRuleTest fetches one page and reports what the cascades extract
// with the submitted rule, so operators can tune overrides before saving.
func (s *Server) handleRuleTest(c *gin.Context) {
	var req ruleTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Rule != nil {
		if err := req.Rule.Compile(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	body, err := s.fetcher.Get(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(http.StatusOK, ruleTestResponse{URL: req.URL, Error: err.Error()})
		return
	}
	html := string(body)

	resp := ruleTestResponse{
		URL:      req.URL,
		PageKind: string(extract.DetectPageKind(html)),
	}
	if title, ok := extract.ResolveTitle(html, req.Rule); ok {
		resp.Title = title
	}
	if d, ok := extract.ResolveDate(html, req.URL, req.Rule); ok {
		resp.DateStr = d.UTC().Format("2006-01-02")
	}
	c.JSON(http.StatusOK, resp)
}

// Run starts the HTTP listener and blocks until it fails.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
