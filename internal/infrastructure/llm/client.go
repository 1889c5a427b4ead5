// Package llm talks to an OpenAI-compatible chat-completions API. It backs
// the category-navigation and relevance-verification ports; both callers
// treat errors as a signal to fall back, never as fatal.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/biocracy/urbanous/internal/config"
	"github.com/biocracy/urbanous/internal/ports"
)

// Client implements ports.CategoryNavigator and ports.RelevanceVerifier.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var (
	_ ports.CategoryNavigator = (*Client)(nil)
	_ ports.RelevanceVerifier = (*Client)(nil)
)

// NewClient builds a client from configuration. Returns nil when no API key
// is configured; callers treat a nil client as "port unavailable".
func NewClient(cfg config.LLMConfig) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	return &Client{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

const navigatorPrompt = `You are given the navigation markup of a news website and a topical category.
Find the menu link that leads to that category's section, in any language.
Reply with exactly one URL (absolute or relative) and nothing else.
Reply with the single word null if no menu entry matches.`

// FindCategoryURL asks the model to pick the category link out of navHTML.
// Returns "" with nil error when the model answers null.
func (c *Client) FindCategoryURL(ctx context.Context, navHTML, baseURL, category string) (string, error) {
	user := fmt.Sprintf("Base URL: %s\nCategory: %s\n\nNavigation markup:\n%s", baseURL, category, navHTML)
	answer, err := c.chat(ctx, navigatorPrompt, user)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(strings.Trim(answer, "`\"'"))
	if answer == "" || strings.EqualFold(answer, "null") {
		return "", nil
	}
	return answer, nil
}

const verifierPrompt = `You judge whether a news article belongs to a topical category.
You are given a title, a URL, and the category. Reply with exactly YES or NO.`

// VerifyRelevance asks the model to confirm a scored article. The answer is
// advisory: any transport or parse failure surfaces as an error and the
// caller fails open.
func (c *Client) VerifyRelevance(ctx context.Context, title, url, category string) (bool, error) {
	user := fmt.Sprintf("Title: %s\nURL: %s\nCategory: %s", title, url, category)
	answer, err := c.chat(ctx, verifierPrompt, user)
	if err != nil {
		return false, err
	}
	switch strings.ToUpper(strings.TrimSpace(answer)) {
	case "YES":
		return true, nil
	case "NO":
		return false, nil
	}
	return false, fmt.Errorf("unexpected verification answer %q", answer)
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("llm client is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("llm client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chat error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}
	return decoded.Choices[0].Message.Content, nil
}
