package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/biocracy/urbanous/internal/config"
)

func chatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("messages = %d, want system+user", len(req.Messages))
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": reply}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(endpoint string) *Client {
	return NewClient(config.LLMConfig{Endpoint: endpoint, Model: "test-model", APIKey: "test-key"})
}

func TestFindCategoryURL(t *testing.T) {
	t.Parallel()

	srv := chatServer(t, "/politica")
	defer srv.Close()

	c := newTestClient(srv.URL)
	got, err := c.FindCategoryURL(context.Background(), "<nav></nav>", "https://example.com", "politics")
	if err != nil {
		t.Fatalf("FindCategoryURL: %v", err)
	}
	if got != "/politica" {
		t.Fatalf("got %q", got)
	}
}

func TestFindCategoryURLNull(t *testing.T) {
	t.Parallel()

	srv := chatServer(t, "null")
	defer srv.Close()

	c := newTestClient(srv.URL)
	got, err := c.FindCategoryURL(context.Background(), "<nav></nav>", "https://example.com", "politics")
	if err != nil {
		t.Fatalf("FindCategoryURL: %v", err)
	}
	if got != "" {
		t.Fatalf("got %q, want empty for null answer", got)
	}
}

func TestVerifyRelevance(t *testing.T) {
	t.Parallel()

	for reply, want := range map[string]bool{"YES": true, "NO": false, "yes": true} {
		srv := chatServer(t, reply)
		c := newTestClient(srv.URL)
		got, err := c.VerifyRelevance(context.Background(), "Title", "https://example.com/a", "politics")
		srv.Close()
		if err != nil {
			t.Fatalf("reply %q: %v", reply, err)
		}
		if got != want {
			t.Fatalf("reply %q: got %v, want %v", reply, got, want)
		}
	}
}

func TestVerifyRelevanceGarbageAnswer(t *testing.T) {
	t.Parallel()

	srv := chatServer(t, "perhaps")
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.VerifyRelevance(context.Background(), "Title", "https://example.com/a", "politics"); err == nil {
		t.Fatal("expected error for unparseable answer")
	}
}

func TestChatServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.FindCategoryURL(context.Background(), "<nav></nav>", "https://example.com", "politics"); err == nil {
		t.Fatal("expected error for 429")
	}
}

func TestNewClientWithoutKey(t *testing.T) {
	t.Parallel()

	if c := NewClient(config.LLMConfig{Endpoint: "https://api.example.com"}); c != nil {
		t.Fatal("client without key should be nil")
	}
}
