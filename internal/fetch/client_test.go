package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetSendsBrowserHeaders(t *testing.T) {
	t.Parallel()

	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, discard())
	if _, err := c.Get(context.Background(), srv.URL+"/page"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if ua := got.Get("User-Agent"); !strings.HasPrefix(ua, "Mozilla/5.0") {
		t.Fatalf("User-Agent = %q", ua)
	}
	for _, h := range []string{"Accept", "Accept-Language", "Referer", "Sec-Fetch-Mode"} {
		if got.Get(h) == "" {
			t.Errorf("header %s missing", h)
		}
	}
}

func TestGetCapsBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(strings.Repeat("x", maxBodyBytes*2)))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, discard())
	body, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(body) != maxBodyBytes {
		t.Fatalf("body length = %d, want cap %d", len(body), maxBodyBytes)
	}
}

func TestGetNonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, discard())
	if _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestGetFollowsRedirectsUpToCap(t *testing.T) {
	t.Parallel()

	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	mux.HandleFunc("/hop/", func(w http.ResponseWriter, r *http.Request) {
		n := strings.TrimPrefix(r.URL.Path, "/hop/")
		switch n {
		case "3":
			w.Write([]byte("landed"))
		case "9":
			http.Redirect(w, r, "/hop/9", http.StatusFound)
		default:
			next := map[string]string{"1": "2", "2": "3"}[n]
			http.Redirect(w, r, "/hop/"+next, http.StatusFound)
		}
	})

	c := NewClient(5*time.Second, discard())

	body, err := c.Get(context.Background(), srv.URL+"/hop/1")
	if err != nil {
		t.Fatalf("short chain: %v", err)
	}
	if string(body) != "landed" {
		t.Fatalf("body = %q", body)
	}

	if _, err := c.Get(context.Background(), srv.URL+"/hop/9"); err == nil {
		t.Fatal("expected error on endless redirect loop")
	}
}

func TestGetHonorsContextCancel(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.Write([]byte("late"))
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(time.Minute, discard())
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, srv.URL)
		errc <- err
	}()
	cancel()

	select {
	case err := <-errc:
		if err == nil {
			t.Fatal("expected cancellation error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Get did not return after cancel")
	}
}

func TestLimiterPerHost(t *testing.T) {
	t.Parallel()

	c := NewClient(time.Second, discard())
	a := c.limiterFor("a.example.com")
	b := c.limiterFor("b.example.com")
	if a == b {
		t.Fatal("distinct hosts share a limiter")
	}
	if again := c.limiterFor("a.example.com"); again != a {
		t.Fatal("same host got a new limiter")
	}
}
