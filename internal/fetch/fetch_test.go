package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/landalytics/pageaudit/internal/audit"
	"github.com/landalytics/pageaudit/internal/telemetry"
)

type stubStrategy struct {
	attempt audit.FetchAttempt
	calls   int
}

func (s *stubStrategy) Fetch(_ context.Context, _ string) audit.FetchAttempt {
	s.calls++
	return s.attempt
}

func richAttempt(strategy audit.FetchStrategy, words int) audit.FetchAttempt {
	content := strings.Repeat("word ", words)
	return audit.FetchAttempt{
		Strategy:  strategy,
		Format:    audit.FormatMarkdown,
		Content:   content,
		WordCount: words,
	}
}

func TestPipelineSkipsFallbackWhenPrimaryRich(t *testing.T) {
	telemetry.Init()
	t.Parallel()

	primary := &stubStrategy{attempt: richAttempt(audit.StrategyReader, 500)}
	fallback := &stubStrategy{attempt: richAttempt(audit.StrategyDirect, 900)}
	p := NewPipeline(primary, fallback, 200, nil)

	attempts := p.Fetch(context.Background(), "https://example.com")
	if len(attempts) != 1 {
		t.Fatalf("got %d attempts, want 1", len(attempts))
	}
	if fallback.calls != 0 {
		t.Fatal("fallback should not run when primary content is above the thin threshold")
	}
}

func TestPipelineFallsBackOnThinContent(t *testing.T) {
	telemetry.Init()
	t.Parallel()

	primary := &stubStrategy{attempt: richAttempt(audit.StrategyReader, 50)}
	fallback := &stubStrategy{attempt: richAttempt(audit.StrategyDirect, 1000)}
	p := NewPipeline(primary, fallback, 200, nil)

	attempts := p.Fetch(context.Background(), "https://example.com")
	if len(attempts) != 2 {
		t.Fatalf("got %d attempts, want 2", len(attempts))
	}
	if attempts[0].Strategy != audit.StrategyReader || attempts[1].Strategy != audit.StrategyDirect {
		t.Fatalf("unexpected strategies: %s, %s", attempts[0].Strategy, attempts[1].Strategy)
	}
}

func TestPipelineFallsBackOnPrimaryFailure(t *testing.T) {
	telemetry.Init()
	t.Parallel()

	primary := &stubStrategy{attempt: failedAttempt(audit.StrategyReader, audit.FormatMarkdown, audit.FailTimeout, 0)}
	fallback := &stubStrategy{attempt: richAttempt(audit.StrategyDirect, 400)}
	p := NewPipeline(primary, fallback, 200, nil)

	attempts := p.Fetch(context.Background(), "https://example.com")
	if len(attempts) != 2 {
		t.Fatalf("got %d attempts, want 2", len(attempts))
	}
	if attempts[0].OK() {
		t.Fatal("primary attempt should carry its failure reason")
	}
	if !attempts[1].OK() {
		t.Fatal("fallback attempt should succeed")
	}
}

func TestReaderFetchReturnsMarkdown(t *testing.T) {
	telemetry.Init()
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Return-Format"); got != "markdown" {
			t.Errorf("X-Return-Format = %q, want markdown", got)
		}
		if _, err := w.Write([]byte("# Hello\n\nSome body text here.")); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer srv.Close()

	r := NewReader(ReaderConfig{Endpoint: srv.URL, UserAgent: "test/1.0"}, nil)
	attempt := r.Fetch(context.Background(), "https://example.com")

	if !attempt.OK() {
		t.Fatalf("attempt failed: reason=%s status=%d", attempt.Reason, attempt.StatusCode)
	}
	if attempt.Format != audit.FormatMarkdown || attempt.Strategy != audit.StrategyReader {
		t.Fatalf("unexpected tagging: %s/%s", attempt.Strategy, attempt.Format)
	}
	if attempt.WordCount == 0 {
		t.Fatal("word count should be populated")
	}
}

func TestReaderFetchNon200IsStatusFailure(t *testing.T) {
	telemetry.Init()
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r := NewReader(ReaderConfig{Endpoint: srv.URL}, nil)
	attempt := r.Fetch(context.Background(), "https://example.com")

	if attempt.OK() {
		t.Fatal("non-200 must produce a failed attempt")
	}
	if attempt.Reason != audit.FailStatus || attempt.StatusCode != http.StatusBadGateway {
		t.Fatalf("reason=%s status=%d, want status/502", attempt.Reason, attempt.StatusCode)
	}
}

func TestReaderFetchTruncatesAtBodyCap(t *testing.T) {
	telemetry.Init()
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte(strings.Repeat("a", 4096))); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer srv.Close()

	r := NewReader(ReaderConfig{Endpoint: srv.URL, MaxBodyBytes: 1024}, nil)
	attempt := r.Fetch(context.Background(), "https://example.com")

	if !attempt.OK() {
		t.Fatalf("oversized body must be truncated, not rejected: %s", attempt.Reason)
	}
	if len(attempt.Content) != 1024 {
		t.Fatalf("content length = %d, want 1024", len(attempt.Content))
	}
}

func TestReaderFetchTransportErrorNeverPanics(t *testing.T) {
	telemetry.Init()
	t.Parallel()

	r := NewReader(ReaderConfig{Endpoint: "http://127.0.0.1:1", Timeout: time.Second}, nil)
	attempt := r.Fetch(context.Background(), "https://example.com")

	if attempt.OK() {
		t.Fatal("unreachable endpoint must fail the attempt")
	}
	if attempt.Reason != audit.FailTransport && attempt.Reason != audit.FailTimeout {
		t.Fatalf("reason = %s, want transport or timeout", attempt.Reason)
	}
}

func TestDirectFetchReturnsHTML(t *testing.T) {
	telemetry.Init()
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("<html><body><h1>Direct</h1><p>fallback body content</p></body></html>")); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer srv.Close()

	d := NewDirect(DirectConfig{UserAgent: "test/1.0"}, nil)
	attempt := d.Fetch(context.Background(), srv.URL)

	if !attempt.OK() {
		t.Fatalf("attempt failed: reason=%s status=%d", attempt.Reason, attempt.StatusCode)
	}
	if attempt.Format != audit.FormatHTML || attempt.Strategy != audit.StrategyDirect {
		t.Fatalf("unexpected tagging: %s/%s", attempt.Strategy, attempt.Format)
	}
	if !strings.Contains(attempt.Content, "<h1>Direct</h1>") {
		t.Fatal("body not captured")
	}
}

func TestDirectFetchServerErrorIsStatusFailure(t *testing.T) {
	telemetry.Init()
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	d := NewDirect(DirectConfig{}, nil)
	attempt := d.Fetch(context.Background(), srv.URL)

	if attempt.OK() {
		t.Fatal("403 must produce a failed attempt")
	}
}
