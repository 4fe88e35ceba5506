package pagespeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMobileScoreParsesPerformance(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("strategy"); got != "mobile" {
			t.Errorf("strategy = %q, want mobile", got)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want test-key", got)
		}
		w.Write([]byte(`{"lighthouseResult":{"categories":{"performance":{"score":0.87}}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", 5*time.Second, nil)
	got := c.MobileScore(context.Background(), "https://example.com")
	if got == nil || *got != 87 {
		t.Fatalf("MobileScore = %v, want 87", got)
	}
}

func TestMobileScoreNilOnFailure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}},
		{"unparseable body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
		{"missing score", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"lighthouseResult":{"categories":{"performance":{}}}}`))
		}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c := New(srv.URL, "test-key", 5*time.Second, nil)
			if got := c.MobileScore(context.Background(), "https://example.com"); got != nil {
				t.Fatalf("MobileScore = %v, want nil", got)
			}
		})
	}
}

func TestMobileScoreNilWithoutKey(t *testing.T) {
	t.Parallel()

	c := New("https://unused.invalid", "", 5*time.Second, nil)
	if c != nil {
		t.Fatal("New without an API key should return nil")
	}
	if got := c.MobileScore(context.Background(), "https://example.com"); got != nil {
		t.Fatalf("MobileScore on nil client = %v, want nil", got)
	}
}
