package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/landalytics/pageaudit/internal/audit"
)

// ReaderConfig controls the remote-rendering reader strategy.
type ReaderConfig struct {
	Endpoint     string
	UserAgent    string
	Timeout      time.Duration
	MaxRedirects int
	MaxBodyBytes int64
	// MinInterval spaces out calls to the reader service across all
	// in-flight requests. The reader has its own rate limits; this throttle
	// is independent of the per-client limiter.
	MinInterval time.Duration
}

// Reader fetches a markdown rendering of a page from a remote reader
// service (r.jina.ai wire format). The service renders JavaScript on its
// side, so the returned markdown reflects the browser-visible page.
type Reader struct {
	cfg      ReaderConfig
	client   *http.Client
	throttle *rate.Limiter
	logger   *zap.Logger
}

// NewReader builds a Reader with a shared cross-request throttle.
func NewReader(cfg ReaderConfig, logger *zap.Logger) *Reader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 25 * time.Second
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = 3
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	return &Reader{
		cfg:      cfg,
		client:   client,
		throttle: rate.NewLimiter(limit, 1),
		logger:   logger,
	}
}

// Fetch retrieves the rendered markdown for target. Callers may block on
// the shared throttle before the request is issued.
func (r *Reader) Fetch(ctx context.Context, target string) audit.FetchAttempt {
	start := time.Now()
	if err := r.throttle.Wait(ctx); err != nil {
		return failedAttempt(audit.StrategyReader, audit.FormatMarkdown, audit.FailThrottled, 0)
	}

	readerURL := strings.TrimSuffix(r.cfg.Endpoint, "/") + "/" + target
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, readerURL, nil)
	if err != nil {
		return failedAttempt(audit.StrategyReader, audit.FormatMarkdown, audit.FailTransport, 0)
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("X-Return-Format", "markdown")
	if r.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", r.cfg.UserAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		reason := classify(err)
		r.logger.Warn("reader fetch failed", zap.String("url", target), zap.Error(err))
		attempt := failedAttempt(audit.StrategyReader, audit.FormatMarkdown, reason, 0)
		attempt.Duration = time.Since(start)
		return attempt
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			r.logger.Warn("reader body close failed", zap.Error(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("reader returned non-200",
			zap.String("url", target),
			zap.Int("status", resp.StatusCode),
		)
		attempt := failedAttempt(audit.StrategyReader, audit.FormatMarkdown, audit.FailStatus, resp.StatusCode)
		attempt.Duration = time.Since(start)
		return attempt
	}

	// Content beyond the cap is truncated, not rejected.
	body, err := io.ReadAll(io.LimitReader(resp.Body, r.cfg.MaxBodyBytes))
	if err != nil {
		attempt := failedAttempt(audit.StrategyReader, audit.FormatMarkdown, classify(fmt.Errorf("read body: %w", err)), resp.StatusCode)
		attempt.Duration = time.Since(start)
		return attempt
	}

	content := string(body)
	return audit.FetchAttempt{
		Strategy:   audit.StrategyReader,
		Format:     audit.FormatMarkdown,
		Content:    content,
		WordCount:  wordCount(content),
		StatusCode: resp.StatusCode,
		Duration:   time.Since(start),
	}
}
