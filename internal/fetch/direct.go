package fetch

import (
	"context"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/landalytics/pageaudit/internal/audit"
)

// DirectConfig controls the direct-GET fallback strategy.
type DirectConfig struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRedirects int
	MaxBodyBytes int64
}

// Direct fetches raw HTML with a single bounded GET. It is the fallback
// when the rendering strategy returns thin content, and sees the page as a
// non-JS client would.
type Direct struct {
	cfg    DirectConfig
	logger *zap.Logger
}

// NewDirect builds a Direct fetcher.
func NewDirect(cfg DirectConfig, logger *zap.Logger) *Direct {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = 4
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 5 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Direct{cfg: cfg, logger: logger}
}

// Fetch executes a single HTTP GET using a fresh Colly collector.
func (d *Direct) Fetch(ctx context.Context, url string) audit.FetchAttempt {
	start := time.Now()

	collector := colly.NewCollector()
	collector.IgnoreRobotsTxt = true
	collector.MaxBodySize = int(d.cfg.MaxBodyBytes)
	collector.SetRequestTimeout(d.cfg.Timeout)
	if d.cfg.UserAgent != "" {
		collector.UserAgent = d.cfg.UserAgent
	}
	collector.SetRedirectHandler(func(req *http.Request, via []*http.Request) error {
		if len(via) >= d.cfg.MaxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	})

	var (
		body     []byte
		status   int
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()
	select {
	case <-ctx.Done():
		d.logger.Warn("direct fetch abandoned", zap.String("url", url), zap.Error(ctx.Err()))
		attempt := failedAttempt(audit.StrategyDirect, audit.FormatHTML, classify(ctx.Err()), 0)
		attempt.Duration = time.Since(start)
		return attempt
	case visitErr := <-done:
		if fetchErr == nil {
			fetchErr = visitErr
		}
	}

	if fetchErr != nil {
		d.logger.Warn("direct fetch failed", zap.String("url", url), zap.Error(fetchErr))
		attempt := failedAttempt(audit.StrategyDirect, audit.FormatHTML, classify(fetchErr), status)
		attempt.Duration = time.Since(start)
		return attempt
	}
	if status != 0 && (status < 200 || status > 299) {
		attempt := failedAttempt(audit.StrategyDirect, audit.FormatHTML, audit.FailStatus, status)
		attempt.Duration = time.Since(start)
		return attempt
	}
	if len(body) == 0 {
		attempt := failedAttempt(audit.StrategyDirect, audit.FormatHTML, audit.FailTransport, status)
		attempt.Duration = time.Since(start)
		return attempt
	}

	content := string(body)
	return audit.FetchAttempt{
		Strategy:   audit.StrategyDirect,
		Format:     audit.FormatHTML,
		Content:    content,
		WordCount:  wordCount(content),
		StatusCode: status,
		Duration:   time.Since(start),
	}
}
