package fetch

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/landalytics/pageaudit/internal/audit"
)

// HeadlessConfig controls the local chromedp rendering strategy.
type HeadlessConfig struct {
	MaxParallel int
	UserAgent   string
	NavTimeout  time.Duration
}

// Headless renders pages with a local headless browser. It is an alternative
// primary strategy for deployments that cannot reach the remote reader
// service; the rendered DOM goes through the HTML extraction ruleset.
type Headless struct {
	cfg         HeadlessConfig
	limiter     chan struct{}
	allocator   context.Context
	allocCancel context.CancelFunc
	logger      *zap.Logger
}

// NewHeadless creates a chromedp-backed renderer.
func NewHeadless(cfg HeadlessConfig, logger *zap.Logger) *Headless {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 25 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var limiter chan struct{}
	if cfg.MaxParallel > 0 {
		limiter = make(chan struct{}, cfg.MaxParallel)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Headless{
		cfg:         cfg,
		limiter:     limiter,
		allocator:   allocCtx,
		allocCancel: allocCancel,
		logger:      logger,
	}
}

// Close cancels the browser allocator.
func (h *Headless) Close() {
	h.allocCancel()
}

// Fetch navigates with a headless browser and returns the rendered DOM.
func (h *Headless) Fetch(ctx context.Context, url string) audit.FetchAttempt {
	start := time.Now()
	if err := h.acquire(ctx); err != nil {
		return failedAttempt(audit.StrategyHeadless, audit.FormatHTML, audit.FailThrottled, 0)
	}
	defer h.release()

	taskCtx, taskCancel := chromedp.NewContext(h.allocator)
	defer taskCancel()
	taskCtx, cancel := context.WithTimeout(taskCtx, h.cfg.NavTimeout)
	defer cancel()

	var html string
	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if err := chromedp.Run(taskCtx, actions...); err != nil {
		h.logger.Warn("headless render failed", zap.String("url", url), zap.Error(err))
		attempt := failedAttempt(audit.StrategyHeadless, audit.FormatHTML, classify(err), 0)
		attempt.Duration = time.Since(start)
		return attempt
	}

	return audit.FetchAttempt{
		Strategy:   audit.StrategyHeadless,
		Format:     audit.FormatHTML,
		Content:    html,
		WordCount:  wordCount(html),
		StatusCode: 200,
		Duration:   time.Since(start),
	}
}

func (h *Headless) acquire(ctx context.Context) error {
	if h.limiter == nil {
		return nil
	}
	select {
	case h.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Headless) release() {
	if h.limiter != nil {
		<-h.limiter
	}
}
