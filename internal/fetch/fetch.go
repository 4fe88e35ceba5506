// Package fetch retrieves page representations via one or more strategies
// with fallback. All network failures are converted into reason-coded empty
// attempts; the package never propagates a transport error to its caller.
// URL safety filtering happens upstream; this package only bounds resources.
package fetch

import (
	"context"
	"errors"
	"net"
	"strings"

	"go.uber.org/zap"

	"github.com/landalytics/pageaudit/internal/audit"
	"github.com/landalytics/pageaudit/internal/telemetry"
)

// Strategy is a single retrieval mechanism producing one FetchAttempt.
type Strategy interface {
	Fetch(ctx context.Context, url string) audit.FetchAttempt
}

// Pipeline runs the primary strategy and falls back to the direct strategy
// when the primary result is thin or failed. Both results are returned when
// both run; reconciliation belongs to the extractor.
type Pipeline struct {
	primary   Strategy
	fallback  Strategy
	thinWords int
	logger    *zap.Logger
}

// NewPipeline builds a Pipeline. fallback may be nil to disable fallback.
func NewPipeline(primary, fallback Strategy, thinWords int, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		primary:   primary,
		fallback:  fallback,
		thinWords: thinWords,
		logger:    logger,
	}
}

// Fetch returns one or two attempts for url.
func (p *Pipeline) Fetch(ctx context.Context, url string) []audit.FetchAttempt {
	primary := p.primary.Fetch(ctx, url)
	primary.URL = url
	observe(primary)
	attempts := []audit.FetchAttempt{primary}

	if p.fallback == nil {
		return attempts
	}
	if primary.OK() && primary.WordCount >= p.thinWords {
		return attempts
	}

	p.logger.Info("primary fetch thin or failed, trying direct fallback",
		zap.String("url", url),
		zap.Int("word_count", primary.WordCount),
		zap.String("reason", string(primary.Reason)),
	)
	fb := p.fallback.Fetch(ctx, url)
	fb.URL = url
	observe(fb)
	return append(attempts, fb)
}

func observe(a audit.FetchAttempt) {
	result := "ok"
	if !a.OK() {
		result = string(a.Reason)
	}
	telemetry.ObserveFetch(string(a.Strategy), result, a.Duration)
}

func failedAttempt(strategy audit.FetchStrategy, format audit.ContentFormat, reason audit.FailReason, status int) audit.FetchAttempt {
	return audit.FetchAttempt{
		Strategy:   strategy,
		Format:     format,
		Reason:     reason,
		StatusCode: status,
	}
}

// classify maps a transport-level error onto a failure reason.
func classify(err error) audit.FailReason {
	if err == nil {
		return audit.FailNone
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return audit.FailTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return audit.FailTimeout
	}
	return audit.FailTransport
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
