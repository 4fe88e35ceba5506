// Package pagespeed fetches the measured mobile performance score for a
// page from the PageSpeed Insights API. The measurement is best-effort:
// every failure mode degrades to "no measurement" rather than an error,
// because the audit must complete whether or not the API cooperates.
package pagespeed

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxResponseBytes = 4 << 20

// Client queries the PageSpeed Insights runPagespeed endpoint.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	logger   *zap.Logger
}

// New returns a client, or nil when no API key is configured. A nil
// *Client is valid: MobileScore on it reports no measurement.
func New(endpoint, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if apiKey == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type psResponse struct {
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score *float64 `json:"score"`
			} `json:"performance"`
		} `json:"categories"`
	} `json:"lighthouseResult"`
}

// MobileScore returns the mobile performance score in [0,100], or nil
// when the measurement is unavailable for any reason. The API key never
// appears in logs or responses.
func (c *Client) MobileScore(ctx context.Context, target string) *int {
	if c == nil {
		return nil
	}
	if !strings.HasPrefix(target, "http") {
		target = "https://" + target
	}

	q := url.Values{}
	q.Set("url", target)
	q.Set("strategy", "mobile")
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		c.logger.Warn("pagespeed request build failed", zap.Error(err))
		return nil
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("pagespeed request failed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("pagespeed returned non-200", zap.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.logger.Warn("pagespeed body read failed", zap.Error(err))
		return nil
	}
	var parsed psResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn("pagespeed response unparseable", zap.Error(err))
		return nil
	}
	raw := parsed.LighthouseResult.Categories.Performance.Score
	if raw == nil {
		return nil
	}
	score := int(*raw * 100)
	return &score
}
