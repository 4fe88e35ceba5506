package narrative

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/landalytics/pageaudit/internal/telemetry"
)

// Completer is the completion transport. Satisfied by *Client; tests
// substitute canned outputs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Result tags the outcome of one generation. Degraded means both
// attempts failed and no narrative is available; the caller still has
// its scores.
type Result struct {
	Narrative *Narrative
	Degraded  bool
}

// Generator owns the two-attempt generation policy: a full-context
// prompt first, then a minimal stricter prompt when the first response
// does not parse into the expected schema.
type Generator struct {
	completer Completer
	logger    *zap.Logger
}

func NewGenerator(completer Completer, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{completer: completer, logger: logger}
}

// Generate never returns an error: any failure from the completion
// backend or the parser degrades the result instead of propagating.
func (g *Generator) Generate(ctx context.Context, in Input) Result {
	if n := g.attempt(ctx, fullPrompt(in)); n != nil {
		telemetry.ObserveNarrative("ok")
		return Result{Narrative: n}
	}

	g.logger.Warn("narrative attempt 1 unusable, retrying with minimal prompt",
		zap.String("goal", string(in.Goal)))
	if n := g.attempt(ctx, minimalPrompt(in)); n != nil {
		telemetry.ObserveNarrative("retry_ok")
		return Result{Narrative: n}
	}

	g.logger.Warn("narrative generation degraded", zap.String("goal", string(in.Goal)))
	telemetry.ObserveNarrative("degraded")
	return Result{Degraded: true}
}

func (g *Generator) attempt(ctx context.Context, prompt string) *Narrative {
	raw, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		g.logger.Warn("completion call failed", zap.Error(err))
		return nil
	}
	var n Narrative
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		g.logger.Warn("completion output unparseable", zap.Error(err))
		return nil
	}
	if !n.populated() {
		g.logger.Warn("completion output parsed but empty")
		return nil
	}
	return &n
}
