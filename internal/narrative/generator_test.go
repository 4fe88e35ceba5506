package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/landalytics/pageaudit/internal/audit"
	"github.com/landalytics/pageaudit/internal/telemetry"
)

const validOutput = `{
	"swot": {
		"strengths": [{"point": "clear headline", "evidence": "H1 states the offer"}],
		"weaknesses": [{"point": "no social proof", "fix_suggestion": "add testimonials"}],
		"opportunities": [{"point": "add schema", "potential_impact": "rich results"}],
		"threats": [{"point": "slow mobile", "mitigation_strategy": "compress images"}]
	},
	"roadmap": [{"task": "move CTA above fold", "tech_reason": "visibility", "psych_impact": "reduces effort", "success_metric": "CTR"}],
	"final_verdict": {"overall_readiness": "nearly ready", "single_most_impactful_change": "Move the CTA above the fold."}
}`

type stubCompleter struct {
	outputs []string
	err     error
	calls   int
	prompts []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	out := s.outputs[0]
	if len(s.outputs) > 1 {
		s.outputs = s.outputs[1:]
	}
	return out, nil
}

func testInput() Input {
	return Input{
		URL:     "https://example.com",
		Goal:    audit.GoalLeadGeneration,
		Signals: audit.PageSignals{H1: "Get The Guide", Title: "Guide | Acme"},
		Scores:  audit.ScoreSet{ConversionIntent: 55, TrustResonance: 48, MobileReadiness: 70},
	}
}

func TestGenerateFirstAttemptSucceeds(t *testing.T) {
	t.Parallel()
	telemetry.Init()

	stub := &stubCompleter{outputs: []string{validOutput}}
	res := NewGenerator(stub, nil).Generate(context.Background(), testInput())

	if res.Degraded || res.Narrative == nil {
		t.Fatalf("result = %+v, want narrative from first attempt", res)
	}
	if stub.calls != 1 {
		t.Fatalf("calls = %d, want 1", stub.calls)
	}
	if res.Narrative.FinalVerdict.OverallReadiness != "nearly ready" {
		t.Fatalf("verdict = %q", res.Narrative.FinalVerdict.OverallReadiness)
	}
}

func TestGenerateRetriesWithMinimalPrompt(t *testing.T) {
	t.Parallel()
	telemetry.Init()

	stub := &stubCompleter{outputs: []string{"Sure! Here is your analysis: it looks fine.", validOutput}}
	res := NewGenerator(stub, nil).Generate(context.Background(), testInput())

	if res.Degraded || res.Narrative == nil {
		t.Fatalf("result = %+v, want narrative from retry", res)
	}
	if stub.calls != 2 {
		t.Fatalf("calls = %d, want exactly 2", stub.calls)
	}
	if !strings.Contains(stub.prompts[1], "ONLY a JSON object") {
		t.Fatal("second attempt must use the minimal strict prompt")
	}
	if len(stub.prompts[1]) >= len(stub.prompts[0]) {
		t.Fatal("minimal prompt should be shorter than the full prompt")
	}
}

func TestGenerateDegradesAfterTwoFailures(t *testing.T) {
	t.Parallel()
	telemetry.Init()

	stub := &stubCompleter{outputs: []string{"not json", "{}"}}
	res := NewGenerator(stub, nil).Generate(context.Background(), testInput())

	if !res.Degraded || res.Narrative != nil {
		t.Fatalf("result = %+v, want degraded with no narrative", res)
	}
	if stub.calls != 2 {
		t.Fatalf("calls = %d, want 2", stub.calls)
	}
}

func TestGenerateDegradesOnTransportError(t *testing.T) {
	t.Parallel()
	telemetry.Init()

	stub := &stubCompleter{err: errors.New("backend down")}
	res := NewGenerator(stub, nil).Generate(context.Background(), testInput())

	if !res.Degraded {
		t.Fatal("transport errors must degrade, not propagate")
	}
}

func TestStripFences(t *testing.T) {
	t.Parallel()

	fenced := "```json\n{\"final_verdict\":{\"overall_readiness\":\"ok\",\"single_most_impactful_change\":\"x\"}}\n```"
	got := stripFences(fenced)
	if strings.Contains(got, "```") {
		t.Fatalf("fences not stripped: %q", got)
	}
	if !strings.HasPrefix(got, "{") || !strings.HasSuffix(got, "}") {
		t.Fatalf("stripped output not bare JSON: %q", got)
	}
}

func TestSanitizeStripsControlCharsAndCaps(t *testing.T) {
	t.Parallel()

	dirty := "head\x00ing\x1f with\x7f junk " + strings.Repeat("a", 600)
	got := sanitize(dirty)
	if strings.ContainsAny(got, "\x00\x1f\x7f") {
		t.Fatalf("control characters survived: %q", got)
	}
	if len(got) > maxPromptFieldChars {
		t.Fatalf("length %d exceeds cap", len(got))
	}
}
