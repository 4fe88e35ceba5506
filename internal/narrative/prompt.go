package narrative

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/landalytics/pageaudit/internal/audit"
)

// Input carries everything the prompts reference about one audit.
type Input struct {
	URL       string
	Goal      audit.Goal
	Signals   audit.PageSignals
	Scores    audit.ScoreSet
	PageSpeed *int
}

var controlCharRe = regexp.MustCompile(`[\x00-\x1f\x7f]`)

const maxPromptFieldChars = 500

// sanitize strips control characters from user-derived strings before
// they enter a prompt and caps their length. The model treats content as
// data, but scraped text gets cleaned anyway.
func sanitize(s string) string {
	s = controlCharRe.ReplaceAllString(s, "")
	if len(s) > maxPromptFieldChars {
		s = s[:maxPromptFieldChars]
	}
	return s
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

const schemaInstruction = `Return JSON with EXACTLY these keys:
"swot": {"strengths":[{"point":"...","evidence":"..."}],"weaknesses":[{"point":"...","fix_suggestion":"..."}],"opportunities":[{"point":"...","potential_impact":"..."}],"threats":[{"point":"...","mitigation_strategy":"..."}]},"roadmap":[{"task":"...","tech_reason":"...","psych_impact":"...","success_metric":"..."}],"final_verdict":{"overall_readiness":"short phrase","single_most_impactful_change":"one sentence"}`

// fullPrompt builds the first-attempt prompt with the complete signal and
// score context.
func fullPrompt(in Input) string {
	sig := in.Signals
	label := in.Goal.Label()

	var b strings.Builder
	fmt.Fprintf(&b, "You are a senior CRO expert. Analyze this landing page for the goal: %s.\n", label)
	if ctx := in.Goal.FocusContext(); ctx != "" {
		b.WriteString(ctx + "\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "URL: %s\n", sanitize(in.URL))
	fmt.Fprintf(&b, "Page Title: %s\n", orDefault(sanitize(sig.Title), "N/A"))
	fmt.Fprintf(&b, "H1: %s\n", sanitize(sig.H1))
	fmt.Fprintf(&b, "H2s: %s\n", orDefault(sanitize(strings.Join(sig.H2s, ", ")), "None"))
	fmt.Fprintf(&b, "Meta Description: %s\n", orDefault(sanitize(sig.MetaDescription), "None"))
	body := sig.BodyCopy
	if len(body) > 400 {
		body = body[:400]
	}
	fmt.Fprintf(&b, "Body Copy: %s\n", orDefault(sanitize(body), "N/A"))
	fmt.Fprintf(&b, "CTAs: %s\n", orDefault(sanitize(strings.Join(sig.CTATexts, ", ")), "None"))
	fmt.Fprintf(&b, "Nav Links: %s\n", orDefault(sanitize(strings.Join(sig.NavLinks, ", ")), "None"))
	alts := sig.AltTexts
	if len(alts) > 3 {
		alts = alts[:3]
	}
	fmt.Fprintf(&b, "Images: %d (alt texts: %s)\n", sig.ImgCount, orDefault(sanitize(strings.Join(alts, ", ")), "missing"))
	fmt.Fprintf(&b, "Has Form: %t | Schema Markup: %t\n", sig.HasForm, sig.HasSchema)
	fmt.Fprintf(&b, "Scores — Conversion: %d, Trust: %d, Mobile: %d, Semantic: %d",
		in.Scores.ConversionIntent, in.Scores.TrustResonance, in.Scores.MobileReadiness, in.Scores.SemanticAuthority)
	if in.PageSpeed != nil {
		fmt.Fprintf(&b, ", PageSpeed: %d", *in.PageSpeed)
	}
	b.WriteString("\n\n")
	b.WriteString(schemaInstruction)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Be specific to this site and its %s goal. No generic advice.", label)
	return b.String()
}

// minimalPrompt is the stricter second attempt used when the first
// response fails to parse. Less context, heavier emphasis on format.
func minimalPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Audit the landing page at %s for the goal: %s.\n",
		sanitize(in.URL), in.Goal.Label())
	fmt.Fprintf(&b, "H1: %s. Title: %s.\n",
		orDefault(sanitize(in.Signals.H1), "none"), orDefault(sanitize(in.Signals.Title), "none"))
	fmt.Fprintf(&b, "Conversion score %d, trust score %d, mobile score %d.\n\n",
		in.Scores.ConversionIntent, in.Scores.TrustResonance, in.Scores.MobileReadiness)
	b.WriteString("Respond with ONLY a JSON object, no prose, no code fences.\n")
	b.WriteString(schemaInstruction)
	return b.String()
}
