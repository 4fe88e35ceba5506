// Package narrative produces the AI-written audit narrative from the
// extracted signals and computed scores. Generation is best-effort with a
// bounded retry; metrics never wait on it.
package narrative

// Narrative is the schema the language model must return. Field names
// mirror the wire format consumed by the frontend renderer.
type Narrative struct {
	SWOT         SWOT          `json:"swot"`
	Roadmap      []RoadmapItem `json:"roadmap"`
	FinalVerdict FinalVerdict  `json:"final_verdict"`
}

type SWOT struct {
	Strengths     []Strength    `json:"strengths"`
	Weaknesses    []Weakness    `json:"weaknesses"`
	Opportunities []Opportunity `json:"opportunities"`
	Threats       []Threat      `json:"threats"`
}

type Strength struct {
	Point    string `json:"point"`
	Evidence string `json:"evidence"`
}

type Weakness struct {
	Point         string `json:"point"`
	FixSuggestion string `json:"fix_suggestion"`
}

type Opportunity struct {
	Point           string `json:"point"`
	PotentialImpact string `json:"potential_impact"`
}

type Threat struct {
	Point              string `json:"point"`
	MitigationStrategy string `json:"mitigation_strategy"`
}

type RoadmapItem struct {
	Task          string `json:"task"`
	TechReason    string `json:"tech_reason"`
	PsychImpact   string `json:"psych_impact"`
	SuccessMetric string `json:"success_metric"`
}

type FinalVerdict struct {
	OverallReadiness          string `json:"overall_readiness"`
	SingleMostImpactfulChange string `json:"single_most_impactful_change"`
}

// populated reports whether the parsed narrative carries enough substance
// to show a user. An empty-but-well-formed JSON object is treated the
// same as a parse failure.
func (n *Narrative) populated() bool {
	if n == nil {
		return false
	}
	if n.FinalVerdict.OverallReadiness != "" || n.FinalVerdict.SingleMostImpactfulChange != "" {
		return true
	}
	return len(n.SWOT.Strengths)+len(n.SWOT.Weaknesses) > 0 || len(n.Roadmap) > 0
}
