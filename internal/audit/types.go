// Package audit defines core types shared across the audit pipeline.
package audit

import "time"

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// Goal identifies the marketing objective a page is evaluated against.
type Goal string

// FetchStrategy names the retrieval strategy that produced an attempt.
type FetchStrategy string

// Retrieval strategies.
const (
	StrategyReader   FetchStrategy = "reader"
	StrategyHeadless FetchStrategy = "headless"
	StrategyDirect   FetchStrategy = "direct"
)

// ContentFormat tells the extractor which ruleset applies to a payload.
type ContentFormat string

// Payload formats produced by the fetch strategies.
const (
	FormatMarkdown ContentFormat = "markdown"
	FormatHTML     ContentFormat = "html"
)

// FailReason classifies why a fetch attempt produced no content.
type FailReason string

// Fetch failure reason codes.
const (
	FailNone      FailReason = ""
	FailTimeout   FailReason = "timeout"
	FailStatus    FailReason = "status"
	FailTransport FailReason = "transport"
	FailThrottled FailReason = "throttled"
)

// FetchAttempt is the tagged result of one retrieval strategy. A failed
// attempt carries a reason code and an empty payload; transport errors are
// never propagated past the fetcher.
type FetchAttempt struct {
	Strategy   FetchStrategy
	Format     ContentFormat
	URL        string
	Content    string
	WordCount  int
	StatusCode int
	Reason     FailReason
	Duration   time.Duration
}

// OK reports whether the attempt produced a usable payload.
func (a FetchAttempt) OK() bool {
	return a.Reason == FailNone
}

// Bounds applied to PageSignals fields before storage. Attacker-supplied
// content must never grow a field past its cap.
const (
	MaxH1Chars       = 120
	MaxSubheadChars  = 80
	MaxTitleChars    = 120
	MaxMetaChars     = 200
	MaxBodyChars     = 600
	MaxSubheads      = 5
	MaxCTALabels     = 8
	MaxAltTexts      = 5
	MaxNavLinks      = 8
	MaxPageTextChars = 2000
)

// Heading sentinels. "No H1 Found" marks a parsed page without a first-level
// heading, "No Content" marks a fetch that returned nothing usable, and
// "Restricted Access" is the orchestration-layer placeholder for a fetch
// that was attempted but blocked. The three are not interchangeable.
const (
	SentinelNoH1       = "No H1 Found"
	SentinelNoContent  = "No Content"
	SentinelRestricted = "Restricted Access"
)

// StandardViewport is the responsive directive assumed for browser-rendered
// output, where a viewport is guaranteed but not directly observable.
const StandardViewport = "width=device-width, initial-scale=1"

// PageSignals is the canonical signal record extracted from one page.
// Immutable once built; every bounded field is truncated to its cap.
type PageSignals struct {
	H1              string
	H2s             []string
	H3s             []string
	Title           string
	MetaDescription string
	BodyCopy        string
	CTATexts        []string
	ImgCount        int
	AltTexts        []string
	HasForm         bool
	InputTypes      []string
	NavLinks        []string
	TotalLinks      int
	HasSchema       bool
	HasViewport     bool
	ViewportContent string
	PageText        string
}

// NoContentSignals is the well-defined empty record for a fetch that
// succeeded but returned nothing usable. Rendered output implies a viewport
// even when the payload is empty.
func NoContentSignals() PageSignals {
	return PageSignals{
		H1:              SentinelNoContent,
		HasViewport:     true,
		ViewportContent: StandardViewport,
	}
}

// RestrictedSignals is the placeholder record substituted when every fetch
// strategy failed outright. Scoring still proceeds over it.
func RestrictedSignals() PageSignals {
	return PageSignals{H1: SentinelRestricted}
}

// ScoreSet holds the closed set of score dimensions. Every value is an
// integer in [5,100]; zero is never emitted so consumers can tell
// "not computed" from "worst possible". PageSpeed is present only when the
// external measurement succeeded.
type ScoreSet struct {
	ConversionIntent  int  `json:"conversion_intent"`
	TrustResonance    int  `json:"trust_resonance"`
	MobileReadiness   int  `json:"mobile_readiness"`
	SemanticAuthority int  `json:"semantic_authority"`
	HTTPSSSL          int  `json:"https_ssl"`
	TitleTag          int  `json:"title_tag"`
	HeadingHierarchy  int  `json:"heading_hierarchy"`
	ContentDepth      int  `json:"content_depth"`
	SchemaMarkup      int  `json:"schema_markup"`
	Readability       int  `json:"readability"`
	MetaDescription   int  `json:"meta_description"`
	ImageAltText      int  `json:"image_alt_text"`
	InternalLinks     int  `json:"internal_links"`
	KeywordPlacement  int  `json:"keyword_placement"`
	Multimedia        int  `json:"multimedia"`
	SearchIntent      int  `json:"search_intent"`
	PageSpeed         *int `json:"page_speed,omitempty"`
}
