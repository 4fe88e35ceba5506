package score

import (
	"math"

	"github.com/landalytics/pageaudit/internal/audit"
)

// dim names one metric in the closed score set. Weight tables are partial
// maps over these names; a dimension absent from a table passes through
// unchanged.
type dim string

const (
	dimConversionIntent  dim = "conversion_intent"
	dimTrustResonance    dim = "trust_resonance"
	dimMobileReadiness   dim = "mobile_readiness"
	dimSemanticAuthority dim = "semantic_authority"
	dimTitleTag          dim = "title_tag"
	dimHeadingHierarchy  dim = "heading_hierarchy"
	dimContentDepth      dim = "content_depth"
	dimSchemaMarkup      dim = "schema_markup"
	dimReadability       dim = "readability"
	dimMetaDescription   dim = "meta_description"
	dimImageAltText      dim = "image_alt_text"
	dimInternalLinks     dim = "internal_links"
	dimKeywordPlacement  dim = "keyword_placement"
	dimMultimedia        dim = "multimedia"
	dimSearchIntent      dim = "search_intent"
)

// goalWeights emphasizes the dimensions each goal lives or dies by and
// softly de-emphasizes the ones that matter less for it. Multipliers stay
// inside [0.85,1.15] so weighting reorders priorities without drowning
// the underlying measurement. Goals without a table pass through.
var goalWeights = map[audit.Goal]map[dim]float64{
	audit.GoalLeadGeneration: {
		dimConversionIntent: 1.15,
		dimSearchIntent:     1.10,
		dimTrustResonance:   1.05,
		dimMultimedia:       0.90,
	},
	audit.GoalSaaSTrial: {
		dimConversionIntent: 1.15,
		dimSearchIntent:     1.10,
		dimMobileReadiness:  1.05,
		dimContentDepth:     0.90,
	},
	audit.GoalEcommerce: {
		dimTrustResonance:   1.15,
		dimConversionIntent: 1.10,
		dimImageAltText:     1.05,
		dimSchemaMarkup:     1.05,
		dimReadability:      0.90,
	},
	audit.GoalNewsletter: {
		dimConversionIntent: 1.10,
		dimReadability:      1.10,
		dimContentDepth:     1.05,
		dimSchemaMarkup:     0.90,
	},
	audit.GoalBookDemo: {
		dimConversionIntent: 1.15,
		dimTrustResonance:   1.10,
		dimInternalLinks:    0.90,
	},
	audit.GoalAppDownload: {
		dimMobileReadiness:  1.15,
		dimConversionIntent: 1.10,
		dimMultimedia:       1.05,
		dimInternalLinks:    0.85,
	},
	audit.GoalCRO: {
		dimConversionIntent: 1.15,
		dimReadability:      1.05,
		dimKeywordPlacement: 0.95,
	},
	audit.GoalGrowTraffic: {
		dimSemanticAuthority: 1.15,
		dimContentDepth:      1.10,
		dimKeywordPlacement:  1.10,
		dimConversionIntent:  0.90,
	},
	audit.GoalCartAbandonment: {
		dimConversionIntent: 1.15,
		dimTrustResonance:   1.10,
		dimMobileReadiness:  1.05,
	},
	audit.GoalMobileABTesting: {
		dimMobileReadiness: 1.15,
		dimMultimedia:      1.05,
		dimContentDepth:    0.90,
	},
	audit.GoalCustomerRetention: {
		dimTrustResonance:   1.10,
		dimConversionIntent: 1.05,
		dimReadability:      1.05,
	},
	audit.GoalFormAnalytics: {
		dimConversionIntent: 1.15,
		dimReadability:      1.05,
		dimMultimedia:       0.85,
	},
	audit.GoalWebsiteOptimization: {
		dimSemanticAuthority: 1.10,
		dimContentDepth:      1.05,
		dimMobileReadiness:   1.05,
	},
	audit.GoalWebsiteSurveys: {
		dimReadability:    1.10,
		dimTrustResonance: 1.05,
	},
}

// Weight applies the goal's multiplier table to a score set. Dimensions
// absent from the table, and all dimensions for goals without a table,
// pass through unchanged. A mobile-readiness score backed by a measured
// performance result is never adjusted, so real measurements survive goal
// emphasis intact. Adjusted values re-clamp to the standard range.
func Weight(scores audit.ScoreSet, goal audit.Goal) audit.ScoreSet {
	table, ok := goalWeights[goal]
	if !ok {
		return scores
	}

	apply := func(d dim, v int) int {
		m, ok := table[d]
		if !ok {
			return v
		}
		return clamp(int(math.Round(float64(v) * m)))
	}

	out := scores
	out.ConversionIntent = apply(dimConversionIntent, scores.ConversionIntent)
	out.TrustResonance = apply(dimTrustResonance, scores.TrustResonance)
	out.SemanticAuthority = apply(dimSemanticAuthority, scores.SemanticAuthority)
	out.TitleTag = apply(dimTitleTag, scores.TitleTag)
	out.HeadingHierarchy = apply(dimHeadingHierarchy, scores.HeadingHierarchy)
	out.ContentDepth = apply(dimContentDepth, scores.ContentDepth)
	out.SchemaMarkup = apply(dimSchemaMarkup, scores.SchemaMarkup)
	out.Readability = apply(dimReadability, scores.Readability)
	out.MetaDescription = apply(dimMetaDescription, scores.MetaDescription)
	out.ImageAltText = apply(dimImageAltText, scores.ImageAltText)
	out.InternalLinks = apply(dimInternalLinks, scores.InternalLinks)
	out.KeywordPlacement = apply(dimKeywordPlacement, scores.KeywordPlacement)
	out.Multimedia = apply(dimMultimedia, scores.Multimedia)
	out.SearchIntent = apply(dimSearchIntent, scores.SearchIntent)
	if scores.PageSpeed == nil {
		out.MobileReadiness = apply(dimMobileReadiness, scores.MobileReadiness)
	}
	return out
}
