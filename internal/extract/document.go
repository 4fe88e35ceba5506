// Package extract normalizes raw page representations into the canonical
// PageSignals record. Both retrieval formats (reader markdown and raw HTML)
// populate the same intermediate document, so extraction rules stay
// independent of any upstream rendering vendor's output format.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/landalytics/pageaudit/internal/audit"
)

// document is the parser-neutral intermediate representation. Parsers fill
// it; buildSignals applies the shared bounding and fallback rules.
type document struct {
	title           string
	metaDescription string
	h1s             []string
	h2s             []string
	h3s             []string
	bodyLines       []string
	linkLabels      []string
	navLabels       []string
	totalLinks      int
	imageCount      int
	altTexts        []string
	hasSchema       bool
	hasViewport     bool
	viewportContent string
	text            string
}

// Keywords whose co-occurrence implies an input-collection form. Inference
// only; non-structured text offers no real form fields to introspect.
var formKeywords = []string{
	"subscribe", "sign up", "email", "submit", "get started", "name", "phone", "contact",
}

const minFormKeywordHits = 2
const maxBodyExcerptLines = 5

// buildSignals converts a populated document into a bounded PageSignals.
func buildSignals(doc *document) audit.PageSignals {
	textLower := strings.ToLower(doc.text)

	h1 := ""
	if len(doc.h1s) > 0 {
		h1 = truncate(strings.TrimSpace(doc.h1s[0]), audit.MaxH1Chars)
	}
	title := truncate(strings.TrimSpace(doc.title), audit.MaxTitleChars)

	// Fallback chain: a page without an H1 borrows the title; a trivial
	// title borrows the H1.
	if h1 == "" {
		if title != "" {
			h1 = title
		} else {
			h1 = audit.SentinelNoH1
		}
	}
	if len(title) <= 5 && h1 != audit.SentinelNoH1 {
		title = h1
	}

	bodyCopy := strings.Join(firstN(doc.bodyLines, maxBodyExcerptLines), " | ")
	bodyCopy = truncate(bodyCopy, audit.MaxBodyChars)

	inputTypes := inferInputTypes(textLower)

	return audit.PageSignals{
		H1:              h1,
		H2s:             capStrings(doc.h2s, audit.MaxSubheads, audit.MaxSubheadChars),
		H3s:             capStrings(doc.h3s, audit.MaxSubheads, audit.MaxSubheadChars),
		Title:           title,
		MetaDescription: truncate(strings.TrimSpace(doc.metaDescription), audit.MaxMetaChars),
		BodyCopy:        bodyCopy,
		CTATexts:        dedupe(doc.linkLabels, audit.MaxCTALabels),
		ImgCount:        doc.imageCount,
		AltTexts:        firstN(doc.altTexts, audit.MaxAltTexts),
		HasForm:         countKeywordHits(textLower, formKeywords) >= minFormKeywordHits,
		InputTypes:      inputTypes,
		NavLinks:        dedupe(doc.navLabels, audit.MaxNavLinks),
		TotalLinks:      doc.totalLinks,
		HasSchema:       doc.hasSchema,
		HasViewport:     doc.hasViewport,
		ViewportContent: doc.viewportContent,
		PageText:        truncate(textLower, audit.MaxPageTextChars),
	}
}

func inferInputTypes(textLower string) []string {
	var kinds []string
	if strings.Contains(textLower, "email") {
		kinds = append(kinds, "email")
	}
	if strings.Contains(textLower, "phone") {
		kinds = append(kinds, "tel")
	}
	if strings.Contains(textLower, "name") {
		kinds = append(kinds, "text")
	}
	if strings.Contains(textLower, "password") {
		kinds = append(kinds, "password")
	}
	return kinds
}

func countKeywordHits(textLower string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(textLower, kw) {
			hits++
		}
	}
	return hits
}

// truncate caps s at maxChars runes without splitting a multibyte rune.
func truncate(s string, maxChars int) string {
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	return string([]rune(s)[:maxChars])
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func capStrings(items []string, maxItems, maxChars int) []string {
	out := make([]string, 0, maxItems)
	for _, item := range items {
		if len(out) == maxItems {
			break
		}
		out = append(out, truncate(strings.TrimSpace(item), maxChars))
	}
	return out
}

// dedupe keeps first occurrences in order, up to max entries.
func dedupe(items []string, max int) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
		if len(out) == max {
			break
		}
	}
	return out
}
