package extract

import (
	"regexp"
	"strings"

	"github.com/landalytics/pageaudit/internal/audit"
)

// Reader-service markdown puts page metadata at the top as "Title: ..." /
// "Description: ..." lines, but the exact framing varies, so several
// patterns are tried in order.
var (
	mdTitlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^Title:\s*(.+)$`),
		regexp.MustCompile(`(?m)^# (.+)$`),
	}
	mdDescPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^Description:\s*(.+)$`),
		regexp.MustCompile(`(?im)^Meta[- ]?Description:\s*(.+)$`),
		regexp.MustCompile(`(?im)^URL Source:.+\nMarkdown Content:\s*\n+(.{80,200})`),
	}

	mdLinkRe     = regexp.MustCompile(`\[([^\]]{2,40})\]\(https?://[^\)]+\)`)
	mdLinkMarkRe = regexp.MustCompile(`\]\(https?://`)
	mdImageRe    = regexp.MustCompile(`!\[([^\]]{0,80})\]`)
	mdNavLinkRe  = regexp.MustCompile(`\[([^\]]{2,30})\]\(`)
	schemaMarkRe = regexp.MustCompile(`(?i)application/ld\+json|schema\.org`)
)

const (
	minTitleChars    = 5
	navRegionChars   = 1500
	minBodyLineChars = 40
)

// parseMarkdown builds the intermediate document from reader markdown.
// The reader renders pages in a headless browser, so a viewport is assumed
// present with the standard responsive directive; that is a documented
// assumption about the strategy, not a measurement.
func parseMarkdown(markdown string) *document {
	doc := &document{
		text:            markdown,
		hasViewport:     true,
		viewportContent: audit.StandardViewport,
	}

	for _, pat := range mdTitlePatterns {
		m := pat.FindStringSubmatch(markdown)
		if m == nil {
			continue
		}
		candidate := truncate(strings.TrimSpace(m[1]), audit.MaxTitleChars)
		// Skip candidates that look like nav items or fragments.
		if len(candidate) > minTitleChars {
			doc.title = candidate
			break
		}
	}

	for _, pat := range mdDescPatterns {
		m := pat.FindStringSubmatch(markdown)
		if m != nil {
			doc.metaDescription = truncate(strings.TrimSpace(m[1]), audit.MaxMetaChars)
			break
		}
	}

	for _, line := range strings.Split(markdown, "\n") {
		switch {
		case strings.HasPrefix(line, "### "):
			doc.h3s = append(doc.h3s, heading(line))
		case strings.HasPrefix(line, "## "):
			doc.h2s = append(doc.h2s, heading(line))
		case strings.HasPrefix(line, "# "):
			doc.h1s = append(doc.h1s, heading(line))
		default:
			trimmed := strings.TrimSpace(line)
			if trimmed == "" ||
				strings.HasPrefix(trimmed, "#") ||
				strings.HasPrefix(trimmed, "[") ||
				strings.HasPrefix(trimmed, "!") ||
				len(trimmed) <= minBodyLineChars {
				continue
			}
			doc.bodyLines = append(doc.bodyLines, trimmed)
		}
	}

	for _, m := range mdLinkRe.FindAllStringSubmatch(markdown, -1) {
		doc.linkLabels = append(doc.linkLabels, m[1])
	}
	doc.totalLinks = len(mdLinkMarkRe.FindAllString(markdown, -1))

	for _, m := range mdImageRe.FindAllStringSubmatch(markdown, -1) {
		doc.imageCount++
		if alt := strings.TrimSpace(m[1]); alt != "" {
			doc.altTexts = append(doc.altTexts, alt)
		}
	}

	navRegion := truncate(markdown, navRegionChars)
	for _, m := range mdNavLinkRe.FindAllStringSubmatch(navRegion, -1) {
		doc.navLabels = append(doc.navLabels, m[1])
	}

	doc.hasSchema = schemaMarkRe.MatchString(markdown)
	return doc
}

func heading(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "# "))
}
