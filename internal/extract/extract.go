package extract

import (
	"strings"

	"github.com/landalytics/pageaudit/internal/audit"
)

// Extract reconciles one or more fetch attempts into a single PageSignals
// record. When multiple attempts carry content, the one with the larger
// word count wins; ties prefer the earlier (primary) attempt because
// rendered output sees JS-injected content the direct fetch misses.
//
// A fetch that succeeded but returned nothing usable yields the "No Content"
// record; a fetch where every strategy failed outright yields the
// "Restricted Access" placeholder so scoring can still proceed.
func Extract(attempts []audit.FetchAttempt) audit.PageSignals {
	best, anySucceeded := choose(attempts)
	if !anySucceeded {
		return audit.RestrictedSignals()
	}
	if strings.TrimSpace(best.Content) == "" {
		return audit.NoContentSignals()
	}

	var doc *document
	switch best.Format {
	case audit.FormatHTML:
		doc = parseHTML(best.Content, best.URL)
	default:
		doc = parseMarkdown(best.Content)
	}
	return buildSignals(doc)
}

func choose(attempts []audit.FetchAttempt) (audit.FetchAttempt, bool) {
	var best audit.FetchAttempt
	found := false
	for _, a := range attempts {
		if !a.OK() {
			continue
		}
		if !found || a.WordCount > best.WordCount {
			best = a
			found = true
		}
	}
	return best, found
}
