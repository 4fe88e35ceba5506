// Package score turns extracted page signals into the sixteen audit
// metrics. Every function is pure: signals in, integer in [5,100] out.
// Thresholds are tuned for rendered-markdown extraction, which sees less
// of the page than a DOM crawl would, so bases sit above zero and missing
// signals degrade scores instead of zeroing them.
package score

import (
	"regexp"
	"strings"

	"github.com/landalytics/pageaudit/internal/audit"
)

const (
	minScore = 5
	maxScore = 100
)

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	schemaHintRe    = regexp.MustCompile(`schema\.org|ld\+json|itemtype`)
	audienceSizeRe  = regexp.MustCompile(`\d{3,}[,\d]*\s*(customers?|users?|clients?|companies|brands?)`)
	responsiveRe    = regexp.MustCompile(`@media|responsive|mobile`)
	videoHintRe     = regexp.MustCompile(`video|youtube|vimeo|wistia|loom|webinar|watch`)
	graphicHintRe   = regexp.MustCompile(`infographic|chart|graph|diagram|illustration`)
	interactiveRe   = regexp.MustCompile(`calculator|quiz|tool|interactive|demo`)
)

var genericTitles = map[string]struct{}{
	"home": {}, "welcome": {}, "untitled": {}, "index": {},
}

var metaActionWords = []string{
	"learn", "discover", "get", "find", "try", "start", "boost", "improve", "save", "free",
}

var strongCTAKeywords = []string{
	"get started", "sign up", "try free", "buy now", "book", "start", "join",
	"subscribe", "download", "get", "request", "claim", "access",
}

var trustPatterns = []string{
	"testimonial", "review", "rating", "trust", "certif", "award", "partner", "client",
	"guarantee", "secure", "ssl", "verified", "money back", "refund", "privacy", "gdpr",
	"compliance", "iso", "soc", "hipaa", "pci",
}

// intentKeywords maps conversion-focused goals to the vocabulary a page
// serving that intent should carry. Goals without an entry get a neutral
// search-intent score.
var intentKeywords = map[audit.Goal][]string{
	audit.GoalLeadGeneration: {"free", "download", "guide", "ebook", "checklist", "template", "webinar", "form", "subscribe", "contact"},
	audit.GoalSaaSTrial:      {"free trial", "sign up", "get started", "no credit card", "14 day", "30 day", "demo", "software", "platform", "dashboard"},
	audit.GoalEcommerce:      {"buy", "shop", "price", "cart", "checkout", "shipping", "order", "product", "discount", "sale"},
	audit.GoalNewsletter:     {"subscribe", "newsletter", "weekly", "updates", "join", "community", "inbox", "tips", "insights"},
	audit.GoalBookDemo:       {"demo", "schedule", "calendar", "meeting", "call", "book", "talk to", "sales", "expert", "consultation"},
	audit.GoalAppDownload:    {"download", "app store", "google play", "install", "ios", "android", "mobile app", "get the app"},
}

// goalSignals maps optimization goals to page vocabulary that shows the
// page already courts that behavior.
var goalSignals = map[audit.Goal][]string{
	audit.GoalCartAbandonment:   {"cart", "checkout", "add to cart", "buy", "order", "payment", "abandon"},
	audit.GoalCRO:               {"get started", "sign up", "try", "buy", "convert", "cta", "optimize"},
	audit.GoalGrowTraffic:       {"read", "blog", "article", "guide", "learn", "seo", "search", "traffic"},
	audit.GoalLandingPageOpt:    {"get started", "sign up", "try free", "download", "claim", "access"},
	audit.GoalMobileABTesting:   {"app", "download", "install", "mobile", "ios", "android"},
	audit.GoalCustomerRetention: {"login", "account", "member", "loyalty", "reward", "renew", "subscription"},
	audit.GoalFormAnalytics:     {"form", "submit", "name", "email", "phone", "contact", "request"},
	audit.GoalHeatmaps:          {"click", "scroll", "view", "watch", "explore", "discover"},
	audit.GoalPersonalization:   {"for you", "recommended", "tailored", "custom", "based on", "personal"},
	audit.GoalPushNotifications: {"subscribe", "notify", "allow", "enable", "opt in", "permission"},
	audit.GoalWebsiteSurveys:    {"feedback", "survey", "rate", "review", "opinion", "tell us", "nps"},
}

func clamp(n int) int {
	if n < minScore {
		return minScore
	}
	if n > maxScore {
		return maxScore
	}
	return n
}

// HTTPS scores transport security from the URL alone.
func HTTPS(rawURL string) int {
	if strings.HasPrefix(rawURL, "https://") {
		return 90
	}
	return 10
}

// TitleTag scores title presence, length, and structure.
func TitleTag(sig audit.PageSignals) int {
	title := sig.Title
	if title == "" {
		return 25
	}
	score := 40
	length := len(title)
	switch {
	case length >= 30 && length <= 60:
		score += 35
	case (length >= 20 && length < 30) || (length > 60 && length <= 70):
		score += 20
	default:
		score += 10
	}
	if strings.ContainsAny(title, "|-:") {
		score += 15
	}
	if _, generic := genericTitles[strings.TrimSpace(strings.ToLower(title))]; generic {
		score -= 20
	}
	return clamp(score)
}

// HeadingHierarchy scores H1-H3 structural depth.
func HeadingHierarchy(sig audit.PageSignals) int {
	score := 20
	if sig.H1 != "" && sig.H1 != audit.SentinelNoH1 {
		score += 35
	}
	if len(sig.H2s) > 0 {
		score += 25
		if len(sig.H2s) >= 3 {
			score += 10
		}
	}
	if len(sig.H3s) > 0 {
		score += 10
	}
	return clamp(score)
}

// ContentDepth scores word volume and structural richness.
func ContentDepth(sig audit.PageSignals) int {
	wordCount := len(strings.Fields(sig.PageText))
	score := 0
	switch {
	case wordCount >= 800:
		score += 50
	case wordCount >= 400:
		score += 35
	case wordCount >= 200:
		score += 20
	case wordCount >= 100:
		score += 10
	default:
		score += 2
	}
	headingCount := len(sig.H2s) + len(sig.H3s)
	score += minInt(30, headingCount*6)
	if sig.BodyCopy != "" {
		score += 20
	}
	return clamp(score)
}

// SchemaMarkup scores structured-data presence. Rendered markdown hides
// JS-injected schema, so the floor stays well above zero.
func SchemaMarkup(sig audit.PageSignals) int {
	if sig.HasSchema {
		return 90
	}
	if schemaHintRe.MatchString(sig.PageText) {
		return 70
	}
	return 30
}

// Readability scores sentence length and scannability of the body excerpt.
func Readability(sig audit.PageSignals) int {
	body := sig.BodyCopy
	if body == "" {
		return 20
	}
	score := 30
	var sentences []string
	for _, s := range sentenceSplitRe.Split(body, -1) {
		if s = strings.TrimSpace(s); len(s) > 10 {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) > 0 {
		totalWords := 0
		for _, s := range sentences {
			totalWords += len(strings.Fields(s))
		}
		avgWords := float64(totalWords) / float64(len(sentences))
		switch {
		case avgWords <= 15:
			score += 40
		case avgWords <= 20:
			score += 30
		case avgWords <= 25:
			score += 15
		default:
			score += 5
		}
	}
	paraCount := 0
	for _, l := range strings.Split(body, "|") {
		if strings.TrimSpace(l) != "" {
			paraCount++
		}
	}
	score += minInt(20, paraCount*5)
	if len(body) > 400 && !strings.Contains(body, "|") {
		score -= 10
	}
	return clamp(score)
}

// MetaDescription scores presence, SERP-friendly length, and action copy.
func MetaDescription(sig audit.PageSignals) int {
	meta := sig.MetaDescription
	if meta == "" {
		return 20
	}
	score := 30
	length := len(meta)
	switch {
	case length >= 120 && length <= 160:
		score += 40
	case length >= 80 && length < 120:
		score += 25
	case length > 0 && length < 80:
		score += 10
	}
	metaLower := strings.ToLower(meta)
	matches := 0
	for _, w := range metaActionWords {
		if strings.Contains(metaLower, w) {
			matches++
		}
	}
	score += minInt(30, matches*8)
	return clamp(score)
}

// ImageAltText scores alt-text coverage as a ratio over detected images.
func ImageAltText(sig audit.PageSignals) int {
	if sig.ImgCount == 0 {
		return 50
	}
	coverage := float64(len(sig.AltTexts)) / float64(sig.ImgCount)
	switch {
	case coverage >= 0.9:
		return 90
	case coverage >= 0.7:
		return 70
	case coverage >= 0.5:
		return 55
	case coverage >= 0.3:
		return 40
	case coverage >= 0.1:
		return 30
	default:
		return 20
	}
}

// InternalLinks scores link quantity and navigation structure, penalizing
// pages that dilute authority across too many links.
func InternalLinks(sig audit.PageSignals) int {
	score := 0
	switch {
	case sig.TotalLinks >= 10:
		score += 35
	case sig.TotalLinks >= 5:
		score += 25
	case sig.TotalLinks >= 2:
		score += 15
	default:
		score += 5
	}
	switch {
	case len(sig.NavLinks) >= 5:
		score += 35
	case len(sig.NavLinks) >= 3:
		score += 25
	case len(sig.NavLinks) >= 1:
		score += 15
	}
	if sig.TotalLinks > 100 {
		score -= 15
	}
	return clamp(score)
}

// KeywordPlacement scores how well the H1's keywords echo through the
// title and the opening body copy.
func KeywordPlacement(sig audit.PageSignals) int {
	score := 20
	h1 := strings.ToLower(sig.H1)
	title := strings.ToLower(sig.Title)
	body := strings.ToLower(sig.BodyCopy)

	var h1Words []string
	for _, w := range strings.Fields(h1) {
		if len(w) > 4 {
			h1Words = append(h1Words, w)
		}
	}
	if len(h1Words) == 0 {
		return score
	}

	titleMatches := 0
	for _, w := range h1Words {
		if strings.Contains(title, w) {
			titleMatches++
		}
	}
	score += minInt(30, titleMatches*10)

	bodyStart := body
	if len(bodyStart) > 200 {
		bodyStart = bodyStart[:200]
	}
	bodyMatches := 0
	for _, w := range h1Words {
		if strings.Contains(bodyStart, w) {
			bodyMatches++
		}
	}
	score += minInt(30, bodyMatches*8)

	if titleMatches > 0 {
		score += 20
	}
	return clamp(score)
}

// Multimedia scores images plus textual hints of video, graphics, and
// interactive elements.
func Multimedia(sig audit.PageSignals) int {
	score := 0
	switch {
	case sig.ImgCount >= 5:
		score += 40
	case sig.ImgCount >= 3:
		score += 30
	case sig.ImgCount >= 1:
		score += 20
	}
	if videoHintRe.MatchString(sig.PageText) {
		score += 30
	}
	if graphicHintRe.MatchString(sig.PageText) {
		score += 20
	}
	if interactiveRe.MatchString(sig.PageText) {
		score += 10
	}
	return clamp(score)
}

// SearchIntent scores content alignment with the stated goal's vocabulary.
// Goals without an intent keyword set get a neutral 50.
func SearchIntent(sig audit.PageSignals, goal audit.Goal) int {
	keywords, ok := intentKeywords[goal]
	if !ok {
		return 50
	}
	combined := sig.PageText + " " + strings.ToLower(sig.H1) + " " + strings.ToLower(sig.BodyCopy)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(combined, kw) {
			matches++
		}
	}
	return clamp(10 + matches*9)
}

// ConversionIntent scores CTA strength, form presence, and goal-specific
// conversion vocabulary.
func ConversionIntent(sig audit.PageSignals, goal audit.Goal) int {
	score := 20

	if sig.HasForm {
		score += 25
		visible := 0
		for _, in := range sig.InputTypes {
			if in != "hidden" && in != "submit" {
				visible++
			}
		}
		if visible <= 3 {
			score += 10
		}
	}

	matched := 0
	for _, cta := range sig.CTATexts {
		ctaLower := strings.ToLower(cta)
		for _, kw := range strongCTAKeywords {
			if strings.Contains(ctaLower, kw) {
				matched++
			}
		}
	}
	score += minInt(25, matched*8)

	// Page text catches JS-rendered buttons the link labels miss.
	matchedText := 0
	for _, kw := range strongCTAKeywords {
		if strings.Contains(sig.PageText, kw) {
			matchedText++
		}
	}
	score += minInt(15, matchedText*3)

	if signals, ok := goalSignals[goal]; ok {
		for _, w := range signals {
			if strings.Contains(sig.PageText, w) {
				score += 15
				break
			}
		}
	}

	if sig.TotalLinks >= 3 {
		score += 5
	}
	return clamp(score)
}

// TrustResonance scores credibility markers: testimonials, compliance
// vocabulary, audience-size claims, and security hints.
func TrustResonance(sig audit.PageSignals) int {
	score := 30
	for _, p := range trustPatterns {
		if strings.Contains(sig.PageText, p) {
			score += 4
		}
	}
	if audienceSizeRe.MatchString(sig.PageText) {
		score += 12
	}
	if sig.HasSchema {
		score += 8
	}
	if len(sig.AltTexts) > 2 {
		score += 5
	}
	if strings.Contains(sig.PageText, "ssl") || strings.Contains(sig.PageText, "https") ||
		strings.Contains(sig.PageText, "secure") || strings.Contains(sig.PageText, "encrypt") {
		score += 5
	}
	return clamp(score)
}

// MobileReadiness scores viewport configuration, unless a measured
// PageSpeed mobile score is available, which takes priority.
func MobileReadiness(sig audit.PageSignals, pageSpeed *int) int {
	if pageSpeed != nil {
		return clamp(*pageSpeed)
	}
	score := 50
	if sig.HasViewport {
		score += 20
		if strings.Contains(sig.ViewportContent, "width=device-width") {
			score += 15
		}
		if strings.Contains(sig.ViewportContent, "initial-scale=1") {
			score += 10
		}
	}
	if responsiveRe.MatchString(sig.PageText) {
		score += 5
	}
	return clamp(score)
}

// SemanticAuthority scores how completely the page fills the semantic
// slots search engines read: headings, meta, title, schema, depth.
func SemanticAuthority(sig audit.PageSignals) int {
	score := 25
	if sig.H1 != "" && sig.H1 != audit.SentinelNoH1 {
		score += 25
	}
	if len(sig.H2s) > 0 {
		score += 18
	}
	if len(sig.H3s) > 0 {
		score += 8
	}
	if sig.MetaDescription != "" {
		score += 12
		if l := len(sig.MetaDescription); l >= 50 && l <= 160 {
			score += 6
		}
	}
	if sig.Title != "" {
		score += 8
		if l := len(sig.Title); l >= 30 && l <= 65 {
			score += 6
		}
	}
	if sig.HasSchema {
		score += 10
	}
	if len(strings.Fields(sig.PageText)) > 300 {
		score += 5
	}
	return clamp(score)
}

// All computes the full metric set for one audited page.
func All(sig audit.PageSignals, rawURL string, goal audit.Goal, pageSpeed *int) audit.ScoreSet {
	return audit.ScoreSet{
		ConversionIntent:  ConversionIntent(sig, goal),
		TrustResonance:    TrustResonance(sig),
		MobileReadiness:   MobileReadiness(sig, pageSpeed),
		SemanticAuthority: SemanticAuthority(sig),
		HTTPSSSL:          HTTPS(rawURL),
		TitleTag:          TitleTag(sig),
		HeadingHierarchy:  HeadingHierarchy(sig),
		ContentDepth:      ContentDepth(sig),
		SchemaMarkup:      SchemaMarkup(sig),
		Readability:       Readability(sig),
		MetaDescription:   MetaDescription(sig),
		ImageAltText:      ImageAltText(sig),
		InternalLinks:     InternalLinks(sig),
		KeywordPlacement:  KeywordPlacement(sig),
		Multimedia:        Multimedia(sig),
		SearchIntent:      SearchIntent(sig, goal),
		PageSpeed:         pageSpeed,
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
