package extract

import (
	"strings"
	"testing"

	"github.com/landalytics/pageaudit/internal/audit"
)

func mdAttempt(content string) audit.FetchAttempt {
	return audit.FetchAttempt{
		Strategy:  audit.StrategyReader,
		Format:    audit.FormatMarkdown,
		Content:   content,
		WordCount: len(strings.Fields(content)),
	}
}

func htmlAttempt(content string) audit.FetchAttempt {
	return audit.FetchAttempt{
		Strategy:  audit.StrategyDirect,
		Format:    audit.FormatHTML,
		URL:       "https://example.com",
		Content:   content,
		WordCount: len(strings.Fields(content)),
	}
}

func TestExtractPrefersLargerWordCount(t *testing.T) {
	t.Parallel()

	thin := mdAttempt("# Thin Page\n\nshort")
	richBody := "This sentence from the richer fallback representation is long enough to survive filtering."
	rich := htmlAttempt("<html><head><title>Rich Page Title</title></head><body><h1>Rich Heading</h1><p>" +
		strings.Repeat(richBody+" ", 40) + "</p></body></html>")

	sig := Extract([]audit.FetchAttempt{thin, rich})
	if sig.H1 != "Rich Heading" {
		t.Fatalf("H1 = %q, want heading from the richer attempt", sig.H1)
	}
	if !strings.Contains(sig.BodyCopy, "richer fallback representation") {
		t.Fatalf("body excerpt %q not drawn from the richer attempt", sig.BodyCopy)
	}
}

func TestExtractUsesPopulatedAttemptOverFailed(t *testing.T) {
	t.Parallel()

	failed := audit.FetchAttempt{
		Strategy: audit.StrategyReader,
		Format:   audit.FormatMarkdown,
		Reason:   audit.FailTimeout,
	}
	ok := mdAttempt("# Working Page\n\nThis body line is comfortably longer than forty characters total.")

	sig := Extract([]audit.FetchAttempt{failed, ok})
	if sig.H1 != "Working Page" {
		t.Fatalf("H1 = %q, want content from the populated attempt", sig.H1)
	}
}

func TestExtractAllFailedYieldsRestrictedPlaceholder(t *testing.T) {
	t.Parallel()

	failed := audit.FetchAttempt{Strategy: audit.StrategyReader, Reason: audit.FailTransport}
	sig := Extract([]audit.FetchAttempt{failed, failed})
	if sig.H1 != audit.SentinelRestricted {
		t.Fatalf("H1 = %q, want %q", sig.H1, audit.SentinelRestricted)
	}
	if sig.HasViewport {
		t.Fatal("restricted placeholder must not claim a viewport")
	}
}

func TestExtractEmptyContentYieldsNoContent(t *testing.T) {
	t.Parallel()

	empty := mdAttempt("   \n  ")
	sig := Extract([]audit.FetchAttempt{empty})
	if sig.H1 != audit.SentinelNoContent {
		t.Fatalf("H1 = %q, want %q", sig.H1, audit.SentinelNoContent)
	}
	want := audit.NoContentSignals()
	if sig.HasViewport != want.HasViewport || sig.ViewportContent != want.ViewportContent {
		t.Fatalf("empty signals = %+v, want %+v", sig, want)
	}
}

func TestParseMarkdownSignals(t *testing.T) {
	t.Parallel()

	md := `Title: Acme Email Automation Platform
Description: Send better email campaigns with Acme, sign up for a free trial today and grow.

[Pricing](https://acme.test/pricing) [Docs](https://acme.test/docs) [Blog](https://acme.test/blog)

# Grow Your Business With Email

## Why Acme

This paragraph describes the product in enough words to pass the body filter easily.

## Features

### Automation

![dashboard screenshot](/shot.png)
![](/decorative.png)

Enter your name, email and phone to subscribe and get started with our newsletter now.

[Get Started](https://acme.test/signup) [Pricing](https://acme.test/pricing)
`
	sig := Extract([]audit.FetchAttempt{mdAttempt(md)})

	if sig.H1 != "Grow Your Business With Email" {
		t.Fatalf("H1 = %q", sig.H1)
	}
	if sig.Title != "Acme Email Automation Platform" {
		t.Fatalf("Title = %q", sig.Title)
	}
	if !strings.HasPrefix(sig.MetaDescription, "Send better email campaigns") {
		t.Fatalf("MetaDescription = %q", sig.MetaDescription)
	}
	if len(sig.H2s) != 2 || sig.H2s[0] != "Why Acme" {
		t.Fatalf("H2s = %v", sig.H2s)
	}
	if len(sig.H3s) != 1 || sig.H3s[0] != "Automation" {
		t.Fatalf("H3s = %v", sig.H3s)
	}
	if sig.ImgCount != 2 {
		t.Fatalf("ImgCount = %d, want 2", sig.ImgCount)
	}
	if len(sig.AltTexts) != 1 || sig.AltTexts[0] != "dashboard screenshot" {
		t.Fatalf("AltTexts = %v", sig.AltTexts)
	}
	if !sig.HasForm {
		t.Fatal("form keywords present, HasForm should be true")
	}
	if !contains(sig.InputTypes, "email") || !contains(sig.InputTypes, "tel") {
		t.Fatalf("InputTypes = %v", sig.InputTypes)
	}
	// "Pricing" appears twice but CTA labels are deduplicated.
	if count(sig.CTATexts, "Pricing") != 1 {
		t.Fatalf("CTATexts = %v, want deduplicated labels", sig.CTATexts)
	}
	if sig.TotalLinks != 5 {
		t.Fatalf("TotalLinks = %d, want 5", sig.TotalLinks)
	}
	if !sig.HasViewport || sig.ViewportContent != audit.StandardViewport {
		t.Fatal("rendered markdown must assume the standard viewport")
	}
	if len(sig.PageText) > audit.MaxPageTextChars {
		t.Fatalf("PageText length %d exceeds cap", len(sig.PageText))
	}
	if sig.PageText != strings.ToLower(sig.PageText) {
		t.Fatal("PageText must be lower-cased")
	}
}

func TestParseMarkdownTitleFallsBackToH1(t *testing.T) {
	t.Parallel()

	sig := Extract([]audit.FetchAttempt{mdAttempt("# Only A Heading Here\n\nA body line long enough to pass the length filter easily.")})
	if sig.H1 != "Only A Heading Here" {
		t.Fatalf("H1 = %q", sig.H1)
	}
	if sig.Title != "Only A Heading Here" {
		t.Fatalf("Title = %q, want fallback to H1", sig.Title)
	}
}

func TestParseMarkdownNoHeadingSentinel(t *testing.T) {
	t.Parallel()

	sig := Extract([]audit.FetchAttempt{mdAttempt("Just a plain body line that is definitely longer than forty characters in total.")})
	if sig.H1 != audit.SentinelNoH1 {
		t.Fatalf("H1 = %q, want %q", sig.H1, audit.SentinelNoH1)
	}
}

func TestParseHTMLSignals(t *testing.T) {
	t.Parallel()

	html := `<!doctype html>
<html><head>
<title>Acme Store | Buy Widgets Online</title>
<meta name="description" content="Shop the best widgets with free shipping and a money back guarantee.">
<meta name="viewport" content="width=device-width, initial-scale=1">
<script type="application/ld+json">{"@context":"https://schema.org","@type":"Product"}</script>
</head><body>
<nav><a href="/shop">Shop</a><a href="/about">About Us</a></nav>
<h1>Buy Widgets Online</h1>
<h2>Free Shipping</h2>
<h2>Customer Reviews</h2>
<p>Our widgets are crafted with care and loved by more than 10,000 customers worldwide today.</p>
<img src="/w.png" alt="blue widget on a desk">
<img src="/decor.png" alt="">
<a href="https://acme.test/checkout">Checkout Now</a>
</body></html>`

	sig := Extract([]audit.FetchAttempt{htmlAttempt(html)})

	if sig.H1 != "Buy Widgets Online" {
		t.Fatalf("H1 = %q", sig.H1)
	}
	if sig.Title != "Acme Store | Buy Widgets Online" {
		t.Fatalf("Title = %q", sig.Title)
	}
	if !strings.HasPrefix(sig.MetaDescription, "Shop the best widgets") {
		t.Fatalf("MetaDescription = %q", sig.MetaDescription)
	}
	if len(sig.H2s) != 2 {
		t.Fatalf("H2s = %v", sig.H2s)
	}
	if !sig.HasSchema {
		t.Fatal("ld+json block present, HasSchema should be true")
	}
	if !sig.HasViewport || !strings.Contains(sig.ViewportContent, "width=device-width") {
		t.Fatalf("viewport = %v %q", sig.HasViewport, sig.ViewportContent)
	}
	if sig.ImgCount != 2 || len(sig.AltTexts) != 1 {
		t.Fatalf("images = %d alts = %v", sig.ImgCount, sig.AltTexts)
	}
	if !contains(sig.NavLinks, "Shop") || !contains(sig.NavLinks, "About Us") {
		t.Fatalf("NavLinks = %v", sig.NavLinks)
	}
}

func TestBuildSignalsEnforcesCaps(t *testing.T) {
	t.Parallel()

	longLine := strings.Repeat("x", 300)
	var sb strings.Builder
	sb.WriteString("# " + strings.Repeat("H", 500) + "\n\n")
	for i := 0; i < 12; i++ {
		sb.WriteString("## " + strings.Repeat("s", 200) + "\n\n")
	}
	for i := 0; i < 20; i++ {
		sb.WriteString(longLine + "\n\n")
	}
	sb.WriteString(strings.Repeat("filler words here and there to inflate the page text far past its cap ", 200))

	sig := Extract([]audit.FetchAttempt{mdAttempt(sb.String())})

	if len(sig.H1) > audit.MaxH1Chars {
		t.Fatalf("H1 length %d exceeds cap", len(sig.H1))
	}
	if len(sig.H2s) > audit.MaxSubheads {
		t.Fatalf("H2s count %d exceeds cap", len(sig.H2s))
	}
	for _, h := range sig.H2s {
		if len(h) > audit.MaxSubheadChars {
			t.Fatalf("H2 length %d exceeds cap", len(h))
		}
	}
	if len(sig.BodyCopy) > audit.MaxBodyChars {
		t.Fatalf("BodyCopy length %d exceeds cap", len(sig.BodyCopy))
	}
	if len(sig.PageText) > audit.MaxPageTextChars {
		t.Fatalf("PageText length %d exceeds cap", len(sig.PageText))
	}
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func count(items []string, want string) int {
	n := 0
	for _, item := range items {
		if item == want {
			n++
		}
	}
	return n
}
