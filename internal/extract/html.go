package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// parseHTML builds the intermediate document from raw markup. Unlike the
// rendered-markdown path, the viewport and schema flags come from the
// actual tags rather than strategy assumptions.
func parseHTML(content, pageURL string) *document {
	doc := &document{}

	gq, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		doc.text = content
		return doc
	}

	doc.title = cleanText(gq.Find("title").First().Text())
	if desc, ok := gq.Find(`meta[name="description"]`).Attr("content"); ok {
		doc.metaDescription = desc
	} else if ogDesc, ok := gq.Find(`meta[property="og:description"]`).Attr("content"); ok {
		doc.metaDescription = ogDesc
	}

	gq.Find("h1").Each(func(_ int, s *goquery.Selection) {
		doc.h1s = append(doc.h1s, cleanText(s.Text()))
	})
	gq.Find("h2").Each(func(_ int, s *goquery.Selection) {
		doc.h2s = append(doc.h2s, cleanText(s.Text()))
	})
	gq.Find("h3").Each(func(_ int, s *goquery.Selection) {
		doc.h3s = append(doc.h3s, cleanText(s.Text()))
	})

	gq.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		doc.totalLinks++
		label := cleanText(s.Text())
		if len(label) >= 2 && len(label) <= 40 {
			doc.linkLabels = append(doc.linkLabels, label)
		}
	})

	// Prefer labels inside an explicit <nav>; otherwise the leading links
	// stand in for the navigation cluster.
	gq.Find("nav a").Each(func(_ int, s *goquery.Selection) {
		label := cleanText(s.Text())
		if len(label) >= 2 && len(label) <= 30 {
			doc.navLabels = append(doc.navLabels, label)
		}
	})
	if len(doc.navLabels) == 0 {
		for _, label := range doc.linkLabels {
			if len(label) <= 30 {
				doc.navLabels = append(doc.navLabels, label)
			}
		}
	}

	gq.Find("img").Each(func(_ int, s *goquery.Selection) {
		doc.imageCount++
		if alt, ok := s.Attr("alt"); ok {
			if alt = strings.TrimSpace(alt); alt != "" {
				doc.altTexts = append(doc.altTexts, alt)
			}
		}
	})

	doc.hasSchema = gq.Find(`script[type="application/ld+json"]`).Length() > 0 ||
		gq.Find("[itemtype]").Length() > 0 ||
		schemaMarkRe.MatchString(content)

	if viewport, ok := gq.Find(`meta[name="viewport"]`).Attr("content"); ok {
		doc.hasViewport = true
		doc.viewportContent = viewport
	}

	doc.text = mainText(content, pageURL, gq)
	for _, line := range strings.Split(doc.text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > minBodyLineChars {
			doc.bodyLines = append(doc.bodyLines, trimmed)
		}
	}

	return doc
}

// mainText extracts the readable body text, preferring the readability
// parse over a raw DOM text dump so boilerplate does not drown the signal.
func mainText(content, pageURL string, gq *goquery.Document) string {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		base = &url.URL{Scheme: "https", Host: "unknown.invalid"}
	}
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(content), base)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return article.TextContent
	}
	return gq.Find("body").Text()
}

func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
