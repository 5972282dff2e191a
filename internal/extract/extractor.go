package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/render"
	"github.com/seolens/seolens/internal/urlutil"
)

// Page builds the audit record for one rendered page.
// pageURL is the normalized URL that was requested; res is what the
// renderer observed for it.
func Page(pageURL string, res *render.Result) *model.Page {
	p := model.NewPage(pageURL)
	p.FinalURL = res.FinalURL
	p.Status = res.Status
	p.LoadTime = res.LoadTime

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.HTML))
	if err == nil {
		documentSignals(p, doc)
	}

	p.SchemaTypes = SchemaTypes(res.JSONLD)
	countLinks(p, res.FinalURL, res.Links)
	Findings(p)

	return p
}

// DegradedPage builds the record for a page the browser could not load.
// The URL still counts against the crawl budget; the record carries a
// single issue and otherwise empty signals.
func DegradedPage(pageURL string) *model.Page {
	p := model.NewPage(pageURL)
	p.Issues = append(p.Issues, issueUnreachable)
	return p
}

// documentSignals fills every signal that comes straight from the DOM.
func documentSignals(p *model.Page, doc *goquery.Document) {
	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		p.Lang = strings.TrimSpace(lang)
	}

	p.HasViewport = doc.Find(`meta[name="viewport"]`).Length() > 0

	p.Title = strings.TrimSpace(doc.Find("title").First().Text())

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		p.Description = strings.TrimSpace(desc)
	}

	// The robots tag is matched by substring ("robots", "ROBOTS",
	// vendor variants like "googlebot" excluded on purpose: only names
	// containing "robots" are considered).
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.Contains(strings.ToLower(name), "robots") {
			return true
		}
		if content, ok := s.Attr("content"); ok && content != "" {
			p.MetaRobots = strings.TrimSpace(content)
			return false
		}
		return true
	})

	// Canonical rel values are matched by substring too, so
	// rel="canonical alternate" still counts.
	doc.Find("link").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel, _ := s.Attr("rel")
		if !strings.Contains(strings.ToLower(rel), "canonical") {
			return true
		}
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return true
		}
		href = strings.TrimSpace(href)
		if abs, err := urlutil.Resolve(p.FinalURL, href); err == nil {
			p.Canonical = abs
		} else {
			p.Canonical = href
		}
		return false
	})

	// OpenGraph uses property=, Twitter cards usually name=. Last
	// occurrence wins for duplicated properties.
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		prop, ok := s.Attr("property")
		if !ok || prop == "" {
			prop, _ = s.Attr("name")
		}
		content, _ := s.Attr("content")
		prop = strings.TrimSpace(prop)
		content = strings.TrimSpace(content)
		if prop == "" || content == "" {
			return
		}
		if strings.HasPrefix(prop, "og:") {
			p.OG[prop] = content
		}
		if strings.HasPrefix(prop, "twitter:") {
			p.Twitter[prop] = content
		}
	})

	p.H1 = headingTexts(doc, "h1")
	p.H2 = headingTexts(doc, "h2")
	p.H3 = headingTexts(doc, "h3")

	p.WordCount = visibleWordCount(doc)

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		p.Images++
		alt, ok := s.Attr("alt")
		if !ok || strings.TrimSpace(alt) == "" {
			p.ImagesMissingAlt++
		}
	})
}

// headingTexts collects heading texts in document order with
// whitespace collapsed to single spaces.
func headingTexts(doc *goquery.Document, tag string) []string {
	out := make([]string, 0)
	doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.Join(strings.Fields(s.Text()), " "))
	})
	return out
}

// countLinks classifies every anchor observed in the live DOM.
//
// Anchors ("#x", "/#x") count both as anchors and as internal links:
// they are navigation within the site even though they stay on the
// page. Unresolvable or non-http results also land in the internal
// bucket, matching the relative-link heuristic.
func countLinks(p *model.Page, finalURL string, links []render.Link) {
	for _, l := range links {
		href := strings.TrimSpace(l.Href)
		if href == "" || urlutil.IsSkippable(href) {
			continue
		}

		if urlutil.IsAnchor(href) {
			p.AnchorLinks++
			p.InternalLinks++
			continue
		}

		abs, err := urlutil.Resolve(finalURL, href)
		if err != nil {
			p.InternalLinks++
			continue
		}
		abs = urlutil.Normalize(abs)

		switch {
		case strings.HasPrefix(abs, "http") && urlutil.SameHost(finalURL, abs):
			p.InternalLinks++
		case !strings.HasPrefix(abs, "http"):
			p.InternalLinks++
		default:
			p.ExternalLinks++
		}
	}

	// Nofollow is counted in an independent pass over the same anchors,
	// regardless of how each link was classified above.
	for _, l := range links {
		href := strings.TrimSpace(l.Href)
		if href == "" || urlutil.IsSkippable(href) {
			continue
		}
		for _, rel := range l.Rel {
			if strings.EqualFold(rel, "nofollow") {
				p.NofollowLinks++
				break
			}
		}
	}
}
