package score

import (
	"math"

	"github.com/seolens/seolens/internal/model"
)

// SectorScores groups the six site-level sector scores, each in [0, 100].
type SectorScores struct {
	// Crawlability reflects the robots.txt, sitemap.xml, and llms.txt
	// endpoint checks.
	Crawlability int `json:"crawlability"`

	// Content reflects titles, descriptions, H1 discipline, word
	// counts, and lang attributes across all pages.
	Content int `json:"content"`

	// Schema is the fraction of pages carrying structured data.
	Schema int `json:"schema"`

	// LinksMedia reflects ALT coverage and internal linking.
	LinksMedia int `json:"links_media"`

	// Performance is a step function of the mean page load time.
	Performance int `json:"performance"`

	// Social is the fraction of pages with OpenGraph or Twitter tags.
	Social int `json:"social"`
}

// Overall sector weights. Content weighs most; crawlability and schema
// follow. The weights sum to 1.
const (
	weightCrawlability = 0.20
	weightContent      = 0.25
	weightSchema       = 0.20
	weightLinksMedia   = 0.15
	weightPerformance  = 0.10
	weightSocial       = 0.10
)

// Sectors computes the six sector scores for a finished crawl.
// A site with zero pages scores zero everywhere: no evidence, no credit.
func Sectors(site *model.Site) SectorScores {
	if len(site.Pages) == 0 {
		return SectorScores{}
	}
	pages := site.Pages
	total := float64(len(pages))

	var s SectorScores

	// Crawlability: near-equal weights that sum to 100. A nil check
	// (never probed) counts the same as a failed one.
	crawl := 0
	if boolOK(site.RobotsOK) {
		crawl += 34
	}
	if boolOK(site.SitemapOK) {
		crawl += 33
	}
	if boolOK(site.LLMSOK) {
		crawl += 33
	}
	s.Crawlability = clamp(crawl, 0, 100)

	okH1 := countPages(pages, func(p *model.Page) bool { return len(p.H1) == 1 }) / total
	okTitle := countPages(pages, func(p *model.Page) bool { return p.Title != "" }) / total
	okDesc := countPages(pages, func(p *model.Page) bool { return p.Description != "" }) / total
	okWords := countPages(pages, func(p *model.Page) bool { return p.WordCount >= 150 }) / total
	okLang := countPages(pages, func(p *model.Page) bool { return p.Lang != "" }) / total
	s.Content = clamp(int(okH1*25+okTitle*25+okDesc*20+okWords*20+okLang*10), 0, 100)

	okSchema := countPages(pages, func(p *model.Page) bool { return len(p.SchemaTypes) > 0 }) / total
	s.Schema = clamp(int(okSchema*100), 0, 100)

	okAlt := countPages(pages, func(p *model.Page) bool {
		return p.Images == 0 || p.ImagesMissingAlt == 0
	}) / total
	okInternal := countPages(pages, func(p *model.Page) bool { return p.InternalLinks >= 1 }) / total
	s.LinksMedia = clamp(int(okAlt*50+okInternal*50), 0, 100)

	var loadSum float64
	for _, p := range pages {
		loadSum += p.LoadSeconds()
	}
	switch avg := loadSum / total; {
	case avg < 2.0:
		s.Performance = 95
	case avg < 4.0:
		s.Performance = 85
	case avg < 6.0:
		s.Performance = 70
	default:
		s.Performance = 55
	}

	okSocial := countPages(pages, func(p *model.Page) bool { return p.HasSocialMeta() }) / total
	s.Social = clamp(int(okSocial*100), 0, 100)

	return s
}

// Overall computes the weighted site score, rounded to the nearest
// integer.
func Overall(site *model.Site) int {
	s := Sectors(site)
	weighted := float64(s.Crawlability)*weightCrawlability +
		float64(s.Content)*weightContent +
		float64(s.Schema)*weightSchema +
		float64(s.LinksMedia)*weightLinksMedia +
		float64(s.Performance)*weightPerformance +
		float64(s.Social)*weightSocial
	return int(math.Round(weighted))
}

// countPages counts pages matching the predicate, as a float for
// fraction math.
func countPages(pages []*model.Page, match func(*model.Page) bool) float64 {
	n := 0
	for _, p := range pages {
		if match(p) {
			n++
		}
	}
	return float64(n)
}

// boolOK treats a tri-state check as passed only when it was performed
// and succeeded.
func boolOK(b *bool) bool {
	return b != nil && *b
}
