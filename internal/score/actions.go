package score

import "github.com/seolens/seolens/internal/model"

// Action texts mirror the finding texts in tone: concrete, client-facing,
// no jargon.
const (
	actionRobots = "Create or adjust robots.txt to guide search engine crawlers."

	actionSitemap = "Create or adjust sitemap.xml to make crawling and indexing easier."

	actionLLMS = "Add llms.txt to improve readability for AI assistants and modern search engines."

	actionSchema = "Add or adjust structured data (Schema.org/JSON-LD) on the main pages (Organization/Service/WebSite)."

	actionInternalLinks = "Add more internal links (menu/CTAs) pointing to important pages and sections."

	actionImageAlt = "Ensure ALT text on all important images (logo, banners, illustrations)."
)

// Actions builds the prioritized site-wide recommendation list.
// Checks run in a fixed priority order, each contributing at most one
// action; the endpoint actions fire only on an explicit failed probe,
// never on a probe that was skipped.
func Actions(site *model.Site) []string {
	actions := make([]string, 0, 6)

	if failed(site.RobotsOK) {
		actions = append(actions, actionRobots)
	}
	if failed(site.SitemapOK) {
		actions = append(actions, actionSitemap)
	}
	if failed(site.LLMSOK) {
		actions = append(actions, actionLLMS)
	}

	if anyPage(site, func(p *model.Page) bool { return len(p.SchemaTypes) == 0 }) {
		actions = append(actions, actionSchema)
	}
	if anyPage(site, func(p *model.Page) bool { return p.InternalLinks < 3 }) {
		actions = append(actions, actionInternalLinks)
	}
	if anyPage(site, func(p *model.Page) bool { return p.Images > 0 && p.ImagesMissingAlt > 0 }) {
		actions = append(actions, actionImageAlt)
	}

	// First occurrence wins if two checks ever share a message.
	seen := make(map[string]bool, len(actions))
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// failed reports an explicit probe failure, not an unknown state.
func failed(b *bool) bool {
	return b != nil && !*b
}

func anyPage(site *model.Site, match func(*model.Page) bool) bool {
	for _, p := range site.Pages {
		if match(p) {
			return true
		}
	}
	return false
}
