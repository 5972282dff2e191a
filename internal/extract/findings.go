package extract

import "github.com/seolens/seolens/internal/model"

// Finding texts are written for clients, not engineers: each names the
// signal and why it matters, without jargon. The icons carry severity
// into plain-text and markdown reports alike.
const (
	winTitle       = "✅ Page title is set (important for Google and for the click)."
	issueTitle     = "❌ Missing page title (Google may display a poor title in search results)."
	winDesc        = "✅ Meta description present (helps click-through rate)."
	issueDesc      = "❌ Missing meta description."
	winCanonical   = "✅ Canonical URL configured (avoids duplicate content)."
	issueCanonical = "⚠️ Missing canonical URL (may produce duplicate pages)."
	winOneH1       = "✅ Structure with a single H1 (good for hierarchy and topic clarity)."
	issueNoH1      = "❌ Page has no H1 (makes the main topic harder to understand)."
	issueManyH1    = "⚠️ More than one H1 (the ideal is one per page)."
	winSchema      = "✅ Structured data (Schema.org) found (helps Google understand the business/service)."
	issueNoSchema  = "❌ Structured data (Schema.org / JSON-LD) not found."
	issueNoLinks   = "⚠️ Few or no internal links detected (may hinder navigation and crawling)."
	issueFewLinks  = "⚠️ Few internal links detected; linking to important pages and sections helps crawling."
	issueAlt       = "⚠️ Some images have no alternative text (ALT); this impacts accessibility and image SEO."
	winAlt         = "✅ Image ALT attributes OK (good accessibility/SEO practice)."
	winSocial      = "✅ Social metadata (OpenGraph/Twitter) present (better link sharing)."
	issueSocial    = "⚠️ Social metadata (OpenGraph/Twitter) not found (shared links may look generic)."
	issueThin      = "⚠️ Short textual content (may not answer the search intent well)."
	issueNoIndex   = "❌ The page is marked NOINDEX (it may not appear on Google)."

	issueUnreachable = "⚠️ The page could not be loaded in browser mode (check availability)."
)

// thinContentWords is the threshold below which a page is flagged as
// thin. It sits below the scorer's lowest content tier on purpose: the
// flag fires only for pages that are nearly empty.
const thinContentWords = 80

// minInternalLinks is how many internal links a page should carry
// before the low-link warning stops firing.
const minInternalLinks = 3

// Findings evaluates the fixed rule list against an extracted page and
// appends one win or issue per rule. Rules are independent and always
// run in the same order, so reports stay stable between runs.
func Findings(p *model.Page) {
	if p.Title != "" {
		p.Wins = append(p.Wins, winTitle)
	} else {
		p.Issues = append(p.Issues, issueTitle)
	}

	if p.Description != "" {
		p.Wins = append(p.Wins, winDesc)
	} else {
		p.Issues = append(p.Issues, issueDesc)
	}

	if p.Canonical != "" {
		p.Wins = append(p.Wins, winCanonical)
	} else {
		p.Issues = append(p.Issues, issueCanonical)
	}

	switch {
	case len(p.H1) == 1:
		p.Wins = append(p.Wins, winOneH1)
	case len(p.H1) == 0:
		p.Issues = append(p.Issues, issueNoH1)
	default:
		p.Issues = append(p.Issues, issueManyH1)
	}

	if len(p.SchemaTypes) > 0 {
		p.Wins = append(p.Wins, winSchema)
	} else {
		p.Issues = append(p.Issues, issueNoSchema)
	}

	if p.InternalLinks == 0 {
		p.Issues = append(p.Issues, issueNoLinks)
	} else if p.InternalLinks < minInternalLinks {
		p.Issues = append(p.Issues, issueFewLinks)
	}

	if p.Images > 0 && p.ImagesMissingAlt > 0 {
		p.Issues = append(p.Issues, issueAlt)
	} else {
		p.Wins = append(p.Wins, winAlt)
	}

	if p.HasSocialMeta() {
		p.Wins = append(p.Wins, winSocial)
	} else {
		p.Issues = append(p.Issues, issueSocial)
	}

	if p.WordCount < thinContentWords {
		p.Issues = append(p.Issues, issueThin)
	}

	if p.NoIndex() {
		p.Issues = append(p.Issues, issueNoIndex)
	}
}
