package score

import (
	"unicode/utf8"

	"github.com/seolens/seolens/internal/model"
)

// Length bands for metadata quality. Inside the band earns full points,
// outside still earns partial credit because presence matters more
// than perfect length.
const (
	titleMinLen = 15
	titleMaxLen = 65
	descMinLen  = 70
	descMaxLen  = 160
)

// minWordsOK is the word count considered substantial content.
const minWordsOK = 250

// preferredSchemaTypes are entity types that identify who is behind
// the site. Any structured data earns points; these earn the maximum.
var preferredSchemaTypes = map[string]bool{
	"Organization":        true,
	"LocalBusiness":       true,
	"ProfessionalService": true,
	"Person":              true,
	"WebSite":             true,
}

// Breakdown is a page score split into its six capped categories.
// The category ceilings sum to 100.
type Breakdown struct {
	// Meta covers title, description, and canonical. Cap 25.
	Meta int `json:"meta"`

	// Content covers word count, H2/H3 usage, and lang. Cap 25.
	Content int `json:"content"`

	// Structure covers the H1 rule and the viewport tag. Cap 15.
	Structure int `json:"structure"`

	// Schema covers structured data presence and type quality. Cap 15.
	Schema int `json:"schema"`

	// LinksMedia covers image ALT coverage and link counts. Cap 10.
	LinksMedia int `json:"links_media"`

	// BasicsPerf covers HTTP status, noindex, and load time. Cap 10.
	BasicsPerf int `json:"basics_perf"`
}

// Total returns the page score, the plain sum of all categories.
func (b Breakdown) Total() int {
	return b.Meta + b.Content + b.Structure + b.Schema + b.LinksMedia + b.BasicsPerf
}

// Page scores a single audit record against the fixed rubric.
// The returned total always equals breakdown.Total() and lies in [0, 100].
func Page(p *model.Page) (int, Breakdown) {
	var b Breakdown

	// meta (25)
	meta := 0
	if p.Title != "" {
		if n := utf8.RuneCountInString(p.Title); n >= titleMinLen && n <= titleMaxLen {
			meta += 10
		} else {
			meta += 6
		}
	}
	if p.Description != "" {
		if n := utf8.RuneCountInString(p.Description); n >= descMinLen && n <= descMaxLen {
			meta += 10
		} else {
			meta += 6
		}
	}
	if p.Canonical != "" {
		meta += 5
	}
	b.Meta = clamp(meta, 0, 25)

	// content (25)
	content := 0
	switch {
	case p.WordCount >= minWordsOK:
		content += 12
	case p.WordCount >= 150:
		content += 8
	case p.WordCount >= 80:
		content += 4
	}
	if len(p.H2) >= 1 {
		content += 6
	}
	if len(p.H3) >= 1 {
		content += 3
	}
	if p.Lang != "" {
		content += 4
	}
	b.Content = clamp(content, 0, 25)

	// structure (15)
	structure := 0
	switch {
	case len(p.H1) == 1:
		structure += 10
	case len(p.H1) > 1:
		structure += 6
	}
	if p.HasViewport {
		structure += 5
	}
	b.Structure = clamp(structure, 0, 15)

	// schema (15)
	schema := 0
	if len(p.SchemaTypes) > 0 {
		schema = 12
		for _, t := range p.SchemaTypes {
			if preferredSchemaTypes[t] {
				schema = 15
				break
			}
		}
	}
	b.Schema = clamp(schema, 0, 15)

	// links/media (10)
	lm := 0
	if p.Images == 0 {
		lm += 2
	} else {
		switch ratio := float64(p.ImagesMissingAlt) / float64(p.Images); {
		case ratio == 0:
			lm += 5
		case ratio <= 0.25:
			lm += 3
		default:
			lm += 1
		}
	}
	switch {
	case p.InternalLinks >= 3:
		lm += 3
	case p.InternalLinks >= 1:
		lm += 2
	}
	if p.ExternalLinks >= 1 {
		lm += 2
	}
	b.LinksMedia = clamp(lm, 0, 10)

	// basics/perf (10)
	// The only negative term in the rubric lives here: noindex undoes
	// the healthy-status points before clamping.
	bp := 0
	if p.Status >= 200 && p.Status < 300 {
		bp += 4
	}
	if p.NoIndex() {
		bp -= 4
	}
	switch sec := p.LoadSeconds(); {
	case sec < 2.0:
		bp += 6
	case sec < 4.0:
		bp += 4
	case sec < 6.0:
		bp += 2
	}
	b.BasicsPerf = clamp(bp, 0, 10)

	return b.Total(), b
}

// clamp bounds n to [lo, hi].
func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
