package report

import (
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/score"
)

// Summary bundles a crawled site with everything the writers need:
// per-page scores, sector scores, the weighted overall score, the grade,
// and the recommended actions. Computing it once keeps MultiWriter output
// consistent across formats.
type Summary struct {
	// Site is the crawled site record.
	Site *model.Site `json:"site"`

	// OverallScore is the weighted site score in [0, 100].
	OverallScore int `json:"overall_score"`

	// Grade is the letter grade (A through E) for OverallScore.
	Grade string `json:"grade"`

	// GradeLabel is the human-readable label for the grade.
	GradeLabel string `json:"grade_label"`

	// Sectors holds the six site-level sector scores.
	Sectors score.SectorScores `json:"sectors"`

	// Actions is the prioritized list of recommended fixes.
	Actions []string `json:"actions"`

	// Pages holds per-page scores in crawl order, parallel to Site.Pages.
	Pages []PageSummary `json:"pages"`
}

// PageSummary is the scored view of a single audited page.
type PageSummary struct {
	// URL is the page's normalized URL.
	URL string `json:"url"`

	// Score is the page score in [0, 100].
	Score int `json:"score"`

	// Grade is the letter grade for Score.
	Grade string `json:"grade"`

	// Breakdown itemizes the score by category.
	Breakdown score.Breakdown `json:"breakdown"`
}

// NewSummary scores a crawled site and assembles the report summary.
func NewSummary(site *model.Site) *Summary {
	overall := score.Overall(site)
	grade, label := model.Grade(overall)

	s := &Summary{
		Site:         site,
		OverallScore: overall,
		Grade:        grade,
		GradeLabel:   label,
		Sectors:      score.Sectors(site),
		Actions:      score.Actions(site),
		Pages:        make([]PageSummary, 0, len(site.Pages)),
	}

	for _, p := range site.Pages {
		total, breakdown := score.Page(p)
		pageGrade, _ := model.Grade(total)
		s.Pages = append(s.Pages, PageSummary{
			URL:       p.URL,
			Score:     total,
			Grade:     pageGrade,
			Breakdown: breakdown,
		})
	}

	return s
}

// PagesByGrade counts audited pages per letter grade. Grades with no
// pages are omitted.
func (s *Summary) PagesByGrade() map[string]int {
	counts := make(map[string]int)
	for _, p := range s.Pages {
		counts[p.Grade]++
	}
	return counts
}
