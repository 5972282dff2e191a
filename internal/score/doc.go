// Package score turns audit records into numbers: a 0-100 score per
// page with a capped six-category breakdown, 0-100 sector scores per
// site, a weighted overall score, and the prioritized action list.
//
// Everything in this package is a pure function over model values.
// Scoring never performs I/O and never fails, which makes the rubric
// trivially testable and keeps reports reproducible for a given crawl.
package score
