package model

// Grade maps a 0-100 score to a letter grade and a short label usable
// in client-facing reports. The same scale is applied to page scores,
// sector scores, and the overall score.
func Grade(score int) (letter, label string) {
	switch {
	case score >= 90:
		return "A", "Excellent"
	case score >= 80:
		return "B", "Very good"
	case score >= 70:
		return "C", "Good"
	case score >= 55:
		return "D", "Needs attention"
	default:
		return "E", "Critical"
	}
}
