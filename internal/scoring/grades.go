package scoring

// Grade converts a health score to a letter grade.
//
//	A+ (90+): exceptional, passes all tiers with excellence
//	A  (80-89): full schema, good optimization
//	B  (65-79): has schema, some gaps
//	C  (45-64): missing schema or notable issues
//	D  (25-44): major gaps, partial AI access
//	F  (<25): blocks AI or fundamental issues
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 65:
		return "B"
	case score >= 45:
		return "C"
	case score >= 25:
		return "D"
	default:
		return "F"
	}
}

// VisibilityBand converts a score to its band name and hex color.
func VisibilityBand(score float64) (string, string) {
	switch {
	case score >= 80:
		return "Excellent", "#22c55e"
	case score >= 65:
		return "Strong", "#84cc16"
	case score >= 45:
		return "Moderate", "#eab308"
	case score >= 25:
		return "Weak", "#f97316"
	default:
		return "Critical", "#ef4444"
	}
}

// CombinedScore weighs site health 60% and AI visibility 40%, rounded to
// one decimal.
func CombinedScore(health, visibility float64) float64 {
	return round1(health*0.6 + visibility*0.4)
}

// CombinedGrade converts a combined score to a letter grade. The bands are
// tighter than the health grade bands: B starts at 70 and every grade below
// A spans ten points.
func CombinedGrade(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}
