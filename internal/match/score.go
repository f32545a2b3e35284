package match

import (
	"math"
	"strings"
)

// Sub-score weights. They sum to MaxScore.
const (
	YearWeight     = 30
	PeriodWeight   = 25
	LocationWeight = 25
	KeywordWeight  = 20

	MaxScore = YearWeight + PeriodWeight + LocationWeight + KeywordWeight

	periodPartial  = 15
	locationPerTok = 10
	yearStep       = 10
	yearWindow     = 2
)

// Score returns the match score of c against q, an integer in [0, 100].
func Score(c Candidate, q Criteria) int {
	return Explain(c, q).Total()
}

// Explain returns the per-component scores of c against q.
func Explain(c Candidate, q Criteria) Breakdown {
	return Breakdown{
		Year:     float64(yearScore(c.Year, q.Year)),
		Period:   float64(periodScore(c.Period, q.Period)),
		Location: float64(locationScore(c.Location, q.Location)),
		Keywords: keywordScore(c, q.Keywords),
	}
}

func yearScore(candidate, wanted int) int {
	if candidate == wanted {
		return YearWeight
	}
	diff := candidate - wanted
	if diff < 0 {
		diff = -diff
	}
	if diff > yearWindow {
		return 0
	}
	return max(0, YearWeight-diff*yearStep)
}

// periodScore credits exact labels fully and labels that contain one another
// partially. Containment is literal, so an empty label sits inside any other.
func periodScore(candidate, wanted string) int {
	if candidate == wanted {
		return PeriodWeight
	}
	if strings.Contains(candidate, wanted) || strings.Contains(wanted, candidate) {
		return periodPartial
	}
	return 0
}

// locationScore compares administrative units from the most general one.
// The second unit only counts when the first one already matched.
func locationScore(candidate, wanted string) int {
	if candidate == wanted {
		return LocationWeight
	}
	a, b := strings.Fields(candidate), strings.Fields(wanted)
	if len(a) == 0 || len(b) == 0 || a[0] != b[0] {
		return 0
	}
	score := locationPerTok
	if len(a) >= 2 && len(b) >= 2 && a[1] == b[1] {
		score += locationPerTok
	}
	return score
}

func keywordScore(c Candidate, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	info := strings.ToLower(c.AdditionalInfo)
	bio := strings.ToLower(c.Bio)

	matched := 0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(info, kw) || strings.Contains(bio, kw) {
			matched++
		}
	}
	return math.Min(KeywordWeight, float64(matched)/float64(len(keywords))*KeywordWeight)
}

// roundHalfUp rounds to the nearest integer, halves going up.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}
