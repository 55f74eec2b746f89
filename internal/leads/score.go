package leads

import "strings"

// MaxScore is the upper bound of a lead's priority score.
const MaxScore = 10

var sizeWeights = map[HomeSize]int{
	SizeStudio:       1,
	SizeApartment:    2,
	SizeTownhouse:    3,
	SizeSingleFamily: 4,
	SizeOffice:       5,
}

// Score computes the 0..10 priority score for a quote form.
//
// Scoring: +2 when the first three ZIP characters differ (both non-empty),
// the home-size weight (unknown sizes count as 2), +1 per selected service,
// and +2 for an ASAP timeline. Capped at MaxScore. Deterministic and
// side-effect free.
func Score(form QuoteForm) int {
	score := 0

	if form.FromZip != "" && form.ToZip != "" && zipPrefix(form.FromZip) != zipPrefix(form.ToZip) {
		score += 2
	}

	weight, ok := sizeWeights[form.Size]
	if !ok {
		weight = 2
	}
	score += weight

	score += form.Services.Count()

	if strings.Contains(string(form.Timing), "ASAP") {
		score += 2
	}

	if score > MaxScore {
		return MaxScore
	}
	return score
}

func zipPrefix(zip string) string {
	if len(zip) <= 3 {
		return zip
	}
	return zip[:3]
}
