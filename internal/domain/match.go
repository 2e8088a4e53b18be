package domain

// Criterion weights. They sum to 100.
const (
	WeightLanguages      = 30.0
	WeightTherapyTypes   = 25.0
	WeightSpecialties    = 25.0
	WeightAvailableDays  = 10.0
	WeightAvailableTimes = 10.0
)

// MatchBreakdown holds the per-criterion contributions to a match score.
type MatchBreakdown struct {
	Languages    float64 `json:"languages"`
	TherapyTypes float64 `json:"therapy_types"`
	Specialties  float64 `json:"specialties"`
	Availability float64 `json:"availability"`
}

// Total returns the sum of all criteria.
func (b MatchBreakdown) Total() float64 {
	return b.Languages + b.TherapyTypes + b.Specialties + b.Availability
}

type MatchResult struct {
	HelperID  int            `json:"helper_id"`
	Score     float64        `json:"score"`
	Breakdown MatchBreakdown `json:"breakdown"`
}

// HelperMatch is a ranked helper returned to a seeker.
type HelperMatch struct {
	Helper *Helper `json:"helper"`
	MatchResult
}
