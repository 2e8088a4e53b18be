package matching

import (
	"fmt"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
)

// EmptyPreferencePolicy decides what a criterion contributes when the
// seeker left the corresponding preference list empty.
type EmptyPreferencePolicy string

const (
	// EmptyPreferenceIgnore scores an empty preference list as 0.
	EmptyPreferenceIgnore EmptyPreferencePolicy = "ignore"
	// EmptyPreferenceSatisfied scores an empty preference list with the
	// criterion's full weight.
	EmptyPreferenceSatisfied EmptyPreferencePolicy = "satisfied"
)

// ParseEmptyPreferencePolicy parses a policy name. An empty string selects
// EmptyPreferenceIgnore.
func ParseEmptyPreferencePolicy(s string) (EmptyPreferencePolicy, error) {
	switch EmptyPreferencePolicy(s) {
	case "", EmptyPreferenceIgnore:
		return EmptyPreferenceIgnore, nil
	case EmptyPreferenceSatisfied:
		return EmptyPreferenceSatisfied, nil
	}
	return "", fmt.Errorf("unknown empty preference policy %q", s)
}

// Scorer computes weighted coverage of a seeker's wishlist by a helper.
type Scorer struct {
	policy EmptyPreferencePolicy
}

func NewScorer(policy EmptyPreferencePolicy) *Scorer {
	if policy != EmptyPreferenceSatisfied {
		policy = EmptyPreferenceIgnore
	}
	return &Scorer{policy: policy}
}

func (s *Scorer) Policy() EmptyPreferencePolicy {
	return s.policy
}

// Breakdown scores every criterion. Each ratio is the share of the seeker's
// distinct wishes the helper covers, so it never exceeds 1.
func (s *Scorer) Breakdown(prefs *domain.SeekerPreferences, helper *domain.HelperProfile) domain.MatchBreakdown {
	return domain.MatchBreakdown{
		Languages:    s.coverage(prefs.Languages, helper.Languages, domain.WeightLanguages),
		TherapyTypes: s.coverage(prefs.TherapyTypes, helper.TherapyTypes, domain.WeightTherapyTypes),
		Specialties:  s.coverage(prefs.Specialties, helper.Specialties, domain.WeightSpecialties),
		Availability: s.coverage(prefs.Availability.PreferredDays, helper.Availability.AvailableDays, domain.WeightAvailableDays) +
			s.coverage(prefs.Availability.PreferredTimes, helper.Availability.AvailableTimes, domain.WeightAvailableTimes),
	}
}

// Result scores a helper. Score is always Breakdown.Total().
func (s *Scorer) Result(prefs *domain.SeekerPreferences, helper *domain.Helper) domain.MatchResult {
	breakdown := s.Breakdown(prefs, &helper.Profile)
	return domain.MatchResult{
		HelperID:  helper.ID,
		Score:     breakdown.Total(),
		Breakdown: breakdown,
	}
}

func (s *Scorer) coverage(wanted, offered []string, weight float64) float64 {
	want := toSet(wanted)
	if len(want) == 0 {
		if s.policy == EmptyPreferenceSatisfied {
			return weight
		}
		return 0
	}

	matched := 0
	for v := range toSet(offered) {
		if _, ok := want[v]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(want)) * weight
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
