package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gdugdh24/therapymatch-backend/internal/repository"
	"go.uber.org/zap"
)

// Explainer writes a short human explanation of why a helper fits a seeker.
type Explainer interface {
	ExplainMatch(ctx context.Context, prefs *domain.SeekerPreferences, helper *domain.Helper, result domain.MatchResult) (string, error)
}

const (
	ExplanationSourceAI       = "ai"
	ExplanationSourceTemplate = "template"
)

type MatchExplanation struct {
	domain.MatchResult
	Explanation string `json:"explanation"`
	Source      string `json:"source"`
}

// ExplanationService scores a single helper for a seeker and describes the fit.
type ExplanationService struct {
	profiles  repository.ProfileRepository
	scorer    *Scorer
	explainer Explainer
	logger    *zap.Logger
}

// NewExplanationService creates the service. explainer may be nil, in which
// case explanations are always built from the score breakdown.
func NewExplanationService(
	profiles repository.ProfileRepository,
	scorer *Scorer,
	explainer Explainer,
	logger *zap.Logger,
) *ExplanationService {
	return &ExplanationService{
		profiles:  profiles,
		scorer:    scorer,
		explainer: explainer,
		logger:    logger,
	}
}

// Explain returns domain.ErrHelperNotFound for unknown or unverified helpers.
func (s *ExplanationService) Explain(ctx context.Context, seekerID, helperID int) (*MatchExplanation, error) {
	prefs, err := s.profiles.GetSeekerPreferences(ctx, seekerID)
	if err != nil {
		if errors.Is(err, domain.ErrPreferencesNotFound) {
			return nil, domain.ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("%w: get seeker preferences: %w", domain.ErrUpstreamUnavailable, err)
	}

	helper, err := s.profiles.GetHelper(ctx, helperID)
	if err != nil {
		if errors.Is(err, domain.ErrHelperNotFound) {
			return nil, domain.ErrHelperNotFound
		}
		return nil, fmt.Errorf("%w: get helper: %w", domain.ErrUpstreamUnavailable, err)
	}
	if !helper.Profile.IsVerified {
		return nil, domain.ErrHelperNotFound
	}

	result := s.scorer.Result(prefs, helper)
	explanation := &MatchExplanation{
		MatchResult: result,
		Explanation: TemplateExplanation(helper, result),
		Source:      ExplanationSourceTemplate,
	}

	if s.explainer == nil {
		return explanation, nil
	}

	text, err := s.explainer.ExplainMatch(ctx, prefs, helper, result)
	if err != nil {
		s.logger.Warn("ai explanation unavailable, using template",
			zap.Int("seeker_id", seekerID),
			zap.Int("helper_id", helperID),
			zap.Error(err),
		)
		return explanation, nil
	}
	if text = strings.TrimSpace(text); text != "" {
		explanation.Explanation = text
		explanation.Source = ExplanationSourceAI
	}
	return explanation, nil
}

// TemplateExplanation describes a match from its breakdown alone.
func TemplateExplanation(helper *domain.Helper, result domain.MatchResult) string {
	type criterion struct {
		name   string
		score  float64
		weight float64
	}
	criteria := []criterion{
		{"languages", result.Breakdown.Languages, domain.WeightLanguages},
		{"therapy approach", result.Breakdown.TherapyTypes, domain.WeightTherapyTypes},
		{"specialties", result.Breakdown.Specialties, domain.WeightSpecialties},
		{"availability", result.Breakdown.Availability, domain.WeightAvailableDays + domain.WeightAvailableTimes},
	}

	var full, partial []string
	for _, c := range criteria {
		switch {
		case c.score >= c.weight:
			full = append(full, c.name)
		case c.score > 0:
			partial = append(partial, c.name)
		}
	}

	name := helper.Name
	if name == "" {
		name = "This helper"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s scores %.0f out of 100 for you.", name, result.Score)
	if len(full) > 0 {
		fmt.Fprintf(&sb, " Full match on %s.", strings.Join(full, ", "))
	}
	if len(partial) > 0 {
		fmt.Fprintf(&sb, " Partial match on %s.", strings.Join(partial, ", "))
	}
	if len(full) == 0 && len(partial) == 0 {
		sb.WriteString(" None of your stated preferences overlap yet.")
	}
	return sb.String()
}
