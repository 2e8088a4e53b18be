package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gdugdh24/therapymatch-backend/internal/repository"
	"go.uber.org/zap"
)

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	logger      *zap.Logger
}

func NewProfileUseCase(profileRepo repository.ProfileRepository, logger *zap.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// AvailabilityRequest is shared by seeker and helper payloads.
type AvailabilityRequest struct {
	Days     []string `json:"days" binding:"omitempty,max=7,dive,max=32"`
	Times    []string `json:"times" binding:"omitempty,max=24,dive,max=32"`
	Timezone string   `json:"timezone" binding:"omitempty,max=64"`
}

// UpdatePreferencesRequest replaces a seeker's preferences as a whole.
type UpdatePreferencesRequest struct {
	Languages    []string            `json:"languages" binding:"omitempty,max=50,dive,max=64"`
	TherapyTypes []string            `json:"therapy_types" binding:"omitempty,max=50,dive,max=64"`
	Specialties  []string            `json:"specialties" binding:"omitempty,max=50,dive,max=64"`
	Availability AvailabilityRequest `json:"availability"`
	Gender       *string             `json:"gender" binding:"omitempty,max=32"`
	AgeMin       *int                `json:"age_min" binding:"omitempty,min=18,max=120"`
	AgeMax       *int                `json:"age_max" binding:"omitempty,min=18,max=120"`
}

// UpdateHelperProfileRequest replaces a helper's profile. Verification is
// not part of it.
type UpdateHelperProfileRequest struct {
	Title          string                 `json:"title" binding:"omitempty,max=255"`
	Bio            string                 `json:"bio" binding:"omitempty,max=5000"`
	Languages      []string               `json:"languages" binding:"omitempty,max=50,dive,max=64"`
	TherapyTypes   []string               `json:"therapy_types" binding:"omitempty,max=50,dive,max=64"`
	Specialties    []string               `json:"specialties" binding:"omitempty,max=50,dive,max=64"`
	Education      []domain.Education     `json:"education" binding:"omitempty,max=20"`
	Certifications []domain.Certification `json:"certifications" binding:"omitempty,max=20"`
	Experience     int                    `json:"experience" binding:"omitempty,min=0,max=80"`
	Availability   AvailabilityRequest    `json:"availability"`
	HourlyRate     float64                `json:"hourly_rate" binding:"omitempty,min=0"`
}

func (uc *ProfileUseCase) GetSeekerPreferences(ctx context.Context, userID int) (*domain.SeekerPreferences, error) {
	return uc.profileRepo.GetSeekerPreferences(ctx, userID)
}

func (uc *ProfileUseCase) UpdateSeekerPreferences(ctx context.Context, userID int, req *UpdatePreferencesRequest) (*domain.SeekerPreferences, error) {
	if req.AgeMin != nil && req.AgeMax != nil && *req.AgeMin > *req.AgeMax {
		return nil, fmt.Errorf("%w: age_min must not exceed age_max", domain.ErrInvalidInput)
	}

	prefs := &domain.SeekerPreferences{
		UserID:       userID,
		Languages:    cleanList(req.Languages),
		TherapyTypes: cleanList(req.TherapyTypes),
		Specialties:  cleanList(req.Specialties),
		Availability: domain.SeekerAvailability{
			PreferredDays:  cleanList(req.Availability.Days),
			PreferredTimes: cleanList(req.Availability.Times),
			Timezone:       strings.TrimSpace(req.Availability.Timezone),
		},
		Gender: req.Gender,
		AgeMin: req.AgeMin,
		AgeMax: req.AgeMax,
	}

	if err := uc.profileRepo.UpsertSeekerPreferences(ctx, prefs); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	uc.logger.Info("Seeker preferences updated", zap.Int("user_id", userID))
	return prefs, nil
}

func (uc *ProfileUseCase) GetHelperProfile(ctx context.Context, userID int) (*domain.HelperProfile, error) {
	return uc.profileRepo.GetHelperProfile(ctx, userID)
}

func (uc *ProfileUseCase) UpdateHelperProfile(ctx context.Context, userID int, req *UpdateHelperProfileRequest) (*domain.HelperProfile, error) {
	profile := &domain.HelperProfile{
		UserID:         userID,
		Title:          strings.TrimSpace(req.Title),
		Bio:            strings.TrimSpace(req.Bio),
		Languages:      cleanList(req.Languages),
		TherapyTypes:   cleanList(req.TherapyTypes),
		Specialties:    cleanList(req.Specialties),
		Education:      req.Education,
		Certifications: req.Certifications,
		Experience:     req.Experience,
		Availability: domain.HelperAvailability{
			AvailableDays:  cleanList(req.Availability.Days),
			AvailableTimes: cleanList(req.Availability.Times),
			Timezone:       strings.TrimSpace(req.Availability.Timezone),
		},
		HourlyRate: req.HourlyRate,
	}

	if err := uc.profileRepo.UpsertHelperProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update helper profile: %w", err)
	}

	uc.logger.Info("Helper profile updated", zap.Int("user_id", userID), zap.Bool("verified", profile.IsVerified))
	return profile, nil
}

// GetPendingMatches lists seekers whose therapy types, specialties and
// languages all overlap with what the helper offers.
func (uc *ProfileUseCase) GetPendingMatches(ctx context.Context, helperID int) ([]*domain.Seeker, error) {
	profile, err := uc.profileRepo.GetHelperProfile(ctx, helperID)
	if err != nil {
		return nil, err
	}
	if len(profile.TherapyTypes) == 0 || len(profile.Specialties) == 0 || len(profile.Languages) == 0 {
		return []*domain.Seeker{}, nil
	}

	seekers, err := uc.profileRepo.FindSeekersForHelper(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to find seekers: %w", err)
	}
	return seekers, nil
}

// SetHelperVerification flips the verified flag and returns the helper as
// now stored.
func (uc *ProfileUseCase) SetHelperVerification(ctx context.Context, helperID int, verified bool) (*domain.Helper, error) {
	if err := uc.profileRepo.SetHelperVerified(ctx, helperID, verified); err != nil {
		if errors.Is(err, domain.ErrHelperNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to set verification: %w", err)
	}

	uc.logger.Info("Helper verification changed", zap.Int("helper_id", helperID), zap.Bool("verified", verified))
	return uc.profileRepo.GetHelper(ctx, helperID)
}

func (uc *ProfileUseCase) ListHelpers(ctx context.Context, verified *bool) ([]*domain.Helper, error) {
	return uc.profileRepo.ListHelpers(ctx, verified)
}

// cleanList trims entries and drops blanks and exact duplicates, keeping
// first-seen order.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
