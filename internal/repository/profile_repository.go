package repository

import (
	"context"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
)

// ProfileReader is the read side of the profile store used for matching.
type ProfileReader interface {
	// GetSeekerPreferences returns domain.ErrPreferencesNotFound when the
	// seeker does not exist or has no preferences record.
	GetSeekerPreferences(ctx context.Context, seekerID int) (*domain.SeekerPreferences, error)
	// ListVerifiedHelpers returns every user with the helper role whose
	// profile is verified.
	ListVerifiedHelpers(ctx context.Context) ([]*domain.Helper, error)
}

type ProfileRepository interface {
	ProfileReader

	UpsertSeekerPreferences(ctx context.Context, prefs *domain.SeekerPreferences) error

	GetHelper(ctx context.Context, helperID int) (*domain.Helper, error)
	GetHelperProfile(ctx context.Context, userID int) (*domain.HelperProfile, error)
	// UpsertHelperProfile never changes the verification flag.
	UpsertHelperProfile(ctx context.Context, profile *domain.HelperProfile) error
	SetHelperVerified(ctx context.Context, helperID int, verified bool) error
	ListHelpers(ctx context.Context, verified *bool) ([]*domain.Helper, error)

	// FindSeekersForHelper returns seekers whose therapy types, specialties
	// and languages each overlap with the helper's offering.
	FindSeekersForHelper(ctx context.Context, profile *domain.HelperProfile) ([]*domain.Seeker, error)
}
