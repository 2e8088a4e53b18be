package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gdugdh24/therapymatch-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

const helperColumns = `
	u.id, u.name, u.email,
	hp.title, hp.bio, hp.languages, hp.therapy_types, hp.specialties,
	hp.education, hp.certifications, hp.experience,
	hp.available_days, hp.available_times, hp.timezone,
	hp.hourly_rate, hp.is_verified, hp.updated_at
`

const preferencesColumns = `
	sp.user_id, sp.languages, sp.therapy_types, sp.specialties,
	sp.preferred_days, sp.preferred_times, sp.timezone,
	sp.gender, sp.age_min, sp.age_max, sp.updated_at
`

type helperRow struct {
	ID             int            `db:"id"`
	Name           string         `db:"name"`
	Email          string         `db:"email"`
	Title          string         `db:"title"`
	Bio            string         `db:"bio"`
	Languages      pq.StringArray `db:"languages"`
	TherapyTypes   pq.StringArray `db:"therapy_types"`
	Specialties    pq.StringArray `db:"specialties"`
	Education      types.JSONText `db:"education"`
	Certifications types.JSONText `db:"certifications"`
	Experience     int            `db:"experience"`
	AvailableDays  pq.StringArray `db:"available_days"`
	AvailableTimes pq.StringArray `db:"available_times"`
	Timezone       string         `db:"timezone"`
	HourlyRate     float64        `db:"hourly_rate"`
	IsVerified     bool           `db:"is_verified"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r *helperRow) toDomain() (*domain.Helper, error) {
	profile := domain.HelperProfile{
		UserID:       r.ID,
		Title:        r.Title,
		Bio:          r.Bio,
		Languages:    []string(r.Languages),
		TherapyTypes: []string(r.TherapyTypes),
		Specialties:  []string(r.Specialties),
		Experience:   r.Experience,
		Availability: domain.HelperAvailability{
			AvailableDays:  []string(r.AvailableDays),
			AvailableTimes: []string(r.AvailableTimes),
			Timezone:       r.Timezone,
		},
		HourlyRate: r.HourlyRate,
		IsVerified: r.IsVerified,
		UpdatedAt:  r.UpdatedAt,
	}
	if len(r.Education) > 0 {
		if err := r.Education.Unmarshal(&profile.Education); err != nil {
			return nil, fmt.Errorf("decode education of helper %d: %w", r.ID, err)
		}
	}
	if len(r.Certifications) > 0 {
		if err := r.Certifications.Unmarshal(&profile.Certifications); err != nil {
			return nil, fmt.Errorf("decode certifications of helper %d: %w", r.ID, err)
		}
	}
	profile.Normalize()

	return &domain.Helper{
		ID:      r.ID,
		Name:    r.Name,
		Email:   r.Email,
		Profile: profile,
	}, nil
}

type preferencesRow struct {
	UserID         int            `db:"user_id"`
	Languages      pq.StringArray `db:"languages"`
	TherapyTypes   pq.StringArray `db:"therapy_types"`
	Specialties    pq.StringArray `db:"specialties"`
	PreferredDays  pq.StringArray `db:"preferred_days"`
	PreferredTimes pq.StringArray `db:"preferred_times"`
	Timezone       string         `db:"timezone"`
	Gender         *string        `db:"gender"`
	AgeMin         *int           `db:"age_min"`
	AgeMax         *int           `db:"age_max"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r *preferencesRow) toDomain() *domain.SeekerPreferences {
	prefs := &domain.SeekerPreferences{
		UserID:       r.UserID,
		Languages:    []string(r.Languages),
		TherapyTypes: []string(r.TherapyTypes),
		Specialties:  []string(r.Specialties),
		Availability: domain.SeekerAvailability{
			PreferredDays:  []string(r.PreferredDays),
			PreferredTimes: []string(r.PreferredTimes),
			Timezone:       r.Timezone,
		},
		Gender:    r.Gender,
		AgeMin:    r.AgeMin,
		AgeMax:    r.AgeMax,
		UpdatedAt: r.UpdatedAt,
	}
	prefs.Normalize()
	return prefs
}

type seekerRow struct {
	ID    int    `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
	preferencesRow
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetSeekerPreferences(ctx context.Context, seekerID int) (*domain.SeekerPreferences, error) {
	var row preferencesRow
	query := `SELECT ` + preferencesColumns + `
		FROM seeker_preferences sp
		JOIN users u ON u.id = sp.user_id
		WHERE sp.user_id = $1 AND u.role = 'seeker'
	`
	err := r.db.GetContext(ctx, &row, query, seekerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPreferencesNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *profileRepository) UpsertSeekerPreferences(ctx context.Context, prefs *domain.SeekerPreferences) error {
	prefs.Normalize()
	query := `
		INSERT INTO seeker_preferences (
			user_id, languages, therapy_types, specialties,
			preferred_days, preferred_times, timezone,
			gender, age_min, age_max, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET languages = EXCLUDED.languages, therapy_types = EXCLUDED.therapy_types,
		    specialties = EXCLUDED.specialties, preferred_days = EXCLUDED.preferred_days,
		    preferred_times = EXCLUDED.preferred_times, timezone = EXCLUDED.timezone,
		    gender = EXCLUDED.gender, age_min = EXCLUDED.age_min, age_max = EXCLUDED.age_max,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		prefs.UserID, pq.Array(prefs.Languages), pq.Array(prefs.TherapyTypes), pq.Array(prefs.Specialties),
		pq.Array(prefs.Availability.PreferredDays), pq.Array(prefs.Availability.PreferredTimes),
		prefs.Availability.Timezone, prefs.Gender, prefs.AgeMin, prefs.AgeMax,
	).Scan(&prefs.UpdatedAt)
}

func (r *profileRepository) GetHelper(ctx context.Context, helperID int) (*domain.Helper, error) {
	var row helperRow
	query := `SELECT ` + helperColumns + `
		FROM users u
		JOIN helper_profiles hp ON hp.user_id = u.id
		WHERE u.id = $1 AND u.role = 'helper'
	`
	err := r.db.GetContext(ctx, &row, query, helperID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHelperNotFound
		}
		return nil, err
	}
	return row.toDomain()
}

func (r *profileRepository) GetHelperProfile(ctx context.Context, userID int) (*domain.HelperProfile, error) {
	helper, err := r.GetHelper(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrHelperNotFound) {
			return nil, domain.ErrHelperProfileNotFound
		}
		return nil, err
	}
	return &helper.Profile, nil
}

func (r *profileRepository) UpsertHelperProfile(ctx context.Context, profile *domain.HelperProfile) error {
	profile.Normalize()

	education, err := json.Marshal(profile.Education)
	if err != nil {
		return fmt.Errorf("encode education: %w", err)
	}
	certifications, err := json.Marshal(profile.Certifications)
	if err != nil {
		return fmt.Errorf("encode certifications: %w", err)
	}

	// is_verified is left out on purpose: only the admin flow may change it.
	query := `
		INSERT INTO helper_profiles (
			user_id, title, bio, languages, therapy_types, specialties,
			education, certifications, experience,
			available_days, available_times, timezone, hourly_rate, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET title = EXCLUDED.title, bio = EXCLUDED.bio, languages = EXCLUDED.languages,
		    therapy_types = EXCLUDED.therapy_types, specialties = EXCLUDED.specialties,
		    education = EXCLUDED.education, certifications = EXCLUDED.certifications,
		    experience = EXCLUDED.experience, available_days = EXCLUDED.available_days,
		    available_times = EXCLUDED.available_times, timezone = EXCLUDED.timezone,
		    hourly_rate = EXCLUDED.hourly_rate, updated_at = CURRENT_TIMESTAMP
		RETURNING is_verified, updated_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		profile.UserID, profile.Title, profile.Bio,
		pq.Array(profile.Languages), pq.Array(profile.TherapyTypes), pq.Array(profile.Specialties),
		types.JSONText(education), types.JSONText(certifications), profile.Experience,
		pq.Array(profile.Availability.AvailableDays), pq.Array(profile.Availability.AvailableTimes),
		profile.Availability.Timezone, profile.HourlyRate,
	).Scan(&profile.IsVerified, &profile.UpdatedAt)
}

func (r *profileRepository) SetHelperVerified(ctx context.Context, helperID int, verified bool) error {
	query := `
		UPDATE helper_profiles hp
		SET is_verified = $1, updated_at = CURRENT_TIMESTAMP
		FROM users u
		WHERE hp.user_id = u.id AND u.id = $2 AND u.role = 'helper'
	`
	result, err := r.db.ExecContext(ctx, query, verified, helperID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHelperNotFound
	}
	return nil
}

func (r *profileRepository) ListVerifiedHelpers(ctx context.Context) ([]*domain.Helper, error) {
	verified := true
	return r.ListHelpers(ctx, &verified)
}

func (r *profileRepository) ListHelpers(ctx context.Context, verified *bool) ([]*domain.Helper, error) {
	query := `SELECT ` + helperColumns + `
		FROM users u
		JOIN helper_profiles hp ON hp.user_id = u.id
		WHERE u.role = 'helper'
	`
	args := []interface{}{}
	if verified != nil {
		query += ` AND hp.is_verified = $1`
		args = append(args, *verified)
	}
	query += ` ORDER BY u.id`

	var rows []helperRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	helpers := make([]*domain.Helper, 0, len(rows))
	for i := range rows {
		helper, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		helpers = append(helpers, helper)
	}
	return helpers, nil
}

func (r *profileRepository) FindSeekersForHelper(ctx context.Context, profile *domain.HelperProfile) ([]*domain.Seeker, error) {
	query := `SELECT u.id, u.name, u.email, ` + preferencesColumns + `
		FROM users u
		JOIN seeker_preferences sp ON sp.user_id = u.id
		WHERE u.role = 'seeker'
		  AND sp.therapy_types && $1
		  AND sp.specialties && $2
		  AND sp.languages && $3
		ORDER BY u.id
	`
	var rows []seekerRow
	err := r.db.SelectContext(
		ctx, &rows, query,
		pq.Array(profile.TherapyTypes), pq.Array(profile.Specialties), pq.Array(profile.Languages),
	)
	if err != nil {
		return nil, err
	}

	seekers := make([]*domain.Seeker, 0, len(rows))
	for i := range rows {
		seekers = append(seekers, &domain.Seeker{
			ID:          rows[i].ID,
			Name:        rows[i].Name,
			Email:       rows[i].Email,
			Preferences: *rows[i].preferencesRow.toDomain(),
		})
	}
	return seekers, nil
}
