package domain

import "time"

// SeekerAvailability describes when a seeker would like to meet.
type SeekerAvailability struct {
	PreferredDays  []string `json:"preferred_days"`
	PreferredTimes []string `json:"preferred_times"`
	Timezone       string   `json:"timezone"`
}

// SeekerPreferences is what a seeker is looking for in a helper.
// Languages, TherapyTypes, Specialties and both availability lists are
// always present; an empty list means the seeker stated nothing for it.
type SeekerPreferences struct {
	UserID       int                `json:"user_id"`
	Languages    []string           `json:"languages"`
	TherapyTypes []string           `json:"therapy_types"`
	Specialties  []string           `json:"specialties"`
	Availability SeekerAvailability `json:"availability"`
	Gender       *string            `json:"gender,omitempty"`
	AgeMin       *int               `json:"age_min,omitempty"`
	AgeMax       *int               `json:"age_max,omitempty"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// NewSeekerPreferences returns an empty preferences record for a seeker.
func NewSeekerPreferences(userID int) *SeekerPreferences {
	p := &SeekerPreferences{UserID: userID}
	p.Normalize()
	return p
}

// Normalize replaces nil lists with empty ones.
func (p *SeekerPreferences) Normalize() {
	p.Languages = nonNil(p.Languages)
	p.TherapyTypes = nonNil(p.TherapyTypes)
	p.Specialties = nonNil(p.Specialties)
	p.Availability.PreferredDays = nonNil(p.Availability.PreferredDays)
	p.Availability.PreferredTimes = nonNil(p.Availability.PreferredTimes)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Seeker is a seeker account together with their preferences.
type Seeker struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Preferences SeekerPreferences `json:"seeker_preferences"`
}
