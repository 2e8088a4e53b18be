package domain

import "time"

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        int    `json:"year"`
}

type Certification struct {
	Name        string `json:"name"`
	IssuingBody string `json:"issuing_body"`
	Year        int    `json:"year"`
}

// HelperAvailability describes when a helper takes sessions.
type HelperAvailability struct {
	AvailableDays  []string `json:"available_days"`
	AvailableTimes []string `json:"available_times"`
	Timezone       string   `json:"timezone"`
}

// HelperProfile is what a helper offers to seekers.
type HelperProfile struct {
	UserID         int                `json:"user_id"`
	Title          string             `json:"title"`
	Bio            string             `json:"bio"`
	Languages      []string           `json:"languages"`
	TherapyTypes   []string           `json:"therapy_types"`
	Specialties    []string           `json:"specialties"`
	Education      []Education        `json:"education"`
	Certifications []Certification    `json:"certifications"`
	Experience     int                `json:"experience"`
	Availability   HelperAvailability `json:"availability"`
	HourlyRate     float64            `json:"hourly_rate"`
	IsVerified     bool               `json:"is_verified"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NewHelperProfile returns an empty, unverified profile.
func NewHelperProfile(userID int) *HelperProfile {
	p := &HelperProfile{UserID: userID}
	p.Normalize()
	return p
}

// Normalize replaces nil lists with empty ones.
func (p *HelperProfile) Normalize() {
	p.Languages = nonNil(p.Languages)
	p.TherapyTypes = nonNil(p.TherapyTypes)
	p.Specialties = nonNil(p.Specialties)
	p.Availability.AvailableDays = nonNil(p.Availability.AvailableDays)
	p.Availability.AvailableTimes = nonNil(p.Availability.AvailableTimes)
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Certifications == nil {
		p.Certifications = []Certification{}
	}
}

// Helper is a user with the helper role together with their profile.
// It carries no credentials and is safe to return to other users.
type Helper struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Profile HelperProfile `json:"helper_profile"`
}
