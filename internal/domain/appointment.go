package domain

import "time"

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCancelled, AppointmentCompleted:
		return true
	}
	return false
}

type AppointmentType string

const (
	AppointmentInitial  AppointmentType = "initial"
	AppointmentFollowup AppointmentType = "followup"
)

// DefaultAppointmentDuration is used when a booking omits the duration, in minutes.
const DefaultAppointmentDuration = 60

type Appointment struct {
	ID          int               `json:"id" db:"id"`
	HelperID    int               `json:"helper_id" db:"helper_id"`
	SeekerID    int               `json:"seeker_id" db:"seeker_id"`
	DateTime    time.Time         `json:"date_time" db:"date_time"`
	Duration    int               `json:"duration" db:"duration"`
	Status      AppointmentStatus `json:"status" db:"status"`
	Type        AppointmentType   `json:"type" db:"type"`
	Notes       *string           `json:"notes,omitempty" db:"notes"`
	MeetingLink *string           `json:"meeting_link,omitempty" db:"meeting_link"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

func (a *Appointment) HasParticipant(userID int) bool {
	return a.HelperID == userID || a.SeekerID == userID
}

// EndTime returns when the session is scheduled to finish.
func (a *Appointment) EndTime() time.Time {
	return a.DateTime.Add(time.Duration(a.Duration) * time.Minute)
}
