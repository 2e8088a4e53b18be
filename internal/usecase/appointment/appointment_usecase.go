package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gdugdh24/therapymatch-backend/internal/repository"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// busyStatuses are the states that block a helper's calendar.
var busyStatuses = []domain.AppointmentStatus{domain.AppointmentPending, domain.AppointmentConfirmed}

type AppointmentUseCase struct {
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	logger          *zap.Logger
	now             func() time.Time
}

func NewAppointmentUseCase(appointmentRepo repository.AppointmentRepository, userRepo repository.UserRepository, logger *zap.Logger) *AppointmentUseCase {
	return &AppointmentUseCase{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		logger:          logger,
		now:             time.Now,
	}
}

type CreateAppointmentRequest struct {
	DateTime time.Time              `json:"date_time" binding:"required"`
	Duration int                    `json:"duration" binding:"omitempty,min=30,max=120"`
	Type     domain.AppointmentType `json:"type" binding:"required,oneof=initial followup"`
	Notes    *string                `json:"notes" binding:"omitempty,max=500"`
}

type UpdateAppointmentRequest struct {
	Status      domain.AppointmentStatus `json:"status" binding:"required,oneof=confirmed cancelled completed"`
	Notes       *string                  `json:"notes" binding:"omitempty,max=500"`
	MeetingLink *string                  `json:"meeting_link" binding:"omitempty,url"`
}

type ListAppointmentsRequest struct {
	Status    *domain.AppointmentStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// Slot is a busy interval in a helper's day.
type Slot struct {
	AppointmentID int       `json:"appointment_id"`
	DateTime      time.Time `json:"date_time"`
	Duration      int       `json:"duration"`
}

func (uc *AppointmentUseCase) Create(ctx context.Context, seekerID, helperID int, req *CreateAppointmentRequest) (*domain.Appointment, error) {
	if !req.DateTime.After(uc.now()) {
		return nil, domain.ErrAppointmentInPast
	}
	duration := req.Duration
	if duration == 0 {
		duration = domain.DefaultAppointmentDuration
	}
	if duration < 30 || duration > 120 {
		return nil, fmt.Errorf("%w: duration must be between 30 and 120 minutes", domain.ErrInvalidInput)
	}
	if req.Type != domain.AppointmentInitial && req.Type != domain.AppointmentFollowup {
		return nil, fmt.Errorf("%w: unknown appointment type %q", domain.ErrInvalidInput, req.Type)
	}

	helper, err := uc.userRepo.GetByID(ctx, helperID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrHelperNotFound
		}
		return nil, fmt.Errorf("failed to get helper: %w", err)
	}
	if !helper.IsHelper() {
		return nil, domain.ErrHelperNotFound
	}

	appointment := &domain.Appointment{
		HelperID: helperID,
		SeekerID: seekerID,
		DateTime: req.DateTime.UTC(),
		Duration: duration,
		Status:   domain.AppointmentPending,
		Type:     req.Type,
		Notes:    trimmed(req.Notes),
	}
	if err := uc.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	uc.logger.Info("Appointment requested",
		zap.Int("appointment_id", appointment.ID),
		zap.Int("helper_id", helperID),
		zap.Int("seeker_id", seekerID),
	)
	return appointment, nil
}

func (uc *AppointmentUseCase) List(ctx context.Context, userID int, req ListAppointmentsRequest) ([]*domain.Appointment, error) {
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: end_date is before start_date", domain.ErrInvalidInput)
	}
	appointments, err := uc.appointmentRepo.ListForUser(ctx, userID, repository.AppointmentFilter{
		Status: req.Status,
		From:   req.StartDate,
		To:     req.EndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// Update changes status, notes and, for the helper only, the meeting link.
func (uc *AppointmentUseCase) Update(ctx context.Context, userID, appointmentID int, req *UpdateAppointmentRequest) (*domain.Appointment, error) {
	appointment, err := uc.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.HasParticipant(userID) {
		return nil, domain.ErrForbidden
	}

	link := trimmed(req.MeetingLink)
	if link != nil && appointment.HelperID != userID {
		return nil, domain.ErrMeetingLinkNotAllowed
	}

	switch req.Status {
	case domain.AppointmentConfirmed, domain.AppointmentCancelled, domain.AppointmentCompleted:
	default:
		return nil, fmt.Errorf("%w: status must be confirmed, cancelled or completed", domain.ErrInvalidInput)
	}

	appointment.Status = req.Status
	if req.Notes != nil {
		appointment.Notes = trimmed(req.Notes)
	}
	if link != nil {
		appointment.MeetingLink = link
	}

	if err := uc.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	uc.logger.Info("Appointment updated",
		zap.Int("appointment_id", appointment.ID),
		zap.String("status", string(appointment.Status)),
		zap.Int("by_user_id", userID),
	)
	return appointment, nil
}

// Availability returns the pending and confirmed sessions of a helper on
// the given UTC day (YYYY-MM-DD).
func (uc *AppointmentUseCase) Availability(ctx context.Context, helperID int, date string) ([]Slot, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}

	appointments, err := uc.appointmentRepo.ListForHelperBetween(ctx, helperID, day, day.AddDate(0, 0, 1), busyStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to load helper calendar: %w", err)
	}

	slots := make([]Slot, 0, len(appointments))
	for _, a := range appointments {
		slots = append(slots, Slot{AppointmentID: a.ID, DateTime: a.DateTime, Duration: a.Duration})
	}
	return slots, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
