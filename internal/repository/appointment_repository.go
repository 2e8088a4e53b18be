package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
)

type AppointmentFilter struct {
	Status *domain.AppointmentStatus
	From   *time.Time
	To     *time.Time
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) error
	GetByID(ctx context.Context, id int) (*domain.Appointment, error)
	// ListForUser returns appointments where the user is helper or seeker,
	// ordered by date_time ascending.
	ListForUser(ctx context.Context, userID int, filter AppointmentFilter) ([]*domain.Appointment, error)
	Update(ctx context.Context, appointment *domain.Appointment) error
	ListForHelperBetween(ctx context.Context, helperID int, from, to time.Time, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error)
}
