package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gdugdh24/therapymatch-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const appointmentColumns = `id, helper_id, seeker_id, date_time, duration, status, type, notes, meeting_link, created_at, updated_at`

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	query := `
		INSERT INTO appointments (helper_id, seeker_id, date_time, duration, status, type, notes, meeting_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		appointment.HelperID, appointment.SeekerID, appointment.DateTime, appointment.Duration,
		appointment.Status, appointment.Type, appointment.Notes, appointment.MeetingLink,
	).Scan(&appointment.ID, &appointment.CreatedAt, &appointment.UpdatedAt)
}

func (r *appointmentRepository) GetByID(ctx context.Context, id int) (*domain.Appointment, error) {
	var appointment domain.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) ListForUser(ctx context.Context, userID int, filter repository.AppointmentFilter) ([]*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE (helper_id = $1 OR seeker_id = $1)`
	args := []interface{}{userID}
	argCount := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, *filter.Status)
		argCount++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND date_time >= $%d", argCount)
		args = append(args, *filter.From)
		argCount++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND date_time <= $%d", argCount)
		args = append(args, *filter.To)
	}
	query += " ORDER BY date_time ASC, id ASC"

	appointments := []*domain.Appointment{}
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	return appointments, err
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *domain.Appointment) error {
	query := `
		UPDATE appointments
		SET date_time = $1, duration = $2, status = $3, notes = $4, meeting_link = $5,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		appointment.DateTime, appointment.Duration, appointment.Status,
		appointment.Notes, appointment.MeetingLink, appointment.ID,
	).Scan(&appointment.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAppointmentNotFound
	}
	return err
}

func (r *appointmentRepository) ListForHelperBetween(ctx context.Context, helperID int, from, to time.Time, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE helper_id = $1 AND date_time >= $2 AND date_time < $3 AND status = ANY($4)
		ORDER BY date_time ASC
	`
	appointments := []*domain.Appointment{}
	err := r.db.SelectContext(ctx, &appointments, query, helperID, from, to, pq.Array(names))
	return appointments, err
}
