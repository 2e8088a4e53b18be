package handler

import (
	"net/http"
	"time"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gdugdh24/therapymatch-backend/internal/usecase/appointment"
	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	appointmentUseCase *appointment.AppointmentUseCase
}

func NewAppointmentHandler(appointmentUseCase *appointment.AppointmentUseCase) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUseCase: appointmentUseCase,
	}
}

// Create books an appointment with a helper
// @Summary Create appointment
// @Tags appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param helper_id path int true "Helper ID"
// @Param request body appointment.CreateAppointmentRequest true "Appointment"
// @Success 201 {object} domain.Appointment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /appointments/helpers/{helper_id} [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	helperID, ok := pathID(c, "helper_id")
	if !ok {
		return
	}

	var req appointment.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.appointmentUseCase.Create(c.Request.Context(), userID, helperID, &req)
	if err != nil {
		writeError(c, err, "failed to create appointment")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List returns the current user's appointments
// @Summary List appointments
// @Tags appointments
// @Security BearerAuth
// @Produce json
// @Param status query string false "pending, confirmed, cancelled or completed"
// @Param start_date query string false "YYYY-MM-DD or RFC3339"
// @Param end_date query string false "YYYY-MM-DD or RFC3339"
// @Success 200 {array} domain.Appointment
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req appointment.ListAppointmentsRequest
	if raw := c.Query("status"); raw != "" {
		status := domain.AppointmentStatus(raw)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status"})
			return
		}
		req.Status = &status
	}
	for _, q := range []struct {
		name string
		dst  **time.Time
	}{
		{"start_date", &req.StartDate},
		{"end_date", &req.EndDate},
	} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		t, err := parseDateParam(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + q.name})
			return
		}
		*q.dst = &t
	}

	appointments, err := h.appointmentUseCase.List(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err, "failed to list appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// Update changes status, notes or meeting link
// @Summary Update appointment
// @Tags appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param request body appointment.UpdateAppointmentRequest true "Changes"
// @Success 200 {object} domain.Appointment
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /appointments/{id} [patch]
func (h *AppointmentHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	appointmentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req appointment.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.appointmentUseCase.Update(c.Request.Context(), userID, appointmentID, &req)
	if err != nil {
		writeError(c, err, "failed to update appointment")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Availability lists a helper's busy slots for a day
// @Summary Helper availability
// @Tags appointments
// @Security BearerAuth
// @Produce json
// @Param helper_id path int true "Helper ID"
// @Param date query string true "YYYY-MM-DD"
// @Success 200 {array} appointment.Slot
// @Router /appointments/helpers/{helper_id}/availability [get]
func (h *AppointmentHandler) Availability(c *gin.Context) {
	helperID, ok := pathID(c, "helper_id")
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date is required"})
		return
	}

	slots, err := h.appointmentUseCase.Availability(c.Request.Context(), helperID, date)
	if err != nil {
		writeError(c, err, "failed to get availability")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"helper_id":  helperID,
		"date":       date,
		"busy_slots": slots,
	})
}

func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
