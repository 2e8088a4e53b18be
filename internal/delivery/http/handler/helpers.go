package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gdugdh24/therapymatch-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func currentUserID(c *gin.Context) (int, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// pathID parses a positive integer path parameter, writing a 400 when it
// is malformed.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid " + name,
		})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors onto HTTP statuses. Anything unknown is a
// 500 with the given fallback message; the cause is attached to the gin
// context for the request logger.
func writeError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrAppointmentInPast):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrCannotMessageSelf):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		status, message = http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrMeetingLinkNotAllowed):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrPreferencesNotFound),
		errors.Is(err, domain.ErrHelperProfileNotFound),
		errors.Is(err, domain.ErrHelperNotFound),
		errors.Is(err, domain.ErrAppointmentNotFound),
		errors.Is(err, domain.ErrReceiverNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		status, message = http.StatusServiceUnavailable, "profile store unavailable"
	}

	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, ErrorResponse{Error: message})
}

// badRequest reports a failed ShouldBindJSON. Validation failures are
// listed per JSON field; malformed bodies get a generic message.
func badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describeField(fe))
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: strings.Join(problems, "; ")})
}

func describeField(fe validator.FieldError) string {
	field := jsonFieldName(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s violates %s=%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}

// jsonFieldName lower-cases the struct namespace into snake_case segments,
// e.g. UpdatePreferencesRequest.Availability.Days -> availability.days.
func jsonFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = toSnake(p)
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	var prevLower bool
	for _, r := range s {
		isUpper := r >= 'A' && r <= 'Z'
		if isUpper {
			if prevLower {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		prevLower = !isUpper
		b.WriteRune(r)
	}
	return b.String()
}
