package handler

import (
	"net/http"
	"strconv"

	"github.com/gdugdh24/therapymatch-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/therapymatch-backend/internal/usecase/matching"
	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matcher      *matching.Matcher
	explanations *matching.ExplanationService
	defaultLimit int
	maxLimit     int
}

func NewMatchHandler(matcher *matching.Matcher, explanations *matching.ExplanationService, defaultLimit, maxLimit int) *MatchHandler {
	return &MatchHandler{
		matcher:      matcher,
		explanations: explanations,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// GetMatches returns ranked verified helpers for the current seeker
// @Summary Find matching helpers
// @Tags seeker
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum number of helpers (1..50)"
// @Success 200 {array} domain.HelperMatch
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /seeker/matches [get]
func (h *MatchHandler) GetMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	limit := h.defaultLimit
	if raw, present := c.GetQuery("limit"); present {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > h.maxLimit {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "limit must be an integer between 1 and " + strconv.Itoa(h.maxLimit),
			})
			return
		}
		limit = parsed
	}

	matches, err := h.matcher.FindMatches(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err, "failed to find matches")
		return
	}

	metrics.MatchResultsReturned.Observe(float64(len(matches)))
	c.JSON(http.StatusOK, matches)
}

// GetExplanation describes why a helper fits the current seeker
// @Summary Explain a match
// @Tags seeker
// @Security BearerAuth
// @Produce json
// @Param helper_id path int true "Helper ID"
// @Success 200 {object} matching.MatchExplanation
// @Failure 404 {object} ErrorResponse
// @Router /seeker/matches/{helper_id}/explanation [get]
func (h *MatchHandler) GetExplanation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	helperID, ok := pathID(c, "helper_id")
	if !ok {
		return
	}

	explanation, err := h.explanations.Explain(c.Request.Context(), userID, helperID)
	if err != nil {
		writeError(c, err, "failed to explain match")
		return
	}

	metrics.MatchExplanations.WithLabelValues(explanation.Source).Inc()
	c.JSON(http.StatusOK, explanation)
}
