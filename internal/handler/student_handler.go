package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-wellbeing-api/internal/dto"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
	"github.com/noah-isme/sma-wellbeing-api/pkg/response"
)

type starService interface {
	Adjust(ctx context.Context, studentID string, delta int) (*models.User, error)
}

// StudentHandler lets teachers review students and adjust their stars.
type StudentHandler struct {
	users userLookup
	stars starService
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(users userLookup, stars starService) *StudentHandler {
	return &StudentHandler{users: users, stars: stars}
}

// List godoc
// @Summary Students with their star balances
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	response.OK(c, h.users.List(c.Request.Context(), models.UserFilter{Role: models.RoleStudent}))
}

// AdjustStars godoc
// @Summary Credit or debit a student's stars (clamped at zero)
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.AdjustStarsRequest true "Signed delta"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/stars [patch]
func (h *StudentHandler) AdjustStars(c *gin.Context) {
	var req dto.AdjustStarsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid star adjustment payload"))
		return
	}
	if req.Delta == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "delta must not be zero"))
		return
	}
	user, err := h.stars.Adjust(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}
