package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-wellbeing-api/internal/catalog"
	"github.com/noah-isme/sma-wellbeing-api/internal/dto"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
	"github.com/noah-isme/sma-wellbeing-api/pkg/response"
)

type screeningService interface {
	Questions() []catalog.Question
	Score(ctx context.Context, userID string, answers map[int]int) (*models.PsychTestResult, error)
	History(ctx context.Context, userID string) []models.PsychTestResult
}

// ScreeningHandler exposes the questionnaire.
type ScreeningHandler struct {
	service screeningService
}

// NewScreeningHandler constructs the handler.
func NewScreeningHandler(service screeningService) *ScreeningHandler {
	return &ScreeningHandler{service: service}
}

// Questions godoc
// @Summary Screening questionnaire
// @Tags Screening
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /screening/questions [get]
func (h *ScreeningHandler) Questions(c *gin.Context) {
	response.OK(c, h.service.Questions())
}

// Submit godoc
// @Summary Score a completed questionnaire
// @Tags Screening
// @Accept json
// @Produce json
// @Param payload body dto.SubmitScreeningRequest true "Answers keyed by question id"
// @Success 201 {object} response.Envelope
// @Router /screening/results [post]
func (h *ScreeningHandler) Submit(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.SubmitScreeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid screening payload"))
		return
	}
	result, err := h.service.Score(c.Request.Context(), claims.UserID, req.Answers)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, result)
}

// History godoc
// @Summary Screening results of the current user, newest first
// @Tags Screening
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /screening/results [get]
func (h *ScreeningHandler) History(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	response.OK(c, h.service.History(c.Request.Context(), claims.UserID))
}
