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

type moodService interface {
	Record(ctx context.Context, userID string, moodValue int, note string) (*models.MoodLog, error)
	ListForUser(ctx context.Context, userID string) []models.MoodLog
	ListAll(ctx context.Context) []models.MoodLog
	Distribution(ctx context.Context) []models.MoodDistributionEntry
}

// MoodHandler exposes mood logging endpoints.
type MoodHandler struct {
	service moodService
	catalog *catalog.Catalog
}

// NewMoodHandler constructs the handler.
func NewMoodHandler(service moodService, cat *catalog.Catalog) *MoodHandler {
	if cat == nil {
		cat = catalog.Default()
	}
	return &MoodHandler{service: service, catalog: cat}
}

// Levels godoc
// @Summary List selectable mood levels
// @Tags Moods
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /moods/levels [get]
func (h *MoodHandler) Levels(c *gin.Context) {
	response.OK(c, h.catalog.Moods)
}

// Create godoc
// @Summary Record a mood for the current student
// @Tags Moods
// @Accept json
// @Produce json
// @Param payload body dto.RecordMoodRequest true "Mood entry"
// @Success 201 {object} response.Envelope
// @Router /moods [post]
func (h *MoodHandler) Create(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.RecordMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid mood payload"))
		return
	}
	log, err := h.service.Record(c.Request.Context(), claims.UserID, req.MoodValue, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, log)
}

// Mine godoc
// @Summary Mood history of the current user, newest first
// @Tags Moods
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /moods/me [get]
func (h *MoodHandler) Mine(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	response.OK(c, h.service.ListForUser(c.Request.Context(), claims.UserID))
}

// ForUser godoc
// @Summary Mood history of one student
// @Tags Moods
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/moods [get]
func (h *MoodHandler) ForUser(c *gin.Context) {
	response.OK(c, h.service.ListForUser(c.Request.Context(), c.Param("id")))
}

// List godoc
// @Summary Every mood log, newest first
// @Tags Moods
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /moods [get]
func (h *MoodHandler) List(c *gin.Context) {
	logs := h.service.ListAll(c.Request.Context())
	response.JSON(c, http.StatusOK, logs, map[string]interface{}{"total": len(logs)})
}

// Distribution godoc
// @Summary Mood log counts per level
// @Tags Moods
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /moods/distribution [get]
func (h *MoodHandler) Distribution(c *gin.Context) {
	response.OK(c, h.service.Distribution(c.Request.Context()))
}
