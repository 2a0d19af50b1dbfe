package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-wellbeing-api/internal/dto"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
	"github.com/noah-isme/sma-wellbeing-api/pkg/response"
)

type behaviorService interface {
	Create(ctx context.Context, actor *models.SessionClaims, req dto.CreateBehaviorReportRequest) (*models.BehaviorReport, error)
	List(ctx context.Context, filter models.BehaviorReportFilter) []models.BehaviorReport
}

// BehaviorHandler exposes teacher behavior reports.
type BehaviorHandler struct {
	service behaviorService
}

// NewBehaviorHandler constructs the handler.
func NewBehaviorHandler(service behaviorService) *BehaviorHandler {
	return &BehaviorHandler{service: service}
}

// Create godoc
// @Summary File a behavior report about a student
// @Tags Behavior
// @Accept json
// @Produce json
// @Param payload body dto.CreateBehaviorReportRequest true "Report"
// @Success 201 {object} response.Envelope
// @Router /behavior-reports [post]
func (h *BehaviorHandler) Create(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.CreateBehaviorReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid behavior report payload"))
		return
	}
	report, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, report)
}

// List godoc
// @Summary Behavior reports, newest first
// @Tags Behavior
// @Produce json
// @Param studentId query string false "Student ID"
// @Success 200 {object} response.Envelope
// @Router /behavior-reports [get]
func (h *BehaviorHandler) List(c *gin.Context) {
	filter := models.BehaviorReportFilter{StudentID: strings.TrimSpace(c.Query("studentId"))}
	response.OK(c, h.service.List(c.Request.Context(), filter))
}
