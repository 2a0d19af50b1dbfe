package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	"github.com/noah-isme/sma-wellbeing-api/pkg/response"
)

type dashboardService interface {
	Teacher(ctx context.Context) (*models.TeacherDashboard, error)
}

// DashboardHandler serves the teacher overview.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Teacher godoc
// @Summary Teacher dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/teacher [get]
func (h *DashboardHandler) Teacher(c *gin.Context) {
	dash, err := h.service.Teacher(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dash)
}
