package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-wellbeing-api/internal/catalog"
	"github.com/noah-isme/sma-wellbeing-api/internal/dto"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
	"github.com/noah-isme/sma-wellbeing-api/pkg/response"
)

type rewardService interface {
	Catalog() []catalog.Reward
	Redeem(ctx context.Context, userID, rewardID string) (*models.User, *models.RedemptionLog, error)
	History(ctx context.Context, userID string) []models.RedemptionLog
}

// RewardHandler exposes the reward catalog and redemptions.
type RewardHandler struct {
	service rewardService
}

// NewRewardHandler constructs the handler.
func NewRewardHandler(service rewardService) *RewardHandler {
	return &RewardHandler{service: service}
}

// Catalog godoc
// @Summary Redeemable rewards
// @Tags Rewards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rewards [get]
func (h *RewardHandler) Catalog(c *gin.Context) {
	response.OK(c, h.service.Catalog())
}

// Redeem godoc
// @Summary Redeem a reward with the current student's stars
// @Tags Rewards
// @Accept json
// @Produce json
// @Param payload body dto.RedeemRewardRequest true "Reward"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /rewards/redemptions [post]
func (h *RewardHandler) Redeem(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.RedeemRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid redemption payload"))
		return
	}
	rewardID := strings.TrimSpace(req.RewardID)
	if rewardID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingField, "rewardId is required"))
		return
	}
	user, log, err := h.service.Redeem(c.Request.Context(), claims.UserID, rewardID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, dto.RedeemRewardResponse{User: *user, Redemption: *log})
}

// History godoc
// @Summary Redemptions of the current student, newest first
// @Tags Rewards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rewards/redemptions [get]
func (h *RewardHandler) History(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	response.OK(c, h.service.History(c.Request.Context(), claims.UserID))
}
