package dto

import "github.com/noah-isme/sma-wellbeing-api/internal/models"

// RedeemRewardRequest identifies the catalog reward to redeem.
type RedeemRewardRequest struct {
	RewardID string `json:"rewardId" validate:"required"`
}

// RedeemRewardResponse returns the debited user and the new log entry.
type RedeemRewardResponse struct {
	User       models.User          `json:"user"`
	Redemption models.RedemptionLog `json:"redemption"`
}

// AdjustStarsRequest credits (positive) or debits (negative) a student.
type AdjustStarsRequest struct {
	Delta int `json:"delta"`
}
