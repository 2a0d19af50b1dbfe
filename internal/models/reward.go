package models

import "time"

// RedemptionLog records one successful reward redemption.
type RedemptionLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	RewardName string    `json:"rewardName"`
	Cost       int       `json:"cost"`
	Timestamp  time.Time `json:"timestamp"`
}
