package dto

import "github.com/noah-isme/sma-wellbeing-api/internal/models"

// LoginRequest selects the role to act as.
type LoginRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=student teacher"`
}
