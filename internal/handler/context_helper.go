package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-wellbeing-api/internal/middleware"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
	"github.com/noah-isme/sma-wellbeing-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.SessionClaims {
	return middleware.ClaimsFromContext(c)
}

// requireClaims writes 401 and returns nil when no session is attached.
func requireClaims(c *gin.Context) *models.SessionClaims {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
	}
	return claims
}
