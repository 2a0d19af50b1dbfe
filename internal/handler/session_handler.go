package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-wellbeing-api/internal/dto"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
	"github.com/noah-isme/sma-wellbeing-api/pkg/response"
)

type sessionService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*models.Session, error)
}

type userLookup interface {
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) []models.User
}

// SessionHandler exposes role-selection login.
type SessionHandler struct {
	sessions sessionService
	users    userLookup
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(sessions sessionService, users userLookup) *SessionHandler {
	return &SessionHandler{sessions: sessions, users: users}
}

// Login godoc
// @Summary Sign in by choosing a role
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Role selection"
// @Success 200 {object} response.Envelope
// @Router /session [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid login payload"))
		return
	}
	session, err := h.sessions.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Me godoc
// @Summary Current user with live star balance
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session [get]
func (h *SessionHandler) Me(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	user, err := h.users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}
