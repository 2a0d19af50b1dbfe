package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-wellbeing-api/internal/middleware"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Session     *SessionHandler
	Moods       *MoodHandler
	Screening   *ScreeningHandler
	Rewards     *RewardHandler
	Students    *StudentHandler
	Appointment *AppointmentHandler
	Behavior    *BehaviorHandler
	Dashboard   *DashboardHandler
	Exports     *ExportHandler
}

// RegisterRoutes mounts the API on group. Everything except login, the
// read-only catalogs and signed downloads requires a session token.
func RegisterRoutes(group *gin.RouterGroup, h Handlers, sessions middleware.TokenValidator) {
	student := middleware.RequireRoles(models.RoleStudent)
	teacher := middleware.RequireRoles(models.RoleTeacher)

	group.POST("/session", h.Session.Login)
	group.GET("/moods/levels", h.Moods.Levels)
	group.GET("/rewards", h.Rewards.Catalog)
	group.GET("/screening/questions", h.Screening.Questions)
	if h.Exports != nil {
		group.GET("/exports/:token", h.Exports.Download)
	}

	auth := group.Group("")
	auth.Use(middleware.Session(sessions))

	auth.GET("/session", h.Session.Me)

	auth.POST("/moods", student, h.Moods.Create)
	auth.GET("/moods/me", h.Moods.Mine)
	auth.GET("/moods", teacher, h.Moods.List)
	auth.GET("/moods/distribution", teacher, h.Moods.Distribution)
	auth.GET("/users/:id/moods", middleware.RBAC(string(models.RoleTeacher), middleware.SelfParam), h.Moods.ForUser)

	auth.POST("/screening/results", student, h.Screening.Submit)
	auth.GET("/screening/results", h.Screening.History)

	auth.POST("/rewards/redemptions", student, h.Rewards.Redeem)
	auth.GET("/rewards/redemptions", h.Rewards.History)

	auth.GET("/students", teacher, h.Students.List)
	auth.PATCH("/students/:id/stars", teacher, h.Students.AdjustStars)

	auth.POST("/appointments", student, h.Appointment.Create)
	auth.GET("/appointments", h.Appointment.List)
	auth.POST("/appointments/:id/decision", teacher, h.Appointment.Decide)

	auth.POST("/behavior-reports", teacher, h.Behavior.Create)
	auth.GET("/behavior-reports", teacher, h.Behavior.List)

	auth.GET("/dashboard/teacher", teacher, h.Dashboard.Teacher)

	if h.Exports != nil {
		auth.POST("/exports", teacher, h.Exports.Create)
	}
}
