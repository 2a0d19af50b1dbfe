package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
)

type fakeDashboardSrv struct {
	teacherResp *models.TeacherDashboard
	teacherErr  error
	teacherHit  bool
}

func (f *fakeDashboardSrv) Teacher(ctx context.Context) (*models.TeacherDashboard, error) {
	f.teacherHit = true
	return f.teacherResp, f.teacherErr
}

func TestDashboardHandlerTeacher(t *testing.T) {
	srv := &fakeDashboardSrv{teacherResp: &models.TeacherDashboard{
		Students:            []models.User{{ID: "s1", Stars: 25}, {ID: "s2", Stars: 8}},
		TotalMoodLogs:       3,
		PendingAppointments: 1,
		TotalStars:          33,
	}}
	handler := NewDashboardHandler(srv)

	c, w := newTestContext(http.MethodGet, "/dashboard/teacher", nil, teacherSession)
	handler.Teacher(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, srv.teacherHit)

	var body struct {
		Data models.TeacherDashboard `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 33, body.Data.TotalStars)
	assert.Equal(t, 1, body.Data.PendingAppointments)
	assert.Len(t, body.Data.Students, 2)
}

func TestDashboardHandlerTeacherError(t *testing.T) {
	srv := &fakeDashboardSrv{teacherErr: appErrors.ErrInternal}
	handler := NewDashboardHandler(srv)

	c, w := newTestContext(http.MethodGet, "/dashboard/teacher", nil, teacherSession)
	handler.Teacher(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
