package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-wellbeing-api/internal/catalog"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
	"github.com/noah-isme/sma-wellbeing-api/internal/service"
	"github.com/noah-isme/sma-wellbeing-api/pkg/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewRecordStore(repository.NewMemoryBlobStore(), nil)
	cat := catalog.Default()
	validate := validator.New()

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("export-secret", time.Hour)

	sessions := service.NewSessionService(store, validate, nil, service.SessionConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "test"})
	users := service.NewUserService(store, nil)
	exports := service.NewExportService(store, files, signer, validate, service.ExportConfig{APIPrefix: "/api/v1"}, nil)

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), Handlers{
		Session:     NewSessionHandler(sessions, users),
		Moods:       NewMoodHandler(service.NewMoodService(store, cat, nil), cat),
		Screening:   NewScreeningHandler(service.NewScreeningService(store, cat, nil)),
		Rewards:     NewRewardHandler(service.NewRewardService(store, cat, nil)),
		Students:    NewStudentHandler(users, service.NewStarService(store, nil, nil)),
		Appointment: NewAppointmentHandler(service.NewAppointmentService(store, validate, nil)),
		Behavior:    NewBehaviorHandler(service.NewBehaviorService(store, validate, nil)),
		Dashboard:   NewDashboardHandler(service.NewDashboardService(store, cat, nil)),
		Exports:     NewExportHandler(exports),
	}, sessions)
	return r
}

func doRequest(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, role string) string {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/v1/session", "", `{"role":"`+role+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Data models.Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)
	return body.Data.Token
}

func TestRoutesRequireSession(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/moods/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/moods/me", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/rewards", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutesEnforceRoles(t *testing.T) {
	r := newTestRouter(t)
	student := login(t, r, "student")
	teacher := login(t, r, "teacher")

	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodGet, "/api/v1/dashboard/teacher", student, "").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodPost, "/api/v1/moods", teacher, `{"moodValue":3}`).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/v1/users/s1/moods", student, "").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodGet, "/api/v1/users/s2/moods", student, "").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/v1/users/s2/moods", teacher, "").Code)
}

func TestRoutesRedeemFlow(t *testing.T) {
	r := newTestRouter(t)
	student := login(t, r, "student")

	w := doRequest(r, http.MethodPost, "/api/v1/rewards/redemptions", student, `{"rewardId":"3"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"stars":10`)

	w = doRequest(r, http.MethodPost, "/api/v1/rewards/redemptions", student, `{"rewardId":"2"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_BALANCE")

	w = doRequest(r, http.MethodGet, "/api/v1/rewards/redemptions", student, "")
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Data []models.RedemptionLog `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Data, 1)
	assert.Equal(t, 15, history.Data[0].Cost)
}

func TestRoutesAppointmentWorkflow(t *testing.T) {
	r := newTestRouter(t)
	student := login(t, r, "student")
	teacher := login(t, r, "teacher")

	w := doRequest(r, http.MethodPost, "/api/v1/appointments", student, `{"reason":"Exam stress","date":"2024-05-20T10:00"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data models.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.AppointmentPending, created.Data.Status)

	path := "/api/v1/appointments/" + created.Data.ID + "/decision"
	w = doRequest(r, http.MethodPost, path, teacher, `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), service.DefaultApprovedNote)

	w = doRequest(r, http.MethodPost, path, teacher, `{"status":"rejected"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/dashboard/teacher", teacher, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pendingAppointments":0`)
}

func TestRoutesExportDownload(t *testing.T) {
	r := newTestRouter(t)
	teacher := login(t, r, "teacher")

	w := doRequest(r, http.MethodPost, "/api/v1/exports", teacher, `{"dataset":"moods","format":"csv"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.True(t, strings.HasPrefix(created.Data.URL, "/api/v1/exports/"))

	w = doRequest(r, http.MethodGet, created.Data.URL, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "Got full score in Math!")

	w = doRequest(r, http.MethodGet, "/api/v1/exports/forged-token", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
