package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-wellbeing-api/internal/catalog"
	"github.com/noah-isme/sma-wellbeing-api/internal/dto"
	"github.com/noah-isme/sma-wellbeing-api/internal/middleware"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
)

var (
	studentSession = &models.SessionClaims{UserID: "s1", Role: models.RoleStudent, Name: "Student Tonkla"}
	teacherSession = &models.SessionClaims{UserID: "t1", Role: models.RoleTeacher, Name: "Teacher Somchai"}
)

func newTestContext(method, target string, body interface{}, claims *models.SessionClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req, _ = http.NewRequest(method, target, nil)
	case string:
		req, _ = http.NewRequest(method, target, bytes.NewBufferString(b))
		req.Header.Set("Content-Type", "application/json")
	default:
		payload, _ := json.Marshal(b)
		req, _ = http.NewRequest(method, target, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

type moodServiceMock struct {
	recordResp   *models.MoodLog
	recordErr    error
	lastUserID   string
	lastValue    int
	lastNote     string
	recordCalled bool
	logs         []models.MoodLog
}

func (m *moodServiceMock) Record(ctx context.Context, userID string, moodValue int, note string) (*models.MoodLog, error) {
	m.recordCalled = true
	m.lastUserID = userID
	m.lastValue = moodValue
	m.lastNote = note
	return m.recordResp, m.recordErr
}

func (m *moodServiceMock) ListForUser(ctx context.Context, userID string) []models.MoodLog {
	m.lastUserID = userID
	return m.logs
}

func (m *moodServiceMock) ListAll(ctx context.Context) []models.MoodLog {
	return m.logs
}

func (m *moodServiceMock) Distribution(ctx context.Context) []models.MoodDistributionEntry {
	return nil
}

type rewardServiceMock struct {
	user         *models.User
	log          *models.RedemptionLog
	err          error
	lastUserID   string
	lastRewardID string
	redeemCalled bool
}

func (m *rewardServiceMock) Catalog() []catalog.Reward {
	return catalog.Default().Rewards
}

func (m *rewardServiceMock) Redeem(ctx context.Context, userID, rewardID string) (*models.User, *models.RedemptionLog, error) {
	m.redeemCalled = true
	m.lastUserID = userID
	m.lastRewardID = rewardID
	return m.user, m.log, m.err
}

func (m *rewardServiceMock) History(ctx context.Context, userID string) []models.RedemptionLog {
	return nil
}

type appointmentServiceMock struct {
	resp       *models.Appointment
	err        error
	lastID     string
	lastDecide dto.DecideAppointmentRequest
	lastCreate dto.CreateAppointmentRequest
	listResp   []models.Appointment
}

func (m *appointmentServiceMock) Request(ctx context.Context, actor *models.SessionClaims, req dto.CreateAppointmentRequest) (*models.Appointment, error) {
	m.lastCreate = req
	return m.resp, m.err
}

func (m *appointmentServiceMock) Decide(ctx context.Context, id string, actor *models.SessionClaims, req dto.DecideAppointmentRequest) (*models.Appointment, error) {
	m.lastID = id
	m.lastDecide = req
	return m.resp, m.err
}

func (m *appointmentServiceMock) List(ctx context.Context, actor *models.SessionClaims) ([]models.Appointment, error) {
	return m.listResp, m.err
}

type starServiceMock struct {
	user      *models.User
	err       error
	lastID    string
	lastDelta int
	called    bool
}

func (m *starServiceMock) Adjust(ctx context.Context, studentID string, delta int) (*models.User, error) {
	m.called = true
	m.lastID = studentID
	m.lastDelta = delta
	return m.user, m.err
}

func ginParam(key, value string) gin.Param {
	return gin.Param{Key: key, Value: value}
}
