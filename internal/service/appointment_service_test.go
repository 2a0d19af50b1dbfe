package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-wellbeing-api/internal/dto"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
)

var (
	studentTonkla = &models.SessionClaims{UserID: "s1", Role: models.RoleStudent, Name: "Student Tonkla"}
	studentMalee  = &models.SessionClaims{UserID: "s2", Role: models.RoleStudent, Name: "Student Malee"}
	teacherClaims = &models.SessionClaims{UserID: "t1", Role: models.RoleTeacher, Name: "Teacher Somchai"}
)

func strPtr(s string) *string { return &s }

func TestAppointmentServiceRequestStartsPending(t *testing.T) {
	svc := NewAppointmentService(newMemoryStore(), nil, nil)

	appt, err := svc.Request(context.Background(), studentTonkla, dto.CreateAppointmentRequest{Reason: "x", Date: "2024-01-01T10:00"})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentPending, appt.Status)
	assert.Equal(t, "s1", appt.StudentID)
	assert.Equal(t, "Student Tonkla", appt.StudentName)
	assert.Empty(t, appt.TeacherID)
	assert.Nil(t, appt.TeacherNote)
}

func TestAppointmentServiceRequestMissingField(t *testing.T) {
	store := newMemoryStore()
	svc := NewAppointmentService(store, nil, nil)

	cases := []dto.CreateAppointmentRequest{
		{Reason: "", Date: "2024-01-01T10:00"},
		{Reason: "   ", Date: "2024-01-01T10:00"},
		{Reason: "stress", Date: ""},
	}
	for _, req := range cases {
		_, err := svc.Request(context.Background(), studentTonkla, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, appErrors.ErrMissingField)
	}
	assert.Empty(t, repository.Load(context.Background(), store, repository.Appointments))
}

func TestAppointmentServiceRequestRequiresStudent(t *testing.T) {
	svc := NewAppointmentService(newMemoryStore(), nil, nil)

	_, err := svc.Request(context.Background(), teacherClaims, dto.CreateAppointmentRequest{Reason: "x", Date: "2024-01-01"})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Request(context.Background(), nil, dto.CreateAppointmentRequest{Reason: "x", Date: "2024-01-01"})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAppointmentServiceApproveDefaultsNote(t *testing.T) {
	svc := NewAppointmentService(newMemoryStore(), nil, nil)
	appt, err := svc.Request(context.Background(), studentTonkla, dto.CreateAppointmentRequest{Reason: "x", Date: "2024-01-01T10:00"})
	require.NoError(t, err)

	decided, err := svc.Decide(context.Background(), appt.ID, teacherClaims, dto.DecideAppointmentRequest{Status: models.AppointmentApproved})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentApproved, decided.Status)
	assert.Equal(t, "t1", decided.TeacherID)
	require.NotNil(t, decided.TeacherNote)
	assert.Equal(t, DefaultApprovedNote, *decided.TeacherNote)

	_, err = svc.Decide(context.Background(), appt.ID, teacherClaims, dto.DecideAppointmentRequest{Status: models.AppointmentApproved})
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
	_, err = svc.Decide(context.Background(), appt.ID, teacherClaims, dto.DecideAppointmentRequest{Status: models.AppointmentRejected})
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)

	list, err := svc.List(context.Background(), studentTonkla)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.AppointmentApproved, list[0].Status)
	assert.Equal(t, DefaultApprovedNote, *list[0].TeacherNote)
}

func TestAppointmentServiceRejectNotes(t *testing.T) {
	svc := NewAppointmentService(newMemoryStore(), nil, nil)
	first, err := svc.Request(context.Background(), studentTonkla, dto.CreateAppointmentRequest{Reason: "a", Date: "2024-02-01"})
	require.NoError(t, err)
	second, err := svc.Request(context.Background(), studentTonkla, dto.CreateAppointmentRequest{Reason: "b", Date: "2024-02-02"})
	require.NoError(t, err)

	rejected, err := svc.Decide(context.Background(), first.ID, teacherClaims, dto.DecideAppointmentRequest{Status: models.AppointmentRejected, Note: strPtr("  ")})
	require.NoError(t, err)
	assert.Equal(t, DefaultRejectedNote, *rejected.TeacherNote)

	custom, err := svc.Decide(context.Background(), second.ID, teacherClaims, dto.DecideAppointmentRequest{Status: models.AppointmentRejected, Note: strPtr("Try Friday")})
	require.NoError(t, err)
	assert.Equal(t, "Try Friday", *custom.TeacherNote)

	_, err = svc.Decide(context.Background(), first.ID, teacherClaims, dto.DecideAppointmentRequest{Status: models.AppointmentApproved})
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
}

func TestAppointmentServiceDecideGuards(t *testing.T) {
	svc := NewAppointmentService(newMemoryStore(), nil, nil)
	appt, err := svc.Request(context.Background(), studentTonkla, dto.CreateAppointmentRequest{Reason: "x", Date: "2024-01-01"})
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), "missing", teacherClaims, dto.DecideAppointmentRequest{Status: models.AppointmentApproved})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Decide(context.Background(), appt.ID, teacherClaims, dto.DecideAppointmentRequest{Status: models.AppointmentPending})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Decide(context.Background(), appt.ID, studentTonkla, dto.DecideAppointmentRequest{Status: models.AppointmentApproved})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestAppointmentServiceListScopes(t *testing.T) {
	svc := NewAppointmentService(newMemoryStore(), nil, nil)
	_, err := svc.Request(context.Background(), studentTonkla, dto.CreateAppointmentRequest{Reason: "early", Date: "2024-01-01T09:00"})
	require.NoError(t, err)
	_, err = svc.Request(context.Background(), studentMalee, dto.CreateAppointmentRequest{Reason: "late", Date: "2024-03-01T09:00"})
	require.NoError(t, err)
	_, err = svc.Request(context.Background(), studentTonkla, dto.CreateAppointmentRequest{Reason: "middle", Date: "2024-02-01T09:00"})
	require.NoError(t, err)
	_, err = svc.Request(context.Background(), studentMalee, dto.CreateAppointmentRequest{Reason: "someday", Date: "next week"})
	require.NoError(t, err)

	own, err := svc.List(context.Background(), studentTonkla)
	require.NoError(t, err)
	require.Len(t, own, 2)
	for _, a := range own {
		assert.Equal(t, "s1", a.StudentID)
	}

	all, err := svc.List(context.Background(), teacherClaims)
	require.NoError(t, err)
	reasons := make([]string, 0, len(all))
	for _, a := range all {
		reasons = append(reasons, a.Reason)
	}
	assert.Equal(t, []string{"late", "middle", "early", "someday"}, reasons)
	assert.Equal(t, 4, svc.CountPending(context.Background()))
}
