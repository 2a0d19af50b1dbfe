package service

import (
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-wellbeing-api/internal/dto"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
)

// Notes applied when a teacher decides without writing one.
const (
	DefaultApprovedNote = "See you then!"
	DefaultRejectedNote = "Please reschedule."
)

// AppointmentService runs the counseling request workflow:
// pending -> approved | rejected, exactly once.
type AppointmentService struct {
	store     *repository.RecordStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAppointmentService constructs the workflow service.
func NewAppointmentService(store *repository.RecordStore, validate *validator.Validate, logger *zap.Logger) *AppointmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AppointmentService{store: store, validator: validate, logger: logger}
}

// Request creates a pending appointment for the acting student.
func (s *AppointmentService) Request(ctx context.Context, actor *models.SessionClaims, req dto.CreateAppointmentRequest) (*models.Appointment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students can request appointments")
	}
	req.Reason = strings.TrimSpace(req.Reason)
	req.Date = strings.TrimSpace(req.Date)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid appointment payload")
	}

	appt := models.Appointment{
		ID:          uuid.NewString(),
		StudentID:   actor.UserID,
		StudentName: actor.Name,
		Reason:      req.Reason,
		Date:        req.Date,
		Status:      models.AppointmentPending,
	}
	if err := repository.Prepend(ctx, s.store, repository.Appointments, appt); err != nil {
		return nil, err
	}
	s.logger.Info("appointment requested", zap.String("appointment_id", appt.ID), zap.String("student_id", appt.StudentID))
	return &appt, nil
}

// Decide approves or rejects a pending appointment. A decided appointment
// cannot be decided again.
func (s *AppointmentService) Decide(ctx context.Context, id string, actor *models.SessionClaims, req dto.DecideAppointmentRequest) (*models.Appointment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can decide appointments")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "status must be approved or rejected")
	}
	note := decisionNote(req.Status, req.Note)

	var decided models.Appointment
	_, err := repository.Mutate(ctx, s.store, repository.Appointments, func(appts []models.Appointment) ([]models.Appointment, error) {
		idx := -1
		for i := range appts {
			if appts[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		if appts[idx].Status.Terminal() {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "appointment already "+string(appts[idx].Status))
		}
		appts[idx].Status = req.Status
		appts[idx].TeacherID = actor.UserID
		appts[idx].TeacherNote = &note
		decided = appts[idx]
		return appts, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("appointment decided",
		zap.String("appointment_id", id),
		zap.String("status", string(decided.Status)),
		zap.String("teacher_id", actor.UserID),
	)
	return &decided, nil
}

// List returns a student's own appointments in stored order, or every
// appointment sorted by date descending for a teacher.
func (s *AppointmentService) List(ctx context.Context, actor *models.SessionClaims) ([]models.Appointment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	all := repository.Load(ctx, s.store, repository.Appointments)
	switch actor.Role {
	case models.RoleStudent:
		own := make([]models.Appointment, 0, len(all))
		for _, a := range all {
			if a.StudentID == actor.UserID {
				own = append(own, a)
			}
		}
		return own, nil
	case models.RoleTeacher:
		sortAppointmentsByDateDesc(all)
		return all, nil
	default:
		return nil, appErrors.ErrForbidden
	}
}

// CountPending returns the number of undecided appointments.
func (s *AppointmentService) CountPending(ctx context.Context) int {
	return countPending(repository.Load(ctx, s.store, repository.Appointments))
}

func countPending(appts []models.Appointment) int {
	n := 0
	for _, a := range appts {
		if a.Status == models.AppointmentPending {
			n++
		}
	}
	return n
}

func decisionNote(status models.AppointmentStatus, note *string) string {
	if note != nil {
		if trimmed := strings.TrimSpace(*note); trimmed != "" {
			return trimmed
		}
	}
	if status == models.AppointmentRejected {
		return DefaultRejectedNote
	}
	return DefaultApprovedNote
}

// Unparseable dates sort last.
func sortAppointmentsByDateDesc(appts []models.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		ti, okI := appts[i].ParsedDate()
		tj, okJ := appts[j].ParsedDate()
		if okI != okJ {
			return okI
		}
		return ti.After(tj)
	})
}
