package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-wellbeing-api/internal/dto"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
)

// UnknownStudentName is recorded when a report names a student id that is not on the roster.
const UnknownStudentName = "Unknown"

// BehaviorService files and lists teacher behavior reports.
type BehaviorService struct {
	store     *repository.RecordStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewBehaviorService constructs a BehaviorService.
func NewBehaviorService(store *repository.RecordStore, validate *validator.Validate, logger *zap.Logger) *BehaviorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BehaviorService{store: store, validator: validate, logger: logger, now: utcNow}
}

// Create appends a report authored by the acting teacher.
func (s *BehaviorService) Create(ctx context.Context, actor *models.SessionClaims, req dto.CreateBehaviorReportRequest) (*models.BehaviorReport, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can file behavior reports")
	}
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.Detail = strings.TrimSpace(req.Detail)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid behavior report payload")
	}

	studentName := UnknownStudentName
	users := repository.Load(ctx, s.store, repository.Users)
	if idx := indexOfUser(users, req.StudentID); idx >= 0 {
		studentName = users[idx].Name
	}

	report := models.BehaviorReport{
		ID:          uuid.NewString(),
		StudentID:   req.StudentID,
		StudentName: studentName,
		Detail:      req.Detail,
		TeacherName: actor.Name,
		Timestamp:   s.now(),
	}
	if err := repository.Prepend(ctx, s.store, repository.Reports, report); err != nil {
		return nil, err
	}
	s.logger.Info("behavior report filed", zap.String("report_id", report.ID), zap.String("student_id", report.StudentID))
	return &report, nil
}

// List returns reports, optionally for one student, newest first.
func (s *BehaviorService) List(ctx context.Context, filter models.BehaviorReportFilter) []models.BehaviorReport {
	all := repository.Load(ctx, s.store, repository.Reports)
	reports := make([]models.BehaviorReport, 0, len(all))
	for _, r := range all {
		if filter.StudentID == "" || r.StudentID == filter.StudentID {
			reports = append(reports, r)
		}
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Timestamp.After(reports[j].Timestamp)
	})
	return reports
}
