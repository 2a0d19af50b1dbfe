package service

import (
	"context"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
)

// MaxStarDelta bounds a single adjustment in either direction.
const MaxStarDelta = 1000

var starDeltaRule = fmt.Sprintf("required,min=%d,max=%d", -MaxStarDelta, MaxStarDelta)

// StarService applies teacher-driven balance adjustments.
type StarService struct {
	store     *repository.RecordStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStarService constructs a StarService.
func NewStarService(store *repository.RecordStore, validate *validator.Validate, logger *zap.Logger) *StarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StarService{store: store, validator: validate, logger: logger}
}

// Adjust adds delta to the student's balance, clamping at zero. Unlike a
// redemption, a debit larger than the balance is not rejected and no log
// record is written.
func (s *StarService) Adjust(ctx context.Context, studentID string, delta int) (*models.User, error) {
	if err := s.validator.Var(delta, starDeltaRule); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("delta must be non-zero and within ±%d", MaxStarDelta))
	}
	var updated models.User
	_, err := repository.Mutate(ctx, s.store, repository.Users, func(users []models.User) ([]models.User, error) {
		idx := indexOfUser(users, studentID)
		if idx < 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		if !users[idx].IsStudent() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "stars can only be adjusted for students")
		}
		users[idx].Stars = addStars(users[idx].Stars, delta)
		updated = users[idx]
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("stars adjusted",
		zap.String("student_id", studentID),
		zap.Int("delta", delta),
		zap.Int("balance", updated.Stars),
	)
	return &updated, nil
}

// addStars applies delta, saturating at math.MaxInt and clamping at zero.
func addStars(balance, delta int) int {
	if delta > 0 && balance > math.MaxInt-delta {
		return math.MaxInt
	}
	if n := balance + delta; n > 0 {
		return n
	}
	return 0
}
