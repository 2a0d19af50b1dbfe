package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-wellbeing-api/internal/catalog"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
)

// ScreeningService scores questionnaire submissions against the band table.
type ScreeningService struct {
	store   *repository.RecordStore
	catalog *catalog.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

// NewScreeningService constructs the screening scorer.
func NewScreeningService(store *repository.RecordStore, cat *catalog.Catalog, logger *zap.Logger) *ScreeningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	return &ScreeningService{store: store, catalog: cat, logger: logger, now: utcNow}
}

// Questions returns the configured questionnaire.
func (s *ScreeningService) Questions() []catalog.Question {
	return s.catalog.Questions
}

// Score sums the answers for the configured question set, interprets the
// total and appends one result. Answers to unknown question ids are ignored.
// Every call is a new attempt with its own record.
func (s *ScreeningService) Score(ctx context.Context, userID string, answers map[int]int) (*models.PsychTestResult, error) {
	total, err := s.total(answers)
	if err != nil {
		return nil, err
	}
	band := s.catalog.Interpret(total)
	result := models.PsychTestResult{
		ID:             uuid.NewString(),
		UserID:         userID,
		Score:          total,
		Band:           band.Key,
		Interpretation: band.Label,
		Advice:         band.Advice,
		Timestamp:      s.now(),
	}
	if err := repository.Prepend(ctx, s.store, repository.TestResults, result); err != nil {
		return nil, err
	}
	s.logger.Info("screening scored",
		zap.String("user_id", userID),
		zap.Int("score", total),
		zap.String("band", band.Key),
	)
	return &result, nil
}

func (s *ScreeningService) total(answers map[int]int) (int, error) {
	var missing []string
	total := 0
	for _, q := range s.catalog.Questions {
		value, ok := answers[q.ID]
		if !ok {
			missing = append(missing, strconv.Itoa(q.ID))
			continue
		}
		if !q.HasOption(value) {
			return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("answer %d is not an option of question %d", value, q.ID))
		}
		total += value
	}
	if len(missing) > 0 {
		return 0, appErrors.Clone(appErrors.ErrIncompleteAnswers, "unanswered questions: "+strings.Join(missing, ", "))
	}
	return total, nil
}

// History returns the user's results, newest first.
func (s *ScreeningService) History(ctx context.Context, userID string) []models.PsychTestResult {
	all := repository.Load(ctx, s.store, repository.TestResults)
	results := make([]models.PsychTestResult, 0, len(all))
	for _, r := range all {
		if r.UserID == userID {
			results = append(results, r)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})
	return results
}
