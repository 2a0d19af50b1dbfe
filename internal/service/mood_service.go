package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-wellbeing-api/internal/catalog"
	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
)

// MoodService records mood entries and answers mood queries.
type MoodService struct {
	store   *repository.RecordStore
	catalog *catalog.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

// NewMoodService constructs the mood rule engine.
func NewMoodService(store *repository.RecordStore, cat *catalog.Catalog, logger *zap.Logger) *MoodService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	return &MoodService{store: store, catalog: cat, logger: logger, now: utcNow}
}

// Record validates the mood level and prepends a new log.
func (s *MoodService) Record(ctx context.Context, userID string, moodValue int, note string) (*models.MoodLog, error) {
	level, ok := s.catalog.Mood(moodValue)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidMood, fmt.Sprintf("mood value %d is not a defined mood level", moodValue))
	}
	log := models.MoodLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		MoodValue: level.Value,
		Emoji:     level.Emoji,
		Note:      note,
		Timestamp: s.now(),
	}
	if err := repository.Prepend(ctx, s.store, repository.Moods, log); err != nil {
		return nil, err
	}
	s.logger.Debug("mood recorded", zap.String("user_id", userID), zap.Int("mood_value", moodValue))
	return &log, nil
}

// ListForUser returns the user's logs, newest first.
func (s *MoodService) ListForUser(ctx context.Context, userID string) []models.MoodLog {
	all := repository.Load(ctx, s.store, repository.Moods)
	logs := make([]models.MoodLog, 0, len(all))
	for _, l := range all {
		if l.UserID == userID {
			logs = append(logs, l)
		}
	}
	sortMoodsNewestFirst(logs)
	return logs
}

// ListAll returns every log, newest first.
func (s *MoodService) ListAll(ctx context.Context) []models.MoodLog {
	logs := repository.Load(ctx, s.store, repository.Moods)
	sortMoodsNewestFirst(logs)
	return logs
}

// Distribution counts logs per mood level. Every configured level is present.
func (s *MoodService) Distribution(ctx context.Context) []models.MoodDistributionEntry {
	return moodDistribution(s.catalog, repository.Load(ctx, s.store, repository.Moods))
}

func moodDistribution(cat *catalog.Catalog, logs []models.MoodLog) []models.MoodDistributionEntry {
	counts := make(map[int]int, len(cat.Moods))
	for _, l := range logs {
		counts[l.MoodValue]++
	}
	entries := make([]models.MoodDistributionEntry, 0, len(cat.Moods))
	for _, m := range cat.Moods {
		entries = append(entries, models.MoodDistributionEntry{
			Value: m.Value,
			Label: m.Label,
			Emoji: m.Emoji,
			Count: counts[m.Value],
		})
	}
	return entries
}

// Stable so that entries sharing a timestamp keep their stored order.
func sortMoodsNewestFirst(logs []models.MoodLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
}
