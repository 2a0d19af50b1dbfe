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

type redemptionRecorder interface {
	RecordRedemption(reward string, cost int)
}

// RewardService is the star ledger: it debits balances for catalog rewards
// and keeps the redemption log.
type RewardService struct {
	store   *repository.RecordStore
	catalog *catalog.Catalog
	logger  *zap.Logger
	metrics redemptionRecorder
	now     func() time.Time
}

// RewardServiceOption configures the service.
type RewardServiceOption func(*RewardService)

// WithRedemptionRecorder counts successful redemptions.
func WithRedemptionRecorder(recorder redemptionRecorder) RewardServiceOption {
	return func(s *RewardService) {
		s.metrics = recorder
	}
}

// NewRewardService constructs the reward ledger.
func NewRewardService(store *repository.RecordStore, cat *catalog.Catalog, logger *zap.Logger, opts ...RewardServiceOption) *RewardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	svc := &RewardService{store: store, catalog: cat, logger: logger, now: utcNow}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Catalog lists the redeemable rewards.
func (s *RewardService) Catalog() []catalog.Reward {
	return s.catalog.Rewards
}

// Redeem debits the reward's cost from the student and appends a redemption
// log. The balance check is a hard precondition. If the log cannot be
// written the debit is credited back and StoreUnavailable is returned.
func (s *RewardService) Redeem(ctx context.Context, userID, rewardID string) (*models.User, *models.RedemptionLog, error) {
	reward, ok := s.catalog.Reward(rewardID)
	if !ok {
		return nil, nil, appErrors.Clone(appErrors.ErrUnknownReward, fmt.Sprintf("reward %s not found in catalog", rewardID))
	}

	var updated models.User
	_, err := repository.Mutate(ctx, s.store, repository.Users, func(users []models.User) ([]models.User, error) {
		idx := indexOfUser(users, userID)
		if idx < 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		if !users[idx].IsStudent() {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only students can redeem rewards")
		}
		if users[idx].Stars < reward.Cost {
			return nil, appErrors.Clone(appErrors.ErrInsufficientBalance,
				fmt.Sprintf("not enough stars: have %d, need %d", users[idx].Stars, reward.Cost))
		}
		users[idx].Stars -= reward.Cost
		updated = users[idx]
		return users, nil
	})
	if err != nil {
		return nil, nil, err
	}

	log := models.RedemptionLog{
		ID:         uuid.NewString(),
		UserID:     userID,
		RewardName: reward.Name,
		Cost:       reward.Cost,
		Timestamp:  s.now(),
	}
	if err := repository.Prepend(ctx, s.store, repository.Redemptions, log); err != nil {
		s.refund(ctx, userID, reward.Cost)
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "redemption not applied")
	}

	if s.metrics != nil {
		s.metrics.RecordRedemption(reward.ID, reward.Cost)
	}
	s.logger.Info("reward redeemed",
		zap.String("user_id", userID),
		zap.String("reward_id", reward.ID),
		zap.Int("cost", reward.Cost),
		zap.Int("balance", updated.Stars),
	)
	return &updated, &log, nil
}

func (s *RewardService) refund(ctx context.Context, userID string, cost int) {
	_, err := repository.Mutate(ctx, s.store, repository.Users, func(users []models.User) ([]models.User, error) {
		idx := indexOfUser(users, userID)
		if idx < 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		users[idx].Stars += cost
		return users, nil
	})
	if err != nil {
		s.logger.Error("failed to refund redemption debit",
			zap.String("user_id", userID),
			zap.Int("cost", cost),
			zap.Error(err),
		)
	}
}

// History returns the user's redemptions, newest first.
func (s *RewardService) History(ctx context.Context, userID string) []models.RedemptionLog {
	all := repository.Load(ctx, s.store, repository.Redemptions)
	logs := make([]models.RedemptionLog, 0, len(all))
	for _, l := range all {
		if l.UserID == userID {
			logs = append(logs, l)
		}
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	return logs
}
