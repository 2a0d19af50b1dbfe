package service

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
)

type redemptionCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *redemptionCounter) RecordRedemption(reward string, cost int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[reward] += cost
}

func starsOf(t *testing.T, store *repository.RecordStore, id string) int {
	t.Helper()
	for _, u := range repository.Load(context.Background(), store, repository.Users) {
		if u.ID == id {
			return u.Stars
		}
	}
	t.Fatalf("user %s not found", id)
	return 0
}

func TestRewardServiceRedeemSuccess(t *testing.T) {
	store := newMemoryStore()
	counter := &redemptionCounter{}
	svc := NewRewardService(store, nil, nil, WithRedemptionRecorder(counter))

	user, log, err := svc.Redeem(context.Background(), "s1", "1")
	require.NoError(t, err)
	assert.Equal(t, 15, user.Stars)
	assert.Equal(t, 10, log.Cost)
	assert.Equal(t, "Break Time (5 min)", log.RewardName)
	assert.Equal(t, "s1", log.UserID)

	assert.Equal(t, 15, starsOf(t, store, "s1"))
	logs := repository.Load(context.Background(), store, repository.Redemptions)
	require.Len(t, logs, 1)
	assert.Equal(t, log.ID, logs[0].ID)
	assert.Equal(t, map[string]int{"1": 10}, counter.counts)
}

func TestRewardServiceInsufficientBalance(t *testing.T) {
	store := newMemoryStore()
	svc := NewRewardService(store, nil, nil)

	_, _, err := svc.Redeem(context.Background(), "s2", "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInsufficientBalance)
	assert.Equal(t, 8, starsOf(t, store, "s2"))
	assert.Empty(t, repository.Load(context.Background(), store, repository.Redemptions))
}

func TestRewardServiceExactBalanceReachesZero(t *testing.T) {
	store := newMemoryStore()
	svc := NewRewardService(store, nil, nil)
	stars := NewStarService(store, nil, nil)
	_, err := stars.Adjust(context.Background(), "s2", 2)
	require.NoError(t, err)

	user, _, err := svc.Redeem(context.Background(), "s2", "1")
	require.NoError(t, err)
	assert.Equal(t, 0, user.Stars)
}

func TestRewardServiceUnknownReward(t *testing.T) {
	store := newMemoryStore()
	svc := NewRewardService(store, nil, nil)

	_, _, err := svc.Redeem(context.Background(), "s1", "42")
	assert.ErrorIs(t, err, appErrors.ErrUnknownReward)
	assert.Equal(t, 25, starsOf(t, store, "s1"))
}

func TestRewardServiceRejectsTeacherAndUnknownUser(t *testing.T) {
	svc := NewRewardService(newMemoryStore(), nil, nil)

	_, _, err := svc.Redeem(context.Background(), "t1", "1")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, _, err = svc.Redeem(context.Background(), "nobody", "1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestRewardServiceRefundsWhenLogWriteFails(t *testing.T) {
	blobs := newFlakyBlobStore()
	store := repository.NewRecordStore(blobs, nil)
	blobs.failWrites(repository.KeyRedemptions)
	svc := NewRewardService(store, nil, nil)

	_, _, err := svc.Redeem(context.Background(), "s1", "3")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrStoreUnavailable)
	assert.Equal(t, 25, starsOf(t, store, "s1"))
	assert.Empty(t, repository.Load(context.Background(), store, repository.Redemptions))
}

func TestRewardServiceBalanceWriteFailureLeavesNoLog(t *testing.T) {
	blobs := newFlakyBlobStore()
	store := repository.NewRecordStore(blobs, nil)
	blobs.failWrites(repository.KeyUsers)
	svc := NewRewardService(store, nil, nil)

	_, _, err := svc.Redeem(context.Background(), "s1", "1")
	assert.ErrorIs(t, err, appErrors.ErrStoreUnavailable)
	assert.Empty(t, repository.Load(context.Background(), store, repository.Redemptions))
}

func TestRewardServiceConcurrentRedemptionsNeverOverdraw(t *testing.T) {
	store := newMemoryStore()
	svc := NewRewardService(store, nil, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := svc.Redeem(context.Background(), "s1", "1"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	assert.Equal(t, 5, starsOf(t, store, "s1"))
	assert.Len(t, svc.History(context.Background(), "s1"), 2)
}

func TestRewardServiceHistoryNewestFirst(t *testing.T) {
	svc := NewRewardService(newMemoryStore(), nil, nil)
	_, first, err := svc.Redeem(context.Background(), "s1", "1")
	require.NoError(t, err)
	_, second, err := svc.Redeem(context.Background(), "s1", "2")
	require.NoError(t, err)

	history := svc.History(context.Background(), "s1")
	require.Len(t, history, 2)
	assert.Equal(t, []string{second.ID, first.ID}, []string{history[0].ID, history[1].ID})
	assert.Len(t, svc.Catalog(), 3)
}

func TestStarServiceAdjustClampsAtZero(t *testing.T) {
	store := newMemoryStore()
	svc := NewStarService(store, nil, nil)
	_, err := svc.Adjust(context.Background(), "s2", -5)
	require.NoError(t, err)
	assert.Equal(t, 3, starsOf(t, store, "s2"))

	user, err := svc.Adjust(context.Background(), "s2", -5)
	require.NoError(t, err)
	assert.Equal(t, 0, user.Stars)
	assert.Equal(t, 0, starsOf(t, store, "s2"))
	assert.Empty(t, repository.Load(context.Background(), store, repository.Redemptions))
}

func TestStarServiceAdjustCredit(t *testing.T) {
	svc := NewStarService(newMemoryStore(), nil, nil)

	user, err := svc.Adjust(context.Background(), "s1", 5)
	require.NoError(t, err)
	assert.Equal(t, 30, user.Stars)
	assert.Equal(t, models.RoleStudent, user.Role)
}

func TestStarServiceAdjustRejectsNonStudents(t *testing.T) {
	svc := NewStarService(newMemoryStore(), nil, nil)

	_, err := svc.Adjust(context.Background(), "t1", 5)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Adjust(context.Background(), "missing", 5)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStarServiceAdjustRejectsOutOfRangeDelta(t *testing.T) {
	store := newMemoryStore()
	svc := NewStarService(store, nil, nil)

	for _, delta := range []int{math.MaxInt, math.MinInt, MaxStarDelta + 1, -MaxStarDelta - 1, 0} {
		_, err := svc.Adjust(context.Background(), "s1", delta)
		assert.ErrorIs(t, err, appErrors.ErrValidation, "delta %d", delta)
	}
	assert.Equal(t, 25, starsOf(t, store, "s1"))

	user, err := svc.Adjust(context.Background(), "s1", MaxStarDelta)
	require.NoError(t, err)
	assert.Equal(t, 25+MaxStarDelta, user.Stars)
}

func TestAddStarsSaturates(t *testing.T) {
	assert.Equal(t, math.MaxInt, addStars(math.MaxInt-1, 5))
	assert.Equal(t, 0, addStars(3, -10))
	assert.Equal(t, 30, addStars(25, 5))
}
