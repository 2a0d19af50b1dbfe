package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
)

func TestMoodServiceRecordValidLevels(t *testing.T) {
	for value := 1; value <= 5; value++ {
		store := newMemoryStore()
		svc := NewMoodService(store, nil, nil)
		svc.now = func() time.Time { return testNow.Add(time.Minute) }

		log, err := svc.Record(context.Background(), "s2", value, "note")
		require.NoError(t, err)
		assert.Equal(t, value, log.MoodValue)
		assert.NotEmpty(t, log.ID)
		assert.NotEmpty(t, log.Emoji)

		logs := svc.ListForUser(context.Background(), "s2")
		require.NotEmpty(t, logs)
		assert.Equal(t, log.ID, logs[0].ID)
	}
}

func TestMoodServiceRecordInvalidLevel(t *testing.T) {
	store := newMemoryStore()
	svc := NewMoodService(store, nil, nil)

	for _, value := range []int{0, 6, -1} {
		_, err := svc.Record(context.Background(), "s1", value, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, appErrors.ErrInvalidMood)
	}
	assert.Len(t, repository.Load(context.Background(), store, repository.Moods), 3)
}

func TestMoodServiceNewEntryFirstWithEqualTimestamps(t *testing.T) {
	svc := NewMoodService(newMemoryStore(), nil, nil)
	svc.now = fixedClock()

	log, err := svc.Record(context.Background(), "s1", 4, "Played football")
	require.NoError(t, err)

	logs := svc.ListForUser(context.Background(), "s1")
	require.Len(t, logs, 3)
	assert.Equal(t, log.ID, logs[0].ID)
	assert.Equal(t, "m2", logs[1].ID)
	assert.Equal(t, "m1", logs[2].ID)
}

func TestMoodServiceListForUserFiltersExactly(t *testing.T) {
	svc := NewMoodService(newMemoryStore(), nil, nil)

	logs := svc.ListForUser(context.Background(), "s2")
	require.Len(t, logs, 1)
	assert.Equal(t, "m3", logs[0].ID)
	assert.Empty(t, svc.ListForUser(context.Background(), "s"))
}

func TestMoodServiceDistributionIncludesEveryLevel(t *testing.T) {
	svc := NewMoodService(newMemoryStore(), nil, nil)

	dist := svc.Distribution(context.Background())
	require.Len(t, dist, 5)
	counts := map[int]int{}
	for _, d := range dist {
		counts[d.Value] = d.Count
	}
	assert.Equal(t, map[int]int{1: 0, 2: 1, 3: 1, 4: 0, 5: 1}, counts)
}

func TestMoodServiceRecordSurfacesWriteFailure(t *testing.T) {
	blobs := newFlakyBlobStore()
	blobs.failWrites(repository.KeyMoods)
	svc := NewMoodService(repository.NewRecordStore(blobs, nil), nil, nil)

	_, err := svc.Record(context.Background(), "s1", 3, "")
	assert.ErrorIs(t, err, appErrors.ErrStoreUnavailable)
}
