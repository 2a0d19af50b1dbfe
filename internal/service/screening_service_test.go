package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-wellbeing-api/internal/catalog"
	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
)

// sixQuestionCatalog raises the maximum score to 18 so every band is reachable.
func sixQuestionCatalog() *catalog.Catalog {
	cat := catalog.Default()
	base := cat.Questions[0]
	for id := 5; id <= 6; id++ {
		cat.Questions = append(cat.Questions, catalog.Question{ID: id, Prompt: "extra", Options: base.Options})
	}
	return cat
}

func TestScreeningServiceBands(t *testing.T) {
	cases := []struct {
		name    string
		answers map[int]int
		score   int
		band    string
		label   string
	}{
		{"minimal", map[int]int{1: 1, 2: 2, 3: 1, 4: 0, 5: 0, 6: 0}, 4, catalog.BandMinimal, "minimal symptoms"},
		{"mild", map[int]int{1: 3, 2: 3, 3: 3, 4: 0, 5: 0, 6: 0}, 9, catalog.BandMild, "mild symptoms, suggest self-care"},
		{"moderate", map[int]int{1: 3, 2: 3, 3: 3, 4: 1, 5: 0, 6: 0}, 10, catalog.BandModerate, "moderate symptoms, suggest counselor conversation"},
		{"moderately severe", map[int]int{1: 3, 2: 3, 3: 3, 4: 3, 5: 3, 6: 0}, 15, catalog.BandModeratelySevere, "moderately severe, suggest immediate appointment"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewScreeningService(newMemoryStore(), sixQuestionCatalog(), nil)
			result, err := svc.Score(context.Background(), "s1", tc.answers)
			require.NoError(t, err)
			assert.Equal(t, tc.score, result.Score)
			assert.Equal(t, tc.band, result.Band)
			assert.Equal(t, tc.label, result.Interpretation)
			assert.NotEmpty(t, result.Advice)
		})
	}
}

func TestScreeningServiceDefaultQuestionnaire(t *testing.T) {
	svc := NewScreeningService(newMemoryStore(), nil, nil)

	result, err := svc.Score(context.Background(), "s1", map[int]int{1: 1, 2: 2, 3: 1, 4: 0})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Score)
	assert.Equal(t, "minimal symptoms", result.Interpretation)
	assert.Len(t, svc.Questions(), 4)
}

func TestScreeningServiceIncompleteAnswers(t *testing.T) {
	store := newMemoryStore()
	svc := NewScreeningService(store, nil, nil)

	_, err := svc.Score(context.Background(), "s1", map[int]int{1: 1, 2: 2, 3: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrIncompleteAnswers)
	assert.Contains(t, err.Error(), "4")
	assert.Empty(t, repository.Load(context.Background(), store, repository.TestResults))
}

func TestScreeningServiceRejectsOutOfRangeAnswer(t *testing.T) {
	svc := NewScreeningService(newMemoryStore(), nil, nil)

	_, err := svc.Score(context.Background(), "s1", map[int]int{1: 1, 2: 2, 3: 7, 4: 0})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestScreeningServiceIgnoresUnknownQuestions(t *testing.T) {
	svc := NewScreeningService(newMemoryStore(), nil, nil)

	result, err := svc.Score(context.Background(), "s1", map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 99: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
}

func TestScreeningServiceEachSubmissionIsNewAttempt(t *testing.T) {
	svc := NewScreeningService(newMemoryStore(), nil, nil)
	answers := map[int]int{1: 2, 2: 2, 3: 1, 4: 1}

	first, err := svc.Score(context.Background(), "s1", answers)
	require.NoError(t, err)
	second, err := svc.Score(context.Background(), "s1", answers)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Interpretation, second.Interpretation)

	history := svc.History(context.Background(), "s1")
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Empty(t, svc.History(context.Background(), "s2"))
}
