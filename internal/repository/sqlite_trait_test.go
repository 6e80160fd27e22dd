package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/testutil"
)

func TestTraitRepo_IncrementRawScoreTreatsNullAsZero(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	user := seedUser(t, database)
	repo := NewSQLiteTraitRepo(database)

	trait := testutil.NewTestTrait(user.ID, "Resilience")
	require.NoError(t, repo.CreateBatch(ctx, []*domain.TraitDefinition{trait}))

	require.NoError(t, repo.IncrementRawScore(ctx, user.ID, "Resilience"))
	require.NoError(t, repo.IncrementRawScore(ctx, user.ID, "Resilience"))

	got, err := repo.GetByName(ctx, user.ID, "Resilience")
	require.NoError(t, err)
	require.NotNil(t, got.TotalRawScore)
	assert.Equal(t, 2, *got.TotalRawScore)
}

func TestTraitRepo_IncrementRawScoreUnknownTrait(t *testing.T) {
	database := testutil.NewTestDB(t)
	user := seedUser(t, database)
	repo := NewSQLiteTraitRepo(database)

	err := repo.IncrementRawScore(context.Background(), user.ID, "Nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTraitRepo_ResetRawScoresClearsScores(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	user := seedUser(t, database)
	repo := NewSQLiteTraitRepo(database)

	trait := testutil.NewTestTrait(user.ID, "Vision", testutil.WithRawScore(4), testutil.WithTScore(61.5))
	require.NoError(t, repo.CreateBatch(ctx, []*domain.TraitDefinition{trait}))

	require.NoError(t, repo.ResetRawScores(ctx, user.ID))

	got, err := repo.GetByName(ctx, user.ID, "Vision")
	require.NoError(t, err)
	assert.Nil(t, got.TotalRawScore)
	assert.Nil(t, got.TScore)
}

func TestTraitRepo_TopBottomOrderingAndTieBreak(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	user := seedUser(t, database)
	repo := NewSQLiteTraitRepo(database)

	traits := []*domain.TraitDefinition{
		testutil.NewTestTrait(user.ID, "Alpha", testutil.WithTScore(60)),
		testutil.NewTestTrait(user.ID, "Bravo", testutil.WithTScore(60)),
		testutil.NewTestTrait(user.ID, "Charlie", testutil.WithTScore(40)),
		testutil.NewTestTrait(user.ID, "Delta", testutil.WithTScore(55)),
		testutil.NewTestTrait(user.ID, "Unscored"),
	}
	require.NoError(t, repo.CreateBatch(ctx, traits))

	top, err := repo.TopByTScore(ctx, user.ID, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	// Equal scores fall back to name ascending.
	assert.Equal(t, "Alpha", top[0].Name)
	assert.Equal(t, "Bravo", top[1].Name)
	assert.Equal(t, "Delta", top[2].Name)

	bottom, err := repo.BottomByTScore(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, bottom, 2)
	assert.Equal(t, "Charlie", bottom[0].Name)
	assert.Equal(t, "Delta", bottom[1].Name)
}

func TestTraitRepo_ListRawScoresForUsers(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteTraitRepo(database)

	alice := seedUser(t, database)
	bob := testutil.NewTestUser("bob@example.com")
	require.NoError(t, NewSQLiteUserRepo(database).Create(ctx, bob))

	require.NoError(t, repo.CreateBatch(ctx, []*domain.TraitDefinition{
		testutil.NewTestTrait(alice.ID, "Vision", testutil.WithRawScore(3)),
		testutil.NewTestTrait(alice.ID, "Resilience"),
		testutil.NewTestTrait(bob.ID, "Vision", testutil.WithRawScore(5)),
	}))

	scores, err := repo.ListRawScoresForUsers(ctx, []string{alice.ID, bob.ID})
	require.NoError(t, err)
	require.Len(t, scores, 2)
	byValue := map[int]string{}
	for _, s := range scores {
		assert.Equal(t, "Vision", s.Name)
		byValue[s.RawScore] = s.Name
	}
	assert.Contains(t, byValue, 3)
	assert.Contains(t, byValue, 5)
}

func TestTraitRepo_UpdatePopulationStatsAppliesToAllUsers(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteTraitRepo(database)

	alice := seedUser(t, database)
	bob := testutil.NewTestUser("bob@example.com")
	require.NoError(t, NewSQLiteUserRepo(database).Create(ctx, bob))
	require.NoError(t, repo.CreateBatch(ctx, []*domain.TraitDefinition{
		testutil.NewTestTrait(alice.ID, "Vision"),
		testutil.NewTestTrait(bob.ID, "Vision"),
	}))

	require.NoError(t, repo.UpdatePopulationStats(ctx, "Vision", 4.2, 0.9))

	for _, userID := range []string{alice.ID, bob.ID} {
		got, err := repo.GetByName(ctx, userID, "Vision")
		require.NoError(t, err)
		assert.InDelta(t, 4.2, got.Average, 1e-9)
		assert.InDelta(t, 0.9, got.StandardDeviation, 1e-9)
	}
}
