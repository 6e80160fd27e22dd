package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/testutil"
)

func newSprint(userID, planID string, number int, start time.Time) *domain.Sprint {
	now := time.Now().UTC()
	return &domain.Sprint{
		ID:                uuid.New().String(),
		UserID:            userID,
		DevelopmentPlanID: planID,
		Number:            number,
		StartDate:         start,
		EndDate:           start.AddDate(0, 0, 14),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestSprintRepo_GetCurrentReturnsMaxNumbered(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	user := seedUser(t, database)
	plan := seedPlan(t, database, user.ID)
	repo := NewSQLiteSprintRepo(database)

	_, err := repo.GetCurrent(ctx, plan.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	first := newSprint(user.ID, plan.ID, 1, plan.StartDate)
	require.NoError(t, repo.Create(ctx, first))

	got, err := repo.GetCurrent(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	second := newSprint(user.ID, plan.ID, 2, first.EndDate.Add(time.Second))
	require.NoError(t, repo.Create(ctx, second))

	got, err = repo.GetCurrent(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, 2, got.Number)
}

func TestSprintRepo_NumberConstraints(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	user := seedUser(t, database)
	plan := seedPlan(t, database, user.ID)
	repo := NewSQLiteSprintRepo(database)

	require.NoError(t, repo.Create(ctx, newSprint(user.ID, plan.ID, 1, plan.StartDate)))
	assert.Error(t, repo.Create(ctx, newSprint(user.ID, plan.ID, 1, plan.StartDate)),
		"duplicate sprint number for a plan must be rejected")
	assert.Error(t, repo.Create(ctx, newSprint(user.ID, plan.ID, 3, plan.StartDate)),
		"the program has exactly two sprints")
}

func TestSprintRepo_ClearPracticeForms(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	user := seedUser(t, database)
	plan := seedPlan(t, database, user.ID)
	repo := NewSQLiteSprintRepo(database)

	sprint := newSprint(user.ID, plan.ID, 1, plan.StartDate)
	strengthForm, weaknessForm := "form-a", "form-b"
	sprint.StrengthPracticeFormID = &strengthForm
	sprint.WeaknessPracticeFormID = &weaknessForm
	require.NoError(t, repo.Create(ctx, sprint))

	require.NoError(t, repo.ClearPracticeForms(ctx, sprint.ID))

	got, err := repo.GetByID(ctx, sprint.ID)
	require.NoError(t, err)
	assert.Nil(t, got.StrengthPracticeFormID)
	assert.Nil(t, got.WeaknessPracticeFormID)
}

func TestChosenPracticeRepo_UpsertPerTraitAndSprint(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	user := seedUser(t, database)
	plan := seedPlan(t, database, user.ID)

	ct := newChosenTrait(user.ID, plan.ID, domain.TraitStrength, "Vision")
	require.NoError(t, NewSQLiteChosenTraitRepo(database).Create(ctx, ct))

	repo := NewSQLiteChosenPracticeRepo(database)
	now := time.Now().UTC()
	cp := &domain.ChosenPractice{
		ID:                uuid.New().String(),
		UserID:            user.ID,
		ChosenTraitID:     ct.ID,
		Name:              "Share the roadmap weekly",
		PracticeID:        "practice-1",
		SprintNumber:      1,
		DevelopmentPlanID: plan.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, repo.Upsert(ctx, cp))

	replacement := *cp
	replacement.ID = uuid.New().String()
	replacement.Name = "Run weekly demos"
	replacement.PracticeID = "practice-2"
	require.NoError(t, repo.Upsert(ctx, &replacement))

	got, err := repo.GetByTraitAndSprint(ctx, ct.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Run weekly demos", got.Name)
	assert.Equal(t, "practice-2", got.PracticeID)

	all, err := repo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert must not duplicate the (plan, trait, sprint) row")
}
