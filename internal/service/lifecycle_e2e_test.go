package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/repository"
)

// Walks a user through the whole program: initial questionnaire, ranking,
// trait selection, practice recommendation, practice commitment, and both
// sprints.
func TestFullProgramJourney(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t)

	// Submit the initial questionnaire with every trait answered once and
	// Vision boosted well clear of the pack.
	result, err := env.assessments.SaveInitialAnswers(ctx, user.ID, scenarioAnswers(t, "Vision", 9))
	require.NoError(t, err)
	assert.True(t, result.Changed)

	// Ranking: exactly 5 + 5, monotonic, disjoint.
	ranking, err := env.traits.GetTopBottomFive(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, ranking.Strengths, 5)
	require.Len(t, ranking.Weaknesses, 5)
	assert.Equal(t, "Vision", ranking.Strengths[0].Name)
	for i := 1; i < 5; i++ {
		assert.GreaterOrEqual(t, ranking.Strengths[i-1].TScore, ranking.Strengths[i].TScore)
		assert.LessOrEqual(t, ranking.Weaknesses[i-1].TScore, ranking.Weaknesses[i].TScore)
	}
	strengthNames := map[string]bool{}
	for _, s := range ranking.Strengths {
		strengthNames[s.Name] = true
	}
	for _, w := range ranking.Weaknesses {
		assert.False(t, strengthNames[w.Name], "top and bottom five must not overlap")
	}

	plan, err := env.plans.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.StartDate.AddDate(0, 0, 28), plan.EndDate)

	// A second fetch reuses the active plan.
	again, err := env.plans.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, again.ID)

	// Select the top strength and bottom weakness.
	pair, err := env.traits.SelectTraits(ctx, user.ID, plan.ID,
		ranking.Strengths[0].Name, ranking.Weaknesses[0].Name)
	require.NoError(t, err)
	require.NotNil(t, pair.Strength)
	require.NotNil(t, pair.Weakness)
	assert.Equal(t, "Vision", pair.Strength.Name)
	assert.Equal(t, domain.TraitStrength, pair.Strength.TraitType)

	// Round-trip: the fetched pair matches what was submitted, with the
	// plan window on both rows.
	fetched, err := env.traits.GetChosenTraits(ctx, user.ID, plan.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Strength)
	assert.Equal(t, pair.Strength.Name, fetched.Strength.Name)
	assert.Equal(t, pair.Strength.TraitType, fetched.Strength.TraitType)
	require.NotNil(t, fetched.Strength.StartDate)
	assert.True(t, fetched.Strength.StartDate.Equal(plan.StartDate))
	require.NotNil(t, fetched.Strength.EndDate)
	assert.True(t, fetched.Strength.EndDate.Equal(plan.EndDate))

	// The strength follow-up form carries the Vision question bank.
	questions, err := env.formRepo.ListQuestions(ctx, pair.Strength.FormID)
	require.NoError(t, err)
	require.NotEmpty(t, questions)

	// Plan pointers reference the chosen rows.
	storedPlan, err := env.planRepo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	require.NotNil(t, storedPlan.ChosenStrengthID)
	assert.Equal(t, pair.Strength.ID, *storedPlan.ChosenStrengthID)
	require.NotNil(t, storedPlan.ChosenWeaknessID)
	assert.Equal(t, pair.Weakness.ID, *storedPlan.ChosenWeaknessID)

	// Sprint 1 is created lazily.
	status, err := env.sprints.GetCurrent(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, status.Sprint)
	sprint1 := status.Sprint
	assert.Equal(t, 1, sprint1.Number)
	assert.True(t, sprint1.StartDate.Equal(plan.StartDate))
	assert.True(t, sprint1.EndDate.Equal(plan.StartDate.AddDate(0, 0, 14)))

	// Answer the strength follow-ups and get five recommended practices.
	var extentAnswers []ExtentAnswerInput
	for _, q := range questions {
		extentAnswers = append(extentAnswers, ExtentAnswerInput{
			QuestionID: q.ID,
			Extent:     "To a Small Extent",
		})
	}
	require.NoError(t, env.practices.SaveTraitAnswers(ctx, user.ID, pair.Strength.ID, extentAnswers))

	practices, err := env.practices.GetTraitPractices(ctx, user.ID, pair.Strength.ID)
	require.NoError(t, err)
	require.Len(t, practices, 5)

	// Commit one practice for sprint 1.
	saved, err := env.practices.SaveChosenPractice(ctx, user.ID, ChosenPracticeInput{
		ChosenTraitID: pair.Strength.ID,
		PracticeID:    practices[0].ID,
		Name:          practices[0].Name,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved.SprintNumber)

	linked, err := env.sprintRepo.GetByID(ctx, sprint1.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.StrengthPracticeFormID)
	assert.Equal(t, saved.FormID, *linked.StrengthPracticeFormID)

	// Finish sprint 1; the next fetch creates sprint 2 one second later.
	require.NoError(t, env.sprints.Finish(ctx, user.ID, sprint1.ID))

	status, err = env.sprints.GetCurrent(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, status.Sprint)
	sprint2 := status.Sprint
	assert.Equal(t, 2, sprint2.Number)
	assert.True(t, sprint2.StartDate.Equal(sprint1.EndDate.Add(time.Second)))
	assert.True(t, sprint2.EndDate.Equal(plan.EndDate))

	// Re-fetching must reuse the unfinished sprint, not create a duplicate.
	status, err = env.sprints.GetCurrent(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, status.Sprint)
	assert.Equal(t, sprint2.ID, status.Sprint.ID)

	// Finishing sprint 2 completes the program and the plan.
	require.NoError(t, env.sprints.Finish(ctx, user.ID, sprint2.ID))

	finishedPlan, err := env.planRepo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.True(t, finishedPlan.IsFinished)

	_, err = env.planRepo.GetActiveByUser(ctx, user.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestGetCurrentSprint_ProgramCompleteAfterBothSprints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t)

	plan, err := env.plans.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		status, err := env.sprints.GetCurrent(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, status.Sprint)
		require.NoError(t, env.sprints.Finish(ctx, user.ID, status.Sprint.ID))
		if status.Sprint.Number == 2 {
			break
		}
	}

	// Plan is finished now, but mark it active again to observe the soft
	// program-complete state instead of the missing-plan error.
	stored, err := env.planRepo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	stored.IsFinished = false
	require.NoError(t, env.planRepo.Update(ctx, stored))

	status, err := env.sprints.GetCurrent(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, status.Sprint)
	assert.True(t, status.ProgramComplete)
}

func TestProgressFormName_CurrentSprintAndWeek(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t)

	_, err := env.plans.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	_, err = env.sprints.GetCurrent(ctx, user.ID)
	require.NoError(t, err)

	name, err := env.sprints.ProgressFormName(ctx, user.ID, domain.TraitStrength)
	require.NoError(t, err)
	assert.Equal(t, "1_PROGRESS_STRENGTH_WEEK_1", name)

	name, err = env.sprints.ProgressFormName(ctx, user.ID, domain.TraitWeakness)
	require.NoError(t, err)
	assert.Equal(t, "1_PROGRESS_WEAKNESS_WEEK_1", name)
}

// A user who finishes the program can start a second plan and pick a new
// trait pair. The question forms from the first plan carry the same names,
// so selection must replace them rather than trip the per-user uniqueness.
func TestSelectTraits_OnSuccessorPlan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, firstPlan, firstPair := setupSelection(t, env)

	for i := 0; i < 2; i++ {
		status, err := env.sprints.GetCurrent(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, status.Sprint)
		require.NoError(t, env.sprints.Finish(ctx, user.ID, status.Sprint.ID))
	}

	finished, err := env.planRepo.GetByID(ctx, firstPlan.ID)
	require.NoError(t, err)
	require.True(t, finished.IsFinished)

	secondPlan, err := env.plans.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	require.NotEqual(t, firstPlan.ID, secondPlan.ID)

	ranking, err := env.traits.GetTopBottomFive(ctx, user.ID)
	require.NoError(t, err)

	pair, err := env.traits.SelectTraits(ctx, user.ID, secondPlan.ID,
		ranking.Strengths[1].Name, ranking.Weaknesses[1].Name)
	require.NoError(t, err)
	require.NotNil(t, pair.Strength)
	require.NotNil(t, pair.Weakness)
	assert.Equal(t, ranking.Strengths[1].Name, pair.Strength.Name)

	// The follow-up forms are rebuilt for the new selection.
	assert.NotEqual(t, firstPair.Strength.FormID, pair.Strength.FormID)
	assert.NotEqual(t, firstPair.Weakness.FormID, pair.Weakness.FormID)

	questions, err := env.formRepo.ListQuestions(ctx, pair.Strength.FormID)
	require.NoError(t, err)
	assert.NotEmpty(t, questions)

	stored, err := env.planRepo.GetByID(ctx, secondPlan.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ChosenStrengthID)
	assert.Equal(t, pair.Strength.ID, *stored.ChosenStrengthID)
}

func TestFinishSprint_WrongUserRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t)
	intruder := env.registerUser(t)

	_, err := env.plans.GetOrCreate(ctx, owner.ID)
	require.NoError(t, err)
	status, err := env.sprints.GetCurrent(ctx, owner.ID)
	require.NoError(t, err)

	err = env.sprints.Finish(ctx, intruder.ID, status.Sprint.ID)
	assert.True(t, errors.Is(err, ErrValidation))
}
