package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

// questionsByRank loads a chosen trait's question bank keyed by rank.
func questionsByRank(t *testing.T, env *testEnv, formID string) map[int]*domain.Question {
	t.Helper()
	questions, err := env.formRepo.ListQuestions(context.Background(), formID)
	require.NoError(t, err)
	require.NotEmpty(t, questions)
	byRank := make(map[int]*domain.Question, len(questions))
	for _, q := range questions {
		byRank[q.Rank] = q
	}
	return byRank
}

func TestSaveTraitAnswers_RecommendsWeakestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, _, pair := setupSelection(t, env)
	byRank := questionsByRank(t, env, pair.Strength.FormID)
	require.GreaterOrEqual(t, len(byRank), 5)

	extentFor := func(rank int) string {
		switch rank {
		case 3:
			return "Not at All"
		case 1:
			return "To a Small Extent"
		case 2:
			return "To a Moderate Extent"
		default:
			return "To the Fullest Extent"
		}
	}
	var answers []ExtentAnswerInput
	for rank, q := range byRank {
		answers = append(answers, ExtentAnswerInput{QuestionID: q.ID, Extent: extentFor(rank)})
	}
	require.NoError(t, env.practices.SaveTraitAnswers(ctx, user.ID, pair.Strength.ID, answers))

	practices, err := env.practices.GetTraitPractices(ctx, user.ID, pair.Strength.ID)
	require.NoError(t, err)
	require.Len(t, practices, 5)

	// Listed by descending score: the weakest self-ratings come first, then
	// moderates, then the highest-ranked of the rest as top-up.
	assert.Equal(t, byRank[3].Text, practices[0].Name)
	assert.Equal(t, 4.0, practices[0].Score)
	assert.Equal(t, byRank[1].Text, practices[1].Name)
	assert.Equal(t, 3.0, practices[1].Score)
	assert.Equal(t, byRank[2].Text, practices[2].Name)
	assert.Equal(t, 2.0, practices[2].Score)
	topUp := []string{practices[3].Name, practices[4].Name}
	assert.ElementsMatch(t, []string{byRank[4].Text, byRank[5].Text}, topUp)
	assert.Equal(t, 0.0, practices[3].Score)
	assert.Equal(t, 0.0, practices[4].Score)

	for _, p := range practices {
		assert.False(t, p.IsRecommended, "no sprint-2 highlight during sprint 1")
	}

	// The answers round-trip with their extent labels.
	stored, err := env.formRepo.ListAnswers(ctx, pair.Strength.FormID)
	require.NoError(t, err)
	byQuestion := make(map[string]string, len(stored))
	for _, a := range stored {
		byQuestion[a.QuestionID] = a.Value
	}
	assert.Equal(t, "Not at All", byQuestion[byRank[3].ID])
	assert.Equal(t, "To a Small Extent", byQuestion[byRank[1].ID])
}

func TestSaveTraitAnswers_ResubmissionReplacesSet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, _, pair := setupSelection(t, env)
	byRank := questionsByRank(t, env, pair.Strength.FormID)

	answerAll := func(extentAt map[int]string) []ExtentAnswerInput {
		var answers []ExtentAnswerInput
		for rank, q := range byRank {
			extent := "To the Fullest Extent"
			if e, ok := extentAt[rank]; ok {
				extent = e
			}
			answers = append(answers, ExtentAnswerInput{QuestionID: q.ID, Extent: extent})
		}
		return answers
	}

	require.NoError(t, env.practices.SaveTraitAnswers(ctx, user.ID, pair.Strength.ID, answerAll(nil)))
	first, err := env.practices.GetTraitPractices(ctx, user.ID, pair.Strength.ID)
	require.NoError(t, err)
	require.Len(t, first, 5)
	assert.Equal(t, 0.0, first[0].Score)

	require.NoError(t, env.practices.SaveTraitAnswers(ctx, user.ID, pair.Strength.ID,
		answerAll(map[int]string{6: "Not at All"})))
	second, err := env.practices.GetTraitPractices(ctx, user.ID, pair.Strength.ID)
	require.NoError(t, err)
	require.Len(t, second, 5, "resubmission replaces, never appends")
	assert.Equal(t, byRank[6].Text, second[0].Name)
	assert.Equal(t, 4.0, second[0].Score)
}

func TestSaveTraitAnswers_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, _, pair := setupSelection(t, env)
	byRank := questionsByRank(t, env, pair.Strength.FormID)

	err := env.practices.SaveTraitAnswers(ctx, user.ID, pair.Strength.ID, nil)
	assert.True(t, errors.Is(err, ErrValidation))

	err = env.practices.SaveTraitAnswers(ctx, user.ID, pair.Strength.ID, []ExtentAnswerInput{
		{QuestionID: "not-a-question", Extent: "Not at All"},
	})
	assert.True(t, errors.Is(err, ErrValidation))

	err = env.practices.SaveTraitAnswers(ctx, user.ID, pair.Strength.ID, []ExtentAnswerInput{
		{QuestionID: byRank[1].ID, Extent: "Somewhat"},
	})
	assert.True(t, errors.Is(err, ErrValidation))

	stranger := env.registerUser(t)
	err = env.practices.SaveTraitAnswers(ctx, stranger.ID, pair.Strength.ID, []ExtentAnswerInput{
		{QuestionID: byRank[1].ID, Extent: "Not at All"},
	})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestSaveChosenPractice_UpsertsAndBumpsVersion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, plan, pair := setupSelection(t, env)

	_, err := env.sprints.GetCurrent(ctx, user.ID)
	require.NoError(t, err)

	byRank := questionsByRank(t, env, pair.Strength.FormID)
	var answers []ExtentAnswerInput
	for _, q := range byRank {
		answers = append(answers, ExtentAnswerInput{QuestionID: q.ID, Extent: "Not at All"})
	}
	require.NoError(t, env.practices.SaveTraitAnswers(ctx, user.ID, pair.Strength.ID, answers))
	practices, err := env.practices.GetTraitPractices(ctx, user.ID, pair.Strength.ID)
	require.NoError(t, err)
	require.Len(t, practices, 5)

	first, err := env.practices.SaveChosenPractice(ctx, user.ID, ChosenPracticeInput{
		ChosenTraitID: pair.Strength.ID,
		PracticeID:    practices[0].ID,
		Name:          practices[0].Name,
	})
	require.NoError(t, err)

	ct, err := env.chosenTraitRepo.GetByID(ctx, pair.Strength.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, ct.Version, "version guard bumps on commit")
	assert.Equal(t, practices[0].ID, ct.PracticeID)

	// Committing a different practice for the same sprint replaces the row.
	second, err := env.practices.SaveChosenPractice(ctx, user.ID, ChosenPracticeInput{
		ChosenTraitID: pair.Strength.ID,
		PracticeID:    practices[1].ID,
		Name:          practices[1].Name,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.FormID, second.FormID, "the sprint practice form is reused, not duplicated")

	cps, err := env.chosenPractRepo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, cps, 1)
	assert.Equal(t, practices[1].ID, cps[0].PracticeID)

	ct, err = env.chosenTraitRepo.GetByID(ctx, pair.Strength.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, ct.Version)
	assert.Equal(t, practices[1].ID, ct.PracticeID)

	status, err := env.sprints.GetCurrent(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, status.Sprint.StrengthPracticeFormID)
	assert.Equal(t, second.FormID, *status.Sprint.StrengthPracticeFormID)
}

func TestSaveChosenPractice_RequiresActiveSprint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, _, pair := setupSelection(t, env)

	_, err := env.practices.SaveChosenPractice(ctx, user.ID, ChosenPracticeInput{
		ChosenTraitID: pair.Strength.ID,
		PracticeID:    "p-1",
		Name:          "Anything",
	})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestMarkSecondSprintPicks_ExactlyTwoAndIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, _, pair := setupSelection(t, env)

	byRank := questionsByRank(t, env, pair.Strength.FormID)
	var answers []ExtentAnswerInput
	for _, q := range byRank {
		answers = append(answers, ExtentAnswerInput{QuestionID: q.ID, Extent: "Not at All"})
	}
	require.NoError(t, env.practices.SaveTraitAnswers(ctx, user.ID, pair.Strength.ID, answers))

	require.NoError(t, env.practices.MarkSecondSprintPicks(ctx, user.ID, pair.Strength.ID))
	marked := recommendedIDs(t, env, user.ID, pair.Strength.ID)
	assert.Len(t, marked, 2)

	require.NoError(t, env.practices.MarkSecondSprintPicks(ctx, user.ID, pair.Strength.ID))
	assert.ElementsMatch(t, marked, recommendedIDs(t, env, user.ID, pair.Strength.ID),
		"a second pass keeps the existing picks")
}

func TestSaveTraitAnswers_MarksPicksDuringSecondSprint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, _, pair := setupSelection(t, env)

	status, err := env.sprints.GetCurrent(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, env.sprints.Finish(ctx, user.ID, status.Sprint.ID))
	status, err = env.sprints.GetCurrent(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, status.Sprint.Number)

	byRank := questionsByRank(t, env, pair.Strength.FormID)
	var answers []ExtentAnswerInput
	for _, q := range byRank {
		answers = append(answers, ExtentAnswerInput{QuestionID: q.ID, Extent: "To a Moderate Extent"})
	}
	require.NoError(t, env.practices.SaveTraitAnswers(ctx, user.ID, pair.Strength.ID, answers))

	assert.Len(t, recommendedIDs(t, env, user.ID, pair.Strength.ID), 2,
		"a sprint-2 refresh comes with its highlighted picks")
}

func recommendedIDs(t *testing.T, env *testEnv, userID, chosenTraitID string) []string {
	t.Helper()
	practices, err := env.practices.GetTraitPractices(context.Background(), userID, chosenTraitID)
	require.NoError(t, err)
	var ids []string
	for _, p := range practices {
		if p.IsRecommended {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
