package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/catalog"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/repository"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/testutil"
)

type testEnv struct {
	db  *sql.DB
	uow db.UnitOfWork

	userRepo        repository.UserRepo
	traitRepo       repository.TraitRepo
	formRepo        repository.FormRepo
	planRepo        repository.PlanRepo
	chosenTraitRepo repository.ChosenTraitRepo
	practiceRepo    repository.PracticeRepo
	chosenPractRepo repository.ChosenPracticeRepo
	sprintRepo      repository.SprintRepo
	personalRepo    repository.PersonalPracticeRepo
	pendingRepo     repository.PendingActionRepo

	users       UserService
	assessments AssessmentService
	traits      TraitService
	practices   PracticeService
	plans       PlanService
	sprints     SprintService
	pending     PendingActionService
	personal    PersonalPracticeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	env := &testEnv{
		db:              database,
		uow:             uow,
		userRepo:        repository.NewSQLiteUserRepo(database),
		traitRepo:       repository.NewSQLiteTraitRepo(database),
		formRepo:        repository.NewSQLiteFormRepo(database),
		planRepo:        repository.NewSQLitePlanRepo(database),
		chosenTraitRepo: repository.NewSQLiteChosenTraitRepo(database),
		practiceRepo:    repository.NewSQLitePracticeRepo(database),
		chosenPractRepo: repository.NewSQLiteChosenPracticeRepo(database),
		sprintRepo:      repository.NewSQLiteSprintRepo(database),
		personalRepo:    repository.NewSQLitePersonalPracticeRepo(database),
		pendingRepo:     repository.NewSQLitePendingActionRepo(database),
	}
	env.users = NewUserService(env.userRepo, uow)
	env.assessments = NewAssessmentService(env.formRepo, uow, nil)
	env.traits = NewTraitService(env.traitRepo, env.planRepo, env.chosenTraitRepo, uow)
	env.practices = NewPracticeService(env.chosenTraitRepo, env.practiceRepo, env.formRepo, env.planRepo, env.sprintRepo, uow)
	env.plans = NewPlanService(env.planRepo, uow)
	env.sprints = NewSprintService(env.planRepo, env.sprintRepo, uow)
	env.pending = NewPendingActionService(env.pendingRepo, uow)
	env.personal = NewPersonalPracticeService(env.personalRepo, env.planRepo, uow)
	return env
}

var testUserSeq int

func (env *testEnv) registerUser(t *testing.T) *domain.User {
	t.Helper()
	testUserSeq++
	u := testutil.NewTestUser(fmt.Sprintf("user%d@example.com", testUserSeq))
	require.NoError(t, env.users.Register(context.Background(), u))
	return u
}

// scenarioAnswers builds an initial submission covering every catalog trait
// once, plus extra answers that push one trait to the top of the ranking.
func scenarioAnswers(t *testing.T, boostedTrait string, boost int) []AnswerInput {
	t.Helper()
	stats, err := catalog.TraitStats()
	require.NoError(t, err)

	var answers []AnswerInput
	for _, s := range stats {
		answers = append(answers, AnswerInput{
			QuestionID: fmt.Sprintf("q-%s-1", s.Name),
			TraitName:  s.Name,
			Value:      "Option A",
		})
	}
	for i := 2; i <= boost+1; i++ {
		answers = append(answers, AnswerInput{
			QuestionID: fmt.Sprintf("q-%s-%d", boostedTrait, i),
			TraitName:  boostedTrait,
			Value:      "Option A",
		})
	}
	return answers
}

// setupSelection walks a fresh user to a committed strength/weakness pair:
// submit answers, rank, get-or-create the plan, select top/bottom traits.
func setupSelection(t *testing.T, env *testEnv) (*domain.User, *domain.DevelopmentPlan, *ChosenPair) {
	t.Helper()
	ctx := context.Background()
	user := env.registerUser(t)

	result, err := env.assessments.SaveInitialAnswers(ctx, user.ID, scenarioAnswers(t, "Vision", 9))
	require.NoError(t, err)
	require.True(t, result.Changed)

	ranking, err := env.traits.GetTopBottomFive(ctx, user.ID)
	require.NoError(t, err)

	plan, err := env.plans.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)

	pair, err := env.traits.SelectTraits(ctx, user.ID, plan.ID,
		ranking.Strengths[0].Name, ranking.Weaknesses[0].Name)
	require.NoError(t, err)
	return user, plan, pair
}
