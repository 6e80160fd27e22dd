package repository

import (
	"context"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

// TraitRawScore is a (trait name, raw score) pair used by the population
// statistics refresher.
type TraitRawScore struct {
	Name     string
	RawScore int
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.User, error)
}

type TraitRepo interface {
	CreateBatch(ctx context.Context, traits []*domain.TraitDefinition) error
	GetByName(ctx context.Context, userID, name string) (*domain.TraitDefinition, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.TraitDefinition, error)
	// ResetRawScores sets every trait's total_raw_score and t_score to NULL
	// for the user, ahead of a questionnaire resubmission.
	ResetRawScores(ctx context.Context, userID string) error
	// IncrementRawScore adds one to a trait's raw score, treating NULL as 0.
	IncrementRawScore(ctx context.Context, userID, name string) error
	SetTScore(ctx context.Context, id string, tScore float64) error
	TopByTScore(ctx context.Context, userID string, limit int) ([]domain.TraitScore, error)
	BottomByTScore(ctx context.Context, userID string, limit int) ([]domain.TraitScore, error)
	// UpdatePopulationStats rewrites the average/standard deviation for one
	// trait name across all users.
	UpdatePopulationStats(ctx context.Context, name string, average, standardDeviation float64) error
	// ListRawScoresForUsers returns the non-NULL raw scores of the given
	// users, for population statistics estimation.
	ListRawScoresForUsers(ctx context.Context, userIDs []string) ([]TraitRawScore, error)
}

type FormRepo interface {
	Create(ctx context.Context, f *domain.Form) error
	GetByID(ctx context.Context, id string) (*domain.Form, error)
	GetByName(ctx context.Context, userID, name string) (*domain.Form, error)
	Delete(ctx context.Context, id string) error

	CreateQuestion(ctx context.Context, q *domain.Question) error
	ListQuestions(ctx context.Context, formID string) ([]*domain.Question, error)
	CreateOption(ctx context.Context, o *domain.Option) error
	ListOptions(ctx context.Context, questionID string) ([]*domain.Option, error)

	// UpsertAnswer inserts or updates an answer keyed by (form_id, question_id).
	UpsertAnswer(ctx context.Context, a *domain.Answer) error
	ListAnswers(ctx context.Context, formID string) ([]*domain.Answer, error)
}

type PlanRepo interface {
	Create(ctx context.Context, p *domain.DevelopmentPlan) error
	GetByID(ctx context.Context, id string) (*domain.DevelopmentPlan, error)
	GetActiveByUser(ctx context.Context, userID string) (*domain.DevelopmentPlan, error)
	Update(ctx context.Context, p *domain.DevelopmentPlan) error
	// SetChosenPointers re-points the plan's chosen strength/weakness ids;
	// nil clears a pointer.
	SetChosenPointers(ctx context.Context, planID string, strengthID, weaknessID *string) error
}

type ChosenTraitRepo interface {
	Create(ctx context.Context, ct *domain.ChosenTrait) error
	GetByID(ctx context.Context, id string) (*domain.ChosenTrait, error)
	GetByPlanAndType(ctx context.Context, planID string, tt domain.TraitType) (*domain.ChosenTrait, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.ChosenTrait, error)
	// Update applies an optimistic compare-and-swap on Version; returns
	// ErrVersionConflict when the stored version has moved on.
	Update(ctx context.Context, ct *domain.ChosenTrait) error
	Delete(ctx context.Context, id string) error
}

type PracticeRepo interface {
	CreateBatch(ctx context.Context, practices []*domain.Practice) error
	ListByChosenTrait(ctx context.Context, chosenTraitID string) ([]*domain.Practice, error)
	CountByChosenTrait(ctx context.Context, chosenTraitID string) (int, error)
	CountRecommended(ctx context.Context, chosenTraitID string) (int, error)
	SetRecommended(ctx context.Context, id string, recommended bool) error
	DeleteByChosenTrait(ctx context.Context, chosenTraitID string) error
}

type ChosenPracticeRepo interface {
	// Upsert inserts or updates the row keyed by
	// (development_plan_id, chosen_trait_id, sprint_number).
	Upsert(ctx context.Context, cp *domain.ChosenPractice) error
	GetByTraitAndSprint(ctx context.Context, chosenTraitID string, sprintNumber int) (*domain.ChosenPractice, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.ChosenPractice, error)
	DeleteByChosenTrait(ctx context.Context, chosenTraitID string) error
}

type SprintRepo interface {
	Create(ctx context.Context, s *domain.Sprint) error
	GetByID(ctx context.Context, id string) (*domain.Sprint, error)
	// GetCurrent returns the max-numbered sprint for a plan.
	GetCurrent(ctx context.Context, planID string) (*domain.Sprint, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.Sprint, error)
	Update(ctx context.Context, s *domain.Sprint) error
	// ClearPracticeForms nulls both practice form links on a sprint.
	ClearPracticeForms(ctx context.Context, sprintID string) error
}

type PersonalPracticeRepo interface {
	CreateCategory(ctx context.Context, c *domain.PersonalPracticeCategory) error
	GetCategoryByPlan(ctx context.Context, planID string) (*domain.PersonalPracticeCategory, error)
	DeleteCategory(ctx context.Context, id string) error
	CreateChosen(ctx context.Context, p *domain.ChosenPersonalPractice) error
	ListChosenByCategory(ctx context.Context, categoryID string) ([]*domain.ChosenPersonalPractice, error)
	DeleteChosenByCategory(ctx context.Context, categoryID string) error
}

type PendingActionRepo interface {
	CreateBatch(ctx context.Context, actions []*domain.PendingAction) error
	ListByUser(ctx context.Context, userID string) ([]*domain.PendingAction, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type CounterRepo interface {
	// Increment bumps a named counter and returns the new value.
	Increment(ctx context.Context, name string) (int64, error)
}
