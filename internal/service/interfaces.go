package service

import (
	"context"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

// AnswerInput is one submitted initial-questionnaire answer: the selected
// option's text tagged with the trait name it maps to.
type AnswerInput struct {
	QuestionID string `json:"question_id"`
	TraitName  string `json:"trait_name"`
	Value      string `json:"value"`
}

// SaveAnswersResult reports whether a submission changed anything. An
// identical resubmission is a no-op: no recompute, no cascade.
type SaveAnswersResult struct {
	Changed    bool  `json:"changed"`
	Submission int64 `json:"submission"`
}

// ExtentAnswerInput is one follow-up answer on a trait question form, rated
// on the five-point extent scale.
type ExtentAnswerInput struct {
	QuestionID string `json:"question_id"`
	Extent     string `json:"extent"`
}

// ChosenPair is the strength/weakness selection for one development plan.
type ChosenPair struct {
	Strength *domain.ChosenTrait `json:"strength"`
	Weakness *domain.ChosenTrait `json:"weakness"`
}

// ChosenPracticeInput is the practice a user commits to for the current sprint.
type ChosenPracticeInput struct {
	ChosenTraitID string `json:"chosen_trait_id"`
	PracticeID    string `json:"practice_id"`
	Name          string `json:"name"`
}

// SprintStatus is the current-sprint view. ProgramComplete is the soft
// "nothing to report" state once both sprints are finished.
type SprintStatus struct {
	Sprint          *domain.Sprint `json:"sprint"`
	ProgramComplete bool           `json:"program_complete"`
}

// ColleagueTouchpoints are the colleague-message dates surfaced from the
// legacy 12-bucket schedule.
type ColleagueTouchpoints struct {
	InitialInvite time.Time `json:"initial_invite"`
	FinalSurvey   time.Time `json:"final_survey"`
}

type UserService interface {
	// Register creates the user and seeds their 18 trait definitions from
	// the catalog.
	Register(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type AssessmentService interface {
	SaveInitialAnswers(ctx context.Context, userID string, answers []AnswerInput) (*SaveAnswersResult, error)
	GetInitialAnswers(ctx context.Context, userID string) ([]*domain.Answer, error)
}

type TraitService interface {
	GetTopBottomFive(ctx context.Context, userID string) (*domain.TraitRanking, error)
	SelectTraits(ctx context.Context, userID, planID, strengthName, weaknessName string) (*ChosenPair, error)
	GetChosenTraits(ctx context.Context, userID, planID string) (*ChosenPair, error)
}

type PracticeService interface {
	SaveTraitAnswers(ctx context.Context, userID, chosenTraitID string, answers []ExtentAnswerInput) error
	GetTraitPractices(ctx context.Context, userID, chosenTraitID string) ([]*domain.Practice, error)
	// MarkSecondSprintPicks ensures exactly two of the trait's practices are
	// flagged is_recommended, topping up at random. Idempotent.
	MarkSecondSprintPicks(ctx context.Context, userID, chosenTraitID string) error
	SaveChosenPractice(ctx context.Context, userID string, in ChosenPracticeInput) (*domain.ChosenPractice, error)
}

type PlanService interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.DevelopmentPlan, error)
	ColleagueSchedule(ctx context.Context, userID string) (*ColleagueTouchpoints, error)
}

type SprintService interface {
	// GetCurrent lazily advances the sprint state machine: creates sprint 1
	// on first use, creates sprint 2 once sprint 1 is finished, reuses the
	// unfinished sprint otherwise.
	GetCurrent(ctx context.Context, userID string) (*SprintStatus, error)
	Finish(ctx context.Context, userID, sprintID string) error
	// ProgressFormName names the weekly progress-check form for the current
	// sprint and the given trait type.
	ProgressFormName(ctx context.Context, userID string, tt domain.TraitType) (string, error)
}

type PendingActionService interface {
	Save(ctx context.Context, userID, category string, actions []string) error
	List(ctx context.Context, userID string) ([]*domain.PendingAction, error)
	Clear(ctx context.Context, userID string) error
}

type PersonalPracticeService interface {
	SaveCategory(ctx context.Context, userID, planID, name string) (*domain.PersonalPracticeCategory, error)
	GetCategory(ctx context.Context, userID, planID string) (*domain.PersonalPracticeCategory, error)
	SaveChosen(ctx context.Context, userID, categoryID string, names []string) error
}
