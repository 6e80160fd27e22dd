package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/catalog"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/repository"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/scoring"
	"github.com/google/uuid"
)

// RefreshEvery is the submission cadence that signals the population
// statistics refresher.
const RefreshEvery = 10

// submissionCounter names the row in the counters table that numbers initial
// questionnaire submissions across all users.
const submissionCounter = "initial_question_submissions"

// RefreshSignaler is the non-blocking hook into the background stats
// refresher. A nil signaler disables the cadence trigger.
type RefreshSignaler interface {
	Trigger()
}

type assessmentService struct {
	forms     repository.FormRepo
	uow       db.UnitOfWork
	refresher RefreshSignaler
	observer  UseCaseObserver
}

func NewAssessmentService(forms repository.FormRepo, uow db.UnitOfWork, refresher RefreshSignaler, observers ...UseCaseObserver) AssessmentService {
	return &assessmentService{
		forms:     forms,
		uow:       uow,
		refresher: refresher,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// SaveInitialAnswers stores one submission of the initial questionnaire and
// recomputes every trait score. An identical resubmission is a no-op: no
// score reset, no cascade, no counter bump. A changed resubmission
// invalidates everything built on the previous scores before rescoring.
func (s *assessmentService) SaveInitialAnswers(ctx context.Context, userID string, answers []AnswerInput) (result *SaveAnswersResult, err error) {
	startedAt := time.Now()
	defer func() {
		fields := map[string]any{"user_id": userID, "answers": len(answers)}
		if result != nil {
			fields["changed"] = result.Changed
		}
		observe(ctx, s.observer, "assessment.save_initial_answers", startedAt, err, fields)
	}()

	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: no answers submitted", ErrValidation)
	}
	seen := make(map[string]bool, len(answers))
	for _, a := range answers {
		if a.QuestionID == "" || a.Value == "" {
			return nil, fmt.Errorf("%w: answer is missing question id or value", ErrValidation)
		}
		if seen[a.QuestionID] {
			return nil, fmt.Errorf("%w: duplicate answer for question %s", ErrValidation, a.QuestionID)
		}
		seen[a.QuestionID] = true
		if !catalog.KnownTrait(a.TraitName) {
			return nil, fmt.Errorf("%w: unknown trait %q", ErrValidation, a.TraitName)
		}
	}

	form, err := s.forms.GetByName(ctx, userID, domain.InitialQuestionsFormName)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading initial form: %w", err)
	}

	resubmission := form != nil
	if resubmission {
		stored, err := s.forms.ListAnswers(ctx, form.ID)
		if err != nil {
			return nil, fmt.Errorf("loading stored answers: %w", err)
		}
		if sameSubmission(stored, answers) {
			return &SaveAnswersResult{Changed: false}, nil
		}
	}

	var submission int64
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txForms := repository.NewSQLiteFormRepo(tx)
		txTraits := repository.NewSQLiteTraitRepo(tx)
		now := time.Now().UTC()

		if form == nil {
			form = &domain.Form{
				ID:        uuid.New().String(),
				UserID:    userID,
				Name:      domain.InitialQuestionsFormName,
				Kind:      domain.FormInitial,
				CreatedAt: now,
			}
			if err := txForms.Create(ctx, form); err != nil {
				return fmt.Errorf("creating initial form: %w", err)
			}
		}

		if resubmission {
			// New scores orphan everything hanging off the old ones.
			plan, err := repository.NewSQLitePlanRepo(tx).GetActiveByUser(ctx, userID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("loading active plan: %w", err)
			}
			if plan != nil {
				cascade, err := BuildInvalidationPlan(ctx, tx, userID, plan)
				if err != nil {
					return err
				}
				if err := cascade.ExecuteIn(ctx, tx); err != nil {
					return err
				}
			}
		}

		if err := txTraits.ResetRawScores(ctx, userID); err != nil {
			return fmt.Errorf("resetting raw scores: %w", err)
		}
		for _, a := range answers {
			if err := txForms.UpsertAnswer(ctx, &domain.Answer{
				ID:         uuid.New().String(),
				FormID:     form.ID,
				QuestionID: a.QuestionID,
				UserID:     userID,
				TraitName:  a.TraitName,
				Value:      a.Value,
				CreatedAt:  now,
				UpdatedAt:  now,
			}); err != nil {
				return fmt.Errorf("saving answer for question %s: %w", a.QuestionID, err)
			}
			if err := txTraits.IncrementRawScore(ctx, userID, a.TraitName); err != nil {
				return fmt.Errorf("scoring trait %q: %w", a.TraitName, err)
			}
		}

		traits, err := txTraits.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("listing traits: %w", err)
		}
		for _, t := range traits {
			raw := 0
			if t.TotalRawScore != nil {
				raw = *t.TotalRawScore
			}
			if err := txTraits.SetTScore(ctx, t.ID, scoring.TScore(raw, t.Average, t.StandardDeviation)); err != nil {
				return fmt.Errorf("storing t-score for %q: %w", t.Name, err)
			}
		}

		n, err := repository.NewSQLiteCounterRepo(tx).Increment(ctx, submissionCounter)
		if err != nil {
			return fmt.Errorf("counting submission: %w", err)
		}
		submission = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.refresher != nil && submission%RefreshEvery == 0 {
		s.refresher.Trigger()
	}
	return &SaveAnswersResult{Changed: true, Submission: submission}, nil
}

func (s *assessmentService) GetInitialAnswers(ctx context.Context, userID string) ([]*domain.Answer, error) {
	form, err := s.forms.GetByName(ctx, userID, domain.InitialQuestionsFormName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []*domain.Answer{}, nil
		}
		return nil, fmt.Errorf("loading initial form: %w", err)
	}
	return s.forms.ListAnswers(ctx, form.ID)
}

// sameSubmission reports whether the stored answers and the new submission
// carry the same question -> (trait, value) mapping.
func sameSubmission(stored []*domain.Answer, incoming []AnswerInput) bool {
	if len(stored) != len(incoming) {
		return false
	}
	byQuestion := make(map[string]*domain.Answer, len(stored))
	for _, a := range stored {
		byQuestion[a.QuestionID] = a
	}
	for _, in := range incoming {
		prev, ok := byQuestion[in.QuestionID]
		if !ok || prev.TraitName != in.TraitName || prev.Value != in.Value {
			return false
		}
	}
	return true
}
