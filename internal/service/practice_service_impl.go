package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/repository"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/scoring"
	"github.com/google/uuid"
)

// secondSprintPicks is how many practices get the is_recommended highlight
// going into sprint 2.
const secondSprintPicks = 2

type practiceService struct {
	chosenTraits repository.ChosenTraitRepo
	practices    repository.PracticeRepo
	forms        repository.FormRepo
	plans        repository.PlanRepo
	sprints      repository.SprintRepo
	uow          db.UnitOfWork
	observer     UseCaseObserver
}

func NewPracticeService(chosenTraits repository.ChosenTraitRepo, practices repository.PracticeRepo, forms repository.FormRepo, plans repository.PlanRepo, sprints repository.SprintRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PracticeService {
	return &practiceService{
		chosenTraits: chosenTraits,
		practices:    practices,
		forms:        forms,
		plans:        plans,
		sprints:      sprints,
		uow:          uow,
		observer:     useCaseObserverOrNoop(observers),
	}
}

// SaveTraitAnswers stores the follow-up answers for a chosen trait and
// replaces its practice recommendation set. During sprint 2 the refreshed set
// also gets its two highlighted picks.
func (s *practiceService) SaveTraitAnswers(ctx context.Context, userID, chosenTraitID string, answers []ExtentAnswerInput) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "practice.save_trait_answers", startedAt, err, map[string]any{
			"user_id": userID, "chosen_trait_id": chosenTraitID, "answers": len(answers),
		})
	}()

	if len(answers) == 0 {
		return fmt.Errorf("%w: no answers submitted", ErrValidation)
	}
	ct, err := s.ownedChosenTrait(ctx, userID, chosenTraitID)
	if err != nil {
		return err
	}

	questions, err := s.forms.ListQuestions(ctx, ct.FormID)
	if err != nil {
		return fmt.Errorf("loading trait questions: %w", err)
	}
	byID := make(map[string]*domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	candidates := make([]scoring.Candidate, 0, len(answers))
	extents := make(map[string]domain.Extent, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return fmt.Errorf("%w: question %s is not on this form", ErrValidation, a.QuestionID)
		}
		extent, perr := domain.ParseExtent(a.Extent)
		if perr != nil {
			return fmt.Errorf("%w: %v", ErrValidation, perr)
		}
		extents[a.QuestionID] = extent
		candidates = append(candidates, scoring.Candidate{
			QuestionID: q.ID,
			Name:       q.Text,
			Extent:     extent,
			Rank:       q.Rank,
		})
	}

	selected := scoring.RecommendPractices(candidates, scoring.RecommendLimit)

	sprintNumber := 1
	plan, err := s.plans.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("loading active plan: %w", err)
	}
	if plan != nil {
		current, err := s.sprints.GetCurrent(ctx, plan.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("loading current sprint: %w", err)
		}
		if current != nil {
			sprintNumber = current.Number
		}
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txForms := repository.NewSQLiteFormRepo(tx)
		txPractices := repository.NewSQLitePracticeRepo(tx)
		now := time.Now().UTC()

		for _, a := range answers {
			if err := txForms.UpsertAnswer(ctx, &domain.Answer{
				ID:         uuid.New().String(),
				FormID:     ct.FormID,
				QuestionID: a.QuestionID,
				UserID:     userID,
				TraitName:  ct.Name,
				Value:      a.Extent,
				CreatedAt:  now,
				UpdatedAt:  now,
			}); err != nil {
				return fmt.Errorf("saving answer for question %s: %w", a.QuestionID, err)
			}
		}

		// Replace, never append: a resubmission rebuilds the whole set.
		if err := txPractices.DeleteByChosenTrait(ctx, ct.ID); err != nil {
			return fmt.Errorf("clearing previous practices: %w", err)
		}
		batch := make([]*domain.Practice, 0, len(selected))
		for _, c := range selected {
			batch = append(batch, &domain.Practice{
				ID:            uuid.New().String(),
				UserID:        userID,
				ChosenTraitID: ct.ID,
				Name:          c.Name,
				Score:         float64(domain.ExtentFullest - extents[c.QuestionID]),
				CreatedAt:     now,
			})
		}
		if err := txPractices.CreateBatch(ctx, batch); err != nil {
			return fmt.Errorf("storing practices: %w", err)
		}

		if sprintNumber >= domain.MaxSprints {
			return markSecondSprintPicks(ctx, tx, ct.ID)
		}
		return nil
	})
}

func (s *practiceService) GetTraitPractices(ctx context.Context, userID, chosenTraitID string) ([]*domain.Practice, error) {
	if _, err := s.ownedChosenTrait(ctx, userID, chosenTraitID); err != nil {
		return nil, err
	}
	return s.practices.ListByChosenTrait(ctx, chosenTraitID)
}

func (s *practiceService) MarkSecondSprintPicks(ctx context.Context, userID, chosenTraitID string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "practice.mark_second_sprint_picks", startedAt, err, map[string]any{
			"user_id": userID, "chosen_trait_id": chosenTraitID,
		})
	}()

	if _, err := s.ownedChosenTrait(ctx, userID, chosenTraitID); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return markSecondSprintPicks(ctx, tx, chosenTraitID)
	})
}

// markSecondSprintPicks settles on exactly two highlighted practices,
// unsetting extras or topping up at random. Idempotent once two are marked.
func markSecondSprintPicks(ctx context.Context, tx db.DBTX, chosenTraitID string) error {
	repo := repository.NewSQLitePracticeRepo(tx)
	practices, err := repo.ListByChosenTrait(ctx, chosenTraitID)
	if err != nil {
		return fmt.Errorf("listing practices: %w", err)
	}

	var marked, unmarked []*domain.Practice
	for _, p := range practices {
		if p.IsRecommended {
			marked = append(marked, p)
		} else {
			unmarked = append(unmarked, p)
		}
	}
	for len(marked) > secondSprintPicks {
		last := marked[len(marked)-1]
		if err := repo.SetRecommended(ctx, last.ID, false); err != nil {
			return fmt.Errorf("unmarking practice: %w", err)
		}
		marked = marked[:len(marked)-1]
	}
	for len(marked) < secondSprintPicks && len(unmarked) > 0 {
		i := rand.Intn(len(unmarked))
		pick := unmarked[i]
		if err := repo.SetRecommended(ctx, pick.ID, true); err != nil {
			return fmt.Errorf("marking practice: %w", err)
		}
		marked = append(marked, pick)
		unmarked = append(unmarked[:i], unmarked[i+1:]...)
	}
	return nil
}

// SaveChosenPractice commits one practice for the current sprint: it upserts
// the chosen-practice row, creates the sprint practice form, links it on the
// sprint, and re-points the chosen trait under its version guard.
func (s *practiceService) SaveChosenPractice(ctx context.Context, userID string, in ChosenPracticeInput) (saved *domain.ChosenPractice, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "practice.save_chosen", startedAt, err, map[string]any{
			"user_id": userID, "chosen_trait_id": in.ChosenTraitID,
		})
	}()

	if in.ChosenTraitID == "" || in.PracticeID == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: chosen trait, practice id, and name are required", ErrValidation)
	}
	ct, err := s.ownedChosenTrait(ctx, userID, in.ChosenTraitID)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.GetByID(ctx, ct.DevelopmentPlanID)
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	sprint, err := s.sprints.GetCurrent(ctx, plan.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no active sprint", ErrValidation)
		}
		return nil, fmt.Errorf("loading current sprint: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		now := time.Now().UTC()

		// Form names are unique per user, so a re-save of the same sprint
		// reuses the existing practice form instead of inserting a duplicate.
		txForms := repository.NewSQLiteFormRepo(tx)
		formName := fmt.Sprintf("%d_PRACTICE_%s", sprint.Number, ct.TraitType.Label())
		form, err := txForms.GetByName(ctx, userID, formName)
		if errors.Is(err, repository.ErrNotFound) {
			form = &domain.Form{
				ID:           uuid.New().String(),
				UserID:       userID,
				Name:         formName,
				Kind:         domain.FormPractice,
				SprintNumber: &sprint.Number,
				CreatedAt:    now,
			}
			if err := txForms.Create(ctx, form); err != nil {
				return fmt.Errorf("creating practice form: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("loading practice form: %w", err)
		}

		cp := &domain.ChosenPractice{
			ID:                uuid.New().String(),
			UserID:            userID,
			ChosenTraitID:     ct.ID,
			Name:              in.Name,
			PracticeID:        in.PracticeID,
			FormID:            form.ID,
			SprintNumber:      sprint.Number,
			SprintID:          sprint.ID,
			DevelopmentPlanID: plan.ID,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := repository.NewSQLiteChosenPracticeRepo(tx).Upsert(ctx, cp); err != nil {
			return fmt.Errorf("saving chosen practice: %w", err)
		}

		txSprints := repository.NewSQLiteSprintRepo(tx)
		switch ct.TraitType {
		case domain.TraitStrength:
			sprint.StrengthPracticeFormID = &form.ID
		default:
			sprint.WeaknessPracticeFormID = &form.ID
		}
		if err := txSprints.Update(ctx, sprint); err != nil {
			return fmt.Errorf("linking practice form on sprint: %w", err)
		}

		ct.PracticeID = in.PracticeID
		ct.UpdatedAt = now
		if err := repository.NewSQLiteChosenTraitRepo(tx).Update(ctx, ct); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return fmt.Errorf("%w: chosen trait was modified concurrently", ErrConflict)
			}
			return fmt.Errorf("updating chosen trait: %w", err)
		}
		saved = cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *practiceService) ownedChosenTrait(ctx context.Context, userID, chosenTraitID string) (*domain.ChosenTrait, error) {
	ct, err := s.chosenTraits.GetByID(ctx, chosenTraitID)
	if err != nil {
		return nil, fmt.Errorf("loading chosen trait: %w", err)
	}
	if ct.UserID != userID {
		return nil, fmt.Errorf("%w: chosen trait does not belong to user", ErrValidation)
	}
	return ct, nil
}
