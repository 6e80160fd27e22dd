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

type traitService struct {
	traits       repository.TraitRepo
	plans        repository.PlanRepo
	chosenTraits repository.ChosenTraitRepo
	uow          db.UnitOfWork
	observer     UseCaseObserver
}

func NewTraitService(traits repository.TraitRepo, plans repository.PlanRepo, chosenTraits repository.ChosenTraitRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TraitService {
	return &traitService{
		traits:       traits,
		plans:        plans,
		chosenTraits: chosenTraits,
		uow:          uow,
		observer:     useCaseObserverOrNoop(observers),
	}
}

// GetTopBottomFive returns the five highest-scored traits as candidate
// strengths and the five lowest as candidate weaknesses. Requires a completed
// initial questionnaire.
func (s *traitService) GetTopBottomFive(ctx context.Context, userID string) (*domain.TraitRanking, error) {
	top, err := s.traits.TopByTScore(ctx, userID, scoring.RecommendLimit)
	if err != nil {
		return nil, fmt.Errorf("ranking strengths: %w", err)
	}
	if len(top) == 0 {
		return nil, fmt.Errorf("%w: trait scores not computed yet", ErrValidation)
	}
	bottom, err := s.traits.BottomByTScore(ctx, userID, scoring.RecommendLimit)
	if err != nil {
		return nil, fmt.Errorf("ranking weaknesses: %w", err)
	}
	return &domain.TraitRanking{Strengths: top, Weaknesses: bottom}, nil
}

// SelectTraits records the chosen strength/weakness pair for a plan. An
// unchanged pair is a no-op; a changed pair tears down everything built on
// the previous selection before recreating it.
func (s *traitService) SelectTraits(ctx context.Context, userID, planID, strengthName, weaknessName string) (pair *ChosenPair, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "trait.select", startedAt, err, map[string]any{
			"user_id": userID, "strength": strengthName, "weakness": weaknessName,
		})
	}()

	if strengthName == "" || weaknessName == "" {
		return nil, fmt.Errorf("%w: both strength and weakness are required", ErrValidation)
	}
	if strengthName == weaknessName {
		return nil, fmt.Errorf("%w: strength and weakness must differ", ErrValidation)
	}
	if !catalog.KnownTrait(strengthName) {
		return nil, fmt.Errorf("%w: unknown trait %q", ErrValidation, strengthName)
	}
	if !catalog.KnownTrait(weaknessName) {
		return nil, fmt.Errorf("%w: unknown trait %q", ErrValidation, weaknessName)
	}

	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	if plan.UserID != userID {
		return nil, fmt.Errorf("%w: plan does not belong to user", ErrValidation)
	}

	strengthTrait, err := s.traits.GetByName(ctx, userID, strengthName)
	if err != nil {
		return nil, fmt.Errorf("loading trait %q: %w", strengthName, err)
	}
	weaknessTrait, err := s.traits.GetByName(ctx, userID, weaknessName)
	if err != nil {
		return nil, fmt.Errorf("loading trait %q: %w", weaknessName, err)
	}
	if strengthTrait.TScore == nil || weaknessTrait.TScore == nil {
		return nil, fmt.Errorf("%w: trait scores not computed yet", ErrValidation)
	}

	existing, err := s.loadPair(ctx, s.chosenTraits, planID)
	if err != nil {
		return nil, err
	}
	if existing.Strength != nil && existing.Weakness != nil &&
		existing.Strength.Name == strengthName && existing.Weakness.Name == weaknessName {
		return existing, nil
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if existing.Strength != nil || existing.Weakness != nil {
			cascade, err := BuildInvalidationPlan(ctx, tx, userID, plan)
			if err != nil {
				return err
			}
			if err := cascade.ExecuteIn(ctx, tx); err != nil {
				return err
			}
		}

		strength, err := createChosenTrait(ctx, tx, userID, plan, domain.TraitStrength, strengthTrait)
		if err != nil {
			return err
		}
		weakness, err := createChosenTrait(ctx, tx, userID, plan, domain.TraitWeakness, weaknessTrait)
		if err != nil {
			return err
		}
		if err := repository.NewSQLitePlanRepo(tx).SetChosenPointers(ctx, plan.ID, &strength.ID, &weakness.ID); err != nil {
			return fmt.Errorf("pointing plan at selection: %w", err)
		}
		pair = &ChosenPair{Strength: strength, Weakness: weakness}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *traitService) GetChosenTraits(ctx context.Context, userID, planID string) (*ChosenPair, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	if plan.UserID != userID {
		return nil, fmt.Errorf("%w: plan does not belong to user", ErrValidation)
	}
	return s.loadPair(ctx, s.chosenTraits, planID)
}

func (s *traitService) loadPair(ctx context.Context, repo repository.ChosenTraitRepo, planID string) (*ChosenPair, error) {
	pair := &ChosenPair{}
	for _, ct := range []struct {
		tt   domain.TraitType
		dest **domain.ChosenTrait
	}{
		{domain.TraitStrength, &pair.Strength},
		{domain.TraitWeakness, &pair.Weakness},
	} {
		found, err := repo.GetByPlanAndType(ctx, planID, ct.tt)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("loading chosen %s: %w", ct.tt, err)
		}
		*ct.dest = found
	}
	return pair, nil
}

// createChosenTrait builds the follow-up question form from the question bank
// (a trait with no bank entry gets an empty form) and the ChosenTrait row
// pointing at it. A question form left over from a finished plan is replaced,
// since form names are unique per user.
func createChosenTrait(ctx context.Context, tx db.DBTX, userID string, plan *domain.DevelopmentPlan, tt domain.TraitType, trait *domain.TraitDefinition) (*domain.ChosenTrait, error) {
	forms := repository.NewSQLiteFormRepo(tx)
	now := time.Now().UTC()

	formName := tt.Label() + "_QUESTIONS"
	if stale, err := forms.GetByName(ctx, userID, formName); err == nil {
		if err := forms.Delete(ctx, stale.ID); err != nil {
			return nil, fmt.Errorf("removing stale %s question form: %w", tt, err)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading %s question form: %w", tt, err)
	}

	form := &domain.Form{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      formName,
		Kind:      domain.FormTrait,
		CreatedAt: now,
	}
	if err := forms.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("creating %s question form: %w", tt, err)
	}

	bank, err := catalog.QuestionsFor(trait.Name)
	if err != nil {
		return nil, fmt.Errorf("loading question bank: %w", err)
	}
	for _, q := range bank {
		if err := forms.CreateQuestion(ctx, &domain.Question{
			ID:        uuid.New().String(),
			FormID:    form.ID,
			Text:      q.Text,
			Rank:      q.Rank,
			Category:  trait.Name,
			CreatedAt: now,
		}); err != nil {
			return nil, fmt.Errorf("creating question for %q: %w", trait.Name, err)
		}
	}

	start, end := plan.StartDate, plan.EndDate
	ct := &domain.ChosenTrait{
		ID:                uuid.New().String(),
		UserID:            userID,
		DevelopmentPlanID: plan.ID,
		TraitType:         tt,
		Name:              trait.Name,
		TraitID:           trait.ID,
		TScore:            *trait.TScore,
		FormID:            form.ID,
		StartDate:         &start,
		EndDate:           &end,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := repository.NewSQLiteChosenTraitRepo(tx).Create(ctx, ct); err != nil {
		return nil, fmt.Errorf("recording chosen %s: %w", tt, err)
	}
	return ct, nil
}
