package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/repository"
	"github.com/google/uuid"
)

type personalPracticeService struct {
	personal repository.PersonalPracticeRepo
	plans    repository.PlanRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPersonalPracticeService(personal repository.PersonalPracticeRepo, plans repository.PlanRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PersonalPracticeService {
	return &personalPracticeService{
		personal: personal,
		plans:    plans,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// SaveCategory records the mind-body practice category for a plan, replacing
// any previous category and its chosen items.
func (s *personalPracticeService) SaveCategory(ctx context.Context, userID, planID, name string) (category *domain.PersonalPracticeCategory, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "personal_practice.save_category", startedAt, err, map[string]any{
			"user_id": userID, "category": name,
		})
	}()

	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	if plan.UserID != userID {
		return nil, fmt.Errorf("%w: plan does not belong to user", ErrValidation)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPersonal := repository.NewSQLitePersonalPracticeRepo(tx)
		existing, err := txPersonal.GetCategoryByPlan(ctx, planID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("loading category: %w", err)
		}
		if existing != nil {
			if existing.Name == name {
				category = existing
				return nil
			}
			if err := txPersonal.DeleteChosenByCategory(ctx, existing.ID); err != nil {
				return fmt.Errorf("clearing chosen personal practices: %w", err)
			}
			if err := txPersonal.DeleteCategory(ctx, existing.ID); err != nil {
				return fmt.Errorf("removing previous category: %w", err)
			}
		}
		// The category carries the user's mind-body questionnaire form,
		// created on first save and reused afterwards.
		txForms := repository.NewSQLiteFormRepo(tx)
		mindBody, err := txForms.GetByName(ctx, userID, domain.MindBodyFormName)
		if errors.Is(err, repository.ErrNotFound) {
			mindBody = &domain.Form{
				ID:        uuid.New().String(),
				UserID:    userID,
				Name:      domain.MindBodyFormName,
				Kind:      domain.FormMindBody,
				CreatedAt: time.Now().UTC(),
			}
			if err := txForms.Create(ctx, mindBody); err != nil {
				return fmt.Errorf("creating mind-body form: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("loading mind-body form: %w", err)
		}

		category = &domain.PersonalPracticeCategory{
			ID:                uuid.New().String(),
			UserID:            userID,
			DevelopmentPlanID: planID,
			Name:              name,
			ChosenFormID:      &mindBody.ID,
			CreatedAt:         time.Now().UTC(),
		}
		return txPersonal.CreateCategory(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *personalPracticeService) GetCategory(ctx context.Context, userID, planID string) (*domain.PersonalPracticeCategory, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	if plan.UserID != userID {
		return nil, fmt.Errorf("%w: plan does not belong to user", ErrValidation)
	}
	return s.personal.GetCategoryByPlan(ctx, planID)
}

// SaveChosen replaces the chosen personal practices under a category.
func (s *personalPracticeService) SaveChosen(ctx context.Context, userID, categoryID string, names []string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "personal_practice.save_chosen", startedAt, err, map[string]any{
			"user_id": userID, "practices": len(names),
		})
	}()

	if len(names) == 0 {
		return fmt.Errorf("%w: no practices submitted", ErrValidation)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPersonal := repository.NewSQLitePersonalPracticeRepo(tx)
		if err := txPersonal.DeleteChosenByCategory(ctx, categoryID); err != nil {
			return fmt.Errorf("clearing chosen personal practices: %w", err)
		}
		now := time.Now().UTC()
		for _, name := range names {
			if err := txPersonal.CreateChosen(ctx, &domain.ChosenPersonalPractice{
				ID:         uuid.New().String(),
				UserID:     userID,
				CategoryID: categoryID,
				Name:       name,
				CreatedAt:  now,
			}); err != nil {
				return fmt.Errorf("saving personal practice %q: %w", name, err)
			}
		}
		return nil
	})
}
