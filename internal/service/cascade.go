package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/repository"
)

// InvalidationStep is one delete/reset in the cascade. Steps are executed in
// order inside a single transaction; later steps depend on foreign keys
// resolved by earlier ones, so the order is part of the contract.
type InvalidationStep struct {
	Label string
	run   func(ctx context.Context, tx db.DBTX) error
}

// InvalidationPlan is the ordered list of deletions and resets that tears
// down everything built on a trait selection. Building the plan is a pure
// read; executing it is all-or-nothing.
type InvalidationPlan struct {
	steps []InvalidationStep
}

// Labels returns the step labels in execution order, for auditing and tests.
func (p *InvalidationPlan) Labels() []string {
	labels := make([]string, len(p.steps))
	for i, s := range p.steps {
		labels[i] = s.Label
	}
	return labels
}

// Empty reports whether there is nothing to invalidate.
func (p *InvalidationPlan) Empty() bool {
	return len(p.steps) == 0
}

// ExecuteIn runs every step against the given transaction handle.
func (p *InvalidationPlan) ExecuteIn(ctx context.Context, tx db.DBTX) error {
	for _, step := range p.steps {
		if err := step.run(ctx, tx); err != nil {
			return fmt.Errorf("invalidation step %q: %w", step.Label, err)
		}
	}
	return nil
}

// Execute wraps ExecuteIn in its own transaction.
func (p *InvalidationPlan) Execute(ctx context.Context, uow db.UnitOfWork) error {
	if p.Empty() {
		return nil
	}
	return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return p.ExecuteIn(ctx, tx)
	})
}

// BuildInvalidationPlan reads the current selection state of a development
// plan and assembles the ordered cascade:
//
//  1. clear the plan's chosen strength/weakness pointers
//  2. reset every sprint's practice-form links
//  3. delete practices and chosen practices for both chosen traits
//  4. delete the practice-question forms
//  5. delete the chosen traits
//  6. delete the trait-question forms
//  7. delete the personal-practice category and its chosen items
//  8. delete the mind-body question form
//  9. delete pending actions
func BuildInvalidationPlan(ctx context.Context, conn db.DBTX, userID string, plan *domain.DevelopmentPlan) (*InvalidationPlan, error) {
	chosenTraits := repository.NewSQLiteChosenTraitRepo(conn)
	sprints := repository.NewSQLiteSprintRepo(conn)
	chosenPractices := repository.NewSQLiteChosenPracticeRepo(conn)
	personal := repository.NewSQLitePersonalPracticeRepo(conn)
	forms := repository.NewSQLiteFormRepo(conn)

	pair, err := chosenTraits.ListByPlan(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("loading chosen traits: %w", err)
	}

	out := &InvalidationPlan{}
	if len(pair) == 0 {
		// Nothing has been built on a selection yet.
		return out, nil
	}

	planID := plan.ID

	out.steps = append(out.steps, InvalidationStep{
		Label: "development_plans: clear chosen trait pointers",
		run: func(ctx context.Context, tx db.DBTX) error {
			return repository.NewSQLitePlanRepo(tx).SetChosenPointers(ctx, planID, nil, nil)
		},
	})

	planSprints, err := sprints.ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("loading sprints: %w", err)
	}
	var practiceFormIDs []string
	for _, s := range planSprints {
		sprintID := s.ID
		if s.StrengthPracticeFormID != nil {
			practiceFormIDs = append(practiceFormIDs, *s.StrengthPracticeFormID)
		}
		if s.WeaknessPracticeFormID != nil {
			practiceFormIDs = append(practiceFormIDs, *s.WeaknessPracticeFormID)
		}
		out.steps = append(out.steps, InvalidationStep{
			Label: fmt.Sprintf("sprints: clear practice form links (sprint %d)", s.Number),
			run: func(ctx context.Context, tx db.DBTX) error {
				return repository.NewSQLiteSprintRepo(tx).ClearPracticeForms(ctx, sprintID)
			},
		})
	}

	cps, err := chosenPractices.ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("loading chosen practices: %w", err)
	}
	for _, cp := range cps {
		if cp.FormID != "" {
			practiceFormIDs = append(practiceFormIDs, cp.FormID)
		}
	}

	for _, ct := range pair {
		ctID := ct.ID
		tt := ct.TraitType
		out.steps = append(out.steps, InvalidationStep{
			Label: fmt.Sprintf("practices: delete for chosen %s", tt),
			run: func(ctx context.Context, tx db.DBTX) error {
				return repository.NewSQLitePracticeRepo(tx).DeleteByChosenTrait(ctx, ctID)
			},
		})
		out.steps = append(out.steps, InvalidationStep{
			Label: fmt.Sprintf("chosen_practices: delete for chosen %s", tt),
			run: func(ctx context.Context, tx db.DBTX) error {
				return repository.NewSQLiteChosenPracticeRepo(tx).DeleteByChosenTrait(ctx, ctID)
			},
		})
	}

	for _, formID := range dedupe(practiceFormIDs) {
		id := formID
		out.steps = append(out.steps, InvalidationStep{
			Label: "forms: delete practice question form",
			run: func(ctx context.Context, tx db.DBTX) error {
				return repository.NewSQLiteFormRepo(tx).Delete(ctx, id)
			},
		})
	}

	var traitFormIDs []string
	for _, ct := range pair {
		ctID := ct.ID
		tt := ct.TraitType
		if ct.FormID != "" {
			traitFormIDs = append(traitFormIDs, ct.FormID)
		}
		out.steps = append(out.steps, InvalidationStep{
			Label: fmt.Sprintf("chosen_traits: delete chosen %s", tt),
			run: func(ctx context.Context, tx db.DBTX) error {
				return repository.NewSQLiteChosenTraitRepo(tx).Delete(ctx, ctID)
			},
		})
	}
	for _, formID := range dedupe(traitFormIDs) {
		id := formID
		out.steps = append(out.steps, InvalidationStep{
			Label: "forms: delete trait question form",
			run: func(ctx context.Context, tx db.DBTX) error {
				return repository.NewSQLiteFormRepo(tx).Delete(ctx, id)
			},
		})
	}

	category, err := personal.GetCategoryByPlan(ctx, planID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading personal practice category: %w", err)
	}
	if category != nil {
		categoryID := category.ID
		out.steps = append(out.steps, InvalidationStep{
			Label: "chosen_personal_practices: delete for category",
			run: func(ctx context.Context, tx db.DBTX) error {
				return repository.NewSQLitePersonalPracticeRepo(tx).DeleteChosenByCategory(ctx, categoryID)
			},
		})
		out.steps = append(out.steps, InvalidationStep{
			Label: "personal_practice_categories: delete category",
			run: func(ctx context.Context, tx db.DBTX) error {
				return repository.NewSQLitePersonalPracticeRepo(tx).DeleteCategory(ctx, categoryID)
			},
		})
	}

	mindBody, err := forms.GetByName(ctx, userID, domain.MindBodyFormName)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading mind-body form: %w", err)
	}
	if mindBody != nil {
		formID := mindBody.ID
		out.steps = append(out.steps, InvalidationStep{
			Label: "forms: delete mind-body question form",
			run: func(ctx context.Context, tx db.DBTX) error {
				return repository.NewSQLiteFormRepo(tx).Delete(ctx, formID)
			},
		})
	}

	out.steps = append(out.steps, InvalidationStep{
		Label: "pending_actions: delete for user",
		run: func(ctx context.Context, tx db.DBTX) error {
			return repository.NewSQLitePendingActionRepo(tx).DeleteByUser(ctx, userID)
		},
	})

	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
