package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/repository"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/schedule"
	"github.com/google/uuid"
)

type planService struct {
	plans    repository.PlanRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func NewPlanService(plans repository.PlanRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PlanService {
	return &planService{
		plans:    plans,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		// Stored timestamps are RFC3339; keep computed dates at the same
		// precision so round-trips compare equal.
		now: func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// GetOrCreate returns the user's active development plan, creating one over
// the standard four-week window when none exists.
func (s *planService) GetOrCreate(ctx context.Context, userID string) (plan *domain.DevelopmentPlan, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "plan.get_or_create", startedAt, err, map[string]any{"user_id": userID})
	}()

	plan, err = s.plans.GetActiveByUser(ctx, userID)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading active plan: %w", err)
	}

	now := s.now()
	start, end := schedule.PlanWindow(now)
	plan = &domain.DevelopmentPlan{
		ID:        uuid.New().String(),
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("creating plan: %w", err)
	}
	return plan, nil
}

// ColleagueSchedule surfaces the two colleague-message dates from the legacy
// twelve-bucket weekly schedule: the initial invite and the final survey.
func (s *planService) ColleagueSchedule(ctx context.Context, userID string) (*ColleagueTouchpoints, error) {
	plan, err := s.plans.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading active plan: %w", err)
	}
	sched := schedule.ComputeColleagueSchedule(plan.StartDate, plan.EndDate)
	return &ColleagueTouchpoints{
		InitialInvite: sched.InitialInvite(),
		FinalSurvey:   sched.FinalSurvey(),
	}, nil
}

type sprintService struct {
	plans    repository.PlanRepo
	sprints  repository.SprintRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func NewSprintService(plans repository.PlanRepo, sprints repository.SprintRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SprintService {
	return &sprintService{
		plans:    plans,
		sprints:  sprints,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// GetCurrent advances the sprint state machine lazily: the first call creates
// sprint 1, a call after sprint 1 finishes creates sprint 2, an unfinished
// sprint is reused, and a plan with both sprints finished reports the program
// complete rather than erroring.
func (s *sprintService) GetCurrent(ctx context.Context, userID string) (status *SprintStatus, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "sprint.get_current", startedAt, err, map[string]any{"user_id": userID})
	}()

	plan, err := s.plans.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no active development plan", ErrValidation)
		}
		return nil, fmt.Errorf("loading active plan: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSprints := repository.NewSQLiteSprintRepo(tx)
		current, err := txSprints.GetCurrent(ctx, plan.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("loading current sprint: %w", err)
		}

		switch {
		case current == nil:
			start, end := schedule.FirstSprintWindow(plan.StartDate)
			first, err := s.createSprint(ctx, txSprints, plan, 1, start, end)
			if err != nil {
				return err
			}
			status = &SprintStatus{Sprint: first}
		case !current.IsFinished:
			status = &SprintStatus{Sprint: current}
		case current.Number < domain.MaxSprints:
			start, end := schedule.NextSprintWindow(current.EndDate, plan.EndDate)
			next, err := s.createSprint(ctx, txSprints, plan, current.Number+1, start, end)
			if err != nil {
				return err
			}
			status = &SprintStatus{Sprint: next}
		default:
			status = &SprintStatus{ProgramComplete: true}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (s *sprintService) createSprint(ctx context.Context, repo repository.SprintRepo, plan *domain.DevelopmentPlan, number int, start, end time.Time) (*domain.Sprint, error) {
	now := s.now()
	sprint := &domain.Sprint{
		ID:                uuid.New().String(),
		UserID:            plan.UserID,
		DevelopmentPlanID: plan.ID,
		Number:            number,
		StartDate:         start,
		EndDate:           end,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := repo.Create(ctx, sprint); err != nil {
		return nil, fmt.Errorf("creating sprint %d: %w", number, err)
	}
	return sprint, nil
}

// Finish marks a sprint done; finishing the last sprint also finishes the
// owning development plan.
func (s *sprintService) Finish(ctx context.Context, userID, sprintID string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "sprint.finish", startedAt, err, map[string]any{
			"user_id": userID, "sprint_id": sprintID,
		})
	}()

	sprint, err := s.sprints.GetByID(ctx, sprintID)
	if err != nil {
		return fmt.Errorf("loading sprint: %w", err)
	}
	if sprint.UserID != userID {
		return fmt.Errorf("%w: sprint does not belong to user", ErrValidation)
	}
	if sprint.IsFinished {
		return nil
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		sprint.IsFinished = true
		sprint.UpdatedAt = s.now()
		if err := repository.NewSQLiteSprintRepo(tx).Update(ctx, sprint); err != nil {
			return fmt.Errorf("finishing sprint: %w", err)
		}
		if sprint.Number < domain.MaxSprints {
			return nil
		}
		txPlans := repository.NewSQLitePlanRepo(tx)
		plan, err := txPlans.GetByID(ctx, sprint.DevelopmentPlanID)
		if err != nil {
			return fmt.Errorf("loading plan: %w", err)
		}
		plan.IsFinished = true
		plan.UpdatedAt = sprint.UpdatedAt
		if err := txPlans.Update(ctx, plan); err != nil {
			return fmt.Errorf("finishing plan: %w", err)
		}
		return nil
	})
}

// ProgressFormName names the weekly progress-check form for the current
// sprint and trait type.
func (s *sprintService) ProgressFormName(ctx context.Context, userID string, tt domain.TraitType) (string, error) {
	plan, err := s.plans.GetActiveByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("loading active plan: %w", err)
	}
	sprint, err := s.sprints.GetCurrent(ctx, plan.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w: no sprint started yet", ErrValidation)
		}
		return "", fmt.Errorf("loading current sprint: %w", err)
	}
	return schedule.ProgressFormName(sprint.Number, tt, sprint.StartDate, s.now()), nil
}
