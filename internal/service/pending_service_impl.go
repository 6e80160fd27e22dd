package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/repository"
	"github.com/google/uuid"
)

type pendingActionService struct {
	pending  repository.PendingActionRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPendingActionService(pending repository.PendingActionRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PendingActionService {
	return &pendingActionService{pending: pending, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Save replaces the user's pending action drafts with a new batch. The
// drafts come from outside; this core only holds them until confirmation or
// invalidation.
func (s *pendingActionService) Save(ctx context.Context, userID, category string, actions []string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "pending_action.save", startedAt, err, map[string]any{
			"user_id": userID, "actions": len(actions),
		})
	}()

	if len(actions) == 0 {
		return fmt.Errorf("%w: no actions submitted", ErrValidation)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPending := repository.NewSQLitePendingActionRepo(tx)
		if err := txPending.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("clearing pending actions: %w", err)
		}
		now := time.Now().UTC()
		batch := make([]*domain.PendingAction, 0, len(actions))
		for _, action := range actions {
			batch = append(batch, &domain.PendingAction{
				ID:        uuid.New().String(),
				UserID:    userID,
				Category:  category,
				Action:    action,
				CreatedAt: now,
			})
		}
		return txPending.CreateBatch(ctx, batch)
	})
}

func (s *pendingActionService) List(ctx context.Context, userID string) ([]*domain.PendingAction, error) {
	return s.pending.ListByUser(ctx, userID)
}

func (s *pendingActionService) Clear(ctx context.Context, userID string) error {
	return s.pending.DeleteByUser(ctx, userID)
}
