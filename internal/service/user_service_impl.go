package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/catalog"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/repository"
	"github.com/google/uuid"
)

type userService struct {
	users    repository.UserRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewUserService(users repository.UserRepo, uow db.UnitOfWork, observers ...UseCaseObserver) UserService {
	return &userService{users: users, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Register creates the user and seeds one trait definition per catalog entry,
// carrying the population average/standard deviation the scorer divides by.
func (s *userService) Register(ctx context.Context, u *domain.User) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "user.register", startedAt, err, map[string]any{"user_id": u.ID})
	}()

	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	stats, err := catalog.TraitStats()
	if err != nil {
		return fmt.Errorf("loading trait catalog: %w", err)
	}

	traits := make([]*domain.TraitDefinition, 0, len(stats))
	for _, st := range stats {
		traits = append(traits, &domain.TraitDefinition{
			ID:                uuid.New().String(),
			UserID:            u.ID,
			Name:              st.Name,
			Average:           st.Average,
			StandardDeviation: st.StandardDeviation,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteUserRepo(tx).Create(ctx, u); err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		if err := repository.NewSQLiteTraitRepo(tx).CreateBatch(ctx, traits); err != nil {
			return fmt.Errorf("seeding trait definitions: %w", err)
		}
		return nil
	})
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
