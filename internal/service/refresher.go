package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/repository"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/scoring"
)

// DefaultRefreshInterval is the fallback cadence of the population
// statistics refresher when no submission trigger arrives.
const DefaultRefreshInterval = 24 * time.Hour

// refreshSampleSize is how many of the most recently created users feed the
// population estimate.
const refreshSampleSize = 10

// StatsRefresher recomputes per-trait population statistics in the
// background. Submissions signal it through Trigger at the RefreshEvery
// cadence; a ticker covers quiet periods. Estimates are eventually
// consistent and never block the submission path.
type StatsRefresher struct {
	users    repository.UserRepo
	traits   repository.TraitRepo
	uow      db.UnitOfWork
	logger   *slog.Logger
	interval time.Duration
	trigger  chan struct{}
}

func NewStatsRefresher(users repository.UserRepo, traits repository.TraitRepo, uow db.UnitOfWork, logger *slog.Logger) *StatsRefresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsRefresher{
		users:    users,
		traits:   traits,
		uow:      uow,
		logger:   logger,
		interval: DefaultRefreshInterval,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger requests a refresh without blocking. A refresh already pending
// absorbs the signal.
func (r *StatsRefresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Run services trigger signals and the periodic tick until ctx is done.
func (r *StatsRefresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.trigger:
		case <-ticker.C:
		}
		if err := r.RefreshOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Error("population stats refresh failed", "error", err)
		}
	}
}

// RefreshOnce re-estimates every trait's population mean and standard
// deviation from the raw scores of the most recently created users, and
// rewrites the stored statistics for all users in one transaction.
func (r *StatsRefresher) RefreshOnce(ctx context.Context) error {
	startedAt := time.Now()

	users, err := r.users.ListRecent(ctx, refreshSampleSize)
	if err != nil {
		return fmt.Errorf("sampling recent users: %w", err)
	}
	if len(users) == 0 {
		return nil
	}
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	scores, err := r.traits.ListRawScoresForUsers(ctx, ids)
	if err != nil {
		return fmt.Errorf("collecting raw scores: %w", err)
	}
	byName := make(map[string][]int)
	for _, s := range scores {
		byName[s.Name] = append(byName[s.Name], s.RawScore)
	}
	if len(byName) == 0 {
		return nil
	}

	err = r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTraits := repository.NewSQLiteTraitRepo(tx)
		for name, values := range byName {
			mean, std := scoring.MeanStd(values)
			if err := txTraits.UpdatePopulationStats(ctx, name, mean, std); err != nil {
				return fmt.Errorf("updating stats for %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("population stats refreshed",
		"traits", len(byName),
		"sample_users", len(users),
		"duration_ms", time.Since(startedAt).Milliseconds(),
	)
	return nil
}
