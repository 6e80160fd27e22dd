package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

const planColumns = `id, user_id, start_date, end_date, chosen_strength_id, chosen_weakness_id, is_finished, created_at, updated_at`

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.DevelopmentPlan) error {
	query := `INSERT INTO development_plans (` + planColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.StartDate.UTC().Format(time.RFC3339),
		p.EndDate.UTC().Format(time.RFC3339),
		nullableStringToValue(p.ChosenStrengthID),
		nullableStringToValue(p.ChosenWeaknessID),
		boolToInt(p.IsFinished),
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting development plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.DevelopmentPlan, error) {
	query := `SELECT ` + planColumns + ` FROM development_plans WHERE id = ?`
	return r.scanPlan(r.db.QueryRowContext(ctx, query, id))
}

// GetActiveByUser returns the user's unfinished plan, newest first.
func (r *SQLitePlanRepo) GetActiveByUser(ctx context.Context, userID string) (*domain.DevelopmentPlan, error) {
	query := `SELECT ` + planColumns + ` FROM development_plans
		WHERE user_id = ? AND is_finished = 0
		ORDER BY created_at DESC LIMIT 1`
	return r.scanPlan(r.db.QueryRowContext(ctx, query, userID))
}

func (r *SQLitePlanRepo) Update(ctx context.Context, p *domain.DevelopmentPlan) error {
	query := `UPDATE development_plans
		SET start_date = ?, end_date = ?, chosen_strength_id = ?, chosen_weakness_id = ?, is_finished = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.StartDate.UTC().Format(time.RFC3339),
		p.EndDate.UTC().Format(time.RFC3339),
		nullableStringToValue(p.ChosenStrengthID),
		nullableStringToValue(p.ChosenWeaknessID),
		boolToInt(p.IsFinished),
		time.Now().UTC().Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating development plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) SetChosenPointers(ctx context.Context, planID string, strengthID, weaknessID *string) error {
	query := `UPDATE development_plans SET chosen_strength_id = ?, chosen_weakness_id = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableStringToValue(strengthID),
		nullableStringToValue(weaknessID),
		time.Now().UTC().Format(time.RFC3339),
		planID,
	)
	if err != nil {
		return fmt.Errorf("re-pointing chosen traits: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) scanPlan(row *sql.Row) (*domain.DevelopmentPlan, error) {
	var p domain.DevelopmentPlan
	var strengthID, weaknessID sql.NullString
	var isFinished int
	var startStr, endStr, createdAtStr, updatedAtStr string
	err := row.Scan(&p.ID, &p.UserID, &startStr, &endStr, &strengthID, &weaknessID, &isFinished, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("development plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning development plan: %w", err)
	}
	p.ChosenStrengthID = nullStringPtr(strengthID)
	p.ChosenWeaknessID = nullStringPtr(weaknessID)
	p.IsFinished = intToBool(isFinished)

	for _, f := range []struct {
		dst *time.Time
		src string
	}{
		{&p.StartDate, startStr},
		{&p.EndDate, endStr},
		{&p.CreatedAt, createdAtStr},
		{&p.UpdatedAt, updatedAtStr},
	} {
		t, err := time.Parse(time.RFC3339, f.src)
		if err != nil {
			return nil, fmt.Errorf("parsing plan date: %w", err)
		}
		*f.dst = t
	}
	return &p, nil
}
