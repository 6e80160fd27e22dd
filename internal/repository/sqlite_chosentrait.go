package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

const chosenTraitColumns = `id, user_id, development_plan_id, trait_type, name, trait_id, t_score,
		form_id, practice_id, start_date, end_date, version, created_at, updated_at`

// SQLiteChosenTraitRepo implements ChosenTraitRepo using a SQLite database.
type SQLiteChosenTraitRepo struct {
	db db.DBTX
}

// NewSQLiteChosenTraitRepo creates a new SQLiteChosenTraitRepo.
func NewSQLiteChosenTraitRepo(conn db.DBTX) *SQLiteChosenTraitRepo {
	return &SQLiteChosenTraitRepo{db: conn}
}

func (r *SQLiteChosenTraitRepo) Create(ctx context.Context, ct *domain.ChosenTrait) error {
	query := `INSERT INTO chosen_traits (` + chosenTraitColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		ct.ID,
		ct.UserID,
		ct.DevelopmentPlanID,
		string(ct.TraitType),
		ct.Name,
		ct.TraitID,
		ct.TScore,
		ct.FormID,
		ct.PracticeID,
		nullableTimeToString(ct.StartDate),
		nullableTimeToString(ct.EndDate),
		ct.Version,
		ct.CreatedAt.UTC().Format(time.RFC3339),
		ct.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting chosen trait: %w", err)
	}
	return nil
}

func (r *SQLiteChosenTraitRepo) GetByID(ctx context.Context, id string) (*domain.ChosenTrait, error) {
	query := `SELECT ` + chosenTraitColumns + ` FROM chosen_traits WHERE id = ?`
	return r.scanChosenTrait(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteChosenTraitRepo) GetByPlanAndType(ctx context.Context, planID string, tt domain.TraitType) (*domain.ChosenTrait, error) {
	query := `SELECT ` + chosenTraitColumns + ` FROM chosen_traits WHERE development_plan_id = ? AND trait_type = ?`
	return r.scanChosenTrait(r.db.QueryRowContext(ctx, query, planID, string(tt)))
}

func (r *SQLiteChosenTraitRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.ChosenTrait, error) {
	query := `SELECT ` + chosenTraitColumns + ` FROM chosen_traits WHERE development_plan_id = ? ORDER BY trait_type DESC`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("listing chosen traits: %w", err)
	}
	defer rows.Close()

	var traits []*domain.ChosenTrait
	for rows.Next() {
		ct, err := r.scanChosenTraitRow(rows)
		if err != nil {
			return nil, err
		}
		traits = append(traits, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chosen traits: %w", err)
	}
	return traits, nil
}

// Update rewrites a chosen trait guarded by its version: the write only
// applies when the stored version matches, and bumps it by one. A stale
// version yields ErrVersionConflict so the caller can re-read and retry.
func (r *SQLiteChosenTraitRepo) Update(ctx context.Context, ct *domain.ChosenTrait) error {
	query := `UPDATE chosen_traits
		SET name = ?, trait_id = ?, t_score = ?, form_id = ?, practice_id = ?,
			start_date = ?, end_date = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		ct.Name,
		ct.TraitID,
		ct.TScore,
		ct.FormID,
		ct.PracticeID,
		nullableTimeToString(ct.StartDate),
		nullableTimeToString(ct.EndDate),
		time.Now().UTC().Format(time.RFC3339),
		ct.ID,
		ct.Version,
	)
	if err != nil {
		return fmt.Errorf("updating chosen trait: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking chosen trait update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("chosen trait %s: %w", ct.ID, ErrVersionConflict)
	}
	ct.Version++
	return nil
}

func (r *SQLiteChosenTraitRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chosen_traits WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting chosen trait: %w", err)
	}
	return nil
}

func (r *SQLiteChosenTraitRepo) scanChosenTrait(row *sql.Row) (*domain.ChosenTrait, error) {
	var ct domain.ChosenTrait
	var traitTypeStr string
	var startStr, endStr sql.NullString
	var createdAtStr, updatedAtStr string
	err := row.Scan(&ct.ID, &ct.UserID, &ct.DevelopmentPlanID, &traitTypeStr, &ct.Name, &ct.TraitID, &ct.TScore,
		&ct.FormID, &ct.PracticeID, &startStr, &endStr, &ct.Version, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("chosen trait: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning chosen trait: %w", err)
	}
	return r.populateChosenTrait(&ct, traitTypeStr, startStr, endStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteChosenTraitRepo) scanChosenTraitRow(rows *sql.Rows) (*domain.ChosenTrait, error) {
	var ct domain.ChosenTrait
	var traitTypeStr string
	var startStr, endStr sql.NullString
	var createdAtStr, updatedAtStr string
	if err := rows.Scan(&ct.ID, &ct.UserID, &ct.DevelopmentPlanID, &traitTypeStr, &ct.Name, &ct.TraitID, &ct.TScore,
		&ct.FormID, &ct.PracticeID, &startStr, &endStr, &ct.Version, &createdAtStr, &updatedAtStr); err != nil {
		return nil, fmt.Errorf("scanning chosen trait row: %w", err)
	}
	return r.populateChosenTrait(&ct, traitTypeStr, startStr, endStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteChosenTraitRepo) populateChosenTrait(ct *domain.ChosenTrait, traitTypeStr string, startStr, endStr sql.NullString, createdAtStr, updatedAtStr string) (*domain.ChosenTrait, error) {
	ct.TraitType = domain.TraitType(traitTypeStr)
	ct.StartDate = parseNullableTime(startStr)
	ct.EndDate = parseNullableTime(endStr)

	var err error
	ct.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	ct.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return ct, nil
}
