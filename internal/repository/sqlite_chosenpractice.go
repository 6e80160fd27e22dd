package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

const chosenPracticeColumns = `id, user_id, chosen_trait_id, name, practice_id, form_id,
		sprint_number, sprint_id, development_plan_id, created_at, updated_at`

// SQLiteChosenPracticeRepo implements ChosenPracticeRepo using a SQLite database.
type SQLiteChosenPracticeRepo struct {
	db db.DBTX
}

// NewSQLiteChosenPracticeRepo creates a new SQLiteChosenPracticeRepo.
func NewSQLiteChosenPracticeRepo(conn db.DBTX) *SQLiteChosenPracticeRepo {
	return &SQLiteChosenPracticeRepo{db: conn}
}

func (r *SQLiteChosenPracticeRepo) Upsert(ctx context.Context, cp *domain.ChosenPractice) error {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `INSERT INTO chosen_practices (` + chosenPracticeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(development_plan_id, chosen_trait_id, sprint_number) DO UPDATE
		SET name = excluded.name, practice_id = excluded.practice_id,
			form_id = excluded.form_id, sprint_id = excluded.sprint_id,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		cp.ID,
		cp.UserID,
		cp.ChosenTraitID,
		cp.Name,
		cp.PracticeID,
		cp.FormID,
		cp.SprintNumber,
		cp.SprintID,
		cp.DevelopmentPlanID,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upserting chosen practice: %w", err)
	}
	return nil
}

func (r *SQLiteChosenPracticeRepo) GetByTraitAndSprint(ctx context.Context, chosenTraitID string, sprintNumber int) (*domain.ChosenPractice, error) {
	query := `SELECT ` + chosenPracticeColumns + ` FROM chosen_practices
		WHERE chosen_trait_id = ? AND sprint_number = ?`
	return r.scanChosenPractice(r.db.QueryRowContext(ctx, query, chosenTraitID, sprintNumber))
}

func (r *SQLiteChosenPracticeRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.ChosenPractice, error) {
	query := `SELECT ` + chosenPracticeColumns + ` FROM chosen_practices
		WHERE development_plan_id = ? ORDER BY sprint_number, chosen_trait_id`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("listing chosen practices: %w", err)
	}
	defer rows.Close()

	var items []*domain.ChosenPractice
	for rows.Next() {
		var cp domain.ChosenPractice
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&cp.ID, &cp.UserID, &cp.ChosenTraitID, &cp.Name, &cp.PracticeID, &cp.FormID,
			&cp.SprintNumber, &cp.SprintID, &cp.DevelopmentPlanID, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning chosen practice row: %w", err)
		}
		if err := populateChosenPracticeTimes(&cp, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		items = append(items, &cp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chosen practices: %w", err)
	}
	return items, nil
}

func (r *SQLiteChosenPracticeRepo) DeleteByChosenTrait(ctx context.Context, chosenTraitID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chosen_practices WHERE chosen_trait_id = ?`, chosenTraitID); err != nil {
		return fmt.Errorf("deleting chosen practices: %w", err)
	}
	return nil
}

func (r *SQLiteChosenPracticeRepo) scanChosenPractice(row *sql.Row) (*domain.ChosenPractice, error) {
	var cp domain.ChosenPractice
	var createdAtStr, updatedAtStr string
	err := row.Scan(&cp.ID, &cp.UserID, &cp.ChosenTraitID, &cp.Name, &cp.PracticeID, &cp.FormID,
		&cp.SprintNumber, &cp.SprintID, &cp.DevelopmentPlanID, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("chosen practice: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning chosen practice: %w", err)
	}
	if err := populateChosenPracticeTimes(&cp, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &cp, nil
}

func populateChosenPracticeTimes(cp *domain.ChosenPractice, createdAtStr, updatedAtStr string) error {
	var err error
	cp.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	cp.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	return nil
}
