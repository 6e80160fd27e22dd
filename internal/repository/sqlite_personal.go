package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

// SQLitePersonalPracticeRepo implements PersonalPracticeRepo using a SQLite database.
type SQLitePersonalPracticeRepo struct {
	db db.DBTX
}

// NewSQLitePersonalPracticeRepo creates a new SQLitePersonalPracticeRepo.
func NewSQLitePersonalPracticeRepo(conn db.DBTX) *SQLitePersonalPracticeRepo {
	return &SQLitePersonalPracticeRepo{db: conn}
}

func (r *SQLitePersonalPracticeRepo) CreateCategory(ctx context.Context, c *domain.PersonalPracticeCategory) error {
	query := `INSERT INTO personal_practice_categories (id, user_id, development_plan_id, name, chosen_form_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.DevelopmentPlanID,
		c.Name,
		nullableStringToValue(c.ChosenFormID),
		c.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting personal practice category: %w", err)
	}
	return nil
}

func (r *SQLitePersonalPracticeRepo) GetCategoryByPlan(ctx context.Context, planID string) (*domain.PersonalPracticeCategory, error) {
	query := `SELECT id, user_id, development_plan_id, name, chosen_form_id, created_at
		FROM personal_practice_categories WHERE development_plan_id = ? LIMIT 1`
	var c domain.PersonalPracticeCategory
	var chosenFormID sql.NullString
	var createdAtStr string
	err := r.db.QueryRowContext(ctx, query, planID).Scan(&c.ID, &c.UserID, &c.DevelopmentPlanID, &c.Name, &chosenFormID, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("personal practice category: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning personal practice category: %w", err)
	}
	c.ChosenFormID = nullStringPtr(chosenFormID)
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &c, nil
}

func (r *SQLitePersonalPracticeRepo) DeleteCategory(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM personal_practice_categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting personal practice category: %w", err)
	}
	return nil
}

func (r *SQLitePersonalPracticeRepo) CreateChosen(ctx context.Context, p *domain.ChosenPersonalPractice) error {
	query := `INSERT INTO chosen_personal_practices (id, user_id, category_id, name, is_favorite, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.CategoryID,
		p.Name,
		boolToInt(p.IsFavorite),
		p.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting chosen personal practice: %w", err)
	}
	return nil
}

func (r *SQLitePersonalPracticeRepo) ListChosenByCategory(ctx context.Context, categoryID string) ([]*domain.ChosenPersonalPractice, error) {
	query := `SELECT id, user_id, category_id, name, is_favorite, created_at
		FROM chosen_personal_practices WHERE category_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("listing chosen personal practices: %w", err)
	}
	defer rows.Close()

	var items []*domain.ChosenPersonalPractice
	for rows.Next() {
		var p domain.ChosenPersonalPractice
		var favorite int
		var createdAtStr string
		if err := rows.Scan(&p.ID, &p.UserID, &p.CategoryID, &p.Name, &favorite, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning chosen personal practice: %w", err)
		}
		p.IsFavorite = intToBool(favorite)
		p.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		items = append(items, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chosen personal practices: %w", err)
	}
	return items, nil
}

func (r *SQLitePersonalPracticeRepo) DeleteChosenByCategory(ctx context.Context, categoryID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chosen_personal_practices WHERE category_id = ?`, categoryID); err != nil {
		return fmt.Errorf("deleting chosen personal practices: %w", err)
	}
	return nil
}
