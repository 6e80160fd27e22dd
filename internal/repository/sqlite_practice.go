package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

// SQLitePracticeRepo implements PracticeRepo using a SQLite database.
type SQLitePracticeRepo struct {
	db db.DBTX
}

// NewSQLitePracticeRepo creates a new SQLitePracticeRepo.
func NewSQLitePracticeRepo(conn db.DBTX) *SQLitePracticeRepo {
	return &SQLitePracticeRepo{db: conn}
}

func (r *SQLitePracticeRepo) CreateBatch(ctx context.Context, practices []*domain.Practice) error {
	query := `INSERT INTO practices (id, user_id, chosen_trait_id, name, score, is_recommended, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, p := range practices {
		_, err := r.db.ExecContext(ctx, query,
			p.ID,
			p.UserID,
			p.ChosenTraitID,
			p.Name,
			p.Score,
			boolToInt(p.IsRecommended),
			p.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting practice %q: %w", p.Name, err)
		}
	}
	return nil
}

func (r *SQLitePracticeRepo) ListByChosenTrait(ctx context.Context, chosenTraitID string) ([]*domain.Practice, error) {
	query := `SELECT id, user_id, chosen_trait_id, name, score, is_recommended, created_at
		FROM practices WHERE chosen_trait_id = ? ORDER BY score DESC, created_at, id`
	rows, err := r.db.QueryContext(ctx, query, chosenTraitID)
	if err != nil {
		return nil, fmt.Errorf("listing practices: %w", err)
	}
	defer rows.Close()

	var practices []*domain.Practice
	for rows.Next() {
		var p domain.Practice
		var recommended int
		var createdAtStr string
		if err := rows.Scan(&p.ID, &p.UserID, &p.ChosenTraitID, &p.Name, &p.Score, &recommended, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning practice: %w", err)
		}
		p.IsRecommended = intToBool(recommended)
		p.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing practice created_at: %w", err)
		}
		practices = append(practices, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating practices: %w", err)
	}
	return practices, nil
}

func (r *SQLitePracticeRepo) CountByChosenTrait(ctx context.Context, chosenTraitID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM practices WHERE chosen_trait_id = ?`, chosenTraitID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting practices: %w", err)
	}
	return n, nil
}

func (r *SQLitePracticeRepo) CountRecommended(ctx context.Context, chosenTraitID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM practices WHERE chosen_trait_id = ? AND is_recommended = 1`, chosenTraitID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting recommended practices: %w", err)
	}
	return n, nil
}

func (r *SQLitePracticeRepo) SetRecommended(ctx context.Context, id string, recommended bool) error {
	query := `UPDATE practices SET is_recommended = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, boolToInt(recommended), id); err != nil {
		return fmt.Errorf("marking practice recommended: %w", err)
	}
	return nil
}

func (r *SQLitePracticeRepo) DeleteByChosenTrait(ctx context.Context, chosenTraitID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM practices WHERE chosen_trait_id = ?`, chosenTraitID); err != nil {
		return fmt.Errorf("deleting practices: %w", err)
	}
	return nil
}
