package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

// SQLitePendingActionRepo implements PendingActionRepo using a SQLite database.
type SQLitePendingActionRepo struct {
	db db.DBTX
}

// NewSQLitePendingActionRepo creates a new SQLitePendingActionRepo.
func NewSQLitePendingActionRepo(conn db.DBTX) *SQLitePendingActionRepo {
	return &SQLitePendingActionRepo{db: conn}
}

func (r *SQLitePendingActionRepo) CreateBatch(ctx context.Context, actions []*domain.PendingAction) error {
	query := `INSERT INTO pending_actions (id, user_id, category, action, created_at) VALUES (?, ?, ?, ?, ?)`
	for _, a := range actions {
		_, err := r.db.ExecContext(ctx, query,
			a.ID,
			a.UserID,
			a.Category,
			a.Action,
			a.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting pending action: %w", err)
		}
	}
	return nil
}

func (r *SQLitePendingActionRepo) ListByUser(ctx context.Context, userID string) ([]*domain.PendingAction, error) {
	query := `SELECT id, user_id, category, action, created_at FROM pending_actions WHERE user_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing pending actions: %w", err)
	}
	defer rows.Close()

	var actions []*domain.PendingAction
	for rows.Next() {
		var a domain.PendingAction
		var createdAtStr string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Category, &a.Action, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning pending action: %w", err)
		}
		a.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		actions = append(actions, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending actions: %w", err)
	}
	return actions, nil
}

func (r *SQLitePendingActionRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_actions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("deleting pending actions: %w", err)
	}
	return nil
}
