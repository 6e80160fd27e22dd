package repository

import (
	"context"
	"fmt"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
)

// SQLiteCounterRepo implements CounterRepo using a SQLite database.
type SQLiteCounterRepo struct {
	db db.DBTX
}

// NewSQLiteCounterRepo creates a new SQLiteCounterRepo.
func NewSQLiteCounterRepo(conn db.DBTX) *SQLiteCounterRepo {
	return &SQLiteCounterRepo{db: conn}
}

func (r *SQLiteCounterRepo) Increment(ctx context.Context, name string) (int64, error) {
	query := `INSERT INTO counters (name, value) VALUES (?, 1)
		ON CONFLICT(name) DO UPDATE SET value = value + 1
		RETURNING value`
	var value int64
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("incrementing counter %q: %w", name, err)
	}
	return value, nil
}
