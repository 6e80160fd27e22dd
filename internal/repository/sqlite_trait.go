package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

const traitColumns = `id, user_id, name, average, standard_deviation, total_raw_score, t_score, created_at, updated_at`

// SQLiteTraitRepo implements TraitRepo using a SQLite database.
type SQLiteTraitRepo struct {
	db db.DBTX
}

// NewSQLiteTraitRepo creates a new SQLiteTraitRepo.
func NewSQLiteTraitRepo(conn db.DBTX) *SQLiteTraitRepo {
	return &SQLiteTraitRepo{db: conn}
}

func (r *SQLiteTraitRepo) CreateBatch(ctx context.Context, traits []*domain.TraitDefinition) error {
	query := `INSERT INTO trait_definitions (` + traitColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, t := range traits {
		_, err := r.db.ExecContext(ctx, query,
			t.ID,
			t.UserID,
			t.Name,
			t.Average,
			t.StandardDeviation,
			nullableIntToValue(t.TotalRawScore),
			nullableFloatToValue(t.TScore),
			t.CreatedAt.UTC().Format(time.RFC3339),
			t.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting trait definition %q: %w", t.Name, err)
		}
	}
	return nil
}

func (r *SQLiteTraitRepo) GetByName(ctx context.Context, userID, name string) (*domain.TraitDefinition, error) {
	query := `SELECT ` + traitColumns + ` FROM trait_definitions WHERE user_id = ? AND name = ?`
	return r.scanTrait(r.db.QueryRowContext(ctx, query, userID, name))
}

func (r *SQLiteTraitRepo) ListByUser(ctx context.Context, userID string) ([]*domain.TraitDefinition, error) {
	query := `SELECT ` + traitColumns + ` FROM trait_definitions WHERE user_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing trait definitions: %w", err)
	}
	defer rows.Close()

	var traits []*domain.TraitDefinition
	for rows.Next() {
		t, err := r.scanTraitRow(rows)
		if err != nil {
			return nil, err
		}
		traits = append(traits, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trait definitions: %w", err)
	}
	return traits, nil
}

func (r *SQLiteTraitRepo) ResetRawScores(ctx context.Context, userID string) error {
	query := `UPDATE trait_definitions SET total_raw_score = NULL, t_score = NULL, updated_at = ? WHERE user_id = ?`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339), userID); err != nil {
		return fmt.Errorf("resetting raw scores: %w", err)
	}
	return nil
}

func (r *SQLiteTraitRepo) IncrementRawScore(ctx context.Context, userID, name string) error {
	query := `UPDATE trait_definitions
		SET total_raw_score = COALESCE(total_raw_score, 0) + 1, updated_at = ?
		WHERE user_id = ? AND name = ?`
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339), userID, name)
	if err != nil {
		return fmt.Errorf("incrementing raw score for %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("trait %q: %w", name, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTraitRepo) SetTScore(ctx context.Context, id string, tScore float64) error {
	query := `UPDATE trait_definitions SET t_score = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, tScore, time.Now().UTC().Format(time.RFC3339), id); err != nil {
		return fmt.Errorf("setting t-score: %w", err)
	}
	return nil
}

func (r *SQLiteTraitRepo) TopByTScore(ctx context.Context, userID string, limit int) ([]domain.TraitScore, error) {
	query := `SELECT id, name, t_score FROM trait_definitions
		WHERE user_id = ? AND t_score IS NOT NULL
		ORDER BY t_score DESC, name ASC LIMIT ?`
	return r.listScores(ctx, query, userID, limit)
}

func (r *SQLiteTraitRepo) BottomByTScore(ctx context.Context, userID string, limit int) ([]domain.TraitScore, error) {
	query := `SELECT id, name, t_score FROM trait_definitions
		WHERE user_id = ? AND t_score IS NOT NULL
		ORDER BY t_score ASC, name ASC LIMIT ?`
	return r.listScores(ctx, query, userID, limit)
}

func (r *SQLiteTraitRepo) UpdatePopulationStats(ctx context.Context, name string, average, standardDeviation float64) error {
	query := `UPDATE trait_definitions SET average = ?, standard_deviation = ?, updated_at = ? WHERE name = ?`
	if _, err := r.db.ExecContext(ctx, query, average, standardDeviation, time.Now().UTC().Format(time.RFC3339), name); err != nil {
		return fmt.Errorf("updating population stats for %q: %w", name, err)
	}
	return nil
}

func (r *SQLiteTraitRepo) ListRawScoresForUsers(ctx context.Context, userIDs []string) ([]TraitRawScore, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userIDs)), ",")
	query := `SELECT name, total_raw_score FROM trait_definitions
		WHERE total_raw_score IS NOT NULL AND user_id IN (` + placeholders + `)`
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing raw scores: %w", err)
	}
	defer rows.Close()

	var scores []TraitRawScore
	for rows.Next() {
		var s TraitRawScore
		if err := rows.Scan(&s.Name, &s.RawScore); err != nil {
			return nil, fmt.Errorf("scanning raw score: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating raw scores: %w", err)
	}
	return scores, nil
}

func (r *SQLiteTraitRepo) listScores(ctx context.Context, query, userID string, limit int) ([]domain.TraitScore, error) {
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing trait scores: %w", err)
	}
	defer rows.Close()

	var scores []domain.TraitScore
	for rows.Next() {
		var s domain.TraitScore
		if err := rows.Scan(&s.ID, &s.Name, &s.TScore); err != nil {
			return nil, fmt.Errorf("scanning trait score: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trait scores: %w", err)
	}
	return scores, nil
}

func (r *SQLiteTraitRepo) scanTrait(row *sql.Row) (*domain.TraitDefinition, error) {
	var t domain.TraitDefinition
	var rawScore sql.NullInt64
	var tScore sql.NullFloat64
	var createdAtStr, updatedAtStr string
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Average, &t.StandardDeviation, &rawScore, &tScore, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("trait definition: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning trait definition: %w", err)
	}
	return r.populateTrait(&t, rawScore, tScore, createdAtStr, updatedAtStr)
}

func (r *SQLiteTraitRepo) scanTraitRow(rows *sql.Rows) (*domain.TraitDefinition, error) {
	var t domain.TraitDefinition
	var rawScore sql.NullInt64
	var tScore sql.NullFloat64
	var createdAtStr, updatedAtStr string
	if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Average, &t.StandardDeviation, &rawScore, &tScore, &createdAtStr, &updatedAtStr); err != nil {
		return nil, fmt.Errorf("scanning trait definition row: %w", err)
	}
	return r.populateTrait(&t, rawScore, tScore, createdAtStr, updatedAtStr)
}

func (r *SQLiteTraitRepo) populateTrait(t *domain.TraitDefinition, rawScore sql.NullInt64, tScore sql.NullFloat64, createdAtStr, updatedAtStr string) (*domain.TraitDefinition, error) {
	t.TotalRawScore = nullIntPtr(rawScore)
	t.TScore = nullFloatPtr(tScore)

	var err error
	t.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return t, nil
}
