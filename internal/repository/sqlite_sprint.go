package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

const sprintColumns = `id, user_id, development_plan_id, number, start_date, end_date,
		is_finished, strength_practice_form_id, weakness_practice_form_id, created_at, updated_at`

// SQLiteSprintRepo implements SprintRepo using a SQLite database.
type SQLiteSprintRepo struct {
	db db.DBTX
}

// NewSQLiteSprintRepo creates a new SQLiteSprintRepo.
func NewSQLiteSprintRepo(conn db.DBTX) *SQLiteSprintRepo {
	return &SQLiteSprintRepo{db: conn}
}

func (r *SQLiteSprintRepo) Create(ctx context.Context, s *domain.Sprint) error {
	query := `INSERT INTO sprints (` + sprintColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		s.DevelopmentPlanID,
		s.Number,
		s.StartDate.UTC().Format(time.RFC3339),
		s.EndDate.UTC().Format(time.RFC3339),
		boolToInt(s.IsFinished),
		nullableStringToValue(s.StrengthPracticeFormID),
		nullableStringToValue(s.WeaknessPracticeFormID),
		s.CreatedAt.UTC().Format(time.RFC3339),
		s.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting sprint: %w", err)
	}
	return nil
}

func (r *SQLiteSprintRepo) GetByID(ctx context.Context, id string) (*domain.Sprint, error) {
	query := `SELECT ` + sprintColumns + ` FROM sprints WHERE id = ?`
	return r.scanSprint(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteSprintRepo) GetCurrent(ctx context.Context, planID string) (*domain.Sprint, error) {
	query := `SELECT ` + sprintColumns + ` FROM sprints
		WHERE development_plan_id = ? ORDER BY number DESC LIMIT 1`
	return r.scanSprint(r.db.QueryRowContext(ctx, query, planID))
}

func (r *SQLiteSprintRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.Sprint, error) {
	query := `SELECT ` + sprintColumns + ` FROM sprints WHERE development_plan_id = ? ORDER BY number`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("listing sprints: %w", err)
	}
	defer rows.Close()

	var sprints []*domain.Sprint
	for rows.Next() {
		s, err := r.scanSprintRow(rows)
		if err != nil {
			return nil, err
		}
		sprints = append(sprints, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sprints: %w", err)
	}
	return sprints, nil
}

func (r *SQLiteSprintRepo) Update(ctx context.Context, s *domain.Sprint) error {
	query := `UPDATE sprints
		SET start_date = ?, end_date = ?, is_finished = ?,
			strength_practice_form_id = ?, weakness_practice_form_id = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		s.StartDate.UTC().Format(time.RFC3339),
		s.EndDate.UTC().Format(time.RFC3339),
		boolToInt(s.IsFinished),
		nullableStringToValue(s.StrengthPracticeFormID),
		nullableStringToValue(s.WeaknessPracticeFormID),
		time.Now().UTC().Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating sprint: %w", err)
	}
	return nil
}

func (r *SQLiteSprintRepo) ClearPracticeForms(ctx context.Context, sprintID string) error {
	query := `UPDATE sprints
		SET strength_practice_form_id = NULL, weakness_practice_form_id = NULL, updated_at = ?
		WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339), sprintID); err != nil {
		return fmt.Errorf("clearing sprint practice forms: %w", err)
	}
	return nil
}

func (r *SQLiteSprintRepo) scanSprint(row *sql.Row) (*domain.Sprint, error) {
	var s domain.Sprint
	var isFinished int
	var strengthFormID, weaknessFormID sql.NullString
	var startStr, endStr, createdAtStr, updatedAtStr string
	err := row.Scan(&s.ID, &s.UserID, &s.DevelopmentPlanID, &s.Number, &startStr, &endStr,
		&isFinished, &strengthFormID, &weaknessFormID, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sprint: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning sprint: %w", err)
	}
	return populateSprint(&s, isFinished, strengthFormID, weaknessFormID, startStr, endStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteSprintRepo) scanSprintRow(rows *sql.Rows) (*domain.Sprint, error) {
	var s domain.Sprint
	var isFinished int
	var strengthFormID, weaknessFormID sql.NullString
	var startStr, endStr, createdAtStr, updatedAtStr string
	if err := rows.Scan(&s.ID, &s.UserID, &s.DevelopmentPlanID, &s.Number, &startStr, &endStr,
		&isFinished, &strengthFormID, &weaknessFormID, &createdAtStr, &updatedAtStr); err != nil {
		return nil, fmt.Errorf("scanning sprint row: %w", err)
	}
	return populateSprint(&s, isFinished, strengthFormID, weaknessFormID, startStr, endStr, createdAtStr, updatedAtStr)
}

func populateSprint(s *domain.Sprint, isFinished int, strengthFormID, weaknessFormID sql.NullString, startStr, endStr, createdAtStr, updatedAtStr string) (*domain.Sprint, error) {
	s.IsFinished = intToBool(isFinished)
	s.StrengthPracticeFormID = nullStringPtr(strengthFormID)
	s.WeaknessPracticeFormID = nullStringPtr(weaknessFormID)

	for _, f := range []struct {
		dst *time.Time
		src string
	}{
		{&s.StartDate, startStr},
		{&s.EndDate, endStr},
		{&s.CreatedAt, createdAtStr},
		{&s.UpdatedAt, updatedAtStr},
	} {
		t, err := time.Parse(time.RFC3339, f.src)
		if err != nil {
			return nil, fmt.Errorf("parsing sprint date: %w", err)
		}
		*f.dst = t
	}
	return s, nil
}
