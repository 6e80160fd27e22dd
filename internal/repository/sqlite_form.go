package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

// SQLiteFormRepo implements FormRepo using a SQLite database. Deleting a form
// cascades to its questions, options, and answers through foreign keys.
type SQLiteFormRepo struct {
	db db.DBTX
}

// NewSQLiteFormRepo creates a new SQLiteFormRepo.
func NewSQLiteFormRepo(conn db.DBTX) *SQLiteFormRepo {
	return &SQLiteFormRepo{db: conn}
}

func (r *SQLiteFormRepo) Create(ctx context.Context, f *domain.Form) error {
	query := `INSERT INTO forms (id, user_id, name, kind, sprint_number, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		f.ID,
		f.UserID,
		f.Name,
		string(f.Kind),
		nullableIntToValue(f.SprintNumber),
		f.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting form: %w", err)
	}
	return nil
}

func (r *SQLiteFormRepo) GetByID(ctx context.Context, id string) (*domain.Form, error) {
	query := `SELECT id, user_id, name, kind, sprint_number, created_at FROM forms WHERE id = ?`
	return r.scanForm(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteFormRepo) GetByName(ctx context.Context, userID, name string) (*domain.Form, error) {
	query := `SELECT id, user_id, name, kind, sprint_number, created_at FROM forms WHERE user_id = ? AND name = ?`
	return r.scanForm(r.db.QueryRowContext(ctx, query, userID, name))
}

func (r *SQLiteFormRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM forms WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting form: %w", err)
	}
	return nil
}

func (r *SQLiteFormRepo) CreateQuestion(ctx context.Context, q *domain.Question) error {
	query := `INSERT INTO questions (id, form_id, text, rank, category, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		q.ID,
		q.FormID,
		q.Text,
		q.Rank,
		q.Category,
		q.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting question: %w", err)
	}
	return nil
}

func (r *SQLiteFormRepo) ListQuestions(ctx context.Context, formID string) ([]*domain.Question, error) {
	query := `SELECT id, form_id, text, rank, category, created_at FROM questions WHERE form_id = ? ORDER BY rank, created_at`
	rows, err := r.db.QueryContext(ctx, query, formID)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	defer rows.Close()

	var questions []*domain.Question
	for rows.Next() {
		var q domain.Question
		var createdAtStr string
		if err := rows.Scan(&q.ID, &q.FormID, &q.Text, &q.Rank, &q.Category, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		q.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing question created_at: %w", err)
		}
		questions = append(questions, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating questions: %w", err)
	}
	return questions, nil
}

func (r *SQLiteFormRepo) CreateOption(ctx context.Context, o *domain.Option) error {
	query := `INSERT INTO options (id, question_id, text, trait_name, points) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, o.ID, o.QuestionID, o.Text, o.TraitName, o.Points); err != nil {
		return fmt.Errorf("inserting option: %w", err)
	}
	return nil
}

func (r *SQLiteFormRepo) ListOptions(ctx context.Context, questionID string) ([]*domain.Option, error) {
	query := `SELECT id, question_id, text, trait_name, points FROM options WHERE question_id = ? ORDER BY points, text`
	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("listing options: %w", err)
	}
	defer rows.Close()

	var options []*domain.Option
	for rows.Next() {
		var o domain.Option
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.TraitName, &o.Points); err != nil {
			return nil, fmt.Errorf("scanning option: %w", err)
		}
		options = append(options, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating options: %w", err)
	}
	return options, nil
}

func (r *SQLiteFormRepo) UpsertAnswer(ctx context.Context, a *domain.Answer) error {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `INSERT INTO answers (id, form_id, question_id, user_id, trait_name, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(form_id, question_id) DO UPDATE
		SET trait_name = excluded.trait_name, value = excluded.value, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.FormID,
		a.QuestionID,
		a.UserID,
		a.TraitName,
		a.Value,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upserting answer: %w", err)
	}
	return nil
}

func (r *SQLiteFormRepo) ListAnswers(ctx context.Context, formID string) ([]*domain.Answer, error) {
	query := `SELECT id, form_id, question_id, user_id, trait_name, value, created_at, updated_at
		FROM answers WHERE form_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, formID)
	if err != nil {
		return nil, fmt.Errorf("listing answers: %w", err)
	}
	defer rows.Close()

	var answers []*domain.Answer
	for rows.Next() {
		var a domain.Answer
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&a.ID, &a.FormID, &a.QuestionID, &a.UserID, &a.TraitName, &a.Value, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning answer: %w", err)
		}
		a.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing answer created_at: %w", err)
		}
		a.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing answer updated_at: %w", err)
		}
		answers = append(answers, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating answers: %w", err)
	}
	return answers, nil
}

func (r *SQLiteFormRepo) scanForm(row *sql.Row) (*domain.Form, error) {
	var f domain.Form
	var sprintNumber sql.NullInt64
	var createdAtStr, kindStr string
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &kindStr, &sprintNumber, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("form: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning form: %w", err)
	}
	f.Kind = domain.FormKind(kindStr)
	f.SprintNumber = nullIntPtr(sprintNumber)
	f.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing form created_at: %w", err)
	}
	return &f, nil
}
