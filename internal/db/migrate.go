package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name  TEXT NOT NULL DEFAULT '',
		company    TEXT NOT NULL DEFAULT '',
		job_title  TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS trait_definitions (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name               TEXT NOT NULL,
		average            REAL NOT NULL DEFAULT 0,
		standard_deviation REAL NOT NULL DEFAULT 0,
		total_raw_score    INTEGER,
		t_score            REAL,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL,
		UNIQUE(user_id, name)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_trait_definitions_user ON trait_definitions(user_id)`,

	`CREATE TABLE IF NOT EXISTS forms (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		kind          TEXT NOT NULL DEFAULT 'trait'
		              CHECK(kind IN ('initial','trait','practice','progress','mind_body')),
		sprint_number INTEGER,
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_forms_user ON forms(user_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_forms_user_name ON forms(user_id, name)`,

	`CREATE TABLE IF NOT EXISTS questions (
		id         TEXT PRIMARY KEY,
		form_id    TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
		text       TEXT NOT NULL,
		rank       INTEGER NOT NULL DEFAULT 0,
		category   TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_questions_form ON questions(form_id)`,

	`CREATE TABLE IF NOT EXISTS options (
		id          TEXT PRIMARY KEY,
		question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		text        TEXT NOT NULL,
		trait_name  TEXT NOT NULL DEFAULT '',
		points      INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_options_question ON options(question_id)`,

	`CREATE TABLE IF NOT EXISTS answers (
		id          TEXT PRIMARY KEY,
		form_id     TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
		question_id TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		trait_name  TEXT NOT NULL DEFAULT '',
		value       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		UNIQUE(form_id, question_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_answers_user ON answers(user_id)`,

	`CREATE TABLE IF NOT EXISTS development_plans (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		start_date         TEXT NOT NULL,
		end_date           TEXT NOT NULL,
		chosen_strength_id TEXT,
		chosen_weakness_id TEXT,
		is_finished        INTEGER NOT NULL DEFAULT 0,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_development_plans_user ON development_plans(user_id)`,

	`CREATE TABLE IF NOT EXISTS chosen_traits (
		id                  TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		development_plan_id TEXT NOT NULL REFERENCES development_plans(id) ON DELETE CASCADE,
		trait_type          TEXT NOT NULL CHECK(trait_type IN ('strength','weakness')),
		name                TEXT NOT NULL,
		trait_id            TEXT NOT NULL DEFAULT '',
		t_score             REAL NOT NULL DEFAULT 0,
		form_id             TEXT NOT NULL DEFAULT '',
		practice_id         TEXT NOT NULL DEFAULT '',
		start_date          TEXT,
		end_date            TEXT,
		version             INTEGER NOT NULL DEFAULT 1,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL,
		UNIQUE(development_plan_id, trait_type)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_chosen_traits_user ON chosen_traits(user_id)`,

	`CREATE TABLE IF NOT EXISTS practices (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		chosen_trait_id TEXT NOT NULL REFERENCES chosen_traits(id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		score           REAL NOT NULL DEFAULT 0,
		is_recommended  INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_practices_chosen_trait ON practices(chosen_trait_id)`,

	`CREATE TABLE IF NOT EXISTS chosen_practices (
		id                  TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		chosen_trait_id     TEXT NOT NULL REFERENCES chosen_traits(id) ON DELETE CASCADE,
		name                TEXT NOT NULL,
		practice_id         TEXT NOT NULL DEFAULT '',
		form_id             TEXT NOT NULL DEFAULT '',
		sprint_number       INTEGER NOT NULL,
		sprint_id           TEXT NOT NULL DEFAULT '',
		development_plan_id TEXT NOT NULL,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL,
		UNIQUE(development_plan_id, chosen_trait_id, sprint_number)
	)`,

	`CREATE TABLE IF NOT EXISTS sprints (
		id                        TEXT PRIMARY KEY,
		user_id                   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		development_plan_id       TEXT NOT NULL REFERENCES development_plans(id) ON DELETE CASCADE,
		number                    INTEGER NOT NULL CHECK(number >= 1 AND number <= 2),
		start_date                TEXT NOT NULL,
		end_date                  TEXT NOT NULL,
		is_finished               INTEGER NOT NULL DEFAULT 0,
		strength_practice_form_id TEXT,
		weakness_practice_form_id TEXT,
		created_at                TEXT NOT NULL,
		updated_at                TEXT NOT NULL,
		UNIQUE(development_plan_id, number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sprints_plan ON sprints(development_plan_id)`,

	`CREATE TABLE IF NOT EXISTS personal_practice_categories (
		id                  TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		development_plan_id TEXT NOT NULL REFERENCES development_plans(id) ON DELETE CASCADE,
		name                TEXT NOT NULL,
		chosen_form_id      TEXT,
		created_at          TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS chosen_personal_practices (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		category_id TEXT NOT NULL REFERENCES personal_practice_categories(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		is_favorite INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS pending_actions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		category   TEXT NOT NULL DEFAULT '',
		action     TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_pending_actions_user ON pending_actions(user_id)`,

	`CREATE TABLE IF NOT EXISTS counters (
		name  TEXT PRIMARY KEY,
		value INTEGER NOT NULL DEFAULT 0
	)`,
}
