package postgres

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS questions (
		id BIGSERIAL PRIMARY KEY,
		"order" INTEGER NOT NULL DEFAULT 0,
		question_type TEXT NOT NULL DEFAULT 'text',
		text TEXT NOT NULL,
		choices TEXT,
		image TEXT,
		field_name TEXT,
		is_required BOOLEAN NOT NULL DEFAULT TRUE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_active_order
		ON questions (is_active, "order", id)`,

	`CREATE TABLE IF NOT EXISTS applicants (
		id BIGSERIAL PRIMARY KEY,
		telegram_id BIGINT NOT NULL UNIQUE,
		username TEXT,
		first_name TEXT,
		last_name TEXT,
		current_question_id BIGINT REFERENCES questions(id) ON DELETE SET NULL,
		stage TEXT NOT NULL DEFAULT '',
		is_team_member BOOLEAN NOT NULL DEFAULT FALSE,
		is_registration_complete BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS responses (
		id BIGSERIAL PRIMARY KEY,
		applicant_id BIGINT NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
		question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		text_answer TEXT,
		photo TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (applicant_id, question_id)
	)`,

	`CREATE TABLE IF NOT EXISTS staff_applications (
		id BIGSERIAL PRIMARY KEY,
		applicant_id BIGINT NOT NULL UNIQUE REFERENCES applicants(id) ON DELETE CASCADE,
		status TEXT NOT NULL DEFAULT 'in_progress',
		position TEXT,
		full_name TEXT,
		address TEXT,
		phone TEXT,
		email TEXT,
		passport_main TEXT,
		passport_registration TEXT,
		snils TEXT,
		inn TEXT,
		marital_status TEXT,
		children TEXT,
		emergency_contact TEXT,
		additional_info TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS bot_settings (
		id SMALLINT PRIMARY KEY CHECK (id = 1),
		bot_token TEXT,
		bot_name TEXT,
		welcome_image TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates all tables and indexes idempotently.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
