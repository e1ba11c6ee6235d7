package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema holds the tables together with the unique and foreign keys the
// services rely on when two writers race past the application-level checks.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		image TEXT,
		image_cld_pub_id TEXT,
		role TEXT NOT NULL DEFAULT 'student' CHECK (role IN ('admin', 'teacher', 'student')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT users_email_unique UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS departments (
		id SERIAL PRIMARY KEY,
		code VARCHAR(50) NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT departments_code_unique UNIQUE (code)
	)`,
	`CREATE TABLE IF NOT EXISTS subjects (
		id SERIAL PRIMARY KEY,
		department_id INTEGER NOT NULL REFERENCES departments (id) ON DELETE RESTRICT,
		name VARCHAR(255) NOT NULL,
		code VARCHAR(50) NOT NULL,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT subjects_code_unique UNIQUE (code)
	)`,
	`CREATE TABLE IF NOT EXISTS classes (
		id SERIAL PRIMARY KEY,
		subject_id INTEGER NOT NULL REFERENCES subjects (id) ON DELETE RESTRICT,
		teacher_id TEXT NOT NULL REFERENCES users (id) ON DELETE RESTRICT,
		invite_code VARCHAR(50) NOT NULL,
		name VARCHAR(255) NOT NULL,
		banner_cld_pub_id TEXT,
		banner_url TEXT,
		description TEXT,
		capacity INTEGER CHECK (capacity IS NULL OR capacity > 0),
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive', 'archived')),
		schedules JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT classes_invite_code_unique UNIQUE (invite_code)
	)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		id SERIAL PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		class_id INTEGER NOT NULL REFERENCES classes (id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT enrollments_student_class_unique UNIQUE (student_id, class_id)
	)`,
	`CREATE INDEX IF NOT EXISTS subjects_department_id_idx ON subjects (department_id)`,
	`CREATE INDEX IF NOT EXISTS classes_subject_id_idx ON classes (subject_id)`,
	`CREATE INDEX IF NOT EXISTS classes_teacher_id_idx ON classes (teacher_id)`,
	`CREATE INDEX IF NOT EXISTS enrollments_class_id_idx ON enrollments (class_id)`,
}

// EnsureSchema creates missing tables and indexes in a single transaction.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	for _, stmt := range Schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
