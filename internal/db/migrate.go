package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('admin', 'teacher', 'student', 'driver')),
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		roll_number TEXT,
		class TEXT,
		section TEXT,
		rfid_tag TEXT,
		attendance DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (attendance >= 0 AND attendance <= 100),
		fee_status TEXT NOT NULL DEFAULT 'pending' CHECK (fee_status IN ('paid', 'pending', 'overdue')),
		bus_number TEXT,
		bus_assigned BOOLEAN NOT NULL DEFAULT false,
		parent_name TEXT,
		parent_phone TEXT,
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
		admission_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		avatar TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS teachers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT,
		subject TEXT,
		salary DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (salary >= 0),
		status TEXT NOT NULL DEFAULT 'active',
		avatar TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS teacher_schedules (
		id BIGSERIAL PRIMARY KEY,
		teacher_id BIGINT NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
		day_of_week INT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		class TEXT,
		section TEXT,
		subject TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		due_date TIMESTAMPTZ,
		class TEXT,
		section TEXT,
		created_by BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS assignment_submissions (
		id BIGSERIAL PRIMARY KEY,
		assignment_id BIGINT NOT NULL REFERENCES assignments(id) ON DELETE CASCADE,
		student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		content TEXT,
		submitted_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate bootstraps the schema. Every statement is idempotent so it is safe
// to run on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
