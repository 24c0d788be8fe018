package database

import (
	"context"
	"fmt"
)

// Constraint names the repositories translate into domain errors.
const (
	ConstraintUserEmail     = "users_email_key"
	ConstraintSingleAdmin   = "users_single_admin"
	ConstraintCustomerEmail = "customers_email_key"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                    UUID PRIMARY KEY,
		email                 TEXT NOT NULL,
		password              TEXT NOT NULL,
		role                  TEXT NOT NULL CHECK (role IN ('admin', 'customer')),
		name                  TEXT NOT NULL,
		phone                 TEXT NOT NULL,
		is_active             BOOLEAN NOT NULL DEFAULT TRUE,
		failed_login_attempts INTEGER NOT NULL DEFAULT 0 CHECK (failed_login_attempts >= 0),
		locked_until          TIMESTAMPTZ,
		last_login            TIMESTAMPTZ,
		created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT ` + ConstraintUserEmail + ` UNIQUE (email)
	)`,
	// at most one admin row; guards concurrent first-admin registrations
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + ConstraintSingleAdmin + ` ON users (role) WHERE role = 'admin'`,
	`CREATE TABLE IF NOT EXISTS customers (
		id               UUID PRIMARY KEY,
		name             TEXT NOT NULL,
		email            TEXT NOT NULL,
		phone            TEXT NOT NULL,
		address          TEXT NOT NULL,
		milk_type        TEXT NOT NULL CHECK (milk_type IN ('cow', 'buffalo', 'goat', 'mixed')),
		daily_quantity   DOUBLE PRECISION NOT NULL,
		rate_per_liter   DOUBLE PRECISION NOT NULL,
		morning_delivery BOOLEAN NOT NULL DEFAULT TRUE,
		evening_delivery BOOLEAN NOT NULL DEFAULT FALSE,
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_by       UUID NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT ` + ConstraintCustomerEmail + ` UNIQUE (email)
	)`,
}

// EnsureSchema creates the tables the service needs if they do not exist yet.
func EnsureSchema(ctx context.Context, db PgxIface) error {
	for i, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
