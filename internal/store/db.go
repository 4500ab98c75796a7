// Package store provides PostgreSQL persistence for the records tracker.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// NewDB opens a PostgreSQL connection pool and verifies connectivity.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate creates the schema if it does not exist.
func Migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS jurisdictions (
		id SERIAL PRIMARY KEY,
		code VARCHAR(2) NOT NULL UNIQUE,
		statute_name TEXT,
		max_response_days INTEGER,
		business_days_only BOOLEAN,
		template_asset TEXT,
		timezone TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS agencies (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		street_address TEXT NOT NULL DEFAULT '',
		municipality TEXT NOT NULL DEFAULT '',
		zip_code TEXT NOT NULL DEFAULT '',
		jurisdiction_id INTEGER REFERENCES jurisdictions(id),
		foia_email TEXT,
		is_federal BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS projects (
		id SERIAL PRIMARY KEY,
		short_description TEXT NOT NULL,
		long_description TEXT NOT NULL DEFAULT '',
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		launched_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS request_contents (
		id SERIAL PRIMARY KEY,
		subject TEXT NOT NULL,
		requested_records TEXT NOT NULL,
		expedited_processing TEXT NOT NULL DEFAULT '',
		fee_waiver TEXT NOT NULL DEFAULT '',
		filed_at TIMESTAMPTZ NOT NULL,
		project_id INTEGER REFERENCES projects(id)
	);

	CREATE TABLE IF NOT EXISTS request_items (
		id SERIAL PRIMARY KEY,
		content_id INTEGER NOT NULL REFERENCES request_contents(id) ON DELETE CASCADE,
		agency_id INTEGER NOT NULL REFERENCES agencies(id),
		recipient_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'no_response',
		expedited_granted BOOLEAN NOT NULL DEFAULT FALSE,
		fee_assessed NUMERIC(9,2),
		modifications TEXT[] NOT NULL DEFAULT '{}',
		time_completed DATE,
		message_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS sources (
		id SERIAL PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		agency_id INTEGER REFERENCES agencies(id),
		email TEXT,
		phone TEXT,
		source_type TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		added_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS contacts (
		id SERIAL PRIMARY KEY,
		source_id INTEGER NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
		time TIMESTAMPTZ NOT NULL DEFAULT now(),
		method TEXT NOT NULL,
		answered BOOLEAN NOT NULL DEFAULT FALSE,
		description TEXT NOT NULL DEFAULT '',
		ground_rules TEXT NOT NULL DEFAULT 'on_record',
		project_id INTEGER REFERENCES projects(id)
	);

	CREATE TABLE IF NOT EXISTS stories (
		id SERIAL PRIMARY KEY,
		headline TEXT NOT NULL,
		link TEXT NOT NULL DEFAULT '',
		publication TEXT NOT NULL DEFAULT '',
		project_id INTEGER REFERENCES projects(id),
		published_on DATE NOT NULL DEFAULT CURRENT_DATE
	);

	CREATE INDEX IF NOT EXISTS idx_request_items_content ON request_items(content_id);
	CREATE INDEX IF NOT EXISTS idx_request_items_agency ON request_items(agency_id);
	CREATE INDEX IF NOT EXISTS idx_contacts_source ON contacts(source_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
