package store

import "github.com/jmoiron/sqlx"

type Store struct{ DB *sqlx.DB }

func New(db *sqlx.DB) *Store { return &Store{DB: db} }

// schema is applied at boot; every statement is idempotent so restarts are safe.
const schema = `
CREATE TABLE IF NOT EXISTS admins (
	id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS leads (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT,
	source TEXT NOT NULL DEFAULT 'Website Form',
	status TEXT NOT NULL DEFAULT 'new',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS lead_notes (
	id BIGSERIAL PRIMARY KEY,
	lead_id BIGINT NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
	text TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS leads_status_idx ON leads(status);
CREATE INDEX IF NOT EXISTS lead_notes_lead_idx ON lead_notes(lead_id, created_at);
`

func (s *Store) Migrate() error {
	_, err := s.DB.Exec(schema)
	return err
}
