// Package postgres provides the relational FactStore used by the
// CareerMatch backend. Memories live in pgvector on the same database but
// are reached through a server-side similarity query, not this package.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/lazyeo/careermatch-ai-sub000/memory"
)

// Schema is the DDL for the facts table. Applied by the product's
// migration tooling, included here for reference and tests.
const Schema = `
CREATE TABLE IF NOT EXISTS user_facts (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	category    TEXT NOT NULL,
	content     TEXT NOT NULL,
	confidence  DOUBLE PRECISION NOT NULL,
	is_verified BOOLEAN NOT NULL DEFAULT FALSE,
	source      TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS user_facts_user_idx ON user_facts (user_id, category);
`

// FactStore persists facts in Postgres via sqlx.
type FactStore struct {
	db *sqlx.DB
}

// Open connects to Postgres with the given DSN and returns a FactStore.
func Open(dsn string) (*FactStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &FactStore{db: db}, nil
}

// NewFactStore wraps an existing connection.
func NewFactStore(db *sqlx.DB) *FactStore {
	return &FactStore{db: db}
}

// Insert persists a fact. Facts are append-only; there is no update path.
func (s *FactStore) Insert(ctx context.Context, fact memory.Fact) error {
	const q = `
		INSERT INTO user_facts (id, user_id, category, content, confidence, is_verified, source, created_at)
		VALUES (:id, :user_id, :category, :content, :confidence, :is_verified, :source, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, q, fact); err != nil {
		return fmt.Errorf("insert fact: %w", err)
	}
	return nil
}

// ListByUser returns the user's facts in insertion order, optionally
// filtered by category.
func (s *FactStore) ListByUser(ctx context.Context, userID string, category memory.FactCategory) ([]memory.Fact, error) {
	var facts []memory.Fact
	var err error

	if category == "" {
		const q = `SELECT * FROM user_facts WHERE user_id = $1 ORDER BY created_at, id`
		err = s.db.SelectContext(ctx, &facts, q, userID)
	} else {
		const q = `SELECT * FROM user_facts WHERE user_id = $1 AND category = $2 ORDER BY created_at, id`
		err = s.db.SelectContext(ctx, &facts, q, userID, string(category))
	}
	if err != nil {
		return nil, fmt.Errorf("select facts: %w", err)
	}
	return facts, nil
}

// Close closes the underlying connection pool.
func (s *FactStore) Close() error {
	return s.db.Close()
}
