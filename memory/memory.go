package memory

import (
	"context"
	"time"
)

// FactCategory classifies a Fact.
type FactCategory string

const (
	CategoryPreference FactCategory = "preference"
	CategorySkill      FactCategory = "skill"
	CategoryCareerGoal FactCategory = "career_goal"
	CategoryConstraint FactCategory = "constraint"
	CategoryOther      FactCategory = "other"
)

// Fact is a durable, structured belief about a user. Facts are created by
// resume sync and agent reflection logic and never mutated in place.
//
// Confidence is a caller contract, not enforced here: callers must keep it
// within [0, 1].
type Fact struct {
	ID         string       `json:"id" db:"id"`
	UserID     string       `json:"user_id" db:"user_id"`
	Category   FactCategory `json:"category" db:"category"`
	Content    string       `json:"content" db:"content"`
	Confidence float64      `json:"confidence" db:"confidence"`
	IsVerified bool         `json:"is_verified" db:"is_verified"`
	Source     string       `json:"source,omitempty" db:"source"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
}

// Record is an embedded free-text memory snippet. Records are written on
// every completed turn (by the reflection path) and by external callers;
// they are never updated or deleted here.
type Record struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"user_id"`
	Content    string                 `json:"content"`
	Embedding  []float32              `json:"embedding"`
	Importance int                    `json:"importance"`
	CreatedAt  time.Time              `json:"created_at"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// SearchResult pairs a retrieved Record with its cosine similarity to the
// query embedding.
type SearchResult struct {
	Record     Record
	Similarity float32
}

// Embedder converts text to a fixed-dimension vector.
// Implementations: openai (API), onnx (local model), mock (testing).
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}

// VectorStore is the embedding storage backend.
// Implementations: ChromemStore (embedded), pgvector (production, external).
type VectorStore interface {
	// Store saves a record. The record must have its embedding set.
	Store(ctx context.Context, rec Record) error

	// Query returns up to limit records for userID by similarity to the
	// given embedding, highest first. It never returns another user's
	// records.
	Query(ctx context.Context, userID string, embedding []float32, limit int) ([]SearchResult, error)

	// Close releases resources.
	Close() error
}

// FactStore is the relational backend for facts.
type FactStore interface {
	// Insert persists a fact.
	Insert(ctx context.Context, fact Fact) error

	// ListByUser returns all facts for a user in insertion order,
	// optionally filtered by category (empty = all categories).
	ListByUser(ctx context.Context, userID string, category FactCategory) ([]Fact, error)
}
