// Package chromem provides a VectorStore backed by chromem-go, a pure Go
// embedded vector database. Suitable for local development and tests; the
// production deployment uses a server-side pgvector query instead.
package chromem

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/lazyeo/careermatch-ai-sub000/memory"
)

// Store wraps chromem-go. Each user gets a dedicated collection so a query
// can never cross user boundaries.
type Store struct {
	db          *chromem.DB
	collections map[string]*chromem.Collection
	mu          sync.RWMutex
}

// New creates an empty in-memory store.
func New() (*Store, error) {
	return &Store{
		db:          chromem.NewDB(),
		collections: make(map[string]*chromem.Collection),
	}, nil
}

func (s *Store) collection(userID string) (*chromem.Collection, error) {
	s.mu.RLock()
	col, ok := s.collections[userID]
	s.mu.RUnlock()
	if ok {
		return col, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if col, ok := s.collections[userID]; ok {
		return col, nil
	}

	name := "user_" + userID
	if userID == "" {
		name = "global"
	}

	// Embeddings are provided by the caller, cosine distance is the
	// chromem default.
	col, err := s.db.CreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	s.collections[userID] = col
	return col, nil
}

// Store saves a record with its embedding.
func (s *Store) Store(ctx context.Context, rec memory.Record) error {
	col, err := s.collection(rec.UserID)
	if err != nil {
		return err
	}

	doc := chromem.Document{
		ID:        rec.ID,
		Content:   rec.Content,
		Embedding: rec.Embedding,
		Metadata:  encodeMetadata(rec),
	}

	if err := col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	return nil
}

// Query retrieves the user's records by similarity, highest first.
func (s *Store) Query(ctx context.Context, userID string, embedding []float32, limit int) ([]memory.SearchResult, error) {
	col, err := s.collection(userID)
	if err != nil {
		return nil, err
	}

	// chromem-go rejects nResults larger than the collection size, so
	// retry with smaller limits until the query fits.
	var results []chromem.Result
	for n := limit; n >= 1; n-- {
		results, err = col.QueryEmbedding(ctx, embedding, n, nil, nil)
		if err == nil {
			break
		}
		if isInsufficientDocsError(err) {
			if n == 1 {
				return nil, nil // empty collection
			}
			continue
		}
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]memory.SearchResult, 0, len(results))
	for _, r := range results {
		rec, err := decodeResult(userID, r)
		if err != nil {
			log.Printf("[CHROMEM] Skipping result %s: %v", r.ID, err)
			continue
		}
		out = append(out, memory.SearchResult{Record: rec, Similarity: r.Similarity})
	}
	return out, nil
}

// Close releases resources. chromem keeps everything in memory, so this is
// a no-op.
func (s *Store) Close() error {
	return nil
}

func encodeMetadata(rec memory.Record) map[string]string {
	md := map[string]string{
		"user_id":    rec.UserID,
		"importance": strconv.Itoa(rec.Importance),
		"created_at": rec.CreatedAt.Format(time.RFC3339Nano),
	}
	for k, v := range rec.Metadata {
		if str, ok := v.(string); ok {
			md["x_"+k] = str
			continue
		}
		if b, err := json.Marshal(v); err == nil {
			md["x_"+k] = string(b)
		}
	}
	return md
}

func decodeResult(userID string, r chromem.Result) (memory.Record, error) {
	if owner := r.Metadata["user_id"]; owner != userID {
		// The per-user collection layout makes this unreachable, but the
		// isolation guarantee is worth a hard check.
		return memory.Record{}, fmt.Errorf("record %s belongs to %q, not %q", r.ID, owner, userID)
	}

	importance, _ := strconv.Atoi(r.Metadata["importance"])
	createdAt, _ := time.Parse(time.RFC3339Nano, r.Metadata["created_at"])

	var metadata map[string]interface{}
	for k, v := range r.Metadata {
		if !strings.HasPrefix(k, "x_") {
			continue
		}
		if metadata == nil {
			metadata = make(map[string]interface{})
		}
		metadata[strings.TrimPrefix(k, "x_")] = v
	}

	return memory.Record{
		ID:         r.ID,
		UserID:     userID,
		Content:    r.Content,
		Embedding:  r.Embedding,
		Importance: importance,
		CreatedAt:  createdAt,
		Metadata:   metadata,
	}, nil
}

func isInsufficientDocsError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "nResults must be") || strings.Contains(msg, "number of documents")
}
