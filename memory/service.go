package memory

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
)

// Config holds Service configuration.
type Config struct {
	// DefaultLimit caps search results when the caller passes limit <= 0.
	// Default: 5.
	DefaultLimit int

	// DefaultThreshold is the minimum similarity when the caller passes a
	// negative threshold. Default: 0.7.
	//
	// Note: small local models (all-MiniLM-L6-v2) score similar text
	// around 0.35; API models (text-embedding-3-small) score 0.7-0.85.
	DefaultThreshold float32

	// EmbedCacheSize is the max number of cached query embeddings.
	// Zero disables the cache.
	EmbedCacheSize int64
}

// DefaultConfig returns defaults suitable for API embedders.
var DefaultConfig = &Config{
	DefaultLimit:     5,
	DefaultThreshold: 0.7,
	EmbedCacheSize:   1024,
}

// Service implements the memory operations the engine consumes: fact
// insert/list and memory add/search. It owns no retry policy; every
// operation fails fast.
type Service struct {
	facts      FactStore
	vectors    VectorStore
	embedder   Embedder
	config     *Config
	embedCache *ristretto.Cache
}

// NewService creates a memory Service.
func NewService(facts FactStore, vectors VectorStore, embedder Embedder, config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig
	}

	s := &Service{
		facts:    facts,
		vectors:  vectors,
		embedder: embedder,
		config:   config,
	}

	if config.EmbedCacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: config.EmbedCacheSize * 10,
			MaxCost:     config.EmbedCacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("create embed cache: %w", err)
		}
		s.embedCache = cache
	}

	return s, nil
}

// AddFact inserts a fact for the user. Confidence is expected to be within
// [0, 1]; that is the caller's contract and is not re-validated here.
func (s *Service) AddFact(ctx context.Context, userID string, fact Fact) (Fact, error) {
	if fact.ID == "" {
		fact.ID = uuid.New().String()
	}
	fact.UserID = userID
	if fact.CreatedAt.IsZero() {
		fact.CreatedAt = time.Now()
	}

	if err := s.facts.Insert(ctx, fact); err != nil {
		return Fact{}, fmt.Errorf("insert fact: %w", err)
	}
	return fact, nil
}

// GetFacts returns the user's facts in insertion order, optionally filtered
// by category (empty = all).
func (s *Service) GetFacts(ctx context.Context, userID string, category FactCategory) ([]Fact, error) {
	facts, err := s.facts.ListByUser(ctx, userID, category)
	if err != nil {
		return nil, fmt.Errorf("list facts: %w", err)
	}
	return facts, nil
}

// AddMemory embeds content synchronously and persists the full record. If
// embedding fails the whole operation fails: no partial write, no retry.
func (s *Service) AddMemory(ctx context.Context, userID, content string, importance int, metadata map[string]interface{}) (Record, error) {
	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return Record{}, fmt.Errorf("embed memory: %w", err)
	}

	rec := Record{
		ID:         uuid.New().String(),
		UserID:     userID,
		Content:    content,
		Embedding:  embedding,
		Importance: importance,
		CreatedAt:  time.Now(),
		Metadata:   metadata,
	}

	if err := s.vectors.Store(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("store memory: %w", err)
	}

	return rec, nil
}

// SearchMemories embeds the query and returns the user's records with
// similarity >= threshold, ordered by similarity descending, capped at
// limit. Other users' records are never returned.
func (s *Service) SearchMemories(ctx context.Context, userID, query string, limit int, threshold float32) ([]SearchResult, error) {
	if limit <= 0 {
		limit = s.config.DefaultLimit
	}
	if threshold < 0 {
		threshold = s.config.DefaultThreshold
	}

	embedding, err := s.queryEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.vectors.Query(ctx, userID, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}

	// Stores return results highest-first, but re-sort to keep the
	// ordering guarantee independent of the backend.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	filtered := results[:0]
	for _, r := range results {
		if r.Similarity >= threshold {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	log.Printf("[MEMORY] Search for user=%s returned %d/%d above threshold %.2f",
		userID, len(filtered), len(results), threshold)

	return filtered, nil
}

// queryEmbedding embeds query text, consulting the cache first. Repeated
// searches for the same text skip the Embedder call entirely.
func (s *Service) queryEmbedding(ctx context.Context, query string) ([]float32, error) {
	if s.embedCache != nil {
		if cached, ok := s.embedCache.Get(query); ok {
			if emb, ok := cached.([]float32); ok {
				return emb, nil
			}
		}
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.embedCache != nil {
		s.embedCache.Set(query, embedding, 1)
	}
	return embedding, nil
}

// Close releases the vector store and cache resources.
func (s *Service) Close() error {
	if s.embedCache != nil {
		s.embedCache.Close()
	}
	return s.vectors.Close()
}
