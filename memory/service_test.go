package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lazyeo/careermatch-ai-sub000/memory"
	"github.com/lazyeo/careermatch-ai-sub000/memory/embedder/mock"
)

// memFactStore keeps facts in insertion order.
type memFactStore struct {
	facts []memory.Fact
}

func (s *memFactStore) Insert(ctx context.Context, fact memory.Fact) error {
	s.facts = append(s.facts, fact)
	return nil
}

func (s *memFactStore) ListByUser(ctx context.Context, userID string, category memory.FactCategory) ([]memory.Fact, error) {
	var out []memory.Fact
	for _, f := range s.facts {
		if f.UserID != userID {
			continue
		}
		if category != "" && f.Category != category {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// scriptedVectorStore returns canned search results and records stores.
type scriptedVectorStore struct {
	stored  []memory.Record
	results []memory.SearchResult
	failPut bool
}

func (s *scriptedVectorStore) Store(ctx context.Context, rec memory.Record) error {
	if s.failPut {
		return errors.New("store unavailable")
	}
	s.stored = append(s.stored, rec)
	return nil
}

func (s *scriptedVectorStore) Query(ctx context.Context, userID string, embedding []float32, limit int) ([]memory.SearchResult, error) {
	return s.results, nil
}

func (s *scriptedVectorStore) Close() error { return nil }

// countingEmbedder counts Embed calls, delegating to the mock embedder.
type countingEmbedder struct {
	inner memory.Embedder
	calls int
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	return e.inner.Embed(ctx, text)
}

func (e *countingEmbedder) Dimensions() int { return e.inner.Dimensions() }

type errEmbedder struct{}

func (errEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("embed failed")
}
func (errEmbedder) Dimensions() int { return 8 }

func newService(t *testing.T, facts memory.FactStore, vectors memory.VectorStore, emb memory.Embedder, cfg *memory.Config) *memory.Service {
	t.Helper()
	if facts == nil {
		facts = &memFactStore{}
	}
	if vectors == nil {
		vectors = &scriptedVectorStore{}
	}
	if emb == nil {
		emb = mock.New(16)
	}
	svc, err := memory.NewService(facts, vectors, emb, cfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func result(sim float32, content string) memory.SearchResult {
	return memory.SearchResult{
		Record:     memory.Record{UserID: "u1", Content: content},
		Similarity: sim,
	}
}

func TestAddFact_AssignsIDAndTimestamp(t *testing.T) {
	store := &memFactStore{}
	svc := newService(t, store, nil, nil, nil)

	fact, err := svc.AddFact(context.Background(), "u1", memory.Fact{
		Category:   memory.CategoryPreference,
		Content:    "prefers remote roles",
		Confidence: 0.9,
	})
	if err != nil {
		t.Fatalf("AddFact: %v", err)
	}
	if fact.ID == "" {
		t.Error("ID not assigned")
	}
	if fact.UserID != "u1" {
		t.Errorf("user = %q", fact.UserID)
	}
	if fact.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if len(store.facts) != 1 {
		t.Fatalf("stored = %d facts", len(store.facts))
	}
}

func TestGetFacts_FiltersByCategory(t *testing.T) {
	store := &memFactStore{}
	svc := newService(t, store, nil, nil, nil)
	ctx := context.Background()

	for _, f := range []memory.Fact{
		{Category: memory.CategoryPreference, Content: "remote only"},
		{Category: memory.CategorySkill, Content: "knows Go"},
		{Category: memory.CategoryPreference, Content: "no startups"},
	} {
		if _, err := svc.AddFact(ctx, "u1", f); err != nil {
			t.Fatalf("AddFact: %v", err)
		}
	}
	if _, err := svc.AddFact(ctx, "u2", memory.Fact{Category: memory.CategoryPreference, Content: "other user"}); err != nil {
		t.Fatalf("AddFact: %v", err)
	}

	all, err := svc.GetFacts(ctx, "u1", "")
	if err != nil {
		t.Fatalf("GetFacts: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all facts = %d, want 3", len(all))
	}

	prefs, err := svc.GetFacts(ctx, "u1", memory.CategoryPreference)
	if err != nil {
		t.Fatalf("GetFacts: %v", err)
	}
	if len(prefs) != 2 {
		t.Fatalf("preferences = %d, want 2", len(prefs))
	}
	if prefs[0].Content != "remote only" || prefs[1].Content != "no startups" {
		t.Errorf("order = %q, %q", prefs[0].Content, prefs[1].Content)
	}
}

func TestAddMemory_EmbedsBeforeStoring(t *testing.T) {
	vectors := &scriptedVectorStore{}
	svc := newService(t, nil, vectors, mock.New(16), nil)

	rec, err := svc.AddMemory(context.Background(), "u1", "looked at Go roles", 2, map[string]interface{}{"session_id": "s1"})
	if err != nil {
		t.Fatalf("AddMemory: %v", err)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Error("record not populated")
	}
	if len(rec.Embedding) != 16 {
		t.Errorf("embedding dims = %d", len(rec.Embedding))
	}
	if len(vectors.stored) != 1 {
		t.Fatalf("stored = %d", len(vectors.stored))
	}
}

func TestAddMemory_EmbedFailureMeansNoWrite(t *testing.T) {
	vectors := &scriptedVectorStore{}
	svc := newService(t, nil, vectors, errEmbedder{}, nil)

	_, err := svc.AddMemory(context.Background(), "u1", "content", 1, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(vectors.stored) != 0 {
		t.Error("embed failure must not leave a partial record")
	}
}

func TestAddMemory_StoreFailurePropagates(t *testing.T) {
	vectors := &scriptedVectorStore{failPut: true}
	svc := newService(t, nil, vectors, nil, nil)

	_, err := svc.AddMemory(context.Background(), "u1", "content", 1, nil)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSearchMemories_ThresholdAndOrder(t *testing.T) {
	vectors := &scriptedVectorStore{results: []memory.SearchResult{
		result(0.65, "below threshold"),
		result(0.92, "best match"),
		result(0.74, "ok match"),
	}}
	svc := newService(t, nil, vectors, nil, nil)

	got, err := svc.SearchMemories(context.Background(), "u1", "go jobs", 5, 0.7)
	if err != nil {
		t.Fatalf("SearchMemories: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	if got[0].Record.Content != "best match" || got[1].Record.Content != "ok match" {
		t.Errorf("order = %q, %q", got[0].Record.Content, got[1].Record.Content)
	}
}

func TestSearchMemories_LimitCapsResults(t *testing.T) {
	vectors := &scriptedVectorStore{results: []memory.SearchResult{
		result(0.9, "a"),
		result(0.89, "b"),
		result(0.88, "c"),
	}}
	svc := newService(t, nil, vectors, nil, nil)

	got, err := svc.SearchMemories(context.Background(), "u1", "q", 2, 0.5)
	if err != nil {
		t.Fatalf("SearchMemories: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
}

func TestSearchMemories_DefaultsApplied(t *testing.T) {
	vectors := &scriptedVectorStore{results: []memory.SearchResult{
		result(0.8, "kept"),
		result(0.3, "dropped by default threshold"),
	}}
	svc := newService(t, nil, vectors, nil, &memory.Config{
		DefaultLimit:     1,
		DefaultThreshold: 0.7,
	})

	got, err := svc.SearchMemories(context.Background(), "u1", "q", 0, -1)
	if err != nil {
		t.Fatalf("SearchMemories: %v", err)
	}
	if len(got) != 1 || got[0].Record.Content != "kept" {
		t.Fatalf("results = %v", got)
	}
}

func TestSearchMemories_CachesQueryEmbedding(t *testing.T) {
	emb := &countingEmbedder{inner: mock.New(16)}
	vectors := &scriptedVectorStore{}
	svc := newService(t, nil, vectors, emb, &memory.Config{
		DefaultLimit:     5,
		DefaultThreshold: 0.7,
		EmbedCacheSize:   64,
	})
	ctx := context.Background()

	// Ristretto admits writes asynchronously on a background goroutine, so
	// the first repeat may still miss. Sleep between polls to let the set
	// buffer drain, then require a search with no extra Embed call.
	for i := 0; i < 50; i++ {
		time.Sleep(2 * time.Millisecond)
		before := emb.calls
		if _, err := svc.SearchMemories(ctx, "u1", "same query", 5, 0.7); err != nil {
			t.Fatalf("SearchMemories: %v", err)
		}
		if emb.calls == before {
			return
		}
	}
	t.Errorf("query embedding never cached: %d embed calls", emb.calls)
}

func TestMockEmbedder_DeterministicUnitVectors(t *testing.T) {
	emb := mock.New(32)
	ctx := context.Background()

	a1, err := emb.Embed(ctx, "golang backend roles")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	a2, _ := emb.Embed(ctx, "golang backend roles")
	b, _ := emb.Embed(ctx, "completely different text")

	var dot float64
	for i := range a1 {
		if a1[i] != a2[i] {
			t.Fatal("embedding not deterministic")
		}
		dot += float64(a1[i]) * float64(a1[i])
	}
	if dot < 0.99 || dot > 1.01 {
		t.Errorf("norm^2 = %f, want 1", dot)
	}

	same := true
	for i := range a1 {
		if a1[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts produced identical embeddings")
	}
}
