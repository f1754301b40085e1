package chromem_test

import (
	"context"
	"testing"
	"time"

	"github.com/lazyeo/careermatch-ai-sub000/memory"
	"github.com/lazyeo/careermatch-ai-sub000/memory/embedder/mock"
	"github.com/lazyeo/careermatch-ai-sub000/memory/store/chromem"
)

func record(t *testing.T, emb memory.Embedder, id, userID, content string) memory.Record {
	t.Helper()
	vec, err := emb.Embed(context.Background(), content)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	return memory.Record{
		ID:         id,
		UserID:     userID,
		Content:    content,
		Embedding:  vec,
		Importance: 1,
		CreatedAt:  time.Now(),
		Metadata:   map[string]interface{}{"session_id": "s1"},
	}
}

func TestStoreAndQueryRoundTrip(t *testing.T) {
	store, err := chromem.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer store.Close()

	emb := mock.New(32)
	ctx := context.Background()

	if err := store.Store(ctx, record(t, emb, "m1", "u1", "looked at Go roles in Berlin")); err != nil {
		t.Fatalf("Store: %v", err)
	}

	// Identical text embeds identically, so similarity is ~1.
	query, _ := emb.Embed(ctx, "looked at Go roles in Berlin")
	results, err := store.Query(ctx, "u1", query, 5)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	got := results[0]
	if got.Record.ID != "m1" || got.Record.Content != "looked at Go roles in Berlin" {
		t.Errorf("record = %+v", got.Record)
	}
	if got.Similarity < 0.99 {
		t.Errorf("similarity = %f, want ~1", got.Similarity)
	}
	if got.Record.Importance != 1 {
		t.Errorf("importance = %d", got.Record.Importance)
	}
	if got.Record.Metadata["session_id"] != "s1" {
		t.Errorf("metadata = %v", got.Record.Metadata)
	}
}

func TestQueryNeverCrossesUsers(t *testing.T) {
	store, err := chromem.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer store.Close()

	emb := mock.New(32)
	ctx := context.Background()

	if err := store.Store(ctx, record(t, emb, "m1", "u1", "private note for u1")); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := store.Store(ctx, record(t, emb, "m2", "u2", "private note for u2")); err != nil {
		t.Fatalf("Store: %v", err)
	}

	query, _ := emb.Embed(ctx, "private note for u1")
	results, err := store.Query(ctx, "u2", query, 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	for _, r := range results {
		if r.Record.UserID != "u2" {
			t.Fatalf("leaked record %q from user %q", r.Record.ID, r.Record.UserID)
		}
	}
}

func TestQueryEmptyCollection(t *testing.T) {
	store, err := chromem.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer store.Close()

	emb := mock.New(32)
	query, _ := emb.Embed(context.Background(), "anything")

	results, err := store.Query(context.Background(), "nobody", query, 5)
	if err != nil {
		t.Fatalf("Query on empty collection: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestQueryLimitLargerThanCollection(t *testing.T) {
	store, err := chromem.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer store.Close()

	emb := mock.New(32)
	ctx := context.Background()

	if err := store.Store(ctx, record(t, emb, "m1", "u1", "only record")); err != nil {
		t.Fatalf("Store: %v", err)
	}

	query, _ := emb.Embed(ctx, "only record")
	results, err := store.Query(ctx, "u1", query, 50)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("results = %d, want 1", len(results))
	}
}
