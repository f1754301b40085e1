// Package memory persists what the agent knows about a user.
//
// Two kinds of records are kept:
//   - Fact: durable, structured, low-volume beliefs (skills, goals,
//     constraints). Stored relationally and read back by category.
//   - Record: embedded free-text snippets of past interaction, retrieved
//     by vector similarity to ground the agent's context.
//
// Architecture:
//   - FactStore: relational backend (postgres for production, fakes in tests)
//   - VectorStore: embedding storage + nearest-neighbor search
//     (chromem-go embedded store for local use)
//   - Embedder: text-to-vector conversion (OpenAI API, local ONNX, mock)
//   - Service: ties the three together and owns the retrieval semantics
//     (user scoping, similarity threshold, top-k)
//
// All operations are fail-fast: no retries or backoff live in this layer.
// Retry policy belongs to the caller.
package memory
