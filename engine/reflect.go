package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lazyeo/careermatch-ai-sub000/memory"
)

const (
	defaultReflectWorkers = 2
	defaultReflectQueue   = 64
	defaultReflectTimeout = 30 * time.Second

	// reflectContentPrefix bounds how much assistant text goes into the
	// stored summary.
	reflectContentPrefix = 500
)

// reflection is one queued turn summary.
type reflection struct {
	userID           string
	sessionID        string
	userMessage      string
	assistantContent string
}

// Reflector persists completed turns into memory without delaying the
// response path. It is a bounded worker pool rather than bare goroutines:
// shutdown drains queued work instead of dropping it, and a flood of chat
// calls cannot create unbounded background writes — when the queue is full
// the turn is dropped and logged.
//
// Failures here are logged and never surfaced to the caller.
type Reflector struct {
	store   *memory.Service
	jobs    chan reflection
	wg      sync.WaitGroup
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

// NewReflector starts the worker pool. workers and queueSize fall back to
// defaults when <= 0.
func NewReflector(store *memory.Service, workers, queueSize int) *Reflector {
	if workers <= 0 {
		workers = defaultReflectWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultReflectQueue
	}

	r := &Reflector{
		store:   store,
		jobs:    make(chan reflection, queueSize),
		timeout: defaultReflectTimeout,
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

// Schedule enqueues a turn for persistence. It never blocks: when the
// queue is full the turn is dropped with a log line.
func (r *Reflector) Schedule(userID, sessionID, userMessage, assistantContent string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		log.Printf("[REFLECT] Dropping turn for user=%s: reflector closed", userID)
		return
	}

	select {
	case r.jobs <- reflection{userID, sessionID, userMessage, assistantContent}:
	default:
		log.Printf("[REFLECT] Dropping turn for user=%s: queue full", userID)
	}
}

// Close stops accepting new turns and waits for queued work to drain.
func (r *Reflector) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.jobs)
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reflector) worker() {
	defer r.wg.Done()
	for job := range r.jobs {
		r.record(job)
	}
}

func (r *Reflector) record(job reflection) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	summary := summarizeTurn(job.userMessage, job.assistantContent)
	_, err := r.store.AddMemory(ctx, job.userID, summary, 1, map[string]interface{}{
		"session_id": job.sessionID,
	})
	if err != nil {
		log.Printf("[REFLECT] Failed to record turn for user=%s: %v", job.userID, err)
		return
	}
	log.Printf("[REFLECT] Recorded turn for user=%s session=%s", job.userID, job.sessionID)
}

// summarizeTurn builds the short episodic summary stored for a turn: the
// user message plus a truncated prefix of the assistant content.
func summarizeTurn(userMessage, assistantContent string) string {
	return fmt.Sprintf("User: %s\nAssistant: %s",
		userMessage, truncate(assistantContent, reflectContentPrefix))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
