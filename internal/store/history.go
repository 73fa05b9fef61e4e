package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Run records one ranking computation, successful or not.
type Run struct {
	ID           uuid.UUID `json:"run_id"`
	Trigger      string    `json:"trigger"`
	StartedAt    time.Time `json:"started_at"`
	DurationMs   float64   `json:"duration_ms"`
	Candidates   int       `json:"candidates"`
	WeightSum    float64   `json:"weight_sum"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	Error        string    `json:"error,omitempty"`
	TopCandidate string    `json:"top_candidate,omitempty"`
	TopScore     *float64  `json:"top_score,omitempty"`
}

func (r Run) Failed() bool { return r.ErrorKind != "" }

// ExportRecord records one rendered report.
type ExportRecord struct {
	ID        uuid.UUID `json:"export_id"`
	Kinds     []string  `json:"kinds"`
	Format    string    `json:"format"`
	SizeBytes int       `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// History is a bounded, in-memory log. Once full, the oldest entry is dropped.
// It is never persisted.
type History[T any] struct {
	mu      sync.RWMutex
	size    int
	entries []T
}

func NewHistory[T any](size int) *History[T] {
	if size <= 0 {
		size = 1
	}
	return &History[T]{size: size, entries: make([]T, 0, size)}
}

// NewRunLog returns the session's ranking run log.
func NewRunLog(size int) *History[Run] { return NewHistory[Run](size) }

func (h *History[T]) Append(entry T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == h.size {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, entry)
}

// List returns the entries newest first.
func (h *History[T]) List() []T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]T, len(h.entries))
	for i, e := range h.entries {
		out[len(h.entries)-1-i] = e
	}
	return out
}

func (h *History[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Clear drops every entry and reports how many were removed.
func (h *History[T]) Clear() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.entries)
	h.entries = h.entries[:0]
	return n
}
