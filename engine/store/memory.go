// Package store provides Repository implementations.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/harborline/deploy-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu  sync.RWMutex
	doc *engine.Document
}

func NewMemory() *Memory {
	return &Memory{doc: engine.NewDocument()}
}

// NewMemoryWith seeds the store with an initial document.
func NewMemoryWith(doc *engine.Document) *Memory {
	m := NewMemory()
	if doc != nil {
		m.doc = clone(doc)
	}
	return m
}

// Load returns a deep copy so callers can mutate freely before Save.
func (m *Memory) Load(_ context.Context) (*engine.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.doc), nil
}

// Save replaces the stored document. Last write wins.
func (m *Memory) Save(_ context.Context, doc *engine.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = clone(doc)
	return nil
}

// clone deep-copies via JSON. The document is JSON-shaped by design, so
// this is exact, and it keeps the copy logic from drifting as fields
// are added.
func clone(doc *engine.Document) *engine.Document {
	b, err := json.Marshal(doc)
	if err != nil {
		// Document contains only marshalable fields; treat as invariant.
		panic(err)
	}
	out := engine.NewDocument()
	if err := json.Unmarshal(b, out); err != nil {
		panic(err)
	}
	if out.BillingState == nil {
		out.BillingState = make(map[string]engine.BillingItemState)
	}
	if out.Pricing == nil {
		out.Pricing = make(map[string]engine.RateCard)
	}
	return out
}
