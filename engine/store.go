/*
store.go - Persistence interface for the shared document

PURPOSE:
  Defines the interface between the engine and whatever holds the
  state. The whole application state is one Document; every operation
  is a whole-document read-modify-write. Different implementations can
  use SQLite or in-memory storage.

CONSISTENCY CONTRACT:
  Single writer, last write wins. There is no locking, versioning, or
  transactional isolation across Load/Save pairs: concurrent writers
  may overwrite each other's changes. This is the accepted contract of
  the system, not a defect the store tries to hide.

IMPLEMENTATIONS:
  - store/sqlite: durable single-row document + snapshot history
  - engine/store: in-memory, for tests and dev

SEE ALSO:
  - types.go: Document definition
*/
package engine

import "context"

// Repository loads and saves the shared document.
// The engine never performs I/O itself; it consumes plain records
// loaded through this interface and returns plain results.
type Repository interface {
	// Load returns the current document. Implementations return an
	// empty document, not an error, when nothing has been saved yet.
	Load(ctx context.Context) (*Document, error)

	// Save replaces the stored document. Last write wins.
	Save(ctx context.Context, doc *Document) error
}
