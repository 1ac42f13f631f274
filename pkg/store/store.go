// Package store persists document snapshots for the server and CLI.
//
// A [Snapshot] is a document's name, parse mode and wrapped JSON payload
// (the value plus its __meta conversion metadata), so a restored document
// can still be exported back to source. Implementations:
//   - [MemoryStore]: in-process map for development and tests
//   - [FileStore]: one JSON file per snapshot for CLI use
//   - [MongoStore]: MongoDB collection for multi-instance servers
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/visualizeme/pkg/errors"
)

// Snapshot is a stored document.
type Snapshot struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Mode      string    `json:"mode" bson:"mode"`
	Payload   []byte    `json:"payload" bson:"payload"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Get returns the snapshot with id, or a DOCUMENT_NOT_FOUND error.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Put inserts or replaces a snapshot. An empty ID is assigned a new one.
	Put(ctx context.Context, s *Snapshot) error

	// Delete removes a snapshot. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all snapshots, most recently updated first.
	List(ctx context.Context) ([]*Snapshot, error)

	// Close releases backend resources.
	Close() error
}

// NewID returns a fresh snapshot id.
func NewID() string { return uuid.NewString() }

// ValidateID rejects ids that could escape a storage namespace.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid document id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
}

// prepare assigns an id and timestamps before a write.
func prepare(s *Snapshot, now time.Time) {
	if s.ID == "" {
		s.ID = NewID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}
