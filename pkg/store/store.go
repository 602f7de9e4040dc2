// Package store provides persistent storage for mind-map documents.
//
// The Store interface is implemented by several backends:
//   - memory: in-process storage for development and testing
//   - file: a directory of JSON documents for CLI usage
//   - sqlite: single-file database for desktop deployments
//   - mongo: document database for server deployments
//
// All backends key documents by their ID and store the full document,
// including layout locations, styling, and image attachments.
package store

import (
	"context"
	"errors"

	"github.com/mindgrid/mindgrid/pkg/document"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrMissingID is returned by Put when the document has no ID.
	ErrMissingID = errors.New("document has no ID")
)

// Store is the interface for document storage backends.
type Store interface {
	// Get retrieves a document by ID. Returns ErrNotFound if it does not
	// exist.
	Get(ctx context.Context, id string) (*document.Document, error)

	// Put stores a document, replacing any existing document with the
	// same ID.
	Put(ctx context.Context, doc *document.Document) error

	// Delete removes a document. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored documents.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}
