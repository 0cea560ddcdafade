package repository

import (
	"context"
	"errors"

	"paperapi/internal/model"
)

var (
	// ErrNotFound is returned by point operations when no record exists under the given key.
	ErrNotFound = errors.New("paper not found")
	// ErrConflict is returned by Create when a record with the same id and partition key exists.
	ErrConflict = errors.New("paper already exists")
)

// AnyPartition passed as a partition key to Delete matches whichever partition holds the id.
const AnyPartition = ""

// PaperStore is the document store holding paper metadata.
// Records are addressed by (id, partition key); the partition key normally equals the id
// but older records were written under other keys.
// No business logic here, only persistence operations.
type PaperStore interface {
	// Read returns the record stored under exactly (id, partitionKey) or ErrNotFound.
	Read(ctx context.Context, id, partitionKey string) (*model.Paper, error)

	// Query returns every record matching the filter, newest upload first.
	Query(ctx context.Context, f Filter) ([]model.Paper, error)

	// Delete removes the record stored under (id, partitionKey) or returns ErrNotFound.
	// AnyPartition removes the id regardless of its partition.
	Delete(ctx context.Context, id, partitionKey string) error

	// Create inserts a new record and returns the stored copy.
	Create(ctx context.Context, p *model.Paper) (*model.Paper, error)

	// Replace overwrites an existing record identified by its id and partition key.
	Replace(ctx context.Context, p *model.Paper) (*model.Paper, error)

	// Ping reports whether the backing database is reachable.
	Ping(ctx context.Context) error
}

// Filter restricts a Query. Set fields are ANDed; empty fields are ignored.
type Filter struct {
	ID         string
	IDContains string
	ExamType   string
	Year       string
}
