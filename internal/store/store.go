// Package store holds the todo persistence layer. The canonical backend is
// FileStore, a JSON file with a save-then-commit write discipline;
// PostgresStore provides the same operations on top of Postgres.
package store

import (
	"context"
	"errors"

	"github.com/keonwoo-dev/todo-mcp/internal/model"
)

var (
	// ErrNotFound is returned when no record matches the given id or
	// title query.
	ErrNotFound = errors.New("todo not found")

	// ErrInvalidIndex is returned when a 1-based position falls outside
	// the current list.
	ErrInvalidIndex = errors.New("index out of range")

	// ErrPersistence is returned when the durable write failed. The
	// in-memory state is guaranteed unchanged.
	ErrPersistence = errors.New("persistence failed")
)

// Store is the operation surface consumed by the service layer. Index
// arguments are 1-based positions into the current display order.
type Store interface {
	List(ctx context.Context) ([]model.Todo, error)
	Add(ctx context.Context, title string) (model.Todo, error)
	CompleteByID(ctx context.Context, id string) (model.Todo, error)
	CompleteByIndex(ctx context.Context, index int) (model.Todo, int, error)
	CompleteByTitle(ctx context.Context, query string) (model.Todo, error)
	DeleteByID(ctx context.Context, id string) (model.Todo, error)
	DeleteCompleted(ctx context.Context) ([]model.Todo, error)
	Close() error
}
