package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/keonwoo-dev/todo-mcp/internal/model"
	"github.com/keonwoo-dev/todo-mcp/internal/store"
)

// TodoService fronts a store.Store for both the REST handlers and the MCP
// tools. It owns the validation the store does not do (empty titles, empty
// queries) and translates store errors into the service's own sentinels.
type TodoService struct {
	store store.Store
}

func NewTodoService(s store.Store) *TodoService {
	return &TodoService{store: s}
}

func (s *TodoService) List(ctx context.Context) ([]model.Todo, error) {
	todos, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

func (s *TodoService) Add(ctx context.Context, title string) (model.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Todo{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	todo, err := s.store.Add(ctx, title)
	if err != nil {
		return model.Todo{}, translateStoreError("failed to add todo", err)
	}
	return todo, nil
}

func (s *TodoService) CompleteByID(ctx context.Context, id string) (model.Todo, error) {
	if id == "" {
		return model.Todo{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}

	todo, err := s.store.CompleteByID(ctx, id)
	if err != nil {
		return model.Todo{}, translateStoreError("failed to complete todo", err)
	}
	return todo, nil
}

func (s *TodoService) CompleteByIndex(ctx context.Context, index int) (model.Todo, int, error) {
	todo, resolved, err := s.store.CompleteByIndex(ctx, index)
	if err != nil {
		return model.Todo{}, 0, translateStoreError("failed to complete todo", err)
	}
	return todo, resolved, nil
}

func (s *TodoService) CompleteByTitle(ctx context.Context, query string) (model.Todo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.Todo{}, fmt.Errorf("%w: title query is required", ErrInvalidInput)
	}

	todo, err := s.store.CompleteByTitle(ctx, query)
	if err != nil {
		return model.Todo{}, translateStoreError("failed to complete todo", err)
	}
	return todo, nil
}

func (s *TodoService) DeleteByID(ctx context.Context, id string) (model.Todo, error) {
	if id == "" {
		return model.Todo{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}

	todo, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return model.Todo{}, translateStoreError("failed to delete todo", err)
	}
	return todo, nil
}

func (s *TodoService) DeleteCompleted(ctx context.Context) ([]model.Todo, error) {
	removed, err := s.store.DeleteCompleted(ctx)
	if err != nil {
		return nil, translateStoreError("failed to clear completed todos", err)
	}
	return removed, nil
}

// translateStoreError maps store sentinels to service sentinels, keeping
// anything unexpected wrapped with context.
func translateStoreError(msg string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrInvalidIndex):
		return fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	case errors.Is(err, store.ErrPersistence):
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
