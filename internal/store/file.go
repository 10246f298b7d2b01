package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/keonwoo-dev/todo-mcp/internal/model"
)

// FileStore keeps the todo list in memory and mirrors every mutation to a
// single JSON file. Writes follow a save-then-commit discipline: the
// candidate next state is written durably first, and the in-memory state is
// swapped only after the write succeeded. A failed write therefore leaves
// the visible state exactly as of the last successful mutation.
//
// A mutex serializes all operations; the store is built for one process
// with sequential callers, not for contention.
type FileStore struct {
	mu    sync.Mutex
	path  string
	state model.State
}

// Open loads the store from path, creating the file (and parent
// directories) if it does not exist yet. A malformed file is tolerated:
// an unreadable todo list is treated as empty, and a missing or
// non-integer nextId defaults to len(todos)+1. Any filesystem error other
// than the file being absent is fatal.
func Open(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		s.state = decodeState(data)
		return s, nil
	case os.IsNotExist(err):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		s.state = model.State{Todos: []model.Todo{}, NextID: 1}
		if err := s.persist(s.state); err != nil {
			return nil, fmt.Errorf("failed to initialize %s: %w", path, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
}

// decodeState parses the persisted document leniently. Each field is
// decoded independently so a corrupt todo list does not discard a valid
// counter and vice versa.
func decodeState(data []byte) model.State {
	var doc struct {
		Todos  json.RawMessage `json:"todos"`
		NextID json.RawMessage `json:"nextId"`
	}
	_ = json.Unmarshal(data, &doc)

	var todos []model.Todo
	if err := json.Unmarshal(doc.Todos, &todos); err != nil || todos == nil {
		todos = []model.Todo{}
	}

	nextID := 0
	if err := json.Unmarshal(doc.NextID, &nextID); err != nil || nextID < 1 {
		nextID = len(todos) + 1
	}

	return model.State{Todos: todos, NextID: nextID}
}

// persist writes the candidate state durably and, on success, makes it the
// visible state. The write goes to a temp file in the same directory and
// is renamed over the backing file, so readers of the file never observe a
// partial document. Callers must hold s.mu.
func (s *FileStore) persist(next model.State) error {
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.state = next
	return nil
}

// snapshot returns a copy of the current todo list. Callers must hold s.mu.
func (s *FileStore) snapshot() []model.Todo {
	todos := make([]model.Todo, len(s.state.Todos))
	copy(todos, s.state.Todos)
	return todos
}

func (s *FileStore) List(ctx context.Context) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

func (s *FileStore) Add(ctx context.Context, title string) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo := model.Todo{
		ID:    model.TodoID(s.state.NextID),
		Title: title,
	}
	next := model.State{
		Todos:  append(s.snapshot(), todo),
		NextID: s.state.NextID + 1,
	}
	if err := s.persist(next); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

func (s *FileStore) CompleteByID(ctx context.Context, id string) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, todo := range s.state.Todos {
		if todo.ID != id {
			continue
		}
		return s.completeAt(i)
	}
	return model.Todo{}, ErrNotFound
}

func (s *FileStore) CompleteByIndex(ctx context.Context, index int) (model.Todo, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 1 || index > len(s.state.Todos) {
		return model.Todo{}, 0, fmt.Errorf("%w: %d of %d", ErrInvalidIndex, index, len(s.state.Todos))
	}
	todo, err := s.completeAt(index - 1)
	if err != nil {
		return model.Todo{}, 0, err
	}
	return todo, index, nil
}

func (s *FileStore) CompleteByTitle(ctx context.Context, query string) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(query)
	for i, todo := range s.state.Todos {
		if todo.Completed || !strings.Contains(strings.ToLower(todo.Title), needle) {
			continue
		}
		return s.completeAt(i)
	}
	return model.Todo{}, ErrNotFound
}

// completeAt marks the todo at position i completed. Completing an
// already-completed todo is a successful no-op with no write. Callers
// must hold s.mu.
func (s *FileStore) completeAt(i int) (model.Todo, error) {
	if s.state.Todos[i].Completed {
		return s.state.Todos[i], nil
	}

	todos := s.snapshot()
	todos[i].Completed = true
	next := model.State{Todos: todos, NextID: s.state.NextID}
	if err := s.persist(next); err != nil {
		return model.Todo{}, err
	}
	return todos[i], nil
}

func (s *FileStore) DeleteByID(ctx context.Context, id string) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, todo := range s.state.Todos {
		if todo.ID != id {
			continue
		}
		todos := append(s.snapshot()[:i], s.state.Todos[i+1:]...)
		next := model.State{Todos: todos, NextID: s.state.NextID}
		if err := s.persist(next); err != nil {
			return model.Todo{}, err
		}
		return todo, nil
	}
	return model.Todo{}, ErrNotFound
}

func (s *FileStore) DeleteCompleted(ctx context.Context) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]model.Todo, 0, len(s.state.Todos))
	removed := []model.Todo{}
	for _, todo := range s.state.Todos {
		if todo.Completed {
			removed = append(removed, todo)
		} else {
			kept = append(kept, todo)
		}
	}
	if len(removed) == 0 {
		return removed, nil
	}

	next := model.State{Todos: kept, NextID: s.state.NextID}
	if err := s.persist(next); err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *FileStore) Close() error {
	return nil
}

// ensure compile-time interface compliance
var _ Store = (*FileStore)(nil)
