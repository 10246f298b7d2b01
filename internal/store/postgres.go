package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/keonwoo-dev/todo-mcp/internal/model"
)

// PostgresStore implements Store on top of Postgres. Ids are minted from a
// single-row counter table so the todo-N sequence survives restarts and is
// never reused, matching FileStore. Durability per mutation comes from the
// transaction commit instead of a file rename.
type PostgresStore struct {
	db *sql.DB
}

// NewDB opens a Postgres connection and verifies it with a ping.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS todos (
	seq       BIGSERIAL PRIMARY KEY,
	id        TEXT NOT NULL UNIQUE,
	title     TEXT NOT NULL,
	completed BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS todo_meta (
	singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
	next_id   BIGINT NOT NULL
);
INSERT INTO todo_meta (singleton, next_id) VALUES (TRUE, 1)
ON CONFLICT DO NOTHING;`

// NewPostgres ensures the schema exists and returns the store.
func NewPostgres(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]model.Todo, error) {
	query := `SELECT id, title, completed FROM todos ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan todo row: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}
	return todos, nil
}

func (s *PostgresStore) Add(ctx context.Context, title string) (model.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var n int
	mint := `UPDATE todo_meta SET next_id = next_id + 1 RETURNING next_id - 1`
	if err := tx.QueryRowContext(ctx, mint).Scan(&n); err != nil {
		return model.Todo{}, fmt.Errorf("failed to mint id: %w", err)
	}

	todo := model.Todo{ID: model.TodoID(n), Title: title}
	insert := `INSERT INTO todos (id, title) VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, insert, todo.ID, todo.Title); err != nil {
		return model.Todo{}, fmt.Errorf("failed to insert todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Todo{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return todo, nil
}

func (s *PostgresStore) CompleteByID(ctx context.Context, id string) (model.Todo, error) {
	query := `
		UPDATE todos SET completed = TRUE
		WHERE id = $1
		RETURNING id, title, completed`

	return s.scanOne(s.db.QueryRowContext(ctx, query, id), ErrNotFound)
}

func (s *PostgresStore) CompleteByIndex(ctx context.Context, index int) (model.Todo, int, error) {
	if index < 1 {
		return model.Todo{}, 0, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}

	query := `
		UPDATE todos SET completed = TRUE
		WHERE seq = (SELECT seq FROM todos ORDER BY seq OFFSET $1 LIMIT 1)
		RETURNING id, title, completed`

	todo, err := s.scanOne(s.db.QueryRowContext(ctx, query, index-1), ErrInvalidIndex)
	if err != nil {
		return model.Todo{}, 0, err
	}
	return todo, index, nil
}

func (s *PostgresStore) CompleteByTitle(ctx context.Context, query string) (model.Todo, error) {
	// POSITION instead of LIKE so the query needs no pattern escaping.
	stmt := `
		UPDATE todos SET completed = TRUE
		WHERE seq = (
			SELECT seq FROM todos
			WHERE NOT completed AND POSITION($1 IN LOWER(title)) > 0
			ORDER BY seq LIMIT 1
		)
		RETURNING id, title, completed`

	return s.scanOne(s.db.QueryRowContext(ctx, stmt, strings.ToLower(query)), ErrNotFound)
}

func (s *PostgresStore) DeleteByID(ctx context.Context, id string) (model.Todo, error) {
	query := `DELETE FROM todos WHERE id = $1 RETURNING id, title, completed`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id), ErrNotFound)
}

func (s *PostgresStore) DeleteCompleted(ctx context.Context) ([]model.Todo, error) {
	query := `DELETE FROM todos WHERE completed RETURNING seq, id, title, completed`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to delete completed todos: %w", err)
	}
	defer rows.Close()

	type removedRow struct {
		seq  int64
		todo model.Todo
	}
	var removed []removedRow
	for rows.Next() {
		var r removedRow
		if err := rows.Scan(&r.seq, &r.todo.ID, &r.todo.Title, &r.todo.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan removed row: %w", err)
		}
		removed = append(removed, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate removed todos: %w", err)
	}

	// RETURNING order is unspecified; restore display order.
	sort.Slice(removed, func(i, j int) bool { return removed[i].seq < removed[j].seq })

	todos := make([]model.Todo, len(removed))
	for i, r := range removed {
		todos[i] = r.todo
	}
	return todos, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) scanOne(row *sql.Row, missing error) (model.Todo, error) {
	var t model.Todo
	if err := row.Scan(&t.ID, &t.Title, &t.Completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, missing
		}
		return model.Todo{}, fmt.Errorf("failed to scan todo: %w", err)
	}
	return t, nil
}

// ensure compile-time interface compliance
var _ Store = (*PostgresStore)(nil)
