package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/keonwoo-dev/todo-mcp/internal/model"
	"github.com/keonwoo-dev/todo-mcp/internal/service"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// ServeHTTP routes /api/v1/todos and its subpaths:
//
//	GET    /api/v1/todos                 list
//	POST   /api/v1/todos                 add
//	POST   /api/v1/todos/complete        complete by id, index or title
//	POST   /api/v1/todos/{id}/complete   complete by id
//	DELETE /api/v1/todos/{id}            delete
//	DELETE /api/v1/todos/completed       delete all completed
func (h *TodoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/todos")
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	head := parts[0]
	subPath := ""
	if len(parts) > 1 {
		subPath = parts[1]
	}

	// Reserved words take precedence over ids; no minted id collides with
	// them ("todo-" prefix).
	switch {
	case head == "" && subPath == "":
		h.handleCollection(w, r)
	case head == "complete" && subPath == "":
		h.handleComplete(w, r)
	case head == "completed" && subPath == "":
		h.handleClearCompleted(w, r)
	case subPath == "complete":
		h.handleCompleteByID(w, r, head)
	case subPath == "":
		h.handleItem(w, r, head)
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "unknown path")
	}
}

func (h *TodoHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleAdd(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

func (h *TodoHandler) handleList(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"todos": todos})
}

type addTodoRequest struct {
	Title string `json:"title"`
}

func (h *TodoHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	todo, err := h.svc.Add(r.Context(), req.Title)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, todo)
}

type completeTodoRequest struct {
	ID    *string `json:"id,omitempty"`
	Index *int    `json:"index,omitempty"`
	Title *string `json:"title,omitempty"`
}

type completeTodoResponse struct {
	Todo  model.Todo `json:"todo"`
	Index int        `json:"index,omitempty"`
}

func (h *TodoHandler) handleComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	var req completeTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	selectors := 0
	for _, set := range []bool{req.ID != nil, req.Index != nil, req.Title != nil} {
		if set {
			selectors++
		}
	}
	if selectors != 1 {
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "exactly one of id, index or title is required")
		return
	}

	switch {
	case req.ID != nil:
		todo, err := h.svc.CompleteByID(r.Context(), *req.ID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, completeTodoResponse{Todo: todo})
	case req.Index != nil:
		todo, index, err := h.svc.CompleteByIndex(r.Context(), *req.Index)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, completeTodoResponse{Todo: todo, Index: index})
	default:
		todo, err := h.svc.CompleteByTitle(r.Context(), *req.Title)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, completeTodoResponse{Todo: todo})
	}
}

func (h *TodoHandler) handleCompleteByID(w http.ResponseWriter, r *http.Request, todoID string) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	todo, err := h.svc.CompleteByID(r.Context(), todoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleItem(w http.ResponseWriter, r *http.Request, todoID string) {
	if r.Method != http.MethodDelete {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	todo, err := h.svc.DeleteByID(r.Context(), todoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	removed, err := h.svc.DeleteCompleted(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "todo not found")
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrInvalidIndex):
		WriteError(w, http.StatusBadRequest, "INVALID_INDEX", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
