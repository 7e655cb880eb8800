package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasklens/server/internal/application/auth"
	"github.com/tasklens/server/internal/application/tasks"
	"github.com/tasklens/server/internal/domain"
	"github.com/tasklens/server/internal/filterstate"
	"github.com/tasklens/server/internal/http/response"
)

// ListTasks handles the discovery query.
// GET /v1/tasks?q=&sort_by=&order=&priority=&category=
//
// Criteria parsing never rejects the request: malformed or unknown
// parameters degrade field-by-field to defaults, so stale shared URLs
// still render a view instead of an error.
func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing authenticated owner")
		return
	}

	criteria := domain.ParseCriteria(criteriaParams(r.URL.Query()))

	result, err := s.taskService.Discover(r.Context(), ownerID, criteria)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	taskDTOs := make([]TaskDTO, len(result))
	for i, task := range result {
		taskDTOs[i] = MapTaskToDTO(task)
	}

	response.OK(w, ListTasksResponse{
		Tasks:      taskDTOs,
		Total:      len(taskDTOs),
		EmptyState: filterstate.ClassifyEmpty(criteria, len(taskDTOs)),
	})
}

// CreateTask handles task creation.
// POST /v1/tasks
func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing authenticated owner")
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	params := tasks.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Category:    req.Category,
	}
	if req.Priority != nil {
		priority, err := domain.NewTaskPriority(*req.Priority)
		if err != nil {
			response.FromDomainError(w, r, err)
			return
		}
		params.Priority = &priority
	}

	task, err := s.taskService.Create(r.Context(), ownerID, params)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, MapTaskToDTO(*task))
}

// GetTask returns a single owned task.
// GET /v1/tasks/{id}
func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing authenticated owner")
		return
	}

	task, err := s.taskService.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, MapTaskToDTO(*task))
}

// UpdateTask applies a partial update to an owned task.
// PATCH /v1/tasks/{id}
func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing authenticated owner")
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	params := domain.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		Category:    req.Category,
	}
	if req.Priority != nil {
		priority, err := domain.NewTaskPriority(*req.Priority)
		if err != nil {
			response.FromDomainError(w, r, err)
			return
		}
		params.Priority = &priority
	}

	task, err := s.taskService.Update(r.Context(), ownerID, chi.URLParam(r, "id"), params)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, MapTaskToDTO(*task))
}

// DeleteTask removes an owned task.
// DELETE /v1/tasks/{id}
func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing authenticated owner")
		return
	}

	if err := s.taskService.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}
