// Package handler implements the HTTP handlers for the task discovery
// API.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/tasklens/server/internal/application/tasks"
)

// Server holds the handler dependencies.
type Server struct {
	taskService *tasks.Service
}

// NewServer creates a new HTTP handler server.
func NewServer(taskService *tasks.Service) *Server {
	return &Server{
		taskService: taskService,
	}
}

// Routes returns the API routes. Mounted under the authenticated /api
// prefix by the HTTP server.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/v1/tasks", func(r chi.Router) {
		r.Get("/", s.ListTasks)
		r.Post("/", s.CreateTask)
		r.Get("/{id}", s.GetTask)
		r.Patch("/{id}", s.UpdateTask)
		r.Delete("/{id}", s.DeleteTask)
	})

	return r
}
