package handler

import (
	"net/url"
	"time"

	"github.com/tasklens/server/internal/domain"
	"github.com/tasklens/server/internal/filterstate"
)

// TaskDTO is the JSON shape of a task.
type TaskDTO struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Category    *string    `json:"category,omitempty"`
	CreateTime  time.Time  `json:"created_at"`
	UpdateTime  time.Time  `json:"updated_at"`
}

// ListTasksResponse is the discovery query response. EmptyState is only
// present for empty results and tells the client which empty view to
// render: "no_matches" (offer clearing filters) or "no_records" (offer
// creating a task).
type ListTasksResponse struct {
	Tasks      []TaskDTO              `json:"tasks"`
	Total      int                    `json:"total"`
	EmptyState filterstate.EmptyState `json:"empty_state,omitempty"`
}

// CreateTaskRequest is the JSON body for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Category    *string    `json:"category,omitempty"`
}

// UpdateTaskRequest is the JSON body for a partial task update. Absent
// fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Category    *string    `json:"category,omitempty"`
}

// MapTaskToDTO converts a domain task to its JSON shape.
func MapTaskToDTO(task domain.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		DueDate:     task.DueDate,
		Category:    task.Category,
		CreateTime:  task.CreateTime,
		UpdateTime:  task.UpdateTime,
	}
	if task.Priority != nil {
		p := string(*task.Priority)
		dto.Priority = &p
	}
	return dto
}

// criteriaParams flattens URL query parameters to the single-valued map
// ParseCriteria accepts. Repeated keys keep the first value.
func criteriaParams(query url.Values) map[string]string {
	params := make(map[string]string, len(query))
	for key, values := range query {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}
