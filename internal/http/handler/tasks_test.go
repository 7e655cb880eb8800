package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklens/server/internal/application/auth"
	"github.com/tasklens/server/internal/application/tasks"
	internalhttp "github.com/tasklens/server/internal/http"
	"github.com/tasklens/server/internal/storage/memory"
)

const (
	ownerToken    = "owner-token"
	ownerID       = "0194e7a3-2b1c-7d4e-8f90-1234567890ab"
	strangerToken = "stranger-token"
	strangerID    = "0194e7a3-2b1c-7d4e-8f90-ba0987654321"
)

// newTestServer builds the full router (auth middleware included) over
// an in-memory store.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	service := tasks.NewService(memory.NewStore())
	authenticator := auth.NewAuthenticator(map[string]string{
		ownerToken:    ownerID,
		strangerToken: strangerID,
	})

	api := internalhttp.NewAPIServer(NewServer(service).Routes(), authenticator, internalhttp.ServerConfig{})
	return api.Handler()
}

func doRequest(t *testing.T, handler http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func createTask(t *testing.T, handler http.Handler, token string, body map[string]any) TaskDTO {
	t.Helper()

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/tasks", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto TaskDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	return dto
}

func listTasks(t *testing.T, handler http.Handler, token, query string) ListTasksResponse {
	t.Helper()

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/tasks"+query, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ListTasksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestListTasks_RequiresAuth(t *testing.T) {
	handler := newTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/api/v1/tasks", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListTasks_EmptyStateClassification(t *testing.T) {
	handler := newTestServer(t)

	t.Run("no records at all", func(t *testing.T) {
		resp := listTasks(t, handler, ownerToken, "")
		assert.Equal(t, 0, resp.Total)
		assert.Equal(t, "no_records", string(resp.EmptyState))
	})

	t.Run("records exist but none match", func(t *testing.T) {
		createTask(t, handler, ownerToken, map[string]any{"title": "Buy milk"})

		resp := listTasks(t, handler, ownerToken, "?q=nothing+matches+this")
		assert.Equal(t, 0, resp.Total)
		assert.Equal(t, "no_matches", string(resp.EmptyState))
	})

	t.Run("non-empty results are never classified", func(t *testing.T) {
		resp := listTasks(t, handler, ownerToken, "")
		assert.Equal(t, 1, resp.Total)
		assert.Empty(t, string(resp.EmptyState))
	})
}

func TestListTasks_SearchFiltersAndSorts(t *testing.T) {
	handler := newTestServer(t)

	createTask(t, handler, ownerToken, map[string]any{"title": "Buy milk", "priority": "low"})
	createTask(t, handler, ownerToken, map[string]any{"title": "Buy groceries", "priority": "high", "category": "Errands"})
	createTask(t, handler, ownerToken, map[string]any{"title": "File report", "priority": "high", "category": "Work"})

	t.Run("substring search", func(t *testing.T) {
		resp := listTasks(t, handler, ownerToken, "?q=milk")
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, "Buy milk", resp.Tasks[0].Title)
	})

	t.Run("filters AND-combine", func(t *testing.T) {
		resp := listTasks(t, handler, ownerToken, "?priority=high&category=Work")
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, "File report", resp.Tasks[0].Title)
	})

	t.Run("priority sort descending", func(t *testing.T) {
		resp := listTasks(t, handler, ownerToken, "?sort_by=priority&order=desc")
		require.Equal(t, 3, resp.Total)
		assert.Equal(t, "low", *resp.Tasks[2].Priority)
	})

	t.Run("malformed parameters degrade to defaults", func(t *testing.T) {
		resp := listTasks(t, handler, ownerToken, "?sort_by=bogus&order=sideways&priority=urgent")
		assert.Equal(t, 3, resp.Total)
	})
}

func TestListTasks_ScopedToOwner(t *testing.T) {
	handler := newTestServer(t)

	createTask(t, handler, ownerToken, map[string]any{"title": "Mine"})
	createTask(t, handler, strangerToken, map[string]any{"title": "Theirs"})

	resp := listTasks(t, handler, ownerToken, "")
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Mine", resp.Tasks[0].Title)
}

func TestCreateTask(t *testing.T) {
	handler := newTestServer(t)

	t.Run("defaults priority to medium", func(t *testing.T) {
		dto := createTask(t, handler, ownerToken, map[string]any{"title": "Buy milk"})
		assert.Equal(t, ownerID, dto.OwnerID)
		require.NotNil(t, dto.Priority)
		assert.Equal(t, "medium", *dto.Priority)
		assert.False(t, dto.Completed)
	})

	t.Run("rejects missing title", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/tasks", ownerToken, map[string]any{"title": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects unknown priority", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/tasks", ownerToken,
			map[string]any{"title": "t", "priority": "urgent"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Authorization", "Bearer "+ownerToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetUpdateDeleteTask_Ownership(t *testing.T) {
	handler := newTestServer(t)

	due := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	dto := createTask(t, handler, ownerToken, map[string]any{
		"title":    "Report",
		"due_date": due.Format(time.RFC3339),
		"category": "Work",
	})

	t.Run("owner can get", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/v1/tasks/"+dto.ID, ownerToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("stranger gets 403", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/v1/tasks/"+dto.ID, strangerToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown task is 404", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/v1/tasks/0194e7a3-0000-7000-8000-000000000000", ownerToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("partial update touches only sent fields", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPatch, "/api/v1/tasks/"+dto.ID, ownerToken,
			map[string]any{"completed": true})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated TaskDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.True(t, updated.Completed)
		assert.Equal(t, "Report", updated.Title)
		require.NotNil(t, updated.Category)
		assert.Equal(t, "Work", *updated.Category)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodDelete, "/api/v1/tasks/"+dto.ID, strangerToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner deletes", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodDelete, "/api/v1/tasks/"+dto.ID, ownerToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = doRequest(t, handler, http.MethodGet, "/api/v1/tasks/"+dto.ID, ownerToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthEndpointNeedsNoAuth(t *testing.T) {
	handler := newTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
