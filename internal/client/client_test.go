package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"taskBoard/internal/client"
	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/models"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClient_CreateTask проверяет сериализацию запроса и разбор ответа
func TestClient_CreateTask(t *testing.T) {
	taskID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/tasks", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var request dto.CreateTaskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "Write spec", request.Title)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Task{
			ID:       taskID,
			Title:    request.Title,
			Status:   models.StatusTodo,
			Priority: models.PriorityMedium,
		})
	}))
	defer server.Close()

	c := client.New(server.URL)
	task, err := c.CreateTask(context.Background(), dto.CreateTaskRequest{Title: "Write spec"})
	require.NoError(t, err)
	assert.Equal(t, taskID, task.ID)
	assert.Equal(t, models.StatusTodo, task.Status)
}

// TestClient_ListTasks_QueryParams: фильтр уходит в query-параметры
func TestClient_ListTasks_QueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "completed", r.URL.Query().Get("status"))
		assert.Equal(t, "high", r.URL.Query().Get("priority"))
		assert.Equal(t, "spec", r.URL.Query().Get("search"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]models.Task{})
	}))
	defer server.Close()

	c := client.New(server.URL)
	tasks, err := c.ListTasks(context.Background(), models.TaskFilter{
		Status:   models.StatusCompleted,
		Priority: models.PriorityHigh,
		Search:   "spec",
	})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

// TestClient_APIError: сообщение берётся из поля error тела ответа
func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "задача не найдена"})
	}))
	defer server.Close()

	c := client.New(server.URL)
	_, err := c.GetTask(context.Background(), uuid.New())
	require.Error(t, err)

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "задача не найдена", apiErr.Message)
}

// TestClient_APIError_NoBody: без разбираемого тела сообщением становится статус
func TestClient_APIError_NoBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := client.New(server.URL)
	_, err := c.Stats(context.Background())
	require.Error(t, err)

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Message)
}

// TestClient_DeleteTask_NoContent: 204 без тела не ломает разбор
func TestClient_DeleteTask_NoContent(t *testing.T) {
	id := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/tasks/"+id.String(), r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := client.New(server.URL)
	require.NoError(t, c.DeleteTask(context.Background(), id))
}

// TestClient_ContextCancelled
func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	c := client.New(server.URL)
	err := c.Health(ctx)
	require.Error(t, err)
}

// TestClient_TrailingSlash: хвостовой слэш базового адреса не дублирует путь
func TestClient_TrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := client.New(server.URL + "/")
	require.NoError(t, c.Health(context.Background()))
}

// TestClient_CreateReminder
func TestClient_CreateReminder(t *testing.T) {
	taskID := uuid.New()
	remindAt := time.Now().Add(time.Hour).Truncate(time.Second)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/reminders", r.URL.Path)

		var request dto.CreateReminderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, taskID, request.TaskID)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Reminder{
			ID:       uuid.New(),
			TaskID:   request.TaskID,
			Message:  request.Message,
			RemindAt: request.RemindAt,
			Active:   true,
		})
	}))
	defer server.Close()

	c := client.New(server.URL)
	reminder, err := c.CreateReminder(context.Background(), dto.CreateReminderRequest{
		TaskID:   taskID,
		Message:  "ping",
		RemindAt: remindAt,
	})
	require.NoError(t, err)
	assert.Equal(t, taskID, reminder.TaskID)
	assert.True(t, reminder.Active)
}
