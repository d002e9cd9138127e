package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"taskBoard/internal/handlers"
	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/logger"
	"taskBoard/internal/models"
	"taskBoard/internal/service"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

// MockTaskService - мок сервиса задач
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskService) CreateTask(ctx context.Context, params service.CreateTaskParams) (*models.Task, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, id uuid.UUID, options ...service.TaskOption) (*models.Task, error) {
	args := m.Called(ctx, id, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskService) AddSubtask(ctx context.Context, taskID uuid.UUID, title string) (*models.Subtask, error) {
	args := m.Called(ctx, taskID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subtask), args.Error(1)
}

func (m *MockTaskService) UpdateSubtask(ctx context.Context, taskID, subtaskID uuid.UUID, title *string, completed *bool) (*models.Subtask, error) {
	args := m.Called(ctx, taskID, subtaskID, title, completed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subtask), args.Error(1)
}

func (m *MockTaskService) DeleteSubtask(ctx context.Context, taskID, subtaskID uuid.UUID) error {
	args := m.Called(ctx, taskID, subtaskID)
	return args.Error(0)
}

func (m *MockTaskService) Stats(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}

func testRouter(mockService *MockTaskService) *chi.Mux {
	handler := handlers.NewTaskHandler(mockService)

	r := chi.NewRouter()
	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", handler.ListTasks)
		r.Post("/", handler.PostTask)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handler.GetTaskByID)
			r.Put("/", handler.UpdateTaskByID)
			r.Delete("/", handler.DeleteTaskByID)
			r.Post("/subtasks", handler.PostSubtask)
		})
	})
	r.Get("/api/stats", handler.GetStats)
	return r
}

func sampleTask() *models.Task {
	now := time.Now()
	return &models.Task{
		ID:        uuid.New(),
		Title:     "Sample",
		Status:    models.StatusTodo,
		Priority:  models.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
		Subtasks:  []models.Subtask{},
		Tags:      []string{},
	}
}

// TestPostTask_Created
func TestPostTask_Created(t *testing.T) {
	mockService := new(MockTaskService)
	task := sampleTask()
	mockService.On("CreateTask", mock.Anything, mock.Anything).Return(task, nil)

	body, _ := json.Marshal(dto.CreateTaskRequest{Title: "Sample"})
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	testRouter(mockService).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var response dto.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, task.ID, response.ID)
	assert.Equal(t, models.StatusTodo, response.Status)
	mockService.AssertExpectations(t)
}

// TestPostTask_ValidationError: бизнес-ошибка валидации превращается в 400
func TestPostTask_ValidationError(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("CreateTask", mock.Anything, mock.Anything).
		Return(nil, service.NewValidationError("title", "название не может быть пустым"))

	body, _ := json.Marshal(dto.CreateTaskRequest{Title: ""})
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	testRouter(mockService).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_ERROR", response["code"])
	assert.NotEmpty(t, response["error"])
}

// TestPostTask_WrongContentType
func TestPostTask_WrongContentType(t *testing.T) {
	mockService := new(MockTaskService)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader([]byte(`{"title":"x"}`)))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()

	testRouter(mockService).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	mockService.AssertNotCalled(t, "CreateTask")
}

// TestGetTaskByID_NotFound
func TestGetTaskByID_NotFound(t *testing.T) {
	mockService := new(MockTaskService)
	id := uuid.New()
	mockService.On("GetTaskByID", mock.Anything, id).
		Return(nil, service.NewNotFound("задача", id.String()))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/"+id.String(), nil)
	rec := httptest.NewRecorder()

	testRouter(mockService).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestGetTaskByID_BadID: кривой uuid даёт 400 без похода в сервис
func TestGetTaskByID_BadID(t *testing.T) {
	mockService := new(MockTaskService)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	testRouter(mockService).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "GetTaskByID")
}

// TestListTasks_BadStatus
func TestListTasks_BadStatus(t *testing.T) {
	mockService := new(MockTaskService)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks?status=done", nil)
	rec := httptest.NewRecorder()

	testRouter(mockService).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "ListTasks")
}

// TestListTasks_PassesFilter
func TestListTasks_PassesFilter(t *testing.T) {
	mockService := new(MockTaskService)
	expectedFilter := models.TaskFilter{
		Status:   models.StatusCompleted,
		Priority: models.PriorityHigh,
		Search:   "spec",
	}
	mockService.On("ListTasks", mock.Anything, expectedFilter).Return([]*models.Task{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks?status=completed&priority=high&search=spec", nil)
	rec := httptest.NewRecorder()

	testRouter(mockService).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

// TestDeleteTask_NoContent: 204 приходит без тела
func TestDeleteTask_NoContent(t *testing.T) {
	mockService := new(MockTaskService)
	id := uuid.New()
	mockService.On("DeleteTask", mock.Anything, id).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/tasks/"+id.String(), nil)
	rec := httptest.NewRecorder()

	testRouter(mockService).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

// TestPostSubtask_Created
func TestPostSubtask_Created(t *testing.T) {
	mockService := new(MockTaskService)
	taskID := uuid.New()
	subtask := &models.Subtask{ID: uuid.New(), Title: "step"}
	mockService.On("AddSubtask", mock.Anything, taskID, "step").Return(subtask, nil)

	body, _ := json.Marshal(dto.CreateSubtaskRequest{Title: "step"})
	req := httptest.NewRequest(http.MethodPost, "/api/tasks/"+taskID.String()+"/subtasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	testRouter(mockService).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var response models.Subtask
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, subtask.ID, response.ID)
	mockService.AssertExpectations(t)
}

// TestGetStats
func TestGetStats(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("Stats", mock.Anything).Return(&models.Stats{
		Total:    2,
		ByStatus: map[models.Status]int{models.StatusTodo: 2},
		Overdue:  1,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()

	testRouter(mockService).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Overdue)
}
