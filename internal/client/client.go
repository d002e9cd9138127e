package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/models"
	"time"

	"github.com/google/uuid"
)

// типизированный клиент REST API: один метод на операцию,
// не-2xx ответы превращаются в *APIError

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func (c *Client) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Priority != "" {
		query.Set("priority", string(filter.Priority))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	path := "/api/tasks"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+id.String(), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, request dto.CreateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", request, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id uuid.UUID, request dto.UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+id.String(), request, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id.String(), nil, nil)
}

func (c *Client) AddSubtask(ctx context.Context, taskID uuid.UUID, title string) (*models.Subtask, error) {
	var subtask models.Subtask
	request := dto.CreateSubtaskRequest{Title: title}
	if err := c.do(ctx, http.MethodPost, "/api/tasks/"+taskID.String()+"/subtasks", request, &subtask); err != nil {
		return nil, err
	}
	return &subtask, nil
}

func (c *Client) UpdateSubtask(ctx context.Context, taskID, subtaskID uuid.UUID, request dto.UpdateSubtaskRequest) (*models.Subtask, error) {
	var subtask models.Subtask
	path := "/api/tasks/" + taskID.String() + "/subtasks/" + subtaskID.String()
	if err := c.do(ctx, http.MethodPut, path, request, &subtask); err != nil {
		return nil, err
	}
	return &subtask, nil
}

func (c *Client) DeleteSubtask(ctx context.Context, taskID, subtaskID uuid.UUID) error {
	path := "/api/tasks/" + taskID.String() + "/subtasks/" + subtaskID.String()
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) ListReminders(ctx context.Context, filter models.ReminderFilter) ([]models.Reminder, error) {
	query := url.Values{}
	if filter.TaskID != nil {
		query.Set("task_id", filter.TaskID.String())
	}
	if filter.Active != nil {
		query.Set("active", fmt.Sprintf("%t", *filter.Active))
	}

	path := "/api/reminders"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var reminders []models.Reminder
	if err := c.do(ctx, http.MethodGet, path, nil, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

func (c *Client) CreateReminder(ctx context.Context, request dto.CreateReminderRequest) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := c.do(ctx, http.MethodPost, "/api/reminders", request, &reminder); err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (c *Client) DeleteReminder(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/reminders/"+id.String(), nil, nil)
}

func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("сериализация тела запроса: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("выполнение запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	// 204 приходит без тела
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("чтение ответа: %w", err)
	}
	return nil
}

// сообщение берём из поля error тела ответа,
// если тело не разобралось - генерим сообщение по статусу
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	}
	return apiErr
}
