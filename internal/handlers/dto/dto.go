package dto

import (
	"taskBoard/internal/models"
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority,omitempty"`
	DueTime     *time.Time      `json:"due_time,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Assignee    string          `json:"assignee,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      *models.Status   `json:"status,omitempty"`
	Priority    *models.Priority `json:"priority,omitempty"`
	DueTime     *time.Time       `json:"due_time,omitempty"`
	Tags        *[]string        `json:"tags,omitempty"`
	Assignee    *string          `json:"assignee,omitempty"`
}

type CreateSubtaskRequest struct {
	Title string `json:"title"`
}

type UpdateSubtaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

type CreateReminderRequest struct {
	TaskID   uuid.UUID `json:"task_id"`
	Message  string    `json:"message"`
	RemindAt time.Time `json:"remind_at"`
}

type TaskResponse struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      models.Status    `json:"status"`
	Priority    models.Priority  `json:"priority"`
	DueTime     *time.Time       `json:"due_time,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Subtasks    []models.Subtask `json:"subtasks"`
	Tags        []string         `json:"tags"`
	Assignee    string           `json:"assignee"`
	IsOverdue   bool             `json:"is_overdue"`
}

func FromTask(t *models.Task) TaskResponse {
	subtasks := t.Subtasks
	if subtasks == nil {
		subtasks = []models.Subtask{}
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}

	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueTime:     t.DueTime,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Subtasks:    subtasks,
		Tags:        tags,
		Assignee:    t.Assignee,
		IsOverdue:   t.IsOverdue(time.Now()),
	}
}

func FromTaskList(tasks []*models.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}
