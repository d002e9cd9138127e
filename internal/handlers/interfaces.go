package handlers

import (
	"context"
	"taskBoard/internal/models"
	"taskBoard/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	CreateTask(ctx context.Context, params service.CreateTaskParams) (*models.Task, error)
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error)
	GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, options ...service.TaskOption) (*models.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	AddSubtask(ctx context.Context, taskID uuid.UUID, title string) (*models.Subtask, error)
	UpdateSubtask(ctx context.Context, taskID, subtaskID uuid.UUID, title *string, completed *bool) (*models.Subtask, error)
	DeleteSubtask(ctx context.Context, taskID, subtaskID uuid.UUID) error
	Stats(ctx context.Context) (*models.Stats, error)
}

type ReminderService interface {
	CreateReminder(ctx context.Context, params service.CreateReminderParams) (*models.Reminder, error)
	ListReminders(ctx context.Context, filter models.ReminderFilter) ([]*models.Reminder, error)
	GetReminderByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error)
	DeleteReminder(ctx context.Context, id uuid.UUID) error
}
