package repository

import (
	"context"
	"taskBoard/internal/models"
	"time"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error)
	Stats(ctx context.Context, now time.Time) (*models.Stats, error)
	HealthCheck(ctx context.Context) error
}

type ReminderRepository interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	Update(ctx context.Context, reminder *models.Reminder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTask(ctx context.Context, taskID uuid.UUID) (int, error)
	List(ctx context.Context, filter models.ReminderFilter) ([]*models.Reminder, error)
	ListDue(ctx context.Context, deadline time.Time, limit int) ([]*models.Reminder, error)
}
