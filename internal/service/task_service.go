package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"taskBoard/internal/logger"
	"taskBoard/internal/models"
	"taskBoard/internal/repository"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	tasks     repository.TaskRepository
	reminders repository.ReminderRepository
}

func NewTaskService(tasks repository.TaskRepository, reminders repository.ReminderRepository) TaskService {
	return TaskService{
		tasks:     tasks,
		reminders: reminders,
	}
}

type CreateTaskParams struct {
	Title       string
	Description string
	Priority    models.Priority
	DueTime     *time.Time
	Tags        []string
	Assignee    string
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.tasks.HealthCheck(ctx)
}

func (s *TaskService) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}

	// значения по умолчанию для незаполненных полей
	priority := params.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, NewValidationError("priority", fmt.Sprintf("неизвестный приоритет %q", priority))
	}

	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	task := &models.Task{
		ID:          uuid.New(),
		Title:       params.Title,
		Description: params.Description,
		Status:      models.StatusTodo,
		Priority:    priority,
		DueTime:     params.DueTime,
		CreatedAt:   now,
		UpdatedAt:   now,
		Subtasks:    []models.Subtask{},
		Tags:        tags,
		Assignee:    params.Assignee,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return task, nil
}

// обновление только разрешённых полей через опции,
// id и created_at клиентом не переписываются
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, options ...TaskOption) (*models.Task, error) {
	task, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, opt := range options {
		if opt != nil {
			opt(task)
		}
	}
	task.UpdatedAt = time.Now()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return NewNotFound("задача", id.String())
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}

	// каскадное удаление напоминаний, висящих на задаче
	deleted, err := s.reminders.DeleteByTask(ctx, id)
	if err != nil {
		return fmt.Errorf("каскадное удаление напоминаний: %w", err)
	}
	if deleted > 0 {
		logger.Info("Service: Удалены напоминания задачи",
			zap.String("task_id", id.String()),
			zap.Int("count", deleted))
	}
	return nil
}

func (s *TaskService) AddSubtask(ctx context.Context, taskID uuid.UUID, title string) (*models.Subtask, error) {
	// сначала проверяем задачу, потом валидируем поле
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(title) == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}

	subtask := models.Subtask{
		ID:    uuid.New(),
		Title: title,
	}
	task.Subtasks = append(task.Subtasks, subtask)
	task.UpdatedAt = time.Now()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("добавление подзадачи: %w", err)
	}
	return &subtask, nil
}

func (s *TaskService) UpdateSubtask(ctx context.Context, taskID, subtaskID uuid.UUID, title *string, completed *bool) (*models.Subtask, error) {
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	ind := findSubtask(task, subtaskID)
	if ind < 0 {
		logger.Info("Service: Подзадача не найдена",
			zap.String("task_id", taskID.String()),
			zap.String("subtask_id", subtaskID.String()))
		return nil, NewNotFound("подзадача", subtaskID.String())
	}

	if title != nil {
		if strings.TrimSpace(*title) == "" {
			return nil, NewValidationError("title", "название не может быть пустым")
		}
		task.Subtasks[ind].Title = *title
	}
	if completed != nil {
		task.Subtasks[ind].Completed = *completed
	}
	task.UpdatedAt = time.Now()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("обновление подзадачи: %w", err)
	}
	subtask := task.Subtasks[ind]
	return &subtask, nil
}

func (s *TaskService) DeleteSubtask(ctx context.Context, taskID, subtaskID uuid.UUID) error {
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return err
	}

	ind := findSubtask(task, subtaskID)
	if ind < 0 {
		logger.Info("Service: Подзадача не найдена",
			zap.String("task_id", taskID.String()),
			zap.String("subtask_id", subtaskID.String()))
		return NewNotFound("подзадача", subtaskID.String())
	}

	task.Subtasks = append(task.Subtasks[:ind], task.Subtasks[ind+1:]...)
	task.UpdatedAt = time.Now()

	if err := s.tasks.Update(ctx, task); err != nil {
		return fmt.Errorf("удаление подзадачи: %w", err)
	}
	return nil
}

func (s *TaskService) Stats(ctx context.Context) (*models.Stats, error) {
	stats, err := s.tasks.Stats(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("получение статистики: %w", err)
	}
	return stats, nil
}

func findSubtask(task *models.Task, subtaskID uuid.UUID) int {
	for ind, subtask := range task.Subtasks {
		if subtask.ID == subtaskID {
			return ind
		}
	}
	return -1
}
