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

type ReminderService struct {
	reminders repository.ReminderRepository
	tasks     repository.TaskRepository
}

func NewReminderService(reminders repository.ReminderRepository, tasks repository.TaskRepository) ReminderService {
	return ReminderService{
		reminders: reminders,
		tasks:     tasks,
	}
}

type CreateReminderParams struct {
	TaskID   uuid.UUID
	Message  string
	RemindAt time.Time
}

func (s *ReminderService) CreateReminder(ctx context.Context, params CreateReminderParams) (*models.Reminder, error) {
	if strings.TrimSpace(params.Message) == "" {
		return nil, NewValidationError("message", "сообщение не может быть пустым")
	}
	if params.RemindAt.IsZero() {
		return nil, NewValidationError("remind_at", "время напоминания должно быть задано")
	}

	// напоминание без существующей задачи не создаётся
	if _, err := s.tasks.GetByID(ctx, params.TaskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача для напоминания не найдена", zap.String("task_id", params.TaskID.String()))
			return nil, NewNotFound("задача", params.TaskID.String())
		}
		return nil, fmt.Errorf("проверка задачи: %w", err)
	}

	reminder := &models.Reminder{
		ID:       uuid.New(),
		TaskID:   params.TaskID,
		Message:  params.Message,
		RemindAt: params.RemindAt,
		Active:   true,
	}

	if err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("создание напоминания: %w", err)
	}
	return reminder, nil
}

func (s *ReminderService) ListReminders(ctx context.Context, filter models.ReminderFilter) ([]*models.Reminder, error) {
	reminders, err := s.reminders.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("получение напоминаний: %w", err)
	}
	return reminders, nil
}

func (s *ReminderService) GetReminderByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error) {
	reminder, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Напоминание не найдено", zap.String("target_id", id.String()))
			return nil, NewNotFound("напоминание", id.String())
		}
		return nil, fmt.Errorf("получение напоминания: %w", err)
	}
	return reminder, nil
}

func (s *ReminderService) DeleteReminder(ctx context.Context, id uuid.UUID) error {
	if err := s.reminders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Напоминание не найдено", zap.String("target_id", id.String()))
			return NewNotFound("напоминание", id.String())
		}
		return fmt.Errorf("удаление напоминания: %w", err)
	}
	return nil
}
