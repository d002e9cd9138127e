package worker

import (
	"context"
	"fmt"
	"taskBoard/internal/logger"
	"taskBoard/internal/models"
	"taskBoard/internal/repository"
	"time"

	"go.uber.org/zap"
)

// фоновая отправка сработавших напоминаний:
// сработавшее напоминание логируется и гасится (active = false)
type ReminderWorker struct {
	repo      repository.ReminderRepository
	interval  time.Duration
	batchSize int
}

func NewReminderWorker(repo repository.ReminderRepository, interval time.Duration, batchSize int) *ReminderWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ReminderWorker{
		repo:      repo,
		interval:  interval,
		batchSize: batchSize,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая проверка напоминаний", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

func (w *ReminderWorker) Check(ctx context.Context) {
	start := time.Now()

	reminders, err := w.repo.ListDue(ctx, time.Now(), w.batchSize)
	if err != nil {
		logger.Warn("Worker: ошибка получения напоминаний", zap.Error(err))
		return
	}

	firedCount := 0
	for _, reminder := range reminders {
		if err := w.Fire(ctx, reminder); err != nil {
			logger.Warn("Worker: Ошибка отправки напоминания", zap.Error(err))
			continue
		}
		firedCount++
	}

	logger.Info(
		"Worker: Завершение проверки напоминаний",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(reminders)),
		zap.Int("fired", firedCount),
	)
}

func (w *ReminderWorker) Fire(ctx context.Context, reminder *models.Reminder) error {
	logger.Info("Worker: Напоминание сработало",
		zap.String("reminder_id", reminder.ID.String()),
		zap.String("task_id", reminder.TaskID.String()),
		zap.String("message", reminder.Message),
		zap.Time("remind_at", reminder.RemindAt))

	reminder.Active = false
	if err := w.repo.Update(ctx, reminder); err != nil {
		return fmt.Errorf("гашение напоминания: %w", err)
	}
	return nil
}
