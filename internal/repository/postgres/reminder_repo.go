package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"taskBoard/internal/logger"
	"taskBoard/internal/models"
	repo "taskBoard/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ReminderStorage struct {
	pool *pgxpool.Pool
}

func NewReminderStorage(pool *pgxpool.Pool) *ReminderStorage {
	return &ReminderStorage{pool: pool}
}

func (s *ReminderStorage) Create(ctx context.Context, reminder *models.Reminder) error {
	start := time.Now()

	query := `INSERT INTO reminders (id, task_id, message, remind_at, active)
			VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, query,
		reminder.ID,
		reminder.TaskID,
		reminder.Message,
		reminder.RemindAt,
		reminder.Active,
	)
	if err != nil {
		logger.Error("Repository: Создание напоминания", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("создание напоминания: %w", err)
	}

	warnIfSlow(start)
	return nil
}

func (s *ReminderStorage) Update(ctx context.Context, reminder *models.Reminder) error {
	start := time.Now()

	query := `UPDATE reminders
			SET task_id = $1,
				message = $2,
				remind_at = $3,
				active = $4
			WHERE id = $5`

	tag, err := s.pool.Exec(ctx, query,
		reminder.TaskID,
		reminder.Message,
		reminder.RemindAt,
		reminder.Active,
		reminder.ID,
	)
	if err != nil {
		logger.Error("Repository: Обновление напоминания", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление напоминания: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start)
	return nil
}

func (s *ReminderStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error) {
	query := `SELECT id, task_id, message, remind_at, active
			FROM reminders
			WHERE id = $1`

	var r models.Reminder
	err := s.pool.QueryRow(ctx, query, id).Scan(&r.ID, &r.TaskID, &r.Message, &r.RemindAt, &r.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Получение напоминания", err)
		return nil, fmt.Errorf("получение напоминания: %w", err)
	}
	return &r, nil
}

func (s *ReminderStorage) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	query := `DELETE FROM reminders WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Repository: Удаление напоминания", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление напоминания: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start)
	return nil
}

func (s *ReminderStorage) DeleteByTask(ctx context.Context, taskID uuid.UUID) (int, error) {
	start := time.Now()

	query := `DELETE FROM reminders WHERE task_id = $1`

	tag, err := s.pool.Exec(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Каскадное удаление напоминаний", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("каскадное удаление напоминаний: %w", err)
	}

	warnIfSlow(start)
	return int(tag.RowsAffected()), nil
}

func (s *ReminderStorage) List(ctx context.Context, filter models.ReminderFilter) ([]*models.Reminder, error) {
	query := `SELECT id, task_id, message, remind_at, active FROM reminders`
	args := []any{}
	conditions := []string{}

	if filter.TaskID != nil {
		args = append(args, *filter.TaskID)
		conditions = append(conditions, "task_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, "active = $"+strconv.Itoa(len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY remind_at"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Получение списка напоминаний", err)
		return nil, fmt.Errorf("получение списка напоминаний: %w", err)
	}
	defer rows.Close()

	return collectReminders(rows)
}

func (s *ReminderStorage) ListDue(ctx context.Context, deadline time.Time, limit int) ([]*models.Reminder, error) {
	query := `SELECT id, task_id, message, remind_at, active
			FROM reminders
			WHERE active AND remind_at <= $1
			ORDER BY remind_at
			LIMIT $2`

	rows, err := s.pool.Query(ctx, query, deadline, limit)
	if err != nil {
		logger.Error("Repository: Получение сработавших напоминаний", err)
		return nil, fmt.Errorf("получение сработавших напоминаний: %w", err)
	}
	defer rows.Close()

	return collectReminders(rows)
}

func collectReminders(rows pgx.Rows) ([]*models.Reminder, error) {
	res := []*models.Reminder{}
	for rows.Next() {
		var r models.Reminder
		if err := rows.Scan(&r.ID, &r.TaskID, &r.Message, &r.RemindAt, &r.Active); err != nil {
			return nil, fmt.Errorf("чтение строки: %w", err)
		}
		res = append(res, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("обход строк: %w", err)
	}
	return res, nil
}
