package postgres

import (
	"context"
	"encoding/json"
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

const slowOpThreshold = 100 * time.Millisecond

type TaskStorage struct {
	pool *pgxpool.Pool
}

func NewTaskStorage(pool *pgxpool.Pool) *TaskStorage {
	return &TaskStorage{pool: pool}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *models.Task) error {
	start := time.Now()

	subtasks, tags, err := marshalTaskJSON(taskToCreate)
	if err != nil {
		return err
	}

	query := `INSERT INTO tasks
				(id, title, description, status, priority, due_time, created_at, updated_at, subtasks, tags, assignee)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = s.pool.Exec(ctx, query,
		taskToCreate.ID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Status,
		taskToCreate.Priority,
		taskToCreate.DueTime,
		taskToCreate.CreatedAt,
		taskToCreate.UpdatedAt,
		subtasks,
		tags,
		taskToCreate.Assignee,
	)
	if err != nil {
		logger.Error("Repository: Создание задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("создание задачи: %w", err)
	}

	warnIfSlow(start)
	return nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *models.Task) error {
	start := time.Now()

	subtasks, tags, err := marshalTaskJSON(taskToUpdate)
	if err != nil {
		return err
	}

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				status = $3,
				priority = $4,
				due_time = $5,
				updated_at = $6,
				subtasks = $7,
				tags = $8,
				assignee = $9
			WHERE id = $10`

	tag, err := s.pool.Exec(ctx, query,
		taskToUpdate.Title,
		taskToUpdate.Description,
		taskToUpdate.Status,
		taskToUpdate.Priority,
		taskToUpdate.DueTime,
		taskToUpdate.UpdatedAt,
		subtasks,
		tags,
		taskToUpdate.Assignee,
		taskToUpdate.ID,
	)
	if err != nil {
		logger.Error("Repository: Обновление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start)
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	start := time.Now()

	query := `SELECT id, title, description, status, priority, due_time, created_at, updated_at, subtasks, tags, assignee
			FROM tasks
			WHERE id = $1`

	taskToGet, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Получение задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnIfSlow(start)
	return taskToGet, nil
}

func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	query := `DELETE FROM tasks WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start)
	return nil
}

func (s *TaskStorage) List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	start := time.Now()

	query := `SELECT id, title, description, status, priority, due_time, created_at, updated_at, subtasks, tags, assignee
			FROM tasks`
	args := []any{}
	conditions := []string{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		conditions = append(conditions, "priority = $"+strconv.Itoa(len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		conditions = append(conditions, "(title ILIKE $"+n+" OR description ILIKE $"+n+")")
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Получение списка задач", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение списка задач: %w", err)
	}
	defer rows.Close()

	res := []*models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение строки: %w", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("обход строк: %w", err)
	}

	warnIfSlow(start)
	return res, nil
}

func (s *TaskStorage) Stats(ctx context.Context, now time.Time) (*models.Stats, error) {
	start := time.Now()

	query := `SELECT
				COUNT(*),
				COUNT(*) FILTER (WHERE status = 'todo'),
				COUNT(*) FILTER (WHERE status = 'in-progress'),
				COUNT(*) FILTER (WHERE status = 'completed'),
				COUNT(*) FILTER (WHERE due_time IS NOT NULL AND due_time < $1 AND status <> 'completed')
			FROM tasks`

	stats := &models.Stats{ByStatus: map[models.Status]int{}}
	var todo, inProgress, completed int

	err := s.pool.QueryRow(ctx, query, now).Scan(&stats.Total, &todo, &inProgress, &completed, &stats.Overdue)
	if err != nil {
		logger.Error("Repository: Получение статистики", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение статистики: %w", err)
	}

	stats.ByStatus[models.StatusTodo] = todo
	stats.ByStatus[models.StatusInProgress] = inProgress
	stats.ByStatus[models.StatusCompleted] = completed

	warnIfSlow(start)
	return stats, nil
}

func marshalTaskJSON(t *models.Task) ([]byte, []byte, error) {
	subtasks := t.Subtasks
	if subtasks == nil {
		subtasks = []models.Subtask{}
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}

	subtasksJSON, err := json.Marshal(subtasks)
	if err != nil {
		return nil, nil, fmt.Errorf("сериализация подзадач: %w", err)
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, nil, fmt.Errorf("сериализация тегов: %w", err)
	}
	return subtasksJSON, tagsJSON, nil
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	var subtasksJSON, tagsJSON []byte

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.DueTime,
		&t.CreatedAt,
		&t.UpdatedAt,
		&subtasksJSON,
		&tagsJSON,
		&t.Assignee,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(subtasksJSON, &t.Subtasks); err != nil {
		return nil, fmt.Errorf("десериализация подзадач: %w", err)
	}
	if err := json.Unmarshal(tagsJSON, &t.Tags); err != nil {
		return nil, fmt.Errorf("десериализация тегов: %w", err)
	}
	return &t, nil
}

func warnIfSlow(start time.Time) {
	if time.Since(start) > slowOpThreshold {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
}
