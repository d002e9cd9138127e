package inmemory

import (
	"context"
	"sync"
	"taskBoard/internal/models"
	repo "taskBoard/internal/repository"
	"time"

	"github.com/google/uuid"
)

type TaskStorage struct {
	storage map[uuid.UUID]*models.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID // порядок вставки
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*models.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *models.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage[taskToCreate.ID] = taskToCreate.Clone()
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *models.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[taskToUpdate.ID]; !ok {
		return repo.ErrNotFound
	}

	s.storage[taskToUpdate.ID] = taskToUpdate.Clone()
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

// линейный проход в порядке вставки
func (s *TaskStorage) List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.Task{}
	for _, id := range s.ids {
		taskToGet := s.storage[id]
		if !filter.Match(taskToGet) {
			continue
		}
		res = append(res, taskToGet.Clone())
	}

	return res, nil
}

func (s *TaskStorage) Stats(ctx context.Context, now time.Time) (*models.Stats, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stats := &models.Stats{
		ByStatus: map[models.Status]int{
			models.StatusTodo:       0,
			models.StatusInProgress: 0,
			models.StatusCompleted:  0,
		},
	}

	for _, id := range s.ids {
		t := s.storage[id]
		stats.Total++
		stats.ByStatus[t.Status]++
		if t.IsOverdue(now) {
			stats.Overdue++
		}
	}

	return stats, nil
}
