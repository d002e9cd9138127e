package inmemory

import (
	"context"
	"sync"
	"taskBoard/internal/models"
	repo "taskBoard/internal/repository"
	"time"

	"github.com/google/uuid"
)

type ReminderStorage struct {
	storage map[uuid.UUID]*models.Reminder
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewReminderStorage() *ReminderStorage {
	return &ReminderStorage{
		storage: make(map[uuid.UUID]*models.Reminder),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *ReminderStorage) Create(ctx context.Context, reminder *models.Reminder) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored := *reminder
	s.storage[reminder.ID] = &stored
	s.ids = append(s.ids, reminder.ID)
	return nil
}

func (s *ReminderStorage) Update(ctx context.Context, reminder *models.Reminder) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[reminder.ID]; !ok {
		return repo.ErrNotFound
	}

	stored := *reminder
	s.storage[reminder.ID] = &stored
	return nil
}

func (s *ReminderStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	reminder, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	res := *reminder
	return &res, nil
}

func (s *ReminderStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	s.deleteLocked(id)
	return nil
}

// каскадное удаление напоминаний задачи, возвращает количество удалённых
func (s *ReminderStorage) DeleteByTask(ctx context.Context, taskID uuid.UUID) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	toDelete := []uuid.UUID{}
	for _, id := range s.ids {
		if s.storage[id].TaskID == taskID {
			toDelete = append(toDelete, id)
		}
	}

	for _, id := range toDelete {
		s.deleteLocked(id)
	}
	return len(toDelete), nil
}

func (s *ReminderStorage) List(ctx context.Context, filter models.ReminderFilter) ([]*models.Reminder, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.Reminder{}
	for _, id := range s.ids {
		reminder := s.storage[id]
		if !filter.Match(reminder) {
			continue
		}
		clone := *reminder
		res = append(res, &clone)
	}
	return res, nil
}

func (s *ReminderStorage) ListDue(ctx context.Context, deadline time.Time, limit int) ([]*models.Reminder, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.Reminder{}
	for _, id := range s.ids {
		if len(res) >= limit {
			break
		}

		reminder := s.storage[id]
		if !reminder.Active || reminder.RemindAt.After(deadline) {
			continue
		}

		clone := *reminder
		res = append(res, &clone)
	}
	return res, nil
}

func (s *ReminderStorage) deleteLocked(id uuid.UUID) {
	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
}
