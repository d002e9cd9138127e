package models

import (
	"strings"

	"github.com/google/uuid"
)

// нулевые значения означают "фильтр не применяется"
type TaskFilter struct {
	Status   Status
	Priority Priority
	Search   string
}

// проверка задачи на соответствие фильтру:
// AND между измерениями, поиск - подстрока в title ИЛИ description
func (f TaskFilter) Match(t *Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		title := strings.ToLower(t.Title)
		description := strings.ToLower(t.Description)
		if !strings.Contains(title, term) && !strings.Contains(description, term) {
			return false
		}
	}
	return true
}

type ReminderFilter struct {
	TaskID *uuid.UUID
	Active *bool
}

func (f ReminderFilter) Match(r *Reminder) bool {
	if f.TaskID != nil && r.TaskID != *f.TaskID {
		return false
	}
	if f.Active != nil && r.Active != *f.Active {
		return false
	}
	return true
}
