package models

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	Priority    Priority   `json:"priority" db:"priority"`
	DueTime     *time.Time `json:"due_time,omitempty" db:"due_time"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	Subtasks    []Subtask  `json:"subtasks" db:"subtasks"`
	Tags        []string   `json:"tags" db:"tags"`
	Assignee    string     `json:"assignee" db:"assignee"`
}

type Subtask struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
}

type Status string
type Priority string

const StatusTodo Status = "todo"
const StatusInProgress Status = "in-progress"
const StatusCompleted Status = "completed"

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

func (s Status) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusCompleted
}

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ранг для сортировки: high раньше low
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// просрочена: дедлайн в прошлом и задача не завершена
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueTime != nil && t.DueTime.Before(now) && t.Status != StatusCompleted
}

// глубокая копия задачи, слайсы не разделяются с оригиналом
func (t *Task) Clone() *Task {
	clone := *t
	if t.DueTime != nil {
		due := *t.DueTime
		clone.DueTime = &due
	}
	clone.Subtasks = append([]Subtask(nil), t.Subtasks...)
	clone.Tags = append([]string(nil), t.Tags...)
	return &clone
}
