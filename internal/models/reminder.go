package models

import (
	"time"

	"github.com/google/uuid"
)

type Reminder struct {
	ID       uuid.UUID `json:"id" db:"id"`
	TaskID   uuid.UUID `json:"task_id" db:"task_id"`
	Message  string    `json:"message" db:"message"`
	RemindAt time.Time `json:"remind_at" db:"remind_at"`
	Active   bool      `json:"active" db:"active"`
}
