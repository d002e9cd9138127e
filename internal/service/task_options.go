package service

import (
	"taskBoard/internal/models"
	"time"
)

// функция точечного обновления: применяется к задаче при Update
type TaskOption func(*models.Task)

func WithTitle(title string) TaskOption {
	return func(task *models.Task) {
		task.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(task *models.Task) {
		task.Description = description
	}
}

func WithStatus(status models.Status) TaskOption {
	return func(task *models.Task) {
		task.Status = status
	}
}

func WithPriority(priority models.Priority) TaskOption {
	return func(task *models.Task) {
		task.Priority = priority
	}
}

func WithDueTime(dueTime *time.Time) TaskOption {
	return func(task *models.Task) {
		task.DueTime = dueTime
	}
}

func WithTags(tags []string) TaskOption {
	return func(task *models.Task) {
		if tags == nil {
			tags = []string{}
		}
		task.Tags = tags
	}
}

func WithAssignee(assignee string) TaskOption {
	return func(task *models.Task) {
		task.Assignee = assignee
	}
}
