package taskview

import (
	"sort"
	"strings"
	"taskBoard/internal/models"
	"time"

	"github.com/google/uuid"
)

// производные представления: чистые функции от текущей коллекции,
// собственного состояния не держат

type SortOrder string

const SortByCreated SortOrder = "created"
const SortByDueTime SortOrder = "due"
const SortByPriority SortOrder = "priority"
const SortByTitle SortOrder = "title"

func (v *TaskView) SetFilter(filter models.TaskFilter) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.filter = filter
}

func (v *TaskView) SetSort(order SortOrder) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.sortOrder = order
}

// отфильтрованный и отсортированный срез коллекции
func (v *TaskView) Visible() []models.Task {
	v.mtx.RLock()

	res := []models.Task{}
	for i := range v.tasks {
		if v.filter.Match(&v.tasks[i]) {
			res = append(res, *v.tasks[i].Clone())
		}
	}
	order := v.sortOrder

	v.mtx.RUnlock()

	sortTasks(res, order)
	return res
}

func (v *TaskView) Counts() map[models.Status]int {
	v.mtx.RLock()
	defer v.mtx.RUnlock()

	counts := map[models.Status]int{
		models.StatusTodo:       0,
		models.StatusInProgress: 0,
		models.StatusCompleted:  0,
	}
	for i := range v.tasks {
		counts[v.tasks[i].Status]++
	}
	return counts
}

func (v *TaskView) OverdueCount() int {
	v.mtx.RLock()
	defer v.mtx.RUnlock()

	now := time.Now()
	count := 0
	for i := range v.tasks {
		if v.tasks[i].IsOverdue(now) {
			count++
		}
	}
	return count
}

func (v *TaskView) GroupByStatus() map[models.Status][]models.Task {
	v.mtx.RLock()
	defer v.mtx.RUnlock()

	groups := map[models.Status][]models.Task{}
	for i := range v.tasks {
		task := v.tasks[i]
		groups[task.Status] = append(groups[task.Status], *task.Clone())
	}
	return groups
}

// процент выполненных подзадач, 0 для задачи без подзадач
func (v *TaskView) CompletionPercent(id uuid.UUID) int {
	v.mtx.RLock()
	defer v.mtx.RUnlock()

	ind := v.indexLocked(id)
	if ind < 0 || len(v.tasks[ind].Subtasks) == 0 {
		return 0
	}

	completed := 0
	for _, subtask := range v.tasks[ind].Subtasks {
		if subtask.Completed {
			completed++
		}
	}
	return completed * 100 / len(v.tasks[ind].Subtasks)
}

func sortTasks(tasks []models.Task, order SortOrder) {
	switch order {
	case SortByDueTime:
		sort.SliceStable(tasks, func(i, j int) bool {
			// задачи без дедлайна уходят в конец
			if tasks[i].DueTime == nil {
				return false
			}
			if tasks[j].DueTime == nil {
				return true
			}
			return tasks[i].DueTime.Before(*tasks[j].DueTime)
		})
	case SortByPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
		})
	case SortByTitle:
		sort.SliceStable(tasks, func(i, j int) bool {
			return strings.ToLower(tasks[i].Title) < strings.ToLower(tasks[j].Title)
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		})
	}
}
