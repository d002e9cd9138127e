package taskview

import (
	"context"
	"fmt"
	"sync"
	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/models"
	"time"

	"github.com/google/uuid"
)

// клиентская копия списка задач с оптимистичными мутациями:
// изменение применяется локально до ответа сервера,
// при ошибке состояние откатывается к снимку

type API interface {
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, request dto.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	AddSubtask(ctx context.Context, taskID uuid.UUID, title string) (*models.Subtask, error)
	UpdateSubtask(ctx context.Context, taskID, subtaskID uuid.UUID, request dto.UpdateSubtaskRequest) (*models.Subtask, error)
	DeleteSubtask(ctx context.Context, taskID, subtaskID uuid.UUID) error
}

type TaskView struct {
	mtx         sync.RWMutex
	api         API
	tasks       []models.Task
	filter      models.TaskFilter
	sortOrder   SortOrder
	lastRefresh time.Time
}

func New(api API) *TaskView {
	return &TaskView{
		api:       api,
		tasks:     []models.Task{},
		sortOrder: SortByCreated,
	}
}

// единственная операция, замещающая коллекцию целиком
func (v *TaskView) Load(ctx context.Context) error {
	tasks, err := v.api.ListTasks(ctx, models.TaskFilter{})
	if err != nil {
		return fmt.Errorf("загрузка задач: %w", err)
	}

	v.mtx.Lock()
	defer v.mtx.Unlock()

	v.tasks = tasks
	v.lastRefresh = time.Now()
	return nil
}

func (v *TaskView) LastRefresh() time.Time {
	v.mtx.RLock()
	defer v.mtx.RUnlock()
	return v.lastRefresh
}

func (v *TaskView) Tasks() []models.Task {
	v.mtx.RLock()
	defer v.mtx.RUnlock()
	return v.cloneTasksLocked()
}

func (v *TaskView) ChangeStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	v.mtx.Lock()
	ind := v.indexLocked(id)
	if ind < 0 {
		v.mtx.Unlock()
		return fmt.Errorf("задача %s отсутствует в списке", id)
	}
	snapshot := v.tasks[ind].Clone()
	v.tasks[ind].Status = status
	v.mtx.Unlock()

	if _, err := v.api.UpdateTask(ctx, id, dto.UpdateTaskRequest{Status: &status}); err != nil {
		v.restoreTask(snapshot)
		return err
	}
	return nil
}

func (v *TaskView) UpdateTask(ctx context.Context, id uuid.UUID, request dto.UpdateTaskRequest) error {
	v.mtx.Lock()
	ind := v.indexLocked(id)
	if ind < 0 {
		v.mtx.Unlock()
		return fmt.Errorf("задача %s отсутствует в списке", id)
	}
	snapshot := v.tasks[ind].Clone()
	applyUpdate(&v.tasks[ind], request)
	v.mtx.Unlock()

	if _, err := v.api.UpdateTask(ctx, id, request); err != nil {
		v.restoreTask(snapshot)
		return err
	}
	return nil
}

func (v *TaskView) RemoveTask(ctx context.Context, id uuid.UUID) error {
	v.mtx.Lock()
	ind := v.indexLocked(id)
	if ind < 0 {
		v.mtx.Unlock()
		return fmt.Errorf("задача %s отсутствует в списке", id)
	}
	snapshot := v.tasks[ind].Clone()
	v.tasks = append(v.tasks[:ind], v.tasks[ind+1:]...)
	v.mtx.Unlock()

	if err := v.api.DeleteTask(ctx, id); err != nil {
		// возвращаем задачу на прежнюю позицию
		v.mtx.Lock()
		if ind > len(v.tasks) {
			ind = len(v.tasks)
		}
		v.tasks = append(v.tasks[:ind], append([]models.Task{*snapshot}, v.tasks[ind:]...)...)
		v.mtx.Unlock()
		return err
	}
	return nil
}

func (v *TaskView) AddSubtask(ctx context.Context, taskID uuid.UUID, title string) error {
	v.mtx.Lock()
	ind := v.indexLocked(taskID)
	if ind < 0 {
		v.mtx.Unlock()
		return fmt.Errorf("задача %s отсутствует в списке", taskID)
	}

	// временная запись с локальным id до подтверждения сервером
	temp := models.Subtask{
		ID:    uuid.New(),
		Title: title,
	}
	v.tasks[ind].Subtasks = append(v.tasks[ind].Subtasks, temp)
	v.mtx.Unlock()

	created, err := v.api.AddSubtask(ctx, taskID, title)
	if err != nil {
		v.dropSubtask(taskID, temp.ID)
		return err
	}

	// подтверждённая запись заменяет временную на месте,
	// второй раз в список она не добавляется
	v.mtx.Lock()
	defer v.mtx.Unlock()

	ind = v.indexLocked(taskID)
	if ind < 0 {
		return nil
	}
	for i, subtask := range v.tasks[ind].Subtasks {
		if subtask.ID == temp.ID {
			v.tasks[ind].Subtasks[i] = *created
			break
		}
	}
	return nil
}

func (v *TaskView) ToggleSubtask(ctx context.Context, taskID, subtaskID uuid.UUID) error {
	v.mtx.Lock()
	ind := v.indexLocked(taskID)
	if ind < 0 {
		v.mtx.Unlock()
		return fmt.Errorf("задача %s отсутствует в списке", taskID)
	}

	subtaskInd := indexSubtask(v.tasks[ind].Subtasks, subtaskID)
	if subtaskInd < 0 {
		v.mtx.Unlock()
		return fmt.Errorf("подзадача %s отсутствует в списке", subtaskID)
	}

	snapshot := append([]models.Subtask(nil), v.tasks[ind].Subtasks...)
	completed := !v.tasks[ind].Subtasks[subtaskInd].Completed
	v.tasks[ind].Subtasks[subtaskInd].Completed = completed
	v.mtx.Unlock()

	if _, err := v.api.UpdateSubtask(ctx, taskID, subtaskID, dto.UpdateSubtaskRequest{Completed: &completed}); err != nil {
		v.restoreSubtasks(taskID, snapshot)
		return err
	}
	return nil
}

func (v *TaskView) RemoveSubtask(ctx context.Context, taskID, subtaskID uuid.UUID) error {
	v.mtx.Lock()
	ind := v.indexLocked(taskID)
	if ind < 0 {
		v.mtx.Unlock()
		return fmt.Errorf("задача %s отсутствует в списке", taskID)
	}

	subtaskInd := indexSubtask(v.tasks[ind].Subtasks, subtaskID)
	if subtaskInd < 0 {
		v.mtx.Unlock()
		return fmt.Errorf("подзадача %s отсутствует в списке", subtaskID)
	}

	snapshot := append([]models.Subtask(nil), v.tasks[ind].Subtasks...)
	v.tasks[ind].Subtasks = append(v.tasks[ind].Subtasks[:subtaskInd], v.tasks[ind].Subtasks[subtaskInd+1:]...)
	v.mtx.Unlock()

	if err := v.api.DeleteSubtask(ctx, taskID, subtaskID); err != nil {
		v.restoreSubtasks(taskID, snapshot)
		return err
	}
	return nil
}

func (v *TaskView) restoreTask(snapshot *models.Task) {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	ind := v.indexLocked(snapshot.ID)
	if ind >= 0 {
		v.tasks[ind] = *snapshot
	}
}

func (v *TaskView) restoreSubtasks(taskID uuid.UUID, snapshot []models.Subtask) {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	ind := v.indexLocked(taskID)
	if ind >= 0 {
		v.tasks[ind].Subtasks = snapshot
	}
}

func (v *TaskView) dropSubtask(taskID, subtaskID uuid.UUID) {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	ind := v.indexLocked(taskID)
	if ind < 0 {
		return
	}
	subtaskInd := indexSubtask(v.tasks[ind].Subtasks, subtaskID)
	if subtaskInd < 0 {
		return
	}
	v.tasks[ind].Subtasks = append(v.tasks[ind].Subtasks[:subtaskInd], v.tasks[ind].Subtasks[subtaskInd+1:]...)
}

func (v *TaskView) indexLocked(id uuid.UUID) int {
	for ind, task := range v.tasks {
		if task.ID == id {
			return ind
		}
	}
	return -1
}

func (v *TaskView) cloneTasksLocked() []models.Task {
	res := make([]models.Task, len(v.tasks))
	for i := range v.tasks {
		res[i] = *v.tasks[i].Clone()
	}
	return res
}

func indexSubtask(subtasks []models.Subtask, id uuid.UUID) int {
	for ind, subtask := range subtasks {
		if subtask.ID == id {
			return ind
		}
	}
	return -1
}

// локальное зеркало серверной семантики обновления
func applyUpdate(task *models.Task, request dto.UpdateTaskRequest) {
	if request.Title != nil {
		task.Title = *request.Title
	}
	if request.Description != nil {
		task.Description = *request.Description
	}
	if request.Status != nil {
		task.Status = *request.Status
	}
	if request.Priority != nil {
		task.Priority = *request.Priority
	}
	if request.DueTime != nil {
		task.DueTime = request.DueTime
	}
	if request.Tags != nil {
		task.Tags = *request.Tags
	}
	if request.Assignee != nil {
		task.Assignee = *request.Assignee
	}
}
