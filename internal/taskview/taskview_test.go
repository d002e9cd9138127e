package taskview_test

import (
	"context"
	"errors"
	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/models"
	"taskBoard/internal/taskview"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("сервер недоступен")

// stubAPI отдаёт заранее заданный список и падает по флагу,
// мока здесь мало: нужно управлять ошибками по ходу сценария
type stubAPI struct {
	tasks      []models.Task
	fail       bool
	newSubtask *models.Subtask
	calls      []string
}

func (s *stubAPI) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	s.calls = append(s.calls, "ListTasks")
	if s.fail {
		return nil, errBackend
	}
	res := make([]models.Task, len(s.tasks))
	for i := range s.tasks {
		res[i] = *s.tasks[i].Clone()
	}
	return res, nil
}

func (s *stubAPI) UpdateTask(ctx context.Context, id uuid.UUID, request dto.UpdateTaskRequest) (*models.Task, error) {
	s.calls = append(s.calls, "UpdateTask")
	if s.fail {
		return nil, errBackend
	}
	return &models.Task{ID: id}, nil
}

func (s *stubAPI) DeleteTask(ctx context.Context, id uuid.UUID) error {
	s.calls = append(s.calls, "DeleteTask")
	if s.fail {
		return errBackend
	}
	return nil
}

func (s *stubAPI) AddSubtask(ctx context.Context, taskID uuid.UUID, title string) (*models.Subtask, error) {
	s.calls = append(s.calls, "AddSubtask")
	if s.fail {
		return nil, errBackend
	}
	if s.newSubtask != nil {
		return s.newSubtask, nil
	}
	return &models.Subtask{ID: uuid.New(), Title: title}, nil
}

func (s *stubAPI) UpdateSubtask(ctx context.Context, taskID, subtaskID uuid.UUID, request dto.UpdateSubtaskRequest) (*models.Subtask, error) {
	s.calls = append(s.calls, "UpdateSubtask")
	if s.fail {
		return nil, errBackend
	}
	return &models.Subtask{ID: subtaskID}, nil
}

func (s *stubAPI) DeleteSubtask(ctx context.Context, taskID, subtaskID uuid.UUID) error {
	s.calls = append(s.calls, "DeleteSubtask")
	if s.fail {
		return errBackend
	}
	return nil
}

func makeTask(title string, status models.Status) models.Task {
	now := time.Now()
	return models.Task{
		ID:        uuid.New(),
		Title:     title,
		Status:    status,
		Priority:  models.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
		Subtasks:  []models.Subtask{},
		Tags:      []string{},
	}
}

func loadedView(t *testing.T, tasks ...models.Task) (*taskview.TaskView, *stubAPI) {
	t.Helper()
	api := &stubAPI{tasks: tasks}
	view := taskview.New(api)
	require.NoError(t, view.Load(context.Background()))
	return view, api
}

// TestLoad_ReplacesCollection
func TestLoad_ReplacesCollection(t *testing.T) {
	first := makeTask("first", models.StatusTodo)
	view, api := loadedView(t, first)

	require.Len(t, view.Tasks(), 1)
	assert.False(t, view.LastRefresh().IsZero())

	// повторная загрузка замещает коллекцию целиком
	second := makeTask("second", models.StatusTodo)
	api.tasks = []models.Task{second}
	require.NoError(t, view.Load(context.Background()))

	tasks := view.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, second.ID, tasks[0].ID)
}

// TestChangeStatus_Optimistic: изменение видно сразу, до ответа сервера
func TestChangeStatus_Optimistic(t *testing.T) {
	task := makeTask("task", models.StatusTodo)
	view, _ := loadedView(t, task)

	require.NoError(t, view.ChangeStatus(context.Background(), task.ID, models.StatusInProgress))
	assert.Equal(t, models.StatusInProgress, view.Tasks()[0].Status)
}

// TestChangeStatus_RollbackOnError: при отказе сервера статус откатывается
func TestChangeStatus_RollbackOnError(t *testing.T) {
	task := makeTask("task", models.StatusTodo)
	view, api := loadedView(t, task)

	api.fail = true
	err := view.ChangeStatus(context.Background(), task.ID, models.StatusCompleted)
	require.ErrorIs(t, err, errBackend)

	assert.Equal(t, models.StatusTodo, view.Tasks()[0].Status)
}

// TestUpdateTask_RollbackRestoresAllFields
func TestUpdateTask_RollbackRestoresAllFields(t *testing.T) {
	task := makeTask("before", models.StatusTodo)
	task.Tags = []string{"a"}
	view, api := loadedView(t, task)

	api.fail = true
	title := "after"
	tags := []string{"b", "c"}
	err := view.UpdateTask(context.Background(), task.ID, dto.UpdateTaskRequest{Title: &title, Tags: &tags})
	require.Error(t, err)

	got := view.Tasks()[0]
	assert.Equal(t, "before", got.Title)
	assert.Equal(t, []string{"a"}, got.Tags)
}

// TestRemoveTask_ReinsertsAtSamePosition
func TestRemoveTask_ReinsertsAtSamePosition(t *testing.T) {
	first := makeTask("first", models.StatusTodo)
	second := makeTask("second", models.StatusTodo)
	third := makeTask("third", models.StatusTodo)
	view, api := loadedView(t, first, second, third)

	api.fail = true
	require.Error(t, view.RemoveTask(context.Background(), second.ID))

	tasks := view.Tasks()
	require.Len(t, tasks, 3)
	// средняя задача вернулась на своё место
	assert.Equal(t, second.ID, tasks[1].ID)
}

// TestRemoveTask_Success
func TestRemoveTask_Success(t *testing.T) {
	task := makeTask("task", models.StatusTodo)
	view, _ := loadedView(t, task)

	require.NoError(t, view.RemoveTask(context.Background(), task.ID))
	assert.Empty(t, view.Tasks())
}

// TestAddSubtask_ReplacesTempInPlace: подтверждённая запись занимает место
// временной, дубликата в списке не появляется
func TestAddSubtask_ReplacesTempInPlace(t *testing.T) {
	task := makeTask("task", models.StatusTodo)
	serverID := uuid.New()
	api := &stubAPI{
		tasks:      []models.Task{task},
		newSubtask: &models.Subtask{ID: serverID, Title: "step"},
	}
	view := taskview.New(api)
	require.NoError(t, view.Load(context.Background()))

	require.NoError(t, view.AddSubtask(context.Background(), task.ID, "step"))

	subtasks := view.Tasks()[0].Subtasks
	require.Len(t, subtasks, 1)
	assert.Equal(t, serverID, subtasks[0].ID)
	assert.Equal(t, "step", subtasks[0].Title)
}

// TestAddSubtask_DropsTempOnError
func TestAddSubtask_DropsTempOnError(t *testing.T) {
	task := makeTask("task", models.StatusTodo)
	view, api := loadedView(t, task)

	api.fail = true
	require.Error(t, view.AddSubtask(context.Background(), task.ID, "step"))
	assert.Empty(t, view.Tasks()[0].Subtasks)
}

// TestToggleSubtask_Rollback
func TestToggleSubtask_Rollback(t *testing.T) {
	task := makeTask("task", models.StatusTodo)
	subtask := models.Subtask{ID: uuid.New(), Title: "step", Completed: false}
	task.Subtasks = []models.Subtask{subtask}
	view, api := loadedView(t, task)

	require.NoError(t, view.ToggleSubtask(context.Background(), task.ID, subtask.ID))
	assert.True(t, view.Tasks()[0].Subtasks[0].Completed)

	api.fail = true
	require.Error(t, view.ToggleSubtask(context.Background(), task.ID, subtask.ID))
	assert.True(t, view.Tasks()[0].Subtasks[0].Completed)
}

// TestRemoveSubtask_Rollback
func TestRemoveSubtask_Rollback(t *testing.T) {
	task := makeTask("task", models.StatusTodo)
	subtask := models.Subtask{ID: uuid.New(), Title: "step"}
	task.Subtasks = []models.Subtask{subtask}
	view, api := loadedView(t, task)

	api.fail = true
	require.Error(t, view.RemoveSubtask(context.Background(), task.ID, subtask.ID))
	require.Len(t, view.Tasks()[0].Subtasks, 1)
	assert.Equal(t, subtask.ID, view.Tasks()[0].Subtasks[0].ID)
}

// TestUnknownTask: операция над отсутствующей задачей не трогает сервер
func TestUnknownTask(t *testing.T) {
	view, api := loadedView(t, makeTask("task", models.StatusTodo))

	before := len(api.calls)
	require.Error(t, view.ChangeStatus(context.Background(), uuid.New(), models.StatusCompleted))
	require.Error(t, view.RemoveTask(context.Background(), uuid.New()))
	assert.Equal(t, before, len(api.calls))
}

// TestVisible_FilterAndSort
func TestVisible_FilterAndSort(t *testing.T) {
	low := makeTask("bravo", models.StatusTodo)
	low.Priority = models.PriorityLow
	high := makeTask("alpha", models.StatusTodo)
	high.Priority = models.PriorityHigh
	done := makeTask("charlie", models.StatusCompleted)

	view, _ := loadedView(t, low, high, done)

	view.SetFilter(models.TaskFilter{Status: models.StatusTodo})
	view.SetSort(taskview.SortByPriority)

	visible := view.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, high.ID, visible[0].ID)
	assert.Equal(t, low.ID, visible[1].ID)

	view.SetSort(taskview.SortByTitle)
	visible = view.Visible()
	assert.Equal(t, "alpha", visible[0].Title)
	assert.Equal(t, "bravo", visible[1].Title)
}

// TestVisible_DueTimeNilLast: задачи без дедлайна в конце списка
func TestVisible_DueTimeNilLast(t *testing.T) {
	soon := time.Now().Add(time.Hour)
	later := time.Now().Add(48 * time.Hour)

	noDue := makeTask("no due", models.StatusTodo)
	dueSoon := makeTask("due soon", models.StatusTodo)
	dueSoon.DueTime = &soon
	dueLater := makeTask("due later", models.StatusTodo)
	dueLater.DueTime = &later

	view, _ := loadedView(t, noDue, dueLater, dueSoon)
	view.SetSort(taskview.SortByDueTime)

	visible := view.Visible()
	require.Len(t, visible, 3)
	assert.Equal(t, dueSoon.ID, visible[0].ID)
	assert.Equal(t, dueLater.ID, visible[1].ID)
	assert.Equal(t, noDue.ID, visible[2].ID)
}

// TestCounts
func TestCounts(t *testing.T) {
	view, _ := loadedView(t,
		makeTask("a", models.StatusTodo),
		makeTask("b", models.StatusTodo),
		makeTask("c", models.StatusInProgress),
	)

	counts := view.Counts()
	assert.Equal(t, 2, counts[models.StatusTodo])
	assert.Equal(t, 1, counts[models.StatusInProgress])
	assert.Equal(t, 0, counts[models.StatusCompleted])
}

// TestOverdueCount: завершённая задача просроченной не считается
func TestOverdueCount(t *testing.T) {
	past := time.Now().Add(-time.Hour)

	overdue := makeTask("overdue", models.StatusTodo)
	overdue.DueTime = &past
	doneLate := makeTask("done late", models.StatusCompleted)
	doneLate.DueTime = &past

	view, _ := loadedView(t, overdue, doneLate)
	assert.Equal(t, 1, view.OverdueCount())
}

// TestCompletionPercent
func TestCompletionPercent(t *testing.T) {
	task := makeTask("task", models.StatusTodo)
	task.Subtasks = []models.Subtask{
		{ID: uuid.New(), Completed: true},
		{ID: uuid.New(), Completed: true},
		{ID: uuid.New(), Completed: false},
	}
	empty := makeTask("empty", models.StatusTodo)

	view, _ := loadedView(t, task, empty)

	assert.Equal(t, 66, view.CompletionPercent(task.ID))
	assert.Equal(t, 0, view.CompletionPercent(empty.ID))
	assert.Equal(t, 0, view.CompletionPercent(uuid.New()))
}

// TestGroupByStatus
func TestGroupByStatus(t *testing.T) {
	view, _ := loadedView(t,
		makeTask("a", models.StatusTodo),
		makeTask("b", models.StatusCompleted),
		makeTask("c", models.StatusCompleted),
	)

	groups := view.GroupByStatus()
	assert.Len(t, groups[models.StatusTodo], 1)
	assert.Len(t, groups[models.StatusCompleted], 2)
}
