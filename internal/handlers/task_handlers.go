package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/logger"
	"taskBoard/internal/models"
	"taskBoard/internal/service"
	"time"

	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	filter := models.TaskFilter{
		Search: r.URL.Query().Get("search"),
	}

	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := models.Status(statusParam)
		if !status.Valid() {

			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "status"),
				zap.String("received", statusParam),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "неверное значение status: "+statusParam)
			return
		}
		filter.Status = status
	}

	if priorityParam := r.URL.Query().Get("priority"); priorityParam != "" {
		priority := models.Priority(priorityParam)
		if !priority.Valid() {

			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "priority"),
				zap.String("received", priorityParam),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "неверное значение priority: "+priorityParam)
			return
		}
		filter.Priority = priority
	}

	tasks, err := h.TaskService.ListTasks(r.Context(), filter)
	if err != nil {
		respondServiceError(w, "list_tasks", err)
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {

		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {

		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}
	defer r.Body.Close()

	task, err := h.TaskService.CreateTask(r.Context(), service.CreateTaskParams{
		Title:       request.Title,
		Description: request.Description,
		Priority:    request.Priority,
		DueTime:     request.DueTime,
		Tags:        request.Tags,
		Assignee:    request.Assignee,
	})
	if err != nil {
		respondServiceError(w, "create_task", err)
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", task.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromTask(task))
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := parseIDParam(r, "id")
	if err != nil {

		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return
	}

	task, err := h.TaskService.GetTaskByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, "get_task", err)
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", task.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(task))
}

func (h *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := parseIDParam(r, "id")
	if err != nil {

		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return
	}

	var request dto.UpdateTaskRequest

	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {

		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	options, validationErr := buildUpdateOptions(request)
	if validationErr != nil {
		handleBusinessError(w, validationErr)
		return
	}

	task, err := h.TaskService.UpdateTask(r.Context(), id, options...)
	if err != nil {
		respondServiceError(w, "update_task", err)
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", task.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(task))
}

func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := parseIDParam(r, "id")
	if err != nil {

		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), id); err != nil {
		respondServiceError(w, "delete_task", err)
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}

func (h *TaskHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	stats, err := h.TaskService.Stats(r.Context())
	if err != nil {
		respondServiceError(w, "get_stats", err)
		return
	}

	logger.Info("HTTP_OUT: Статистика получена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, stats)
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		responseWithError(w, http.StatusServiceUnavailable, "хранилище недоступно")
		return
	}

	responseWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// собираем опции обновления только из переданных полей,
// проверяя значения до применения
func buildUpdateOptions(request dto.UpdateTaskRequest) ([]service.TaskOption, error) {
	options := []service.TaskOption{}

	if request.Title != nil {
		if strings.TrimSpace(*request.Title) == "" {
			return nil, service.NewValidationError("title", "название не может быть пустым")
		}
		options = append(options, service.WithTitle(*request.Title))
	}
	if request.Description != nil {
		options = append(options, service.WithDescription(*request.Description))
	}
	if request.Status != nil {
		if !request.Status.Valid() {
			return nil, service.NewValidationError("status", "неизвестный статус "+string(*request.Status))
		}
		options = append(options, service.WithStatus(*request.Status))
	}
	if request.Priority != nil {
		if !request.Priority.Valid() {
			return nil, service.NewValidationError("priority", "неизвестный приоритет "+string(*request.Priority))
		}
		options = append(options, service.WithPriority(*request.Priority))
	}
	if request.DueTime != nil {
		options = append(options, service.WithDueTime(request.DueTime))
	}
	if request.Tags != nil {
		options = append(options, service.WithTags(*request.Tags))
	}
	if request.Assignee != nil {
		options = append(options, service.WithAssignee(*request.Assignee))
	}

	return options, nil
}
