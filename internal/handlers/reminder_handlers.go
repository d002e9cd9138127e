package handlers

import (
	"encoding/json"
	"net/http"
	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/logger"
	"taskBoard/internal/models"
	"taskBoard/internal/service"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReminderHandler struct {
	ReminderService ReminderService
}

func NewReminderHandler(reminderService ReminderService) ReminderHandler {
	return ReminderHandler{
		ReminderService: reminderService,
	}
}

func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	filter := models.ReminderFilter{}

	if taskIDParam := r.URL.Query().Get("task_id"); taskIDParam != "" {
		taskID, err := uuid.Parse(taskIDParam)
		if err != nil {

			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "task_id"),
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "неверное значение task_id: "+err.Error())
			return
		}
		filter.TaskID = &taskID
	}

	if activeParam := r.URL.Query().Get("active"); activeParam != "" {
		switch activeParam {
		case "true":
			active := true
			filter.Active = &active
		case "false":
			active := false
			filter.Active = &active
		default:

			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "active"),
				zap.String("received", activeParam),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "неверное значение active: "+activeParam)
			return
		}
	}

	reminders, err := h.ReminderService.ListReminders(r.Context(), filter)
	if err != nil {
		respondServiceError(w, "list_reminders", err)
		return
	}

	logger.Info("HTTP_OUT: Напоминания получены",
		zap.Int("count", len(reminders)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, reminders)
}

func (h *ReminderHandler) PostReminder(w http.ResponseWriter, r *http.Request) {
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

	var request dto.CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {

		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}
	defer r.Body.Close()

	reminder, err := h.ReminderService.CreateReminder(r.Context(), service.CreateReminderParams{
		TaskID:   request.TaskID,
		Message:  request.Message,
		RemindAt: request.RemindAt,
	})
	if err != nil {
		respondServiceError(w, "create_reminder", err)
		return
	}

	logger.Info("HTTP_OUT: Напоминание создано",
		zap.String("reminder_id", reminder.ID.String()),
		zap.String("task_id", reminder.TaskID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, reminder)
}

func (h *ReminderHandler) GetReminderByID(w http.ResponseWriter, r *http.Request) {
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

	reminder, err := h.ReminderService.GetReminderByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, "get_reminder", err)
		return
	}

	logger.Info("HTTP_OUT: Напоминание получено",
		zap.String("reminder_id", reminder.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, reminder)
}

func (h *ReminderHandler) DeleteReminderByID(w http.ResponseWriter, r *http.Request) {
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

	if err := h.ReminderService.DeleteReminder(r.Context(), id); err != nil {
		respondServiceError(w, "delete_reminder", err)
		return
	}

	logger.Info("HTTP_OUT: Напоминание удалено",
		zap.String("reminder_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}
