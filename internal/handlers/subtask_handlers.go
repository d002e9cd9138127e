package handlers

import (
	"encoding/json"
	"net/http"
	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/logger"
	"time"

	"go.uber.org/zap"
)

func (h *TaskHandler) PostSubtask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, err := parseIDParam(r, "id")
	if err != nil {

		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return
	}

	var request dto.CreateSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {

		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}
	defer r.Body.Close()

	subtask, err := h.TaskService.AddSubtask(r.Context(), taskID, request.Title)
	if err != nil {
		respondServiceError(w, "add_subtask", err)
		return
	}

	logger.Info("HTTP_OUT: Подзадача создана",
		zap.String("task_id", taskID.String()),
		zap.String("subtask_id", subtask.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, subtask)
}

func (h *TaskHandler) UpdateSubtaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, err := parseIDParam(r, "id")
	if err != nil {

		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return
	}

	subtaskID, err := parseIDParam(r, "subtaskID")
	if err != nil {

		logger.Warn("HTTP: Не удалось получить subtask id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить subtask id: "+err.Error())
		return
	}

	var request dto.UpdateSubtaskRequest

	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {

		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	subtask, err := h.TaskService.UpdateSubtask(r.Context(), taskID, subtaskID, request.Title, request.Completed)
	if err != nil {
		respondServiceError(w, "update_subtask", err)
		return
	}

	logger.Info("HTTP_OUT: Подзадача обновлена",
		zap.String("task_id", taskID.String()),
		zap.String("subtask_id", subtask.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, subtask)
}

func (h *TaskHandler) DeleteSubtaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, err := parseIDParam(r, "id")
	if err != nil {

		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return
	}

	subtaskID, err := parseIDParam(r, "subtaskID")
	if err != nil {

		logger.Warn("HTTP: Не удалось получить subtask id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить subtask id: "+err.Error())
		return
	}

	if err := h.TaskService.DeleteSubtask(r.Context(), taskID, subtaskID); err != nil {
		respondServiceError(w, "delete_subtask", err)
		return
	}

	logger.Info("HTTP_OUT: Подзадача удалена",
		zap.String("task_id", taskID.String()),
		zap.String("subtask_id", subtaskID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}
