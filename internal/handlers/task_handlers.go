package handlers

import (
	"net/http"
	"path"
	"strings"
	"time"

	"dayTracker/internal/handlers/dto"
	"dayTracker/internal/logger"
	"dayTracker/internal/models/task"

	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
	// BasePath prefixes the Location header of created tasks.
	BasePath string
}

func NewTaskHandler(taskService TaskService, basePath string) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
		BasePath:    basePath,
	}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	page, pageErr := queryInt(r, "page", task.DefaultPage)
	pageSize, sizeErr := queryInt(r, "pageSize", task.DefaultPageSize)
	isDone, doneErr := queryBool(r, "isDone")
	categoryID, categoryErr := queryUUID(r, "categoryId")

	if fields := collect(pageErr, sizeErr, doneErr, categoryErr); len(fields) > 0 {
		logger.Warn("HTTP: Invalid query parameters",
			zap.Int("fields", len(fields)),
			zap.String("first_field", fields[0].Field),
			zap.String("client_ip", r.RemoteAddr))
		writeValidationError(w, r, fields...)
		return
	}

	filter := task.Filter{
		IsDone:     isDone,
		Search:     strings.TrimSpace(r.URL.Query().Get("search")),
		CategoryID: categoryID,
		Page:       page,
		PageSize:   pageSize,
	}

	res, err := h.TaskService.ListTasks(r.Context(), filter)
	if err != nil {
		handleServiceError(w, r, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: Tasks listed",
		zap.Int("count", len(res.Data.Items)),
		zap.Int("total", res.Data.TotalCount),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, fe := pathID(r, "id")
	if fe != nil {
		logger.Warn("HTTP: Invalid task id",
			zap.String("client_ip", r.RemoteAddr))
		writeValidationError(w, r, *fe)
		return
	}

	res, err := h.TaskService.GetTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}

	logger.Info("HTTP_OUT: Task found",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	res, err := h.TaskService.CreateTask(r.Context(), request.Input())
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Task created",
		zap.String("task_id", res.Data.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	w.Header().Set("Location", path.Join("/", h.BasePath, "tasks", res.Data.ID.String()))
	writeResult(w, r, res)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, fe := pathID(r, "id")
	if fe != nil {
		logger.Warn("HTTP: Invalid task id",
			zap.String("client_ip", r.RemoteAddr))
		writeValidationError(w, r, *fe)
		return
	}

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	res, err := h.TaskService.UpdateTask(r.Context(), id, request.Options()...)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Task updated",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}

func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, fe := pathID(r, "id")
	if fe != nil {
		logger.Warn("HTTP: Invalid task id",
			zap.String("client_ip", r.RemoteAddr))
		writeValidationError(w, r, *fe)
		return
	}

	res, err := h.TaskService.ToggleTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "toggle_task")
		return
	}

	logger.Info("HTTP_OUT: Task toggled",
		zap.String("task_id", id.String()),
		zap.Bool("is_done", res.Data.IsDone),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, fe := pathID(r, "id")
	if fe != nil {
		logger.Warn("HTTP: Invalid task id",
			zap.String("client_ip", r.RemoteAddr))
		writeValidationError(w, r, *fe)
		return
	}

	res, err := h.TaskService.DeleteTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Task deleted",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}
