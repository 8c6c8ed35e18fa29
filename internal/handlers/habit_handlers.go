package handlers

import (
	"net/http"
	"strings"
	"time"

	"dayTracker/internal/handlers/dto"
	"dayTracker/internal/logger"
	"dayTracker/internal/service"

	"go.uber.org/zap"
)

type HabitHandler struct {
	HabitService HabitService
}

func NewHabitHandler(habitService HabitService) HabitHandler {
	return HabitHandler{
		HabitService: habitService,
	}
}

// habitActiveFilter defaults to active habits; "all" disables the filter.
func habitActiveFilter(r *http.Request) (*bool, *service.FieldError) {
	raw := strings.TrimSpace(r.URL.Query().Get("isActive"))
	switch {
	case raw == "":
		active := true
		return &active, nil
	case strings.EqualFold(raw, "all"):
		return nil, nil
	default:
		return queryBool(r, "isActive")
	}
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	isActive, activeErr := habitActiveFilter(r)
	weekStart, weekErr := queryDate(r, "weekStartDate")

	if fields := collect(activeErr, weekErr); len(fields) > 0 {
		logger.Warn("HTTP: Invalid query parameters",
			zap.Int("fields", len(fields)),
			zap.String("first_field", fields[0].Field),
			zap.String("client_ip", r.RemoteAddr))
		writeValidationError(w, r, fields...)
		return
	}

	res, err := h.HabitService.ListHabits(r.Context(), isActive, weekStart)
	if err != nil {
		handleServiceError(w, r, err, "list_habits")
		return
	}

	logger.Info("HTTP_OUT: Habits listed",
		zap.Int("count", len(res.Data)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.HabitRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	res, err := h.HabitService.CreateHabit(r.Context(), request.Input())
	if err != nil {
		handleServiceError(w, r, err, "create_habit")
		return
	}

	logger.Info("HTTP_OUT: Habit created",
		zap.String("habit_id", res.Data.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, fe := pathID(r, "id")
	if fe != nil {
		logger.Warn("HTTP: Invalid habit id",
			zap.String("client_ip", r.RemoteAddr))
		writeValidationError(w, r, *fe)
		return
	}

	var request dto.HabitRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	res, err := h.HabitService.UpdateHabit(r.Context(), id, request.Input())
	if err != nil {
		handleServiceError(w, r, err, "update_habit")
		return
	}

	logger.Info("HTTP_OUT: Habit updated",
		zap.String("habit_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, fe := pathID(r, "id")
	if fe != nil {
		logger.Warn("HTTP: Invalid habit id",
			zap.String("client_ip", r.RemoteAddr))
		writeValidationError(w, r, *fe)
		return
	}

	res, err := h.HabitService.DeleteHabit(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "delete_habit")
		return
	}

	logger.Info("HTTP_OUT: Habit deleted",
		zap.String("habit_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}

func (h *HabitHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.ReorderHabitsRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	res, err := h.HabitService.ReorderHabits(r.Context(), request.Habits)
	if err != nil {
		handleServiceError(w, r, err, "reorder_habits")
		return
	}

	logger.Info("HTTP_OUT: Habits reordered",
		zap.Int("count", len(request.Habits)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}

func (h *HabitHandler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	habitID, fe := pathID(r, "id")
	if fe != nil {
		logger.Warn("HTTP: Invalid habit id",
			zap.String("client_ip", r.RemoteAddr))
		writeValidationError(w, r, *fe)
		return
	}

	var request dto.HabitEntryRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	res, err := h.HabitService.UpsertEntry(r.Context(), habitID, request.Input())
	if err != nil {
		handleServiceError(w, r, err, "upsert_habit_entry")
		return
	}

	logger.Info("HTTP_OUT: Habit entry saved",
		zap.String("habit_id", habitID.String()),
		zap.String("date", res.Data.Date.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", int(res.Status)))

	writeResult(w, r, res)
}
