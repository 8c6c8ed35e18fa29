package handlers

import (
	"encoding/json"
	"net/http"

	"dayTracker/internal/logger"
	"dayTracker/internal/middleware"
	"dayTracker/internal/service"

	"go.uber.org/zap"
)

// Envelope wraps every response body.
type Envelope struct {
	Success bool    `json:"success"`
	Message *string `json:"message"`
	Data    any     `json:"data"`
	TraceID *string `json:"traceId"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, code int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	body := Envelope{
		Success: success,
		Message: optional(message),
		Data:    data,
		TraceID: optional(middleware.GetRequestID(r.Context())),
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("HTTP: Failed to write response", zap.Error(err))
	}
}

// writeResult renders a successful service outcome. 204 has no body.
func writeResult[T any](w http.ResponseWriter, r *http.Request, res service.Result[T]) {
	code := int(res.Status)
	if code == 0 {
		code = http.StatusOK
	}
	if code == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeEnvelope(w, r, code, true, res.Message, res.Data)
}

func writeValidationError(w http.ResponseWriter, r *http.Request, fields ...service.FieldError) {
	writeEnvelope(w, r, http.StatusBadRequest, false, service.MsgValidation, fields)
}

// NotFound and MethodNotAllowed keep unknown routes inside the envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, r, http.StatusNotFound, false, "Resource not found", nil)
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, r, http.StatusMethodNotAllowed, false, "Method not allowed", nil)
}
