package handlers

import (
	"net/http"

	"dayTracker/internal/logger"
	"dayTracker/internal/middleware"
	"dayTracker/internal/service"

	"go.uber.org/zap"
)

// handleServiceError renders any error returned by a service call.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	busErr, ok := service.AsBusinessError(err)
	if !ok || busErr.Status == service.StatusInternal {
		logger.Error("HTTP: Service error", err,
			zap.String("operation", operation),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("client_ip", r.RemoteAddr))

		writeEnvelope(w, r, http.StatusInternalServerError, false, service.MsgInternal, nil)
		return
	}

	statusCode := mapBusinessErrorToHTTP(busErr.Status)

	logger.Warn("HTTP: Business error",
		zap.String("operation", operation),
		zap.String("error_code", busErr.Code),
		zap.Int("http_status", statusCode))

	if busErr.Code == service.CodeValidation {
		writeEnvelope(w, r, statusCode, false, busErr.Message, busErr.Fields)
		return
	}

	data := map[string]any{"code": busErr.Code}
	for k, v := range busErr.Details {
		data[k] = v
	}
	writeEnvelope(w, r, statusCode, false, busErr.Message, data)
}

func mapBusinessErrorToHTTP(status service.Status) int {
	switch status {
	case service.StatusBadRequest:
		return http.StatusBadRequest
	case service.StatusNotFound:
		return http.StatusNotFound
	case service.StatusUnprocessable:
		return http.StatusUnprocessableEntity
	case service.StatusInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
