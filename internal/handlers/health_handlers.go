package handlers

import (
	"net/http"
	"time"

	"dayTracker/internal/handlers/dto"
	"dayTracker/internal/health"
	"dayTracker/internal/logger"

	"go.uber.org/zap"
)

const (
	statusHealthy   = "Healthy"
	statusUnhealthy = "Unhealthy"

	msgHealthy   = "Service is healthy"
	msgUnhealthy = "Service is unhealthy"
)

type HealthHandler struct {
	Storage HealthChecker
	Info    health.InfoProvider
}

func NewHealthHandler(storage HealthChecker, info health.InfoProvider) HealthHandler {
	return HealthHandler{
		Storage: storage,
		Info:    info,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status, code := statusHealthy, http.StatusOK
	if err := h.Storage.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Storage health check failed", err,
			zap.String("client_ip", r.RemoteAddr))
		status, code = statusUnhealthy, http.StatusServiceUnavailable
	}
	message := msgHealthy
	if code != http.StatusOK {
		message = msgUnhealthy
	}

	body := dto.HealthResponse{
		Status:      status,
		Version:     h.Info.Version(),
		Environment: h.Info.Environment(),
		Timestamp:   h.Info.Now().Format(time.RFC3339Nano),
		MachineName: h.Info.MachineName(),
		ProcessID:   h.Info.ProcessID(),
	}

	logger.Debug("HTTP_OUT: Health reported",
		zap.String("status", status),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", code))

	writeEnvelope(w, r, code, code == http.StatusOK, message, body)
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, r, http.StatusOK, true, msgHealthy, dto.PingResponse{
		Status:    "OK",
		Timestamp: h.Info.Now().Format(time.RFC3339Nano),
	})
}
