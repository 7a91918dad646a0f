package route

import (
	"net/http"

	"safetywatch/internal/config"
	"safetywatch/internal/handler"
	"safetywatch/internal/logger"
	"safetywatch/internal/metrics"
	"safetywatch/internal/middleware"
	"safetywatch/internal/repository"
	"safetywatch/internal/service/websocket"
)

// SetupRoutes registers the HTTP API, the viewer WebSocket endpoint and the
// Prometheus metrics handler.
func SetupRoutes(cfg *config.Config, logger *logger.Logger, hub *websocket.HubService,
	eventRepo repository.EventRepository, detectionRepo repository.DetectionRepository,
	m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	// Live viewing
	mux.HandleFunc("/api/view", handler.ViewWebsocketHandler(hub, logger))

	// Violation events API
	mux.HandleFunc("/api/events", handler.GetEventsHandler(cfg, logger, eventRepo, detectionRepo))
	mux.HandleFunc("/api/events/view", handler.ViewScreenshotHandler(cfg))
	mux.HandleFunc("/api/events/delete", handler.DeleteEventHandler(cfg, logger, eventRepo))

	// Operational endpoints
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return middleware.APIKeyMiddleware(cfg, mux)
}
