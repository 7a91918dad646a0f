package app

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"safetywatch/internal/config"
	"safetywatch/internal/logger"
	"safetywatch/internal/metrics"
	"safetywatch/internal/repository/sqlite"
	"safetywatch/internal/route"
	"safetywatch/internal/service/ai"
	"safetywatch/internal/service/alert"
	"safetywatch/internal/service/monitor"
	"safetywatch/internal/service/publish"
	"safetywatch/internal/service/storage"
	"safetywatch/internal/service/websocket"
)

type App struct {
	config     *config.Config
	logger     *logger.Logger
	db         *sqlite.DB
	detector   *ai.DetectorService
	hub        *websocket.HubService
	dispatcher *alert.Dispatcher
	publisher  *publish.EventPublisher
	metrics    *metrics.Metrics
	monitor    *monitor.Service
	router     http.Handler
}

// NewApp wires all services from configuration. Missing model files, an
// unopenable database or a dead Telegram token fail here, before any frame
// is read.
func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)
	m := metrics.New()

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	eventRepo := sqlite.NewEventRepository(db, cfg.ScreenshotDir)
	detectionRepo := sqlite.NewDetectionRepository(db)

	detector, err := ai.NewDetectorService(cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewScreenshotService(cfg, log, eventRepo, detectionRepo)
	if err != nil {
		return nil, err
	}

	hub := websocket.NewHubService(log)

	var dispatcher *alert.Dispatcher
	if cfg.EnableAlerts {
		notifier, err := alert.NewTelegramNotifier(cfg, log)
		if err != nil {
			return nil, err
		}
		if err := notifier.TestConnection(); err != nil {
			return nil, err
		}
		log.Info("Telegram connection successful")
		dispatcher = alert.NewDispatcher(notifier, cfg.AlertQueueSize, log, func() {
			m.NotifyErrors.Add(1)
		})
	} else {
		log.Warning("Alerts disabled - violations will only be recorded")
	}

	var publisher *publish.EventPublisher
	if cfg.EnableKafka {
		publisher, err = publish.NewEventPublisher(cfg, log)
		if err != nil {
			return nil, err
		}
	}

	mon := monitor.NewService(cfg, log, detector, dispatcher, store, publisher, hub, m)

	return &App{
		config:     cfg,
		logger:     log,
		db:         db,
		detector:   detector,
		hub:        hub,
		dispatcher: dispatcher,
		publisher:  publisher,
		metrics:    m,
		monitor:    mon,
		router:     route.SetupRoutes(cfg, log, hub, eventRepo, detectionRepo, m),
	}, nil
}

// Run starts the HTTP server and the processing loop, and shuts everything
// down on SIGINT/SIGTERM or end of stream.
func (a *App) Run() error {
	go a.hub.Run()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Port),
		Handler: a.router,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server failed: %v", err)
		}
	}()

	a.logger.Info("🚀 Safety monitoring started")
	a.logger.Info("📍 URL: http://localhost:%d", a.config.Port)
	a.logger.Info("🎥 Input: %s", a.config.VideoInput)
	a.logger.Info("🤖 Model: %s", a.config.ModelPath)
	a.logger.Info("⏱  Alert cooldown: %s", a.config.MinTimeBetweenAlerts)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		a.logger.Info("Interrupt received, stopping...")
		a.monitor.Stop()
	}()

	err := a.monitor.ProcessVideo()

	a.shutdown(server)
	return err
}

func (a *App) shutdown(server *http.Server) {
	if a.dispatcher != nil {
		a.dispatcher.Stop()
	}
	if a.publisher != nil {
		a.publisher.Close()
	}
	a.detector.Close()
	server.Close()
	if err := a.db.Close(); err != nil {
		a.logger.Error("Failed to close database: %v", err)
	}
	a.logger.Info("🛑 Safety monitoring stopped")
}
