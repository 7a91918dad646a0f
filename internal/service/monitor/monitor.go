package monitor

import (
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"safetywatch/internal/config"
	"safetywatch/internal/logger"
	"safetywatch/internal/metrics"
	"safetywatch/internal/model"
	"safetywatch/internal/service/ai"
	"safetywatch/internal/service/alert"
	"safetywatch/internal/service/publish"
	"safetywatch/internal/service/storage"
	"safetywatch/internal/service/video"
	"safetywatch/internal/service/violation"
	"safetywatch/internal/service/websocket"
)

// Service runs the frame-processing loop: read, detect, filter, annotate,
// persist, rate-limit, dispatch. One frame is fully processed before the
// next is read; only alert delivery happens off-loop.
type Service struct {
	cfg        *config.Config
	logger     *logger.Logger
	detector   *ai.DetectorService
	limiter    *alert.RateLimiter
	dispatcher *alert.Dispatcher
	store      *storage.ScreenshotService
	publisher  *publish.EventPublisher // nil when Kafka is disabled
	hub        *websocket.HubService
	metrics    *metrics.Metrics

	classes   model.ClassSet
	threshold float64

	stop chan struct{}
}

// NewService wires the processing loop. dispatcher and publisher may be nil
// when alerts or Kafka are disabled.
func NewService(cfg *config.Config, logger *logger.Logger, detector *ai.DetectorService,
	dispatcher *alert.Dispatcher, store *storage.ScreenshotService,
	publisher *publish.EventPublisher, hub *websocket.HubService, m *metrics.Metrics) *Service {
	return &Service{
		cfg:        cfg,
		logger:     logger,
		detector:   detector,
		limiter:    alert.NewRateLimiter(cfg.MinTimeBetweenAlerts),
		dispatcher: dispatcher,
		store:      store,
		publisher:  publisher,
		hub:        hub,
		metrics:    m,
		classes:    model.NewClassSet(cfg.ViolationClasses),
		threshold:  cfg.ConfidenceThreshold,
		stop:       make(chan struct{}),
	}
}

// Stop asks the processing loop to terminate after the current frame.
func (s *Service) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

// ProcessVideo runs the loop over the configured input until end of stream
// or Stop. A missing or unopenable source is a startup failure; per-frame
// collaborator failures are logged and processing continues.
func (s *Service) ProcessVideo() error {
	source, err := video.Open(s.cfg.VideoInput)
	if err != nil {
		return err
	}
	defer source.Close()

	s.logger.Info("Processing video: %s (%dx%d @ %.0f fps)",
		s.cfg.VideoInput, source.Width(), source.Height(), source.FPS())

	var writer *video.Writer
	if s.cfg.SaveOutput {
		writer, err = video.NewWriter(s.cfg.OutputDir, source)
		if err != nil {
			return fmt.Errorf("failed to set up output video: %w", err)
		}
		defer writer.Close()
	}

	frame := gocv.NewMat()
	defer frame.Close()

	frameCount := 0
	violationCount := 0

	for {
		select {
		case <-s.stop:
			s.logger.Info("Monitoring stopped by request")
			return s.finish(frameCount, violationCount, writer)
		default:
		}

		if !source.Read(&frame) {
			break
		}
		if frame.Empty() {
			continue
		}

		frameCount++
		s.metrics.FramesRead.Add(1)

		if !skipFrame(frameCount, s.cfg.ProcessingInterval) {
			if s.processFrame(&frame, frameCount) {
				violationCount++
			}
		}

		// Sampled-out frames still land in the output video, unannotated.
		if writer != nil {
			if err := writer.Write(frame); err != nil {
				s.logger.Error("Failed to write output frame: %v", err)
			}
		}
	}

	return s.finish(frameCount, violationCount, writer)
}

// processFrame handles one frame end to end and reports whether it contained
// violations.
func (s *Service) processFrame(frame *gocv.Mat, frameNum int) bool {
	now := time.Now()

	detections, err := s.detector.DetectFrame(*frame)
	if err != nil {
		s.metrics.DetectErrors.Add(1)
		s.logger.Error("Detection failed on frame %d: %v", frameNum, err)
		return false
	}
	s.metrics.FramesProcessed.Add(1)

	violations := violation.Filter(detections, s.classes, s.threshold)

	ai.Annotate(frame, detections, s.classes, now, len(violations))

	var jpeg []byte
	if needsEncode(s.hub.GetClientCount(), s.cfg.SaveScreenshots) {
		jpeg = s.encodeFrame(*frame)
	}
	if jpeg != nil {
		s.hub.BroadcastFrame(jpeg)
	}

	if len(violations) == 0 {
		return false
	}

	s.metrics.ViolationFrames.Add(1)
	s.logger.Info("Frame %d: %d violation(s) detected", frameNum, len(violations))

	event, err := model.NewViolationEvent(now, violations)
	if err != nil {
		s.logger.Error("Failed to build violation event: %v", err)
		return true
	}

	if s.cfg.SaveScreenshots && jpeg != nil {
		event.ScreenshotPath = s.store.SaveScreenshot(event, jpeg)
		if event.ScreenshotPath == "" {
			s.metrics.ScreenshotErrors.Add(1)
		}
	}

	// The cooldown decision is made synchronously here so the next frame
	// observes the updated state; delivery itself happens on the dispatcher
	// worker. A failed delivery does not reopen the window.
	if s.dispatcher != nil {
		if s.limiter.ShouldDispatch(now) {
			event.Alerted = true
			s.metrics.AlertsSent.Add(1)
			if !s.dispatcher.Enqueue(event) {
				s.metrics.AlertsDropped.Add(1)
			}
		} else {
			s.metrics.AlertsSuppressed.Add(1)
		}
	}

	if err := s.store.RecordEvent(event); err != nil {
		s.logger.Error("Failed to record event %s: %v", event.ID, err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(event); err != nil {
			s.metrics.PublishErrors.Add(1)
			s.logger.Error("Failed to publish event %s: %v", event.ID, err)
		}
	}

	s.hub.BroadcastEvent(event)
	return true
}

// skipFrame reports whether sampling passes over this frame.
func skipFrame(frameCount, interval int) bool {
	return interval > 1 && frameCount%interval != 0
}

// needsEncode reports whether the frame has any JPEG consumer: a connected
// viewer or screenshot capture.
func needsEncode(clientCount int, saveScreenshots bool) bool {
	return clientCount > 0 || saveScreenshots
}

// encodeFrame converts a frame to JPEG, returning nil on failure.
func (s *Service) encodeFrame(frame gocv.Mat) []byte {
	buf, err := gocv.IMEncode(".jpg", frame)
	if err != nil {
		s.logger.Error("Failed to encode frame: %v", err)
		return nil
	}
	defer buf.Close()

	jpeg := make([]byte, len(buf.GetBytes()))
	copy(jpeg, buf.GetBytes())
	return jpeg
}

// finish logs the session summary.
func (s *Service) finish(frameCount, violationCount int, writer *video.Writer) error {
	s.logger.Info("=== Detection complete ===")
	s.logger.Info("Total frames processed: %d", frameCount)
	s.logger.Info("Frames with violations: %d", violationCount)
	if writer != nil {
		s.logger.Info("Output saved to: %s", writer.Path())
	}
	return nil
}
