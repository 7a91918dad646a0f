package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"safetywatch/internal/config"
	"safetywatch/internal/logger"
	"safetywatch/internal/model"
	"safetywatch/internal/repository"
)

const screenshotTimeFormat = "20060102_150405.000"

// legacyScreenshotTimeFormat is the name written by earlier deployments,
// without a millisecond fraction.
const legacyScreenshotTimeFormat = "20060102_150405"

// ScreenshotService writes violation screenshots to disk and records the
// event in the database. A failed screenshot write is not fatal; the caller
// proceeds without the attachment.
type ScreenshotService struct {
	dir           string
	maxDirBytes   int64
	logger        *logger.Logger
	eventRepo     repository.EventRepository
	detectionRepo repository.DetectionRepository
	mu            sync.Mutex
}

// NewScreenshotService creates the service and ensures the directory exists.
func NewScreenshotService(config *config.Config, logger *logger.Logger,
	eventRepo repository.EventRepository, detectionRepo repository.DetectionRepository) (*ScreenshotService, error) {
	if err := os.MkdirAll(config.ScreenshotDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	return &ScreenshotService{
		dir:           config.ScreenshotDir,
		maxDirBytes:   config.MaxScreenshotDir * 1024 * 1024 * 1024,
		logger:        logger,
		eventRepo:     eventRepo,
		detectionRepo: detectionRepo,
	}, nil
}

// SaveScreenshot writes the annotated JPEG for an event and returns its path.
// On failure it logs and returns "".
func (s *ScreenshotService) SaveScreenshot(event *model.ViolationEvent, jpeg []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	filename := ScreenshotFilename(event.Timestamp)
	fullpath := filepath.Join(s.dir, filename)

	if err := os.WriteFile(fullpath, jpeg, 0644); err != nil {
		s.logger.Error("Failed to save screenshot %s: %v", filename, err)
		return ""
	}

	s.pruneDirectory()

	s.logger.Info("📸 Screenshot saved: %s", fullpath)
	return fullpath
}

// RecordEvent persists the event and its detections.
func (s *ScreenshotService) RecordEvent(event *model.ViolationEvent) error {
	id, err := s.eventRepo.Insert(&model.Event{
		EventID:    event.ID,
		Timestamp:  event.Timestamp,
		Screenshot: event.ScreenshotPath,
		Alerted:    event.Alerted,
	})
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	detections := make([]model.EventDetection, 0, len(event.Violations))
	for _, v := range event.Violations {
		detections = append(detections, model.EventDetection{
			EventID:    id,
			ClassName:  v.Label,
			Confidence: v.Confidence,
			X:          v.X,
			Y:          v.Y,
			Width:      v.Width,
			Height:     v.Height,
		})
	}

	if err := s.detectionRepo.InsertBatch(detections); err != nil {
		return fmt.Errorf("failed to record detections: %w", err)
	}

	return nil
}

// pruneDirectory deletes oldest screenshots while the directory exceeds the
// configured size limit. Called with the mutex held.
func (s *ScreenshotService) pruneDirectory() {
	if s.maxDirBytes <= 0 {
		return
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Error("Failed to read screenshot directory: %v", err)
		return
	}

	type fileInfo struct {
		name    string
		size    int64
		modTime time.Time
	}

	var files []fileInfo
	var total int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{name: entry.Name(), size: info.Size(), modTime: info.ModTime()})
		total += info.Size()
	}

	if total <= s.maxDirBytes {
		return
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	for _, f := range files {
		if total <= s.maxDirBytes {
			break
		}
		if err := os.Remove(filepath.Join(s.dir, f.name)); err != nil {
			s.logger.Error("Failed to prune screenshot %s: %v", f.name, err)
			continue
		}
		total -= f.size
		s.logger.Warning("Pruned old screenshot %s (directory over limit)", f.name)
	}
}

// ScreenshotFilename builds the on-disk name for a violation timestamp.
func ScreenshotFilename(ts time.Time) string {
	return fmt.Sprintf("violation_%s.jpg", ts.Format(screenshotTimeFormat))
}

// ParseScreenshotFilename recovers the timestamp from a screenshot filename.
// Used by the migrate command to import legacy screenshot directories.
func ParseScreenshotFilename(filename string) (time.Time, error) {
	name := strings.TrimSuffix(filename, ".jpg")
	name = strings.TrimPrefix(name, "violation_")

	ts, err := time.Parse(screenshotTimeFormat, name)
	if err != nil {
		ts, err = time.Parse(legacyScreenshotTimeFormat, name)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid screenshot filename %s: %w", filename, err)
	}
	return ts, nil
}
