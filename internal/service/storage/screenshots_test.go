package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"safetywatch/internal/config"
	"safetywatch/internal/logger"
	"safetywatch/internal/model"
	"safetywatch/internal/repository/sqlite"
)

func newTestService(t *testing.T, screenshotDir string) *ScreenshotService {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		ScreenshotDir:    screenshotDir,
		MaxScreenshotDir: 1,
		LogDirectory:     t.TempDir(),
	}

	svc, err := NewScreenshotService(cfg, logger.NewLogger(cfg),
		sqlite.NewEventRepository(db, screenshotDir), sqlite.NewDetectionRepository(db))
	if err != nil {
		t.Fatalf("Failed to create screenshot service: %v", err)
	}
	return svc
}

func newTestEvent(t *testing.T) *model.ViolationEvent {
	t.Helper()
	event, err := model.NewViolationEvent(
		time.Date(2025, 6, 1, 10, 30, 15, 0, time.UTC),
		[]model.Detection{{Label: "no_helmet", Confidence: 0.9, X: 5, Y: 6, Width: 20, Height: 30}},
	)
	if err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}
	return event
}

func TestSaveScreenshot_WritesFile(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, dir)
	event := newTestEvent(t)

	path := svc.SaveScreenshot(event, []byte{0xFF, 0xD8, 0xFF, 0xD9})
	if path == "" {
		t.Fatal("SaveScreenshot returned empty path")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Screenshot file not readable: %v", err)
	}
	if len(data) != 4 {
		t.Errorf("Unexpected screenshot content length: %d", len(data))
	}
	if filepath.Base(path) != "violation_20250601_103015.000.jpg" {
		t.Errorf("Unexpected screenshot filename: %s", filepath.Base(path))
	}
}

func TestSaveScreenshot_FailureReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, dir)

	// Make the directory unwritable so the write fails.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("Failed to remove directory: %v", err)
	}
	if err := os.WriteFile(dir, []byte("not a directory"), 0644); err != nil {
		t.Fatalf("Failed to block directory path: %v", err)
	}

	path := svc.SaveScreenshot(newTestEvent(t), []byte{0xFF})
	if path != "" {
		t.Errorf("Expected empty path on write failure, got %s", path)
	}
}

func TestRecordEvent_RoundTrip(t *testing.T) {
	svc := newTestService(t, t.TempDir())
	event := newTestEvent(t)
	event.ScreenshotPath = "screenshots/violation_20250601_103015.000.jpg"

	if err := svc.RecordEvent(event); err != nil {
		t.Fatalf("RecordEvent failed: %v", err)
	}

	stored, err := svc.eventRepo.GetByEventID(event.ID)
	if err != nil {
		t.Fatalf("Failed to read back event: %v", err)
	}
	if stored == nil {
		t.Fatal("Event not stored")
	}
	if stored.Screenshot != event.ScreenshotPath {
		t.Errorf("Screenshot path = %s, expected %s", stored.Screenshot, event.ScreenshotPath)
	}

	dets, err := svc.detectionRepo.GetByEventID(stored.ID)
	if err != nil {
		t.Fatalf("Failed to read back detections: %v", err)
	}
	if len(dets) != 1 || dets[0].ClassName != "no_helmet" {
		t.Errorf("Unexpected detections: %+v", dets)
	}
}

func TestRecordEvent_KeepsAlertedFlag(t *testing.T) {
	svc := newTestService(t, t.TempDir())
	event := newTestEvent(t)
	event.Alerted = true

	if err := svc.RecordEvent(event); err != nil {
		t.Fatalf("RecordEvent failed: %v", err)
	}

	stored, err := svc.eventRepo.GetByEventID(event.ID)
	if err != nil {
		t.Fatalf("Failed to read back event: %v", err)
	}
	if !stored.Alerted {
		t.Error("Stored event should carry the alerted flag")
	}
}

func TestParseScreenshotFilename(t *testing.T) {
	tests := []struct {
		filename string
		valid    bool
	}{
		{"violation_20250601_103015.000.jpg", true},
		{"violation_20251231_235959.999.jpg", true},
		{"violation_2025-06-01_103015.jpg", false},
		{"snapshot_20250601_103015.000.jpg", false},
		{"violation_garbage.jpg", false},
		{"", false},
	}

	for _, tt := range tests {
		ts, err := ParseScreenshotFilename(tt.filename)
		if tt.valid && err != nil {
			t.Errorf("ParseScreenshotFilename(%q) failed: %v", tt.filename, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ParseScreenshotFilename(%q) should fail", tt.filename)
		}
		if tt.valid && ScreenshotFilename(ts) != tt.filename {
			t.Errorf("Round trip mismatch for %q: got %q", tt.filename, ScreenshotFilename(ts))
		}
	}
}

// Earlier deployments named screenshots without a millisecond fraction; the
// migrate command still has to import those directories.
func TestParseScreenshotFilename_LegacyName(t *testing.T) {
	ts, err := ParseScreenshotFilename("violation_20250601_103015.jpg")
	if err != nil {
		t.Fatalf("ParseScreenshotFilename failed on legacy name: %v", err)
	}

	want := time.Date(2025, 6, 1, 10, 30, 15, 0, time.UTC)
	if !ts.Equal(want) {
		t.Errorf("Parsed timestamp = %v, expected %v", ts, want)
	}
}
