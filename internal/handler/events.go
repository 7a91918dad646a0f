package handler

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"safetywatch/internal/config"
	"safetywatch/internal/dto"
	"safetywatch/internal/logger"
	"safetywatch/internal/repository"
)

// GetEventsHandler returns a filtered, paginated list of violation events.
func GetEventsHandler(cfg *config.Config, logger *logger.Logger,
	eventRepo repository.EventRepository, detectionRepo repository.DetectionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), 24)

		filter := &dto.EventFilters{
			Class:      q.Get("class"),
			DateAfter:  parseDate(q.Get("dateAfter")),
			DateBefore: parseDate(q.Get("dateBefore")),
			Limit:      limit,
			Offset:     (page - 1) * limit,
		}

		events, err := eventRepo.GetAll(filter)
		if err != nil {
			logger.Error("Error querying events from database: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		totalSize, err := eventRepo.GetScreenshotDirSize()
		if err != nil {
			logger.Error("Error getting screenshot directory size: %v", err)
			totalSize = 0
		}

		totalCount, err := eventRepo.GetTotalCount(filter)
		if err != nil {
			logger.Error("Error counting events: %v", err)
			totalCount = len(events)
		}

		var infos []dto.EventInfo
		for _, event := range events {
			classes, err := detectionRepo.GetClassNamesByEventID(event.ID)
			if err != nil {
				logger.Error("Error getting classes for event %d: %v", event.ID, err)
				classes = []string{}
			}

			infos = append(infos, dto.EventInfo{
				ID:         event.ID,
				EventID:    event.EventID,
				Timestamp:  event.Timestamp,
				Classes:    classes,
				Screenshot: filepath.Base(event.Screenshot),
				Alerted:    event.Alerted,
			})
		}

		data := dto.EventsData{
			Events:      infos,
			Length:      totalCount,
			TotalPages:  (totalCount + limit - 1) / limit,
			CurrentPage: page,
			Limit:       limit,
			Size:        totalSize,
			MaxSize:     cfg.MaxScreenshotDir,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Error("Error encoding JSON response: %v", err)
		}
	}
}

// ViewScreenshotHandler serves a screenshot file from the screenshot directory.
func ViewScreenshotHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := r.URL.Query().Get("filename")
		if filename == "" || filename != filepath.Base(filename) {
			http.Error(w, "Filename required", http.StatusBadRequest)
			return
		}

		path := filepath.Join(cfg.ScreenshotDir, filename)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, path)
	}
}

// DeleteEventHandler removes an event, its detections and its screenshot.
func DeleteEventHandler(cfg *config.Config, logger *logger.Logger,
	eventRepo repository.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil {
			http.Error(w, "Event id required", http.StatusBadRequest)
			return
		}

		event, err := eventRepo.GetByID(id)
		if err != nil {
			logger.Error("Error querying event %d: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if event == nil {
			http.NotFound(w, r)
			return
		}

		if event.Screenshot != "" {
			if err := os.Remove(event.Screenshot); err != nil && !os.IsNotExist(err) {
				logger.Error("Failed to delete screenshot %s: %v", event.Screenshot, err)
			}
		}

		if err := eventRepo.Delete(id); err != nil {
			logger.Error("Failed to delete event %d: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		logger.Info("Deleted event %d", id)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
	}
}

// atoiDefault parses a positive integer, falling back to def.
func atoiDefault(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return def
}

// parseDate parses a YYYY-MM-DD query parameter, zero time when absent.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
