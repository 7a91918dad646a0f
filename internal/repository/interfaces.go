package repository

import (
	"safetywatch/internal/dto"
	"safetywatch/internal/model"
)

// EventRepository defines the interface for violation event data operations.
type EventRepository interface {
	// Create operations
	Insert(event *model.Event) (int64, error)

	// Read operations
	GetByID(id int64) (*model.Event, error)
	GetByEventID(eventID string) (*model.Event, error)
	GetAll(filter *dto.EventFilters) ([]model.Event, error)
	GetTotalCount(filter *dto.EventFilters) (int, error)
	GetScreenshotDirSize() (int64, error)

	// Delete operations
	Delete(id int64) error
	DeleteAll() error
}

// DetectionRepository defines the interface for detection data operations.
type DetectionRepository interface {
	// Create operations
	InsertBatch(detections []model.EventDetection) error

	// Read operations
	GetByEventID(eventID int64) ([]model.EventDetection, error)
	GetClassNamesByEventID(eventID int64) ([]string, error)
	GetAllClassNames() ([]string, error)

	// Delete operations
	DeleteByEventID(eventID int64) error
}
