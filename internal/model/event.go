package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoViolations is returned when an event is constructed without violations.
var ErrNoViolations = errors.New("violation event requires at least one detection")

// ViolationEvent is one frame's worth of confirmed violations.
type ViolationEvent struct {
	ID             string      `json:"id"`
	Timestamp      time.Time   `json:"timestamp"`
	Violations     []Detection `json:"violations"`
	ScreenshotPath string      `json:"screenshot_path,omitempty"`
	Alerted        bool        `json:"alerted"`
}

// NewViolationEvent creates an event with a fresh ID. An empty violation
// list is rejected.
func NewViolationEvent(now time.Time, violations []Detection) (*ViolationEvent, error) {
	if len(violations) == 0 {
		return nil, ErrNoViolations
	}
	return &ViolationEvent{
		ID:         uuid.New().String(),
		Timestamp:  now,
		Violations: violations,
	}, nil
}

// Labels returns the violation class of each detection, in detection order.
func (e *ViolationEvent) Labels() []string {
	labels := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		labels = append(labels, v.Label)
	}
	return labels
}

// Event is a violation event record as stored in the database.
type Event struct {
	ID         int64     `json:"id"`
	EventID    string    `json:"event_id"`
	Timestamp  time.Time `json:"timestamp"`
	Screenshot string    `json:"screenshot"`
	Alerted    bool      `json:"alerted"`
}

// EventDetection is a single detection row belonging to an event.
type EventDetection struct {
	ID         int64   `json:"id"`
	EventID    int64   `json:"event_id"`
	ClassName  string  `json:"class_name"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}
