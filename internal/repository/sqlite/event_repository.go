package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"safetywatch/internal/dto"
	"safetywatch/internal/model"
)

// EventRepository implements repository.EventRepository for SQLite.
type EventRepository struct {
	db            *DB
	screenshotDir string
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(db *DB, screenshotDir string) *EventRepository {
	return &EventRepository{db: db, screenshotDir: screenshotDir}
}

// Insert adds a new violation event record to the database.
func (r *EventRepository) Insert(event *model.Event) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO events (event_id, timestamp, screenshot, alerted)
		VALUES (?, ?, ?, ?)
	`, event.EventID, event.Timestamp, event.Screenshot, event.Alerted)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	return result.LastInsertId()
}

// GetByID retrieves a single event by its database ID.
func (r *EventRepository) GetByID(id int64) (*model.Event, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var event model.Event
	err := r.db.Conn().QueryRow(`
		SELECT id, event_id, timestamp, screenshot, alerted
		FROM events WHERE id = ?
	`, id).Scan(&event.ID, &event.EventID, &event.Timestamp, &event.Screenshot, &event.Alerted)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query event: %w", err)
	}

	return &event, nil
}

// GetByEventID retrieves a single event by its UUID.
func (r *EventRepository) GetByEventID(eventID string) (*model.Event, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var event model.Event
	err := r.db.Conn().QueryRow(`
		SELECT id, event_id, timestamp, screenshot, alerted
		FROM events WHERE event_id = ?
	`, eventID).Scan(&event.ID, &event.EventID, &event.Timestamp, &event.Screenshot, &event.Alerted)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query event: %w", err)
	}

	return &event, nil
}

// buildFilterClause appends WHERE conditions for the filter to a base query.
func buildFilterClause(query string, filter *dto.EventFilters) (string, []interface{}) {
	args := []interface{}{}

	if filter.Class != "" {
		query += " AND d.class_name = ?"
		args = append(args, filter.Class)
	}

	if !filter.DateAfter.IsZero() {
		query += " AND DATE(e.timestamp) >= DATE(?)"
		args = append(args, filter.DateAfter)
	}

	if !filter.DateBefore.IsZero() {
		query += " AND DATE(e.timestamp) <= DATE(?)"
		args = append(args, filter.DateBefore)
	}

	return query, args
}

// GetAll retrieves events based on filter criteria, newest first.
func (r *EventRepository) GetAll(filter *dto.EventFilters) ([]model.Event, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `
		SELECT DISTINCT e.id, e.event_id, e.timestamp, e.screenshot, e.alerted
		FROM events e
		LEFT JOIN detections d ON e.id = d.event_id
		WHERE 1=1
	`
	query, args := buildFilterClause(query, filter)

	query += " ORDER BY e.timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite rejects OFFSET without LIMIT; -1 means unlimited.
		query += " LIMIT -1"
	}

	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var event model.Event
		if err := rows.Scan(&event.ID, &event.EventID, &event.Timestamp, &event.Screenshot, &event.Alerted); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	return events, nil
}

// GetTotalCount returns the count of events matching the filter (without limit/offset).
func (r *EventRepository) GetTotalCount(filter *dto.EventFilters) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `
		SELECT COUNT(DISTINCT e.id)
		FROM events e
		LEFT JOIN detections d ON e.id = d.event_id
		WHERE 1=1
	`
	query, args := buildFilterClause(query, filter)

	var count int
	if err := r.db.Conn().QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}

	return count, nil
}

// GetScreenshotDirSize walks the screenshot directory and sums file sizes.
func (r *EventRepository) GetScreenshotDirSize() (int64, error) {
	var size int64
	err := filepath.Walk(r.screenshotDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("failed to measure screenshot directory: %w", err)
	}
	return size, nil
}

// Delete removes an event record from the database.
func (r *EventRepository) Delete(id int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM detections WHERE event_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete event detections: %w", err)
	}

	if _, err := r.db.Conn().Exec(`DELETE FROM events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// DeleteAll removes all events and their detections.
func (r *EventRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM detections`); err != nil {
		return fmt.Errorf("failed to delete detections: %w", err)
	}

	if _, err := r.db.Conn().Exec(`DELETE FROM events`); err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}

	return nil
}
