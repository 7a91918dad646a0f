package dto

import "time"

// EventFilters contains filtering options for querying violation events.
type EventFilters struct {
	Class      string
	DateAfter  time.Time
	DateBefore time.Time
	Limit      int
	Offset     int
}
