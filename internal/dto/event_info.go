package dto

import "time"

// EventInfo is a violation event as returned by the events API.
type EventInfo struct {
	ID         int64     `json:"id"`
	EventID    string    `json:"event_id"`
	Timestamp  time.Time `json:"timestamp"`
	Classes    []string  `json:"classes"`
	Screenshot string    `json:"screenshot"`
	Alerted    bool      `json:"alerted"`
}

// EventsData is the paginated events API response.
type EventsData struct {
	Events      []EventInfo `json:"events"`
	Length      int         `json:"length"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	Limit       int         `json:"limit"`
	Size        int64       `json:"size"`
	MaxSize     int64       `json:"maxSize"`
}
