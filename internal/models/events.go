package models

import "time"

// Event types
const (
	EventTypeBookingCreated = "BOOKING_CREATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingCreatedEvent is handed to the notifier after a booking is recorded
type BookingCreatedEvent struct {
	BaseEvent
	BookingID   string       `json:"booking_id"`
	BookingType string       `json:"booking_type"`
	Summary     string       `json:"summary"`
	TotalPrice  Money        `json:"total_price"`
	Fields      []EventField `json:"fields"`
}

// EventField is one labelled line of a human-readable summary
type EventField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
