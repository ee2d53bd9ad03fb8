// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatsReservedQueue is the durable queue reservation events are routed to.
const SeatsReservedQueue = "screening.seats_reserved"

// SeatsReservedEvent is published after seats were successfully reserved on
// a screening.  It carries enough information for downstream consumers to
// log or notify without calling back into the booking API.
type SeatsReservedEvent struct {
	EventID       string `json:"event_id"`
	ScreeningID   int64  `json:"screening_id"`
	Title         string `json:"title"`
	StartTime     string `json:"start_time"`
	SeatsReserved int    `json:"seats_reserved"`
	FreeSeats     int    `json:"free_seats"`
	ReservedAt    string `json:"reserved_at"`
}
