package model

import (
	"errors"
	"time"
)

// ErrCapacityExceeded is returned by Book when the screening does not have
// enough free seats left for the requested amount.
var ErrCapacityExceeded = errors.New("not enough free seats")

// Screening represents one showing of a movie together with its seat
// counters.  Capacity is fixed when the screening is created; FreeSeats
// starts equal to Capacity and only ever goes down through Book.
//
// Fields:
//  ID        – identifier assigned by the store, immutable afterwards.
//  Title     – movie title, never blank.
//  StartTime – when the screening begins (local date-time).
//  Capacity  – total number of seats.
//  FreeSeats – seats still available, 0 <= FreeSeats <= Capacity.
type Screening struct {
	ID        int64
	Title     string
	StartTime time.Time
	Capacity  int
	FreeSeats int
}

// NewScreening builds a screening with all of its seats free.  The ID is
// left zero; the store assigns it on insert.
func NewScreening(title string, start time.Time, capacity int) *Screening {
	return &Screening{
		Title:     title,
		StartTime: start,
		Capacity:  capacity,
		FreeSeats: capacity,
	}
}

// Book takes n seats off the free seat counter.  When fewer than n seats
// are free it returns ErrCapacityExceeded and nothing changes.
func (s *Screening) Book(n int) error {
	if s.FreeSeats < n {
		return ErrCapacityExceeded
	}
	s.FreeSeats -= n
	return nil
}
