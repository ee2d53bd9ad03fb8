// Package service implements the booking operations exposed by the API.
// Every operation returns either a view value or an *Error whose Kind tells
// the caller what went wrong.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-screening-booking/internal/model"
	"github.com/iliyamo/cinema-screening-booking/internal/queue"
	"github.com/iliyamo/cinema-screening-booking/internal/repository"
)

// MinCapacity is the smallest seat capacity a screening may be created with.
const MinCapacity = 20

// ScreeningStore is the storage the service needs.  *repository.ScreeningRepo
// implements it.
type ScreeningStore interface {
	Add(ctx context.Context, s *model.Screening) error
	GetByID(ctx context.Context, id int64) (model.Screening, error)
	List(ctx context.Context, title *string) ([]model.Screening, error)
	Update(ctx context.Context, id int64, fn func(s *model.Screening) error) (model.Screening, error)
	Clear(ctx context.Context) error
}

// EventPublisher receives reservation events.  *queue.Publisher implements it.
type EventPublisher interface {
	PublishSeatsReserved(ctx context.Context, ev queue.SeatsReservedEvent) error
}

type noopPublisher struct{}

func (noopPublisher) PublishSeatsReserved(context.Context, queue.SeatsReservedEvent) error { return nil }

// BookingService is the single entry point the API layer talks to.
type BookingService struct {
	store     ScreeningStore
	publisher EventPublisher
	logger    logrus.FieldLogger
	now       func() time.Time
}

// Option configures optional BookingService dependencies.
type Option func(*BookingService)

// WithPublisher sends a SeatsReservedEvent through p after every successful
// reservation.
func WithPublisher(p EventPublisher) Option {
	return func(s *BookingService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger overrides the default logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *BookingService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now, used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *BookingService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewBookingService wires a BookingService around store.
func NewBookingService(store ScreeningStore, opts ...Option) *BookingService {
	svc := &BookingService{
		store:     store,
		publisher: noopPublisher{},
		logger:    logrus.StandardLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// CreateScreeningCommand carries the input of CreateScreening.
type CreateScreeningCommand struct {
	Title         string
	StartTime     time.Time
	NumberOfSeats int
}

// ReserveSeatsCommand carries the input of ReserveSeats.
type ReserveSeatsCommand struct {
	NumberOfSeats int
}

// UpdateStartTimeCommand carries the input of UpdateStartTime.
type UpdateStartTimeCommand struct {
	Date time.Time
}

// ListScreenings returns summaries of all screenings in creation order.
// When title is not nil only screenings whose title equals it ignoring case
// are returned; the comparison is exact otherwise, whitespace included.
func (s *BookingService) ListScreenings(ctx context.Context, title *string) ([]ScreeningSummary, error) {
	list, err := s.store.List(ctx, title)
	if err != nil {
		return nil, err
	}
	out := make([]ScreeningSummary, 0, len(list))
	for _, sc := range list {
		out = append(out, toSummary(sc))
	}
	return out, nil
}

// GetScreening returns the screening with the given id.
func (s *BookingService) GetScreening(ctx context.Context, id int64) (ScreeningView, error) {
	sc, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ScreeningView{}, s.translate(err, id)
	}
	return toView(sc), nil
}

// CreateScreening stores a new screening with every seat free.
func (s *BookingService) CreateScreening(ctx context.Context, cmd CreateScreeningCommand) (ScreeningView, error) {
	var violations []Violation
	if strings.TrimSpace(cmd.Title) == "" {
		violations = append(violations, Violation{Field: "title", Message: MsgNotBlank})
	}
	if cmd.NumberOfSeats < MinCapacity {
		violations = append(violations, Violation{Field: "numberOfSeats", Message: MsgMin(MinCapacity)})
	}
	if len(violations) > 0 {
		return ScreeningView{}, NewValidationError(violations...)
	}

	sc := model.NewScreening(cmd.Title, cmd.StartTime, cmd.NumberOfSeats)
	if err := s.store.Add(ctx, sc); err != nil {
		return ScreeningView{}, err
	}
	s.logger.WithFields(logrus.Fields{
		"screening_id": sc.ID,
		"title":        sc.Title,
		"seats":        sc.Capacity,
	}).Info("screening created")
	return toView(*sc), nil
}

// ReserveSeats books cmd.NumberOfSeats seats on screening id.  The check
// against the free seats and the decrement happen atomically in the store.
func (s *BookingService) ReserveSeats(ctx context.Context, id int64, cmd ReserveSeatsCommand) (ScreeningView, error) {
	if cmd.NumberOfSeats < 1 {
		return ScreeningView{}, NewValidationError(Violation{Field: "numberOfSeats", Message: MsgMin(1)})
	}
	sc, err := s.store.Update(ctx, id, func(sc *model.Screening) error {
		return sc.Book(cmd.NumberOfSeats)
	})
	if err != nil {
		if errors.Is(err, model.ErrCapacityExceeded) {
			s.logger.WithFields(logrus.Fields{
				"screening_id": id,
				"requested":    cmd.NumberOfSeats,
				"free_seats":   sc.FreeSeats,
			}).Info("reservation rejected")
		}
		return ScreeningView{}, s.translate(err, id)
	}

	s.logger.WithFields(logrus.Fields{
		"screening_id": id,
		"reserved":     cmd.NumberOfSeats,
		"free_seats":   sc.FreeSeats,
	}).Info("seats reserved")
	s.publishReserved(ctx, sc, cmd.NumberOfSeats)
	return toView(sc), nil
}

// UpdateStartTime moves screening id to cmd.Date.  Seat counters are not
// touched.
func (s *BookingService) UpdateStartTime(ctx context.Context, id int64, cmd UpdateStartTimeCommand) (ScreeningView, error) {
	if cmd.Date.IsZero() {
		return ScreeningView{}, NewValidationError(Violation{Field: "date", Message: MsgNotNull})
	}
	sc, err := s.store.Update(ctx, id, func(sc *model.Screening) error {
		sc.StartTime = cmd.Date
		return nil
	})
	if err != nil {
		return ScreeningView{}, s.translate(err, id)
	}
	return toView(sc), nil
}

// ClearAll removes every screening and restarts id generation.
func (s *BookingService) ClearAll(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("all screenings cleared")
	return nil
}

func (s *BookingService) publishReserved(ctx context.Context, sc model.Screening, seats int) {
	ev := queue.SeatsReservedEvent{
		EventID:       uuid.NewString(),
		ScreeningID:   sc.ID,
		Title:         sc.Title,
		StartTime:     model.LocalDateTime{Time: sc.StartTime}.String(),
		SeatsReserved: seats,
		FreeSeats:     sc.FreeSeats,
		ReservedAt:    s.now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishSeatsReserved(ctx, ev); err != nil {
		s.logger.WithError(err).WithField("screening_id", sc.ID).Warn("failed to publish seats reserved event")
	}
}

// translate maps storage and entity errors onto service error kinds.
func (s *BookingService) translate(err error, id int64) error {
	switch {
	case errors.Is(err, repository.ErrScreeningNotFound):
		return notFound(id)
	case errors.Is(err, model.ErrCapacityExceeded):
		return capacityExceeded()
	}
	return err
}
