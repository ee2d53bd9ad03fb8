// Package repository contains the storage layer for screenings.  Screenings
// live in process memory only; the repository owns every instance and hands
// out copies so callers never share state with the store.
package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/iliyamo/cinema-screening-booking/internal/model"
)

// ScreeningRepo keeps screenings in insertion order and generates their
// identifiers.  A single mutex guards every operation, reads included.
type ScreeningRepo struct {
	mu     sync.Mutex
	lastID int64                      // last assigned id; 0 on a fresh or cleared store
	order  []int64                    // ids in insertion order
	byID   map[int64]*model.Screening // stored screenings keyed by id
}

// NewScreeningRepo constructs an empty ScreeningRepo.
func NewScreeningRepo() *ScreeningRepo {
	return &ScreeningRepo{byID: make(map[int64]*model.Screening)}
}

// Add stores a copy of s under the next identifier and writes that
// identifier back into s.  The first screening after construction or Clear
// gets ID 1.
func (r *ScreeningRepo) Add(ctx context.Context, s *model.Screening) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	s.ID = r.lastID
	stored := *s
	r.byID[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	return nil
}

// GetByID returns a copy of the screening with the given id or
// ErrScreeningNotFound.
func (r *ScreeningRepo) GetByID(ctx context.Context, id int64) (model.Screening, error) {
	if err := ctx.Err(); err != nil {
		return model.Screening{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return model.Screening{}, ErrScreeningNotFound
	}
	return *s, nil
}

// List returns screenings in insertion order.  A nil title lists every
// screening; otherwise only screenings whose title equals *title ignoring
// case are returned, so an empty title matches nothing.  The result is never
// nil.
func (r *ScreeningRepo) List(ctx context.Context, title *string) ([]model.Screening, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Screening, 0, len(r.order))
	for _, id := range r.order {
		s := r.byID[id]
		if title != nil && !strings.EqualFold(s.Title, *title) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

// Update applies fn to the stored screening while holding the store lock, so
// a check followed by a mutation inside fn is atomic with respect to every
// other repository call.  fn works on a scratch copy: when it returns an
// error the stored screening is left as it was and the error is passed
// through unchanged.
func (r *ScreeningRepo) Update(ctx context.Context, id int64, fn func(s *model.Screening) error) (model.Screening, error) {
	if err := ctx.Err(); err != nil {
		return model.Screening{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return model.Screening{}, ErrScreeningNotFound
	}
	scratch := *stored
	if err := fn(&scratch); err != nil {
		return *stored, err
	}
	scratch.ID = stored.ID // id is immutable
	*stored = scratch
	return scratch, nil
}

// Count returns the number of stored screenings.
func (r *ScreeningRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order), nil
}

// Clear removes every screening and resets identifier generation, so the
// next Add assigns ID 1 again.
func (r *ScreeningRepo) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID = 0
	r.order = nil
	r.byID = make(map[int64]*model.Screening)
	return nil
}
