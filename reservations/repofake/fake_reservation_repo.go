package fakereservationrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akulov/reservd/reservations"
)

var _ reservations.Repo = (*FakeReservationRepo)(nil)

// FakeReservationRepo is an in-memory Repo for tests.
type FakeReservationRepo struct {
	reservations map[string]*reservations.Reservation
	lock         sync.RWMutex
}

func NewFakeReservationRepo() *FakeReservationRepo {
	return &FakeReservationRepo{
		reservations: make(map[string]*reservations.Reservation),
	}
}

func (rr *FakeReservationRepo) Insert(_ context.Context, reservation *reservations.Reservation) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	if reservation.ID == "" {
		reservation.ID = uuid.New().String()
	}
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = time.Now()
	}
	stored := *reservation
	rr.reservations[reservation.ID] = &stored
	return nil
}

func (rr *FakeReservationRepo) List(_ context.Context) ([]*reservations.Reservation, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	list := make([]*reservations.Reservation, 0, len(rr.reservations))
	for _, r := range rr.reservations {
		found := *r
		list = append(list, &found)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}
