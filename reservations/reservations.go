package reservations

import (
	"context"
	"fmt"
	"time"
)

// Reservation is a plain resource record. It carries no business logic; the
// session guard on the HTTP surface is the only gate in front of it.
type Reservation struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Validate checks the fields required to create a reservation.
func (r *Reservation) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.StartsAt.IsZero() {
		return fmt.Errorf("starts_at is required")
	}
	return nil
}

// Repo is the resource store contract.
type Repo interface {
	Insert(ctx context.Context, reservation *Reservation) error
	List(ctx context.Context) ([]*Reservation, error)
}
