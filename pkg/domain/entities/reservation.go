package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationID represents a unique reservation identifier
type ReservationID string

// NewReservationID generates a fresh reservation identifier.
func NewReservationID() ReservationID {
	return ReservationID(uuid.NewString())
}

// Status is the lifecycle status of a reservation.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedOut Status = "checked_out"
	StatusReturned   Status = "returned"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is one of the five defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedOut, StatusReturned, StatusCancelled:
		return true
	default:
		return false
	}
}

// Active reports whether s counts against asset capacity.
func (s Status) Active() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedOut:
		return true
	default:
		return false
	}
}

// Terminal reports whether s permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusReturned || s == StatusCancelled
}

// ProjectRef links a reservation to the project it was booked for. Opaque to
// the engine; not validated against any project store.
type ProjectRef struct {
	ID   string
	Name string
}

// Reservation represents a hold on some quantity of an asset for an inclusive
// range of calendar days.
type Reservation struct {
	ID       ReservationID
	AssetID  AssetID
	Quantity Quantity
	Period   DateRange
	Status   Status

	Project ProjectRef
	Purpose string

	BookedBy   string
	ApprovedBy string

	CollectionLocation string
	ReturnLocation     string

	QuotedRate  decimal.Decimal
	QuotedTotal decimal.Decimal
	Currency    string

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time

	ConfirmedAt     *time.Time
	CheckedOutAt    *time.Time
	CheckedOutBy    string
	ReturnedAt      *time.Time
	ReturnedTo      string
	ReturnCondition string
}

// NewReservation creates a validated pending reservation with a generated id.
func NewReservation(assetID AssetID, period DateRange, quantity Quantity, now time.Time) (*Reservation, error) {
	if assetID == "" {
		return nil, fmt.Errorf("%w: asset id cannot be empty", ErrInvalidRequest)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidRequest, quantity)
	}
	if period.End.Before(period.Start) {
		return nil, fmt.Errorf("%w: end date %s before start date %s", ErrInvalidRequest, period.End, period.Start)
	}

	return &Reservation{
		ID:        NewReservationID(),
		AssetID:   assetID,
		Quantity:  quantity,
		Period:    period,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Overdue reports whether the reservation is checked out past its end date.
// Derived, never stored; nothing auto-returns an overdue reservation.
func (r *Reservation) Overdue(today Date) bool {
	return r.Status == StatusCheckedOut && r.Period.End.Before(today)
}

// Clone returns a deep copy so stores can hand out records without aliasing
// their internal state.
func (r *Reservation) Clone() *Reservation {
	c := *r
	if r.ConfirmedAt != nil {
		t := *r.ConfirmedAt
		c.ConfirmedAt = &t
	}
	if r.CheckedOutAt != nil {
		t := *r.CheckedOutAt
		c.CheckedOutAt = &t
	}
	if r.ReturnedAt != nil {
		t := *r.ReturnedAt
		c.ReturnedAt = &t
	}
	return &c
}
