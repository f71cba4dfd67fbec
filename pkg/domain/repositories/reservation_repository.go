package repositories

import (
	"context"
	"time"

	"github.com/prodflow/kitbook/pkg/domain/entities"
)

// AdmissionFunc decides whether a candidate reservation may be admitted given
// the asset's current active reservations. Implementations of
// ReservationRepository invoke it while holding whatever exclusion they use
// to serialize creation for the asset, so a nil return guarantees the insert
// that follows cannot over-commit the asset.
type AdmissionFunc func(active []*entities.Reservation) error

// StatusUpdate carries the fields a status transition writes alongside the
// new status. Only the fields relevant to the transition are set; zero-value
// fields are left untouched on the stored record.
type StatusUpdate struct {
	To entities.Status

	ApprovedBy string

	ConfirmedAt  *time.Time
	CheckedOutAt *time.Time
	CheckedOutBy string

	ReturnedAt      *time.Time
	ReturnedTo      string
	ReturnCondition string

	UpdatedAt time.Time
}

// ReservationRepository is the durable record of all reservations and the
// sole point of truth for what reservations exist for an asset. Only the
// booking service mutates it.
type ReservationRepository interface {
	// GetReservation returns the reservation or ErrNotFound.
	GetReservation(ctx context.Context, id entities.ReservationID) (*entities.Reservation, error)

	// ListActiveForAsset returns all reservations for the asset whose status
	// counts against capacity (pending, confirmed, checked_out), in no
	// particular order. Callers perform interval filtering.
	ListActiveForAsset(ctx context.Context, assetID entities.AssetID) ([]*entities.Reservation, error)

	// ListByStatus returns all reservations in the given status.
	ListByStatus(ctx context.Context, status entities.Status) ([]*entities.Reservation, error)

	// ListInRange returns reservations overlapping the range, cancelled ones
	// excluded. Used by calendar views.
	ListInRange(ctx context.Context, period entities.DateRange) ([]*entities.Reservation, error)

	// ListForProject returns every reservation booked for the given project,
	// any status. Used by project views.
	ListForProject(ctx context.Context, projectID string) ([]*entities.Reservation, error)

	// ListAll returns every reservation in the store.
	ListAll(ctx context.Context) ([]*entities.Reservation, error)

	// InsertValidated atomically admits and persists a new reservation. The
	// admission check runs against the asset's active set under the same
	// exclusion that guards the insert, closing the check-then-act race
	// between two callers booking the last unit. Returns the stored record,
	// the admission error verbatim, or ErrInvalidRequest for structurally
	// invalid reservations.
	InsertValidated(ctx context.Context, reservation *entities.Reservation, admit AdmissionFunc) (*entities.Reservation, error)

	// UpdateValidated atomically re-admits an existing reservation with a new
	// period and quantity. The active set passed to admit excludes the
	// reservation itself. Only pending and confirmed reservations may move:
	// the store re-checks the status under its exclusion and fails with
	// ErrInvalidTransition if the record moved on, so a concurrent transition
	// is never overwritten.
	UpdateValidated(ctx context.Context, id entities.ReservationID, period entities.DateRange, quantity entities.Quantity, admit AdmissionFunc) (*entities.Reservation, error)

	// UpdateStatus persists a status transition guarded by an optimistic
	// precondition: the stored status must equal expected or the update fails
	// with ErrInvalidTransition without mutating anything. Missing ids fail
	// with ErrNotFound.
	UpdateStatus(ctx context.Context, id entities.ReservationID, expected entities.Status, update StatusUpdate) (*entities.Reservation, error)

	// Delete removes a reservation outright. Administrative override outside
	// the state machine; a deleted reservation no longer participates in
	// availability math.
	Delete(ctx context.Context, id entities.ReservationID) error
}
