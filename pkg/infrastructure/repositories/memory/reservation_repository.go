package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/prodflow/kitbook/pkg/domain/entities"
	"github.com/prodflow/kitbook/pkg/domain/repositories"
)

// ReservationRepository provides in-memory reservation storage. Creation for
// a given asset is serialized through a per-asset mutex held across the
// admission check and the insert, so the check-then-act window between two
// racing bookings is closed.
type ReservationRepository struct {
	mu           sync.RWMutex
	reservations map[entities.ReservationID]*entities.Reservation

	lockMu     sync.Mutex
	assetLocks map[entities.AssetID]*sync.Mutex
}

// NewReservationRepository creates an empty in-memory reservation store.
func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{
		reservations: make(map[entities.ReservationID]*entities.Reservation),
		assetLocks:   make(map[entities.AssetID]*sync.Mutex),
	}
}

// Verify interface compliance
var _ repositories.ReservationRepository = (*ReservationRepository)(nil)

// assetLock returns the creation mutex for an asset, creating it on first use.
func (r *ReservationRepository) assetLock(assetID entities.AssetID) *sync.Mutex {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	lock, ok := r.assetLocks[assetID]
	if !ok {
		lock = &sync.Mutex{}
		r.assetLocks[assetID] = lock
	}
	return lock
}

// GetReservation returns the reservation or ErrNotFound.
func (r *ReservationRepository) GetReservation(ctx context.Context, id entities.ReservationID) (*entities.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reservation, ok := r.reservations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, id)
	}
	return reservation.Clone(), nil
}

// ListActiveForAsset returns the asset's reservations in the active set.
func (r *ReservationRepository) ListActiveForAsset(ctx context.Context, assetID entities.AssetID) ([]*entities.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeForAssetLocked(assetID), nil
}

func (r *ReservationRepository) activeForAssetLocked(assetID entities.AssetID) []*entities.Reservation {
	var active []*entities.Reservation
	for _, reservation := range r.reservations {
		if reservation.AssetID == assetID && reservation.Status.Active() {
			active = append(active, reservation.Clone())
		}
	}
	return active
}

// ListByStatus returns all reservations in the given status.
func (r *ReservationRepository) ListByStatus(ctx context.Context, status entities.Status) ([]*entities.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*entities.Reservation
	for _, reservation := range r.reservations {
		if reservation.Status == status {
			matched = append(matched, reservation.Clone())
		}
	}
	return matched, nil
}

// ListInRange returns non-cancelled reservations overlapping the range.
func (r *ReservationRepository) ListInRange(ctx context.Context, period entities.DateRange) ([]*entities.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*entities.Reservation
	for _, reservation := range r.reservations {
		if reservation.Status == entities.StatusCancelled {
			continue
		}
		if reservation.Period.Overlaps(period) {
			matched = append(matched, reservation.Clone())
		}
	}
	return matched, nil
}

// ListForProject returns every reservation booked for the given project.
func (r *ReservationRepository) ListForProject(ctx context.Context, projectID string) ([]*entities.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*entities.Reservation
	for _, reservation := range r.reservations {
		if reservation.Project.ID == projectID {
			matched = append(matched, reservation.Clone())
		}
	}
	return matched, nil
}

// ListAll returns every reservation in the store.
func (r *ReservationRepository) ListAll(ctx context.Context) ([]*entities.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*entities.Reservation, 0, len(r.reservations))
	for _, reservation := range r.reservations {
		all = append(all, reservation.Clone())
	}
	return all, nil
}

// InsertValidated admits and persists a new reservation atomically with
// respect to other creations for the same asset.
func (r *ReservationRepository) InsertValidated(ctx context.Context, reservation *entities.Reservation, admit repositories.AdmissionFunc) (*entities.Reservation, error) {
	if err := validateStructure(reservation); err != nil {
		return nil, err
	}

	lock := r.assetLock(reservation.AssetID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	active := r.activeForAssetLocked(reservation.AssetID)
	_, exists := r.reservations[reservation.ID]
	r.mu.RUnlock()

	if exists {
		return nil, fmt.Errorf("%w: reservation %s already exists", entities.ErrInvalidRequest, reservation.ID)
	}
	if admit != nil {
		if err := admit(active); err != nil {
			return nil, err
		}
	}

	stored := reservation.Clone()
	r.mu.Lock()
	r.reservations[stored.ID] = stored
	r.mu.Unlock()

	return stored.Clone(), nil
}

// UpdateValidated re-admits an existing reservation with a new period and
// quantity, excluding the reservation itself from the active set handed to
// the admission check.
func (r *ReservationRepository) UpdateValidated(ctx context.Context, id entities.ReservationID, period entities.DateRange, quantity entities.Quantity, admit repositories.AdmissionFunc) (*entities.Reservation, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1, got %d", entities.ErrInvalidRequest, quantity)
	}
	if period.End.Before(period.Start) {
		return nil, fmt.Errorf("%w: end date %s before start date %s", entities.ErrInvalidRequest, period.End, period.Start)
	}

	r.mu.RLock()
	current, ok := r.reservations[id]
	var assetID entities.AssetID
	if ok {
		assetID = current.AssetID
	}
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, id)
	}

	lock := r.assetLock(assetID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok = r.reservations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, id)
	}
	if current.Status != entities.StatusPending && current.Status != entities.StatusConfirmed {
		return nil, fmt.Errorf("%w: cannot reschedule a %s reservation", entities.ErrInvalidTransition, current.Status)
	}

	var active []*entities.Reservation
	for _, reservation := range r.reservations {
		if reservation.ID == id {
			continue
		}
		if reservation.AssetID == assetID && reservation.Status.Active() {
			active = append(active, reservation.Clone())
		}
	}
	if admit != nil {
		if err := admit(active); err != nil {
			return nil, err
		}
	}

	current.Period = period
	current.Quantity = quantity
	return current.Clone(), nil
}

// UpdateStatus persists a status transition guarded by the expected current
// status. A mismatch means the record moved under the caller.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id entities.ReservationID, expected entities.Status, update repositories.StatusUpdate) (*entities.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.reservations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, id)
	}
	if current.Status != expected {
		return nil, fmt.Errorf("%w: expected status %s but found %s", entities.ErrInvalidTransition, expected, current.Status)
	}

	current.Status = update.To
	if update.ApprovedBy != "" {
		current.ApprovedBy = update.ApprovedBy
	}
	if update.ConfirmedAt != nil {
		current.ConfirmedAt = update.ConfirmedAt
	}
	if update.CheckedOutAt != nil {
		current.CheckedOutAt = update.CheckedOutAt
	}
	if update.CheckedOutBy != "" {
		current.CheckedOutBy = update.CheckedOutBy
	}
	if update.ReturnedAt != nil {
		current.ReturnedAt = update.ReturnedAt
	}
	if update.ReturnedTo != "" {
		current.ReturnedTo = update.ReturnedTo
	}
	if update.ReturnCondition != "" {
		current.ReturnCondition = update.ReturnCondition
	}
	if !update.UpdatedAt.IsZero() {
		current.UpdatedAt = update.UpdatedAt
	}

	return current.Clone(), nil
}

// Delete removes a reservation outright.
func (r *ReservationRepository) Delete(ctx context.Context, id entities.ReservationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[id]; !ok {
		return fmt.Errorf("%w: %s", entities.ErrNotFound, id)
	}
	delete(r.reservations, id)
	return nil
}

func validateStructure(reservation *entities.Reservation) error {
	if reservation.AssetID == "" {
		return fmt.Errorf("%w: asset id cannot be empty", entities.ErrInvalidRequest)
	}
	if reservation.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", entities.ErrInvalidRequest, reservation.Quantity)
	}
	if reservation.Period.End.Before(reservation.Period.Start) {
		return fmt.Errorf("%w: end date %s before start date %s", entities.ErrInvalidRequest, reservation.Period.End, reservation.Period.Start)
	}
	if !reservation.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", entities.ErrInvalidRequest, reservation.Status)
	}
	return nil
}
