package gormdb

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"gorm.io/gorm"

	"github.com/prodflow/kitbook/pkg/domain/entities"
	"github.com/prodflow/kitbook/pkg/domain/repositories"
)

var activeStatuses = []string{
	string(entities.StatusPending),
	string(entities.StatusConfirmed),
	string(entities.StatusCheckedOut),
}

var reschedulableStatuses = []string{
	string(entities.StatusPending),
	string(entities.StatusConfirmed),
}

// ReservationRepository persists reservations in PostgreSQL via GORM.
// Creation runs inside a transaction holding a per-asset advisory lock, so
// the availability check and the insert form one atomic unit; a concurrent
// create for the same asset blocks until the first transaction commits and
// then sees its reservation.
type ReservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a PostgreSQL-backed reservation store.
func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Verify interface compliance
var _ repositories.ReservationRepository = (*ReservationRepository)(nil)

// Migrate creates or updates the reservations table.
func (r *ReservationRepository) Migrate() error {
	return r.db.AutoMigrate(&reservationModel{})
}

// advisoryLockKey hashes an asset id into a key for pg_advisory_xact_lock.
func advisoryLockKey(assetID entities.AssetID) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(assetID))
	return int64(h.Sum64())
}

// GetReservation returns the reservation or ErrNotFound.
func (r *ReservationRepository) GetReservation(ctx context.Context, id entities.ReservationID) (*entities.Reservation, error) {
	var model reservationModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", string(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reservation %s: %w", id, err)
	}
	return fromModel(&model), nil
}

// ListActiveForAsset returns the asset's reservations in the active set.
func (r *ReservationRepository) ListActiveForAsset(ctx context.Context, assetID entities.AssetID) ([]*entities.Reservation, error) {
	var models []reservationModel
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND status IN ?", string(assetID), activeStatuses).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active reservations for asset %s: %w", assetID, err)
	}
	return fromModels(models), nil
}

// ListByStatus returns all reservations in the given status.
func (r *ReservationRepository) ListByStatus(ctx context.Context, status entities.Status) ([]*entities.Reservation, error) {
	var models []reservationModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations by status %s: %w", status, err)
	}
	return fromModels(models), nil
}

// ListInRange returns non-cancelled reservations overlapping the range.
func (r *ReservationRepository) ListInRange(ctx context.Context, period entities.DateRange) ([]*entities.Reservation, error) {
	var models []reservationModel
	err := r.db.WithContext(ctx).
		Where("status <> ? AND start_date <= ? AND end_date >= ?",
			string(entities.StatusCancelled), period.End.Time(), period.Start.Time()).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations in range %s: %w", period, err)
	}
	return fromModels(models), nil
}

// ListForProject returns every reservation booked for the given project.
func (r *ReservationRepository) ListForProject(ctx context.Context, projectID string) ([]*entities.Reservation, error) {
	var models []reservationModel
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations for project %s: %w", projectID, err)
	}
	return fromModels(models), nil
}

// ListAll returns every reservation in the store.
func (r *ReservationRepository) ListAll(ctx context.Context) ([]*entities.Reservation, error) {
	var models []reservationModel
	if err := r.db.WithContext(ctx).Order("start_date").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return fromModels(models), nil
}

// InsertValidated admits and persists a new reservation inside one
// transaction under the asset's advisory lock.
func (r *ReservationRepository) InsertValidated(ctx context.Context, reservation *entities.Reservation, admit repositories.AdmissionFunc) (*entities.Reservation, error) {
	if err := validateStructure(reservation); err != nil {
		return nil, err
	}

	stored := reservation.Clone()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", advisoryLockKey(reservation.AssetID)).Error; err != nil {
			return fmt.Errorf("failed to acquire asset lock: %w", err)
		}

		active, err := activeForAsset(tx, reservation.AssetID, "")
		if err != nil {
			return err
		}
		if admit != nil {
			if err := admit(active); err != nil {
				return err
			}
		}

		if err := tx.Create(toModel(stored)).Error; err != nil {
			return fmt.Errorf("failed to insert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// UpdateValidated re-admits an existing reservation with a new period and
// quantity under the same advisory lock, excluding the reservation itself.
// Only pending and confirmed rows may move; the write is a partial conditional
// update on those statuses, so a transition committed before the lock was held
// is never overwritten with stale column values.
func (r *ReservationRepository) UpdateValidated(ctx context.Context, id entities.ReservationID, period entities.DateRange, quantity entities.Quantity, admit repositories.AdmissionFunc) (*entities.Reservation, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1, got %d", entities.ErrInvalidRequest, quantity)
	}
	if period.End.Before(period.Start) {
		return nil, fmt.Errorf("%w: end date %s before start date %s", entities.ErrInvalidRequest, period.End, period.Start)
	}

	var updated *entities.Reservation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// First read only locates the asset for the lock key.
		var model reservationModel
		err := tx.First(&model, "id = ?", string(id)).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", entities.ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("failed to fetch reservation %s: %w", id, err)
		}

		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", advisoryLockKey(entities.AssetID(model.AssetID))).Error; err != nil {
			return fmt.Errorf("failed to acquire asset lock: %w", err)
		}

		// Re-read under the lock; the row may have moved before we held it.
		if err := tx.First(&model, "id = ?", string(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", entities.ErrNotFound, id)
			}
			return fmt.Errorf("failed to fetch reservation %s: %w", id, err)
		}

		active, err := activeForAsset(tx, entities.AssetID(model.AssetID), id)
		if err != nil {
			return err
		}
		if admit != nil {
			if err := admit(active); err != nil {
				return err
			}
		}

		result := tx.Model(&reservationModel{}).
			Where("id = ? AND status IN ?", string(id), reschedulableStatuses).
			Updates(map[string]interface{}{
				"start_date": period.Start.Time(),
				"end_date":   period.End.Time(),
				"quantity":   int64(quantity),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update reservation %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: cannot reschedule a %s reservation", entities.ErrInvalidTransition, model.Status)
		}

		if err := tx.First(&model, "id = ?", string(id)).Error; err != nil {
			return fmt.Errorf("failed to fetch reservation %s: %w", id, err)
		}
		updated = fromModel(&model)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStatus persists a status transition as a single conditional update.
// Zero rows affected means either the id is unknown or the status moved; the
// follow-up read distinguishes the two.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id entities.ReservationID, expected entities.Status, update repositories.StatusUpdate) (*entities.Reservation, error) {
	fields := map[string]interface{}{
		"status": string(update.To),
	}
	if update.ApprovedBy != "" {
		fields["approved_by"] = update.ApprovedBy
	}
	if update.ConfirmedAt != nil {
		fields["confirmed_at"] = *update.ConfirmedAt
	}
	if update.CheckedOutAt != nil {
		fields["checked_out_at"] = *update.CheckedOutAt
	}
	if update.CheckedOutBy != "" {
		fields["checked_out_by"] = update.CheckedOutBy
	}
	if update.ReturnedAt != nil {
		fields["returned_at"] = *update.ReturnedAt
	}
	if update.ReturnedTo != "" {
		fields["returned_to"] = update.ReturnedTo
	}
	if update.ReturnCondition != "" {
		fields["return_condition"] = update.ReturnCondition
	}
	if !update.UpdatedAt.IsZero() {
		fields["updated_at"] = update.UpdatedAt
	}

	result := r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("id = ? AND status = ?", string(id), string(expected)).
		Updates(fields)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update reservation %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		var model reservationModel
		err := r.db.WithContext(ctx).First(&model, "id = ?", string(id)).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, id)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch reservation %s: %w", id, err)
		}
		return nil, fmt.Errorf("%w: expected status %s but found %s", entities.ErrInvalidTransition, expected, model.Status)
	}

	return r.GetReservation(ctx, id)
}

// Delete removes a reservation outright.
func (r *ReservationRepository) Delete(ctx context.Context, id entities.ReservationID) error {
	result := r.db.WithContext(ctx).Delete(&reservationModel{}, "id = ?", string(id))
	if result.Error != nil {
		return fmt.Errorf("failed to delete reservation %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", entities.ErrNotFound, id)
	}
	return nil
}

func activeForAsset(tx *gorm.DB, assetID entities.AssetID, exclude entities.ReservationID) ([]*entities.Reservation, error) {
	query := tx.Where("asset_id = ? AND status IN ?", string(assetID), activeStatuses)
	if exclude != "" {
		query = query.Where("id <> ?", string(exclude))
	}
	var models []reservationModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list active reservations for asset %s: %w", assetID, err)
	}
	return fromModels(models), nil
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
