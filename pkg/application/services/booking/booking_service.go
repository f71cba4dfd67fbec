package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/prodflow/kitbook/pkg/application/dto"
	"github.com/prodflow/kitbook/pkg/application/services/availability"
	"github.com/prodflow/kitbook/pkg/domain/entities"
	"github.com/prodflow/kitbook/pkg/domain/repositories"
	"github.com/prodflow/kitbook/pkg/domain/services"
)

// Notifier receives change notifications after the reservation store is
// mutated. Delivery is best-effort: implementations must not block or fail
// the mutation they describe.
type Notifier interface {
	ReservationCreated(reservation *entities.Reservation)
	ReservationStatusChanged(from entities.Status, reservation *entities.Reservation)
	ReservationDeleted(reservation *entities.Reservation)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) ReservationCreated(*entities.Reservation)                        {}
func (NopNotifier) ReservationStatusChanged(entities.Status, *entities.Reservation) {}
func (NopNotifier) ReservationDeleted(*entities.Reservation)                        {}

// CreateRequest carries the caller-supplied fields of a new reservation.
type CreateRequest struct {
	AssetID  entities.AssetID
	Period   entities.DateRange
	Quantity entities.Quantity

	Project entities.ProjectRef
	Purpose string

	BookedBy           string
	CollectionLocation string
	ReturnLocation     string
	Notes              string
}

// ReturnRequest carries the optional fields captured when equipment comes
// back.
type ReturnRequest struct {
	ReturnedTo string
	Condition  string
}

// Service is the reservation lifecycle controller: the only component that
// mutates reservation state. Creation is the only quantity-increasing
// operation, so it is the only one that consults the availability evaluator;
// every other transition changes status and timestamps alone.
type Service struct {
	assets       repositories.AssetRegistry
	reservations repositories.ReservationRepository
	evaluator    *availability.Evaluator
	notifier     Notifier
	logger       *zap.Logger
	now          func() time.Time
}

// New creates a booking service. A nil notifier disables notification; a nil
// logger disables logging.
func New(assets repositories.AssetRegistry, reservations repositories.ReservationRepository, notifier Notifier, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		assets:       assets,
		reservations: reservations,
		evaluator:    availability.New(assets, reservations),
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock overrides the service's time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CheckAvailability evaluates a candidate window without reserving anything.
func (s *Service) CheckAvailability(ctx context.Context, req dto.AvailabilityRequest) (*dto.AvailabilityResult, error) {
	return s.evaluator.CheckAvailability(ctx, req)
}

// CreateReservation validates availability and persists a new pending
// reservation. The admission check and the insert run under the store's
// per-asset exclusion, so two racing requests for the last unit cannot both
// succeed. Insufficient availability surfaces as *entities.ConflictError.
func (s *Service) CreateReservation(ctx context.Context, req CreateRequest) (*entities.Reservation, error) {
	now := s.now()
	reservation, err := entities.NewReservation(req.AssetID, req.Period, req.Quantity, now)
	if err != nil {
		return nil, err
	}

	asset, err := s.assets.GetAsset(ctx, req.AssetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset %s: %w", req.AssetID, err)
	}

	reservation.Project = req.Project
	reservation.Purpose = req.Purpose
	reservation.BookedBy = req.BookedBy
	reservation.CollectionLocation = req.CollectionLocation
	reservation.ReturnLocation = req.ReturnLocation
	reservation.Notes = req.Notes
	s.quote(reservation, asset)

	stored, err := s.reservations.InsertValidated(ctx, reservation, s.admission(asset, dto.AvailabilityRequest{
		AssetID:  req.AssetID,
		Period:   req.Period,
		Quantity: req.Quantity,
	}))
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", string(stored.ID)),
		zap.String("asset_id", string(stored.AssetID)),
		zap.Int64("quantity", int64(stored.Quantity)),
		zap.String("period", stored.Period.String()),
	)
	s.notifier.ReservationCreated(stored.Clone())
	return stored, nil
}

// Reschedule re-validates an existing reservation against a new period and
// quantity, excluding the reservation itself from the availability math.
// Only pending and confirmed reservations may move; equipment already in the
// field keeps its dates until it comes back.
func (s *Service) Reschedule(ctx context.Context, id entities.ReservationID, period entities.DateRange, quantity entities.Quantity) (*entities.Reservation, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1, got %d", entities.ErrInvalidRequest, quantity)
	}
	if period.End.Before(period.Start) {
		return nil, fmt.Errorf("%w: end date %s before start date %s", entities.ErrInvalidRequest, period.End, period.Start)
	}

	current, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != entities.StatusPending && current.Status != entities.StatusConfirmed {
		return nil, fmt.Errorf("%w: cannot reschedule a %s reservation", entities.ErrInvalidTransition, current.Status)
	}

	asset, err := s.assets.GetAsset(ctx, current.AssetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset %s: %w", current.AssetID, err)
	}

	stored, err := s.reservations.UpdateValidated(ctx, id, period, quantity, s.admission(asset, dto.AvailabilityRequest{
		AssetID:  current.AssetID,
		Period:   period,
		Quantity: quantity,
		Exclude:  id,
	}))
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation rescheduled",
		zap.String("reservation_id", string(id)),
		zap.String("period", period.String()),
		zap.Int64("quantity", int64(quantity)),
	)
	s.notifier.ReservationStatusChanged(current.Status, stored.Clone())
	return stored, nil
}

// Confirm approves a pending reservation.
func (s *Service) Confirm(ctx context.Context, id entities.ReservationID, approvedBy string) (*entities.Reservation, error) {
	now := s.now()
	return s.transition(ctx, id, entities.StatusConfirmed, repositories.StatusUpdate{
		To:          entities.StatusConfirmed,
		ApprovedBy:  approvedBy,
		ConfirmedAt: &now,
		UpdatedAt:   now,
	})
}

// CheckOut hands the equipment over, recording who performed the handover.
func (s *Service) CheckOut(ctx context.Context, id entities.ReservationID, actor string) (*entities.Reservation, error) {
	now := s.now()
	return s.transition(ctx, id, entities.StatusCheckedOut, repositories.StatusUpdate{
		To:           entities.StatusCheckedOut,
		CheckedOutAt: &now,
		CheckedOutBy: actor,
		UpdatedAt:    now,
	})
}

// Return records the equipment coming back, with an optional condition note.
func (s *Service) Return(ctx context.Context, id entities.ReservationID, req ReturnRequest) (*entities.Reservation, error) {
	now := s.now()
	return s.transition(ctx, id, entities.StatusReturned, repositories.StatusUpdate{
		To:              entities.StatusReturned,
		ReturnedAt:      &now,
		ReturnedTo:      req.ReturnedTo,
		ReturnCondition: req.Condition,
		UpdatedAt:       now,
	})
}

// Cancel releases an active reservation. Cancellation is a status, not a
// deletion: the record stays but stops counting against capacity.
func (s *Service) Cancel(ctx context.Context, id entities.ReservationID) (*entities.Reservation, error) {
	return s.transition(ctx, id, entities.StatusCancelled, repositories.StatusUpdate{
		To:        entities.StatusCancelled,
		UpdatedAt: s.now(),
	})
}

// Delete removes a reservation outright. Administrative override outside the
// state machine.
func (s *Service) Delete(ctx context.Context, id entities.ReservationID) error {
	reservation, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reservations.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("reservation deleted",
		zap.String("reservation_id", string(id)),
		zap.String("asset_id", string(reservation.AssetID)),
	)
	s.notifier.ReservationDeleted(reservation)
	return nil
}

// ListActiveForAsset returns the asset's capacity-counting reservations.
func (s *Service) ListActiveForAsset(ctx context.Context, assetID entities.AssetID) ([]*entities.Reservation, error) {
	return s.reservations.ListActiveForAsset(ctx, assetID)
}

// ListOverdue returns checked-out reservations whose end date has passed.
func (s *Service) ListOverdue(ctx context.Context) ([]*entities.Reservation, error) {
	checkedOut, err := s.reservations.ListByStatus(ctx, entities.StatusCheckedOut)
	if err != nil {
		return nil, err
	}
	today := entities.DateOf(s.now())
	var overdue []*entities.Reservation
	for _, r := range checkedOut {
		if r.Overdue(today) {
			overdue = append(overdue, r)
		}
	}
	return overdue, nil
}

// ListUpcoming returns active reservations starting within the given number
// of days, soonest first.
func (s *Service) ListUpcoming(ctx context.Context, withinDays int) ([]*entities.Reservation, error) {
	all, err := s.reservations.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	today := entities.DateOf(s.now())
	horizon := today.AddDays(withinDays)

	var upcoming []*entities.Reservation
	for _, r := range all {
		if !r.Status.Active() {
			continue
		}
		if r.Period.Start.Before(today) || r.Period.Start.After(horizon) {
			continue
		}
		upcoming = append(upcoming, r)
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Period.Start.Before(upcoming[j].Period.Start)
	})
	return upcoming, nil
}

// ListForProject returns every reservation booked for the project, sorted by
// start date.
func (s *Service) ListForProject(ctx context.Context, projectID string) ([]*entities.Reservation, error) {
	booked, err := s.reservations.ListForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	sort.Slice(booked, func(i, j int) bool {
		return booked[i].Period.Start.Before(booked[j].Period.Start)
	})
	return booked, nil
}

// ListPendingApproval returns reservations awaiting confirmation.
func (s *Service) ListPendingApproval(ctx context.Context) ([]*entities.Reservation, error) {
	return s.reservations.ListByStatus(ctx, entities.StatusPending)
}

// ListInRange returns non-cancelled reservations overlapping the range, for
// calendar views.
func (s *Service) ListInRange(ctx context.Context, period entities.DateRange) ([]*entities.Reservation, error) {
	return s.reservations.ListInRange(ctx, period)
}

// Stats summarizes the book for dashboards.
func (s *Service) Stats(ctx context.Context) (*dto.BookingStats, error) {
	all, err := s.reservations.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	today := entities.DateOf(s.now())
	week := today.AddDays(7)

	stats := &dto.BookingStats{Total: len(all)}
	for _, r := range all {
		if r.Status.Active() {
			stats.Active++
			if !r.Period.Start.Before(today) && !r.Period.Start.After(week) {
				stats.StartingIn7Days++
			}
		}
		switch {
		case r.Status == entities.StatusPending:
			stats.Pending++
		case r.Status == entities.StatusCheckedOut:
			stats.CheckedOut++
			if r.Overdue(today) {
				stats.Overdue++
			}
		}
	}
	return stats, nil
}

// transition performs an optimistically-guarded status change. The current
// status is read first to validate against the transition table; the store
// re-checks it under the update, so a record that moved in between fails with
// ErrInvalidTransition rather than silently losing the concurrent write.
func (s *Service) transition(ctx context.Context, id entities.ReservationID, to entities.Status, update repositories.StatusUpdate) (*entities.Reservation, error) {
	current, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := services.ValidateTransition(current.Status, to); err != nil {
		return nil, err
	}

	stored, err := s.reservations.UpdateStatus(ctx, id, current.Status, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation status changed",
		zap.String("reservation_id", string(id)),
		zap.String("from", string(current.Status)),
		zap.String("to", string(to)),
	)
	s.notifier.ReservationStatusChanged(current.Status, stored.Clone())
	return stored, nil
}

// admission builds the closure the store runs under its per-asset exclusion.
func (s *Service) admission(asset *entities.Asset, req dto.AvailabilityRequest) repositories.AdmissionFunc {
	return func(active []*entities.Reservation) error {
		result := availability.Evaluate(asset.TotalQuantity, active, req)
		if !result.IsAvailable {
			return &entities.ConflictError{
				AssetID:           asset.ID,
				RequestedQuantity: req.Quantity,
				AvailableQuantity: result.AvailableQuantity,
				Conflicts:         result.Conflicts,
			}
		}
		return nil
	}
}

// quote fills the reservation's quoted rate and total from the asset's day
// rate. Informational; no effect on accounting.
func (s *Service) quote(r *entities.Reservation, asset *entities.Asset) {
	if asset.DayRate.IsZero() {
		return
	}
	r.QuotedRate = asset.DayRate
	r.QuotedTotal = asset.DayRate.
		Mul(decimal.NewFromInt(int64(r.Period.Days()))).
		Mul(decimal.NewFromInt(int64(r.Quantity)))
	r.Currency = asset.RateCurrency
}
