package events

import (
	"go.uber.org/zap"

	"github.com/prodflow/kitbook/pkg/domain/entities"
)

// StoreNotifier publishes reservation changes to an event store. It satisfies
// the booking service's notifier port. Append failures are logged and
// swallowed: notification is not on the critical path of a valid reservation.
type StoreNotifier struct {
	store  EventStore
	logger *zap.Logger
}

// NewStoreNotifier creates a notifier over the given event store.
func NewStoreNotifier(store EventStore, logger *zap.Logger) *StoreNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreNotifier{store: store, logger: logger}
}

func (n *StoreNotifier) ReservationCreated(reservation *entities.Reservation) {
	n.publish(NewReservationCreatedEvent(reservation))
}

func (n *StoreNotifier) ReservationStatusChanged(from entities.Status, reservation *entities.Reservation) {
	n.publish(NewReservationStatusChangedEvent(from, reservation))
}

func (n *StoreNotifier) ReservationDeleted(reservation *entities.Reservation) {
	n.publish(NewReservationDeletedEvent(reservation))
}

func (n *StoreNotifier) publish(event Event) {
	if err := n.store.AppendEvent(event.StreamID(), event); err != nil {
		n.logger.Warn("failed to publish reservation event",
			zap.String("event_type", event.Type()),
			zap.String("stream_id", event.StreamID()),
			zap.Error(err),
		)
	}
}
