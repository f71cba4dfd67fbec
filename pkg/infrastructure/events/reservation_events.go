package events

import (
	"github.com/prodflow/kitbook/pkg/domain/entities"
)

const (
	ReservationCreatedEvent       = "reservation.created"
	ReservationStatusChangedEvent = "reservation.status_changed"
	ReservationDeletedEvent       = "reservation.deleted"
)

// AllReservationEvents lists every event type the engine emits, for
// subscribers that want the full feed.
var AllReservationEvents = []string{
	ReservationCreatedEvent,
	ReservationStatusChangedEvent,
	ReservationDeletedEvent,
}

// SubscribeAll registers a handler for the full reservation event feed.
func SubscribeAll(store EventStore, handler EventHandler) error {
	return store.Subscribe(AllReservationEvents, handler)
}

type ReservationCreated struct {
	Reservation *entities.Reservation `json:"reservation"`
}

type ReservationStatusChanged struct {
	From        entities.Status       `json:"from"`
	Reservation *entities.Reservation `json:"reservation"`
}

type ReservationDeleted struct {
	Reservation *entities.Reservation `json:"reservation"`
}

// NewReservationCreatedEvent builds a created event on the asset's stream.
func NewReservationCreatedEvent(reservation *entities.Reservation) Event {
	return NewEvent(ReservationCreatedEvent, string(reservation.AssetID), ReservationCreated{
		Reservation: reservation,
	})
}

// NewReservationStatusChangedEvent builds a status-change event on the
// asset's stream, recording the status the reservation moved from.
func NewReservationStatusChangedEvent(from entities.Status, reservation *entities.Reservation) Event {
	return NewEvent(ReservationStatusChangedEvent, string(reservation.AssetID), ReservationStatusChanged{
		From:        from,
		Reservation: reservation,
	})
}

// NewReservationDeletedEvent builds a deleted event on the asset's stream.
func NewReservationDeletedEvent(reservation *entities.Reservation) Event {
	return NewEvent(ReservationDeletedEvent, string(reservation.AssetID), ReservationDeleted{
		Reservation: reservation,
	})
}
