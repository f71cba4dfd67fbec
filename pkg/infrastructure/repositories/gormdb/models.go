package gormdb

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prodflow/kitbook/pkg/domain/entities"
)

// reservationModel is the database mapping of a reservation. Dates are stored
// as DATE columns; timestamps as timestamptz.
type reservationModel struct {
	ID       string `gorm:"type:uuid;primaryKey"`
	AssetID  string `gorm:"type:text;not null;index"`
	Quantity int64  `gorm:"not null"`

	StartDate time.Time `gorm:"type:date;not null;index"`
	EndDate   time.Time `gorm:"type:date;not null;index"`

	Status string `gorm:"type:text;not null;default:'pending';index"`

	ProjectID   string `gorm:"type:text"`
	ProjectName string `gorm:"type:text"`
	Purpose     string `gorm:"type:text"`

	BookedBy   string `gorm:"type:text"`
	ApprovedBy string `gorm:"type:text"`

	CollectionLocation string `gorm:"type:text"`
	ReturnLocation     string `gorm:"type:text"`

	QuotedRate  decimal.Decimal `gorm:"type:numeric"`
	QuotedTotal decimal.Decimal `gorm:"type:numeric"`
	Currency    string          `gorm:"type:char(3)"`

	Notes string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	ConfirmedAt     *time.Time
	CheckedOutAt    *time.Time
	CheckedOutBy    string `gorm:"type:text"`
	ReturnedAt      *time.Time
	ReturnedTo      string `gorm:"type:text"`
	ReturnCondition string `gorm:"type:text"`
}

func (reservationModel) TableName() string {
	return "kit_reservations"
}

func toModel(r *entities.Reservation) *reservationModel {
	return &reservationModel{
		ID:                 string(r.ID),
		AssetID:            string(r.AssetID),
		Quantity:           int64(r.Quantity),
		StartDate:          r.Period.Start.Time(),
		EndDate:            r.Period.End.Time(),
		Status:             string(r.Status),
		ProjectID:          r.Project.ID,
		ProjectName:        r.Project.Name,
		Purpose:            r.Purpose,
		BookedBy:           r.BookedBy,
		ApprovedBy:         r.ApprovedBy,
		CollectionLocation: r.CollectionLocation,
		ReturnLocation:     r.ReturnLocation,
		QuotedRate:         r.QuotedRate,
		QuotedTotal:        r.QuotedTotal,
		Currency:           r.Currency,
		Notes:              r.Notes,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		ConfirmedAt:        r.ConfirmedAt,
		CheckedOutAt:       r.CheckedOutAt,
		CheckedOutBy:       r.CheckedOutBy,
		ReturnedAt:         r.ReturnedAt,
		ReturnedTo:         r.ReturnedTo,
		ReturnCondition:    r.ReturnCondition,
	}
}

func fromModel(m *reservationModel) *entities.Reservation {
	return &entities.Reservation{
		ID:       entities.ReservationID(m.ID),
		AssetID:  entities.AssetID(m.AssetID),
		Quantity: entities.Quantity(m.Quantity),
		Period: entities.DateRange{
			Start: dateOfColumn(m.StartDate),
			End:   dateOfColumn(m.EndDate),
		},
		Status:             entities.Status(m.Status),
		Project:            entities.ProjectRef{ID: m.ProjectID, Name: m.ProjectName},
		Purpose:            m.Purpose,
		BookedBy:           m.BookedBy,
		ApprovedBy:         m.ApprovedBy,
		CollectionLocation: m.CollectionLocation,
		ReturnLocation:     m.ReturnLocation,
		QuotedRate:         m.QuotedRate,
		QuotedTotal:        m.QuotedTotal,
		Currency:           m.Currency,
		Notes:              m.Notes,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		ConfirmedAt:        m.ConfirmedAt,
		CheckedOutAt:       m.CheckedOutAt,
		CheckedOutBy:       m.CheckedOutBy,
		ReturnedAt:         m.ReturnedAt,
		ReturnedTo:         m.ReturnedTo,
		ReturnCondition:    m.ReturnCondition,
	}
}

// dateOfColumn reads the calendar day of a scanned DATE value in whatever
// location the driver produced it, so a midnight in a non-UTC session zone
// never shifts to the neighboring day.
func dateOfColumn(t time.Time) entities.Date {
	year, month, day := t.Date()
	return entities.NewDate(year, month, day)
}

func fromModels(models []reservationModel) []*entities.Reservation {
	reservations := make([]*entities.Reservation, 0, len(models))
	for i := range models {
		reservations = append(reservations, fromModel(&models[i]))
	}
	return reservations
}
