package dto

// BookingStats summarizes the reservation book for dashboards and alerts.
type BookingStats struct {
	Total           int `json:"total"`
	Active          int `json:"active"`
	Pending         int `json:"pending"`
	CheckedOut      int `json:"checked_out"`
	Overdue         int `json:"overdue"`
	StartingIn7Days int `json:"starting_in_7_days"`
}
