package entities

import "time"

// BookingRequest creates a booking. EndTime is not accepted: it is derived
// server-side from the service duration. Confirm=true creates the booking
// directly in confirmed status instead of pending.
type BookingRequest struct {
	CustomerID int       `json:"customer_id"`
	BusinessID int       `json:"business_id"`
	ServiceID  int       `json:"service_id"`
	StaffID    *int      `json:"staff_id,omitempty"`
	StartTime  time.Time `json:"start_time"`
	Notes      string    `json:"notes,omitempty"`
	Confirm    bool      `json:"confirm,omitempty"`
}

type BookingStatusRequest struct {
	Status string `json:"status"`
}

// RescheduleRequest carries both interval endpoints explicitly. The new
// interval may have a different length than the original service duration;
// only end > start is enforced.
type RescheduleRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
