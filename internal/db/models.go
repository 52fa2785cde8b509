package db

import "time"

// Booking statuses. Lifecycle: pending -> confirmed -> completed, with
// cancellation allowed from pending and confirmed. Terminal states are
// completed and cancelled.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
	PaymentFailed   = "failed"
)

type Business struct {
	ID         int       `json:"id"`
	OwnerID    int       `json:"owner_id"`
	Name       string    `json:"name"`
	City       string    `json:"city,omitempty"`
	PostalCode string    `json:"postal_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Customer struct {
	ID        int       `json:"id"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	ID              int     `json:"id"`
	BusinessID      int     `json:"business_id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	IsActive        bool    `json:"is_active"`
}

type StaffMember struct {
	ID         int    `json:"id"`
	BusinessID int    `json:"business_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Role       string `json:"role,omitempty"`
	IsActive   bool   `json:"is_active"`
}

// OpeningHour is one weekday's open window for a business. Weekday is ISO
// numbered (Monday=1 .. Sunday=7); a business with no row for a weekday is
// closed that day. Times are HH:MM.
type OpeningHour struct {
	BusinessID int    `json:"business_id"`
	Weekday    int    `json:"weekday"`
	OpenTime   string `json:"open_time"`
	CloseTime  string `json:"closing_time"`
}

// Booking occupies [StartTime, EndTime) for a business. CustomerID is a
// pointer because deleting a customer nullifies the reference while the
// booking is retained for audit.
type Booking struct {
	ID         int       `json:"id"`
	Code       string    `json:"code"`
	CustomerID *int      `json:"customer_id"`
	BusinessID int       `json:"business_id"`
	ServiceID  int       `json:"service_id"`
	StaffID    *int      `json:"staff_id,omitempty"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Active reports whether the booking occupies its interval. Cancelled
// bookings vacate their time; everything else blocks it.
func (b Booking) Active() bool {
	return b.Status != BookingCancelled
}

type Payment struct {
	ID        int       `json:"id"`
	BookingID int       `json:"booking_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"payment_method"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
