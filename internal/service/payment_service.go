package service

import (
	"fmt"

	"servibook/internal/db"
	"servibook/internal/entities"
	apperrors "servibook/internal/errors"
	"servibook/internal/repository"
)

// PaymentService keeps payment records and derives paid/unpaid. "Unpaid" is
// never stored: payments can move to refunded or failed at any time, so the
// verdict is recomputed from current payment rows on every ask.
type PaymentService struct {
	Payments repository.PaymentRepository
	Bookings repository.BookingRepository
}

func NewPaymentService(payments repository.PaymentRepository, bookings repository.BookingRepository) *PaymentService {
	return &PaymentService{Payments: payments, Bookings: bookings}
}

func validPaymentStatus(s string) bool {
	switch s {
	case db.PaymentPending, db.PaymentPaid, db.PaymentRefunded, db.PaymentFailed:
		return true
	}
	return false
}

// hasPaid is the single paid/unpaid predicate; both the single-booking path
// and the bulk listing go through it.
func hasPaid(payments []db.Payment) bool {
	for _, p := range payments {
		if p.Status == db.PaymentPaid {
			return true
		}
	}
	return false
}

// IsUnpaid reports whether no payment for the booking is currently paid.
// A booking with only refunded or failed payments counts as unpaid.
func (s *PaymentService) IsUnpaid(bookingID int) (bool, error) {
	payments, err := s.Payments.ListByBooking(bookingID)
	if err != nil {
		return false, err
	}
	return !hasPaid(payments), nil
}

// ListUnpaidBookings returns the bookings with no paid payment; businessID 0
// spans all businesses. Each candidate from the store is re-verified with
// the same predicate as IsUnpaid so the two paths cannot diverge.
func (s *PaymentService) ListUnpaidBookings(businessID int) ([]db.Booking, error) {
	candidates, err := s.Bookings.ListUnpaid(businessID)
	if err != nil {
		return nil, err
	}
	unpaid := make([]db.Booking, 0, len(candidates))
	for _, b := range candidates {
		stillUnpaid, err := s.IsUnpaid(b.ID)
		if err != nil {
			return nil, err
		}
		if stillUnpaid {
			unpaid = append(unpaid, b)
		}
	}
	return unpaid, nil
}

func (s *PaymentService) ListForBooking(bookingID int) ([]db.Payment, error) {
	if _, err := s.Bookings.GetByID(bookingID); err != nil {
		return nil, err
	}
	return s.Payments.ListByBooking(bookingID)
}

func (s *PaymentService) CreatePayment(req entities.PaymentRequest) (*db.Payment, error) {
	if req.Amount < 0 {
		return nil, fmt.Errorf("amount must not be negative: %w", apperrors.ErrValidation)
	}
	if req.Method == "" {
		return nil, fmt.Errorf("payment_method is required: %w", apperrors.ErrValidation)
	}
	status := req.Status
	if status == "" {
		status = db.PaymentPending
	}
	if !validPaymentStatus(status) {
		return nil, fmt.Errorf("unknown payment status %q: %w", status, apperrors.ErrValidation)
	}
	if _, err := s.Bookings.GetByID(req.BookingID); err != nil {
		return nil, err
	}

	payment := &db.Payment{
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Method:    req.Method,
		Status:    status,
	}
	if err := s.Payments.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) UpdatePaymentStatus(id int, status string) (*db.Payment, error) {
	if !validPaymentStatus(status) {
		return nil, fmt.Errorf("unknown payment status %q: %w", status, apperrors.ErrValidation)
	}
	return s.Payments.UpdateStatus(id, status)
}

// TotalRevenue sums paid payment amounts across the business's bookings,
// zero when there are none.
func (s *PaymentService) TotalRevenue(businessID int) (entities.RevenueResponse, error) {
	total, err := s.Payments.TotalRevenueForBusiness(businessID)
	if err != nil {
		return entities.RevenueResponse{}, err
	}
	return entities.RevenueResponse{BusinessID: businessID, TotalRevenue: total}, nil
}
