package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"servibook/internal/db"
	"servibook/internal/entities"
	apperrors "servibook/internal/errors"
	"servibook/internal/metrics"
	"servibook/internal/repository"
)

// allowedTransitions is the booking state machine. Nothing leaves a terminal
// state (completed, cancelled); re-cancelling is handled separately as an
// idempotent no-op.
var allowedTransitions = map[string][]string{
	db.BookingPending:   {db.BookingConfirmed, db.BookingCancelled},
	db.BookingConfirmed: {db.BookingCompleted, db.BookingCancelled},
}

func transitionAllowed(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func validBookingStatus(s string) bool {
	switch s {
	case db.BookingPending, db.BookingConfirmed, db.BookingCancelled, db.BookingCompleted:
		return true
	}
	return false
}

// BookingNotifier is told about lifecycle events after they are persisted.
// Implementations must not block the request.
type BookingNotifier interface {
	BookingCreated(b *db.Booking)
	BookingCancelled(b *db.Booking)
}

// BookingService owns the booking lifecycle: creation with the atomic
// availability guard, the status state machine, cancellation and
// rescheduling.
type BookingService struct {
	Bookings repository.BookingRepository
	Catalog  repository.CatalogRepository

	// StaffExclusive scopes double-booking avoidance per staff member
	// instead of per business: overlapping bookings assigned to different
	// staff may coexist. Off by default.
	StaffExclusive bool

	notifier BookingNotifier
}

func NewBookingService(bookings repository.BookingRepository, catalog repository.CatalogRepository, notifier BookingNotifier) *BookingService {
	return &BookingService{Bookings: bookings, Catalog: catalog, notifier: notifier}
}

func (s *BookingService) GetBooking(id int) (*db.Booking, error) {
	return s.Bookings.GetByID(id)
}

// Create validates references and the interval, derives end_time from the
// service duration and hands the check-then-insert to the store. Slot
// generation already vouched for availability at request time, but the
// insert re-checks overlap under the business lock: a concurrent create or
// a client bypassing the slots endpoint must get SlotUnavailable, not a
// double booking.
func (s *BookingService) Create(req entities.BookingRequest) (*db.Booking, error) {
	if req.StartTime.IsZero() {
		return nil, fmt.Errorf("start_time is required: %w", apperrors.ErrValidation)
	}

	business, err := s.Catalog.GetBusiness(req.BusinessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, fmt.Errorf("business %d: %w", req.BusinessID, apperrors.ErrNotFound)
	}

	customer, err := s.Catalog.GetCustomer(req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %d: %w", req.CustomerID, apperrors.ErrNotFound)
	}

	svc, err := s.Catalog.GetService(req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil || svc.BusinessID != req.BusinessID {
		return nil, fmt.Errorf("service %d for business %d: %w", req.ServiceID, req.BusinessID, apperrors.ErrNotFound)
	}
	if svc.DurationMinutes <= 0 {
		return nil, fmt.Errorf("service %d has non-positive duration: %w", req.ServiceID, apperrors.ErrValidation)
	}

	if req.StaffID != nil {
		staff, err := s.Catalog.GetStaffMember(*req.StaffID)
		if err != nil {
			return nil, err
		}
		if staff == nil || staff.BusinessID != req.BusinessID {
			return nil, fmt.Errorf("staff member %d for business %d: %w", *req.StaffID, req.BusinessID, apperrors.ErrNotFound)
		}
	}

	end := req.StartTime.Add(time.Duration(svc.DurationMinutes) * time.Minute)

	status := db.BookingPending
	if req.Confirm {
		status = db.BookingConfirmed
	}

	customerID := req.CustomerID
	booking := &db.Booking{
		Code:       uuid.NewString(),
		CustomerID: &customerID,
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		StaffID:    req.StaffID,
		StartTime:  req.StartTime,
		EndTime:    end,
		Status:     status,
		Notes:      req.Notes,
	}

	if err := s.Bookings.CreateIfSlotFree(booking, s.StaffExclusive); err != nil {
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	if s.notifier != nil {
		s.notifier.BookingCreated(booking)
	}
	return booking, nil
}

// UpdateStatus enforces the transition table. Disallowed moves are rejected
// with InvalidTransition, never silently ignored.
func (s *BookingService) UpdateStatus(id int, newStatus string) (*db.Booking, error) {
	if !validBookingStatus(newStatus) {
		return nil, fmt.Errorf("unknown booking status %q: %w", newStatus, apperrors.ErrValidation)
	}

	booking, err := s.Bookings.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(booking.Status, newStatus) {
		return nil, fmt.Errorf("booking %d: %s -> %s: %w", id, booking.Status, newStatus, apperrors.ErrInvalidTransition)
	}

	updated, err := s.Bookings.UpdateStatus(id, newStatus)
	if err != nil {
		return nil, err
	}
	if newStatus == db.BookingCancelled {
		metrics.BookingsCancelled.Inc()
		if s.notifier != nil {
			s.notifier.BookingCancelled(updated)
		}
	}
	return updated, nil
}

// Cancel is shorthand for UpdateStatus(id, cancelled) and is idempotent:
// cancelling an already-cancelled booking succeeds without a state change,
// so client retries stay simple.
func (s *BookingService) Cancel(id int) (*db.Booking, error) {
	booking, err := s.Bookings.GetByID(id)
	if err != nil {
		return nil, err
	}
	if booking.Status == db.BookingCancelled {
		return booking, nil
	}
	return s.UpdateStatus(id, db.BookingCancelled)
}

// Reschedule overwrites the booking interval in place, status unchanged.
// The new pair is arbitrary (it need not match the service duration), so
// the interval invariant and the overlap check are re-derived from scratch,
// excluding the booking being moved.
func (s *BookingService) Reschedule(id int, req entities.RescheduleRequest) (*db.Booking, error) {
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, fmt.Errorf("start_time and end_time are required: %w", apperrors.ErrValidation)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, fmt.Errorf("end_time must be after start_time: %w", apperrors.ErrValidation)
	}
	return s.Bookings.RescheduleIfSlotFree(id, req.StartTime, req.EndTime, s.StaffExclusive)
}

func (s *BookingService) ListForBusiness(businessID int) ([]db.Booking, error) {
	return s.Bookings.ListByBusiness(businessID)
}

// ListForCustomer returns a customer's bookings; when selects upcoming
// (start in the future) or past (end already behind), anything else means
// all of them.
func (s *BookingService) ListForCustomer(customerID int, when string) ([]db.Booking, error) {
	bookings, err := s.Bookings.ListByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	switch when {
	case "upcoming":
		bookings = filterBookings(bookings, func(b db.Booking) bool { return b.StartTime.After(now) })
	case "past":
		bookings = filterBookings(bookings, func(b db.Booking) bool { return b.EndTime.Before(now) })
	}
	return bookings, nil
}

func (s *BookingService) CountForBusiness(businessID int) (int, error) {
	return s.Bookings.CountByBusiness(businessID)
}

func filterBookings(bookings []db.Booking, keep func(db.Booking) bool) []db.Booking {
	out := make([]db.Booking, 0, len(bookings))
	for _, b := range bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}
