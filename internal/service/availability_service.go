package service

import (
	"fmt"
	"time"

	"servibook/internal/db"
	"servibook/internal/entities"
	apperrors "servibook/internal/errors"
	"servibook/internal/metrics"
	"servibook/internal/repository"
	"servibook/internal/schedule"
)

// AvailabilityService answers "which slots can still be booked for this
// business/service/date". Reads here are advisory; the authoritative overlap
// guard runs inside the booking store's check-and-insert.
type AvailabilityService struct {
	Schedule repository.ScheduleRepository
	Catalog  repository.CatalogRepository
	Bookings repository.BookingRepository
}

func NewAvailabilityService(scheduleRepo repository.ScheduleRepository, catalog repository.CatalogRepository, bookings repository.BookingRepository) *AvailabilityService {
	return &AvailabilityService{Schedule: scheduleRepo, Catalog: catalog, Bookings: bookings}
}

// AvailableSlots resolves the opening window for the date, generates the
// candidate slots for the service duration and filters the ones taken by
// active bookings. A closed weekday is reported in the payload, not as an
// error, so clients can tell "closed today" from "open but fully booked".
func (s *AvailabilityService) AvailableSlots(businessID, serviceID int, dateStr string) (*entities.AvailabilityResponse, error) {
	date, err := schedule.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", dateStr, apperrors.ErrValidation)
	}

	business, err := s.Catalog.GetBusiness(businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, fmt.Errorf("business %d: %w", businessID, apperrors.ErrNotFound)
	}

	svc, err := s.Catalog.GetService(serviceID)
	if err != nil {
		return nil, err
	}
	if svc == nil || svc.BusinessID != businessID || !svc.IsActive {
		return nil, fmt.Errorf("service %d for business %d: %w", serviceID, businessID, apperrors.ErrNotFound)
	}
	if svc.DurationMinutes <= 0 {
		return nil, fmt.Errorf("service %d has non-positive duration: %w", serviceID, apperrors.ErrValidation)
	}

	resp := &entities.AvailabilityResponse{
		Date:            dateStr,
		ServiceDuration: svc.DurationMinutes,
		AvailableSlots:  []entities.SlotOut{},
	}

	window, err := s.Schedule.GetOpeningWindow(businessID, schedule.ISOWeekday(date))
	if err != nil {
		return nil, err
	}
	if window == nil {
		resp.Closed = true
		return resp, nil
	}

	candidates := schedule.BuildSlots(window.Open, window.Close, svc.DurationMinutes)
	if len(candidates) == 0 {
		// Service does not fit in the window: open, zero slots.
		return resp, nil
	}

	bookings, err := s.Bookings.ListByBusinessAndDate(businessID, date)
	if err != nil {
		return nil, err
	}

	for _, slot := range filterAvailable(candidates, date, bookings) {
		resp.AvailableSlots = append(resp.AvailableSlots, entities.SlotOut{
			StartTime: slot.Start.String(),
			EndTime:   slot.End.String(),
		})
	}
	metrics.SlotQueries.Inc()
	return resp, nil
}

// filterAvailable drops every candidate overlapping an active booking.
// Cancelled bookings vacate their interval and never block a slot. The
// candidate/booking cardinalities are small (per business, per day), so the
// quadratic scan is fine; correctness rides on the half-open predicate.
func filterAvailable(candidates []schedule.Slot, date time.Time, bookings []db.Booking) []schedule.Slot {
	var free []schedule.Slot
	for _, slot := range candidates {
		start, end := slot.Start.On(date), slot.End.On(date)
		taken := false
		for _, b := range bookings {
			if b.Active() && schedule.Overlaps(start, end, b.StartTime, b.EndTime) {
				taken = true
				break
			}
		}
		if !taken {
			free = append(free, slot)
		}
	}
	return free
}
