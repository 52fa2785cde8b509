package service

import (
	"fmt"
	"time"

	"servibook/internal/db"
	apperrors "servibook/internal/errors"
	"servibook/internal/schedule"
)

// In-memory repository fakes for service tests. Conflict detection mirrors
// the SQL store: half-open overlap against non-cancelled bookings of the
// same business, optionally scoped per staff member.

type fakeCatalog struct {
	businesses map[int]*db.Business
	customers  map[int]*db.Customer
	services   map[int]*db.Service
	staff      map[int]*db.StaffMember
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		businesses: map[int]*db.Business{},
		customers:  map[int]*db.Customer{},
		services:   map[int]*db.Service{},
		staff:      map[int]*db.StaffMember{},
	}
}

func (f *fakeCatalog) GetBusiness(id int) (*db.Business, error)       { return f.businesses[id], nil }
func (f *fakeCatalog) GetCustomer(id int) (*db.Customer, error)       { return f.customers[id], nil }
func (f *fakeCatalog) GetService(id int) (*db.Service, error)         { return f.services[id], nil }
func (f *fakeCatalog) GetStaffMember(id int) (*db.StaffMember, error) { return f.staff[id], nil }

type fakeSchedule struct {
	// windows[businessID][weekday], absent entry means closed
	windows map[int]map[int]*schedule.Window
	hours   map[int][]db.OpeningHour
}

func newFakeSchedule() *fakeSchedule {
	return &fakeSchedule{
		windows: map[int]map[int]*schedule.Window{},
		hours:   map[int][]db.OpeningHour{},
	}
}

func (f *fakeSchedule) setWindow(businessID, weekday int, open, close schedule.TimeOfDay) {
	if f.windows[businessID] == nil {
		f.windows[businessID] = map[int]*schedule.Window{}
	}
	f.windows[businessID][weekday] = &schedule.Window{Open: open, Close: close}
}

func (f *fakeSchedule) GetOpeningWindow(businessID, weekday int) (*schedule.Window, error) {
	return f.windows[businessID][weekday], nil
}

func (f *fakeSchedule) ListOpeningHours(businessID int) ([]db.OpeningHour, error) {
	return f.hours[businessID], nil
}

func (f *fakeSchedule) ReplaceOpeningHours(businessID int, hours []db.OpeningHour) error {
	f.hours[businessID] = hours
	return nil
}

type fakeBookings struct {
	nextID   int
	bookings map[int]*db.Booking
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{nextID: 1, bookings: map[int]*db.Booking{}}
}

func (f *fakeBookings) GetByID(id int) (*db.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %d: %w", id, apperrors.ErrNotFound)
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookings) ListByBusinessAndDate(businessID int, date time.Time) ([]db.Booking, error) {
	var out []db.Booking
	for _, b := range f.bookings {
		if b.BusinessID != businessID {
			continue
		}
		y, m, d := b.StartTime.Date()
		dy, dm, dd := date.Date()
		if y == dy && m == dm && d == dd {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookings) ListByBusiness(businessID int) ([]db.Booking, error) {
	var out []db.Booking
	for _, b := range f.bookings {
		if b.BusinessID == businessID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookings) ListByCustomer(customerID int) ([]db.Booking, error) {
	var out []db.Booking
	for _, b := range f.bookings {
		if b.CustomerID != nil && *b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

// ListUnpaid hands back every active booking as a candidate; the service
// re-verifies each one against the payment records.
func (f *fakeBookings) ListUnpaid(businessID int) ([]db.Booking, error) {
	var out []db.Booking
	for _, b := range f.bookings {
		if businessID != 0 && b.BusinessID != businessID {
			continue
		}
		if b.Active() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookings) CountByBusiness(businessID int) (int, error) {
	n := 0
	for _, b := range f.bookings {
		if b.BusinessID == businessID {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookings) conflicts(candidate *db.Booking, excludeID int, staffExclusive bool) bool {
	for _, b := range f.bookings {
		if b.ID == excludeID || b.BusinessID != candidate.BusinessID || !b.Active() {
			continue
		}
		if !schedule.Overlaps(candidate.StartTime, candidate.EndTime, b.StartTime, b.EndTime) {
			continue
		}
		if staffExclusive && candidate.StaffID != nil && b.StaffID != nil && *b.StaffID != *candidate.StaffID {
			continue
		}
		return true
	}
	return false
}

func (f *fakeBookings) CreateIfSlotFree(b *db.Booking, staffExclusive bool) error {
	if f.conflicts(b, 0, staffExclusive) {
		return fmt.Errorf("slot %s-%s: %w", b.StartTime, b.EndTime, apperrors.ErrSlotUnavailable)
	}
	b.ID = f.nextID
	f.nextID++
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeBookings) UpdateStatus(id int, status string) (*db.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %d: %w", id, apperrors.ErrNotFound)
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	copied := *b
	return &copied, nil
}

func (f *fakeBookings) RescheduleIfSlotFree(id int, start, end time.Time, staffExclusive bool) (*db.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %d: %w", id, apperrors.ErrNotFound)
	}
	candidate := *b
	candidate.StartTime = start
	candidate.EndTime = end
	if f.conflicts(&candidate, id, staffExclusive) {
		return nil, fmt.Errorf("slot %s-%s: %w", start, end, apperrors.ErrSlotUnavailable)
	}
	b.StartTime = start
	b.EndTime = end
	b.UpdatedAt = time.Now()
	copied := *b
	return &copied, nil
}

type fakePayments struct {
	nextID   int
	payments map[int][]db.Payment // by booking id
	bookings *fakeBookings
}

func newFakePayments(bookings *fakeBookings) *fakePayments {
	return &fakePayments{nextID: 1, payments: map[int][]db.Payment{}, bookings: bookings}
}

func (f *fakePayments) ListByBooking(bookingID int) ([]db.Payment, error) {
	return f.payments[bookingID], nil
}

func (f *fakePayments) Create(p *db.Payment) error {
	p.ID = f.nextID
	f.nextID++
	p.CreatedAt = time.Now()
	f.payments[p.BookingID] = append(f.payments[p.BookingID], *p)
	return nil
}

func (f *fakePayments) UpdateStatus(id int, status string) (*db.Payment, error) {
	for bookingID, list := range f.payments {
		for i := range list {
			if list[i].ID == id {
				f.payments[bookingID][i].Status = status
				copied := f.payments[bookingID][i]
				return &copied, nil
			}
		}
	}
	return nil, fmt.Errorf("payment %d: %w", id, apperrors.ErrNotFound)
}

func (f *fakePayments) TotalRevenueForBusiness(businessID int) (float64, error) {
	total := 0.0
	for bookingID, list := range f.payments {
		b, ok := f.bookings.bookings[bookingID]
		if !ok || b.BusinessID != businessID {
			continue
		}
		for _, p := range list {
			if p.Status == db.PaymentPaid {
				total += p.Amount
			}
		}
	}
	return total, nil
}

// noopNotifier satisfies BookingNotifier and records calls.
type noopNotifier struct {
	created   int
	cancelled int
}

func (n *noopNotifier) BookingCreated(*db.Booking)   { n.created++ }
func (n *noopNotifier) BookingCancelled(*db.Booking) { n.cancelled++ }
