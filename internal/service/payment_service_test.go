package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servibook/internal/db"
	"servibook/internal/entities"
	apperrors "servibook/internal/errors"
)

func paymentFixture(t *testing.T) (*PaymentService, *fakeBookings, *fakePayments) {
	t.Helper()
	bookings := newFakeBookings()
	payments := newFakePayments(bookings)
	return NewPaymentService(payments, bookings), bookings, payments
}

func seedBooking(t *testing.T, bookings *fakeBookings, businessID int, offset time.Duration) *db.Booking {
	t.Helper()
	customerID := 5
	b := &db.Booking{
		Code: "seed", CustomerID: &customerID, BusinessID: businessID, ServiceID: 10,
		StartTime: bookingDay.Add(offset),
		EndTime:   bookingDay.Add(offset + time.Hour),
		Status:    db.BookingConfirmed,
	}
	require.NoError(t, bookings.CreateIfSlotFree(b, false))
	return b
}

func TestIsUnpaid(t *testing.T) {
	svc, bookings, payments := paymentFixture(t)
	b := seedBooking(t, bookings, 1, 10*time.Hour)

	// No payments at all.
	unpaid, err := svc.IsUnpaid(b.ID)
	require.NoError(t, err)
	assert.True(t, unpaid)

	// A pending payment does not settle the booking.
	require.NoError(t, payments.Create(&db.Payment{BookingID: b.ID, Amount: 30, Method: "card", Status: db.PaymentPending}))
	unpaid, err = svc.IsUnpaid(b.ID)
	require.NoError(t, err)
	assert.True(t, unpaid)

	// Neither does a refunded or failed one.
	require.NoError(t, payments.Create(&db.Payment{BookingID: b.ID, Amount: 30, Method: "card", Status: db.PaymentRefunded}))
	require.NoError(t, payments.Create(&db.Payment{BookingID: b.ID, Amount: 30, Method: "card", Status: db.PaymentFailed}))
	unpaid, err = svc.IsUnpaid(b.ID)
	require.NoError(t, err)
	assert.True(t, unpaid)

	// One paid payment flips the verdict.
	require.NoError(t, payments.Create(&db.Payment{BookingID: b.ID, Amount: 30, Method: "card", Status: db.PaymentPaid}))
	unpaid, err = svc.IsUnpaid(b.ID)
	require.NoError(t, err)
	assert.False(t, unpaid)
}

func TestUnpaidReflectsStatusChanges(t *testing.T) {
	svc, bookings, payments := paymentFixture(t)
	b := seedBooking(t, bookings, 1, 10*time.Hour)

	p := &db.Payment{BookingID: b.ID, Amount: 30, Method: "card", Status: db.PaymentPaid}
	require.NoError(t, payments.Create(p))

	unpaid, err := svc.IsUnpaid(b.ID)
	require.NoError(t, err)
	assert.False(t, unpaid)

	// Refunding the only paid payment makes the booking unpaid again: the
	// verdict is recomputed, never cached.
	_, err = svc.UpdatePaymentStatus(p.ID, db.PaymentRefunded)
	require.NoError(t, err)

	unpaid, err = svc.IsUnpaid(b.ID)
	require.NoError(t, err)
	assert.True(t, unpaid)
}

func TestListUnpaidBookings(t *testing.T) {
	svc, bookings, payments := paymentFixture(t)
	paid := seedBooking(t, bookings, 1, 10*time.Hour)
	owing := seedBooking(t, bookings, 1, 12*time.Hour)
	other := seedBooking(t, bookings, 2, 10*time.Hour)

	require.NoError(t, payments.Create(&db.Payment{BookingID: paid.ID, Amount: 30, Method: "card", Status: db.PaymentPaid}))

	unpaid, err := svc.ListUnpaidBookings(1)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, owing.ID, unpaid[0].ID)

	// Business 0 spans all businesses.
	all, err := svc.ListUnpaidBookings(0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	ids := []int{all[0].ID, all[1].ID}
	assert.Contains(t, ids, owing.ID)
	assert.Contains(t, ids, other.ID)
}

func TestCreatePaymentValidation(t *testing.T) {
	svc, bookings, _ := paymentFixture(t)
	b := seedBooking(t, bookings, 1, 10*time.Hour)

	_, err := svc.CreatePayment(entities.PaymentRequest{BookingID: b.ID, Amount: -1, Method: "card"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CreatePayment(entities.PaymentRequest{BookingID: b.ID, Amount: 30})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CreatePayment(entities.PaymentRequest{BookingID: b.ID, Amount: 30, Method: "card", Status: "settled"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CreatePayment(entities.PaymentRequest{BookingID: 99, Amount: 30, Method: "card"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	p, err := svc.CreatePayment(entities.PaymentRequest{BookingID: b.ID, Amount: 30, Method: "card"})
	require.NoError(t, err)
	assert.Equal(t, db.PaymentPending, p.Status)
	assert.NotZero(t, p.ID)
}

func TestTotalRevenue(t *testing.T) {
	svc, bookings, payments := paymentFixture(t)

	// No bookings, no payments: zero, not an error.
	rev, err := svc.TotalRevenue(1)
	require.NoError(t, err)
	assert.Equal(t, entities.RevenueResponse{BusinessID: 1, TotalRevenue: 0}, rev)

	a := seedBooking(t, bookings, 1, 10*time.Hour)
	b := seedBooking(t, bookings, 1, 12*time.Hour)
	other := seedBooking(t, bookings, 2, 10*time.Hour)

	require.NoError(t, payments.Create(&db.Payment{BookingID: a.ID, Amount: 30, Method: "card", Status: db.PaymentPaid}))
	require.NoError(t, payments.Create(&db.Payment{BookingID: b.ID, Amount: 45.50, Method: "cash", Status: db.PaymentPaid}))
	// Non-paid rows and other businesses never count.
	require.NoError(t, payments.Create(&db.Payment{BookingID: b.ID, Amount: 100, Method: "card", Status: db.PaymentRefunded}))
	require.NoError(t, payments.Create(&db.Payment{BookingID: other.ID, Amount: 99, Method: "card", Status: db.PaymentPaid}))

	rev, err = svc.TotalRevenue(1)
	require.NoError(t, err)
	assert.Equal(t, 75.50, rev.TotalRevenue)
}

func TestListForBookingRequiresBooking(t *testing.T) {
	svc, bookings, payments := paymentFixture(t)
	b := seedBooking(t, bookings, 1, 10*time.Hour)
	require.NoError(t, payments.Create(&db.Payment{BookingID: b.ID, Amount: 30, Method: "card", Status: db.PaymentPending}))

	list, err := svc.ListForBooking(b.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.ListForBooking(404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
