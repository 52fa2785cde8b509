package repository

import (
	"database/sql"
	"fmt"

	"servibook/internal/db"
	apperrors "servibook/internal/errors"
)

// PaymentRepository stores payment records. Payments are plain status rows;
// no gateway is involved.
type PaymentRepository interface {
	ListByBooking(bookingID int) ([]db.Payment, error)
	Create(p *db.Payment) error
	UpdateStatus(id int, status string) (*db.Payment, error)
	TotalRevenueForBusiness(businessID int) (float64, error)
}

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(database *sql.DB) PaymentRepository {
	return &paymentRepository{DB: database}
}

func (r *paymentRepository) ListByBooking(bookingID int) ([]db.Payment, error) {
	rows, err := r.DB.Query(
		`SELECT id, booking_id, amount, payment_method, status, created_at
		 FROM payments WHERE booking_id = $1 ORDER BY created_at`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("error querying payments for booking %d: %w", bookingID, err)
	}
	defer rows.Close()

	var payments []db.Payment
	for rows.Next() {
		var p db.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Method, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) Create(p *db.Payment) error {
	err := r.DB.QueryRow(
		`INSERT INTO payments (booking_id, amount, payment_method, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		p.BookingID, p.Amount, p.Method, p.Status).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) UpdateStatus(id int, status string) (*db.Payment, error) {
	var p db.Payment
	err := r.DB.QueryRow(
		`UPDATE payments SET status = $2 WHERE id = $1
		 RETURNING id, booking_id, amount, payment_method, status, created_at`,
		id, status).Scan(&p.ID, &p.BookingID, &p.Amount, &p.Method, &p.Status, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error updating payment status: %w", err)
	}
	return &p, nil
}

// TotalRevenueForBusiness sums paid payments joined through the business's
// bookings. Zero, not NULL, when nothing was paid.
func (r *paymentRepository) TotalRevenueForBusiness(businessID int) (float64, error) {
	var total float64
	err := r.DB.QueryRow(
		`SELECT COALESCE(SUM(payments.amount), 0)
		 FROM payments
		 JOIN bookings ON bookings.id = payments.booking_id
		 WHERE bookings.business_id = $1 AND payments.status = 'paid'`,
		businessID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("error computing revenue for business %d: %w", businessID, err)
	}
	return total, nil
}
