package repository

import (
	"database/sql"
	"fmt"
	"time"

	"servibook/internal/db"
	apperrors "servibook/internal/errors"
	"servibook/internal/schedule"
)

const bookingColumns = `id, code, customer_id, business_id, service_id, staff_id, starttime, endtime, status, notes, created_at, updated_at`

// BookingRepository is the booking store consumed by the lifecycle manager
// and the availability filter.
type BookingRepository interface {
	GetByID(id int) (*db.Booking, error)
	ListByBusinessAndDate(businessID int, date time.Time) ([]db.Booking, error)
	ListByBusiness(businessID int) ([]db.Booking, error)
	ListByCustomer(customerID int) ([]db.Booking, error)
	ListUnpaid(businessID int) ([]db.Booking, error)
	CountByBusiness(businessID int) (int, error)
	CreateIfSlotFree(b *db.Booking, staffExclusive bool) error
	UpdateStatus(id int, status string) (*db.Booking, error)
	RescheduleIfSlotFree(id int, start, end time.Time, staffExclusive bool) (*db.Booking, error)
}

type bookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) BookingRepository {
	return &bookingRepository{DB: database}
}

func scanBooking(row interface{ Scan(...any) error }) (*db.Booking, error) {
	var b db.Booking
	var customerID, staffID sql.NullInt64
	var notes sql.NullString
	err := row.Scan(&b.ID, &b.Code, &customerID, &b.BusinessID, &b.ServiceID, &staffID,
		&b.StartTime, &b.EndTime, &b.Status, &notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if customerID.Valid {
		id := int(customerID.Int64)
		b.CustomerID = &id
	}
	if staffID.Valid {
		id := int(staffID.Int64)
		b.StaffID = &id
	}
	b.Notes = notes.String
	return &b, nil
}

func collectBookings(rows *sql.Rows) ([]db.Booking, error) {
	defer rows.Close()
	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) GetByID(id int) (*db.Booking, error) {
	row := r.DB.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("booking %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	return b, nil
}

// ListByBusinessAndDate returns the bookings whose start falls on the given
// calendar date. Date matching happens here, not in the availability filter.
func (r *bookingRepository) ListByBusinessAndDate(businessID int, date time.Time) ([]db.Booking, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	rows, err := r.DB.Query(
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE business_id = $1 AND starttime >= $2 AND starttime < $3
		 ORDER BY starttime`,
		businessID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings for business %d: %w", businessID, err)
	}
	return collectBookings(rows)
}

func (r *bookingRepository) ListByBusiness(businessID int) ([]db.Booking, error) {
	rows, err := r.DB.Query(
		`SELECT `+bookingColumns+` FROM bookings WHERE business_id = $1 ORDER BY starttime`, businessID)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings for business %d: %w", businessID, err)
	}
	return collectBookings(rows)
}

func (r *bookingRepository) ListByCustomer(customerID int) ([]db.Booking, error) {
	rows, err := r.DB.Query(
		`SELECT `+bookingColumns+` FROM bookings WHERE customer_id = $1 ORDER BY starttime`, customerID)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings for customer %d: %w", customerID, err)
	}
	return collectBookings(rows)
}

// ListUnpaid returns bookings candidates for the unpaid check; businessID 0
// means all businesses. The paid/unpaid verdict itself belongs to the
// payment reconciler, which re-checks every booking with the same predicate
// used for single lookups.
func (r *bookingRepository) ListUnpaid(businessID int) ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		 WHERE NOT EXISTS (
		 	SELECT 1 FROM payments WHERE payments.booking_id = bookings.id AND payments.status = 'paid'
		 )`
	args := []any{}
	if businessID != 0 {
		query += ` AND business_id = $1`
		args = append(args, businessID)
	}
	query += ` ORDER BY starttime`
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying unpaid bookings: %w", err)
	}
	return collectBookings(rows)
}

func (r *bookingRepository) CountByBusiness(businessID int) (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM bookings WHERE business_id = $1`, businessID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting bookings: %w", err)
	}
	return count, nil
}

// CreateIfSlotFree runs the overlap check and the insert as one atomic unit:
// a per-business advisory lock is held for the transaction, so two
// concurrent creates for the same business serialize and exactly one sees
// the slot free. A conflict surfaces as ErrSlotUnavailable, never a silent
// retry.
func (r *bookingRepository) CreateIfSlotFree(b *db.Booking, staffExclusive bool) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting booking transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockBusiness(tx, b.BusinessID); err != nil {
		return err
	}
	conflict, err := hasConflict(tx, b.BusinessID, 0, b.StartTime, b.EndTime, b.StaffID, staffExclusive)
	if err != nil {
		return err
	}
	if conflict {
		return fmt.Errorf("booking %s-%s for business %d: %w",
			b.StartTime.Format(time.RFC3339), b.EndTime.Format(time.RFC3339), b.BusinessID, apperrors.ErrSlotUnavailable)
	}

	err = tx.QueryRow(
		`INSERT INTO bookings (code, customer_id, business_id, service_id, staff_id, starttime, endtime, status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		b.Code, nullableInt(b.CustomerID), b.BusinessID, b.ServiceID, nullableInt(b.StaffID),
		b.StartTime, b.EndTime, b.Status, b.Notes,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting booking: %w", err)
	}
	return tx.Commit()
}

func (r *bookingRepository) UpdateStatus(id int, status string) (*db.Booking, error) {
	row := r.DB.QueryRow(
		`UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING `+bookingColumns,
		id, status)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("booking %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error updating booking status: %w", err)
	}
	return b, nil
}

// RescheduleIfSlotFree re-derives the overlap invariant from scratch under
// the same per-business lock as creation, excluding the booking being moved.
func (r *bookingRepository) RescheduleIfSlotFree(id int, start, end time.Time, staffExclusive bool) (*db.Booking, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting reschedule transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := scanBooking(tx.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("booking %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading booking for reschedule: %w", err)
	}

	if err := lockBusiness(tx, current.BusinessID); err != nil {
		return nil, err
	}
	conflict, err := hasConflict(tx, current.BusinessID, id, start, end, current.StaffID, staffExclusive)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, fmt.Errorf("reschedule of booking %d: %w", id, apperrors.ErrSlotUnavailable)
	}

	updated, err := scanBooking(tx.QueryRow(
		`UPDATE bookings SET starttime = $2, endtime = $3, updated_at = NOW() WHERE id = $1 RETURNING `+bookingColumns,
		id, start, end))
	if err != nil {
		return nil, fmt.Errorf("error rescheduling booking: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing reschedule: %w", err)
	}
	return updated, nil
}

func lockBusiness(tx *sql.Tx, businessID int) error {
	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock($1)`, int64(businessID)); err != nil {
		return fmt.Errorf("error locking business %d: %w", businessID, err)
	}
	return nil
}

// hasConflict loads the active bookings around the requested interval and
// evaluates overlap with the shared half-open predicate. excludeID skips the
// booking being rescheduled. With staffExclusive, overlapping bookings only
// conflict when they compete for the same staff member; an unassigned side
// always conflicts.
func hasConflict(tx *sql.Tx, businessID, excludeID int, start, end time.Time, staffID *int, staffExclusive bool) (bool, error) {
	rows, err := tx.Query(
		`SELECT starttime, endtime, staff_id FROM bookings
		 WHERE business_id = $1 AND id <> $2 AND status <> 'cancelled'
		   AND starttime < $4 AND endtime > $3`,
		businessID, excludeID, start, end)
	if err != nil {
		return false, fmt.Errorf("error querying conflicting bookings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bStart, bEnd time.Time
		var bStaff sql.NullInt64
		if err := rows.Scan(&bStart, &bEnd, &bStaff); err != nil {
			return false, fmt.Errorf("error scanning conflicting booking: %w", err)
		}
		if !schedule.Overlaps(start, end, bStart, bEnd) {
			continue
		}
		if staffExclusive && staffID != nil && bStaff.Valid && int(bStaff.Int64) != *staffID {
			continue
		}
		return true, nil
	}
	return false, rows.Err()
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
