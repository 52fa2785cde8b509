package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

// JobRepository backs the cron sweeps with bulk queries the request path
// never uses.
type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// GetConfirmedBookingIDsPastEndTime finds confirmed bookings whose interval
// has fully elapsed.
func (r *JobRepository) GetConfirmedBookingIDsPastEndTime() ([]int, error) {
	rows, err := r.DB.Query(`SELECT id FROM bookings WHERE status = 'confirmed' AND endtime < NOW()`)
	if err != nil {
		return nil, fmt.Errorf("error querying elapsed confirmed bookings: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// GetStalePendingBookingIDs finds pending bookings created before the cutoff
// that still have no paid payment.
func (r *JobRepository) GetStalePendingBookingIDs(createdBefore time.Time) ([]int, error) {
	rows, err := r.DB.Query(
		`SELECT id FROM bookings
		 WHERE status = 'pending' AND created_at < $1
		   AND NOT EXISTS (
		 	SELECT 1 FROM payments WHERE payments.booking_id = bookings.id AND payments.status = 'paid'
		   )`, createdBefore)
	if err != nil {
		return nil, fmt.Errorf("error querying stale pending bookings: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// UpdateBookingStatuses moves a list of bookings to newStatus in one
// statement. Also bumps updated_at.
func (r *JobRepository) UpdateBookingStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	result, err := r.DB.Exec(
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = ANY($2)`,
		newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating booking statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d bookings to '%s'", rowsAffected, newStatus)
	}
	return nil
}
