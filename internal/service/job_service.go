package service

import (
	"fmt"
	"log"
	"time"

	"servibook/internal/db"
	"servibook/internal/repository"
)

// JobService runs the cron sweeps: completing elapsed bookings and clearing
// stale unpaid ones. Both are bulk status moves that stay within the
// lifecycle table (confirmed -> completed, pending -> cancelled).
type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// CompleteElapsedBookings marks confirmed bookings whose end time has passed
// as completed.
func (s *JobService) CompleteElapsedBookings() error {
	log.Println("Cron Job: Checking for bookings to mark as 'completed'...")

	ids, err := s.Repo.GetConfirmedBookingIDsPastEndTime()
	if err != nil {
		return fmt.Errorf("cron job: failed to get elapsed confirmed bookings: %w", err)
	}
	if len(ids) == 0 {
		log.Println("Cron Job: No confirmed bookings found past their end time.")
		return nil
	}

	log.Printf("Cron Job: Found %d bookings to mark as 'completed'. IDs: %v", len(ids), ids)
	if err := s.Repo.UpdateBookingStatuses(ids, db.BookingCompleted); err != nil {
		return fmt.Errorf("cron job: failed to update booking statuses: %w", err)
	}
	return nil
}

// CancelStaleUnpaidBookings cancels pending bookings that were created more
// than ttl ago and still have no paid payment, freeing their slots.
func (s *JobService) CancelStaleUnpaidBookings(ttl time.Duration) error {
	cutoff := time.Now().Add(-ttl)
	ids, err := s.Repo.GetStalePendingBookingIDs(cutoff)
	if err != nil {
		return fmt.Errorf("cron job: failed to get stale pending bookings: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	log.Printf("Cron Job: Cancelling %d stale unpaid pending bookings. IDs: %v", len(ids), ids)
	if err := s.Repo.UpdateBookingStatuses(ids, db.BookingCancelled); err != nil {
		return fmt.Errorf("cron job: failed to cancel stale bookings: %w", err)
	}
	return nil
}
