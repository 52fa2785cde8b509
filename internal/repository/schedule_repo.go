package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"servibook/internal/db"
	apperrors "servibook/internal/errors"
	"servibook/internal/schedule"
)

// ScheduleRepository owns the weekly opening hours of businesses.
type ScheduleRepository interface {
	// GetOpeningWindow resolves (business, ISO weekday) to an open window.
	// A nil window with nil error means closed that day, which is a
	// legitimate state and not a failure.
	GetOpeningWindow(businessID, weekday int) (*schedule.Window, error)
	ListOpeningHours(businessID int) ([]db.OpeningHour, error)
	ReplaceOpeningHours(businessID int, hours []db.OpeningHour) error
}

type scheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(database *sql.DB) ScheduleRepository {
	return &scheduleRepository{db: database}
}

func (r *scheduleRepository) GetOpeningWindow(businessID, weekday int) (*schedule.Window, error) {
	var openRaw, closeRaw string
	err := r.db.QueryRow(
		`SELECT open_time, closing_time FROM business_opening_hours
		 WHERE business_id = $1 AND weekday = $2`,
		businessID, weekday).Scan(&openRaw, &closeRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying opening hours for business %d: %w", businessID, err)
	}

	open, err := schedule.ParseTimeOfDay(openRaw)
	if err != nil {
		return nil, fmt.Errorf("business %d weekday %d: %w", businessID, weekday, err)
	}
	close, err := schedule.ParseTimeOfDay(closeRaw)
	if err != nil {
		return nil, fmt.Errorf("business %d weekday %d: %w", businessID, weekday, err)
	}
	return &schedule.Window{Open: open, Close: close}, nil
}

func (r *scheduleRepository) ListOpeningHours(businessID int) ([]db.OpeningHour, error) {
	rows, err := r.db.Query(
		`SELECT business_id, weekday, open_time, closing_time FROM business_opening_hours
		 WHERE business_id = $1 ORDER BY weekday`, businessID)
	if err != nil {
		return nil, fmt.Errorf("error querying opening hours: %w", err)
	}
	defer rows.Close()

	var hours []db.OpeningHour
	for rows.Next() {
		var h db.OpeningHour
		if err := rows.Scan(&h.BusinessID, &h.Weekday, &h.OpenTime, &h.CloseTime); err != nil {
			return nil, fmt.Errorf("error scanning opening hours: %w", err)
		}
		if open, err := schedule.ParseTimeOfDay(h.OpenTime); err == nil {
			h.OpenTime = open.String()
		}
		if close, err := schedule.ParseTimeOfDay(h.CloseTime); err == nil {
			h.CloseTime = close.String()
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

// ReplaceOpeningHours overwrites the full week in one transaction: delete
// then insert, so a weekday omitted from the new set becomes closed.
func (r *scheduleRepository) ReplaceOpeningHours(businessID int, hours []db.OpeningHour) error {
	for _, h := range hours {
		if h.Weekday < 1 || h.Weekday > 7 {
			return fmt.Errorf("weekday %d out of range 1..7: %w", h.Weekday, apperrors.ErrValidation)
		}
		open, err := schedule.ParseTimeOfDay(h.OpenTime)
		if err != nil {
			return fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
		}
		close, err := schedule.ParseTimeOfDay(h.CloseTime)
		if err != nil {
			return fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
		}
		if open >= close {
			return fmt.Errorf("weekday %d: open %s must be before close %s: %w",
				h.Weekday, open, close, apperrors.ErrValidation)
		}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("error starting opening-hours transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM business_opening_hours WHERE business_id = $1`, businessID); err != nil {
		return fmt.Errorf("error clearing opening hours: %w", err)
	}
	for _, h := range hours {
		if _, err := tx.Exec(
			`INSERT INTO business_opening_hours (business_id, weekday, open_time, closing_time)
			 VALUES ($1, $2, $3, $4)`,
			businessID, h.Weekday, h.OpenTime, h.CloseTime); err != nil {
			return fmt.Errorf("error inserting opening hours for weekday %d: %w", h.Weekday, err)
		}
	}
	return tx.Commit()
}
