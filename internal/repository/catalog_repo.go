package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"servibook/internal/db"
)

// CatalogRepository is the read-only lookup surface over the marketplace
// CRUD tables. The booking core only needs existence plus a handful of
// attributes; record management lives elsewhere.
type CatalogRepository interface {
	GetBusiness(id int) (*db.Business, error)
	GetCustomer(id int) (*db.Customer, error)
	GetService(id int) (*db.Service, error)
	GetStaffMember(id int) (*db.StaffMember, error)
}

type catalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(database *sql.DB) CatalogRepository {
	return &catalogRepository{db: database}
}

// Lookups return (nil, nil) when the row does not exist; callers decide
// whether absence is an error.

func (r *catalogRepository) GetBusiness(id int) (*db.Business, error) {
	var b db.Business
	var city, postal sql.NullString
	err := r.db.QueryRow(
		`SELECT id, owner_id, name, city, postal_code, created_at FROM businesses WHERE id = $1`, id).
		Scan(&b.ID, &b.OwnerID, &b.Name, &city, &postal, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying business %d: %w", id, err)
	}
	b.City = city.String
	b.PostalCode = postal.String
	return &b, nil
}

func (r *catalogRepository) GetCustomer(id int) (*db.Customer, error) {
	var c db.Customer
	var phone sql.NullString
	err := r.db.QueryRow(
		`SELECT id, role, name, email, phone, created_at FROM users WHERE id = $1`, id).
		Scan(&c.ID, &c.Role, &c.Name, &c.Email, &phone, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user %d: %w", id, err)
	}
	c.Phone = phone.String
	return &c, nil
}

func (r *catalogRepository) GetService(id int) (*db.Service, error) {
	var s db.Service
	var description sql.NullString
	err := r.db.QueryRow(
		`SELECT id, business_id, name, description, duration_minutes, price, is_active FROM services WHERE id = $1`, id).
		Scan(&s.ID, &s.BusinessID, &s.Name, &description, &s.DurationMinutes, &s.Price, &s.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying service %d: %w", id, err)
	}
	s.Description = description.String
	return &s, nil
}

func (r *catalogRepository) GetStaffMember(id int) (*db.StaffMember, error) {
	var m db.StaffMember
	var email, phone, role sql.NullString
	err := r.db.QueryRow(
		`SELECT id, business_id, name, email, phone_number, role, is_active FROM staffmembers WHERE id = $1`, id).
		Scan(&m.ID, &m.BusinessID, &m.Name, &email, &phone, &role, &m.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying staff member %d: %w", id, err)
	}
	m.Email = email.String
	m.Phone = phone.String
	m.Role = role.String
	return &m, nil
}
