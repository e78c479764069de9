// Package repository contains data access logic separated from HTTP handlers.
// This file defines the repository methods for venues.  A Venue is a place
// that hosts shows; its name is unique across the directory.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to match sql.ErrNoRows

	"github.com/iliyamo/venue-booking/internal/model"
)

// NameMatch is a search hit together with the number of shows linked to
// the matched row.  ShowCount includes past and upcoming shows alike.
type NameMatch struct {
	ID        uint64
	Name      string
	ShowCount int
}

// VenueRepo encapsulates all database queries related to venues.  It
// runs against whatever Querier it was constructed with, normally the
// *sql.Tx handed out by Store.InTx.
type VenueRepo struct {
	db Querier // db is a transaction or connection pool
}

// NewVenueRepo constructs a VenueRepo with the provided handle.
func NewVenueRepo(db Querier) *VenueRepo {
	return &VenueRepo{db: db}
}

const venueColumns = `id, name, city, state, address, phone, image_link, website,
	facebook_link, seeking_talent, seeking_description`

func scanVenue(row interface{ Scan(...any) error }) (*model.Venue, error) {
	var (
		v        model.Venue
		website  sql.NullString
		facebook sql.NullString
	)
	if err := row.Scan(&v.ID, &v.Name, &v.City, &v.State, &v.Address, &v.Phone, &v.ImageLink,
		&website, &facebook, &v.SeekingTalent, &v.SeekingDescription); err != nil {
		return nil, err
	}
	v.Website = optional(website)
	v.FacebookLink = optional(facebook)
	return &v, nil
}

// Create inserts a new venue.  On success the venue's ID field is
// populated with the auto‑generated value.  A name that already exists
// yields an error wrapping ErrDuplicate.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (name, city, state, address, phone, image_link, website,
	           facebook_link, seeking_talent, seeking_description)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone, v.ImageLink,
		nullable(v.Website), nullable(v.FacebookLink), v.SeekingTalent, v.SeekingDescription)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID fetches a venue by its ID.  It returns ErrVenueNotFound if no
// row is found.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	q := "SELECT " + venueColumns + " FROM venues WHERE id = ?"
	v, err := scanVenue(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return v, nil
}

// ListAll returns every venue ordered by id.
func (r *VenueRepo) ListAll(ctx context.Context) ([]*model.Venue, error) {
	q := "SELECT " + venueColumns + " FROM venues ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchByName returns venues whose name contains term, ignoring case.
// An empty term matches every venue.
func (r *VenueRepo) SearchByName(ctx context.Context, term string) ([]NameMatch, error) {
	const q = `SELECT v.id, v.name, COUNT(s.id)
	           FROM venues v
	           LEFT JOIN shows s ON s.venue_id = v.id
	           WHERE LOWER(v.name) LIKE ? ESCAPE '!'
	           GROUP BY v.id, v.name
	           ORDER BY v.id`
	return searchNames(ctx, r.db, q, term)
}

// Update overwrites every mutable column of the venue identified by v.ID.
// It returns ErrVenueNotFound when the row does not exist.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	const q = `UPDATE venues
	           SET name = ?, city = ?, state = ?, address = ?, phone = ?, image_link = ?,
	               website = ?, facebook_link = ?, seeking_talent = ?, seeking_description = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone, v.ImageLink,
		nullable(v.Website), nullable(v.FacebookLink), v.SeekingTalent, v.SeekingDescription, v.ID)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// MySQL reports zero affected rows when nothing changed; tell that
	// apart from a missing row.
	return r.exists(ctx, v.ID)
}

// Delete removes the venue row.  Dependent shows must be removed first;
// otherwise the foreign key rejects the delete with ErrForeignKey.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func (r *VenueRepo) exists(ctx context.Context, id uint64) error {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = ?`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVenueNotFound
		}
		return err
	}
	return nil
}

// searchNames runs a name search query taking a single LIKE pattern.
func searchNames(ctx context.Context, db Querier, q, term string) ([]NameMatch, error) {
	rows, err := db.QueryContext(ctx, q, likePattern(term))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []NameMatch{}
	for rows.Next() {
		var m NameMatch
		if err := rows.Scan(&m.ID, &m.Name, &m.ShowCount); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
