// Package repository contains data access logic for Show domain operations.
// A Show links an artist to a venue at a start time.  Listing queries join
// both parents so callers get names and image links in one round trip.
package repository

import (
	"context" // context for controlling query lifetime
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ShowRow is a show joined with the venue and artist it references.
// StartTime is always UTC.
type ShowRow struct {
	ID              uint64
	StartTime       time.Time
	VenueID         uint64
	VenueName       string
	VenueImageLink  string
	ArtistID        uint64
	ArtistName      string
	ArtistImageLink string
}

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db Querier
}

// NewShowRepo creates a new ShowRepo.
func NewShowRepo(db Querier) *ShowRepo {
	return &ShowRepo{db: db}
}

const showRowSelect = `SELECT s.id, s.start_time,
	       v.id, v.name, v.image_link,
	       a.id, a.name, a.image_link
	FROM shows s
	JOIN venues v ON v.id = s.venue_id
	JOIN artists a ON a.id = s.artist_id`

// Create inserts a new show and populates its ID.  The start time is
// stored in UTC at microsecond precision, the finest both drivers keep.  A venue or artist that does not
// exist yields an error wrapping ErrForeignKey.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	s.StartTime = s.StartTime.UTC().Truncate(time.Microsecond)
	const q = `INSERT INTO shows (start_time, venue_id, artist_id) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.StartTime, s.VenueID, s.ArtistID)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// ListByVenue returns the shows hosted by a venue ordered by start time.
func (r *ShowRepo) ListByVenue(ctx context.Context, venueID uint64) ([]ShowRow, error) {
	return r.list(ctx, showRowSelect+" WHERE s.venue_id = ? ORDER BY s.start_time, s.id", venueID)
}

// ListByArtist returns the shows an artist plays ordered by start time.
func (r *ShowRepo) ListByArtist(ctx context.Context, artistID uint64) ([]ShowRow, error) {
	return r.list(ctx, showRowSelect+" WHERE s.artist_id = ? ORDER BY s.start_time, s.id", artistID)
}

// ListAll returns every show ordered by start time.
func (r *ShowRepo) ListAll(ctx context.Context) ([]ShowRow, error) {
	return r.list(ctx, showRowSelect+" ORDER BY s.start_time, s.id")
}

func (r *ShowRepo) list(ctx context.Context, q string, args ...any) ([]ShowRow, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ShowRow{}
	for rows.Next() {
		var s ShowRow
		if err := rows.Scan(&s.ID, timestamp{&s.StartTime},
			&s.VenueID, &s.VenueName, &s.VenueImageLink,
			&s.ArtistID, &s.ArtistName, &s.ArtistImageLink); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByVenue returns how many shows reference the venue.
func (r *ShowRepo) CountByVenue(ctx context.Context, venueID uint64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM shows WHERE venue_id = ?`, venueID)
}

// CountByArtist returns how many shows reference the artist.
func (r *ShowRepo) CountByArtist(ctx context.Context, artistID uint64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM shows WHERE artist_id = ?`, artistID)
}

func (r *ShowRepo) count(ctx context.Context, q string, id uint64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteByVenue removes every show hosted by the venue and reports how
// many rows were deleted.
func (r *ShowRepo) DeleteByVenue(ctx context.Context, venueID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shows WHERE venue_id = ?`, venueID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByArtist removes every show the artist plays and reports how many
// rows were deleted.
func (r *ShowRepo) DeleteByArtist(ctx context.Context, artistID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shows WHERE artist_id = ?`, artistID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
