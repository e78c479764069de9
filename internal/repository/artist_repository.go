package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ArtistRepo provides persistence for artists.  Genres are stored as a
// JSON array in a text column so that their order survives a round trip
// on both MySQL and SQLite.
type ArtistRepo struct {
	db Querier
}

// NewArtistRepo constructs an ArtistRepo with the given handle.
func NewArtistRepo(db Querier) *ArtistRepo {
	return &ArtistRepo{db: db}
}

const artistColumns = `id, name, city, state, phone, genres, image_link, website,
	facebook_link, seeking_venue, seeking_description`

func scanArtist(row interface{ Scan(...any) error }) (*model.Artist, error) {
	var (
		a        model.Artist
		genres   string
		website  sql.NullString
		facebook sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Name, &a.City, &a.State, &a.Phone, &genres, &a.ImageLink,
		&website, &facebook, &a.SeekingVenue, &a.SeekingDescription); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(genres), &a.Genres); err != nil {
		return nil, fmt.Errorf("decode genres of artist %d: %w", a.ID, err)
	}
	if a.Genres == nil {
		a.Genres = []string{}
	}
	a.Website = optional(website)
	a.FacebookLink = optional(facebook)
	return &a, nil
}

func encodeGenres(genres []string) (string, error) {
	if genres == nil {
		genres = []string{}
	}
	b, err := json.Marshal(genres)
	if err != nil {
		return "", fmt.Errorf("encode genres: %w", err)
	}
	return string(b), nil
}

// Create inserts a new artist and assigns the generated ID.
func (r *ArtistRepo) Create(ctx context.Context, a *model.Artist) error {
	genres, err := encodeGenres(a.Genres)
	if err != nil {
		return err
	}
	const q = `INSERT INTO artists (name, city, state, phone, genres, image_link, website,
	           facebook_link, seeking_venue, seeking_description)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, genres, a.ImageLink,
		nullable(a.Website), nullable(a.FacebookLink), a.SeekingVenue, a.SeekingDescription)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID retrieves an artist by its ID.  It returns ErrArtistNotFound if
// there is no matching row.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (*model.Artist, error) {
	q := "SELECT " + artistColumns + " FROM artists WHERE id = ?"
	a, err := scanArtist(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListAll returns every artist ordered by id.
func (r *ArtistRepo) ListAll(ctx context.Context) ([]*model.Artist, error) {
	q := "SELECT " + artistColumns + " FROM artists ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchByName returns artists whose name contains term, ignoring case.
func (r *ArtistRepo) SearchByName(ctx context.Context, term string) ([]NameMatch, error) {
	const q = `SELECT a.id, a.name, COUNT(s.id)
	           FROM artists a
	           LEFT JOIN shows s ON s.artist_id = a.id
	           WHERE LOWER(a.name) LIKE ? ESCAPE '!'
	           GROUP BY a.id, a.name
	           ORDER BY a.id`
	return searchNames(ctx, r.db, q, term)
}

// Update overwrites every mutable column of the artist identified by a.ID.
func (r *ArtistRepo) Update(ctx context.Context, a *model.Artist) error {
	genres, err := encodeGenres(a.Genres)
	if err != nil {
		return err
	}
	const q = `UPDATE artists
	           SET name = ?, city = ?, state = ?, phone = ?, genres = ?, image_link = ?,
	               website = ?, facebook_link = ?, seeking_venue = ?, seeking_description = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, genres, a.ImageLink,
		nullable(a.Website), nullable(a.FacebookLink), a.SeekingVenue, a.SeekingDescription, a.ID)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	return r.exists(ctx, a.ID)
}

// Delete removes the artist row.  It returns ErrArtistNotFound when no
// row was deleted.
func (r *ArtistRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrArtistNotFound
	}
	return nil
}

func (r *ArtistRepo) exists(ctx context.Context, id uint64) error {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM artists WHERE id = ?`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrArtistNotFound
		}
		return err
	}
	return nil
}
