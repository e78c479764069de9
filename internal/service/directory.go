// Package service holds the directory's query and mutation logic.  It
// runs every operation inside a repository transaction, computes the
// past/upcoming projections against an injectable clock and translates
// repository failures into the typed errors in errors.go.
package service

import (
	"context"
	"sort"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/venue-booking/internal/queue"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// EventPublisher receives notifications after a mutation has committed.
type EventPublisher interface {
	PublishShowScheduled(ctx context.Context, ev queue.ShowScheduledEvent) error
	PublishListingChanged(ctx context.Context, ev queue.ListingChangedEvent) error
}

// Directory exposes the read and write operations over venues, artists
// and shows.
type Directory struct {
	store  *repository.Store
	now    func() time.Time
	events EventPublisher
	logger *log.Logger
	loc    *time.Location
}

// Option customises a Directory.
type Option func(*Directory)

// WithClock replaces time.Now as the source of the current instant.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

// WithEvents installs the publisher notified after commits.
func WithEvents(p EventPublisher) Option {
	return func(d *Directory) { d.events = p }
}

// WithLogger sets the logger used for event publishing failures.
func WithLogger(l *log.Logger) Option {
	return func(d *Directory) { d.logger = l }
}

// WithLocation sets the time zone start times are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(d *Directory) {
		if loc != nil {
			d.loc = loc
		}
	}
}

// NewDirectory builds a Directory over store.
func NewDirectory(store *repository.Store, opts ...Option) *Directory {
	d := &Directory{
		store:  store,
		now:    time.Now,
		logger: log.New("directory"),
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ListAreas groups every venue by its exact (city, state) pair.  Groups
// are ordered by state then city and venues by id.
func (d *Directory) ListAreas(ctx context.Context) ([]Area, error) {
	now := d.now()
	var areas []Area
	err := d.store.InTx(ctx, func(tx *repository.Tx) error {
		venues, err := tx.Venues.ListAll(ctx)
		if err != nil {
			return err
		}
		shows, err := tx.Shows.ListAll(ctx)
		if err != nil {
			return err
		}
		upcoming := make(map[uint64]int)
		_, up := partition(shows, now)
		for _, s := range up {
			upcoming[s.VenueID]++
		}

		type key struct{ city, state string }
		index := make(map[key]int)
		areas = []Area{}
		for _, v := range venues {
			k := key{v.City, v.State}
			i, ok := index[k]
			if !ok {
				i = len(areas)
				index[k] = i
				areas = append(areas, Area{City: v.City, State: v.State, Venues: []AreaVenue{}})
			}
			areas[i].Venues = append(areas[i].Venues, AreaVenue{
				ID:                v.ID,
				Name:              v.Name,
				UpcomingShowCount: upcoming[v.ID],
			})
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("list areas", err)
	}
	sort.SliceStable(areas, func(i, j int) bool {
		if areas[i].State != areas[j].State {
			return areas[i].State < areas[j].State
		}
		return areas[i].City < areas[j].City
	})
	return areas, nil
}

// ListVenues returns the id and name of every venue.
func (d *Directory) ListVenues(ctx context.Context) ([]Summary, error) {
	out := []Summary{}
	err := d.store.InTx(ctx, func(tx *repository.Tx) error {
		venues, err := tx.Venues.ListAll(ctx)
		for _, v := range venues {
			out = append(out, Summary{ID: v.ID, Name: v.Name})
		}
		return err
	})
	if err != nil {
		return nil, storeErr("list venues", err)
	}
	return out, nil
}

// ListArtists returns the id and name of every artist.
func (d *Directory) ListArtists(ctx context.Context) ([]Summary, error) {
	out := []Summary{}
	err := d.store.InTx(ctx, func(tx *repository.Tx) error {
		artists, err := tx.Artists.ListAll(ctx)
		for _, a := range artists {
			out = append(out, Summary{ID: a.ID, Name: a.Name})
		}
		return err
	})
	if err != nil {
		return nil, storeErr("list artists", err)
	}
	return out, nil
}

// SearchVenues finds venues whose name contains term, ignoring case.
func (d *Directory) SearchVenues(ctx context.Context, term string) (SearchResult, error) {
	var matches []repository.NameMatch
	err := d.store.InTx(ctx, func(tx *repository.Tx) (err error) {
		matches, err = tx.Venues.SearchByName(ctx, term)
		return err
	})
	if err != nil {
		return SearchResult{}, storeErr("search venues", err)
	}
	return searchResult(matches), nil
}

// SearchArtists finds artists whose name contains term, ignoring case.
func (d *Directory) SearchArtists(ctx context.Context, term string) (SearchResult, error) {
	var matches []repository.NameMatch
	err := d.store.InTx(ctx, func(tx *repository.Tx) (err error) {
		matches, err = tx.Artists.SearchByName(ctx, term)
		return err
	})
	if err != nil {
		return SearchResult{}, storeErr("search artists", err)
	}
	return searchResult(matches), nil
}

func searchResult(matches []repository.NameMatch) SearchResult {
	res := SearchResult{Count: len(matches), Results: make([]SearchHit, 0, len(matches))}
	for _, m := range matches {
		res.Results = append(res.Results, SearchHit{ID: m.ID, Name: m.Name, ShowCount: m.ShowCount})
	}
	return res
}

// VenueDetail returns the venue with its shows split into past and
// upcoming relative to the current instant.
func (d *Directory) VenueDetail(ctx context.Context, id uint64) (*VenueDetail, error) {
	now := d.now()
	var out *VenueDetail
	err := d.store.InTx(ctx, func(tx *repository.Tx) error {
		v, err := tx.Venues.GetByID(ctx, id)
		if err != nil {
			return notFound(err, id)
		}
		rows, err := tx.Shows.ListByVenue(ctx, id)
		if err != nil {
			return err
		}
		past, upcoming := partition(rows, now)
		out = &VenueDetail{
			Venue:              *v,
			PastShows:          d.venueShows(past),
			PastShowsCount:     len(past),
			UpcomingShows:      d.venueShows(upcoming),
			UpcomingShowsCount: len(upcoming),
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("venue detail", err)
	}
	return out, nil
}

// ArtistDetail returns the artist with its shows split into past and
// upcoming relative to the current instant.
func (d *Directory) ArtistDetail(ctx context.Context, id uint64) (*ArtistDetail, error) {
	now := d.now()
	var out *ArtistDetail
	err := d.store.InTx(ctx, func(tx *repository.Tx) error {
		a, err := tx.Artists.GetByID(ctx, id)
		if err != nil {
			return notFound(err, id)
		}
		rows, err := tx.Shows.ListByArtist(ctx, id)
		if err != nil {
			return err
		}
		past, upcoming := partition(rows, now)
		out = &ArtistDetail{
			Artist:             *a,
			PastShows:          d.artistShows(past),
			PastShowsCount:     len(past),
			UpcomingShows:      d.artistShows(upcoming),
			UpcomingShowsCount: len(upcoming),
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("artist detail", err)
	}
	return out, nil
}

// ListUpcomingShows returns every show starting after the current instant,
// earliest first.
func (d *Directory) ListUpcomingShows(ctx context.Context) ([]UpcomingShow, error) {
	now := d.now()
	var rows []repository.ShowRow
	err := d.store.InTx(ctx, func(tx *repository.Tx) (err error) {
		rows, err = tx.Shows.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, storeErr("list shows", err)
	}
	_, upcoming := partition(rows, now)
	out := make([]UpcomingShow, 0, len(upcoming))
	for _, r := range upcoming {
		out = append(out, UpcomingShow{
			VenueID:         r.VenueID,
			VenueName:       r.VenueName,
			ArtistID:        r.ArtistID,
			ArtistName:      r.ArtistName,
			ArtistImageLink: r.ArtistImageLink,
			StartTime:       d.format(r.StartTime, ListingTimeLayout),
		})
	}
	return out, nil
}
