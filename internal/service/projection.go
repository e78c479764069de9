package service

import (
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// Time layouts of the two show projections.  Detail pages and the global
// listing intentionally use different formats.
const (
	DetailTimeLayout  = "01/02/2006, 15:04"
	ListingTimeLayout = "2006/01/02, 15:04"
)

// Summary is an id/name pair used by the plain listings.
type Summary struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// AreaVenue is a venue as shown inside an area group.
type AreaVenue struct {
	ID                uint64 `json:"id"`
	Name              string `json:"name"`
	UpcomingShowCount int    `json:"num_upcoming_shows"`
}

// Area groups the venues sharing an exact (city, state) pair.
type Area struct {
	City   string      `json:"city"`
	State  string      `json:"state"`
	Venues []AreaVenue `json:"venues"`
}

// SearchHit is one row of a name search.  ShowCount counts every show
// linked to the row, past and upcoming.
type SearchHit struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	ShowCount int    `json:"num_shows"`
}

// SearchResult is the outcome of a name search.
type SearchResult struct {
	Count   int         `json:"count"`
	Results []SearchHit `json:"results"`
}

// VenueShow is a show on a venue page, described by its artist.
type VenueShow struct {
	ArtistID        uint64 `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}

// ArtistShow is a show on an artist page, described by its venue.
type ArtistShow struct {
	VenueID        uint64 `json:"venue_id"`
	VenueName      string `json:"venue_name"`
	VenueImageLink string `json:"venue_image_link"`
	StartTime      string `json:"start_time"`
}

// VenueDetail merges a venue's stored fields with its partitioned shows.
type VenueDetail struct {
	model.Venue
	PastShows          []VenueShow `json:"past_shows"`
	PastShowsCount     int         `json:"past_shows_count"`
	UpcomingShows      []VenueShow `json:"upcoming_shows"`
	UpcomingShowsCount int         `json:"upcoming_shows_count"`
}

// ArtistDetail merges an artist's stored fields with its partitioned shows.
type ArtistDetail struct {
	model.Artist
	PastShows          []ArtistShow `json:"past_shows"`
	PastShowsCount     int          `json:"past_shows_count"`
	UpcomingShows      []ArtistShow `json:"upcoming_shows"`
	UpcomingShowsCount int          `json:"upcoming_shows_count"`
}

// UpcomingShow is an entry of the global upcoming listing.
type UpcomingShow struct {
	VenueID         uint64 `json:"venue_id"`
	VenueName       string `json:"venue_name"`
	ArtistID        uint64 `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}

// partition splits rows around now.  A show starting exactly at now is
// neither past nor upcoming.  Input order is preserved.
func partition(rows []repository.ShowRow, now time.Time) (past, upcoming []repository.ShowRow) {
	past = []repository.ShowRow{}
	upcoming = []repository.ShowRow{}
	for _, r := range rows {
		switch {
		case r.StartTime.Before(now):
			past = append(past, r)
		case r.StartTime.After(now):
			upcoming = append(upcoming, r)
		}
	}
	return past, upcoming
}

func (d *Directory) venueShows(rows []repository.ShowRow) []VenueShow {
	out := make([]VenueShow, 0, len(rows))
	for _, r := range rows {
		out = append(out, VenueShow{
			ArtistID:        r.ArtistID,
			ArtistName:      r.ArtistName,
			ArtistImageLink: r.ArtistImageLink,
			StartTime:       d.format(r.StartTime, DetailTimeLayout),
		})
	}
	return out
}

func (d *Directory) artistShows(rows []repository.ShowRow) []ArtistShow {
	out := make([]ArtistShow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ArtistShow{
			VenueID:        r.VenueID,
			VenueName:      r.VenueName,
			VenueImageLink: r.VenueImageLink,
			StartTime:      d.format(r.StartTime, DetailTimeLayout),
		})
	}
	return out
}

func (d *Directory) format(t time.Time, layout string) string {
	return t.In(d.loc).Format(layout)
}
