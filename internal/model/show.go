package model

import "time"

// Show represents a scheduled performance of an artist at a venue.  It
// is a join record between venues and artists and cannot exist without
// both.  Shows are ordered by StartTime wherever they are listed.
//
// Fields:
//   - ID: primary key identifier.
//   - StartTime: when the performance begins (stored in UTC).
//   - VenueID: venue hosting the performance.
//   - ArtistID: artist performing.
type Show struct {
	ID        uint64    `json:"id"`         // shows.id
	StartTime time.Time `json:"start_time"` // shows.start_time
	VenueID   uint64    `json:"venue_id"`   // shows.venue_id
	ArtistID  uint64    `json:"artist_id"`  // shows.artist_id
}
