// Package queue defines message payloads exchanged over the message broker
// and the publisher and consumer that move them.
package queue

// Queue names.  The routing key equals the queue name on the default
// exchange.
const (
	ShowScheduledQueue  = "show.scheduled"
	ListingChangedQueue = "listing.changed"
)

// ShowScheduledEvent is published when a show has been created.  It
// carries the venue and artist names so consumers can announce the show
// without querying the primary database.
type ShowScheduledEvent struct {
	ShowID      uint64 `json:"show_id"`
	VenueID     uint64 `json:"venue_id"`
	VenueName   string `json:"venue_name"`
	ArtistID    uint64 `json:"artist_id"`
	ArtistName  string `json:"artist_name"`
	StartTime   string `json:"start_time"`   // RFC 3339, UTC
	ScheduledAt string `json:"scheduled_at"` // RFC 3339, UTC
}

// Listing change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ListingChangedEvent is published when a venue or artist is created,
// updated or deleted.  ShowsRemoved is set on cascading deletes.
type ListingChangedEvent struct {
	Entity       string `json:"entity"` // "venue" or "artist"
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Action       string `json:"action"`
	ShowsRemoved int64  `json:"shows_removed,omitempty"`
	ChangedAt    string `json:"changed_at"` // RFC 3339, UTC
}
