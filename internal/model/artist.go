package model

// DefaultArtistSeekingDescription is stored when an artist is saved
// without its own seeking description.
const DefaultArtistSeekingDescription = "We are looking to perform at an exciting venue!"

// Artist represents a performer listed in the directory.  Artist names
// are unique.  Genres keep the order in which they were submitted.
//
// Fields:
//   - ID: primary key identifier.
//   - Name: unique display name.
//   - City, State: home location.
//   - Phone: contact phone.
//   - Genres: ordered list of genre names.
//   - ImageLink: URL of the artist's picture.
//   - Website: optional website URL (nil when unset).
//   - FacebookLink: optional Facebook page URL (nil when unset).
//   - SeekingVenue: whether the artist is looking for venues.
//   - SeekingDescription: free text shown next to SeekingVenue.
type Artist struct {
	ID                 uint64   `json:"id"`                      // artists.id
	Name               string   `json:"name"`                    // artists.name
	City               string   `json:"city"`                    // artists.city
	State              string   `json:"state"`                   // artists.state
	Phone              string   `json:"phone"`                   // artists.phone
	Genres             []string `json:"genres"`                  // artists.genres (JSON array)
	ImageLink          string   `json:"image_link"`              // artists.image_link
	Website            *string  `json:"website,omitempty"`       // artists.website (nullable)
	FacebookLink       *string  `json:"facebook_link,omitempty"` // artists.facebook_link (nullable)
	SeekingVenue       bool     `json:"seeking_venue"`           // artists.seeking_venue
	SeekingDescription string   `json:"seeking_description"`     // artists.seeking_description
}
