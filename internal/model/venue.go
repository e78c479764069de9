package model

// DefaultVenueSeekingDescription is stored when a venue is saved without
// its own seeking description.
const DefaultVenueSeekingDescription = "We are looking for an exciting artist to perform here!"

// Venue represents a place that books artists.  Venue names are unique
// across the directory.  This struct corresponds to a row in the `venues`
// table; the shows a venue hosts live in the `shows` table and reference
// it through venue_id.
//
// Fields:
//   - ID: primary key identifier.
//   - Name: unique display name.
//   - City, State: location; together they form the venue's area.
//   - Address, Phone: contact details.
//   - ImageLink: URL of the venue's picture.
//   - Website: optional website URL (nil when unset).
//   - FacebookLink: optional Facebook page URL (nil when unset).
//   - SeekingTalent: whether the venue is looking for artists.
//   - SeekingDescription: free text shown next to SeekingTalent.
type Venue struct {
	ID                 uint64  `json:"id"`                      // venues.id
	Name               string  `json:"name"`                    // venues.name
	City               string  `json:"city"`                    // venues.city
	State              string  `json:"state"`                   // venues.state
	Address            string  `json:"address"`                 // venues.address
	Phone              string  `json:"phone"`                   // venues.phone
	ImageLink          string  `json:"image_link"`              // venues.image_link
	Website            *string `json:"website,omitempty"`       // venues.website (nullable)
	FacebookLink       *string `json:"facebook_link,omitempty"` // venues.facebook_link (nullable)
	SeekingTalent      bool    `json:"seeking_talent"`          // venues.seeking_talent
	SeekingDescription string  `json:"seeking_description"`     // venues.seeking_description
}
