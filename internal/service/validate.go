package service

import (
	"strings"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// VenueInput carries the editable fields of a venue.  It binds from JSON
// bodies and form posts alike.
type VenueInput struct {
	Name               string `json:"name" form:"name"`
	City               string `json:"city" form:"city"`
	State              string `json:"state" form:"state"`
	Address            string `json:"address" form:"address"`
	Phone              string `json:"phone" form:"phone"`
	ImageLink          string `json:"image_link" form:"image_link"`
	Website            string `json:"website" form:"website"`
	FacebookLink       string `json:"facebook_link" form:"facebook_link"`
	SeekingTalent      *bool  `json:"seeking_talent" form:"seeking_talent"`
	SeekingDescription string `json:"seeking_description" form:"seeking_description"`
}

// ArtistInput carries the editable fields of an artist.
type ArtistInput struct {
	Name               string   `json:"name" form:"name"`
	City               string   `json:"city" form:"city"`
	State              string   `json:"state" form:"state"`
	Phone              string   `json:"phone" form:"phone"`
	Genres             []string `json:"genres" form:"genres"`
	ImageLink          string   `json:"image_link" form:"image_link"`
	Website            string   `json:"website" form:"website"`
	FacebookLink       string   `json:"facebook_link" form:"facebook_link"`
	SeekingVenue       *bool    `json:"seeking_venue" form:"seeking_venue"`
	SeekingDescription string   `json:"seeking_description" form:"seeking_description"`
}

// ShowInput carries the fields of a new show.  StartTime accepts RFC 3339
// or one of the zone-less layouts in startTimeLayouts; zone-less values
// are read in the directory's display location.
type ShowInput struct {
	VenueID   uint64 `json:"venue_id" form:"venue_id"`
	ArtistID  uint64 `json:"artist_id" form:"artist_id"`
	StartTime string `json:"start_time" form:"start_time"`
}

var startTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

type field struct {
	name  string
	value string
}

func required(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Message: "is required"}
		}
	}
	return nil
}

func optionalLink(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func flag(b *bool) bool {
	return b == nil || *b
}

func describe(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}

// venue validates in and builds the stored venue.
func (in VenueInput) venue() (*model.Venue, error) {
	if err := required(
		field{"name", in.Name},
		field{"city", in.City},
		field{"state", in.State},
		field{"address", in.Address},
		field{"phone", in.Phone},
		field{"image_link", in.ImageLink},
	); err != nil {
		return nil, err
	}
	return &model.Venue{
		Name:               strings.TrimSpace(in.Name),
		City:               strings.TrimSpace(in.City),
		State:              strings.TrimSpace(in.State),
		Address:            strings.TrimSpace(in.Address),
		Phone:              strings.TrimSpace(in.Phone),
		ImageLink:          strings.TrimSpace(in.ImageLink),
		Website:            optionalLink(in.Website),
		FacebookLink:       optionalLink(in.FacebookLink),
		SeekingTalent:      flag(in.SeekingTalent),
		SeekingDescription: describe(in.SeekingDescription, model.DefaultVenueSeekingDescription),
	}, nil
}

// artist validates in and builds the stored artist.  Blank genres are
// dropped; at least one must remain.
func (in ArtistInput) artist() (*model.Artist, error) {
	if err := required(
		field{"name", in.Name},
		field{"city", in.City},
		field{"state", in.State},
		field{"phone", in.Phone},
		field{"image_link", in.ImageLink},
	); err != nil {
		return nil, err
	}
	genres := make([]string, 0, len(in.Genres))
	for _, g := range in.Genres {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	if len(genres) == 0 {
		return nil, &ValidationError{Field: "genres", Message: "at least one genre is required"}
	}
	return &model.Artist{
		Name:               strings.TrimSpace(in.Name),
		City:               strings.TrimSpace(in.City),
		State:              strings.TrimSpace(in.State),
		Phone:              strings.TrimSpace(in.Phone),
		Genres:             genres,
		ImageLink:          strings.TrimSpace(in.ImageLink),
		Website:            optionalLink(in.Website),
		FacebookLink:       optionalLink(in.FacebookLink),
		SeekingVenue:       flag(in.SeekingVenue),
		SeekingDescription: describe(in.SeekingDescription, model.DefaultArtistSeekingDescription),
	}, nil
}

// show validates in and builds the stored show.
func (in ShowInput) show(loc *time.Location) (*model.Show, error) {
	if in.VenueID == 0 {
		return nil, &ValidationError{Field: "venue_id", Message: "is required"}
	}
	if in.ArtistID == 0 {
		return nil, &ValidationError{Field: "artist_id", Message: "is required"}
	}
	raw := strings.TrimSpace(in.StartTime)
	if raw == "" {
		return nil, &ValidationError{Field: "start_time", Message: "is required"}
	}
	start, err := parseStartTime(raw, loc)
	if err != nil {
		return nil, &ValidationError{Field: "start_time", Message: "must be RFC 3339 or YYYY-MM-DD HH:MM[:SS]"}
	}
	return &model.Show{StartTime: start, VenueID: in.VenueID, ArtistID: in.ArtistID}, nil
}

func parseStartTime(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return t, nil
	}
	for _, layout := range startTimeLayouts {
		if t, lerr := time.ParseInLocation(layout, raw, loc); lerr == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
