package service_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking/internal/database/dbtest"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/queue"
	"github.com/iliyamo/venue-booking/internal/repository"
	"github.com/iliyamo/venue-booking/internal/service"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recorder struct {
	mu        sync.Mutex
	shows     []queue.ShowScheduledEvent
	changes   []queue.ListingChangedEvent
	fail      bool
	deadlines []bool
}

func (r *recorder) PublishShowScheduled(ctx context.Context, ev queue.ShowScheduledEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := ctx.Deadline()
	r.deadlines = append(r.deadlines, ok)
	if r.fail {
		return errors.New("broker down")
	}
	r.shows = append(r.shows, ev)
	return nil
}

func (r *recorder) PublishListingChanged(ctx context.Context, ev queue.ListingChangedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := ctx.Deadline()
	r.deadlines = append(r.deadlines, ok)
	if r.fail {
		return errors.New("broker down")
	}
	r.changes = append(r.changes, ev)
	return nil
}

type fixture struct {
	dir    *service.Directory
	clock  *clock
	events *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := &clock{now: time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)}
	rec := &recorder{}
	logger := log.New("test")
	logger.SetOutput(&bytes.Buffer{})
	dir := service.NewDirectory(repository.NewStore(dbtest.Open(t)),
		service.WithClock(c.Now),
		service.WithEvents(rec),
		service.WithLogger(logger),
	)
	return &fixture{dir: dir, clock: c, events: rec}
}

func venueInput(name, city, state string) service.VenueInput {
	return service.VenueInput{
		Name:      name,
		City:      city,
		State:     state,
		Address:   "1805 Geary Blvd",
		Phone:     "415-555-0100",
		ImageLink: "https://img.example/" + name,
	}
}

func artistInput(name string) service.ArtistInput {
	return service.ArtistInput{
		Name:      name,
		City:      "San Francisco",
		State:     "CA",
		Phone:     "415-555-0199",
		Genres:    []string{"Rock", " ", "Blues"},
		ImageLink: "https://img.example/" + name,
	}
}

func (f *fixture) mustVenue(t *testing.T, in service.VenueInput) uint64 {
	t.Helper()
	id, err := f.dir.CreateVenue(context.Background(), in)
	require.NoError(t, err)
	return id
}

func (f *fixture) mustArtist(t *testing.T, name string) uint64 {
	t.Helper()
	id, err := f.dir.CreateArtist(context.Background(), artistInput(name))
	require.NoError(t, err)
	return id
}

func (f *fixture) mustShow(t *testing.T, venueID, artistID uint64, at time.Time) uint64 {
	t.Helper()
	id, err := f.dir.CreateShow(context.Background(), service.ShowInput{
		VenueID:   venueID,
		ArtistID:  artistID,
		StartTime: at.Format(time.RFC3339),
	})
	require.NoError(t, err)
	return id
}

func TestShowMovesFromUpcomingToPast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	venueID := f.mustVenue(t, venueInput("The Fillmore", "San Francisco", "CA"))
	artistID := f.mustArtist(t, "Test Band")
	start := f.clock.Now().Add(24 * time.Hour)
	f.mustShow(t, venueID, artistID, start)

	vd, err := f.dir.VenueDetail(ctx, venueID)
	require.NoError(t, err)
	assert.Equal(t, 0, vd.PastShowsCount)
	require.Equal(t, 1, vd.UpcomingShowsCount)
	assert.Equal(t, "Test Band", vd.UpcomingShows[0].ArtistName)
	assert.Equal(t, "06/02/2030, 12:00", vd.UpcomingShows[0].StartTime)
	assert.Equal(t, model.DefaultVenueSeekingDescription, vd.SeekingDescription)
	assert.True(t, vd.SeekingTalent)

	upcoming, err := f.dir.ListUpcomingShows(ctx)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "The Fillmore", upcoming[0].VenueName)
	assert.Equal(t, "2030/06/02, 12:00", upcoming[0].StartTime)

	f.clock.Advance(48 * time.Hour)

	ad, err := f.dir.ArtistDetail(ctx, artistID)
	require.NoError(t, err)
	assert.Equal(t, 0, ad.UpcomingShowsCount)
	require.Equal(t, 1, ad.PastShowsCount)
	assert.Equal(t, "The Fillmore", ad.PastShows[0].VenueName)
	assert.Equal(t, []string{"Rock", "Blues"}, ad.Genres)

	upcoming, err = f.dir.ListUpcomingShows(ctx)
	require.NoError(t, err)
	assert.Empty(t, upcoming)
}

func TestShowStartingNowIsInNeitherList(t *testing.T) {
	f := newFixture(t)
	venueID := f.mustVenue(t, venueInput("Edge", "Austin", "TX"))
	artistID := f.mustArtist(t, "Edge Band")
	f.mustShow(t, venueID, artistID, f.clock.Now())
	f.mustShow(t, venueID, artistID, f.clock.Now().Add(-time.Hour))

	vd, err := f.dir.VenueDetail(context.Background(), venueID)
	require.NoError(t, err)
	assert.Equal(t, 1, vd.PastShowsCount)
	assert.Equal(t, 0, vd.UpcomingShowsCount)
	assert.NotNil(t, vd.UpcomingShows)
}

func TestSubsecondShowIsUpcoming(t *testing.T) {
	f := newFixture(t)
	venueID := f.mustVenue(t, venueInput("Edge", "Austin", "TX"))
	artistID := f.mustArtist(t, "Edge Band")
	_, err := f.dir.CreateShow(context.Background(), service.ShowInput{
		VenueID:   venueID,
		ArtistID:  artistID,
		StartTime: f.clock.Now().Add(500 * time.Millisecond).Format(time.RFC3339Nano),
	})
	require.NoError(t, err)

	vd, err := f.dir.VenueDetail(context.Background(), venueID)
	require.NoError(t, err)
	assert.Equal(t, 1, vd.UpcomingShowsCount)
	assert.Equal(t, 0, vd.PastShowsCount)

	f.clock.Advance(time.Second)
	vd, err = f.dir.VenueDetail(context.Background(), venueID)
	require.NoError(t, err)
	assert.Equal(t, 0, vd.UpcomingShowsCount)
	assert.Equal(t, 1, vd.PastShowsCount)
}

func TestListAreasGroupsByCityAndState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.mustVenue(t, venueInput("Stubb's", "Austin", "TX"))
	b := f.mustVenue(t, venueInput("Mohawk", "Austin", "TX"))
	f.mustVenue(t, venueInput("The Fillmore", "San Francisco", "CA"))
	f.mustVenue(t, venueInput("Other Austin", "Austin", "MN"))
	artistID := f.mustArtist(t, "Touring Act")
	f.mustShow(t, b, artistID, f.clock.Now().Add(time.Hour))
	f.mustShow(t, b, artistID, f.clock.Now().Add(-time.Hour))

	areas, err := f.dir.ListAreas(ctx)
	require.NoError(t, err)
	require.Len(t, areas, 3)
	assert.Equal(t, "CA", areas[0].State)
	assert.Equal(t, "MN", areas[1].State)

	tx := areas[2]
	assert.Equal(t, "Austin", tx.City)
	assert.Equal(t, "TX", tx.State)
	require.Len(t, tx.Venues, 2)
	assert.Equal(t, a, tx.Venues[0].ID)
	assert.Equal(t, 0, tx.Venues[0].UpcomingShowCount)
	assert.Equal(t, b, tx.Venues[1].ID)
	assert.Equal(t, 1, tx.Venues[1].UpcomingShowCount)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hop := f.mustVenue(t, venueInput("The Musical Hop", "San Francisco", "CA"))
	f.mustVenue(t, venueInput("Park Square Live Music & Coffee", "San Francisco", "CA"))
	f.mustVenue(t, venueInput("The Dueling Pianos Bar", "New York", "NY"))
	artistID := f.mustArtist(t, "Guns N Petals")
	f.mustShow(t, hop, artistID, f.clock.Now().Add(-time.Hour))
	f.mustShow(t, hop, artistID, f.clock.Now().Add(time.Hour))

	all, err := f.dir.SearchVenues(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, all.Count)

	music, err := f.dir.SearchVenues(ctx, "Music")
	require.NoError(t, err)
	require.Equal(t, 2, music.Count)
	assert.Equal(t, "The Musical Hop", music.Results[0].Name)
	assert.Equal(t, 2, music.Results[0].ShowCount)

	none, err := f.dir.SearchArtists(ctx, "zzz")
	require.NoError(t, err)
	assert.Equal(t, 0, none.Count)
	assert.NotNil(t, none.Results)

	artists, err := f.dir.SearchArtists(ctx, "gUnS")
	require.NoError(t, err)
	assert.Equal(t, 1, artists.Count)
}

func TestSearchFoldsNonASCII(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustVenue(t, venueInput("École Hall", "Montréal", "QC"))
	f.mustArtist(t, "Ñandú Trío")

	for _, term := range []string{"École", "école", "ÉCOLE"} {
		res, err := f.dir.SearchVenues(ctx, term)
		require.NoError(t, err)
		require.Equal(t, 1, res.Count, term)
		assert.Equal(t, "École Hall", res.Results[0].Name)
	}

	res, err := f.dir.SearchArtists(ctx, "ñANDú")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
}

func TestNamesAreCaseSensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustVenue(t, venueInput("Dup", "Austin", "TX"))
	f.mustVenue(t, venueInput("dup", "Austin", "TX"))
	f.mustArtist(t, "Echo")
	f.mustArtist(t, "ECHO")

	_, err := f.dir.CreateVenue(ctx, venueInput("dup", "Dallas", "TX"))
	assert.Equal(t, service.KindUniqueness, service.KindOf(err))

	venues, err := f.dir.ListVenues(ctx)
	require.NoError(t, err)
	assert.Len(t, venues, 2)
}

func TestDuplicateNameLeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustVenue(t, venueInput("Dup", "Austin", "TX"))

	_, err := f.dir.CreateVenue(ctx, venueInput("Dup", "Dallas", "TX"))
	var ue *service.UniquenessError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Dup", ue.Name)
	assert.Equal(t, service.KindUniqueness, service.KindOf(err))

	venues, err := f.dir.ListVenues(ctx)
	require.NoError(t, err)
	assert.Len(t, venues, 1)

	f.mustArtist(t, "Same")
	_, err = f.dir.CreateArtist(ctx, artistInput("Same"))
	assert.ErrorAs(t, err, &ue)
}

func TestValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := venueInput("", "Austin", "TX")
	_, err := f.dir.CreateVenue(ctx, in)
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	ain := artistInput("No Genres")
	ain.Genres = []string{"  "}
	_, err = f.dir.CreateArtist(ctx, ain)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "genres", ve.Field)

	_, err = f.dir.CreateShow(ctx, service.ShowInput{VenueID: 1, ArtistID: 1, StartTime: "soon"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "start_time", ve.Field)
}

func TestCreateShowRequiresExistingParents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	venueID := f.mustVenue(t, venueInput("Only Venue", "Austin", "TX"))

	_, err := f.dir.CreateShow(ctx, service.ShowInput{VenueID: venueID, ArtistID: 99, StartTime: "2030-07-01 20:00"})
	var re *service.ReferentialError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "artist", re.Entity)
	assert.Equal(t, uint64(99), re.ID)

	_, err = f.dir.CreateShow(ctx, service.ShowInput{VenueID: 98, ArtistID: 99, StartTime: "2030-07-01 20:00"})
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "venue", re.Entity)
}

func TestUpdateIsFullReplace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := venueInput("Replace Me", "Austin", "TX")
	in.Website = "https://replace.example"
	off := false
	in.SeekingTalent = &off
	in.SeekingDescription = "Closed for now"
	id := f.mustVenue(t, in)

	next := venueInput("Replaced", "Dallas", "TX")
	require.NoError(t, f.dir.UpdateVenue(ctx, id, next))

	got, err := f.dir.GetVenue(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Replaced", got.Name)
	assert.Equal(t, "Dallas", got.City)
	assert.Nil(t, got.Website)
	assert.True(t, got.SeekingTalent)
	assert.Equal(t, model.DefaultVenueSeekingDescription, got.SeekingDescription)

	err = f.dir.UpdateVenue(ctx, 404, next)
	var nf *service.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "venue", nf.Entity)

	other := f.mustVenue(t, venueInput("Taken", "Austin", "TX"))
	err = f.dir.UpdateVenue(ctx, other, next)
	assert.Equal(t, service.KindUniqueness, service.KindOf(err))

	aid := f.mustArtist(t, "Artist One")
	ain := artistInput("Artist Renamed")
	ain.Genres = []string{"Jazz"}
	require.NoError(t, f.dir.UpdateArtist(ctx, aid, ain))
	art, err := f.dir.GetArtist(ctx, aid)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jazz"}, art.Genres)
	assert.Equal(t, model.DefaultArtistSeekingDescription, art.SeekingDescription)
}

func TestDeleteVenueWithShows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	venueID := f.mustVenue(t, venueInput("Busy", "Austin", "TX"))
	artistID := f.mustArtist(t, "Busy Band")
	f.mustShow(t, venueID, artistID, f.clock.Now().Add(time.Hour))
	f.mustShow(t, venueID, artistID, f.clock.Now().Add(-time.Hour))

	err := f.dir.DeleteVenue(ctx, venueID, false)
	var ce *service.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 2, ce.Shows)

	_, err = f.dir.VenueDetail(ctx, venueID)
	require.NoError(t, err)

	require.NoError(t, f.dir.DeleteVenue(ctx, venueID, true))
	_, err = f.dir.VenueDetail(ctx, venueID)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))

	ad, err := f.dir.ArtistDetail(ctx, artistID)
	require.NoError(t, err)
	assert.Equal(t, 0, ad.PastShowsCount+ad.UpcomingShowsCount)

	require.NoError(t, f.dir.DeleteArtist(ctx, artistID, false))
	err = f.dir.DeleteArtist(ctx, artistID, false)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

func TestDeleteArtistCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	venueID := f.mustVenue(t, venueInput("Host", "Austin", "TX"))
	artistID := f.mustArtist(t, "Leaving Band")
	f.mustShow(t, venueID, artistID, f.clock.Now().Add(time.Hour))

	err := f.dir.DeleteArtist(ctx, artistID, false)
	assert.Equal(t, service.KindConflict, service.KindOf(err))

	require.NoError(t, f.dir.DeleteArtist(ctx, artistID, true))
	vd, err := f.dir.VenueDetail(ctx, venueID)
	require.NoError(t, err)
	assert.Equal(t, 0, vd.UpcomingShowsCount)

	last := f.events.changes[len(f.events.changes)-1]
	assert.Equal(t, queue.ActionDeleted, last.Action)
	assert.Equal(t, "artist", last.Entity)
	assert.EqualValues(t, 1, last.ShowsRemoved)
}

func TestEventsArePublishedAfterCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	venueID := f.mustVenue(t, venueInput("Evented", "Austin", "TX"))
	artistID := f.mustArtist(t, "Evented Band")
	showID := f.mustShow(t, venueID, artistID, time.Date(2030, 7, 1, 20, 0, 0, 0, time.UTC))

	require.Len(t, f.events.shows, 1)
	ev := f.events.shows[0]
	assert.Equal(t, showID, ev.ShowID)
	assert.Equal(t, "Evented", ev.VenueName)
	assert.Equal(t, "Evented Band", ev.ArtistName)
	assert.Equal(t, "2030-07-01T20:00:00Z", ev.StartTime)

	require.Len(t, f.events.changes, 2)
	assert.Equal(t, queue.ActionCreated, f.events.changes[0].Action)
	assert.Equal(t, []bool{true, true, true}, f.events.deadlines)

	// failed mutations publish nothing
	_, _ = f.dir.CreateVenue(ctx, venueInput("Evented", "Austin", "TX"))
	assert.Len(t, f.events.changes, 2)

	// a broker failure never fails the operation
	f.events.fail = true
	_, err := f.dir.CreateVenue(ctx, venueInput("Quiet", "Austin", "TX"))
	assert.NoError(t, err)
}
