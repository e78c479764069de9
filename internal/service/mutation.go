package service

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/queue"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// GetVenue returns the stored fields of a venue, as used by edit forms.
func (d *Directory) GetVenue(ctx context.Context, id uint64) (*model.Venue, error) {
	var v *model.Venue
	err := d.store.InTx(ctx, func(tx *repository.Tx) (err error) {
		v, err = tx.Venues.GetByID(ctx, id)
		return notFound(err, id)
	})
	if err != nil {
		return nil, storeErr("get venue", err)
	}
	return v, nil
}

// GetArtist returns the stored fields of an artist, as used by edit forms.
func (d *Directory) GetArtist(ctx context.Context, id uint64) (*model.Artist, error) {
	var a *model.Artist
	err := d.store.InTx(ctx, func(tx *repository.Tx) (err error) {
		a, err = tx.Artists.GetByID(ctx, id)
		return notFound(err, id)
	})
	if err != nil {
		return nil, storeErr("get artist", err)
	}
	return a, nil
}

// CreateVenue validates in, stores a new venue and returns its id.
func (d *Directory) CreateVenue(ctx context.Context, in VenueInput) (uint64, error) {
	v, err := in.venue()
	if err != nil {
		return 0, err
	}
	err = d.store.InTx(ctx, func(tx *repository.Tx) error {
		return uniqueName(tx.Venues.Create(ctx, v), "venue", v.Name)
	})
	if err != nil {
		return 0, storeErr("create venue", err)
	}
	d.listingChanged(ctx, "venue", v.ID, v.Name, queue.ActionCreated, 0)
	return v.ID, nil
}

// UpdateVenue replaces every editable field of venue id with in.
func (d *Directory) UpdateVenue(ctx context.Context, id uint64, in VenueInput) error {
	v, err := in.venue()
	if err != nil {
		return err
	}
	v.ID = id
	err = d.store.InTx(ctx, func(tx *repository.Tx) error {
		if _, err := tx.Venues.GetByID(ctx, id); err != nil {
			return notFound(err, id)
		}
		return notFound(uniqueName(tx.Venues.Update(ctx, v), "venue", v.Name), id)
	})
	if err != nil {
		return storeErr("update venue", err)
	}
	d.listingChanged(ctx, "venue", id, v.Name, queue.ActionUpdated, 0)
	return nil
}

// DeleteVenue removes venue id.  A venue with shows is only removed when
// cascade is set, in which case its shows go in the same transaction.
func (d *Directory) DeleteVenue(ctx context.Context, id uint64, cascade bool) error {
	var (
		name    string
		removed int64
	)
	err := d.store.InTx(ctx, func(tx *repository.Tx) error {
		v, err := tx.Venues.GetByID(ctx, id)
		if err != nil {
			return notFound(err, id)
		}
		name = v.Name
		n, err := tx.Shows.CountByVenue(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			if !cascade {
				return &ConflictError{Entity: "venue", ID: id, Shows: n}
			}
			if removed, err = tx.Shows.DeleteByVenue(ctx, id); err != nil {
				return err
			}
		}
		if err := tx.Venues.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrForeignKey) {
				return &ConflictError{Entity: "venue", ID: id, Shows: n}
			}
			return notFound(err, id)
		}
		return nil
	})
	if err != nil {
		return storeErr("delete venue", err)
	}
	d.listingChanged(ctx, "venue", id, name, queue.ActionDeleted, removed)
	return nil
}

// CreateArtist validates in, stores a new artist and returns its id.
func (d *Directory) CreateArtist(ctx context.Context, in ArtistInput) (uint64, error) {
	a, err := in.artist()
	if err != nil {
		return 0, err
	}
	err = d.store.InTx(ctx, func(tx *repository.Tx) error {
		return uniqueName(tx.Artists.Create(ctx, a), "artist", a.Name)
	})
	if err != nil {
		return 0, storeErr("create artist", err)
	}
	d.listingChanged(ctx, "artist", a.ID, a.Name, queue.ActionCreated, 0)
	return a.ID, nil
}

// UpdateArtist replaces every editable field of artist id with in.
func (d *Directory) UpdateArtist(ctx context.Context, id uint64, in ArtistInput) error {
	a, err := in.artist()
	if err != nil {
		return err
	}
	a.ID = id
	err = d.store.InTx(ctx, func(tx *repository.Tx) error {
		if _, err := tx.Artists.GetByID(ctx, id); err != nil {
			return notFound(err, id)
		}
		return notFound(uniqueName(tx.Artists.Update(ctx, a), "artist", a.Name), id)
	})
	if err != nil {
		return storeErr("update artist", err)
	}
	d.listingChanged(ctx, "artist", id, a.Name, queue.ActionUpdated, 0)
	return nil
}

// DeleteArtist removes artist id.  An artist with shows is only removed
// when cascade is set.
func (d *Directory) DeleteArtist(ctx context.Context, id uint64, cascade bool) error {
	var (
		name    string
		removed int64
	)
	err := d.store.InTx(ctx, func(tx *repository.Tx) error {
		a, err := tx.Artists.GetByID(ctx, id)
		if err != nil {
			return notFound(err, id)
		}
		name = a.Name
		n, err := tx.Shows.CountByArtist(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			if !cascade {
				return &ConflictError{Entity: "artist", ID: id, Shows: n}
			}
			if removed, err = tx.Shows.DeleteByArtist(ctx, id); err != nil {
				return err
			}
		}
		if err := tx.Artists.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrForeignKey) {
				return &ConflictError{Entity: "artist", ID: id, Shows: n}
			}
			return notFound(err, id)
		}
		return nil
	})
	if err != nil {
		return storeErr("delete artist", err)
	}
	d.listingChanged(ctx, "artist", id, name, queue.ActionDeleted, removed)
	return nil
}

// CreateShow schedules an artist at a venue and returns the show id.
func (d *Directory) CreateShow(ctx context.Context, in ShowInput) (uint64, error) {
	s, err := in.show(d.loc)
	if err != nil {
		return 0, err
	}
	var venueName, artistName string
	err = d.store.InTx(ctx, func(tx *repository.Tx) error {
		v, err := tx.Venues.GetByID(ctx, s.VenueID)
		if errors.Is(err, repository.ErrVenueNotFound) {
			return &ReferentialError{Entity: "venue", ID: s.VenueID}
		} else if err != nil {
			return err
		}
		a, err := tx.Artists.GetByID(ctx, s.ArtistID)
		if errors.Is(err, repository.ErrArtistNotFound) {
			return &ReferentialError{Entity: "artist", ID: s.ArtistID}
		} else if err != nil {
			return err
		}
		venueName, artistName = v.Name, a.Name
		if err := tx.Shows.Create(ctx, s); err != nil {
			if errors.Is(err, repository.ErrForeignKey) {
				return &ReferentialError{Entity: "venue or artist", ID: s.VenueID}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return 0, storeErr("create show", err)
	}
	if d.events != nil {
		ev := queue.ShowScheduledEvent{
			ShowID:      s.ID,
			VenueID:     s.VenueID,
			VenueName:   venueName,
			ArtistID:    s.ArtistID,
			ArtistName:  artistName,
			StartTime:   s.StartTime.UTC().Format(time.RFC3339),
			ScheduledAt: d.now().UTC().Format(time.RFC3339),
		}
		pctx, cancel := publishContext(ctx)
		defer cancel()
		if err := d.events.PublishShowScheduled(pctx, ev); err != nil {
			d.logger.Warnj(log.JSON{"msg": "publish show.scheduled failed", "show_id": s.ID, "error": err.Error()})
		}
	}
	return s.ID, nil
}

// publishTimeout bounds how long a committed mutation waits on the broker.
const publishTimeout = 5 * time.Second

// publishContext outlives a cancelled request but not publishTimeout.
func publishContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
}

// uniqueName turns a duplicate-key failure into a UniquenessError.
func uniqueName(err error, entity, name string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return &UniquenessError{Entity: entity, Name: name}
	}
	return err
}

func (d *Directory) listingChanged(ctx context.Context, entity string, id uint64, name, action string, removed int64) {
	if d.events == nil {
		return
	}
	ev := queue.ListingChangedEvent{
		Entity:       entity,
		ID:           id,
		Name:         name,
		Action:       action,
		ShowsRemoved: removed,
		ChangedAt:    d.now().UTC().Format(time.RFC3339),
	}
	pctx, cancel := publishContext(ctx)
	defer cancel()
	if err := d.events.PublishListingChanged(pctx, ev); err != nil {
		d.logger.Warnj(log.JSON{"msg": "publish listing.changed failed", "entity": entity, "id": id, "error": err.Error()})
	}
}
