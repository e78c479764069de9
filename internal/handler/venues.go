package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/service"
)

// ListVenueAreas returns every venue grouped by city and state.
func (h *DirectoryHandler) ListVenueAreas(c echo.Context) error {
	areas, err := h.Dir.ListAreas(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": areas})
}

// SearchVenues matches venue names against search_term.
func (h *DirectoryHandler) SearchVenues(c echo.Context) error {
	term := searchTerm(c)
	res, err := h.Dir.SearchVenues(c.Request().Context(), term)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"search_term": term, "count": res.Count, "results": res.Results})
}

// GetVenue returns a venue with its past and upcoming shows.
func (h *DirectoryHandler) GetVenue(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	detail, err := h.Dir.VenueDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// EditVenue returns the stored fields of a venue for editing.
func (h *DirectoryHandler) EditVenue(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	v, err := h.Dir.GetVenue(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// CreateVenue stores a new venue.
func (h *DirectoryHandler) CreateVenue(c echo.Context) error {
	var in service.VenueInput
	if err := bindInput(c, &in); err != nil {
		return writeError(c, err)
	}
	id, err := h.Dir.CreateVenue(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return created(c, id)
}

// UpdateVenue replaces a venue's fields and returns the stored result.
func (h *DirectoryHandler) UpdateVenue(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in service.VenueInput
	if err := bindInput(c, &in); err != nil {
		return writeError(c, err)
	}
	ctx := c.Request().Context()
	if err := h.Dir.UpdateVenue(ctx, id, in); err != nil {
		return writeError(c, err)
	}
	v, err := h.Dir.GetVenue(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// DeleteVenue removes a venue; ?cascade=true also removes its shows.
func (h *DirectoryHandler) DeleteVenue(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	cascade, err := cascadeRequested(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Dir.DeleteVenue(c.Request().Context(), id, cascade); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
