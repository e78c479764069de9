package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/service"
)

// ListArtists returns the id and name of every artist.
func (h *DirectoryHandler) ListArtists(c echo.Context) error {
	artists, err := h.Dir.ListArtists(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": artists})
}

// SearchArtists matches artist names against search_term.
func (h *DirectoryHandler) SearchArtists(c echo.Context) error {
	term := searchTerm(c)
	res, err := h.Dir.SearchArtists(c.Request().Context(), term)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"search_term": term, "count": res.Count, "results": res.Results})
}

// GetArtist returns an artist with its past and upcoming shows.
func (h *DirectoryHandler) GetArtist(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	detail, err := h.Dir.ArtistDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// EditArtist returns the stored fields of an artist for editing.
func (h *DirectoryHandler) EditArtist(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	a, err := h.Dir.GetArtist(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// CreateArtist stores a new artist.
func (h *DirectoryHandler) CreateArtist(c echo.Context) error {
	var in service.ArtistInput
	if err := bindInput(c, &in); err != nil {
		return writeError(c, err)
	}
	id, err := h.Dir.CreateArtist(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return created(c, id)
}

// UpdateArtist replaces an artist's fields and returns the stored result.
func (h *DirectoryHandler) UpdateArtist(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in service.ArtistInput
	if err := bindInput(c, &in); err != nil {
		return writeError(c, err)
	}
	ctx := c.Request().Context()
	if err := h.Dir.UpdateArtist(ctx, id, in); err != nil {
		return writeError(c, err)
	}
	a, err := h.Dir.GetArtist(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteArtist removes an artist; ?cascade=true also removes its shows.
func (h *DirectoryHandler) DeleteArtist(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	cascade, err := cascadeRequested(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Dir.DeleteArtist(c.Request().Context(), id, cascade); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
