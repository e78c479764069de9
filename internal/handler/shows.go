package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/service"
)

// ListShows returns every upcoming show, earliest first.
func (h *DirectoryHandler) ListShows(c echo.Context) error {
	shows, err := h.Dir.ListUpcomingShows(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shows})
}

// CreateShow schedules an artist at a venue.
func (h *DirectoryHandler) CreateShow(c echo.Context) error {
	var in service.ShowInput
	if err := bindInput(c, &in); err != nil {
		return writeError(c, err)
	}
	id, err := h.Dir.CreateShow(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return created(c, id)
}
