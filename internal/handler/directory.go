// Package handler exposes the directory over JSON HTTP endpoints.  Each
// handler parses its input, calls one Directory operation and renders the
// result or the mapped error.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/service"
)

// DirectoryHandler serves venues, artists and shows.
type DirectoryHandler struct {
	Dir *service.Directory
}

// NewDirectoryHandler constructs a DirectoryHandler and panics if dir is nil.
func NewDirectoryHandler(dir *service.Directory) *DirectoryHandler {
	if dir == nil {
		panic("nil directory passed to NewDirectoryHandler")
	}
	return &DirectoryHandler{Dir: dir}
}

// searchTerm reads search_term from the query string or a posted form.
func searchTerm(c echo.Context) string {
	if v := c.QueryParam("search_term"); v != "" {
		return v
	}
	return c.FormValue("search_term")
}

// cascadeRequested reports whether ?cascade=true was passed.
func cascadeRequested(c echo.Context) (bool, error) {
	raw := c.QueryParam("cascade")
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &service.ValidationError{Field: "cascade", Message: "must be a boolean"}
	}
	return b, nil
}

func created(c echo.Context, id uint64) error {
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}
