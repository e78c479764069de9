// Package router defines how HTTP routes and server-wide middleware are
// registered for the API.
package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/venue-booking/internal/handler"
)

// UseCommon installs the server-wide middleware: request ids, panic
// recovery and one structured access log line per request.
func UseCommon(e *echo.Echo, logger *log.Logger) {
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := log.JSON{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"request_id": v.RequestID,
			}
			if v.Error != nil {
				entry["error"] = v.Error.Error()
				logger.Errorj(entry)
				return nil
			}
			logger.Infoj(entry)
			return nil
		},
	}))
}

// RegisterRoutes registers routes that sit outside the versioned API.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterDirectory registers the venue, artist and show endpoints under
// /v1.  mws run in front of every route of the group, e.g. the rate
// limiter.
func RegisterDirectory(e *echo.Echo, h *handler.DirectoryHandler, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mws...)

	// ---- Venues ----
	g.GET("/venues", h.ListVenueAreas)
	g.GET("/venues/search", h.SearchVenues)
	g.POST("/venues/search", h.SearchVenues)
	g.POST("/venues", h.CreateVenue)
	g.GET("/venues/:id", h.GetVenue)
	g.GET("/venues/:id/edit", h.EditVenue)
	g.PUT("/venues/:id", h.UpdateVenue)
	g.DELETE("/venues/:id", h.DeleteVenue)

	// ---- Artists ----
	g.GET("/artists", h.ListArtists)
	g.GET("/artists/search", h.SearchArtists)
	g.POST("/artists/search", h.SearchArtists)
	g.POST("/artists", h.CreateArtist)
	g.GET("/artists/:id", h.GetArtist)
	g.GET("/artists/:id/edit", h.EditArtist)
	g.PUT("/artists/:id", h.UpdateArtist)
	g.DELETE("/artists/:id", h.DeleteArtist)

	// ---- Shows ----
	g.GET("/shows", h.ListShows)
	g.POST("/shows", h.CreateShow)
}
