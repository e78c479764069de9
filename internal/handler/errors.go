package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/venue-booking/internal/service"
)

// statusOf maps a service error kind onto an HTTP status code.
func statusOf(k service.Kind) int {
	switch k {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindUniqueness, service.KindConflict:
		return http.StatusConflict
	case service.KindReferential:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": kind, "message": text}.  Store
// failures are logged and answered with a generic message.
func writeError(c echo.Context, err error) error {
	kind := service.KindOf(err)
	status := statusOf(kind)
	if status == http.StatusInternalServerError {
		c.Logger().Errorj(log.JSON{
			"msg":        "request failed",
			"method":     c.Request().Method,
			"path":       c.Path(),
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			"error":      err.Error(),
		})
		return c.JSON(status, echo.Map{"error": kind.String(), "message": "database error"})
	}
	return c.JSON(status, echo.Map{"error": kind.String(), "message": err.Error()})
}

// parseID reads the :id path parameter.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, &service.ValidationError{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}

// bindInput binds the request body (JSON or form) into dst.
func bindInput(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return &service.ValidationError{Field: "body", Message: "malformed request body"}
	}
	return nil
}
