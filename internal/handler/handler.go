package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"fintrack/internal/errors"
	"fintrack/internal/query"
)

// Context keys set by the authentication middleware.
const (
	ContextKeyClaims = "claims"
	ContextKeyUserID = "user_id"
)

// CurrentUserID returns the id of the authenticated user, or 0.
func CurrentUserID(c echo.Context) uint {
	id, _ := c.Get(ContextKeyUserID).(uint)
	return id
}

// Fail converts a domain error into an echo error rendering the mapped body.
func Fail(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).WithError(err).Error("request failed")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.Body).SetInternal(err)
}

// NotFound renders the 404 body for unmatched routes.
func NotFound(c echo.Context) error {
	return Fail(c, errors.ErrNotFound)
}

// bind decodes the request body into dst. Malformed bodies are bad requests.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return errors.ErrBadRequest
	}
	return nil
}

// pathID parses the :id parameter. Anything that is not a positive id cannot
// name a row, so it is reported as not found.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.ErrNotFound
	}
	return uint(id), nil
}

func listParams(c echo.Context) query.Params {
	return query.ParamsFromValues(c.QueryParams())
}
