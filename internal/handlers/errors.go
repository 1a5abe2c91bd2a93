package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders the 404 and 500 pages and leaves every other
// status to echo's default JSON response.
func HTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}

		var renderErr error
		switch code {
		case http.StatusNotFound:
			renderErr = c.Render(code, "misc/404.html", echo.Map{"path": c.Request().URL.Path})
		case http.StatusInternalServerError:
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"error", err,
			)
			renderErr = c.Render(code, "misc/500.html", nil)
		default:
			c.Echo().DefaultHTTPErrorHandler(err, c)
			return
		}

		if renderErr != nil {
			logger.ErrorContext(c.Request().Context(), "render error page", "status", code, "error", renderErr)
			if !c.Response().Committed {
				_ = c.String(code, http.StatusText(code))
			}
		}
	}
}
