package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"mealmuse/internal/auth"
)

const loggerKey = "logger"

// requestLogger tags each request with an ID, hands handlers a child logger
// and logs the outcome.
func requestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			logger := base.With().Str("request_id", requestID).Logger()
			c.Set(loggerKey, logger)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			event := logger.Info()
			if status >= http.StatusInternalServerError {
				event = logger.Error().Err(err)
			}
			event.
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}

func loggerFrom(c echo.Context) zerolog.Logger {
	if l, ok := c.Get(loggerKey).(zerolog.Logger); ok {
		return l
	}
	return zerolog.Nop()
}

// requireSession sends signed-out browsers to the sign-in page.
func requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !auth.FromContext(c).SignedIn {
			return c.Redirect(http.StatusSeeOther, "/signin")
		}
		return next(c)
	}
}

// requireSessionAPI answers signed-out API calls with 401.
func requireSessionAPI(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !auth.FromContext(c).SignedIn {
			return c.JSON(http.StatusUnauthorized, errorBody{Message: "Please sign in to use this feature."})
		}
		return next(c)
	}
}
