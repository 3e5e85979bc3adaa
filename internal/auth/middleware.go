package auth

import "github.com/labstack/echo/v4"

const identityKey = "identity"

// Middleware resolves the caller once per request and stores it on the
// echo context.
func Middleware(s *Sessions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(identityKey, s.Identify(c.Request()))
			return next(c)
		}
	}
}

// FromContext returns the identity set by Middleware.
func FromContext(c echo.Context) Identity {
	id, _ := c.Get(identityKey).(Identity)
	return id
}
