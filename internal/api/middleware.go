package api

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityHeaders middleware adds standard security headers to every
// response.
func SecurityHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		return next(c)
	}
}

// ValidateAcceptHeader middleware ensures that clients can accept JSON responses
func ValidateAcceptHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accept := c.Request().Header.Get("Accept")

		// If no Accept header, assume */*
		if accept == "" {
			return next(c)
		}

		// Check if Accept includes application/json or */*
		if !strings.Contains(accept, "application/json") &&
			!strings.Contains(accept, "*/*") &&
			!strings.Contains(accept, "application/*") {
			return BadRequestError(
				"Invalid Accept header",
				"API only returns JSON. Accept header must include 'application/json' or '*/*'. Got: "+accept,
			)
		}

		return next(c)
	}
}

// ValidateComponentID middleware rejects component ids that cannot be
// valid before the lookup runs.
func ValidateComponentID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")

		if id == "" {
			return next(c)
		}
		if strings.ContainsAny(id, " \t") {
			return BadRequestError(
				"Invalid component ID",
				"Component IDs cannot contain whitespace",
			)
		}
		if len(id) > 256 {
			return BadRequestError(
				"Invalid component ID",
				"Component ID exceeds maximum length",
			)
		}

		return next(c)
	}
}
