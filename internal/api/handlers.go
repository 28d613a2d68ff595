package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"freedesktop.org/appstream/internal/pool"
	"freedesktop.org/appstream/models"
)

// requestLocale returns the locale the client asked for, falling back to
// the configured default.
func (s *Server) requestLocale(c echo.Context) string {
	if locale := c.QueryParam("locale"); locale != "" {
		return locale
	}
	return s.config.Locale.Active()
}

// listComponents returns every component in the pool, resolved for the
// request locale.
func (s *Server) listComponents(c echo.Context) error {
	components, err := s.pool.All()
	if err != nil {
		return poolError(err)
	}
	locale := s.requestLocale(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"locale":     locale,
		"count":      len(components),
		"components": componentViews(components, locale),
	})
}

// getComponent returns one component by id.
func (s *Server) getComponent(c echo.Context) error {
	id := c.Param("id")
	component, err := s.pool.ByID(id)
	if err != nil {
		return poolError(err)
	}
	if component == nil {
		return NotFoundError("component", id)
	}
	return c.JSON(http.StatusOK, NewComponentView(component, s.requestLocale(c)))
}

// validateComponent runs the metadata checks against one pool component.
func (s *Server) validateComponent(c echo.Context) error {
	id := c.Param("id")
	component, err := s.pool.ByID(id)
	if err != nil {
		return poolError(err)
	}
	if component == nil {
		return NotFoundError("component", id)
	}
	return c.JSON(http.StatusOK, s.validator.ValidateComponent(component))
}

// search runs a ranked full-text query.
func (s *Server) search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return ValidationError("Missing query", map[string]string{
			"q": "The q parameter is required",
		})
	}
	components, err := s.pool.Search(query)
	if err != nil {
		return poolError(err)
	}
	locale := s.requestLocale(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"query":      query,
		"locale":     locale,
		"count":      len(components),
		"components": componentViews(components, locale),
	})
}

// whatProvides finds components by a provided item.
func (s *Server) whatProvides(c echo.Context) error {
	kind := models.ProvidedKindFromString(c.Param("kind"))
	if kind == models.ProvidedKindUnknown {
		return BadRequestError("Unknown provided kind", c.Param("kind"))
	}
	value := c.Param("value")
	components, err := s.pool.ByProvided(kind, value)
	if err != nil {
		return poolError(err)
	}
	locale := s.requestLocale(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"kind":       string(kind),
		"value":      value,
		"count":      len(components),
		"components": componentViews(components, locale),
	})
}

// byCategories lists components in any of the requested categories.
func (s *Server) byCategories(c echo.Context) error {
	names := c.QueryParams()["name"]
	if len(names) == 0 {
		return ValidationError("Missing category", map[string]string{
			"name": "At least one name parameter is required",
		})
	}
	components, err := s.pool.ByCategories(names...)
	if err != nil {
		return poolError(err)
	}
	locale := s.requestLocale(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": names,
		"count":      len(components),
		"components": componentViews(components, locale),
	})
}

// refresh rebuilds the pool. With force=true the cache is bypassed.
func (s *Server) refresh(c echo.Context) error {
	force, _ := strconv.ParseBool(c.QueryParam("force"))

	res, err := s.pool.Refresh(c.Request().Context(), force)
	if err != nil {
		return InternalError("Refresh failed", err.Error())
	}
	s.debugLog("refresh done: %s, %d components, %d warnings",
		res.Outcome, res.Components, len(res.Warnings))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"outcome":    res.Outcome.String(),
		"components": res.Components,
		"from_cache": res.FromCache,
		"warnings":   res.Warnings,
	})
}

// status reports pool size and configuration summary.
func (s *Server) status(c echo.Context) error {
	components, err := s.pool.All()
	if err != nil {
		return poolError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"components":     len(components),
		"locale":         s.config.Locale.Active(),
		"search_backend": s.config.Search.Backend,
		"cache_dir":      s.config.Cache.Dir,
	})
}

// poolError maps pool query failures to API errors.
func poolError(err error) *APIError {
	if errors.Is(err, pool.ErrNotRefreshed) {
		return ServiceUnavailableError("Pool not ready", "No refresh has completed yet")
	}
	return InternalError("Pool query failed", err.Error())
}
