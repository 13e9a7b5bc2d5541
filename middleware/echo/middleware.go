// Package echomw validates request bodies against a schema before echo
// handlers run. On failure the request is answered with 400 and the
// collected issues; on success the element rides the request context.
package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	relief "github.com/tonich-sh/relief"
	"github.com/tonich-sh/relief/middleware"
	"github.com/tonich-sh/relief/source/json"
)

// ValidateJSON decodes the JSON body, builds an element from s and
// validates it. name is the display name validators and observers see.
func ValidateJSON(s relief.Schema, name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := json.DecodeReader(c.Request().Body)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
			}
			ctx := relief.WithName(c.Request().Context(), name)
			el := s.New(relief.Of(raw))
			if !el.Validate(ctx) {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(relief.CollectIssues(el)))
			}
			c.SetRequest(c.Request().WithContext(middleware.ContextWithElement(ctx, el)))
			return next(c)
		}
	}
}

// GetElement fetches the validated element from the echo context.
func GetElement(c echo.Context) (relief.Element, bool) {
	return middleware.ElementFromContext(c.Request().Context())
}
