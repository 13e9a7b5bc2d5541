// Package ginmw validates request bodies against a schema before gin
// handlers run. On failure the request is answered with 400 and the
// collected issues; on success the element rides the request context.
package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	relief "github.com/tonich-sh/relief"
	"github.com/tonich-sh/relief/middleware"
	"github.com/tonich-sh/relief/source/json"
)

// ValidateJSON decodes the JSON body, builds an element from s and
// validates it. name is the display name validators and observers see.
func ValidateJSON(s relief.Schema, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := json.DecodeReader(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		run(c, s, name, relief.Of(raw))
	}
}

// ValidateForm builds an element from the parsed form body. Repeated
// fields arrive as a slice of their values.
func ValidateForm(s relief.Schema, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		raw := make(map[string]any, len(c.Request.PostForm))
		for k, vs := range c.Request.PostForm {
			if len(vs) == 1 {
				raw[k] = vs[0]
				continue
			}
			items := make([]any, len(vs))
			for i, v := range vs {
				items[i] = v
			}
			raw[k] = items
		}
		run(c, s, name, relief.Of(raw))
	}
}

func run(c *gin.Context, s relief.Schema, name string, raw relief.Value) {
	ctx := relief.WithName(c.Request.Context(), name)
	el := s.New(raw)
	if !el.Validate(ctx) {
		c.JSON(http.StatusBadRequest, middleware.ErrorPayload(relief.CollectIssues(el)))
		c.Abort()
		return
	}
	c.Request = c.Request.WithContext(middleware.ContextWithElement(ctx, el))
	c.Next()
}

// GetElement fetches the validated element from the gin context.
func GetElement(c *gin.Context) (relief.Element, bool) {
	return middleware.ElementFromContext(c.Request.Context())
}
