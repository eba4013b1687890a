// Package handlers exposes the lifecycle services over JSON with gin.
package handlers

import (
	"strconv"

	"github.com/diewo77/invoice-builder/httpx"
	"github.com/diewo77/invoice-builder/internal/services"
	"github.com/diewo77/invoice-builder/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// listResponse is the envelope shared by every list endpoint.
type listResponse[T any] struct {
	Items  []T   `json:"items"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
	Total  int64 `json:"total"`
}

func newList[T, R any](l *services.List[T], project func(*T) R) listResponse[R] {
	items := make([]R, 0, len(l.Items))
	for i := range l.Items {
		items = append(items, project(&l.Items[i]))
	}
	return listResponse[R]{Items: items, Offset: l.Offset, Limit: l.Limit, Total: l.Total}
}

func identity[T any](v *T) T { return *v }

// bind decodes the JSON body into dst and runs its validate tags.
// It writes a 400 problem and returns false when the request is unusable.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httpx.ValidationProblem(c.Writer, validation.Violations{"body": "invalid_json"})
		return false
	}
	if v := validation.Struct(dst); !v.Empty() {
		httpx.ValidationProblem(c.Writer, v)
		return false
	}
	return true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpx.ValidationProblem(c.Writer, validation.Violations{"id": "invalid_uuid"})
		return uuid.Nil, false
	}
	return id, true
}

// page reads ?offset=&limit=; missing or malformed values fall back to the defaults.
func page(c *gin.Context) services.Page {
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil {
		offset = 0
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = services.DefaultLimit
	}
	return services.NewPage(offset, limit)
}

