package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/invoice-builder/httpx"
	"github.com/diewo77/invoice-builder/internal/services"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error kind to an HTTP status.
func statusFor(k services.Kind) int {
	switch k {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError translates err into a problem response. Unknown errors become an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	var se *services.Error
	if !errors.As(err, &se) {
		httpx.InternalError(w)
		return
	}
	p := httpx.NewProblem(statusFor(se.Kind), se.Code, se.Message)
	p.Errors = se.Fields
	httpx.WriteProblem(w, p)
}

// fail records unclassified errors on the context for the request logger, then responds.
func fail(c *gin.Context, err error) {
	if services.KindOf(err) == 0 {
		_ = c.Error(err)
	}
	writeError(c.Writer, err)
}
