package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/invoice-builder/httpx"
	"github.com/diewo77/invoice-builder/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", services.NotFound(services.CodeInvoices, "Invoice with id '%s' was not found", "x"), 404, services.CodeInvoices},
		{"conflict", services.Conflict(services.CodeInvoices, "Invoice with number '%s' already exists", "A"), 409, services.CodeInvoices},
		{"validation", services.Validation(services.CodeInvoiceTotals, "bad", map[string]string{"subtotal": "inconsistent_total"}), 400, services.CodeInvoiceTotals},
		{"rendering", services.Rendering(services.CodeInvoiceRender, "Failed", errors.New("boom")), 500, services.CodeInvoiceRender},
		{"unknown", errors.New("db down"), 500, "Internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)
			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			var p httpx.Problem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
			assert.Equal(t, tt.status, p.Status)
			assert.Equal(t, tt.code, p.Code)
			assert.Equal(t, http.StatusText(tt.status), p.Title)
		})
	}
}

func TestWriteErrorKeepsFields(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, services.Validation(services.CodeInvoiceTotals, "bad", map[string]string{"subtotal": "inconsistent_total"}))

	var p httpx.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "inconsistent_total", p.Errors["subtotal"])
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("password=secret"))
	assert.NotContains(t, rec.Body.String(), "password=secret")
}

func TestStatusForUnknownKind(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(services.KindRendering))
	assert.Equal(t, http.StatusInternalServerError, statusFor(0))
}
