// Package httpx writes JSON and RFC 9457 problem responses.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/invoice-builder/validation"
)

// Problem is the error body returned by every endpoint.
type Problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Code   string            `json:"code,omitempty"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

var problemTypes = map[int]string{
	http.StatusBadRequest:          "https://tools.ietf.org/html/rfc9110#section-15.5.1",
	http.StatusNotFound:            "https://tools.ietf.org/html/rfc9110#section-15.5.5",
	http.StatusConflict:            "https://tools.ietf.org/html/rfc9110#section-15.5.10",
	http.StatusInternalServerError: "https://tools.ietf.org/html/rfc9110#section-15.6.1",
}

func JSON(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, "application/json", status, payload)
}

func writeJSON(w http.ResponseWriter, contentType string, status int, payload any) {
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// NewProblem fills type and title from the status.
func NewProblem(status int, code, detail string) Problem {
	t, ok := problemTypes[status]
	if !ok {
		t = "about:blank"
	}
	return Problem{Type: t, Title: http.StatusText(status), Status: status, Code: code, Detail: detail}
}

func WriteProblem(w http.ResponseWriter, p Problem) {
	writeJSON(w, "application/problem+json", p.Status, p)
}

// ValidationProblem reports request violations as a 400.
func ValidationProblem(w http.ResponseWriter, v validation.Violations) {
	p := NewProblem(http.StatusBadRequest, "Validation", "One or more validation errors occurred.")
	p.Errors = v
	WriteProblem(w, p)
}

// InternalError writes an opaque 500 so no internal detail reaches the client.
func InternalError(w http.ResponseWriter) {
	WriteProblem(w, NewProblem(http.StatusInternalServerError, "Internal", "An unexpected error occurred."))
}
