package httputil

import (
	"encoding/json"
	"net/http"
)

// Machine-readable codes carried in the "code" field of every problem body.
// Clients switch on these rather than on status or detail text.
const (
	CodeValidation   = "validation_error"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeCyclicMove   = "cyclic_move"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeInternal     = "internal_error"
)

var problemTypes = map[int]string{
	http.StatusBadRequest:            "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.1",
	http.StatusUnauthorized:          "https://datatracker.ietf.org/doc/html/rfc7235#section-3.1",
	http.StatusForbidden:             "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.3",
	http.StatusNotFound:              "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.4",
	http.StatusConflict:              "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.8",
	http.StatusRequestEntityTooLarge: "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.11",
	http.StatusUnprocessableEntity:   "https://datatracker.ietf.org/doc/html/rfc4918#section-11.2",
	http.StatusInternalServerError:   "https://datatracker.ietf.org/doc/html/rfc7231#section-6.6.1",
}

// Problem is an RFC 7807 body. ResourceType and ResourceID name the
// entity a conflict is about.
type Problem struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	Status       int    `json:"status"`
	Detail       string `json:"detail,omitempty"`
	Code         string `json:"code"`
	ResourceType string `json:"resourceType,omitempty"`
	ResourceID   string `json:"resourceId,omitempty"`
}

// RespondJSON writes data as JSON. The payload is marshaled before any header
// is sent, so an encoding failure still produces a clean 500.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, CodeInternal, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// RespondNoContent writes 204 with no body
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondError writes a problem body with the given code
func RespondError(w http.ResponseWriter, status int, code, detail string) {
	RespondProblem(w, Problem{Status: status, Code: code, Detail: detail})
}

// RespondProblem fills in type and title from the status and writes p
func RespondProblem(w http.ResponseWriter, p Problem) {
	p.Type = problemTypes[p.Status]
	if p.Type == "" {
		p.Type = "about:blank"
	}
	p.Title = http.StatusText(p.Status)

	payload, err := json.Marshal(p)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_, _ = w.Write(payload)
}
