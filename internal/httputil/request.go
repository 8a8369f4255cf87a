package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"

	"github.com/google/uuid"
)

// ParseJSON decodes JSON from the request body into the given destination.
// It limits the request body size to prevent abuse and provides clear error messages.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}

	return nil
}

// ValidateID checks that id is a UUID
func ValidateID(id, field string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("%s must be a UUID", field)}
	}
	return nil
}

// PathID returns the UUID path value called name
func PathID(r *http.Request, name string) (string, error) {
	id := r.PathValue(name)
	if err := ValidateID(id, name); err != nil {
		return "", err
	}
	return id, nil
}

// OptionalID validates a nullable folder reference. nil and "" both mean root.
func OptionalID(id *string, field string) (*string, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	if err := ValidateID(*id, field); err != nil {
		return nil, err
	}
	return id, nil
}

// QueryID reads an optional UUID query parameter. Absent or empty means root.
func QueryID(r *http.Request, name string) (*string, error) {
	v := r.URL.Query().Get(name)
	return OptionalID(&v, name)
}

// ParseListOptions reads page, limit and search from the query string.
// Missing values are left zero for the service to default.
func ParseListOptions(r *http.Request) (models.ListOptions, error) {
	q := r.URL.Query()
	opts := models.ListOptions{Search: q.Get("search")}

	var err error
	if opts.Page, err = intParam(q.Get("page"), "page"); err != nil {
		return opts, err
	}
	if opts.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		return opts, err
	}
	return opts, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &domain.ValidationError{Message: fmt.Sprintf("%s must be a positive integer", name)}
	}
	return n, nil
}
