package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"drive/internal/domain"
)

// ErrorKind classifies a 4xx API error.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindCyclicMove   ErrorKind = "cyclic_move"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindTooLarge     ErrorKind = "too_large"
	KindUnknown      ErrorKind = "unknown"
)

// APIError is a problem+json response with a 4xx status.
// errors.Is matches it against the domain sentinels (domain.ErrNotFound, ...).
type APIError struct {
	Kind         ErrorKind
	Status       int
	Code         string
	Detail       string
	ResourceType string
	ResourceID   string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("drive api: %d %s", e.Status, e.Kind)
	}
	return fmt.Sprintf("drive api: %d %s: %s", e.Status, e.Kind, e.Detail)
}

func (e *APIError) Unwrap() error {
	switch e.Kind {
	case KindValidation, KindTooLarge:
		return domain.ErrValidation
	case KindNotFound:
		return domain.ErrNotFound
	case KindConflict:
		return domain.ErrConflict
	case KindCyclicMove:
		return domain.ErrCyclicMove
	case KindUnauthorized:
		return domain.ErrUnauthorized
	case KindForbidden:
		return domain.ErrForbidden
	}
	return nil
}

// TransportError covers failures where the server gave no usable answer:
// network errors, undecodable bodies, and 5xx responses.
type TransportError struct {
	Op     string
	Status int // zero when no response arrived
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

type problemBody struct {
	Title        string `json:"title"`
	Detail       string `json:"detail"`
	Code         string `json:"code"`
	ResourceType string `json:"resourceType"`
	ResourceID   string `json:"resourceId"`
}

func decodeError(op string, resp *http.Response) error {
	var body problemBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	detail := body.Detail
	if detail == "" {
		detail = body.Title
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		if detail == "" {
			detail = http.StatusText(resp.StatusCode)
		}
		return &TransportError{Op: op, Status: resp.StatusCode, Err: errors.New(detail)}
	}

	return &APIError{
		Kind:         kindOf(body.Code, resp.StatusCode),
		Status:       resp.StatusCode,
		Code:         body.Code,
		Detail:       detail,
		ResourceType: body.ResourceType,
		ResourceID:   body.ResourceID,
	}
}

// kindOf prefers the machine-readable code and falls back to the status.
func kindOf(code string, status int) ErrorKind {
	switch code {
	case "validation_error":
		if status == http.StatusRequestEntityTooLarge {
			return KindTooLarge
		}
		return KindValidation
	case "not_found":
		return KindNotFound
	case "conflict":
		return KindConflict
	case "cyclic_move":
		return KindCyclicMove
	case "unauthorized":
		return KindUnauthorized
	case "forbidden":
		return KindForbidden
	}

	switch status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnprocessableEntity:
		return KindCyclicMove
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusRequestEntityTooLarge:
		return KindTooLarge
	}
	return KindUnknown
}
