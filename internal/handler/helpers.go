package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	"drive/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, httputil.CodeValidation, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, httputil.CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrCyclicMove):
		httputil.RespondError(w, http.StatusUnprocessableEntity, httputil.CodeCyclicMove, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondProblem(w, httputil.Problem{
			Status:       http.StatusConflict,
			Code:         httputil.CodeConflict,
			Detail:       conflictErr.Error(),
			ResourceType: conflictErr.ResourceType,
			ResourceID:   conflictErr.ResourceID,
		})
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, httputil.CodeConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, httputil.CodeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, httputil.CodeForbidden, err.Error())
	default:
		slog.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, httputil.CodeInternal, "internal server error")
	}
}

// ownerID returns the authenticated user, writing 401 when there is none
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := httputil.OwnerFrom(r.Context())
	if !ok {
		handleError(w, &domain.UnauthorizedError{Message: "authentication required"})
		return "", false
	}
	return userID, true
}

// ownerAndID resolves the caller and the {id} path value
func ownerAndID(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID, ok := ownerID(w, r)
	if !ok {
		return "", "", false
	}
	id, err := httputil.PathID(r, "id")
	if err != nil {
		handleError(w, err)
		return "", "", false
	}
	return userID, id, true
}

// listFunc is a listing that spans the whole hierarchy (starred, trash)
type listFunc[T any] func(ctx context.Context, ownerID string, opts models.ListOptions) (*T, error)
