package httputil

import (
	"context"
	"net/http"
)

type ownerKey struct{}

// WithOwner returns r carrying the authenticated owner id.
// Every drive query is scoped to this id.
func WithOwner(r *http.Request, ownerID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ownerKey{}, ownerID))
}

// OwnerFrom returns the owner id stored by WithOwner. An empty id counts as absent.
func OwnerFrom(ctx context.Context) (string, bool) {
	ownerID, _ := ctx.Value(ownerKey{}).(string)
	return ownerID, ownerID != ""
}
