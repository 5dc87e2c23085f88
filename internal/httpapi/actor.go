package httpapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"jobledger-engine/internal/store"
)

// userIDFrom extracts the caller identity from X-User-Id. Per-user
// operations cannot proceed without it, so a missing or malformed header is
// reported as 401 and the second return is false.
func userIDFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if raw == "" {
		WriteError(w, r, http.StatusUnauthorized, "unauthorized", "X-User-Id header is required")
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteError(w, r, http.StatusUnauthorized, "unauthorized", "X-User-Id must be a GUID")
		return "", false
	}
	return id.String(), true
}

// optionalUserID is like userIDFrom but treats an absent header as anonymous.
// A present but malformed header is still rejected.
func optionalUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if raw == "" {
		return "", true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteError(w, r, http.StatusUnauthorized, "unauthorized", "X-User-Id must be a GUID")
		return "", false
	}
	return id.String(), true
}

// writeActorFrom resolves the audit actor for catalog writes. A valid
// X-User-Id attributes the write to that user; without one the caller is a
// service and the write is attributed to a system actor named by X-Actor-Id.
// Only a malformed user header is rejected.
func writeActorFrom(w http.ResponseWriter, r *http.Request) (store.Actor, bool) {
	raw := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			WriteError(w, r, http.StatusUnauthorized, "unauthorized", "X-User-Id must be a GUID")
			return store.Actor{}, false
		}
		return store.UserActor(id.String()), true
	}
	id := strings.TrimSpace(r.Header.Get("X-Actor-Id"))
	if id == "" {
		id = "system"
	}
	return store.SystemActor(id), true
}

func pathGUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "validation_error", name+" must be a GUID")
		return "", false
	}
	return id.String(), true
}
