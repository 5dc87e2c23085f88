package httpapi

import (
	"net/http"

	"jobledger-engine/internal/config"
	"jobledger-engine/internal/store"
)

type HistoryHandler struct {
	Store *store.DB
	Cfg   config.Config
}

type appendHistoryRequest struct {
	Action    string         `json:"action"`
	Details   map[string]any `json:"details"`
	ActorType string         `json:"actorType"`
	ActorID   string         `json:"actorId"`
}

func (h HistoryHandler) Append(w http.ResponseWriter, r *http.Request) {
	actor, ok := writeActorFrom(w, r)
	if !ok {
		return
	}
	jobID, ok := pathGUID(w, r, "id")
	if !ok {
		return
	}
	var req appendHistoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// Body-level actor fields win over header attribution so importers can
	// submit events on behalf of a named agent.
	if req.ActorType == "system" {
		id := req.ActorID
		if id == "" {
			id = "system"
		}
		actor = store.SystemActor(id)
	}

	err := h.Store.AppendHistory(r.Context(), jobID, req.Action, req.Details, actor)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathGUID(w, r, "id")
	if !ok {
		return
	}

	limit, ok := parseIntParam(r, "limit", h.Cfg.History.DefaultLimit)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "validation_error", "invalid 'limit'")
		return
	}
	if limit > h.Cfg.History.MaxLimit {
		limit = h.Cfg.History.MaxLimit
	}

	items, next, err := h.Store.ListHistory(r.Context(), jobID, limit, r.URL.Query().Get("cursor"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	resp := map[string]any{"items": items, "nextCursor": nil}
	if next != "" {
		resp["nextCursor"] = next
	}
	if items == nil {
		resp["items"] = []store.HistoryEntry{}
	}
	WriteJSON(w, http.StatusOK, resp)
}
