package httpapi

import (
	"net/http"

	"jobledger-engine/internal/store"
)

type StatusHandler struct {
	Store *store.DB
}

type putStatusRequest struct {
	Status string `json:"status"`
}

func (h StatusHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}
	jobID, ok := pathGUID(w, r, "id")
	if !ok {
		return
	}
	var req putStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	status, err := h.Store.PutStatus(r.Context(), jobID, userID, req.Status)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"jobId":  jobID,
		"userId": userID,
		"status": status,
	})
}

type bulkStatusRequest struct {
	JobIDs []string `json:"jobIds"`
}

func (h StatusHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(w, r)
	if !ok {
		return
	}
	var req bulkStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	statuses, err := h.Store.BulkStatuses(r.Context(), userID, req.JobIDs)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"userId":   userID,
		"statuses": statuses,
	})
}
