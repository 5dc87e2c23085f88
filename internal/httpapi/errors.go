package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"jobledger-engine/internal/store"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeStoreError maps store-layer failures onto the API error envelope.
// Driver and SQL details stay in the log, never in the response body.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case store.IsValidation(err):
		WriteError(w, r, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "not_found", "job offering not found")
	case errors.Is(err, store.ErrMultiRowAnomaly):
		log.Printf("level=error msg=\"multi-row anomaly\" request_id=%s path=%s err=%v",
			RequestIDFrom(r.Context()), r.URL.Path, err)
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	default:
		log.Printf("level=error msg=\"store error\" request_id=%s path=%s err=%v",
			RequestIDFrom(r.Context()), r.URL.Path, err)
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
