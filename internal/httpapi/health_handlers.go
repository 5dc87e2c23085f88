package httpapi

import "net/http"

type HealthHandler struct{}

func (HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
