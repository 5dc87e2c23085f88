package httpapi

import "net/http"

// NewMux registers the full routing table. Patterns are method-qualified so
// the table below is the single authoritative list of endpoints.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", HealthHandler{}.Health)

	jh := JobsHandler{Store: d.Store, Cfg: d.Cfg}
	mux.HandleFunc("POST /jobs", jh.Create)
	mux.HandleFunc("GET /jobs", jh.List)
	mux.HandleFunc("GET /jobs/exists", jh.Exists) // also serves HEAD
	mux.HandleFunc("GET /jobs/{id}", jh.Get)
	mux.HandleFunc("PUT /jobs/{id}", jh.Update)
	mux.HandleFunc("DELETE /jobs/{id}", jh.Delete)

	sh := StatusHandler{Store: d.Store}
	mux.HandleFunc("PUT /jobs/{id}/status", sh.Put)
	mux.HandleFunc("POST /jobs/status", sh.Bulk)

	hh := HistoryHandler{Store: d.Store, Cfg: d.Cfg}
	mux.HandleFunc("GET /jobs/{id}/history", hh.List)
	mux.HandleFunc("POST /jobs/{id}/history", hh.Append)

	return mux
}
