package httpapi

import (
	"net/http"
	"strings"

	"jobledger-engine/internal/config"
	"jobledger-engine/internal/resolve"
	"jobledger-engine/internal/store"
)

type JobsHandler struct {
	Store *store.DB
	Cfg   config.Config
}

type createJobRequest struct {
	FoundOn            string           `json:"foundOn"`
	Provider           string           `json:"provider"`
	ProviderTenant     string           `json:"providerTenant"`
	ExternalID         string           `json:"externalId"`
	URL                string           `json:"url"`
	ApplyURL           string           `json:"applyUrl"`
	HiringCompanyName  string           `json:"hiringCompanyName"`
	PostingCompanyName string           `json:"postingCompanyName"`
	Title              string           `json:"title"`
	RemoteType         string           `json:"remoteType"`
	Description        string           `json:"description"`
	Locations          []store.Location `json:"locations"`
}

func (h JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := writeActorFrom(w, r)
	if !ok {
		return
	}
	var req createJobRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.Store.CreateJob(r.Context(), store.CreateParams{
		FoundOn:            req.FoundOn,
		Provider:           req.Provider,
		ProviderTenant:     req.ProviderTenant,
		ExternalID:         req.ExternalID,
		URL:                req.URL,
		ApplyURL:           req.ApplyURL,
		HiringCompanyName:  req.HiringCompanyName,
		PostingCompanyName: req.PostingCompanyName,
		Title:              req.Title,
		RemoteType:         req.RemoteType,
		Description:        req.Description,
		Locations:          req.Locations,
	}, actor)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathGUID(w, r, "id")
	if !ok {
		return
	}
	job, err := h.Store.GetJob(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

type updateJobRequest struct {
	FoundOn            *string           `json:"foundOn"`
	Provider           *string           `json:"provider"`
	ProviderTenant     *string           `json:"providerTenant"`
	ExternalID         *string           `json:"externalId"`
	URL                *string           `json:"url"`
	ApplyURL           *string           `json:"applyUrl"`
	HiringCompanyName  *string           `json:"hiringCompanyName"`
	PostingCompanyName *string           `json:"postingCompanyName"`
	Title              *string           `json:"title"`
	RemoteType         *string           `json:"remoteType"`
	Description        *string           `json:"description"`
	Locations          *[]store.Location `json:"locations"`
}

func (h JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := writeActorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathGUID(w, r, "id")
	if !ok {
		return
	}
	var req updateJobRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.Store.UpdateJob(r.Context(), id, store.UpdateParams{
		FoundOn:            req.FoundOn,
		Provider:           req.Provider,
		ProviderTenant:     req.ProviderTenant,
		ExternalID:         req.ExternalID,
		URL:                req.URL,
		ApplyURL:           req.ApplyURL,
		HiringCompanyName:  req.HiringCompanyName,
		PostingCompanyName: req.PostingCompanyName,
		Title:              req.Title,
		RemoteType:         req.RemoteType,
		Description:        req.Description,
		Locations:          req.Locations,
	}, actor)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	job, err := h.Store.GetJob(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

func (h JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := writeActorFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathGUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Store.SoftDeleteJob(r.Context(), id, actor); err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Exists answers identity probes without transferring the job itself. Clients
// pass either ?url=... or the explicit provider/providerTenant/externalId
// triple. Registered for GET, which also serves HEAD.
func (h JobsHandler) Exists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	provider := strings.TrimSpace(q.Get("provider"))
	tenant := strings.TrimSpace(q.Get("providerTenant"))
	externalID := strings.TrimSpace(q.Get("externalId"))

	if externalID == "" {
		rawURL := strings.TrimSpace(q.Get("url"))
		if rawURL == "" {
			WriteError(w, r, http.StatusBadRequest, "validation_error", "either url or provider+providerTenant+externalId is required")
			return
		}
		ident := resolve.FromURL(resolve.NormalizeURL(rawURL))
		if ident.ExternalID == "" {
			WriteError(w, r, http.StatusBadRequest, "validation_error", "could not deduce identity from url")
			return
		}
		provider, tenant, externalID = ident.Provider, ident.ProviderTenant, ident.ExternalID
	}
	if provider == "" {
		WriteError(w, r, http.StatusBadRequest, "validation_error", "missing 'provider'")
		return
	}

	id, err := h.Store.FindJobID(r.Context(), provider, tenant, externalID)
	if err == store.ErrNotFound {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"exists": false})
		return
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	w.Header().Set("Location", "/jobs/"+id)
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"exists": true, "id": id})
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := optionalUserID(w, r)
	if !ok {
		return
	}

	from, ok := parseDateParam(r, "date_from")
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "validation_error", "date_from must be YYYY-MM-DD")
		return
	}
	to, ok := parseDateParam(r, "date_to")
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "validation_error", "date_to must be YYYY-MM-DD")
		return
	}

	limit, ok := parseIntParam(r, "limit", h.Cfg.Listing.DefaultLimit)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "validation_error", "invalid 'limit'")
		return
	}
	offset, ok := parseIntParam(r, "offset", 0)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "validation_error", "invalid 'offset'")
		return
	}
	if limit > h.Cfg.Listing.MaxLimit {
		limit = h.Cfg.Listing.MaxLimit
	}

	q := r.URL.Query()

	result, err := h.Store.ListJobs(r.Context(), store.ListQuery{
		Category:     q.Get("category"),
		UserID:       userID,
		Q:            q.Get("q"),
		SearchField:  q.Get("search_field"),
		Modes:        parseMulti(r, "mode"),
		Cities:       parseMulti(r, "city"),
		Countries:    parseMulti(r, "country"),
		IgnoreStatus: parseMulti(r, "ignore_status"),
		DateKind:     q.Get("date_kind"),
		DateFrom:     from,
		DateTo:       to,
		Sort:         q.Get("sort"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
