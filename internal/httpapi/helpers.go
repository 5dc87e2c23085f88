package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const maxBodyBytes = 1 << 20 // request bodies above 1 MiB are rejected

// decodeBody reads a JSON request body into dst. Unknown fields are ignored
// so clients can send supersets without breaking.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer io.Copy(io.Discard, r.Body)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", "request body is not valid JSON")
		return false
	}
	return true
}

// parseMulti collects a query parameter that may be repeated and may carry
// comma separated values, e.g. ?mode=remote,hybrid&mode=onsite.
func parseMulti(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseIntParam defaults an absent parameter but rejects unparseable values;
// the second return is false when the caller should answer 400.
func parseIntParam(r *http.Request, key string, def int) (int, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseDateParam accepts YYYY-MM-DD and returns midnight UTC of that day.
func parseDateParam(r *http.Request, key string) (*time.Time, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, false
	}
	return &t, true
}
