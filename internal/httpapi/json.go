package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// errorResponse mirrors the wire contract clients already parse: a flat
// error string plus retryAfter seconds on throttled responses.
type errorResponse struct {
	Error      string `json:"error"`
	RetryAfter int64  `json:"retryAfter,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeRateLimited(w http.ResponseWriter, msg string, retryAfterSeconds int64) {
	w.Header().Set("Retry-After", strconv.FormatInt(retryAfterSeconds, 10))
	writeJSON(w, http.StatusTooManyRequests, errorResponse{
		Error:      msg,
		RetryAfter: retryAfterSeconds,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
