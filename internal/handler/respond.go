package handler

import (
	"encoding/json"
	"net/http"
)

const maxBodySize = 1 << 20 // 1MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func messageResponse(msg string) map[string]string {
	return map[string]string{"message": msg}
}

// decodeBody decodes a size-capped JSON request body into dst.
// It writes the error response itself and reports whether decoding succeeded.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err.Error() == "http: request body too large" {
			writeJSON(w, http.StatusRequestEntityTooLarge, messageResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, messageResponse("invalid request body"))
		return false
	}
	return true
}
