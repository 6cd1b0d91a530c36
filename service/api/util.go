package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/trackshelf/tracks-api/service/database"
)

// maxBodyBytes caps request bodies. None of the endpoints use one.
const maxBodyBytes = 1024 * 1024

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tracksResponse struct {
	Tracks []database.Track `json:"tracks"`
}

// jsonBody checks that a body declared as JSON is well formed, and answers 400 otherwise. Empty bodies and other
// content types pass untouched. The body is restored so handlers can still read it.
func (rt *_router) jsonBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mt != "application/json" || r.Body == nil || r.Body == http.NoBody {
			next.ServeHTTP(w, r)
			return
		}

		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rt.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Request body too large"})
			return
		} else if err != nil {
			rt.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Can't read request body"})
			return
		}
		if len(bytes.TrimSpace(raw)) > 0 && !json.Valid(raw) {
			rt.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(raw))
		next.ServeHTTP(w, r)
	})
}

// writeJSON writes data as a JSON response with the given status.
func (rt *_router) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Too late for a different status code.
			rt.baseLogger.WithError(err).Error("Error encoding JSON response")
		}
	}
}
