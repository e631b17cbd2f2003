package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeText(w http.ResponseWriter, status int, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// writeError maps coded errors to HTTP statuses. Server errors are logged.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger *log.Logger) {
	status := wlerrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     wlerrors.UserMessage(err),
		Code:      string(wlerrors.GetCode(err)),
		RequestID: chimiddleware.GetReqID(r.Context()),
	})
}
