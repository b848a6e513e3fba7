package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/streamline-io/streamline/internal/auth"
	"github.com/streamline-io/streamline/internal/search"
	"github.com/streamline-io/streamline/internal/store"
)

const msgInternal = "Internal Server Error"

// envelope is the {success, ...} body every endpoint answers with
type envelope map[string]any

func (api *Api) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		api.logger.Error("failed to encode response", "error", err)
	}
}

func (api *Api) writeOK(w http.ResponseWriter, status int, key string, value any) {
	api.writeJSON(w, status, envelope{"success": true, key: value})
}

func (api *Api) writeError(w http.ResponseWriter, status int, message string) {
	api.writeJSON(w, status, envelope{"success": false, "message": message})
}

func (api *Api) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	api.logger.Error(op+" failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
	api.writeError(w, http.StatusInternalServerError, msgInternal)
}

// writeServiceError translates a service-layer error into a response.
// Anything unrecognised is an internal error.
func (api *Api) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		api.writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, store.ErrEmailTaken):
		api.writeError(w, http.StatusConflict, "Email already exists")
	case errors.Is(err, store.ErrUsernameTaken):
		api.writeError(w, http.StatusConflict, "Username already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.writeError(w, http.StatusNotFound, "Invalid credentials")
	case errors.Is(err, search.ErrNoResults):
		api.writeError(w, http.StatusNotFound, "No results found")
	default:
		api.internalError(w, r, op, err)
	}
}
