package api

import (
	"errors"
	"net/http"

	"github.com/streamline-io/streamline/internal/auth"
	"github.com/streamline-io/streamline/internal/store"
)

// protect runs next only for a request with a valid session, passing it the
// resolved user.
func (api *Api) protect(next auth.SessionHandler) http.HandlerFunc {
	return api.sessions.Require(next, api.rejectSession)
}

func (api *Api) rejectSession(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrNoToken):
		api.writeError(w, http.StatusUnauthorized, "Unauthorized - No Token Provided")
	case errors.Is(err, auth.ErrInvalidToken):
		api.logger.Debug("rejected session token", "path", r.URL.Path)
		api.writeError(w, http.StatusUnauthorized, "Unauthorized - Invalid Token")
	case errors.Is(err, store.ErrUserNotFound):
		api.writeError(w, http.StatusNotFound, "User not found")
	default:
		api.internalError(w, r, "session lookup", err)
	}
}
