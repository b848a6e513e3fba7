package api

import (
	"encoding/json"
	"net/http"

	"github.com/streamline-io/streamline/internal/auth"
	"github.com/streamline-io/streamline/internal/models"
)

func (api *Api) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := api.accounts.Signup(r.Context(), req)
	if err != nil {
		api.writeServiceError(w, r, "signup", err)
		return
	}

	if err := api.sessions.Start(w, user.ID); err != nil {
		api.internalError(w, r, "signup", err)
		return
	}
	api.writeOK(w, http.StatusCreated, "user", user)
}

func (api *Api) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := api.accounts.Login(r.Context(), req)
	if err != nil {
		api.writeServiceError(w, r, "login", err)
		return
	}

	if err := api.sessions.Start(w, user.ID); err != nil {
		api.internalError(w, r, "login", err)
		return
	}
	api.writeOK(w, http.StatusOK, "user", user)
}

func (api *Api) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	api.sessions.End(w)
	api.writeOK(w, http.StatusOK, "message", "Logged out successfully")
}

func (api *Api) AuthCheckHandler(w http.ResponseWriter, r *http.Request, user *models.User) {
	api.writeOK(w, http.StatusOK, "user", user)
}
