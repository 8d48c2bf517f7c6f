package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aarogyalekha/hospital-portal/internal/gateway"
	"github.com/aarogyalekha/hospital-portal/internal/models"
	"github.com/aarogyalekha/hospital-portal/internal/session"
	"github.com/rs/zerolog/log"
)

// AuthHandler drives the two login surfaces, logout and password reset.
// Login writes the session store through the gateway; logout clears one
// slot and leaves the other untouched.
type AuthHandler struct {
	client *gateway.Client
	store  session.Store
}

// NewAuthHandler creates the auth surface.
func NewAuthHandler(client *gateway.Client, store session.Store) *AuthHandler {
	return &AuthHandler{client: client, store: store}
}

type loginForm struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResult struct {
	Success bool               `json:"success"`
	User    models.UserProfile `json:"user"`
}

// AdminLogin authenticates an administrator session.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(form.Username) == "" || strings.TrimSpace(form.Password) == "" {
		writeError(w, http.StatusBadRequest, "Please enter both username and password.")
		return
	}

	resp, err := h.client.AdminLogin(r.Context(), form.Username, form.Password)
	if err != nil {
		h.loginFailure(w, err, "Invalid credentials")
		return
	}

	log.Info().Str("username", form.Username).Msg("Admin logged in")
	writeJSON(w, http.StatusOK, loginResult{Success: true, User: resp.User})
}

// DoctorLogin authenticates a doctor session.
func (h *AuthHandler) DoctorLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(form.Email) == "" || strings.TrimSpace(form.Password) == "" {
		writeError(w, http.StatusBadRequest, "Please enter both email and password.")
		return
	}

	resp, err := h.client.DoctorLogin(r.Context(), form.Email, form.Password)
	if err != nil {
		h.loginFailure(w, err, "Invalid email or password")
		return
	}

	log.Info().Str("doctor_id", resp.User.ID).Msg("Doctor logged in")
	writeJSON(w, http.StatusOK, loginResult{Success: true, User: resp.User})
}

// loginFailure maps a failed login: a 401 keeps its meaning and message,
// anything else is a transport failure shown generically.
func (h *AuthHandler) loginFailure(w http.ResponseWriter, err error, unauthorizedMsg string) {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Unauthorized() {
			writeError(w, http.StatusUnauthorized, unauthorizedMsg)
			return
		}
		writeError(w, http.StatusBadGateway, apiErr.Message())
		return
	}
	log.Error().Err(err).Msg("Login request failed")
	writeError(w, http.StatusBadGateway, gateway.GenericFailureMessage)
}

// AdminLogout clears the admin credential.
func (h *AuthHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r, session.RoleAdmin)
}

// DoctorLogout clears the doctor credential.
func (h *AuthHandler) DoctorLogout(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r, session.RoleDoctor)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request, role session.Role) {
	if err := h.store.Clear(r.Context(), role); err != nil {
		log.Error().Err(err).Str("role", string(role)).Msg("Failed to clear credential")
		writeError(w, http.StatusInternalServerError, "Failed to sign out")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ResetPassword forwards a temporary-password request.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var form struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(form.Email) == "" {
		writeError(w, http.StatusBadRequest, "Please enter your email.")
		return
	}

	resp, err := h.client.ResetPassword(r.Context(), form.Email)
	if err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			writeError(w, apiErr.StatusCode, apiErr.Detail)
			return
		}
		writeError(w, http.StatusBadGateway, "Failed to reset password.")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
