package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/aarogyalekha/hospital-portal/internal/gateway"
	"github.com/aarogyalekha/hospital-portal/internal/guard"
	"github.com/aarogyalekha/hospital-portal/internal/models"
	"github.com/aarogyalekha/hospital-portal/internal/session"
	"github.com/aarogyalekha/hospital-portal/internal/views"
	"github.com/rs/zerolog/log"
)

// AdminHandler owns the admin dashboard view: one refresh coordinator
// and three loaders under it. The loaders belong to the credential that
// fetched through them — a new login rebuilds them, so nothing cached
// under an old session (data or a 401) outlives it. Registering a
// doctor is the view's only mutation; its success bumps the coordinator
// so stats, doctors and appointments all re-fetch on the next read.
type AdminHandler struct {
	client      *gateway.Client
	store       session.Store
	coordinator *views.Coordinator

	mu           sync.Mutex
	sessionToken string
	stats        *views.Loader[*models.AdminStats]
	doctors      *views.Loader[[]models.Doctor]
	appointments *views.Loader[[]models.Appointment]
}

// NewAdminHandler wires the admin view against the gateway.
func NewAdminHandler(client *gateway.Client, store session.Store) *AdminHandler {
	return &AdminHandler{
		client:      client,
		store:       store,
		coordinator: views.NewCoordinator(),
	}
}

// loaders returns the loaders bound to the admitted session, rebuilding
// them when a different credential is in play now.
func (h *AdminHandler) loaders(sessionToken string) (*views.Loader[*models.AdminStats], *views.Loader[[]models.Doctor], *views.Loader[[]models.Appointment]) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessionToken != sessionToken || h.stats == nil {
		h.sessionToken = sessionToken
		h.stats = views.NewLoader(h.client.AdminStats)
		h.doctors = views.NewLoader(h.client.Doctors)
		h.appointments = views.NewLoader(h.client.Appointments)
	}
	return h.stats, h.doctors, h.appointments
}

type adminDashboard struct {
	RefreshToken uint64  `json:"refresh_token"`
	Stats        section `json:"stats"`
	Doctors      section `json:"doctors"`
	Appointments section `json:"appointments"`
}

// Dashboard assembles the admin view-model. A 401 from any loader tears
// down the admin session and redirects to the admin login; the doctor
// slot is never touched.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cred, ok := guard.CredentialFrom(ctx)
	if !ok {
		http.Redirect(w, r, guard.AdminLoginPath, http.StatusSeeOther)
		return
	}

	statsLoader, doctorsLoader, appointmentsLoader := h.loaders(cred.Token)
	token := h.coordinator.Token()

	stats := statsLoader.Load(ctx, token)
	doctors := doctorsLoader.Load(ctx, token)
	appointments := appointmentsLoader.Load(ctx, token)

	for _, err := range []error{stats.Err, doctors.Err, appointments.Err} {
		if views.HandleAuthFailure(ctx, h.store, session.RoleAdmin, err) {
			http.Redirect(w, r, guard.AdminLoginPath, http.StatusSeeOther)
			return
		}
	}

	writeJSON(w, http.StatusOK, adminDashboard{
		RefreshToken: token,
		Stats:        sectionOf(stats),
		Doctors:      sectionOf(doctors),
		Appointments: sectionOf(appointments),
	})
}

type registerDoctorForm struct {
	models.RegisterDoctorRequest
	ConfirmPassword string `json:"confirm_password"`
}

// RegisterDoctor validates and submits a doctor registration. The
// coordinator is bumped exactly once, after the success response —
// never optimistically, never on failure.
func (h *AdminHandler) RegisterDoctor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var form registerDoctorForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := validateRegistration(form); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	resp, err := h.client.RegisterDoctor(ctx, form.RegisterDoctorRequest)
	if err != nil {
		if views.HandleAuthFailure(ctx, h.store, session.RoleAdmin, err) {
			http.Redirect(w, r, guard.AdminLoginPath, http.StatusSeeOther)
			return
		}
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			writeError(w, apiErr.StatusCode, apiErr.Detail)
			return
		}
		log.Error().Err(err).Msg("Doctor registration failed")
		writeError(w, http.StatusBadGateway, "Failed to register doctor.")
		return
	}

	refreshToken := h.coordinator.Bump()
	log.Info().Str("doctor_id", resp.DoctorID).Uint64("refresh_token", refreshToken).Msg("Doctor registered")

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":       true,
		"doctor_id":     resp.DoctorID,
		"message":       resp.Message,
		"refresh_token": refreshToken,
	})
}

// validateRegistration applies the registration rules in order; the
// first failing rule wins and only one message is shown.
func validateRegistration(form registerDoctorForm) string {
	switch {
	case strings.TrimSpace(form.Name) == "":
		return "Doctor name is required."
	case strings.TrimSpace(form.Email) == "":
		return "Email is required."
	case form.Department == "":
		return "Department is required."
	case form.DailyCapacity <= 0:
		return "Valid daily capacity is required."
	case form.Password == "":
		return "Password is required."
	case len(form.Password) < 6:
		return "Password must be at least 6 characters."
	case form.Password != form.ConfirmPassword:
		return "Passwords do not match."
	}
	return ""
}
