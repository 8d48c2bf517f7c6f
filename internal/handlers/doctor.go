package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aarogyalekha/hospital-portal/internal/gateway"
	"github.com/aarogyalekha/hospital-portal/internal/guard"
	"github.com/aarogyalekha/hospital-portal/internal/models"
	"github.com/aarogyalekha/hospital-portal/internal/session"
	"github.com/aarogyalekha/hospital-portal/internal/views"
)

// DoctorHandler owns the doctor dashboard view: profile and queue
// loaders for the logged-in doctor, resolved from the stored profile
// snapshot. The loaders belong to the admitted credential and are
// rebuilt on any new login, so a fresh session never inherits what an
// expired one cached.
type DoctorHandler struct {
	client      *gateway.Client
	store       session.Store
	coordinator *views.Coordinator

	mu           sync.Mutex
	sessionToken string
	profile      *views.Loader[*models.Doctor]
	queue        *views.Loader[[]models.Appointment]
}

// NewDoctorHandler wires the doctor view against the gateway.
func NewDoctorHandler(client *gateway.Client, store session.Store) *DoctorHandler {
	return &DoctorHandler{
		client:      client,
		store:       store,
		coordinator: views.NewCoordinator(),
	}
}

type doctorDashboard struct {
	RefreshToken uint64               `json:"refresh_token"`
	Profile      section              `json:"profile"`
	Queue        section              `json:"queue"`
	TodayCount   int                  `json:"today_count"`
	Today        []models.Appointment `json:"today"`
}

// Dashboard assembles the doctor view-model: profile, full queue and
// the today summary. A 401 from either loader clears the doctor
// credential only and redirects to the doctor login.
func (h *DoctorHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cred, ok := guard.CredentialFrom(ctx)
	if !ok || cred.User.ID == "" {
		writeError(w, http.StatusBadRequest, "Doctor profile has no identifier")
		return
	}

	profile, queue := h.loaders(cred.Token, cred.User.ID)
	token := h.coordinator.Token()

	profileRes := profile.Load(ctx, token)
	queueRes := queue.Load(ctx, token)

	for _, err := range []error{profileRes.Err, queueRes.Err} {
		if views.HandleAuthFailure(ctx, h.store, session.RoleDoctor, err) {
			http.Redirect(w, r, guard.DoctorLoginPath, http.StatusSeeOther)
			return
		}
	}

	today := todaysAppointments(queueRes.Data)
	writeJSON(w, http.StatusOK, doctorDashboard{
		RefreshToken: token,
		Profile:      sectionOf(profileRes),
		Queue:        sectionOf(queueRes),
		TodayCount:   len(today),
		Today:        today,
	})
}

// loaders returns the loaders bound to the admitted session, rebuilding
// them when a different credential is in play now.
func (h *DoctorHandler) loaders(sessionToken, doctorID string) (*views.Loader[*models.Doctor], *views.Loader[[]models.Appointment]) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessionToken != sessionToken || h.profile == nil {
		h.sessionToken = sessionToken
		h.profile = views.NewLoader(func(ctx context.Context) (*models.Doctor, error) {
			return h.client.DoctorProfile(ctx, doctorID)
		})
		h.queue = views.NewLoader(func(ctx context.Context) ([]models.Appointment, error) {
			return h.client.DoctorAppointments(ctx, doctorID)
		})
	}
	return h.profile, h.queue
}

// todaysAppointments filters the queue down to entries created today
// (UTC) and orders them by creation time.
func todaysAppointments(queue []models.Appointment) []models.Appointment {
	todayPrefix := time.Now().UTC().Format("2006-01-02")

	today := make([]models.Appointment, 0)
	for _, a := range queue {
		if strings.HasPrefix(a.CreatedAt, todayPrefix) {
			today = append(today, a)
		}
	}
	sort.Slice(today, func(i, j int) bool {
		return today[i].CreatedAt < today[j].CreatedAt
	})
	return today
}
