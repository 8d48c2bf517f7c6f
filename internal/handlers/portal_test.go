package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarogyalekha/hospital-portal/internal/gateway"
	"github.com/aarogyalekha/hospital-portal/internal/guard"
	"github.com/aarogyalekha/hospital-portal/internal/models"
	"github.com/aarogyalekha/hospital-portal/internal/session"
)

// backendStub plays the coordination API behind the gateway, counting
// hits per endpoint so caching behavior is observable.
type backendStub struct {
	mu   sync.Mutex
	hits map[string]int

	statsUnauthorized bool
	triage            models.TriageReport
}

func newBackendStub() *backendStub {
	return &backendStub{
		hits:   make(map[string]int),
		triage: models.TriageReport{Status: "scheduled", AssignedDoctorName: "Dr. Asha Rao"},
	}
}

func (b *backendStub) hit(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hits[key]++
	return b.hits[key]
}

func (b *backendStub) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[key]
}

func (b *backendStub) handler() http.Handler {
	writeBody := func(w http.ResponseWriter, status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}

	r := chi.NewRouter()
	r.Post("/admin/login", func(w http.ResponseWriter, req *http.Request) {
		b.hit("admin-login")
		writeBody(w, http.StatusOK, models.LoginResponse{
			Success: true,
			Token:   "admin-tok",
			User:    models.UserProfile{Username: "admin", Role: "admin"},
		})
	})
	r.Post("/doctor/login", func(w http.ResponseWriter, req *http.Request) {
		b.hit("doctor-login")
		writeBody(w, http.StatusOK, models.LoginResponse{
			Success: true,
			Token:   "doc-tok",
			User:    models.UserProfile{ID: "doc-1", Role: "doctor"},
		})
	})
	r.Get("/admin/stats", func(w http.ResponseWriter, req *http.Request) {
		b.hit("stats")
		if b.statsUnauthorized {
			writeBody(w, http.StatusUnauthorized, map[string]string{"detail": "Token expired"})
			return
		}
		writeBody(w, http.StatusOK, models.AdminStats{TotalDoctors: 3, TotalAppointments: 12})
	})
	r.Get("/doctors", func(w http.ResponseWriter, req *http.Request) {
		b.hit("doctors")
		writeBody(w, http.StatusOK, []models.Doctor{{ID: "doc-1", Name: "Dr. Asha Rao", Department: "Cardiology"}})
	})
	r.Get("/appointments", func(w http.ResponseWriter, req *http.Request) {
		b.hit("appointments")
		writeBody(w, http.StatusOK, []models.Appointment{})
	})
	r.Post("/admin/register-doctor", func(w http.ResponseWriter, req *http.Request) {
		b.hit("register")
		writeBody(w, http.StatusOK, models.RegisterDoctorResponse{Success: true, DoctorID: "doc-9", Message: "Doctor registered"})
	})
	r.Post("/appointments", func(w http.ResponseWriter, req *http.Request) {
		b.hit("submit")
		writeBody(w, http.StatusOK, b.triage)
	})
	return r
}

// newPortal wires a full router against a stub backend and a fresh
// in-memory session store.
func newPortal(t *testing.T, stub *backendStub) (http.Handler, session.Store) {
	t.Helper()
	backend := httptest.NewServer(stub.handler())
	t.Cleanup(backend.Close)

	store := session.NewMemoryStore()
	client := gateway.NewClient(backend.URL, store)
	return Router(client, store), store
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func getPath(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestDoctorLoginReplacesAdminSession(t *testing.T) {
	portal, store := newPortal(t, newBackendStub())
	ctx := context.Background()

	require.NoError(t, store.SetCredential(ctx, session.RoleAdmin, "stale-admin", models.UserProfile{Username: "admin"}))

	rec := postJSON(t, portal, "/portal/doctor/login", map[string]string{
		"email":    "asha@hospital.test",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Admin, "doctor login must drop the admin credential")
	require.NotNil(t, snap.Doctor)
	assert.Equal(t, "doc-tok", snap.Doctor.Token)
}

func TestLoginRejectsBlankFields(t *testing.T) {
	stub := newBackendStub()
	portal, _ := newPortal(t, stub)

	rec := postJSON(t, portal, "/portal/admin/login", map[string]string{"username": "  ", "password": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter both username and password.")
	assert.Equal(t, 0, stub.count("admin-login"))
}

func TestGuardedDashboardRedirectsWithoutSession(t *testing.T) {
	portal, _ := newPortal(t, newBackendStub())

	rec := getPath(portal, "/portal/admin/dashboard")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, guard.AdminLoginPath, rec.Header().Get("Location"))

	rec = getPath(portal, "/portal/doctor/dashboard")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, guard.DoctorLoginPath, rec.Header().Get("Location"))
}

func TestAdminDashboardCachesUntilMutationBumps(t *testing.T) {
	stub := newBackendStub()
	portal, store := newPortal(t, stub)
	ctx := context.Background()

	require.NoError(t, store.SetCredential(ctx, session.RoleAdmin, "admin-tok", models.UserProfile{Username: "admin"}))

	rec := getPath(portal, "/portal/admin/dashboard")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var first struct {
		RefreshToken uint64 `json:"refresh_token"`
		Stats        struct {
			State string `json:"state"`
		} `json:"stats"`
		Appointments struct {
			State string `json:"state"`
			Data  []any  `json:"data"`
		} `json:"appointments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Equal(t, uint64(0), first.RefreshToken)
	assert.Equal(t, "loaded", first.Stats.State)
	assert.Equal(t, "loaded", first.Appointments.State, "an empty listing is loaded, not an error")
	assert.Empty(t, first.Appointments.Data)

	// Navigating back within the same session re-reads the cache; the
	// backend sees nothing.
	rec = getPath(portal, "/portal/admin/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.count("stats"))
	assert.Equal(t, 1, stub.count("doctors"))
	assert.Equal(t, 1, stub.count("appointments"))

	// A successful registration bumps the refresh token.
	rec = postJSON(t, portal, "/portal/admin/register-doctor", map[string]any{
		"name":             "Dr. Vikram Shah",
		"email":            "vikram@hospital.test",
		"department":       "Neurology",
		"daily_capacity":   10,
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, stub.count("register"))

	var registered struct {
		RefreshToken uint64 `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.Equal(t, uint64(1), registered.RefreshToken)

	// Next dashboard read re-fetches every section exactly once.
	rec = getPath(portal, "/portal/admin/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, stub.count("stats"))
	assert.Equal(t, 2, stub.count("doctors"))
	assert.Equal(t, 2, stub.count("appointments"))
}

func TestRegisterDoctorValidationStopsBeforeNetwork(t *testing.T) {
	stub := newBackendStub()
	portal, store := newPortal(t, stub)
	ctx := context.Background()

	require.NoError(t, store.SetCredential(ctx, session.RoleAdmin, "admin-tok", models.UserProfile{Username: "admin"}))

	rec := postJSON(t, portal, "/portal/admin/register-doctor", map[string]any{
		"name":             "Dr. Vikram Shah",
		"email":            "vikram@hospital.test",
		"department":       "Neurology",
		"daily_capacity":   10,
		"password":         "secret1",
		"confirm_password": "different",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passwords do not match.")
	assert.Equal(t, 0, stub.count("register"))
}

func TestExpiredAdminSessionClearsAndRedirects(t *testing.T) {
	stub := newBackendStub()
	stub.statsUnauthorized = true
	portal, store := newPortal(t, stub)
	ctx := context.Background()

	require.NoError(t, store.SetCredential(ctx, session.RoleAdmin, "expired", models.UserProfile{Username: "admin"}))

	rec := getPath(portal, "/portal/admin/dashboard")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, guard.AdminLoginPath, rec.Header().Get("Location"))

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Admin, "a 401 from a loader tears down the admin session")
}

func TestReloginAfterExpiryReloadsDashboard(t *testing.T) {
	stub := newBackendStub()
	stub.statsUnauthorized = true
	portal, store := newPortal(t, stub)
	ctx := context.Background()

	require.NoError(t, store.SetCredential(ctx, session.RoleAdmin, "expired", models.UserProfile{Username: "admin"}))

	// The expired session is torn down on first read.
	rec := getPath(portal, "/portal/admin/dashboard")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Nil(t, snap.Admin)

	// The operator logs back in and the server accepts tokens again.
	stub.statsUnauthorized = false
	rec = postJSON(t, portal, "/portal/admin/login", map[string]string{"username": "admin", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The fresh session gets a fresh dashboard, not the expired
	// session's cached failure.
	rec = getPath(portal, "/portal/admin/dashboard")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, stub.count("stats"))

	snap, err = store.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotNil(t, snap.Admin, "a stale failure must never tear down the new session")
}

func TestNewAdminSessionRefetchesDashboard(t *testing.T) {
	stub := newBackendStub()
	portal, store := newPortal(t, stub)
	ctx := context.Background()

	require.NoError(t, store.SetCredential(ctx, session.RoleAdmin, "shift-one", models.UserProfile{Username: "admin"}))
	require.Equal(t, http.StatusOK, getPath(portal, "/portal/admin/dashboard").Code)
	assert.Equal(t, 1, stub.count("stats"))

	// A later login sees current data instead of the old shift's cache.
	require.NoError(t, store.SetCredential(ctx, session.RoleAdmin, "shift-two", models.UserProfile{Username: "admin"}))
	require.Equal(t, http.StatusOK, getPath(portal, "/portal/admin/dashboard").Code)
	assert.Equal(t, 2, stub.count("stats"))
	assert.Equal(t, 2, stub.count("doctors"))
	assert.Equal(t, 2, stub.count("appointments"))
}

func TestSubmitAppointmentDomainRejection(t *testing.T) {
	stub := newBackendStub()
	stub.triage = models.TriageReport{Status: models.StatusRejected, Reason: "No capacity"}
	portal, _ := newPortal(t, stub)

	rec := postJSON(t, portal, "/portal/appointments", map[string]any{
		"patient_name":  "Rahul Mehta",
		"age":           45,
		"symptoms":      "chest pain",
		"patient_email": "rahul@example.com",
		"department":    "Cardiology",
	})
	require.Equal(t, http.StatusOK, rec.Code, "a rejection is a business outcome, not a failure")

	var result struct {
		State   string `json:"state"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "rejected", result.State)
	assert.Equal(t, "No capacity", result.Message)
}

func TestSubmitAppointmentSuccess(t *testing.T) {
	stub := newBackendStub()
	portal, _ := newPortal(t, stub)

	rec := postJSON(t, portal, "/portal/appointments", map[string]any{
		"patient_name":  "Rahul Mehta",
		"age":           45,
		"symptoms":      "chest pain",
		"patient_email": "rahul@example.com",
		"department":    "Cardiology",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		State  string `json:"state"`
		Report struct {
			AssignedDoctorName string `json:"assigned_doctor_name"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "reported", result.State)
	assert.Equal(t, "Dr. Asha Rao", result.Report.AssignedDoctorName)
	assert.Equal(t, 1, stub.count("submit"))
}

func TestSubmitAppointmentInvalidIntakeNeverReachesBackend(t *testing.T) {
	stub := newBackendStub()
	portal, _ := newPortal(t, stub)

	rec := postJSON(t, portal, "/portal/appointments", map[string]any{
		"patient_name":  "Rahul Mehta",
		"age":           0,
		"symptoms":      "chest pain",
		"patient_email": "rahul@example.com",
		"department":    "Cardiology",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a valid age.")
	assert.Equal(t, 0, stub.count("submit"))
}

func TestDoctorDashboardUsesStoredProfileID(t *testing.T) {
	stub := newBackendStub()
	backend := httptest.NewServer(func() http.Handler {
		r := chi.NewRouter()
		r.Get("/doctor/profile/{id}", func(w http.ResponseWriter, req *http.Request) {
			stub.hit("profile/" + chi.URLParam(req, "id"))
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(models.Doctor{ID: chi.URLParam(req, "id"), Name: "Dr. Asha Rao"})
		})
		r.Get("/doctor/appointments/{id}", func(w http.ResponseWriter, req *http.Request) {
			stub.hit("queue/" + chi.URLParam(req, "id"))
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]models.Appointment{})
		})
		return r
	}())
	t.Cleanup(backend.Close)

	store := session.NewMemoryStore()
	portal := Router(gateway.NewClient(backend.URL, store), store)
	require.NoError(t, store.SetCredential(context.Background(), session.RoleDoctor, "doc-tok", models.UserProfile{ID: "doc-1"}))

	rec := getPath(portal, "/portal/doctor/dashboard")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, stub.count("profile/doc-1"))
	assert.Equal(t, 1, stub.count("queue/doc-1"))

	var dash struct {
		Profile struct {
			State string `json:"state"`
		} `json:"profile"`
		TodayCount int `json:"today_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, "loaded", dash.Profile.State)
	assert.Equal(t, 0, dash.TodayCount)

	// The same doctor logging in again gets fresh loaders.
	require.NoError(t, store.SetCredential(context.Background(), session.RoleDoctor, "doc-tok-2", models.UserProfile{ID: "doc-1"}))
	rec = getPath(portal, "/portal/doctor/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, stub.count("profile/doc-1"))
	assert.Equal(t, 2, stub.count("queue/doc-1"))
}

func TestLogoutClearsOnlyTheNamedRole(t *testing.T) {
	portal, store := newPortal(t, newBackendStub())
	ctx := context.Background()

	require.NoError(t, store.SetCredential(ctx, session.RoleDoctor, "doc-tok", models.UserProfile{ID: "doc-1"}))

	rec := postJSON(t, portal, "/portal/admin/logout", map[string]string{})
	require.Equal(t, http.StatusOK, rec.Code)

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotNil(t, snap.Doctor, "logging out the admin leaves the doctor session intact")

	rec = postJSON(t, portal, "/portal/doctor/logout", map[string]string{})
	require.Equal(t, http.StatusOK, rec.Code)

	snap, err = store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Doctor)
}

func TestHealthEndpoints(t *testing.T) {
	portal, _ := newPortal(t, newBackendStub())

	assert.Equal(t, http.StatusOK, getPath(portal, "/healthz").Code)
	assert.Equal(t, http.StatusOK, getPath(portal, "/ready").Code)
}
