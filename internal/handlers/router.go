package handlers

import (
	"net/http"

	"github.com/aarogyalekha/hospital-portal/internal/gateway"
	"github.com/aarogyalekha/hospital-portal/internal/guard"
	"github.com/aarogyalekha/hospital-portal/internal/intake"
	"github.com/aarogyalekha/hospital-portal/internal/session"
	"github.com/go-chi/chi/v5"
)

// Router assembles the portal's view routes: the public patient
// surface, the two login surfaces, and the two guarded dashboard areas.
// Global middleware (logging, recovery, CORS, metrics) is the caller's
// concern.
func Router(client *gateway.Client, store session.Store) http.Handler {
	authHandler := NewAuthHandler(client, store)
	adminHandler := NewAdminHandler(client, store)
	doctorHandler := NewDoctorHandler(client, store)
	patientHandler := NewPatientHandler(intake.NewFlow(client, nil))
	healthHandler := NewHealthHandler(store)

	r := chi.NewRouter()

	r.Get("/healthz", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/portal", func(r chi.Router) {
		// Public surfaces
		r.Post("/appointments", patientHandler.SubmitAppointment)
		r.Post("/reset-password", authHandler.ResetPassword)
		r.Post("/admin/login", authHandler.AdminLogin)
		r.Post("/doctor/login", authHandler.DoctorLogin)
		r.Post("/admin/logout", authHandler.AdminLogout)
		r.Post("/doctor/logout", authHandler.DoctorLogout)

		// Admin area
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAdmin(store))
			r.Get("/admin/dashboard", adminHandler.Dashboard)
			r.Post("/admin/register-doctor", adminHandler.RegisterDoctor)
		})

		// Doctor area
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireDoctor(store))
			r.Get("/doctor/dashboard", doctorHandler.Dashboard)
		})
	})

	return r
}
