package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aarogyalekha/hospital-portal/internal/models"
	"github.com/aarogyalekha/hospital-portal/internal/session"
)

// AdminLogin authenticates an administrator and, on success, writes the
// admin credential. The store drops any lingering doctor credential as
// part of the write.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.Send(ctx, http.MethodPost, "/admin/login", req, &resp); err != nil {
		return nil, err
	}
	if err := c.sessions.SetCredential(ctx, session.RoleAdmin, resp.Token, resp.User); err != nil {
		return nil, fmt.Errorf("failed to store admin credential: %w", err)
	}
	return &resp, nil
}

// DoctorLogin authenticates a doctor and, on success, writes the doctor
// credential, dropping any lingering admin credential.
func (c *Client) DoctorLogin(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.Send(ctx, http.MethodPost, "/doctor/login", req, &resp); err != nil {
		return nil, err
	}
	if err := c.sessions.SetCredential(ctx, session.RoleDoctor, resp.Token, resp.User); err != nil {
		return nil, fmt.Errorf("failed to store doctor credential: %w", err)
	}
	return &resp, nil
}

// ResetPassword asks the server to mail a temporary password.
func (c *Client) ResetPassword(ctx context.Context, email string) (*models.ResetPasswordResponse, error) {
	var resp models.ResetPasswordResponse
	req := models.ResetPasswordRequest{Email: email}
	if err := c.Send(ctx, http.MethodPost, "/auth/reset-password", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitAppointment submits a patient intake. A domain rejection (no
// doctor available) comes back as a report with Rejected() true, not as
// an error.
func (c *Client) SubmitAppointment(ctx context.Context, intake any) (*models.TriageReport, error) {
	var report models.TriageReport
	if err := c.Send(ctx, http.MethodPost, "/appointments", intake, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Appointments lists all appointments.
func (c *Client) Appointments(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := c.Send(ctx, http.MethodGet, "/appointments", nil, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// Doctors lists the doctor workload table.
func (c *Client) Doctors(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := c.Send(ctx, http.MethodGet, "/doctors", nil, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// AdminStats fetches the aggregate dashboard counters.
func (c *Client) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := c.Send(ctx, http.MethodGet, "/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RegisterDoctor creates a doctor account (admin-scoped).
func (c *Client) RegisterDoctor(ctx context.Context, req models.RegisterDoctorRequest) (*models.RegisterDoctorResponse, error) {
	var resp models.RegisterDoctorResponse
	if err := c.Send(ctx, http.MethodPost, "/admin/register-doctor", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DoctorProfile fetches a doctor's own profile with current workload.
func (c *Client) DoctorProfile(ctx context.Context, doctorID string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := c.Send(ctx, http.MethodGet, "/doctor/profile/"+doctorID, nil, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// DoctorAppointments fetches a doctor's appointment queue.
func (c *Client) DoctorAppointments(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := c.Send(ctx, http.MethodGet, "/doctor/appointments/"+doctorID, nil, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}
