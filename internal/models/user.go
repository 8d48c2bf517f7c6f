package models

// UserProfile is the profile snapshot returned by a login call. The
// client never validates it; it is stored alongside the token and used
// only for display and for resolving a doctor's own ID on later queries.
type UserProfile struct {
	ID                  string `json:"id"`
	Username            string `json:"username,omitempty"`
	Name                string `json:"name,omitempty"`
	Email               string `json:"email,omitempty"`
	Role                string `json:"role,omitempty"`
	Department          string `json:"department,omitempty"`
	DailyCapacity       int    `json:"daily_capacity,omitempty"`
	CurrentAppointments int    `json:"current_appointments,omitempty"`
	IsAvailable         bool   `json:"is_available,omitempty"`
}

// LoginRequest carries admin credentials (username) or doctor
// credentials (email), matching the two login endpoints.
type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /admin/login and POST /doctor/login.
type LoginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    UserProfile `json:"user"`
}

// ResetPasswordRequest asks the server to issue a temporary password.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordResponse carries the server's confirmation message.
type ResetPasswordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
