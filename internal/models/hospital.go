package models

// Departments the coordination system triages into.
var Departments = []string{
	"Cardiology",
	"Neurology",
	"Orthopedics",
	"General",
	"Pediatrics",
	"ENT",
}

// Doctor is one row of the workload listing (GET /doctors).
type Doctor struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Department          string  `json:"department"`
	DailyCapacity       int     `json:"daily_capacity"`
	CurrentAppointments int     `json:"current_appointments"`
	WorkloadPercent     float64 `json:"workload_percent"`
	IsAvailable         bool    `json:"is_available"`
}

// Appointment is one row of the appointment listings.
type Appointment struct {
	ID                   string  `json:"id"`
	PatientName          string  `json:"patient_name"`
	Age                  int     `json:"age"`
	Symptoms             string  `json:"symptoms"`
	Department           string  `json:"department"`
	SeverityScore        float64 `json:"severity_score"`
	Emergency            int     `json:"emergency"`
	AssignedDoctorID     string  `json:"assigned_doctor_id,omitempty"`
	AssignedDoctorName   string  `json:"assigned_doctor_name"`
	PredictedWaitMinutes int     `json:"predicted_wait_minutes"`
	Status               string  `json:"status"`
	CreatedAt            string  `json:"created_at"`
}

// AdminStats are the aggregate counters from GET /admin/stats.
type AdminStats struct {
	TotalDoctors      int     `json:"total_doctors"`
	TotalAppointments int     `json:"total_appointments"`
	EmergencyCases    int     `json:"emergency_cases"`
	AvgWorkload       float64 `json:"avg_workload"`
}

// RegisterDoctorRequest is the admin-issued doctor registration payload.
type RegisterDoctorRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Department    string `json:"department" validate:"required"`
	DailyCapacity int    `json:"daily_capacity" validate:"required,gt=0"`
	Password      string `json:"password" validate:"required,min=6"`
}

// RegisterDoctorResponse is returned by POST /admin/register-doctor.
type RegisterDoctorResponse struct {
	Success  bool   `json:"success"`
	DoctorID string `json:"doctor_id"`
	Message  string `json:"message"`
}
