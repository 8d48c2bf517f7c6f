package models

// StatusRejected marks a triage response the server processed but
// declined on business grounds (no doctor available, no bed). It
// arrives with a 2xx transport status and must not be confused with a
// transport failure.
const StatusRejected = "rejected"

// TriageReport is the server's result for one submitted intake: either
// an acceptance carrying assignment details or a rejection carrying a
// human-readable reason. Immutable display value, never persisted.
type TriageReport struct {
	AppointmentID        string  `json:"appointment_id,omitempty"`
	PatientName          string  `json:"patient_name,omitempty"`
	Age                  int     `json:"age,omitempty"`
	Symptoms             string  `json:"symptoms,omitempty"`
	Department           string  `json:"department,omitempty"`
	SeverityScore        float64 `json:"severity_score,omitempty"`
	Emergency            int     `json:"emergency,omitempty"`
	AssignedDoctorName   string  `json:"assigned_doctor_name,omitempty"`
	PredictedWaitMinutes int     `json:"predicted_wait_minutes,omitempty"`
	WorkloadPercent      float64 `json:"workload_percent,omitempty"`
	BedType              string  `json:"bed_type,omitempty"`
	Status               string  `json:"status"`
	CreatedAt            string  `json:"created_at,omitempty"`

	// Set when an emergency admission displaced existing bookings.
	RescheduledAppointmentIDs []string `json:"rescheduled_appointment_ids,omitempty"`

	// Only present on rejection.
	Reason string `json:"reason,omitempty"`
}

// Rejected reports whether the server declined to assign a doctor.
func (r *TriageReport) Rejected() bool {
	return r.Status == StatusRejected
}
