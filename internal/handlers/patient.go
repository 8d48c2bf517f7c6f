package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aarogyalekha/hospital-portal/internal/intake"
	"github.com/aarogyalekha/hospital-portal/internal/models"
	"github.com/rs/zerolog/log"
)

// PatientHandler drives the appointment submission flow. The intake
// endpoint is unscoped: the gateway still attaches an operator
// credential if one happens to be open, without this handler knowing
// which role is logged in.
type PatientHandler struct {
	flow *intake.Flow
}

// NewPatientHandler creates the intake surface.
func NewPatientHandler(flow *intake.Flow) *PatientHandler {
	return &PatientHandler{flow: flow}
}

type intakeResult struct {
	State   intake.State         `json:"state"`
	Message string               `json:"message,omitempty"`
	Report  *models.TriageReport `json:"report,omitempty"`
}

// SubmitAppointment validates and submits one intake. A domain
// rejection comes back 200 with state "rejected" — an expected business
// outcome, not a failure.
func (h *PatientHandler) SubmitAppointment(w http.ResponseWriter, r *http.Request) {
	var in intake.AppointmentIntake
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Each HTTP submission is a fresh form interaction.
	h.flow.FieldChanged()

	report, err := h.flow.Submit(r.Context(), in)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, intakeResult{
			State:   h.flow.State(),
			Message: h.flow.Message(),
			Report:  report,
		})
	case errors.Is(err, intake.ErrSubmissionInFlight):
		writeError(w, http.StatusConflict, "A submission is already in progress.")
	default:
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Message)
			return
		}
		log.Warn().Err(err).Msg("Appointment submission failed")
		writeJSON(w, http.StatusBadGateway, intakeResult{
			State:   h.flow.State(),
			Message: h.flow.Message(),
		})
	}
}
