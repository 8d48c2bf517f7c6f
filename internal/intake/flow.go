// Package intake drives the patient appointment submission: local
// validation, a single in-flight request, and the three ways it can
// end — a triage report, a domain-level rejection, or a transport
// failure. The states are explicit; no flag combination outside them
// is representable.
package intake

import (
	"context"
	"errors"
	"sync"

	"github.com/aarogyalekha/hospital-portal/internal/gateway"
	"github.com/aarogyalekha/hospital-portal/internal/models"
	"github.com/rs/zerolog/log"
)

// State of the submission flow.
type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateReported   State = "reported"
	StateRejected   State = "rejected"
	StateFailed     State = "failed"
)

// ErrSubmissionInFlight means Submit was called while a submission was
// already running; the trigger should be disabled during Submitting.
var ErrSubmissionInFlight = errors.New("intake: submission already in flight")

// RejectionFallbackMessage is shown when a domain rejection arrives
// without a reason.
const RejectionFallbackMessage = "No doctor available. Please try again later."

// Submitter is the gateway surface the flow needs.
type Submitter interface {
	SubmitAppointment(ctx context.Context, intake any) (*models.TriageReport, error)
}

// Flow is one appointment form's state machine. The optional onLoading
// callback mirrors Submitting enter/leave so the caller can disable the
// submit trigger.
type Flow struct {
	mu        sync.Mutex
	state     State
	message   string
	report    *models.TriageReport
	client    Submitter
	onLoading func(bool)
}

// NewFlow creates a flow in Editing. onLoading may be nil.
func NewFlow(client Submitter, onLoading func(bool)) *Flow {
	return &Flow{
		state:     StateEditing,
		client:    client,
		onLoading: onLoading,
	}
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Message returns the displayable validation/rejection/failure message.
func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Report returns the triage report after Reported or Rejected.
func (f *Flow) Report() *models.TriageReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.report
}

// FieldChanged returns any terminal state to Editing and clears the
// message, matching the form becoming editable again on the next
// keystroke.
func (f *Flow) FieldChanged() {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateReported, StateRejected, StateFailed:
		f.transition(StateEditing)
		f.message = ""
		f.report = nil
	case StateEditing:
		f.message = ""
	}
}

// Submit validates the intake and, if it passes, issues exactly one
// request. The returned error is a *ValidationError (no network call
// made), ErrSubmissionInFlight, or the transport error; a domain
// rejection is not an error — check Rejected() on the report.
func (f *Flow) Submit(ctx context.Context, in AppointmentIntake) (*models.TriageReport, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}

	f.transition(StateValidating)
	if verr := Validate(in); verr != nil {
		f.message = verr.Message
		f.transition(StateEditing)
		f.mu.Unlock()
		return nil, verr
	}

	f.transition(StateSubmitting)
	f.mu.Unlock()
	f.setLoading(true)

	report, err := f.client.SubmitAppointment(ctx, in)

	f.setLoading(false)
	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.message = failureMessage(err)
		f.transition(StateFailed)
		return nil, err
	}

	f.report = report
	if report.Rejected() {
		f.message = report.Reason
		if f.message == "" {
			f.message = RejectionFallbackMessage
		}
		f.transition(StateRejected)
		return report, nil
	}

	f.message = ""
	f.transition(StateReported)
	return report, nil
}

// transition is the single place state changes. Callers hold f.mu.
func (f *Flow) transition(next State) {
	log.Debug().
		Str("from", string(f.state)).
		Str("to", string(next)).
		Msg("Intake flow transition")
	f.state = next
}

func (f *Flow) setLoading(loading bool) {
	if f.onLoading != nil {
		f.onLoading(loading)
	}
}

// failureMessage extracts the displayable message of a transport
// failure: the structured validation list if present, then the string
// detail, then a generic fallback.
func failureMessage(err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return gateway.GenericFailureMessage
}
