package intake

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AppointmentIntake is the patient-entered form. It lives only for the
// lifetime of one submission and is validated entirely client-side
// before any network call. Field order is rule order: the first failing
// rule wins and only one error is shown at a time.
type AppointmentIntake struct {
	PatientName  string `json:"patient_name" validate:"notblank"`
	Age          int    `json:"age" validate:"required,gt=0"`
	Symptoms     string `json:"symptoms" validate:"notblank"`
	PatientEmail string `json:"patient_email" validate:"notblank,intake_email"`
	Department   string `json:"department" validate:"required,oneof=Cardiology Neurology Orthopedics General Pediatrics ENT"`
}

// ValidationError is a local, user-correctable rejection. It never
// escalates and never contacts the server.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate *validator.Validate

// Matches the simple local@domain.tld shape the portal accepts.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("notblank", validateNotBlank)
	validate.RegisterValidation("intake_email", validateEmail)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateEmail(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

// One message per field/rule, worded exactly as the portal shows them.
var fieldMessages = map[string]string{
	"PatientName":               "Patient name is required.",
	"Age":                       "Please enter a valid age.",
	"Symptoms":                  "Please describe symptoms.",
	"PatientEmail/notblank":     "Patient email is required.",
	"PatientEmail/intake_email": "Please enter a valid email address.",
	"Department":                "Please select a valid department.",
}

// Validate checks the intake and returns the first failing rule as a
// ValidationError, or nil.
func Validate(in AppointmentIntake) *ValidationError {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return &ValidationError{Message: "Invalid form data."}
	}

	first := errs[0]
	msg, ok := fieldMessages[first.Field()+"/"+first.Tag()]
	if !ok {
		msg = fieldMessages[first.Field()]
	}
	if msg == "" {
		msg = "Invalid form data."
	}
	return &ValidationError{Message: msg}
}
