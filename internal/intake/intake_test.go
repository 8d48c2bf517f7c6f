package intake

import "testing"

func validIntake() AppointmentIntake {
	return AppointmentIntake{
		PatientName:  "Rahul Mehta",
		Age:          45,
		Symptoms:     "chest pain, breathlessness",
		PatientEmail: "rahul@example.com",
		Department:   "Cardiology",
	}
}

func TestValidateAcceptsWellFormedIntake(t *testing.T) {
	if err := Validate(validIntake()); err != nil {
		t.Fatalf("expected valid intake, got %q", err.Message)
	}
}

func TestValidateFirstFailingRuleWins(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppointmentIntake)
		message string
	}{
		{"empty name", func(in *AppointmentIntake) { in.PatientName = "" }, "Patient name is required."},
		{"blank name", func(in *AppointmentIntake) { in.PatientName = "   " }, "Patient name is required."},
		{"zero age", func(in *AppointmentIntake) { in.Age = 0 }, "Please enter a valid age."},
		{"negative age", func(in *AppointmentIntake) { in.Age = -3 }, "Please enter a valid age."},
		{"empty symptoms", func(in *AppointmentIntake) { in.Symptoms = "" }, "Please describe symptoms."},
		{"missing email", func(in *AppointmentIntake) { in.PatientEmail = "" }, "Patient email is required."},
		{"email without domain", func(in *AppointmentIntake) { in.PatientEmail = "rahul@" }, "Please enter a valid email address."},
		{"email without tld", func(in *AppointmentIntake) { in.PatientEmail = "rahul@example" }, "Please enter a valid email address."},
		{"email with spaces", func(in *AppointmentIntake) { in.PatientEmail = "ra hul@example.com" }, "Please enter a valid email address."},
		{"unknown department", func(in *AppointmentIntake) { in.Department = "Dermatology" }, "Please select a valid department."},
		{
			// Name and age both invalid: only the name message shows.
			"name rule beats age rule",
			func(in *AppointmentIntake) { in.PatientName = ""; in.Age = 0 },
			"Patient name is required.",
		},
		{
			"age rule beats email rule",
			func(in *AppointmentIntake) { in.Age = 0; in.PatientEmail = "broken" },
			"Please enter a valid age.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validIntake()
			tt.mutate(&in)

			err := Validate(in)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if err.Message != tt.message {
				t.Fatalf("got message %q, want %q", err.Message, tt.message)
			}
		})
	}
}
