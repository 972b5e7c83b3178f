package booking

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func validPayload() map[string]any {
	return map[string]any{
		"patientName":     "Test Patient",
		"age":             "35",
		"gender":          "male",
		"appointmentDate": "2026-09-25",
		"appointmentTime": "10:00 AM",
		"reason":          "Persistent back pain checking neurosurgeon availability",
	}
}

func TestParseBookingValid(t *testing.T) {
	payload := validPayload()
	payload["painScore"] = float64(7)
	payload["mriScanAvailable"] = true

	b, err := ParseBooking(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.PatientName != "Test Patient" || b.Age != 35 || b.Gender != "male" {
		t.Errorf("parsed booking = %+v", b)
	}
	if b.PainScore == nil || *b.PainScore != 7 {
		t.Errorf("painScore = %v, want 7", b.PainScore)
	}
	if b.MRIScanAvailable == nil || !*b.MRIScanAvailable {
		t.Errorf("mriScanAvailable = %v, want true", b.MRIScanAvailable)
	}
}

func TestParseBookingOptionalFieldsAbsent(t *testing.T) {
	b, err := ParseBooking(validPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.PainScore != nil || b.MRIScanAvailable != nil {
		t.Errorf("optional fields should stay nil: %+v", b)
	}

	// Absent optionals must not appear in the serialized booking either.
	raw, _ := json.Marshal(b)
	if strings.Contains(string(raw), "painScore") || strings.Contains(string(raw), "mriScanAvailable") {
		t.Errorf("absent optionals serialized: %s", raw)
	}
}

func TestParseBookingRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(map[string]any)
		wantMsg string
	}{
		{"short name", func(p map[string]any) { p["patientName"] = "Jo" }, "Patient name is invalid."},
		{"missing name", func(p map[string]any) { delete(p, "patientName") }, "Patient name is invalid."},
		{"non-numeric age", func(p map[string]any) { p["age"] = "abc" }, "Age must be a valid number."},
		{"zero age", func(p map[string]any) { p["age"] = float64(0) }, "Age must be a valid number."},
		{"age too high", func(p map[string]any) { p["age"] = float64(121) }, "Age must be a valid number."},
		{"unknown gender", func(p map[string]any) { p["gender"] = "unknown" }, "Gender is invalid."},
		{"bad date", func(p map[string]any) { p["appointmentDate"] = "25-12-2026" }, "Appointment date is invalid."},
		{"blank time", func(p map[string]any) { p["appointmentTime"] = "   " }, "Appointment time is required."},
		{"short reason", func(p map[string]any) { p["reason"] = "headache" }, "Reason must be at least 10 characters."},
		{"pain score high", func(p map[string]any) { p["painScore"] = float64(11) }, "Pain score must be between 1 and 10."},
		{"pain score zero", func(p map[string]any) { p["painScore"] = float64(0) }, "Pain score must be between 1 and 10."},
		{"pain score fractional", func(p map[string]any) { p["painScore"] = 7.5 }, "Pain score must be between 1 and 10."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := validPayload()
			tc.mutate(payload)

			_, err := ParseBooking(payload)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if ve.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", ve.Message, tc.wantMsg)
			}
		})
	}
}

func TestParseBookingShortCircuitOrder(t *testing.T) {
	// Multiple violations: the name check fires first.
	payload := validPayload()
	payload["patientName"] = "X"
	payload["gender"] = "unknown"
	payload["reason"] = "short"

	_, err := ParseBooking(payload)
	if err == nil || err.Error() != "Patient name is invalid." {
		t.Fatalf("error = %v, want the first violation in order", err)
	}
}

func TestParseBookingCoercion(t *testing.T) {
	// JSON numbers arrive as float64; numeric strings are accepted for age.
	payload := validPayload()
	payload["age"] = float64(42)

	b, err := ParseBooking(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Age != 42 {
		t.Errorf("age = %d, want 42", b.Age)
	}

	payload["age"] = " 63 "
	b, err = ParseBooking(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Age != 63 {
		t.Errorf("age = %d, want 63", b.Age)
	}

	// Gender is case-insensitive and trimmed.
	payload["gender"] = "  Female "
	b, err = ParseBooking(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Gender != GenderFemale {
		t.Errorf("gender = %q", b.Gender)
	}
}
