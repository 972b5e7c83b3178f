package booking

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var dateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseBooking validates an untyped submission payload into a
// ValidatedBooking. Checks short-circuit on the first violation in a fixed
// order; no partial object is ever returned. age accepts a number or a
// numeric string, every other field is coerced to a trimmed string first.
func ParseBooking(payload map[string]any) (ValidatedBooking, error) {
	if payload == nil {
		return ValidatedBooking{}, validationErr("Invalid body")
	}

	patientName := stringField(payload, "patientName")
	if len(patientName) < 3 {
		return ValidatedBooking{}, validationErr("Patient name is invalid.")
	}

	age, ok := numericField(payload, "age")
	if !ok || age <= 0 || age > 120 {
		return ValidatedBooking{}, validationErr("Age must be a valid number.")
	}

	gender := strings.ToLower(stringField(payload, "gender"))
	switch gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		return ValidatedBooking{}, validationErr("Gender is invalid.")
	}

	appointmentDate := stringField(payload, "appointmentDate")
	if !dateRE.MatchString(appointmentDate) {
		return ValidatedBooking{}, validationErr("Appointment date is invalid.")
	}

	appointmentTime := stringField(payload, "appointmentTime")
	if appointmentTime == "" {
		return ValidatedBooking{}, validationErr("Appointment time is required.")
	}

	reason := stringField(payload, "reason")
	if len(reason) < 10 {
		return ValidatedBooking{}, validationErr("Reason must be at least 10 characters.")
	}

	booking := ValidatedBooking{
		PatientName:     patientName,
		Age:             age,
		Gender:          gender,
		AppointmentDate: appointmentDate,
		AppointmentTime: appointmentTime,
		Reason:          reason,
		Email:           stringField(payload, "email"),
		Phone:           stringField(payload, "phone"),
	}

	if raw, present := payload["painScore"]; present && raw != nil {
		score, ok := intValue(raw)
		if !ok || score < 1 || score > 10 {
			return ValidatedBooking{}, validationErr("Pain score must be between 1 and 10.")
		}
		booking.PainScore = &score
	}

	if raw, present := payload["mriScanAvailable"]; present && raw != nil {
		if b, ok := raw.(bool); ok {
			booking.MRIScanAvailable = &b
		}
	}

	return booking, nil
}

func stringField(payload map[string]any, key string) string {
	raw, ok := payload[key]
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// numericField accepts JSON numbers and numeric strings, rejecting
// non-integral values.
func numericField(payload map[string]any, key string) (int, bool) {
	raw, ok := payload[key]
	if !ok || raw == nil {
		return 0, false
	}
	return intValue(raw)
}

func intValue(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
