// Package booking validates finished appointment requests and pushes them
// through persistence and the notification fan-out.
package booking

import (
	"time"

	"github.com/google/uuid"
)

// Allowed gender values, lowercased.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// ValidatedBooking is a fully validated appointment request. It is constructed
// only by ParseBooking and never mutated afterwards; downstream channels read
// it as-is.
type ValidatedBooking struct {
	PatientName      string `json:"patientName"`
	Age              int    `json:"age"`
	Gender           string `json:"gender"`
	AppointmentDate  string `json:"appointmentDate"`
	AppointmentTime  string `json:"appointmentTime"`
	Reason           string `json:"reason"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	PainScore        *int   `json:"painScore,omitempty"`
	MRIScanAvailable *bool  `json:"mriScanAvailable,omitempty"`
}

// ValidationError is a caller mistake: a missing, malformed or out-of-range
// field. The message names the offending concept so client-side forms can
// target the right input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// AppointmentRecord is the persisted shape of a booking.
type AppointmentRecord struct {
	ID                  uuid.UUID
	PatientName         string
	Age                 int
	Gender              string
	AppointmentDate     string
	AppointmentTime     string
	Reason              string
	Email               string
	Phone               string
	PainScore           *int
	MRIScanAvailable    *bool
	ConfirmationMessage string
	UsedAIConfirmation  bool
	Source              string
	CreatedAt           time.Time
}

// NotificationOutcome records how one fan-out channel fared. Failures are
// internal detail: they are logged and counted but never fail the request
// once the booking is persisted.
type NotificationOutcome struct {
	Channel string
	Err     error
}
