package booking

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/drsayuj/intake-platform/internal/notify"
	"github.com/drsayuj/intake-platform/internal/triage"
	"github.com/drsayuj/intake-platform/pkg/logging"
)

// EmailService builds and sends the patient confirmation and the admin
// notification for a booking.
type EmailService struct {
	sender     notify.EmailSender
	adminEmail string
	clinicName string
	logger     *logging.Logger
}

// NewEmailService wraps an EmailSender with the booking email templates.
func NewEmailService(sender notify.EmailSender, adminEmail, clinicName string, logger *logging.Logger) *EmailService {
	if logger == nil {
		logger = logging.Default()
	}
	if clinicName == "" {
		clinicName = "Neurosurgery Clinic"
	}
	return &EmailService{
		sender:     sender,
		adminEmail: adminEmail,
		clinicName: clinicName,
		logger:     logger,
	}
}

// SendPatientConfirmation emails the confirmation message to the patient.
// Bookings without an email address report success=false with a reason but
// are not errors.
func (s *EmailService) SendPatientConfirmation(ctx context.Context, b ValidatedBooking, message string) notify.EmailResult {
	if s == nil || s.sender == nil {
		return notify.EmailResult{Error: "email sender not configured"}
	}
	if b.Email == "" {
		return notify.EmailResult{Error: "no patient email on booking"}
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n", b.PatientName)
	body.WriteString(message)
	fmt.Fprintf(&body, "\n\nRequested slot: %s at %s\nReason: %s\n\nWarm regards,\n%s\n",
		b.AppointmentDate, b.AppointmentTime, b.Reason, s.clinicName)

	err := s.sender.Send(ctx, notify.EmailMessage{
		To:      b.Email,
		ToName:  b.PatientName,
		Subject: "Your Appointment Request - " + s.clinicName,
		Body:    body.String(),
		HTML:    confirmationHTML(b, message, s.clinicName),
	})
	if err != nil {
		s.logger.Error("booking: patient confirmation email failed", "error", err)
		return notify.EmailResult{Error: err.Error()}
	}
	return notify.EmailResult{Success: true}
}

// SendAdminNotification emails the full booking details to the clinic inbox,
// annotated with the urgency assessment so staff can prioritize callbacks.
func (s *EmailService) SendAdminNotification(ctx context.Context, b ValidatedBooking, source string, assessment triage.Result) notify.EmailResult {
	if s == nil || s.sender == nil {
		return notify.EmailResult{Error: "email sender not configured"}
	}
	if s.adminEmail == "" {
		return notify.EmailResult{Error: "no admin email configured"}
	}
	if source == "" {
		source = "website"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "New appointment request (%s)\n\n", source)
	fmt.Fprintf(&body, "Patient: %s\nAge: %d\nGender: %s\n", b.PatientName, b.Age, b.Gender)
	fmt.Fprintf(&body, "Date: %s\nTime: %s\nReason: %s\n", b.AppointmentDate, b.AppointmentTime, b.Reason)
	if b.Phone != "" {
		fmt.Fprintf(&body, "Phone: %s\n", b.Phone)
	}
	if b.Email != "" {
		fmt.Fprintf(&body, "Email: %s\n", b.Email)
	}
	if b.PainScore != nil {
		fmt.Fprintf(&body, "Pain score: %d/10\n", *b.PainScore)
	}
	if b.MRIScanAvailable != nil {
		fmt.Fprintf(&body, "MRI scan available: %t\n", *b.MRIScanAvailable)
	}
	fmt.Fprintf(&body, "\nUrgency: %s (%d/100)\n", assessment.UrgencyLevel, assessment.UrgencyScore)
	fmt.Fprintf(&body, "Recommended action: %s\n", assessment.RecommendedAction)
	fmt.Fprintf(&body, "Time to seek care: %s\n", assessment.TimeToSeekCare)

	err := s.sender.Send(ctx, notify.EmailMessage{
		To:      s.adminEmail,
		ToName:  s.clinicName,
		Subject: fmt.Sprintf("New Appointment Request: %s (%s)", b.PatientName, b.AppointmentDate),
		Body:    body.String(),
	})
	if err != nil {
		s.logger.Error("booking: admin notification email failed", "error", err)
		return notify.EmailResult{Error: err.Error()}
	}
	return notify.EmailResult{Success: true}
}

func confirmationHTML(b ValidatedBooking, message, clinicName string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px;">
<h2>Appointment Request Received</h2>
<p>Dear %s,</p>
<p>%s</p>
<table cellpadding="6" style="border-collapse: collapse;">
<tr><td><strong>Date</strong></td><td>%s</td></tr>
<tr><td><strong>Time</strong></td><td>%s</td></tr>
<tr><td><strong>Reason</strong></td><td>%s</td></tr>
</table>
<p>Warm regards,<br>%s</p>
</div>`,
		html.EscapeString(b.PatientName),
		html.EscapeString(message),
		html.EscapeString(b.AppointmentDate),
		html.EscapeString(b.AppointmentTime),
		html.EscapeString(b.Reason),
		html.EscapeString(clinicName),
	)
}
