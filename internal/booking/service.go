package booking

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/drsayuj/intake-platform/internal/crm"
	"github.com/drsayuj/intake-platform/internal/notify"
	"github.com/drsayuj/intake-platform/internal/observability/metrics"
	"github.com/drsayuj/intake-platform/internal/triage"
	"github.com/drsayuj/intake-platform/pkg/logging"
)

// AppointmentStore persists validated bookings.
type AppointmentStore interface {
	Create(ctx context.Context, rec AppointmentRecord) (uuid.UUID, error)
}

// SubmitResult is the successful outcome of a submission.
type SubmitResult struct {
	AppointmentID       uuid.UUID
	Booking             ValidatedBooking
	ConfirmationMessage string
	UsedAI              bool
	EmailResult         notify.EmailResult
	Outcomes            []NotificationOutcome
}

// Service runs a booking submission end to end: validation, confirmation,
// persistence, then the notification fan-out.
type Service struct {
	store    AppointmentStore
	confirm  *ConfirmationGenerator
	emails   *EmailService
	leads    crm.LeadSink // nil skips the CRM channel
	webhooks *WebhookNotifier
	metrics  *metrics.IntakeMetrics
	logger   *logging.Logger
}

// NewService wires the submission pipeline.
func NewService(store AppointmentStore, confirm *ConfirmationGenerator, emails *EmailService, leads crm.LeadSink, webhooks *WebhookNotifier, m *metrics.IntakeMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:    store,
		confirm:  confirm,
		emails:   emails,
		leads:    leads,
		webhooks: webhooks,
		metrics:  m,
		logger:   logger,
	}
}

// Submit processes one submission payload. A *ValidationError return means
// the caller's payload was rejected; any other error is a persistence
// failure. Once the booking is persisted no notification failure is ever
// surfaced: the record existing in the system of record is the success
// criterion.
func (s *Service) Submit(ctx context.Context, payload map[string]any, source string) (*SubmitResult, error) {
	if source == "" {
		source = "website"
	}

	booking, err := ParseBooking(payload)
	if err != nil {
		s.metrics.ObserveSubmission("rejected")
		return nil, err
	}

	confirmation := s.confirm.Generate(ctx, booking)

	id, err := s.store.Create(ctx, AppointmentRecord{
		PatientName:         booking.PatientName,
		Age:                 booking.Age,
		Gender:              booking.Gender,
		AppointmentDate:     booking.AppointmentDate,
		AppointmentTime:     booking.AppointmentTime,
		Reason:              booking.Reason,
		Email:               booking.Email,
		Phone:               booking.Phone,
		PainScore:           booking.PainScore,
		MRIScanAvailable:    booking.MRIScanAvailable,
		ConfirmationMessage: confirmation.Message,
		UsedAIConfirmation:  confirmation.UsedAI,
		Source:              source,
	})
	if err != nil {
		s.metrics.ObserveSubmission("failed")
		return nil, fmt.Errorf("booking: persist submission: %w", err)
	}

	result := &SubmitResult{
		AppointmentID:       id,
		Booking:             booking,
		ConfirmationMessage: confirmation.Message,
		UsedAI:              confirmation.UsedAI,
	}
	result.EmailResult, result.Outcomes = s.dispatchNotifications(ctx, booking, confirmation, source)

	s.metrics.ObserveSubmission("accepted")
	return result, nil
}

// dispatchNotifications runs the awaited channels concurrently, each with its
// own outcome slot, then launches the webhook channel detached. The webhook
// goroutine is deliberately never joined; subscriber latency must not reach
// the requester.
func (s *Service) dispatchNotifications(ctx context.Context, booking ValidatedBooking, confirmation Confirmation, source string) (notify.EmailResult, []NotificationOutcome) {
	// Urgency scoring is offline and infallible, so it is computed up front
	// and the admin email always carries it.
	assessment := triage.Assess(triageRequest(booking))

	outcomes := make([]NotificationOutcome, 4)
	var emailResult notify.EmailResult

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		emailResult = s.emails.SendPatientConfirmation(ctx, booking, confirmation.Message)
		if !emailResult.Success {
			outcomes[0] = NotificationOutcome{Channel: "patient_email", Err: fmt.Errorf("%s", emailResult.Error)}
			return
		}
		outcomes[0] = NotificationOutcome{Channel: "patient_email"}
	}()

	go func() {
		defer wg.Done()
		res := s.emails.SendAdminNotification(ctx, booking, source, assessment)
		outcomes[1] = NotificationOutcome{Channel: "admin_email"}
		if !res.Success {
			outcomes[1].Err = fmt.Errorf("%s", res.Error)
		}
	}()

	go func() {
		defer wg.Done()
		outcomes[2] = NotificationOutcome{Channel: "crm", Err: s.pushLead(ctx, booking, source)}
	}()

	go func() {
		defer wg.Done()
		s.logger.Info("booking: triage assessment",
			"patient_name", booking.PatientName,
			"urgency_level", assessment.UrgencyLevel,
			"urgency_score", assessment.UrgencyScore,
		)
		outcomes[3] = NotificationOutcome{Channel: "triage"}
	}()

	wg.Wait()

	for _, o := range outcomes {
		if o.Err != nil {
			s.logger.Warn("booking: notification channel failed", "channel", o.Channel, "error", o.Err)
			s.metrics.ObserveChannelFailure(o.Channel)
		}
	}

	payload := BuildWebhookPayload(booking, confirmation, emailResult, source)
	webhookCtx := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("booking: webhook dispatch panicked", "panic", rec)
				s.metrics.ObserveChannelFailure("webhook")
			}
		}()
		s.webhooks.Notify(webhookCtx, payload)
	}()

	return emailResult, outcomes
}

func (s *Service) pushLead(ctx context.Context, booking ValidatedBooking, source string) error {
	if s.leads == nil {
		return nil
	}

	concern := booking.Reason
	if len(concern) > 100 {
		concern = concern[:100]
	}
	metadata := map[string]any{
		"age":           booking.Age,
		"gender":        booking.Gender,
		"bookingReason": booking.Reason,
	}
	if booking.PainScore != nil {
		metadata["painScore"] = *booking.PainScore
	}
	if booking.MRIScanAvailable != nil {
		metadata["mriScanAvailable"] = *booking.MRIScanAvailable
	}

	return s.leads.SubmitLead(ctx, crm.Lead{
		FullName:      booking.PatientName,
		Email:         booking.Email,
		Phone:         booking.Phone,
		Concern:       concern,
		PreferredDate: booking.AppointmentDate,
		PreferredTime: booking.AppointmentTime,
		Source:        source,
		Metadata:      metadata,
	})
}

func triageRequest(booking ValidatedBooking) triage.Request {
	req := triage.Request{
		Description: booking.Reason,
		Age:         booking.Age,
	}
	if booking.PainScore != nil {
		req.PainScore = *booking.PainScore
	}
	return req
}
