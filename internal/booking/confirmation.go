package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/drsayuj/intake-platform/internal/conversation"
	"github.com/drsayuj/intake-platform/pkg/logging"
)

// Confirmation is the patient-facing confirmation text plus its provenance.
// UsedAI travels with the persisted record so the audit trail can tell
// AI-authored text from the template.
type Confirmation struct {
	Message string `json:"message"`
	UsedAI  bool   `json:"usedAI"`
}

// ConfirmationGenerator produces the confirmation message for a validated
// booking, preferring a short personalized AI message and falling back to a
// deterministic template on any failure.
type ConfirmationGenerator struct {
	llm     conversation.LLMClient // nil disables the AI path
	timeout time.Duration
	logger  *logging.Logger
}

// NewConfirmationGenerator creates the generator. llm may be nil, in which
// case every booking gets the template message.
func NewConfirmationGenerator(llm conversation.LLMClient, timeout time.Duration, logger *logging.Logger) *ConfirmationGenerator {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &ConfirmationGenerator{
		llm:     llm,
		timeout: timeout,
		logger:  logger,
	}
}

// Generate never returns an error: an AI outage resolves into the template
// with UsedAI=false.
func (g *ConfirmationGenerator) Generate(ctx context.Context, b ValidatedBooking) Confirmation {
	if g == nil || g.llm == nil {
		return Confirmation{Message: fallbackConfirmation(b)}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.llm.Complete(ctx, conversation.LLMRequest{
		System: []string{
			"You write short appointment confirmation messages for a neurosurgery clinic. " +
				"Reply with the message text only, no greeting lines, under 60 words. " +
				"Always remind the patient to bring any MRI/CT scans and mention that the clinic will confirm the slot by phone.",
		},
		Messages: []conversation.ChatMessage{{
			Role: conversation.ChatRoleUser,
			Content: fmt.Sprintf("Patient %s requested an appointment on %s at %s. Reason: %s",
				b.PatientName, b.AppointmentDate, b.AppointmentTime, b.Reason),
		}},
		MaxTokens:   256,
		Temperature: 0.5,
	})
	if err != nil {
		g.logger.Warn("booking: confirmation generation failed, using template", "error", err)
		return Confirmation{Message: fallbackConfirmation(b)}
	}

	message := strings.TrimSpace(resp.Text)
	if message == "" {
		return Confirmation{Message: fallbackConfirmation(b)}
	}
	return Confirmation{Message: message, UsedAI: true}
}

func fallbackConfirmation(b ValidatedBooking) string {
	return fmt.Sprintf("Dear %s, your appointment request for %s has been received. Please bring any MRI/CT scans with you. We will confirm via phone shortly.",
		b.PatientName, b.AppointmentDate)
}
