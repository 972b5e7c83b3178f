package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/drsayuj/intake-platform/internal/extract"
	"github.com/drsayuj/intake-platform/internal/observability/metrics"
	"github.com/drsayuj/intake-platform/pkg/logging"
)

// ClinicInfo is the practice identity woven into the receptionist prompt.
type ClinicInfo struct {
	DoctorName string
	Phone      string
	OPDHours   string
}

// GeneratedTurn is the untrusted structured object the model returns. Draft is
// partial: only fields the model chose to set are populated, and every value
// is re-validated before it is merged into caller state.
type GeneratedTurn struct {
	Response        string       `json:"response"`
	IsEmergency     bool         `json:"isEmergency"`
	SuggestedAction string       `json:"suggestedAction,omitempty"`
	Draft           BookingDraft `json:"bookingData"`
	NextStep        string       `json:"nextStep,omitempty"`
}

// StructuredGenerator asks the LLM for a JSON turn object with a fixed shape.
type StructuredGenerator struct {
	llm     LLMClient
	clinic  ClinicInfo
	timeout time.Duration
	metrics *metrics.IntakeMetrics
	logger  *logging.Logger
	tracer  trace.Tracer
}

// NewStructuredGenerator wraps an LLM client. The timeout caps every call so a
// stuck upstream resolves into the degrade path instead of hanging the turn.
func NewStructuredGenerator(llm LLMClient, clinic ClinicInfo, timeout time.Duration, m *metrics.IntakeMetrics, logger *logging.Logger) *StructuredGenerator {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &StructuredGenerator{
		llm:     llm,
		clinic:  clinic,
		timeout: timeout,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("intake/conversation"),
	}
}

// Generate produces the structured turn for one message. Any transport,
// timeout or parse failure is returned as an error; the orchestrator decides
// how to degrade.
func (g *StructuredGenerator) Generate(ctx context.Context, req TurnRequest, ents extract.Entities) (*GeneratedTurn, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	ctx, span := g.tracer.Start(ctx, "conversation.generate_turn")
	defer span.End()

	start := time.Now()
	resp, err := g.llm.Complete(ctx, LLMRequest{
		System:      []string{g.systemPrompt(req, ents)},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: req.Message}},
		MaxTokens:   1024,
		Temperature: 0.3,
		ForceJSON:   true,
	})
	elapsed := time.Since(start)
	span.SetAttributes(
		attribute.Float64("intake.llm.latency_ms", float64(elapsed.Milliseconds())),
		attribute.Int("intake.llm.total_tokens", int(resp.Usage.TotalTokens)),
	)
	if err != nil {
		g.metrics.ObserveLLMLatency("generate_turn", "error", elapsed.Seconds())
		return nil, fmt.Errorf("conversation: turn generation failed: %w", err)
	}
	g.metrics.ObserveLLMLatency("generate_turn", "ok", elapsed.Seconds())

	turn, err := parseGeneratedTurn(resp.Text)
	if err != nil {
		g.logger.Warn("conversation: unparseable generator output",
			"error", err,
			"raw", truncate(resp.Text, 256),
		)
		return nil, err
	}
	return turn, nil
}

func (g *StructuredGenerator) systemPrompt(req TurnRequest, ents extract.Entities) string {
	service := req.Service
	if service == "" {
		service = "General Neurosurgery"
	}
	draftJSON, _ := json.MarshalIndent(req.Draft, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, `You are the friendly and professional medical receptionist for %s, a leading neurosurgeon.
Your goal is to help patients book appointments.
Current context: Service page related to %q.

Booking Process Steps:
1. Understand the condition/symptoms.
2. Assess urgency (Ask if they have severe pain if not clear).
3. Get patient details (Name, Phone, Email).
4. Schedule a time (OPD hours: %s).
5. Confirm the request.

Current Booking State:
%s
`, g.clinic.DoctorName, service, g.clinic.OPDHours, draftJSON)

	if ents.Phone != "" || ents.Email != "" || ents.Condition != "" {
		b.WriteString("\nDeterministically extracted from the latest message (use unless the patient corrects them):\n")
		if ents.Phone != "" {
			fmt.Fprintf(&b, "- phone: %s\n", ents.Phone)
		}
		if ents.Email != "" {
			fmt.Fprintf(&b, "- email: %s\n", ents.Email)
		}
		if ents.Condition != "" {
			fmt.Fprintf(&b, "- condition: %s\n", ents.Condition)
		}
	}

	b.WriteString(`
Respond with a single JSON object of this exact shape:
{
  "response": "polite, professional reply, under 50 words",
  "isEmergency": false,
  "suggestedAction": "optional action",
  "bookingData": {
    "name": "", "phone": "", "email": "",
    "condition": "brain_tumor|spine_surgery|epilepsy|trigeminal_neuralgia|peripheral_nerve|other",
    "urgency": "routine|urgent|emergency",
    "preferredDate": "", "preferredTime": "",
    "symptoms": [], "previousTreatment": "", "insurance": "",
    "painScore": 0, "mriScanAvailable": false
  },
  "nextStep": "condition|urgency|details|scheduling|confirmation"
}

Instructions:
- Update bookingData with any new information provided; omit fields you have nothing for.
- If the user describes a medical emergency (stroke, paralysis, unconsciousness), set isEmergency=true immediately.
- Be empathetic but efficient.
- If information is missing, ask for it in the response field.
- If a date is mentioned (e.g. "next monday"), normalize it if possible or keep the natural text.
- Determine nextStep based on what is missing.
`)
	return b.String()
}

// parseGeneratedTurn tolerates fenced or prefixed model output by slicing the
// outermost JSON object before unmarshalling.
func parseGeneratedTurn(raw string) (*GeneratedTurn, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start >= 0 && end > start {
			text = text[start : end+1]
		}
	}

	var turn GeneratedTurn
	if err := json.Unmarshal([]byte(text), &turn); err != nil {
		return nil, fmt.Errorf("conversation: generator output parse: %w", err)
	}
	if strings.TrimSpace(turn.Response) == "" {
		return nil, fmt.Errorf("conversation: generator returned empty response text")
	}
	turn.Draft = sanitizeDraft(turn.Draft)
	if turn.NextStep != "" && !validNextStep(turn.NextStep) {
		// Advisory value from an external generator; blank it so the
		// orchestrator recomputes from field completeness.
		turn.NextStep = ""
	}
	return &turn, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
