package conversation

import (
	"context"
	"fmt"

	"github.com/drsayuj/intake-platform/internal/extract"
	"github.com/drsayuj/intake-platform/internal/observability/metrics"
	"github.com/drsayuj/intake-platform/internal/triage"
	"github.com/drsayuj/intake-platform/pkg/logging"
)

// TurnGenerator produces a structured turn from the AI service. The
// orchestrator only needs this one method; tests stub it.
type TurnGenerator interface {
	Generate(ctx context.Context, req TurnRequest, ents extract.Entities) (*GeneratedTurn, error)
}

// Orchestrator composes the emergency detector, the entity extractor and the
// structured generator into a single turn-processing function. It owns the
// merge policy and the next-step decision.
type Orchestrator struct {
	generator TurnGenerator // nil means rule-based responses only
	clinic    ClinicInfo
	logger    *logging.Logger
	metrics   *metrics.IntakeMetrics
}

// NewOrchestrator creates the turn processor. generator may be nil when no AI
// service is configured; turns then use the deterministic rule-based flow.
func NewOrchestrator(generator TurnGenerator, clinic ClinicInfo, m *metrics.IntakeMetrics, logger *logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{
		generator: generator,
		clinic:    clinic,
		logger:    logger,
		metrics:   m,
	}
}

// ProcessTurn handles one conversation turn. It never returns an error: every
// failure mode resolves into a usable TurnResult so the patient always gets a
// response.
func (o *Orchestrator) ProcessTurn(ctx context.Context, req TurnRequest) TurnResult {
	// Emergency fast path. The AI is never invoked here: classification must
	// not wait on an external service when the message describes a stroke.
	if triage.IsEmergency(req.Message) {
		ents := extract.Extract(req.Message)
		draft := mergeEntities(req.Draft, ents)
		draft.Urgency = UrgencyEmergency

		o.logger.Info("conversation: emergency fast path",
			"keywords", triage.MatchedKeywords(req.Message),
			"page_slug", req.PageSlug,
		)
		o.metrics.ObserveTurn("emergency")
		return TurnResult{
			ResponseText:    o.emergencyResponse(),
			IsEmergency:     true,
			SuggestedAction: "Call emergency hotline immediately",
			UpdatedDraft:    draft,
		}
	}

	ents := extract.Extract(req.Message)

	if o.generator == nil {
		o.metrics.ObserveTurn("rule_based")
		return o.ruleBasedTurn(req, ents)
	}

	turn, err := o.generator.Generate(ctx, req, ents)
	if err != nil {
		// Degrade, never fail the turn: the prior draft is returned untouched
		// and the flow re-asks for identifying details, which is safe to
		// repeat.
		o.logger.Error("conversation: generation failed, degrading", "error", err)
		o.metrics.ObserveTurn("degraded")
		return TurnResult{
			ResponseText: o.degradedResponse(),
			UpdatedDraft: req.Draft,
			NextStep:     StepDetails,
		}
	}

	merged := mergeGenerated(req.Draft, ents, turn.Draft)
	if turn.IsEmergency {
		merged.Urgency = UrgencyEmergency
	}

	nextStep := turn.NextStep
	if nextStep == "" {
		nextStep = NextStepFor(merged)
	}

	o.metrics.ObserveTurn("ai")
	return TurnResult{
		ResponseText:    turn.Response,
		IsEmergency:     turn.IsEmergency,
		SuggestedAction: turn.SuggestedAction,
		UpdatedDraft:    merged,
		NextStep:        nextStep,
	}
}

func (o *Orchestrator) emergencyResponse() string {
	return fmt.Sprintf("🚨 I've detected this may be an emergency situation. Please call our emergency hotline immediately at %s or visit the nearest emergency room. Your safety is our priority. I can still help you book an urgent appointment, but please seek immediate medical attention if needed.", o.clinic.Phone)
}

func (o *Orchestrator) degradedResponse() string {
	return fmt.Sprintf("I apologize, but I'm having trouble processing your request right now. Please call us directly at %s for immediate assistance.", o.clinic.Phone)
}

// mergeEntities fills draft gaps from regex extraction without overwriting
// anything already collected.
func mergeEntities(draft BookingDraft, ents extract.Entities) BookingDraft {
	if draft.Phone == "" {
		draft.Phone = ents.Phone
	}
	if draft.Email == "" {
		draft.Email = ents.Email
	}
	if draft.Condition == "" {
		draft.Condition = ents.Condition
	}
	return draft
}

// mergeGenerated applies the three-tier merge policy. For phone, email and
// condition the precedence is AI value, then regex extraction, then the prior
// draft. For every other field the AI value overwrites when present and the
// prior value is kept otherwise; the regex layer does not extract those.
// Emergency urgency is sticky: once set it is never downgraded in this call.
func mergeGenerated(prior BookingDraft, ents extract.Entities, ai BookingDraft) BookingDraft {
	pick := func(values ...string) string {
		for _, v := range values {
			if v != "" {
				return v
			}
		}
		return ""
	}

	merged := BookingDraft{
		Name:              pick(ai.Name, prior.Name),
		Phone:             pick(ai.Phone, ents.Phone, prior.Phone),
		Email:             pick(ai.Email, ents.Email, prior.Email),
		Condition:         pick(ai.Condition, ents.Condition, prior.Condition),
		Urgency:           pick(ai.Urgency, prior.Urgency),
		PreferredDate:     pick(ai.PreferredDate, prior.PreferredDate),
		PreferredTime:     pick(ai.PreferredTime, prior.PreferredTime),
		PreviousTreatment: pick(ai.PreviousTreatment, prior.PreviousTreatment),
		Insurance:         pick(ai.Insurance, prior.Insurance),
		Symptoms:          prior.Symptoms,
		PainScore:         prior.PainScore,
		MRIScanAvailable:  prior.MRIScanAvailable,
	}
	if len(ai.Symptoms) > 0 {
		merged.Symptoms = ai.Symptoms
	}
	if ai.PainScore != nil {
		merged.PainScore = ai.PainScore
	}
	if ai.MRIScanAvailable != nil {
		merged.MRIScanAvailable = ai.MRIScanAvailable
	}
	if prior.Urgency == UrgencyEmergency {
		merged.Urgency = UrgencyEmergency
	}
	return merged
}
