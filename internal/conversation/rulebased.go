package conversation

import (
	"fmt"
	"strings"

	"github.com/drsayuj/intake-platform/internal/extract"
)

// ruleBasedTurn walks the booking flow with fixed copy when no generator is
// configured. It covers the same slots as the AI path, just without natural
// language understanding beyond the regex extractor.
func (o *Orchestrator) ruleBasedTurn(req TurnRequest, ents extract.Entities) TurnResult {
	draft := mergeEntities(req.Draft, ents)

	lower := strings.ToLower(req.Message)
	hasName := draft.Name != "" || strings.Contains(lower, "my name is") || strings.Contains(lower, "i am")

	switch {
	case draft.Condition == "" && !hasName:
		return TurnResult{
			ResponseText: fmt.Sprintf("I'd be happy to help you book an appointment with %s. Could you tell me more about your condition or symptoms? This will help me understand how urgent your appointment should be.", o.clinic.DoctorName),
			UpdatedDraft: draft,
			NextStep:     StepCondition,
		}
	case draft.Urgency == "":
		condition := "your condition"
		if draft.Condition != "" && draft.Condition != ConditionOther {
			condition = strings.ReplaceAll(draft.Condition, "_", " ")
		}
		return TurnResult{
			ResponseText: fmt.Sprintf("I understand you're dealing with %s. How urgent is your condition? Are you experiencing severe pain, or is this for a routine consultation?", condition),
			UpdatedDraft: draft,
			NextStep:     StepUrgency,
		}
	case draft.Phone == "":
		return TurnResult{
			ResponseText: fmt.Sprintf("Thank you. I'll mark this as a %s appointment. Now, could you please provide your name and contact information? I'll need your phone number for confirmation.", draft.Urgency),
			UpdatedDraft: draft,
			NextStep:     StepDetails,
		}
	case draft.PreferredDate == "":
		return TurnResult{
			ResponseText: fmt.Sprintf("Perfect! I have your phone number: %s. When would you prefer to have your appointment? OPD hours are %s. What day works best for you?", draft.Phone, o.clinic.OPDHours),
			UpdatedDraft: draft,
			NextStep:     StepScheduling,
		}
	default:
		return TurnResult{
			ResponseText: o.summaryResponse(draft),
			UpdatedDraft: draft,
			NextStep:     StepConfirmation,
		}
	}
}

func (o *Orchestrator) summaryResponse(draft BookingDraft) string {
	orTBC := func(v string) string {
		if v == "" {
			return "To be confirmed"
		}
		return v
	}
	condition := "To be discussed"
	if draft.Condition != "" {
		condition = strings.ReplaceAll(draft.Condition, "_", " ")
	}
	urgency := draft.Urgency
	if urgency == "" {
		urgency = UrgencyRoutine
	}
	return fmt.Sprintf(`Great! I have all the information I need. Let me summarize your appointment request:

- Name: %s
- Phone: %s
- Condition: %s
- Urgency: %s
- Preferred Date: %s

Our coordinator will call you within one working day to confirm your appointment slot. Is there anything else I can help you with?`,
		orTBC(draft.Name), orTBC(draft.Phone), condition, urgency, orTBC(draft.PreferredDate))
}
