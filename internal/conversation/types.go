package conversation

import "strings"

// Condition categories the booking flow understands.
const (
	ConditionBrainTumor      = "brain_tumor"
	ConditionSpineSurgery    = "spine_surgery"
	ConditionEpilepsy        = "epilepsy"
	ConditionTrigeminal      = "trigeminal_neuralgia"
	ConditionPeripheralNerve = "peripheral_nerve"
	ConditionOther           = "other"
)

// Urgency levels.
const (
	UrgencyRoutine   = "routine"
	UrgencyUrgent    = "urgent"
	UrgencyEmergency = "emergency"
)

// Next steps in the booking flow. The generator may suggest one, but the
// orchestrator treats it as advisory and recomputes from draft completeness
// when the value is missing or unrecognized.
const (
	StepCondition    = "condition"
	StepUrgency      = "urgency"
	StepDetails      = "details"
	StepScheduling   = "scheduling"
	StepConfirmation = "confirmation"
)

// BookingDraft is the caller-owned, conversation-scoped booking state. It is
// passed in with every turn and returned updated; the server keeps no session.
type BookingDraft struct {
	Name              string   `json:"name,omitempty"`
	Phone             string   `json:"phone,omitempty"`
	Email             string   `json:"email,omitempty"`
	Condition         string   `json:"condition,omitempty"`
	Urgency           string   `json:"urgency,omitempty"`
	PreferredDate     string   `json:"preferredDate,omitempty"`
	PreferredTime     string   `json:"preferredTime,omitempty"`
	Symptoms          []string `json:"symptoms,omitempty"`
	PreviousTreatment string   `json:"previousTreatment,omitempty"`
	Insurance         string   `json:"insurance,omitempty"`
	PainScore         *int     `json:"painScore,omitempty"`
	MRIScanAvailable  *bool    `json:"mriScanAvailable,omitempty"`
}

// TurnRequest is one inbound conversation turn.
type TurnRequest struct {
	Message  string       `json:"message"`
	Draft    BookingDraft `json:"bookingData"`
	PageSlug string       `json:"pageSlug,omitempty"`
	Service  string       `json:"service,omitempty"`
	ThreadID string       `json:"threadId,omitempty"`
}

// TurnResult is what a processed turn returns to the caller.
type TurnResult struct {
	ResponseText    string       `json:"response"`
	IsEmergency     bool         `json:"isEmergency"`
	SuggestedAction string       `json:"suggestedAction,omitempty"`
	UpdatedDraft    BookingDraft `json:"bookingData"`
	NextStep        string       `json:"nextStep,omitempty"`
}

func validCondition(c string) bool {
	switch c {
	case ConditionBrainTumor, ConditionSpineSurgery, ConditionEpilepsy,
		ConditionTrigeminal, ConditionPeripheralNerve, ConditionOther:
		return true
	}
	return false
}

func validUrgency(u string) bool {
	switch u {
	case UrgencyRoutine, UrgencyUrgent, UrgencyEmergency:
		return true
	}
	return false
}

func validNextStep(s string) bool {
	switch s {
	case StepCondition, StepUrgency, StepDetails, StepScheduling, StepConfirmation:
		return true
	}
	return false
}

// NextStepFor applies the fixed slot-filling precedence: safety-relevant
// fields are asked for before identifying details, details before scheduling.
func NextStepFor(d BookingDraft) string {
	switch {
	case d.Condition == "":
		return StepCondition
	case d.Urgency == "" || d.PainScore == nil || d.MRIScanAvailable == nil:
		return StepUrgency
	case d.Name == "" || d.Phone == "" || d.Email == "":
		return StepDetails
	case d.PreferredDate == "" || d.PreferredTime == "":
		return StepScheduling
	default:
		return StepConfirmation
	}
}

// sanitizeDraft drops enum and range violations from an untrusted partial
// draft so that the merge never writes an invalid value into caller state.
func sanitizeDraft(d BookingDraft) BookingDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.TrimSpace(d.Email)
	d.Condition = strings.ToLower(strings.TrimSpace(d.Condition))
	d.Urgency = strings.ToLower(strings.TrimSpace(d.Urgency))
	if d.Condition != "" && !validCondition(d.Condition) {
		d.Condition = ConditionOther
	}
	if d.Urgency != "" && !validUrgency(d.Urgency) {
		d.Urgency = ""
	}
	if d.PainScore != nil && (*d.PainScore < 1 || *d.PainScore > 10) {
		d.PainScore = nil
	}
	cleaned := d.Symptoms[:0]
	for _, s := range d.Symptoms {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	d.Symptoms = cleaned
	if len(d.Symptoms) == 0 {
		d.Symptoms = nil
	}
	return d
}
