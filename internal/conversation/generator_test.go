package conversation

import (
	"strings"
	"testing"

	"github.com/drsayuj/intake-platform/internal/extract"
)

func TestParseGeneratedTurnPlainJSON(t *testing.T) {
	raw := `{"response":"Could you share your phone number?","isEmergency":false,"bookingData":{"name":"Asha","condition":"spine_surgery"},"nextStep":"details"}`

	turn, err := parseGeneratedTurn(raw)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if turn.Response != "Could you share your phone number?" {
		t.Errorf("response = %q", turn.Response)
	}
	if turn.Draft.Name != "Asha" || turn.Draft.Condition != ConditionSpineSurgery {
		t.Errorf("draft = %+v", turn.Draft)
	}
	if turn.NextStep != StepDetails {
		t.Errorf("nextStep = %q", turn.NextStep)
	}
}

func TestParseGeneratedTurnFencedOutput(t *testing.T) {
	raw := "```json\n{\"response\":\"Noted.\",\"bookingData\":{}}\n```"

	turn, err := parseGeneratedTurn(raw)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if turn.Response != "Noted." {
		t.Errorf("response = %q", turn.Response)
	}
}

func TestParseGeneratedTurnLeadingProse(t *testing.T) {
	raw := `Here is the booking update: {"response":"Booked.","bookingData":{"urgency":"urgent"}} hope that helps`

	turn, err := parseGeneratedTurn(raw)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if turn.Draft.Urgency != UrgencyUrgent {
		t.Errorf("urgency = %q", turn.Draft.Urgency)
	}
}

func TestParseGeneratedTurnRejectsEmptyResponse(t *testing.T) {
	if _, err := parseGeneratedTurn(`{"response":"  ","bookingData":{}}`); err == nil {
		t.Fatal("expected error for empty response text")
	}
	if _, err := parseGeneratedTurn("not json at all"); err == nil {
		t.Fatal("expected error for non-JSON output")
	}
}

func TestParseGeneratedTurnSanitizesDraft(t *testing.T) {
	raw := `{"response":"ok","bookingData":{"condition":"Brain Surgery Stuff","urgency":"ASAP","painScore":15,"symptoms":["  ",""]}}`

	turn, err := parseGeneratedTurn(raw)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if turn.Draft.Condition != ConditionOther {
		t.Errorf("unknown condition = %q, want %q", turn.Draft.Condition, ConditionOther)
	}
	if turn.Draft.Urgency != "" {
		t.Errorf("invalid urgency kept: %q", turn.Draft.Urgency)
	}
	if turn.Draft.PainScore != nil {
		t.Errorf("out-of-range pain score kept: %d", *turn.Draft.PainScore)
	}
	if turn.Draft.Symptoms != nil {
		t.Errorf("blank symptoms kept: %v", turn.Draft.Symptoms)
	}
}

func TestParseGeneratedTurnBlanksUnknownNextStep(t *testing.T) {
	turn, err := parseGeneratedTurn(`{"response":"ok","bookingData":{},"nextStep":"teleport"}`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if turn.NextStep != "" {
		t.Errorf("unknown nextStep kept: %q", turn.NextStep)
	}
}

func TestSystemPromptIncludesContext(t *testing.T) {
	g := NewStructuredGenerator(nil, testClinic(), 0, nil, nil)

	prompt := g.systemPrompt(TurnRequest{
		Service: "Spine Surgery",
		Draft:   BookingDraft{Name: "Kiran"},
	}, extract.Entities{Phone: "9876543210"})

	for _, want := range []string{"Dr. Sayuj Krishnan", "Spine Surgery", "Kiran", "9876543210"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
