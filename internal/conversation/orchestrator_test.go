package conversation

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/drsayuj/intake-platform/internal/extract"
)

type stubGenerator struct {
	turn  *GeneratedTurn
	err   error
	calls int
}

func (s *stubGenerator) Generate(ctx context.Context, req TurnRequest, ents extract.Entities) (*GeneratedTurn, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.turn, nil
}

func testClinic() ClinicInfo {
	return ClinicInfo{
		DoctorName: "Dr. Sayuj Krishnan",
		Phone:      "+91-9778280044",
		OPDHours:   "Mon-Sat 9am-5pm",
	}
}

func TestProcessTurnEmergencySkipsGenerator(t *testing.T) {
	gen := &stubGenerator{turn: &GeneratedTurn{Response: "should not be used"}}
	o := NewOrchestrator(gen, testClinic(), nil, nil)

	result := o.ProcessTurn(context.Background(), TurnRequest{
		Message: "I can't move my left arm and my speech is slurred",
		Draft:   BookingDraft{Name: "Ravi"},
	})

	if gen.calls != 0 {
		t.Fatalf("generator called %d times on emergency turn, want 0", gen.calls)
	}
	if !result.IsEmergency {
		t.Fatal("expected isEmergency=true")
	}
	if !strings.Contains(result.ResponseText, "+91-9778280044") {
		t.Errorf("emergency response missing hotline: %q", result.ResponseText)
	}
	if result.SuggestedAction != "Call emergency hotline immediately" {
		t.Errorf("suggestedAction = %q", result.SuggestedAction)
	}
	if result.UpdatedDraft.Urgency != UrgencyEmergency {
		t.Errorf("urgency = %q, want emergency", result.UpdatedDraft.Urgency)
	}
	if result.UpdatedDraft.Name != "Ravi" {
		t.Errorf("prior draft field lost: name = %q", result.UpdatedDraft.Name)
	}
}

func TestProcessTurnEmergencyStillExtractsEntities(t *testing.T) {
	o := NewOrchestrator(&stubGenerator{}, testClinic(), nil, nil)

	result := o.ProcessTurn(context.Background(), TurnRequest{
		Message: "stroke symptoms, call me on 9845012345",
	})

	if result.UpdatedDraft.Phone != "9845012345" {
		t.Errorf("phone = %q, want extracted number", result.UpdatedDraft.Phone)
	}
}

func TestProcessTurnGeneratorFailureDegrades(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream timeout")}
	o := NewOrchestrator(gen, testClinic(), nil, nil)

	prior := BookingDraft{
		Name:      "Meena",
		Condition: ConditionSpineSurgery,
		Symptoms:  []string{"lower back pain", "tingling in left leg"},
	}
	result := o.ProcessTurn(context.Background(), TurnRequest{
		Message: "I would like to book for next week",
		Draft:   prior,
	})

	if !reflect.DeepEqual(result.UpdatedDraft, prior) {
		t.Errorf("draft changed on degrade: %+v", result.UpdatedDraft)
	}
	if result.NextStep != StepDetails {
		t.Errorf("nextStep = %q, want %q", result.NextStep, StepDetails)
	}
	if !strings.Contains(result.ResponseText, "+91-9778280044") {
		t.Errorf("degraded response missing phone: %q", result.ResponseText)
	}
	if result.IsEmergency {
		t.Error("degraded turn must not be flagged as emergency")
	}
}

func TestProcessTurnMergesRegexWhenGeneratorOmitsPhone(t *testing.T) {
	gen := &stubGenerator{turn: &GeneratedTurn{
		Response: "Thanks, noted your number.",
		Draft:    BookingDraft{Name: "Anand"},
	}}
	o := NewOrchestrator(gen, testClinic(), nil, nil)

	result := o.ProcessTurn(context.Background(), TurnRequest{
		Message: "I am Anand, my number is +919876543210",
	})

	if result.UpdatedDraft.Phone != "+919876543210" {
		t.Errorf("phone = %q, want regex-extracted value", result.UpdatedDraft.Phone)
	}
	if result.UpdatedDraft.Name != "Anand" {
		t.Errorf("name = %q", result.UpdatedDraft.Name)
	}
}

func TestProcessTurnGeneratorValueWinsOverRegex(t *testing.T) {
	gen := &stubGenerator{turn: &GeneratedTurn{
		Response: "Got it.",
		Draft:    BookingDraft{Email: "corrected@example.com"},
	}}
	o := NewOrchestrator(gen, testClinic(), nil, nil)

	result := o.ProcessTurn(context.Background(), TurnRequest{
		Message: "actually use corrected@example.com not old@example.com",
	})

	if result.UpdatedDraft.Email != "corrected@example.com" {
		t.Errorf("email = %q, want generator value", result.UpdatedDraft.Email)
	}
}

func TestProcessTurnEmergencyUrgencyNeverDowngraded(t *testing.T) {
	gen := &stubGenerator{turn: &GeneratedTurn{
		Response: "Noted, sounds routine.",
		Draft:    BookingDraft{Urgency: UrgencyRoutine},
	}}
	o := NewOrchestrator(gen, testClinic(), nil, nil)

	result := o.ProcessTurn(context.Background(), TurnRequest{
		Message: "feeling a bit better today",
		Draft:   BookingDraft{Urgency: UrgencyEmergency},
	})

	if result.UpdatedDraft.Urgency != UrgencyEmergency {
		t.Errorf("urgency = %q, emergency must be sticky", result.UpdatedDraft.Urgency)
	}
}

func TestProcessTurnRecomputesNextStepWhenGeneratorSilent(t *testing.T) {
	gen := &stubGenerator{turn: &GeneratedTurn{
		Response: "What brings you in?",
	}}
	o := NewOrchestrator(gen, testClinic(), nil, nil)

	result := o.ProcessTurn(context.Background(), TurnRequest{Message: "hello"})

	if result.NextStep != StepCondition {
		t.Errorf("nextStep = %q, want %q", result.NextStep, StepCondition)
	}
}

func TestProcessTurnNoGeneratorUsesRuleBasedFlow(t *testing.T) {
	o := NewOrchestrator(nil, testClinic(), nil, nil)

	result := o.ProcessTurn(context.Background(), TurnRequest{Message: "hi there"})

	if result.NextStep != StepCondition {
		t.Errorf("nextStep = %q, want %q", result.NextStep, StepCondition)
	}
	if !strings.Contains(result.ResponseText, "Dr. Sayuj Krishnan") {
		t.Errorf("rule-based opener missing doctor name: %q", result.ResponseText)
	}
}

func TestMergeGeneratedPrecedence(t *testing.T) {
	prior := BookingDraft{Phone: "9111111111", Condition: ConditionEpilepsy}
	ents := extract.Entities{Phone: "9222222222"}
	ai := BookingDraft{Phone: "9333333333"}

	merged := mergeGenerated(prior, ents, ai)
	if merged.Phone != "9333333333" {
		t.Errorf("phone = %q, want generator tier", merged.Phone)
	}

	merged = mergeGenerated(prior, ents, BookingDraft{})
	if merged.Phone != "9222222222" {
		t.Errorf("phone = %q, want extractor tier", merged.Phone)
	}

	merged = mergeGenerated(prior, extract.Entities{}, BookingDraft{})
	if merged.Phone != "9111111111" {
		t.Errorf("phone = %q, want prior tier", merged.Phone)
	}
	if merged.Condition != ConditionEpilepsy {
		t.Errorf("condition = %q, want prior retained", merged.Condition)
	}
}
