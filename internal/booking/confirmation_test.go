package booking

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/drsayuj/intake-platform/internal/conversation"
)

type stubLLM struct {
	text string
	err  error
}

func (s *stubLLM) Complete(ctx context.Context, req conversation.LLMRequest) (conversation.LLMResponse, error) {
	if s.err != nil {
		return conversation.LLMResponse{}, s.err
	}
	return conversation.LLMResponse{Text: s.text}, nil
}

func testBooking() ValidatedBooking {
	return ValidatedBooking{
		PatientName:     "Test Patient",
		AppointmentDate: "2026-09-25",
		AppointmentTime: "10:00 AM",
		Reason:          "Persistent back pain checking neurosurgeon availability",
	}
}

func TestConfirmationUsesAIWhenAvailable(t *testing.T) {
	g := NewConfirmationGenerator(&stubLLM{text: "See you on the 25th. Bring your MRI scans."}, 0, nil)

	c := g.Generate(context.Background(), testBooking())
	if !c.UsedAI {
		t.Error("expected usedAI=true")
	}
	if c.Message != "See you on the 25th. Bring your MRI scans." {
		t.Errorf("message = %q", c.Message)
	}
}

func TestConfirmationFallsBackOnError(t *testing.T) {
	g := NewConfirmationGenerator(&stubLLM{err: errors.New("quota exceeded")}, 0, nil)

	c := g.Generate(context.Background(), testBooking())
	if c.UsedAI {
		t.Error("expected usedAI=false on AI failure")
	}
	if !strings.Contains(c.Message, "Test Patient") || !strings.Contains(c.Message, "2026-09-25") {
		t.Errorf("template should carry name and date: %q", c.Message)
	}
	if !strings.Contains(c.Message, "MRI/CT") {
		t.Errorf("template missing scan reminder: %q", c.Message)
	}
}

func TestConfirmationFallsBackOnEmptyText(t *testing.T) {
	g := NewConfirmationGenerator(&stubLLM{text: "   "}, 0, nil)

	c := g.Generate(context.Background(), testBooking())
	if c.UsedAI {
		t.Error("blank AI output must not count as AI-authored")
	}
}

func TestConfirmationWithoutModel(t *testing.T) {
	g := NewConfirmationGenerator(nil, 0, nil)

	c := g.Generate(context.Background(), testBooking())
	if c.UsedAI {
		t.Error("expected usedAI=false without a model")
	}
	if c.Message == "" {
		t.Error("expected the template message")
	}
}
