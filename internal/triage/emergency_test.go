package triage

import "testing"

func TestIsEmergency(t *testing.T) {
	positives := []string{
		"I think my father had a stroke",
		"SEIZURE happening right now",
		"sudden weakness on my left side",
		"she has facial droop and slurred words",
		"Severe Headache since this morning",
		"it feels urgent",
		"numbness in both legs",
	}
	for _, msg := range positives {
		if !IsEmergency(msg) {
			t.Errorf("expected emergency for %q", msg)
		}
	}

	negatives := []string{
		"I want to book an appointment for back pain",
		"my name is Ravi, phone 9876543210",
		"",
		"routine consultation please",
	}
	for _, msg := range negatives {
		if IsEmergency(msg) {
			t.Errorf("expected no emergency for %q", msg)
		}
	}
}

func TestMatchedKeywords_Order(t *testing.T) {
	got := MatchedKeywords("Seizure after the accident, total confusion")
	want := []string{"seizure", "accident", "confusion"}
	if len(got) != len(want) {
		t.Fatalf("matched %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keyword[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAssess_EmergencyShortCircuits(t *testing.T) {
	res := Assess(Request{Description: "sudden weakness and loss of vision"})
	if res.UrgencyLevel != LevelEmergency {
		t.Fatalf("level = %q, want emergency", res.UrgencyLevel)
	}
	if res.UrgencyScore != 95 {
		t.Errorf("score = %d, want 95", res.UrgencyScore)
	}
	if res.TimeToSeekCare != "immediately" {
		t.Errorf("timeToSeekCare = %q", res.TimeToSeekCare)
	}
}

func TestAssess_Heuristics(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "routine",
			req:  Request{Description: "mild back discomfort for years"},
			want: LevelRoutine,
		},
		{
			name: "moderate on pain",
			req:  Request{Description: "back pain", PainScore: 9},
			want: LevelModerate,
		},
		{
			name: "urgent on stacked factors",
			req: Request{
				Description: "worsening leg pain, difficulty walking",
				PainScore:   9,
				Age:         70,
			},
			want: LevelUrgent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(tt.req)
			if got.UrgencyLevel != tt.want {
				t.Errorf("level = %q (score %d), want %q", got.UrgencyLevel, got.UrgencyScore, tt.want)
			}
		})
	}
}

func TestAssess_ScoreNeverExceeds90WithoutEmergency(t *testing.T) {
	res := Assess(Request{
		Description: "worsening progressive severe pain cannot move difficulty walking",
		PainScore:   10,
		Age:         80,
		Symptoms:    []string{"a", "b", "c", "d"},
	})
	if res.UrgencyScore > 90 {
		t.Errorf("score = %d, want <= 90", res.UrgencyScore)
	}
}
