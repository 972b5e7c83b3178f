package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssess(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantLevel string
		minScore  int
	}{
		{
			name:      "emergency keywords dominate everything",
			req:       Request{Description: "sudden weakness and facial droop", Age: 30},
			wantLevel: LevelEmergency,
			minScore:  95,
		},
		{
			name: "urgent language plus high pain",
			req: Request{
				Description: "worsening pain, cannot move my neck",
				PainScore:   9,
			},
			wantLevel: LevelUrgent,
			minScore:  70,
		},
		{
			name: "moderate for elderly with several symptoms",
			req: Request{
				Description: "back pain for two months",
				Age:         70,
				PainScore:   6,
				Symptoms:    []string{"back pain", "tingling", "stiffness"},
			},
			wantLevel: LevelModerate,
			minScore:  45,
		},
		{
			name:      "routine baseline",
			req:       Request{Description: "follow-up consultation for old MRI report", Age: 40},
			wantLevel: LevelRoutine,
		},
		{
			name:      "empty request is routine",
			req:       Request{},
			wantLevel: LevelRoutine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(tt.req)
			assert.Equal(t, tt.wantLevel, got.UrgencyLevel)
			assert.GreaterOrEqual(t, got.UrgencyScore, tt.minScore)
			assert.NotEmpty(t, got.RecommendedAction)
			assert.NotEmpty(t, got.TimeToSeekCare)
		})
	}
}

func TestAssessEmergencyRiskFactors(t *testing.T) {
	got := Assess(Request{Description: "seizure five minutes ago"})
	assert.Equal(t, LevelEmergency, got.UrgencyLevel)
	assert.Contains(t, got.RiskFactors, "Potential life-threatening condition detected")
	assert.Contains(t, got.Reasoning, "seizure")
}

func TestAssessScoreCap(t *testing.T) {
	got := Assess(Request{
		Description: "worsening pain, cannot move, getting progressively worse",
		Age:         80,
		PainScore:   10,
		Symptoms:    []string{"a", "b", "c", "d"},
	})
	assert.Equal(t, LevelUrgent, got.UrgencyLevel)
	assert.LessOrEqual(t, got.UrgencyScore, 90)
}
