package triage

import "fmt"

// Request carries what is known about a patient when scoring urgency.
type Request struct {
	Symptoms    []string
	Description string
	Age         int
	PainScore   int // 0 when not reported
}

// Result is a deterministic urgency assessment. It is informational: it never
// gates a booking, it only annotates it for the clinic team.
type Result struct {
	UrgencyLevel      string // emergency, urgent, moderate, routine
	UrgencyScore      int    // 0-100
	RecommendedAction string
	TimeToSeekCare    string
	RiskFactors       []string
	Reasoning         string
}

const (
	LevelEmergency = "emergency"
	LevelUrgent    = "urgent"
	LevelModerate  = "moderate"
	LevelRoutine   = "routine"
)

// Assess scores a patient description with keyword heuristics. No network
// calls: the score must be available even when every upstream service is down.
func Assess(req Request) Result {
	if matched := MatchedKeywords(req.Description); len(matched) > 0 {
		return Result{
			UrgencyLevel:      LevelEmergency,
			UrgencyScore:      95,
			RecommendedAction: "Call emergency services immediately or visit the nearest emergency room.",
			TimeToSeekCare:    "immediately",
			RiskFactors:       []string{"Potential life-threatening condition detected"},
			Reasoning:         fmt.Sprintf("Emergency keywords detected: %v. Immediate medical attention required.", matched),
		}
	}

	score := 30
	var risks []string

	if hasUrgentKeyword(req.Description) {
		score += 30
		risks = append(risks, "Urgent symptom language in description")
	}
	if req.PainScore >= 8 {
		score += 20
		risks = append(risks, fmt.Sprintf("High reported pain score (%d/10)", req.PainScore))
	} else if req.PainScore >= 5 {
		score += 10
	}
	if req.Age >= 65 {
		score += 10
		risks = append(risks, "Age 65 or above")
	}
	if len(req.Symptoms) >= 3 {
		score += 10
		risks = append(risks, "Multiple concurrent symptoms")
	}
	if score > 90 {
		score = 90
	}

	switch {
	case score >= 70:
		return Result{
			UrgencyLevel:      LevelUrgent,
			UrgencyScore:      score,
			RecommendedAction: "Schedule an appointment as soon as possible. Call the clinic to expedite.",
			TimeToSeekCare:    "within 24 hours",
			RiskFactors:       risks,
			Reasoning:         "Multiple urgency indicators in the patient description.",
		}
	case score >= 45:
		return Result{
			UrgencyLevel:      LevelModerate,
			UrgencyScore:      score,
			RecommendedAction: "Book a consultation this week and monitor symptoms.",
			TimeToSeekCare:    "within 1 week",
			RiskFactors:       risks,
			Reasoning:         "Some urgency indicators present; no emergency keywords.",
		}
	default:
		return Result{
			UrgencyLevel:      LevelRoutine,
			UrgencyScore:      score,
			RecommendedAction: "Book a routine consultation at a convenient time.",
			TimeToSeekCare:    "within 2-4 weeks",
			RiskFactors:       risks,
			Reasoning:         "No urgency indicators in the patient description.",
		}
	}
}
