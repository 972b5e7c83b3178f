package triage

import "strings"

// emergencyKeywords flag symptoms that require immediate medical attention.
// Classification is a plain substring scan so it never depends on an external
// service being up or fast.
var emergencyKeywords = []string{
	"stroke", "seizure", "unconscious", "severe headache", "sudden weakness",
	"paralysis", "loss of vision", "severe neck pain", "trauma", "accident",
	"emergency", "urgent", "critical", "immediate", "can't move", "numbness",
	"confusion", "difficulty speaking", "facial droop", "severe dizziness",
}

// urgentKeywords indicate a condition that should be seen soon but is not an
// immediate emergency.
var urgentKeywords = []string{
	"severe pain", "worsening", "progressive", "new onset", "recent",
	"increasing", "cannot move", "difficulty walking",
}

// IsEmergency reports whether the text contains any emergency keyword,
// case-insensitively.
func IsEmergency(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range emergencyKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// MatchedKeywords returns every emergency keyword present in the text, in the
// fixed keyword order.
func MatchedKeywords(text string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, keyword := range emergencyKeywords {
		if strings.Contains(lower, keyword) {
			matched = append(matched, keyword)
		}
	}
	return matched
}

func hasUrgentKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range urgentKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
