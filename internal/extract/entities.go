// Package extract pulls structured contact and condition hints out of free
// patient text. It is deterministic and does no I/O; the conversation layer
// uses it both for prompt context and as a fallback when the AI omits a field.
package extract

import (
	"regexp"
	"strings"
)

// Entities are the fields the regex layer can recover from a single message.
type Entities struct {
	Phone     string
	Email     string
	Condition string
}

var (
	// Indian mobile numbers: optional +91/91 prefix, then [6-9] and nine digits.
	phoneRE = regexp.MustCompile(`(\+91|91)?[6-9]\d{9}`)
	emailRE = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// conditionCategories are tested in this fixed order; the first category with
// a keyword hit wins.
var conditionCategories = []struct {
	name     string
	keywords []string
}{
	{"brain_tumor", []string{"brain tumor", "tumor", "mass", "lesion", "growth"}},
	{"spine_surgery", []string{"back pain", "spine", "disc", "herniated", "sciatica", "stenosis"}},
	{"epilepsy", []string{"seizure", "epilepsy", "convulsion", "fits"}},
	{"trigeminal_neuralgia", []string{"facial pain", "trigeminal", "neuralgia", "jaw pain"}},
	{"peripheral_nerve", []string{"nerve pain", "peripheral", "carpal tunnel", "ulnar"}},
}

// Extract returns the first phone, email and condition category found in the
// text. Absent entities are empty strings.
func Extract(text string) Entities {
	return Entities{
		Phone:     Phone(text),
		Email:     Email(text),
		Condition: Condition(text),
	}
}

// Phone returns the first Indian mobile number in the text, or "".
func Phone(text string) string {
	return phoneRE.FindString(text)
}

// Email returns the first email address in the text, or "".
func Email(text string) string {
	return emailRE.FindString(text)
}

// Condition classifies the text into a known condition category, or "".
func Condition(text string) string {
	lower := strings.ToLower(text)
	for _, cat := range conditionCategories {
		for _, keyword := range cat.keywords {
			if strings.Contains(lower, keyword) {
				return cat.name
			}
		}
	}
	return ""
}
