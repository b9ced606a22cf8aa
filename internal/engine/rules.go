package engine

import "strings"

// Mood classifies the tone of a user utterance.
type Mood string

const (
	MoodNeutral    Mood = "neutral"
	MoodFrustrated Mood = "frustrated"
)

// Classification rule tables. Matching is lower-cased substring containment;
// keeping the phrases in one table keeps the policy testable and swappable
// without touching the state machine.
var (
	frustrationPhrases = []string{
		"rude",
		"annoying",
		"not helpful",
		"off-track",
		"what are you talking about",
	}

	vaguePhrases = []string{
		"idk",
		"whatever",
		"you tell me",
		"not sure",
	}
)

const clarifyMessage = "Can you clarify what you're looking for? I want to make sure I give you the best answer."

// DetectMood classifies the utterance against the frustration table.
func DetectMood(text string) Mood {
	if containsAny(text, frustrationPhrases) {
		return MoodFrustrated
	}
	return MoodNeutral
}

// isVague reports whether the utterance is too unclear to send upstream.
func isVague(text string) bool {
	return containsAny(text, vaguePhrases)
}

func containsAny(text string, phrases []string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
