package workflow

import (
	"context"
	"fmt"
	"strings"
)

// confirmationPhrases is the commit trigger: their presence anywhere in the
// lower-cased utterance counts as acceptance of the pending proposal.
var confirmationPhrases = []string{
	"yes",
	"that works",
	"i like",
	"option 1",
	"option 2",
	"option 3",
	"approved",
}

// offTopicPhrases redirects distracted users back to the step at hand.
var offTopicPhrases = []string{
	"rude",
	"annoying",
	"not helpful",
	"off-track",
	"what are you talking about",
}

// focusPrompts reaffirms the goal of a step when the user drifts.
var focusPrompts = map[string]string{
	"Define Business Problem": "Let's make sure we define the core business problem clearly.",
	"Set Project Direction":   "Are you ready to set the project direction with a vision statement or OKRs?",
}

const defaultFocusPrompt = "Let's keep moving forward with your project."

// IsConfirmation reports whether the utterance accepts the pending proposal.
// This is substring containment, so longer sentences containing a phrase
// also count.
func IsConfirmation(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, p := range confirmationPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// chosenOption returns the 1-based option number named in a confirmation, or
// 0 when the confirmation does not pick a specific option.
func chosenOption(text string) int {
	lower := strings.ToLower(strings.TrimSpace(text))
	for n := 1; n <= 3; n++ {
		if strings.Contains(lower, fmt.Sprintf("option %d", n)) {
			return n
		}
	}
	return 0
}

func isOffTopic(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, p := range offTopicPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func focusPrompt(stepName string) string {
	if p, ok := focusPrompts[stepName]; ok {
		return p
	}
	return defaultFocusPrompt
}

// optionCandidates parses "Option N: ..." lines out of an assistant
// proposal. It returns nil when the proposal is not enumerated.
func optionCandidates(proposal string) []string {
	var out []string
	for _, line := range strings.Split(proposal, "\n") {
		line = strings.TrimSpace(line)
		rest, ok := cutOptionPrefix(line)
		if !ok {
			continue
		}
		out = append(out, rest)
	}
	return out
}

func cutOptionPrefix(line string) (string, bool) {
	lower := strings.ToLower(line)
	if !strings.HasPrefix(lower, "option ") {
		return "", false
	}
	rest := line[len("option "):]
	if len(rest) < 2 || rest[0] < '1' || rest[0] > '9' {
		return "", false
	}
	rest = rest[1:]
	rest = strings.TrimLeft(rest, ":.)- ")
	if rest == "" {
		return "", false
	}
	return rest, true
}

// Refiner rewrites a user draft into a candidate step value. The composer
// satisfies this with an LLM call; LocalRefiner is the deterministic
// fallback used offline and in tests.
type Refiner interface {
	Refine(ctx context.Context, stepName, description, text string) string
}

// LocalRefiner produces enumerated rephrasings without an LLM.
type LocalRefiner struct{}

func (LocalRefiner) Refine(_ context.Context, stepName, description, text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	fmt.Fprintf(&b, "Here are a few ways to phrase that for %q:\n", stepName)
	fmt.Fprintf(&b, "Option 1: %s\n", text)
	fmt.Fprintf(&b, "Option 2: The core issue is %s.\n", strings.TrimRight(text, "."))
	fmt.Fprintf(&b, "Option 3: This project will address %s.\n", strings.TrimRight(text, "."))
	b.WriteString("Reply with the option you like, or rephrase and we'll iterate.")
	return b.String()
}
