package workflow

import (
	"context"
	"strings"
	"testing"
)

func TestIsConfirmation(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"yes", true},
		{"Yes that works for me", true},
		{"I like option 2", true},
		{"option 3 please", true},
		{"approved", true},
		{"no, not quite", false},
		{"can we try something else", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsConfirmation(tc.text); got != tc.want {
			t.Fatalf("IsConfirmation(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestChosenOption(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"option 1", 1},
		{"I'll take Option 2, thanks", 2},
		{"option 3 looks best", 3},
		{"yes", 0},
	}
	for _, tc := range cases {
		if got := chosenOption(tc.text); got != tc.want {
			t.Fatalf("chosenOption(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestOptionCandidates(t *testing.T) {
	proposal := strings.Join([]string{
		"Here are a few ways to phrase that:",
		"Option 1: Support calls go unanswered.",
		"Option 2: The core issue is unanswered calls.",
		"Option 3) Responsiveness is the core problem.",
		"Reply with the option you like.",
	}, "\n")

	cands := optionCandidates(proposal)
	if len(cands) != 3 {
		t.Fatalf("candidates = %d, want 3: %v", len(cands), cands)
	}
	if cands[1] != "The core issue is unanswered calls." {
		t.Fatalf("candidate 2 = %q", cands[1])
	}
	if cands[2] != "Responsiveness is the core problem." {
		t.Fatalf("candidate 3 = %q", cands[2])
	}

	if got := optionCandidates("just a plain sentence"); got != nil {
		t.Fatalf("plain proposal produced candidates: %v", got)
	}
}

func TestFocusPrompt(t *testing.T) {
	if got := focusPrompt("Define Business Problem"); got != "Let's make sure we define the core business problem clearly." {
		t.Fatalf("focusPrompt = %q", got)
	}
	if got := focusPrompt("Identify Stakeholders"); got != defaultFocusPrompt {
		t.Fatalf("focusPrompt for unmapped step = %q, want default", got)
	}
}

func TestLocalRefinerEnumeratesOptions(t *testing.T) {
	out := LocalRefiner{}.Refine(context.Background(), "Define Business Problem", "", "slow onboarding")
	cands := optionCandidates(out)
	if len(cands) != 3 {
		t.Fatalf("candidates = %d, want 3: %q", len(cands), out)
	}
	if cands[0] != "slow onboarding" {
		t.Fatalf("candidate 1 = %q, want the draft verbatim", cands[0])
	}
	if cands[1] != "The core issue is slow onboarding." {
		t.Fatalf("candidate 2 = %q", cands[1])
	}
}
