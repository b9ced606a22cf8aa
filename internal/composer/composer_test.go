package composer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stride/internal/gateway/repository/history"
	"stride/internal/llm"
	"stride/internal/schema"
)

type fixedSearcher struct {
	results []string
}

func (f fixedSearcher) Search(string, int) []string { return f.results }

func TestRespondSectionOrder(t *testing.T) {
	fake := llm.NewFakeClient("ok")
	c := New(fake, fixedSearcher{results: []string{"run easy most days"}}, DefaultPersona())

	p := schema.NewProfile("u1")
	p.Name = "Alex"
	entries := []history.Entry{{User: "hi", Bot: "hello"}}

	if got := c.Respond(context.Background(), &p, entries, "how do I pace?"); got != "ok" {
		t.Fatalf("respond = %q, want ok", got)
	}
	if len(fake.Prompts) != 1 {
		t.Fatalf("prompts = %d, want 1", len(fake.Prompts))
	}
	prompt := fake.Prompts[0]

	sections := []string{
		"**ROLE & OBJECTIVE:**",
		"**USER PROFILE:**",
		"**EXAMPLES FROM TRAINING DATA:**",
		"**CHAT HISTORY:**",
		"**CURRENT USER MESSAGE:**",
		"**COACH RESPONSE:**",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(prompt, s)
		if idx < 0 {
			t.Fatalf("prompt missing section %q", s)
		}
		if idx <= last {
			t.Fatalf("section %q out of order", s)
		}
		last = idx
	}

	if !strings.Contains(prompt, "run easy most days") {
		t.Fatalf("prompt missing retrieved snippet")
	}
	if !strings.Contains(prompt, "You: hi\nCoach: hello") {
		t.Fatalf("prompt missing formatted history")
	}
	if !strings.Contains(prompt, "how do I pace?") {
		t.Fatalf("prompt missing current message")
	}
	if !strings.Contains(prompt, `"Alex"`) {
		t.Fatalf("prompt missing serialized profile")
	}
}

func TestRespondNoRetrievalUsesPlaceholder(t *testing.T) {
	fake := llm.NewFakeClient("ok")
	c := New(fake, fixedSearcher{}, DefaultPersona())

	p := schema.NewProfile("u1")
	c.Respond(context.Background(), &p, nil, "anything")

	if !strings.Contains(fake.Prompts[0], NoContextPlaceholder) {
		t.Fatalf("prompt missing %q", NoContextPlaceholder)
	}
	if !strings.Contains(fake.Prompts[0], "(no prior messages)") {
		t.Fatalf("prompt missing empty-history marker")
	}
}

func TestRespondUpstreamFailure(t *testing.T) {
	fake := llm.NewFakeClient("")
	fake.Err = errors.New("timeout")
	c := New(fake, nil, DefaultPersona())

	p := schema.NewProfile("u1")
	if got := c.Respond(context.Background(), &p, nil, "hi"); got != ErrorSentinel {
		t.Fatalf("respond = %q, want %q", got, ErrorSentinel)
	}
}

func TestRespondBlankReply(t *testing.T) {
	fake := llm.NewFakeClient("ok")
	fake.Responses = []string{"   "}
	c := New(fake, nil, DefaultPersona())

	p := schema.NewProfile("u1")
	if got := c.Respond(context.Background(), &p, nil, "hi"); got != NoResponseMessage {
		t.Fatalf("respond = %q, want %q", got, NoResponseMessage)
	}
}

func TestRefineFailureDegrades(t *testing.T) {
	fake := llm.NewFakeClient("")
	fake.Err = errors.New("timeout")
	c := New(fake, nil, DefaultPersona())

	got := c.Refine(context.Background(), "Define Business Problem", "state the problem", "slow onboarding")
	if got != NoResponseMessage {
		t.Fatalf("refine = %q, want %q", got, NoResponseMessage)
	}
}

func TestRefinePromptCarriesStepContext(t *testing.T) {
	fake := llm.NewFakeClient("Option 1: something")
	c := New(fake, nil, DefaultPersona())

	c.Refine(context.Background(), "Define Business Problem", "state the problem", "slow onboarding")
	prompt := fake.Prompts[0]
	if !strings.Contains(prompt, "Workflow step: Define Business Problem") {
		t.Fatalf("prompt missing step name: %q", prompt)
	}
	if !strings.Contains(prompt, "slow onboarding") {
		t.Fatalf("prompt missing user draft")
	}
}

func TestFormatHistory(t *testing.T) {
	entries := []history.Entry{
		{User: "a", Bot: "b"},
		{User: "c", Bot: "d"},
	}
	want := "You: a\nCoach: b\nYou: c\nCoach: d"
	if got := FormatHistory(entries); got != want {
		t.Fatalf("FormatHistory = %q, want %q", got, want)
	}
	if got := FormatHistory(nil); got != "(no prior messages)" {
		t.Fatalf("FormatHistory(nil) = %q", got)
	}
}
