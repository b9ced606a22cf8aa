package composer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"stride/internal/gateway/repository/history"
	llmclient "stride/internal/llmclient"
	"stride/internal/schema"
)

// Sentinel texts returned when the upstream model cannot be reached. They are
// normal responses as far as the rest of the pipeline is concerned: they get
// appended to history and shown to the user.
const (
	ErrorSentinel     = "Error: Unable to get response."
	NoResponseMessage = "No response received"
)

// NoContextPlaceholder keeps the instruction shape stable when retrieval
// finds nothing.
const NoContextPlaceholder = "No relevant data found."

const retrievalTopK = 3

// Searcher is the optional similarity-retrieval collaborator. An empty
// result is valid, not an error.
type Searcher interface {
	Search(query string, topK int) []string
}

// Composer builds the outward-facing instruction for a turn and delegates
// free-text generation to the LLM client.
type Composer struct {
	llm       llmclient.Client
	retrieval Searcher
	persona   Persona
}

func New(client llmclient.Client, retrieval Searcher, persona Persona) *Composer {
	return &Composer{
		llm:       client,
		retrieval: retrieval,
		persona:   persona,
	}
}

// Respond assembles the full coaching instruction and returns the model's
// raw reply. Transport failure degrades to ErrorSentinel; the turn proceeds.
func (c *Composer) Respond(ctx context.Context, p *schema.Profile, entries []history.Entry, message string) string {
	if c == nil || c.llm == nil {
		return ErrorSentinel
	}

	profileText := "{}"
	if p != nil {
		if raw, err := json.MarshalIndent(p, "", "  "); err == nil {
			profileText = string(raw)
		}
	}

	retrieved := NoContextPlaceholder
	if c.retrieval != nil {
		if snippets := c.retrieval.Search(message, retrievalTopK); len(snippets) > 0 {
			retrieved = strings.Join(snippets, "\n")
		}
	}

	var b strings.Builder
	b.WriteString("**ROLE & OBJECTIVE:**\n")
	b.WriteString(c.persona.Role)
	b.WriteString("\n\n**USER PROFILE:**\n")
	b.WriteString(profileText)
	b.WriteString("\n\n**EXAMPLES FROM TRAINING DATA:**\n")
	b.WriteString(retrieved)
	b.WriteString("\n\n**CHAT HISTORY:**\n")
	b.WriteString(FormatHistory(entries))
	b.WriteString("\n\n**CURRENT USER MESSAGE:**\n")
	b.WriteString(message)
	b.WriteString("\n\n**COACH RESPONSE:**\n")
	b.WriteString(c.persona.Reminder)

	reply, err := c.llm.GenerateText(ctx, b.String())
	if err != nil {
		log.Printf("llm response failed (%s): %v", c.llm.Name(), err)
		return ErrorSentinel
	}
	if strings.TrimSpace(reply) == "" {
		return NoResponseMessage
	}
	return reply
}

// Refine asks the model to rewrite a workflow-step draft as enumerated
// candidate phrasings. Failure degrades to NoResponseMessage.
func (c *Composer) Refine(ctx context.Context, stepName, description, text string) string {
	if c == nil || c.llm == nil {
		return NoResponseMessage
	}

	var b strings.Builder
	b.WriteString(c.persona.Refine)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Workflow step: %s\n", stepName)
	if strings.TrimSpace(description) != "" {
		fmt.Fprintf(&b, "Step goal: %s\n", description)
	}
	fmt.Fprintf(&b, "\nUser draft:\n%s\n", text)

	reply, err := c.llm.GenerateText(ctx, b.String())
	if err != nil {
		log.Printf("llm refine failed (%s): %v", c.llm.Name(), err)
		return NoResponseMessage
	}
	if strings.TrimSpace(reply) == "" {
		return NoResponseMessage
	}
	return reply
}

// FormatHistory renders the windowed conversation as alternating lines.
func FormatHistory(entries []history.Entry) string {
	if len(entries) == 0 {
		return "(no prior messages)"
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("You: %s\nCoach: %s", e.User, e.Bot))
	}
	return strings.Join(lines, "\n")
}
