package workflow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"stride/internal/gateway/entity"
	"stride/internal/gateway/repository/artifactstate"
	"stride/internal/gateway/repository/history"
)

// StepNotFoundError rejects step names absent from the schema.
type StepNotFoundError struct {
	Name string
}

func (e *StepNotFoundError) Error() string {
	return fmt.Sprintf("workflow: step %q not found", e.Name)
}

// EmptyResponseError rejects blank step submissions.
type EmptyResponseError struct{}

func (e *EmptyResponseError) Error() string { return "workflow: response cannot be empty" }

// Machine drives the ordered step sequence to the terminal state. Each
// step's final value must be explicitly confirmed before the machine
// advances; an unconfirmed step iterates indefinitely.
type Machine struct {
	schema  *Schema
	states  artifactstate.Repository
	history history.Repository
	refiner Refiner
}

func New(schema *Schema, states artifactstate.Repository, hist history.Repository, refiner Refiner) *Machine {
	if refiner == nil {
		refiner = LocalRefiner{}
	}
	return &Machine{
		schema:  schema,
		states:  states,
		history: hist,
		refiner: refiner,
	}
}

// StepResult is the outcome of one workflow turn.
type StepResult struct {
	Message     string          `json:"message"`
	CurrentStep string          `json:"next_step"`
	History     []history.Entry `json:"chat_history,omitempty"`
}

// State exposes the stored workflow state for the read-only query.
func (m *Machine) State(_ context.Context, userID entity.UserID) (artifactstate.State, error) {
	return m.states.Get(userID, m.schema.First())
}

// StateView is the read-only query response: the stored state plus the
// windowed conversation.
type StateView struct {
	artifactstate.State
	History []history.Entry `json:"chat_history,omitempty"`
}

// View returns the stored state together with the recent conversation.
func (m *Machine) View(ctx context.Context, userID entity.UserID) (StateView, error) {
	st, err := m.State(ctx, userID)
	if err != nil {
		return StateView{}, err
	}
	entries, err := m.history.Get(userID)
	if err != nil {
		log.Printf("load history for %s: %v", userID, err)
	}
	return StateView{State: st, History: entries}, nil
}

// SubmitStep processes one user reply for the named step: it proposes a
// refinement, and commits the pending proposal when the reply confirms it.
// The committed value is always assistant-produced text, never the raw user
// input.
func (m *Machine) SubmitStep(ctx context.Context, userID entity.UserID, stepName, text string) (StepResult, error) {
	step, ok := m.schema.Find(stepName)
	if !ok {
		return StepResult{}, &StepNotFoundError{Name: stepName}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return StepResult{}, &EmptyResponseError{}
	}

	st, err := m.states.Get(userID, m.schema.First())
	if err != nil {
		return StepResult{}, fmt.Errorf("load workflow state: %w", err)
	}

	proposal := m.pendingProposal(userID)
	var assistant string

	if value, ok := confirmedValue(text, proposal); ok {
		// Commit: the agreed text becomes the step value and the machine
		// advances. Echoing it keeps the invariant that the most recent
		// assistant turn is the authoritative value.
		assistant = value
		if st.Data == nil {
			st.Data = make(map[string]string)
		}
		st.Data[step.Name] = value
		st.CurrentStep = m.schema.Advance(step.Name)
	} else {
		if isOffTopic(text) {
			assistant = focusPrompt(step.Name)
		} else {
			assistant = m.refiner.Refine(ctx, step.Name, step.Description, text)
		}
		st.CurrentStep = step.Name
	}

	if err := m.history.Append(userID, history.Entry{User: text, Bot: assistant}); err != nil {
		return StepResult{}, fmt.Errorf("append history: %w", err)
	}
	if err := m.states.Put(st); err != nil {
		return StepResult{}, fmt.Errorf("save workflow state: %w", err)
	}

	entries, err := m.history.Get(userID)
	if err != nil {
		log.Printf("load history for %s: %v", userID, err)
	}
	return StepResult{
		Message:     assistant,
		CurrentStep: st.CurrentStep,
		History:     entries,
	}, nil
}

// confirmedValue resolves what a confirming reply commits: the named option
// from an enumerated proposal, or the whole proposal otherwise. A
// confirmation with nothing proposed yet commits nothing.
func confirmedValue(text, proposal string) (string, bool) {
	if !IsConfirmation(text) {
		return "", false
	}
	proposal = strings.TrimSpace(proposal)
	if proposal == "" {
		return "", false
	}
	if n := chosenOption(text); n > 0 {
		if cands := optionCandidates(proposal); n <= len(cands) {
			return cands[n-1], true
		}
	}
	return proposal, true
}

func (m *Machine) pendingProposal(userID entity.UserID) string {
	entries, err := m.history.Get(userID)
	if err != nil || len(entries) == 0 {
		return ""
	}
	return entries[len(entries)-1].Bot
}
