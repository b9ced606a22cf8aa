package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"stride/internal/composer"
	"stride/internal/gateway/entity"
	"stride/internal/gateway/repository/archive"
	"stride/internal/gateway/repository/history"
	profilerepo "stride/internal/gateway/repository/profile"
	"stride/internal/schema"
)

// Engine drives a profile to completeness one question per outstanding
// field, then routes free-text turns through the composer. General chat is
// gated behind profile completeness.
type Engine struct {
	profiles profilerepo.Repository
	history  history.Repository
	composer *composer.Composer
	archive  archive.Store // optional, best-effort
}

func New(profiles profilerepo.Repository, hist history.Repository, comp *composer.Composer, arch archive.Store) *Engine {
	return &Engine{
		profiles: profiles,
		history:  hist,
		composer: comp,
		archive:  arch,
	}
}

// SessionStart is the first message of a session.
type SessionStart struct {
	Message         string `json:"message"`
	NextField       string `json:"next_field,omitempty"`
	ProfileComplete bool   `json:"profile_complete"`
}

// TurnResult is the outcome of a submitted turn or explicit field update.
type TurnResult struct {
	Response        string          `json:"response"`
	NextField       string          `json:"next_field,omitempty"`
	ProfileComplete bool            `json:"profile_complete"`
	History         []history.Entry `json:"history,omitempty"`
}

// Status is the read-only current-state view.
type Status struct {
	UserID     string         `json:"user_id"`
	Profile    schema.Profile `json:"profile"`
	Complete   bool           `json:"is_complete"`
	NextField  string         `json:"next_empty_field,omitempty"`
	NextPrompt string         `json:"next_prompt,omitempty"`
}

// StartSession loads (or lazily creates) the profile and emits the opening
// message. Calling it repeatedly without intervening updates yields the same
// message: it never mutates state.
func (e *Engine) StartSession(_ context.Context, userID entity.UserID) (SessionStart, error) {
	p, err := e.profiles.Get(userID)
	if err != nil {
		return SessionStart{}, fmt.Errorf("load profile: %w", err)
	}

	if p.Complete() {
		return SessionStart{
			Message:         fmt.Sprintf("Hello %s, how are you today? How can I help you with your running?", p.Name),
			ProfileComplete: true,
		}, nil
	}

	next, _ := schema.NextEmpty(&p)

	// "No name yet" is special-cased before any other field: personalized
	// greetings depend on it.
	if strings.TrimSpace(p.Name) == "" {
		return SessionStart{
			Message:   "Hello, thanks for logging in. Let me get to know you so I can provide better help. What's your name?",
			NextField: "name",
		}, nil
	}
	return SessionStart{
		Message:   fmt.Sprintf("Hello %s, I see your profile isn't complete. %s", p.Name, next.Prompt),
		NextField: next.Name,
	}, nil
}

// SubmitTurn interprets one inbound utterance. While the profile is
// incomplete the turn either sets the name (first contact shortcut) or
// reminds the user of the outstanding field; chat happens only afterwards.
func (e *Engine) SubmitTurn(ctx context.Context, userID entity.UserID, message string) (TurnResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return TurnResult{}, validationErr("message cannot be empty")
	}

	p, err := e.profiles.Get(userID)
	if err != nil {
		return TurnResult{}, fmt.Errorf("load profile: %w", err)
	}

	if !p.Complete() {
		next, _ := schema.NextEmpty(&p)
		if next.Name == "name" {
			// First-contact shortcut: the raw utterance is the name.
			p.Name = message
			if err := e.profiles.Put(p); err != nil {
				return TurnResult{}, fmt.Errorf("save profile: %w", err)
			}
			return e.acknowledgeName(&p, message), nil
		}
		return TurnResult{
			Response:  fmt.Sprintf("Before we chat, let's complete your profile. %s", next.Prompt),
			NextField: next.Name,
		}, nil
	}

	// Profile complete: general conversation path.
	if mood := DetectMood(message); mood == MoodFrustrated {
		log.Printf("user %s sounds %s", userID, mood)
	}

	var response string
	if isVague(message) {
		response = clarifyMessage
	} else {
		response = e.composer.Respond(ctx, &p, e.windowed(userID), message)
	}

	if p.Name != "" && strings.Contains(response, "Hello") {
		response = strings.ReplaceAll(response, "Hello", "Hello "+p.Name)
	}

	turn := history.Entry{User: message, Bot: response}
	if err := e.history.Append(userID, turn); err != nil {
		return TurnResult{}, fmt.Errorf("append history: %w", err)
	}
	e.archiveTurn(ctx, userID, turn)

	return TurnResult{
		Response:        response,
		ProfileComplete: true,
		History:         e.windowed(userID),
	}, nil
}

// SetName stores the user's name after validation.
func (e *Engine) SetName(_ context.Context, userID entity.UserID, name string) (TurnResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TurnResult{}, validationErr("invalid name provided")
	}

	p, err := e.profiles.Get(userID)
	if err != nil {
		return TurnResult{}, fmt.Errorf("load profile: %w", err)
	}
	p.Name = name
	if err := e.profiles.Put(p); err != nil {
		return TurnResult{}, fmt.Errorf("save profile: %w", err)
	}
	return e.acknowledgeName(&p, name), nil
}

// FieldUpdate is an explicit typed update, independent of free-text turns.
type FieldUpdate struct {
	FieldName string
	Value     schema.Value
}

// SetField validates and persists one field, returning the next outstanding
// field exactly as a fresh NextEmpty would.
func (e *Engine) SetField(_ context.Context, userID entity.UserID, update FieldUpdate) (TurnResult, error) {
	field, ok := schema.Lookup(update.FieldName)
	if !ok {
		return TurnResult{}, &schema.ErrUnknownField{Name: update.FieldName}
	}

	p, err := e.profiles.Get(userID)
	if err != nil {
		return TurnResult{}, fmt.Errorf("load profile: %w", err)
	}

	if field.Name == "name" && (update.Value.Str == nil || strings.TrimSpace(*update.Value.Str) == "") {
		return TurnResult{}, validationErr("name cannot be empty")
	}
	if err := field.Set(&p, update.Value); err != nil {
		var bad *schema.ErrBadValue
		if errors.As(err, &bad) {
			return TurnResult{}, &ValidationError{Msg: bad.Error()}
		}
		return TurnResult{}, err
	}
	if err := e.profiles.Put(p); err != nil {
		return TurnResult{}, fmt.Errorf("save profile: %w", err)
	}

	if next, ok := schema.NextEmpty(&p); ok {
		return TurnResult{
			Response:  fmt.Sprintf("Thanks! %s", next.Prompt),
			NextField: next.Name,
		}, nil
	}
	return TurnResult{
		Response:        "Great! Your profile is now complete. How can I help you with your running?",
		ProfileComplete: true,
	}, nil
}

// Status reports the profile, its completeness and the next outstanding
// field without mutating anything.
func (e *Engine) Status(_ context.Context, userID entity.UserID) (Status, error) {
	p, err := e.profiles.Get(userID)
	if err != nil {
		return Status{}, fmt.Errorf("load profile: %w", err)
	}
	st := Status{
		UserID:   userID.String(),
		Profile:  p,
		Complete: p.Complete(),
	}
	if next, ok := schema.NextEmpty(&p); ok {
		st.NextField = next.Name
		st.NextPrompt = next.Prompt
	}
	return st, nil
}

// Profile exposes the stored profile for the read-only query endpoint.
func (e *Engine) Profile(_ context.Context, userID entity.UserID) (schema.Profile, error) {
	return e.profiles.Get(userID)
}

func (e *Engine) acknowledgeName(p *schema.Profile, name string) TurnResult {
	if next, ok := schema.NextEmpty(p); ok {
		return TurnResult{
			Response:  fmt.Sprintf("Nice to meet you, %s! Let's complete your profile. %s", name, next.Prompt),
			NextField: next.Name,
		}
	}
	return TurnResult{
		Response:        fmt.Sprintf("Nice to meet you, %s! Your profile is now complete. How can I help you with your running?", name),
		ProfileComplete: true,
	}
}

func (e *Engine) windowed(userID entity.UserID) []history.Entry {
	entries, err := e.history.Get(userID)
	if err != nil {
		log.Printf("load history for %s: %v", userID, err)
		return nil
	}
	return entries
}

func (e *Engine) archiveTurn(ctx context.Context, userID entity.UserID, turn history.Entry) {
	if e.archive == nil {
		return
	}
	now := time.Now()
	payload, err := json.MarshalIndent(map[string]string{
		"timestamp": now.UTC().Format(time.RFC3339),
		"user_id":   userID.String(),
		"message":   turn.User,
		"response":  turn.Bot,
	}, "", "  ")
	if err != nil {
		return
	}
	if err := e.archive.Put(ctx, archive.HashName(turn.User, now), payload); err != nil {
		log.Printf("archive turn for %s: %v", userID, err)
	}
}
