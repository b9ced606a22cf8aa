package schema

import (
	"fmt"
	"strings"
)

// Kind is the semantic type of a profile field.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindList
)

// Value is a typed update payload for a single field. Exactly one member
// should be set; Set rejects payloads that do not match the field kind.
type Value struct {
	Str  *string
	Int  *int
	List []string
}

// StringValue wraps a string payload.
func StringValue(s string) Value { return Value{Str: &s} }

// IntValue wraps a numeric payload.
func IntValue(n int) Value { return Value{Int: &n} }

// ListValue wraps a list payload.
func ListValue(items []string) Value { return Value{List: items} }

// Field binds a schema entry to its typed accessors on Profile.
type Field struct {
	Name   string
	Kind   Kind
	Prompt string

	get func(*Profile) Value
	set func(*Profile, Value)
}

// ErrUnknownField is reported for field names absent from the schema.
type ErrUnknownField struct {
	Name string
}

func (e *ErrUnknownField) Error() string {
	return fmt.Sprintf("schema: unknown field %q", e.Name)
}

// ErrBadValue is reported when an update payload does not match the field kind.
type ErrBadValue struct {
	Field string
	Kind  Kind
}

func (e *ErrBadValue) Error() string {
	switch e.Kind {
	case KindNumber:
		return fmt.Sprintf("schema: field %q requires an integer value", e.Field)
	case KindList:
		return fmt.Sprintf("schema: field %q requires a list value", e.Field)
	default:
		return fmt.Sprintf("schema: field %q requires a string value", e.Field)
	}
}

// fields holds the declaration order the engine iterates in. The order is the
// order questions are asked; name must stay first (greetings depend on it).
var fields = []Field{
	{
		Name: "name", Kind: KindString, Prompt: "What's your name?",
		get: func(p *Profile) Value { return StringValue(p.Name) },
		set: func(p *Profile, v Value) { p.Name = strings.TrimSpace(*v.Str) },
	},
	{
		Name: "age", Kind: KindNumber, Prompt: "How old are you?",
		get: func(p *Profile) Value { return IntValue(p.Age) },
		set: func(p *Profile, v Value) { p.Age = *v.Int },
	},
	{
		Name: "weekly_mileage", Kind: KindNumber, Prompt: "How many miles do you run per week?",
		get: func(p *Profile) Value { return IntValue(p.WeeklyMileage) },
		set: func(p *Profile, v Value) { p.WeeklyMileage = *v.Int },
	},
	{
		Name: "race_type", Kind: KindString, Prompt: "What type of races do you usually run (e.g., marathon, 5K)?",
		get: func(p *Profile) Value { return StringValue(p.RaceType) },
		set: func(p *Profile, v Value) { p.RaceType = strings.TrimSpace(*v.Str) },
	},
	{
		Name: "best_time", Kind: KindString, Prompt: "What's your best race time?",
		get: func(p *Profile) Value { return StringValue(p.BestTime) },
		set: func(p *Profile, v Value) { p.BestTime = strings.TrimSpace(*v.Str) },
	},
	{
		Name: "best_time_date", Kind: KindString, Prompt: "When did you achieve your best time (YYYY-MM-DD)?",
		get: func(p *Profile) Value { return StringValue(p.BestTimeDate) },
		set: func(p *Profile, v Value) { p.BestTimeDate = strings.TrimSpace(*v.Str) },
	},
	{
		Name: "last_time", Kind: KindString, Prompt: "What was your most recent race time?",
		get: func(p *Profile) Value { return StringValue(p.LastTime) },
		set: func(p *Profile, v Value) { p.LastTime = strings.TrimSpace(*v.Str) },
	},
	{
		Name: "last_time_date", Kind: KindString, Prompt: "When was your most recent race (YYYY-MM-DD)?",
		get: func(p *Profile) Value { return StringValue(p.LastTimeDate) },
		set: func(p *Profile, v Value) { p.LastTimeDate = strings.TrimSpace(*v.Str) },
	},
	{
		Name: "target_race", Kind: KindString, Prompt: "Do you have a target race coming up?",
		get: func(p *Profile) Value { return StringValue(p.TargetRace) },
		set: func(p *Profile, v Value) { p.TargetRace = strings.TrimSpace(*v.Str) },
	},
	{
		Name: "target_time", Kind: KindString, Prompt: "What's your target time for your next race?",
		get: func(p *Profile) Value { return StringValue(p.TargetTime) },
		set: func(p *Profile, v Value) { p.TargetTime = strings.TrimSpace(*v.Str) },
	},
	{
		Name: "injury_history", Kind: KindList, Prompt: "Do you have any injury history? (Respond with 'none' if not)",
		get: func(p *Profile) Value { return ListValue(p.InjuryHistory) },
		set: func(p *Profile, v Value) { p.InjuryHistory = v.List },
	},
	{
		Name: "nutrition", Kind: KindList, Prompt: "Any specific nutrition practices or diet? (Respond with 'none' if not)",
		get: func(p *Profile) Value { return ListValue(p.Nutrition) },
		set: func(p *Profile, v Value) { p.Nutrition = v.List },
	},
}

// Fields returns the schema in declaration order.
func Fields() []Field {
	return fields
}

// Lookup finds a schema field by name.
func Lookup(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Empty applies the field's emptiness predicate. A number equal to zero is
// indistinguishable from unset; a list with only blank entries counts as empty.
func (f Field) Empty(p *Profile) bool {
	if p == nil {
		return true
	}
	v := f.get(p)
	switch f.Kind {
	case KindNumber:
		return v.Int == nil || *v.Int == 0
	case KindList:
		for _, item := range v.List {
			if strings.TrimSpace(item) != "" {
				return false
			}
		}
		return true
	default:
		return v.Str == nil || strings.TrimSpace(*v.Str) == ""
	}
}

// Set writes a typed value into the profile after kind validation.
func (f Field) Set(p *Profile, v Value) error {
	switch f.Kind {
	case KindNumber:
		if v.Int == nil {
			return &ErrBadValue{Field: f.Name, Kind: f.Kind}
		}
	case KindList:
		if v.List == nil {
			return &ErrBadValue{Field: f.Name, Kind: f.Kind}
		}
	default:
		if v.Str == nil {
			return &ErrBadValue{Field: f.Name, Kind: f.Kind}
		}
	}
	f.set(p, v)
	return nil
}

// NextEmpty returns the first outstanding field in declaration order.
// ok is false when the profile is complete.
func NextEmpty(p *Profile) (Field, bool) {
	for _, f := range fields {
		if f.Empty(p) {
			return f, true
		}
	}
	return Field{}, false
}
