package workflow

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"stride/internal/gateway/repository/artifactstate"
)

// Step is one stage of the artifact-building sequence.
type Step struct {
	Name        string   `yaml:"step"`
	Description string   `yaml:"description"`
	Input       string   `yaml:"input,omitempty"`
	Choices     []string `yaml:"choices,omitempty"`
	Validation  string   `yaml:"validation,omitempty"`
	// NextStep overrides the positional successor when set.
	NextStep string `yaml:"next_step,omitempty"`
}

// Schema is the ordered step list loaded once at process start.
type Schema struct {
	Steps []Step `yaml:"steps"`
}

// DefaultSchema is the project-definition workflow used when no schema file
// is configured.
func DefaultSchema() *Schema {
	return &Schema{Steps: []Step{
		{
			Name:        "Define Business Problem",
			Description: "State the core business problem the project addresses, in one sentence.",
			Input:       "free text",
		},
		{
			Name:        "Set Project Direction",
			Description: "Set the project direction with a vision statement or OKRs.",
			Input:       "free text",
			Choices:     []string{"vision statement", "OKRs"},
		},
		{
			Name:        "Identify Stakeholders",
			Description: "List the people or groups affected by the project.",
			Input:       "list",
		},
		{
			Name:        "Define Success Metrics",
			Description: "Name the measurable outcomes that would make this project a success.",
			Input:       "free text",
		},
	}}
}

// LoadSchema reads a step schema YAML file, falling back to the default for
// a missing path or file.
func LoadSchema(path string) (*Schema, error) {
	if path == "" {
		return DefaultSchema(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSchema(), nil
		}
		return nil, err
	}
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if len(s.Steps) == 0 {
		return DefaultSchema(), nil
	}
	return &s, nil
}

// Find returns the named step.
func (s *Schema) Find(name string) (Step, bool) {
	if s == nil {
		return Step{}, false
	}
	name = strings.TrimSpace(name)
	for _, step := range s.Steps {
		if step.Name == name {
			return step, true
		}
	}
	return Step{}, false
}

// First returns the initial step name, or the terminal marker for an empty
// schema.
func (s *Schema) First() string {
	if s == nil || len(s.Steps) == 0 {
		return artifactstate.Complete
	}
	return s.Steps[0].Name
}

// Advance computes the successor of current: an explicit next_step wins,
// then the positional next step, then the terminal marker. An unknown
// current step also lands on the terminal marker rather than failing.
func (s *Schema) Advance(current string) string {
	if s == nil {
		return artifactstate.Complete
	}
	for i, step := range s.Steps {
		if step.Name != strings.TrimSpace(current) {
			continue
		}
		if next := strings.TrimSpace(step.NextStep); next != "" {
			return next
		}
		if i+1 < len(s.Steps) {
			return s.Steps[i+1].Name
		}
		return artifactstate.Complete
	}
	return artifactstate.Complete
}
