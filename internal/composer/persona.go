package composer

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Persona holds the role/style preamble and closing constraints prepended to
// every composed instruction.
type Persona struct {
	Role     string `yaml:"role"`
	Reminder string `yaml:"reminder"`
	Refine   string `yaml:"refine"`
}

// DefaultPersona is the running-coach voice used when no persona file is
// configured.
func DefaultPersona() Persona {
	return Persona{
		Role: "You are a **collaborative running coach** who provides **brief, engaging responses**. " +
			"You **MUST keep answers under 50 words** and **ALWAYS end with a follow-up question**. " +
			"DO NOT give lists or detailed breakdowns. Instead, ask the user about their preferences.",
		Reminder: "You MUST keep your response **under 50 words** and **always ask a follow-up question " +
			"to ask if the runner feels good with the recommendation**.",
		Refine: "Rewrite the user's draft as three numbered options, each a single crisp sentence, " +
			"formatted exactly as 'Option 1: ...', 'Option 2: ...', 'Option 3: ...'. " +
			"Do not add anything before or after the options.",
	}
}

// LoadPersona reads a persona YAML file, falling back to the default for a
// missing path or file.
func LoadPersona(path string) (Persona, error) {
	if path == "" {
		return DefaultPersona(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPersona(), nil
		}
		return Persona{}, err
	}
	p := DefaultPersona()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Persona{}, err
	}
	return p, nil
}
