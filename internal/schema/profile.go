package schema

import "strings"

// Profile is the structured record driven to completeness by the engine.
// The user ID is the identity key and never changes after creation.
type Profile struct {
	UserID        string   `json:"user_id"`
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	WeeklyMileage int      `json:"weekly_mileage"`
	RaceType      string   `json:"race_type"`
	BestTime      string   `json:"best_time"`
	BestTimeDate  string   `json:"best_time_date"`
	LastTime      string   `json:"last_time"`
	LastTimeDate  string   `json:"last_time_date"`
	TargetRace    string   `json:"target_race"`
	TargetTime    string   `json:"target_time"`
	InjuryHistory []string `json:"injury_history"`
	Nutrition     []string `json:"nutrition"`

	// LastCheckIn is bookkeeping only; it does not gate completeness.
	LastCheckIn string `json:"last_check_in"`
}

// NewProfile returns a schema-default profile for the given identity.
func NewProfile(userID string) Profile {
	return Profile{
		UserID:        strings.TrimSpace(userID),
		InjuryHistory: []string{},
		Nutrition:     []string{},
	}
}

// Complete reports whether every schema field is non-empty per its kind.
func (p *Profile) Complete() bool {
	if p == nil {
		return false
	}
	for _, f := range Fields() {
		if f.Empty(p) {
			return false
		}
	}
	return true
}
