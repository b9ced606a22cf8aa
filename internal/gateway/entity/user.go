package entity

import "strings"

const DemoUserID UserID = "demo-user"

// UserID identifies a logical user boundary in gateway services.
// Profiles, chat histories and artifact states are all keyed by it.
type UserID string

// User is a lightweight entity boundary for user-scoped operations.
type User struct {
	ID    UserID
	Email string
}

func NewUser(rawID, email string) User {
	return User{ID: NormalizeUserID(rawID), Email: strings.TrimSpace(email)}
}

func NormalizeUserID(raw string) UserID {
	return UserID(strings.TrimSpace(raw))
}

func (id UserID) String() string {
	return strings.TrimSpace(string(id))
}

func (id UserID) IsZero() bool {
	return id.String() == ""
}
