package history

import "stride/internal/gateway/entity"

// Window is the number of most recent turns exposed to readers. Older turns
// may remain on disk; only the window is part of the engine contract.
const Window = 10

// Entry is one completed (user, assistant) exchange.
type Entry struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

// Repository persists per-user conversation logs. Get returns at most Window
// entries, most recent last. A stored log that fails to parse is reset to
// empty and the reset is persisted; readers never see the corruption.
type Repository interface {
	Get(userID entity.UserID) ([]Entry, error)
	Append(userID entity.UserID, e Entry) error
}
