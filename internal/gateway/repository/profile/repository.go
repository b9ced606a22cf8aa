package profile

import (
	"stride/internal/gateway/entity"
	"stride/internal/schema"
)

// Repository persists one Profile per user. Get creates a schema-default
// profile on first access for an unknown identity; profiles are never
// deleted by this subsystem.
type Repository interface {
	Get(userID entity.UserID) (schema.Profile, error)
	Put(p schema.Profile) error
}
