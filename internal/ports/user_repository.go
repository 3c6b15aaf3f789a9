package ports

import (
	"context"

	"visit-route-service/internal/domain"
)

// Port: read-only access to user identity snapshots for authorization.
type UserRepository interface {
	// GetByID retrieves a user. Returns domain.ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id int64) (domain.User, error)
}
