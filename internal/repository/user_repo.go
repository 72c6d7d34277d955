// internal/repository/user_repo.go
package repository

import (
	"context"

	"github.com/Anastazzi-Grand/bank-rest-main/internal/domain"
)

// UserRepository defines the read-only user directory the card service
// consumes. Users are created and managed by an upstream system.
type UserRepository interface {
	// GetByID retrieves a user by their ID using the provided DBExecutor.
	GetByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetByUsername retrieves a user by their username using the provided DBExecutor.
	GetByUsername(ctx context.Context, q DBExecutor, username string) (*domain.User, error)
}
