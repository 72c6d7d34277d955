// internal/domain/user.go
package domain

import "time"

// User represents a card owner. The service only ever looks users up; all
// account management happens upstream.
type User struct {
	ID        int64     `db:"id" json:"id"`             // Primary key, BIGSERIAL in DB
	Username  string    `db:"username" json:"username"` // Unique username
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
