package user

import "time"

// User represents a person in the system. Its ID is the stable member
// identifier every other component keys balances and obligations on.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
