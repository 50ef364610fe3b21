package dto

import "time"

// Account is the public view of an account. The password hash is never
// part of it.
type Account struct {
	ID          string     `json:"id"`
	FullName    string     `json:"full_name"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
