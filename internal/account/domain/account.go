package domain

import "time"

type ID string

type Account struct {
	ID           ID
	FullName     string
	Username     string
	Email        string
	PasswordHash string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}

// Candidate is an account that has not been stored yet. It carries the
// hash, never the plaintext password.
type Candidate struct {
	FullName     string
	Username     string
	Email        string
	PasswordHash string
}

type LoginHistoryEntry struct {
	ID        int64
	AccountID ID
	LoginAt   time.Time
}
