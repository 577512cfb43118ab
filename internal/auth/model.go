package auth

import "time"

// Host is an account that owns properties. PasswordHash never leaves the
// server; the json tag strips it from every response.
type Host struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
