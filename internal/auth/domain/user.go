package domain

import "time"

type User struct {
	ID           string
	Email        string // unique handle, the token subject
	Username     string
	PasswordHash string // argon2 encoded
	Role         Role
	Active       bool // false means banned/disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
