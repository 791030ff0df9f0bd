package models

import "time"

// User is the stored account. PasswordHash is a bcrypt digest; AvatarKey is
// the object storage key of the uploaded avatar, empty when none.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	AvatarKey    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the public part of a User returned to clients.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email}
}
