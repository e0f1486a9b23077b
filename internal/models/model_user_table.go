package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id int `json:"-" db:"id"`
	// UID public-facing id, serial ids never leave the API
	UID uuid.UUID `json:"uid" db:"uid"`
	// Email Google account email, unique
	Email string `json:"email" db:"email"`
	// FullName display name from the Google profile
	FullName string `json:"full_name" db:"full_name"`
	// Avatar image URL
	Avatar string `json:"avatar" db:"avatar"`
	// ProfileColor hex color assigned once at creation
	ProfileColor string `json:"profile_color" db:"profile_color"`
	// Token OAuth access token, never serialized
	Token     string    `json:"-" db:"token"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Initials used on the avatar placeholder when no image is set.
func (u *User) Initials() string {
	first, last, found := strings.Cut(strings.TrimSpace(u.FullName), " ")
	if found && last != "" && first != "" {
		return strings.ToUpper(first[:1] + last[:1])
	}
	if len(first) >= 2 {
		return strings.ToUpper(first[:2])
	}
	return strings.ToUpper(first)
}
