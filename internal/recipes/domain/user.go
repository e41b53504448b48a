package domain

import "time"

type User struct {
	ID              int64
	Username        string
	Email           string // always lower-case
	PasswordHash    string // argon2 encoded
	IsAdmin         bool
	ProfileImageURL string
	WantsEmails     bool
	CreatedAt       time.Time
}

// UserProfileUpdate carries the optional fields of a profile edit. Nil
// fields are left untouched.
type UserProfileUpdate struct {
	Username    *string
	Password    *string
	WantsEmails *bool
}
