package models

import "time"

// User is the operator's profile document, keyed by the identity principal id.
type User struct {
	ID              string `json:"id" gorm:"primaryKey"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	PhoneNumber     string `json:"phone_number"`
	IsEmailVerified bool   `json:"is_email_verified"`
	CreatedAt       int64  `json:"created_at" gorm:"autoCreateTime:milli"`
}

// NewUser builds a profile with CreatedAt set to now.
func NewUser(id, name, phoneNumber, email string) User {
	return User{
		ID:          id,
		Name:        name,
		PhoneNumber: phoneNumber,
		Email:       email,
		CreatedAt:   NowMillis(),
	}
}

func (u User) DocumentID() string { return u.ID }

// NowMillis returns the current time as epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
