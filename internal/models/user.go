package models

import "time"

// User is a local account for session auth. Password holds the bcrypt hash.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func (u *User) RecordID() string      { return u.ID }
func (u *User) SetRecordID(id string) { u.ID = id }

func (u *User) Stamp(now time.Time, isNew bool) {
	if isNew {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

// Public returns a copy with the password hash stripped, safe for responses.
func (u User) Public() User {
	u.Password = ""
	return u
}
