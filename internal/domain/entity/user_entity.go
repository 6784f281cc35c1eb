package entity

import (
	"slices"
	"time"
)

// User is the aggregate root for the identity domain.
//
// Password holds a bcrypt hash once persisted. Assigning a new plaintext goes
// through SetPassword so the store knows to hash it before writing.
type User struct {
	ID        string
	Name      string
	Email     string
	Age       int
	Password  string
	Tokens    []string
	Avatar    []byte
	CreatedAt time.Time
	UpdatedAt time.Time

	passwordChanged bool
}

// SetPassword replaces the password with a plaintext value pending hashing.
func (u *User) SetPassword(plain string) {
	u.Password = plain
	u.passwordChanged = true
}

// PasswordChanged reports whether Password holds plaintext that has not been hashed yet.
func (u *User) PasswordChanged() bool { return u.passwordChanged }

// MarkPersisted records that Password now matches what is stored.
func (u *User) MarkPersisted() { u.passwordChanged = false }

// AddToken appends a session token; the most recent token is last.
func (u *User) AddToken(token string) {
	u.Tokens = append(u.Tokens, token)
}

// HasToken reports whether token is one of the user's live sessions.
func (u *User) HasToken(token string) bool {
	return slices.Contains(u.Tokens, token)
}

// RemoveToken drops every entry equal to token, keeping the order of the rest.
func (u *User) RemoveToken(token string) {
	u.Tokens = slices.DeleteFunc(u.Tokens, func(t string) bool { return t == token })
}

// ClearTokens ends every session.
func (u *User) ClearTokens() {
	u.Tokens = []string{}
}

// HasAvatar reports whether an avatar image is stored.
func (u *User) HasAvatar() bool { return len(u.Avatar) > 0 }
