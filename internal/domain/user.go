package domain

import "time"

// Account holds the credentials of a local user. It is what the sign-in form is checked against.
type Account struct {
	UserID          int64
	Username        string
	Email           string
	Password        string
	ProfileImageURL string
	Created         time.Time
}

// Author is the public part of a user, joined to every post by the store.
type Author struct {
	ID              int64
	Username        string
	ProfileImageURL string
}

// SessionUser is the identity kept in the login session.
type SessionUser struct {
	ID              int64
	Username        string
	ProfileImageURL string
}

// SessionState is what the session middleware knows about the viewer. Loaded is false only when the session
// store could not be read for the request.
type SessionState struct {
	Loaded   bool
	SignedIn bool
	User     *SessionUser
}

// Author returns the viewer as a post author.
func (u SessionUser) Author() Author {
	return Author{
		ID:              u.ID,
		Username:        u.Username,
		ProfileImageURL: u.ProfileImageURL,
	}
}
