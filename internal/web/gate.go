package web

import "github.com/sidereusnuntius/chirp/internal/domain"

// Affordances are the parts of the landing page header that may be shown
// for a session.
type Affordances struct {
	Placeholder bool
	SignIn      bool
	SignOut     bool
	Compose     bool
}

// Resolve decides what the header shows. Until the session is loaded only
// the placeholder is rendered.
func Resolve(state domain.SessionState) Affordances {
	switch {
	case !state.Loaded:
		return Affordances{Placeholder: true}
	case state.SignedIn:
		return Affordances{SignOut: true, Compose: true}
	default:
		return Affordances{SignIn: true}
	}
}
