package session

// User is the identity record owned by the auth service. Immutable from
// this application's perspective.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Profile is the one-to-one public profile keyed by the user id.
// Read-only here: there is no edit-profile flow.
type Profile struct {
	ID        string  `json:"id"`
	Nickname  *string `json:"nickname"`
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio,omitempty"`
}

// Session is the resolved identity of the current client: the user plus
// their profile. Profile may be nil when the profile row has not been
// created yet.
type Session struct {
	User    *User
	Profile *Profile
}

// UserID returns the signed-in user's id, or "" when signed out.
func (s *Session) UserID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.ID
}

// DisplayName prefers the profile nickname and falls back to the email.
func (s *Session) DisplayName() string {
	if s == nil || s.User == nil {
		return ""
	}
	if s.Profile != nil && s.Profile.Nickname != nil && *s.Profile.Nickname != "" {
		return *s.Profile.Nickname
	}
	return s.User.Email
}
