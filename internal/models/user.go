package models

// User represents the signed-in parent account. Values come from the backend
// profile endpoint or from the unverified Google credential payload.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture,omitempty"`
	FamilyID string `json:"familyId,omitempty"`
}

// DisplayName returns the name to greet the user with
func (u *User) DisplayName() string {
	if u == nil {
		return "Parent"
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return "Parent"
}

// Session is the persisted authentication state of one browser profile.
// A missing token means logged out, whatever the user record says.
type Session struct {
	Token string
	User  *User
}

// IsAuthenticated reports whether the session carries a token
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}
