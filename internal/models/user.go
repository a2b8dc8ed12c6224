package models

// Role represents the permission class of an account. Roles are disjoint.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// Session is the client's record of the authenticated identity.
// It is also the durable record stored under the "user" key.
type Session struct {
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	AccessToken string `json:"access_token"`
	Role        Role   `json:"role"`
}

// Profile is the account as returned by GET /profile.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}
