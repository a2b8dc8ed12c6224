package forms

// LoginForm is the login screen. Identifier is an email or a username.
type LoginForm struct {
	Identifier string `form:"email" json:"email" validate:"required,min=3"`
	Password   string `form:"password" json:"password" validate:"required,min=6"`
}

func (LoginForm) Messages() map[string]string {
	return map[string]string{
		"Identifier.required": "Email or username is required.",
		"Identifier.min":      "Email or username is too short.",
		"Password.required":   "Password is required.",
		"Password.min":        "Password is too short.",
	}
}

// SignupForm is the signup screen.
type SignupForm struct {
	Username        string `form:"username" validate:"required,min=3"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `form:"role" validate:"required,oneof=student teacher"`
}

func (SignupForm) Messages() map[string]string {
	return map[string]string{
		"Username.required":        "Username is required.",
		"Username.min":             "Username must be at least 3 characters",
		"Email.required":           "Email is required.",
		"Email.email":              "Invalid email address",
		"Password.required":        "Password is required.",
		"Password.min":             "Password is too short",
		"ConfirmPassword.required": "Please confirm your password.",
		"ConfirmPassword.eqfield":  "Passwords must match",
		"Role.required":            "Please select a role",
		"Role.oneof":               "Please select a role",
	}
}

// ProfileForm is the profile edit screen.
type ProfileForm struct {
	Username string `form:"username" validate:"notblank"`
	Email    string `form:"email" validate:"omitempty,email"`
}

func (ProfileForm) Messages() map[string]string {
	return map[string]string{
		"Username.notblank": "Username cannot be empty.",
		"Email.email":       "Invalid email address",
	}
}

// PasswordForm is the change-password screen.
type PasswordForm struct {
	CurrentPassword string `form:"current_password" validate:"required"`
	NewPassword     string `form:"new_password" validate:"required"`
}

func (PasswordForm) Messages() map[string]string {
	return map[string]string{
		"CurrentPassword.required": "Current password is required.",
		"NewPassword.required":     "New password is required.",
	}
}
