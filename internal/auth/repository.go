package auth

import (
	"context"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/models"
)

// SignupInput is the body for POST auth/signup/.
type SignupInput struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// Repository performs the backend's authentication calls.
type Repository struct {
	api *apiclient.Client
}

// NewRepository creates an auth repository bound to one client's API adapter.
func NewRepository(api *apiclient.Client) *Repository {
	return &Repository{api: api}
}

// Login exchanges an email or username and a password for a session.
func (r *Repository) Login(ctx context.Context, identifier, password string) (*models.Session, error) {
	body := map[string]string{"email": identifier, "password": password}
	var s models.Session
	if err := r.api.Post(ctx, "auth/login/", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Signup creates an account. The returned token is not used; the user logs in afterwards.
func (r *Repository) Signup(ctx context.Context, in SignupInput) error {
	return r.api.Post(ctx, "auth/signup/", in, nil)
}

// Google exchanges a Google ID token for a session.
func (r *Repository) Google(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	if err := r.api.Post(ctx, "auth/google/", map[string]string{"token": token}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
