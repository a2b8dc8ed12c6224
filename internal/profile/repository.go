package profile

import (
	"context"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/models"
)

// PasswordChange is the body for PUT /profile/password/.
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Repository performs account calls against the backend.
type Repository struct {
	api *apiclient.Client
}

// NewRepository creates a profile repository bound to one client's API adapter.
func NewRepository(api *apiclient.Client) *Repository {
	return &Repository{api: api}
}

func (r *Repository) Get(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := r.api.Get(ctx, "profile/", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update saves username and email and returns the stored account.
func (r *Repository) Update(ctx context.Context, p models.Profile) (*models.Profile, error) {
	var out models.Profile
	if err := r.api.Put(ctx, "profile/update/", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword returns the backend's confirmation message.
func (r *Repository) ChangePassword(ctx context.Context, in PasswordChange) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := r.api.Put(ctx, "profile/password/", in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
