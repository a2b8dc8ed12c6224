package classes

import (
	"context"
	"fmt"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/models"
)

// Repository performs a teacher's class calls against the backend.
type Repository struct {
	api *apiclient.Client
}

// NewRepository creates a class repository bound to one client's API adapter.
func NewRepository(api *apiclient.Client) *Repository {
	return &Repository{api: api}
}

// List returns the teacher's classes.
func (r *Repository) List(ctx context.Context) ([]models.Class, error) {
	var list []models.Class
	if err := r.api.Get(ctx, "classes/", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Create creates a class. Capacity is enforced by the backend.
func (r *Repository) Create(ctx context.Context, in models.ClassInput) (*models.Class, error) {
	var c models.Class
	if err := r.api.Post(ctx, "create-class/", in, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Get returns one class with its enrolled students.
func (r *Repository) Get(ctx context.Context, id int) (*models.Class, error) {
	var c models.Class
	if err := r.api.Get(ctx, fmt.Sprintf("classes/%d/", id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update replaces the class's name, secret and capacity.
func (r *Repository) Update(ctx context.Context, id int, in models.ClassInput) (*models.Class, error) {
	var c models.Class
	if err := r.api.Put(ctx, fmt.Sprintf("classes/%d/", id), in, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Invite enrolls a student by username and returns the backend's message.
func (r *Repository) Invite(ctx context.Context, id int, username string) (string, error) {
	var d models.Detail
	err := r.api.Post(ctx, fmt.Sprintf("classes/%d/join/", id), map[string]string{"username": username}, &d)
	return d.Detail, err
}

// Remove unenrolls a student by username and returns the backend's message.
func (r *Repository) Remove(ctx context.Context, id int, username string) (string, error) {
	var d models.Detail
	err := r.api.Post(ctx, fmt.Sprintf("classes/%d/remove-student/", id), map[string]string{"username": username}, &d)
	return d.Detail, err
}
