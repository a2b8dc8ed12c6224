package enrollment

import (
	"context"
	"fmt"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/models"
)

// Repository performs a student's enrollment calls against the backend.
type Repository struct {
	api *apiclient.Client
}

// NewRepository creates an enrollment repository bound to one client's API adapter.
func NewRepository(api *apiclient.Client) *Repository {
	return &Repository{api: api}
}

// Joined lists the classes the student is enrolled in.
func (r *Repository) Joined(ctx context.Context) ([]models.JoinedClass, error) {
	var list []models.JoinedClass
	if err := r.api.Get(ctx, "joined-classes/", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Join enrolls the student in the class whose secret is password.
func (r *Repository) Join(ctx context.Context, password string) (string, error) {
	var d models.Detail
	err := r.api.Post(ctx, "join-class/", map[string]string{"password": password}, &d)
	return d.Detail, err
}

// Class returns one class.
func (r *Repository) Class(ctx context.Context, id int) (*models.Class, error) {
	var c models.Class
	if err := r.api.Get(ctx, fmt.Sprintf("classes/%d/", id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Quizzes lists the quizzes of one class.
func (r *Repository) Quizzes(ctx context.Context, classID int) ([]models.Quiz, error) {
	var list []models.Quiz
	if err := r.api.Get(ctx, fmt.Sprintf("classes/%d/quizzes", classID), &list); err != nil {
		return nil, err
	}
	return list, nil
}
