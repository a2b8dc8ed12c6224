package questions

import (
	"context"
	"errors"
	"fmt"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/models"
)

// ErrNotFound means the question is not in the bank.
var ErrNotFound = errors.New("question not found")

// Repository performs question bank calls against the backend.
type Repository struct {
	api *apiclient.Client
}

// NewRepository creates a question repository bound to one client's API adapter.
func NewRepository(api *apiclient.Client) *Repository {
	return &Repository{api: api}
}

// List returns the teacher's bank.
func (r *Repository) List(ctx context.Context) ([]models.Question, error) {
	var list []models.Question
	if err := r.api.Get(ctx, "questions/", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Get finds one question in the bank. The backend has no single-question read.
func (r *Repository) Get(ctx context.Context, id int) (*models.Question, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *Repository) Create(ctx context.Context, in models.QuestionInput) error {
	return r.api.Post(ctx, "add-question/", in, nil)
}

func (r *Repository) Update(ctx context.Context, id int, in models.QuestionInput) error {
	return r.api.Patch(ctx, fmt.Sprintf("update-question/%d/", id), in, nil)
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	return r.api.Delete(ctx, fmt.Sprintf("questions/%d/", id))
}
