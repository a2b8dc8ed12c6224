package quizzes

import (
	"context"
	"fmt"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/models"
)

// Repository performs a teacher's quiz calls against the backend.
type Repository struct {
	api *apiclient.Client
}

// NewRepository creates a quiz repository bound to one client's API adapter.
func NewRepository(api *apiclient.Client) *Repository {
	return &Repository{api: api}
}

func (r *Repository) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	var list []models.Quiz
	if err := r.api.Get(ctx, "quizzes/", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) ListClasses(ctx context.Context) ([]models.Class, error) {
	var list []models.Class
	if err := r.api.Get(ctx, "classes/", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) CreateQuiz(ctx context.Context, in models.QuizInput) (*models.Quiz, error) {
	var q models.Quiz
	if err := r.api.Post(ctx, "quizzes/", in, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *Repository) GetQuiz(ctx context.Context, id int) (*models.Quiz, error) {
	var q models.Quiz
	if err := r.api.Get(ctx, fmt.Sprintf("quiz/%d", id), &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *Repository) ListQuizQuestions(ctx context.Context, id int) ([]models.Question, error) {
	var list []models.Question
	if err := r.api.Get(ctx, fmt.Sprintf("quiz/%d/questions", id), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) ListBank(ctx context.Context) ([]models.Question, error) {
	var list []models.Question
	if err := r.api.Get(ctx, "questions/", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) LinkQuestion(ctx context.Context, link models.QuizQuestionLink) error {
	return r.api.Post(ctx, "quiz-question/", link, nil)
}
