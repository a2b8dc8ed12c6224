package quiztaking

import (
	"context"
	"fmt"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/models"
)

// Repository reads quizzes and submits answers through the backend API.
type Repository struct {
	api *apiclient.Client
}

// NewRepository creates a repository bound to one client's API adapter.
func NewRepository(api *apiclient.Client) *Repository {
	return &Repository{api: api}
}

func (r *Repository) GetQuiz(ctx context.Context, quizID int) (*models.Quiz, error) {
	var q models.Quiz
	if err := r.api.Get(ctx, fmt.Sprintf("quiz/%d", quizID), &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *Repository) ListQuizQuestions(ctx context.Context, quizID int) ([]models.Question, error) {
	var list []models.Question
	if err := r.api.Get(ctx, fmt.Sprintf("quiz/%d/questions", quizID), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) SubmitQuiz(ctx context.Context, quizID int, sub models.Submission) (*models.SubmissionResult, error) {
	var res models.SubmissionResult
	if err := r.api.Post(ctx, fmt.Sprintf("quiz/%d/submit", quizID), sub, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
