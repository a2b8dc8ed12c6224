package models

// Quiz is a scheduled quiz attached to one class. Schedule values are kept as
// the backend sends them; DurationMinutes is informational only.
type Quiz struct {
	ID              int    `json:"id"`
	QuizName        string `json:"quiz_name"`
	ClassName       string `json:"class_name"`
	ScheduleStart   string `json:"schedule_start"`
	ScheduleEnd     string `json:"schedule_end"`
	DurationMinutes int    `json:"duration_minutes"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// QuizInput is the body for POST /quizzes.
type QuizInput struct {
	QuizName        string `json:"quiz_name"`
	ClassID         int    `json:"class_id"`
	ScheduleStart   string `json:"schedule_start"`
	ScheduleEnd     string `json:"schedule_end"`
	DurationMinutes int    `json:"duration_minutes"`
}

// QuizQuestionLink is the body for POST /quiz-question.
type QuizQuestionLink struct {
	QuizID     int `json:"quiz_id"`
	QuestionID int `json:"question_id"`
}

// Answer is one entry of a submission batch.
type Answer struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

// Submission is the body for POST /quiz/{id}/submit. The integrity fields are
// only sent when integrity reporting is enabled.
type Submission struct {
	Answers          []Answer `json:"answers"`
	IntegrityFlagged *bool    `json:"integrity_flagged,omitempty"`
	TabSwitches      *int     `json:"tab_switches,omitempty"`
}

// SubmissionResult is the grading collaborator's verdict, displayed verbatim.
type SubmissionResult struct {
	Message        string  `json:"message"`
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
}
