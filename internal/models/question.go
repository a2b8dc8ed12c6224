package models

// QuestionType is the backend's question kind.
type QuestionType string

const (
	QuestionIdentification QuestionType = "identification"
	QuestionMultipleChoice QuestionType = "multiple choice"
	QuestionEnumeration    QuestionType = "enumeration"
	QuestionTrueFalse      QuestionType = "true or false"
)

// Known reports whether t is a supported question type.
func (t QuestionType) Known() bool {
	switch t {
	case QuestionIdentification, QuestionMultipleChoice, QuestionEnumeration, QuestionTrueFalse:
		return true
	}
	return false
}

// Question is a bank question. Quizzes reference questions, they do not own them.
type Question struct {
	ID            int          `json:"id"`
	QuestionText  string       `json:"question_text"`
	QuestionType  QuestionType `json:"question_type"`
	CorrectAnswer string       `json:"correct_answer"`
	Choices       []string     `json:"choices"`
	CreatedBy     string       `json:"created_by,omitempty"`
	IsInBank      bool         `json:"is_in_bank,omitempty"`
}

// QuestionInput is the body for POST /add-question and PATCH /update-question/{id}.
type QuestionInput struct {
	QuestionText  string       `json:"question_text"`
	QuestionType  QuestionType `json:"question_type"`
	CorrectAnswer string       `json:"correct_answer"`
	Choices       []string     `json:"choices"`
}
