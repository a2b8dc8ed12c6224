package attempt

import "github.com/eureka-quiz/web/internal/models"

// InputKind is how a question is answered.
type InputKind string

const (
	InputChoice   InputKind = "choice"   // single-select among options
	InputText     InputKind = "text"     // one line
	InputTextarea InputKind = "textarea" // several lines
)

// KindOf returns the input a question type is answered with.
func KindOf(t models.QuestionType) InputKind {
	switch t {
	case models.QuestionMultipleChoice, models.QuestionTrueFalse:
		return InputChoice
	case models.QuestionEnumeration:
		return InputTextarea
	}
	return InputText
}

// OptionsOf returns the selectable options of a choice question.
func OptionsOf(q models.Question) []string {
	switch q.QuestionType {
	case models.QuestionMultipleChoice:
		return q.Choices
	case models.QuestionTrueFalse:
		return []string{"True", "False"}
	}
	return nil
}

// QuestionView is one question as rendered, with the current answer.
type QuestionView struct {
	ID      int
	Text    string
	Type    models.QuestionType
	Kind    InputKind
	Options []string
	Answer  string
}

// View is a consistent snapshot of an attempt for rendering.
type View struct {
	QuizID    int
	State     State
	Error     string
	NotFound  bool
	Quiz      *models.Quiz
	Questions []QuestionView
	Result    *models.SubmissionResult
	Answers   []models.Answer
	Hidden    bool
	Switches  int
}

// Snapshot copies the attempt's state.
func (f *Flow) Snapshot() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := View{
		QuizID:   f.quizID,
		State:    f.state,
		Error:    f.errMsg,
		NotFound: f.notFound,
		Hidden:   f.hidden,
		Switches: f.switches,
	}
	if f.quiz != nil {
		q := *f.quiz
		v.Quiz = &q
	}
	if f.result != nil {
		r := *f.result
		v.Result = &r
	}
	v.Questions = make([]QuestionView, 0, len(f.questions))
	for _, q := range f.questions {
		v.Questions = append(v.Questions, QuestionView{
			ID:      q.ID,
			Text:    q.QuestionText,
			Type:    q.QuestionType,
			Kind:    KindOf(q.QuestionType),
			Options: OptionsOf(q),
			Answer:  f.answers[q.ID],
		})
	}
	v.Answers = make([]models.Answer, 0, len(f.order))
	for _, id := range f.order {
		v.Answers = append(v.Answers, models.Answer{QuestionID: id, Answer: f.answers[id]})
	}
	return v
}
