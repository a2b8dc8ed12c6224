package forms

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eureka-quiz/web/internal/models"
)

// MinChoices is the least number of non-blank options of a multiple-choice question.
const MinChoices = 2

// QuestionForm is shared by question creation and update.
type QuestionForm struct {
	Text          string   `form:"question_text" json:"question_text" validate:"notblank"`
	Type          string   `form:"question_type" json:"question_type"`
	CorrectAnswer string   `form:"correct_answer" json:"correct_answer" validate:"notblank"`
	ChoicesText   string   `form:"choices" json:"-"`
	Choices       []string `form:"-" json:"choices"`
}

func (QuestionForm) Messages() map[string]string {
	return map[string]string{
		"Text.notblank":           "Question text and correct answer cannot be empty!",
		"CorrectAnswer.notblank":  "Question text and correct answer cannot be empty!",
		"Type.questiontype":       "Question type is not supported.",
		"Choices.minchoices":      "Multiple-choice questions require at least two valid options.",
		"CorrectAnswer.truefalse": "True or False questions require a correct answer of 'True' or 'False'.",
	}
}

// Normalize fills defaults: identification as the type, and Choices from the
// comma-separated text when no list was given.
func (f *QuestionForm) Normalize() {
	if strings.TrimSpace(f.Type) == "" {
		f.Type = string(models.QuestionIdentification)
	}
	if f.Choices == nil && f.ChoicesText != "" {
		f.Choices = SplitChoices(f.ChoicesText)
	}
}

// Input converts the form to the backend body. Choices are only sent for
// multiple choice; the correct answer is sent as typed.
func (f QuestionForm) Input() models.QuestionInput {
	in := models.QuestionInput{
		QuestionText:  f.Text,
		QuestionType:  models.QuestionType(f.Type),
		CorrectAnswer: f.CorrectAnswer,
		Choices:       []string{},
	}
	if in.QuestionType == models.QuestionMultipleChoice && f.Choices != nil {
		in.Choices = f.Choices
	}
	return in
}

// SplitChoices splits comma-separated options and trims each one.
func SplitChoices(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// NonBlank counts entries that are not empty after trimming.
func NonBlank(values []string) int {
	n := 0
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

func questionRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(QuestionForm)
	t := models.QuestionType(f.Type)
	if !t.Known() {
		sl.ReportError(f.Type, "question_type", "Type", "questiontype", "")
		return
	}
	switch t {
	case models.QuestionMultipleChoice:
		if NonBlank(f.Choices) < MinChoices {
			sl.ReportError(f.Choices, "choices", "Choices", "minchoices", "2")
		}
	case models.QuestionTrueFalse:
		answer := strings.ToLower(f.CorrectAnswer)
		if answer != "true" && answer != "false" {
			sl.ReportError(f.CorrectAnswer, "correct_answer", "CorrectAnswer", "truefalse", "")
		}
	}
}
