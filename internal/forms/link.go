package forms

import (
	"strconv"
	"strings"
)

// LinkQuestionForm attaches a bank question to a quiz.
type LinkQuestionForm struct {
	QuestionID string `form:"question_id" validate:"notblank,numeric"`
}

func (LinkQuestionForm) Messages() map[string]string {
	return map[string]string{
		"QuestionID.notblank": "Please select a valid question.",
		"QuestionID.numeric":  "Please select a valid question.",
	}
}

// ID returns the selected question id.
func (f LinkQuestionForm) ID() int {
	n, _ := strconv.Atoi(strings.TrimSpace(f.QuestionID))
	return n
}
