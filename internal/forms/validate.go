// Package forms is the shared declarative validation contract of every form.
// Field rules live in struct tags; cross-field rules are struct-level
// validators. Failures never reach the backend.
package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Form is implemented by every validated form.
type Form interface {
	// Messages maps "Field.rule" to the user-facing message.
	Messages() map[string]string
}

// Violation is one broken rule.
type Violation struct {
	Field   string
	Rule    string
	Message string
}

// Errors is the list of violations of one form, in rule order.
type Errors []Violation

func (e Errors) Error() string {
	if len(e) == 0 {
		return "invalid form"
	}
	return e[0].Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank: %v", err))
	}
	v.RegisterStructValidation(questionRules, QuestionForm{})
	v.RegisterStructValidation(quizRules, QuizForm{})
	return v
}

// Check validates f and returns Errors, or nil.
func Check(f Form) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := f.Messages()
	out := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := fe.StructField() + "." + fe.Tag()
		msg, ok := msgs[key]
		if !ok {
			msg = fmt.Sprintf("%s is invalid.", humanize(fe.StructField()))
		}
		out = append(out, Violation{Field: fe.StructField(), Rule: fe.Tag(), Message: msg})
	}
	return out
}

// Message returns the first user-facing message carried by err.
func Message(err error) string {
	var ve Errors
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// humanize turns "CorrectAnswer" into "Correct answer".
func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
