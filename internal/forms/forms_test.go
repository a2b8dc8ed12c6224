package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eureka-quiz/web/internal/models"
)

func violations(t *testing.T, err error) Errors {
	t.Helper()
	require.Error(t, err)
	var ve Errors
	require.ErrorAs(t, err, &ve)
	return ve
}

func TestLoginForm(t *testing.T) {
	assert.NoError(t, Check(LoginForm{Identifier: "ana", Password: "secret1"}))

	ve := violations(t, Check(LoginForm{Identifier: "an", Password: "12345"}))
	assert.Len(t, ve, 2)
	assert.Equal(t, "Email or username is too short.", ve[0].Message)
	assert.Equal(t, "Password is too short.", ve[1].Message)
}

func TestSignupForm(t *testing.T) {
	ok := SignupForm{
		Username:        "ana",
		Email:           "ana@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            "student",
	}
	assert.NoError(t, Check(ok))

	bad := ok
	bad.ConfirmPassword = "secret2"
	assert.Equal(t, "Passwords must match", Message(Check(bad)))

	bad = ok
	bad.Role = "admin"
	assert.Equal(t, "Please select a role", Message(Check(bad)))
}

func TestClassForms(t *testing.T) {
	assert.Equal(t, "Class name cannot be empty!", Message(Check(ClassForm{Name: "   "})))
	assert.NoError(t, Check(ClassForm{Name: "Physics", MaxStudents: 0}))
	assert.Equal(t, "Please enter a class password!", Message(Check(JoinClassForm{Password: " "})))
	assert.Equal(t, "Please enter a student username.", Message(Check(InviteForm{})))
}

func TestQuizFormSchedule(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"end before start", "2024-05-02T10:00", "2024-05-01T10:00", true},
		{"equal", "2024-05-01T10:00", "2024-05-01T10:00", false},
		{"end after start", "2024-05-01T10:00", "2024-05-01T11:00", false},
		{"rfc3339", "2024-05-01T10:00:00Z", "2024-05-01T09:00:00Z", true},
		{"unparsable is not compared", "tomorrow", "2024-05-01T10:00", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(QuizForm{Title: "Quiz 1", StartDate: tt.start, EndDate: tt.end})
			if tt.wantErr {
				assert.Equal(t, "End date cannot be earlier than start date.", Message(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestQuizFormTitleFirst(t *testing.T) {
	ve := violations(t, Check(QuizForm{Title: " ", StartDate: "2024-05-02T10:00", EndDate: "2024-05-01T10:00"}))
	assert.Equal(t, "Quiz title cannot be empty!", ve[0].Message)
	assert.Equal(t, "EndDate", ve[1].Field)
}

func TestQuizFormInput(t *testing.T) {
	f := QuizForm{Title: "Quiz 1", AssignTo: "3", StartDate: "2024-05-01T10:00", EndDate: "2024-05-01T11:00", TimeLimit: "30"}
	assert.Equal(t, models.QuizInput{
		QuizName:        "Quiz 1",
		ClassID:         3,
		ScheduleStart:   "2024-05-01T10:00",
		ScheduleEnd:     "2024-05-01T11:00",
		DurationMinutes: 30,
	}, f.Input())

	f.TimeLimit = "abc"
	assert.Zero(t, f.Input().DurationMinutes)
}

func TestQuestionForm(t *testing.T) {
	tests := []struct {
		name string
		form QuestionForm
		want string
	}{
		{"blank text", QuestionForm{Text: " ", CorrectAnswer: "x"}, "Question text and correct answer cannot be empty!"},
		{"blank answer", QuestionForm{Text: "q", CorrectAnswer: ""}, "Question text and correct answer cannot be empty!"},
		{"unknown type", QuestionForm{Text: "q", CorrectAnswer: "x", Type: "essay"}, "Question type is not supported."},
		{"one real choice", QuestionForm{Text: "q", CorrectAnswer: "a", Type: "multiple choice", ChoicesText: "a, , "}, "Multiple-choice questions require at least two valid options."},
		{"bad true false", QuestionForm{Text: "q", CorrectAnswer: "yes", Type: "true or false"}, "True or False questions require a correct answer of 'True' or 'False'."},
		{"two choices", QuestionForm{Text: "q", CorrectAnswer: "a", Type: "multiple choice", ChoicesText: "a, b"}, ""},
		{"true false any case", QuestionForm{Text: "q", CorrectAnswer: "TRUE", Type: "true or false"}, ""},
		{"defaults to identification", QuestionForm{Text: "q", CorrectAnswer: "x"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.form
			f.Normalize()
			err := Check(f)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, Message(err))
		})
	}
}

func TestQuestionFormInput(t *testing.T) {
	f := QuestionForm{Text: "Is water wet?", Type: "true or false", CorrectAnswer: "True"}
	f.Normalize()
	in := f.Input()
	assert.Equal(t, "True", in.CorrectAnswer)
	assert.Empty(t, in.Choices)

	f = QuestionForm{Text: "Pick", Type: "multiple choice", CorrectAnswer: "b", ChoicesText: " a ,b"}
	f.Normalize()
	assert.Equal(t, []string{"a", "b"}, f.Input().Choices)
}

func TestSplitChoices(t *testing.T) {
	assert.Equal(t, []string{"a", "", "c"}, SplitChoices("a, ,c"))
	assert.Equal(t, 2, NonBlank(SplitChoices("a, ,c")))
}

func TestLinkQuestionForm(t *testing.T) {
	assert.Equal(t, "Please select a valid question.", Message(Check(LinkQuestionForm{})))
	f := LinkQuestionForm{QuestionID: "7"}
	require.NoError(t, Check(f))
	assert.Equal(t, 7, f.ID())
}
