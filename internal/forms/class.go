package forms

import "github.com/eureka-quiz/web/internal/models"

// DefaultMaxStudents prefills the capacity field.
const DefaultMaxStudents = 30

// ClassForm creates or edits a class. Capacity and secret are passed through.
type ClassForm struct {
	Name        string `form:"class_name" validate:"notblank"`
	Password    string `form:"password"`
	MaxStudents int    `form:"max_students"`
}

func (ClassForm) Messages() map[string]string {
	return map[string]string{
		"Name.notblank": "Class name cannot be empty!",
	}
}

// Input converts the form to the backend body.
func (f ClassForm) Input() models.ClassInput {
	return models.ClassInput{ClassName: f.Name, Password: f.Password, MaxStudents: f.MaxStudents}
}

// JoinClassForm is a student joining by class secret.
type JoinClassForm struct {
	Password string `form:"password" validate:"notblank"`
}

func (JoinClassForm) Messages() map[string]string {
	return map[string]string{
		"Password.notblank": "Please enter a class password!",
	}
}

// InviteForm adds or removes a student by username.
type InviteForm struct {
	Username string `form:"username" validate:"notblank"`
}

func (InviteForm) Messages() map[string]string {
	return map[string]string{
		"Username.notblank": "Please enter a student username.",
	}
}
