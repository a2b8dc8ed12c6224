package models

import "encoding/json"

// Class is a teacher-owned class. Enrollment capacity is enforced by the backend.
type Class struct {
	ID               int      `json:"id"`
	ClassName        string   `json:"class_name"`
	TeacherName      string   `json:"teacher_name,omitempty"`
	MaxStudents      int      `json:"max_students"`
	Password         string   `json:"password,omitempty"`
	EnrolledStudents []string `json:"enrolled_students"`
}

// UnmarshalJSON accepts both the list shape ({id, class_name}) and the
// create-class shape ({class_id, class_name}) as well as a bare "name".
func (c *Class) UnmarshalJSON(data []byte) error {
	type plain Class
	var aux struct {
		plain
		ClassID int    `json:"class_id"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Class(aux.plain)
	if c.ID == 0 {
		c.ID = aux.ClassID
	}
	if c.ClassName == "" {
		c.ClassName = aux.Name
	}
	return nil
}

// ClassInput is the body for POST /create-class and PUT /classes/{id}.
type ClassInput struct {
	ClassName   string `json:"class_name"`
	Password    string `json:"password"`
	MaxStudents int    `json:"max_students"`
}

// JoinedClass is a row of GET /joined-classes.
type JoinedClass struct {
	ClassID               int    `json:"class_id"`
	ClassName             string `json:"class_name"`
	TeacherName           string `json:"teacher_name"`
	MaxStudents           int    `json:"max_students"`
	EnrolledStudentsCount int    `json:"enrolled_students_count"`
}

// Detail is the common {"detail": "..."} acknowledgement body.
type Detail struct {
	Detail string `json:"detail"`
}
