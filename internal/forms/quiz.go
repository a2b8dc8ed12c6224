package forms

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/eureka-quiz/web/internal/models"
)

// scheduleLayouts are the accepted schedule formats, datetime-local first.
var scheduleLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// QuizForm creates a quiz. Duration is free-form and never checked against
// the schedule span.
type QuizForm struct {
	Title     string `form:"title" validate:"notblank"`
	AssignTo  string `form:"assignTo"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	TimeLimit string `form:"timeLimit"`
}

func (QuizForm) Messages() map[string]string {
	return map[string]string{
		"Title.notblank":   "Quiz title cannot be empty!",
		"EndDate.schedule": "End date cannot be earlier than start date.",
	}
}

// ClassID is the selected class, 0 when none or unparsable.
func (f QuizForm) ClassID() int {
	n, _ := strconv.Atoi(strings.TrimSpace(f.AssignTo))
	return n
}

// Input converts the form to the backend body.
func (f QuizForm) Input() models.QuizInput {
	minutes, _ := strconv.Atoi(strings.TrimSpace(f.TimeLimit))
	return models.QuizInput{
		QuizName:        f.Title,
		ClassID:         f.ClassID(),
		ScheduleStart:   f.StartDate,
		ScheduleEnd:     f.EndDate,
		DurationMinutes: minutes,
	}
}

// ParseSchedule parses a schedule value in any accepted layout.
func ParseSchedule(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range scheduleLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// quizRules rejects an end before the start. Equal is accepted; values that
// do not parse are left for the backend to judge.
func quizRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(QuizForm)
	start, okStart := ParseSchedule(f.StartDate)
	end, okEnd := ParseSchedule(f.EndDate)
	if okStart && okEnd && end.Before(start) {
		sl.ReportError(f.EndDate, "endDate", "EndDate", "schedule", "")
	}
}
