// Package gate decides whether a role-protected view may render.
package gate

import "github.com/eureka-quiz/web/internal/models"

// EntryPath is where rejected navigations are sent.
const EntryPath = "/login"

// Decision is the outcome of an admission check.
type Decision int

const (
	Render Decision = iota
	RedirectToEntry
)

func (d Decision) String() string {
	if d == Render {
		return "render"
	}
	return "redirect_to_entry"
}

// Admit renders iff a session is present and its role equals required.
// There is no elevated access: a teacher never admits a student view.
func Admit(required models.Role, s *models.Session) Decision {
	if s == nil || s.Role != required {
		return RedirectToEntry
	}
	return Render
}

// Landing returns the dashboard path for a role, or the entry path.
func Landing(role models.Role) string {
	switch role {
	case models.RoleStudent:
		return "/student-dashboard"
	case models.RoleTeacher:
		return "/teacher-dashboard"
	}
	return EntryPath
}
